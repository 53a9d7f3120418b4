package scanner

// Document is a scanned data model: the entities and enums declared in it.
type Document struct {
	Models []*Model `json:"models" yaml:"models"`
	Enums  []*Enum  `json:"enums" yaml:"enums"`
}

// Model returns the model with the given name or nil.
func (d *Document) Model(name string) *Model {
	for _, m := range d.Models {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// Model is a single entity of the data model.
type Model struct {
	Name   string   `json:"name" yaml:"name"`
	Fields []*Field `json:"fields" yaml:"fields"`
}

// RelationKeys returns the names of the fields that hold the foreign keys of
// the model relations. Those are represented by the relation field itself.
func (m *Model) RelationKeys() map[string]bool {
	keys := make(map[string]bool)
	for _, f := range m.Fields {
		for _, k := range f.RelationFromFields {
			keys[k] = true
		}
	}
	return keys
}

// FieldKind is the kind of a model field.
type FieldKind string

const (
	ScalarKind   FieldKind = "scalar"
	EnumKind     FieldKind = "enum"
	ObjectKind   FieldKind = "object"
	RelationKind FieldKind = "relation"
)

// Field is a field of a model. Type is the scalar subtype for scalar fields
// and the name of the referenced enum or model otherwise. Generated fields
// get their value from the store and are not part of the create input.
type Field struct {
	Name               string    `json:"name" yaml:"name"`
	Kind               FieldKind `json:"kind" yaml:"kind"`
	Type               string    `json:"type" yaml:"type"`
	IsList             bool      `json:"isList" yaml:"isList"`
	IsRequired         bool      `json:"isRequired" yaml:"isRequired"`
	IsUnique           bool      `json:"isUnique" yaml:"isUnique"`
	IsID               bool      `json:"isId" yaml:"isId"`
	IsGenerated        bool      `json:"isGenerated" yaml:"isGenerated"`
	RelationName       string    `json:"relationName" yaml:"relationName"`
	RelationFromFields []string  `json:"relationFromFields" yaml:"relationFromFields"`
}

// IsScalar reports whether the field is a scalar.
func (f *Field) IsScalar() bool {
	return f.Kind == ScalarKind
}

// IsIdentifying reports whether the field alone identifies a record.
func (f *Field) IsIdentifying() bool {
	return f.IsUnique || f.IsID
}

// Enum is an enumeration of the data model.
type Enum struct {
	Name   string       `json:"name" yaml:"name"`
	Values []*EnumValue `json:"values" yaml:"values"`
}

// EnumValue is a single value of an enumeration.
type EnumValue struct {
	Name string `json:"name" yaml:"name"`
}
