package protobuf

import (
	"fmt"
	"strings"

	"github.com/src-d/crudproto/report"
	"github.com/src-d/crudproto/scanner"
)

// Transformer is in charge of converting a scanned data model to a protobuf
// schema, synthesizing the CRUD messages and services of every model.
type Transformer struct {
	config Config
}

// NewTransformer creates a new transformer with the given config.
func NewTransformer(config Config) *Transformer {
	return &Transformer{config}
}

// MapSchema converts a whole document. Nothing is returned if any part of
// the document cannot be mapped.
func (t *Transformer) MapSchema(doc *scanner.Document) (*Root, error) {
	root := NewRoot()
	root.SetOptions(t.config.FileOptions)

	ns := &root.Namespace
	for _, seg := range strings.Split(t.config.Namespace, ".") {
		if seg == "" {
			continue
		}
		child := NewNamespace(seg)
		ns.Add(child)
		ns = child
	}

	if !t.config.DisableCRUD {
		ns.Add(sortOrder())
		for _, scalar := range scalarSubtypes(doc) {
			where, err := t.scalarWhereInput(scalar)
			if err != nil {
				return nil, err
			}
			ns.Add(where)
		}
	}

	for _, e := range doc.Enums {
		ns.Add(t.MapEnum(e))
	}

	for _, m := range doc.Models {
		nodes, err := t.MapModel(m)
		if err != nil {
			return nil, fmt.Errorf("model %s: %w", m.Name, err)
		}
		ns.Add(nodes...)
	}

	return root, nil
}

func sortOrder() *Enum {
	e := NewEnum("SortOrder")
	e.Values.Add("ASC", 0)
	e.Values.Add("DESC", 1)
	return e
}

// scalarSubtypes returns every scalar subtype used in the document, in order
// of first use.
func scalarSubtypes(doc *scanner.Document) []string {
	var (
		result []string
		seen   = make(map[string]struct{})
	)

	for _, m := range doc.Models {
		for _, f := range m.Fields {
			if !f.IsScalar() {
				continue
			}
			if _, ok := seen[f.Type]; ok {
				continue
			}
			seen[f.Type] = struct{}{}
			result = append(result, f.Type)
		}
	}
	return result
}

func (t *Transformer) scalarWhereInput(scalar string) (*Type, error) {
	typ, err := t.scalarType(scalar)
	if err != nil {
		return nil, err
	}

	return NewType(whereInputName(scalar)).Add(
		NewField("equals", 1, typ, RuleOptional),
		NewField("in", 2, typ, RuleRepeated),
	), nil
}

func whereInputName(name string) string {
	return name + "WhereInput"
}

// MapEnum converts an enum. UNKNOWN is always the first value, with ordinal
// 0, and the declared values follow starting at 1.
func (t *Transformer) MapEnum(e *scanner.Enum) *Enum {
	names := make([]string, len(e.Values))
	for i, v := range e.Values {
		names[i] = v.Name
	}
	return newSentinelEnum(e.Name, names)
}

func newSentinelEnum(name string, values []string) *Enum {
	enum := NewEnum(name)
	enum.Values.Add("UNKNOWN", 0)
	for i, v := range values {
		enum.Values.Add(v, i+1)
	}
	return enum
}

// MapField converts a field, giving it the provided number.
func (t *Transformer) MapField(f *scanner.Field, number int) (*Field, error) {
	rule := RuleOptional
	switch {
	case f.IsList:
		rule = RuleRepeated
	case f.IsRequired:
		rule = RuleRequired
	}

	var typ string
	switch f.Kind {
	case scanner.EnumKind, scanner.ObjectKind, scanner.RelationKind:
		typ = f.Type
	case scanner.ScalarKind:
		var err error
		if typ, err = t.scalarType(f.Type); err != nil {
			return nil, err
		}
	default:
		return nil, &UnsupportedFieldKindError{Kind: string(f.Kind), Field: f.Name}
	}

	return NewField(f.Name, number, typ, rule), nil
}

func (t *Transformer) scalarType(scalar string) (string, error) {
	typ, ok := ScalarTypes[scalar]
	if !ok {
		return "", &UnsupportedScalarTypeError{Name: scalar}
	}

	// qualified names are well-known types and must be importable
	if strings.Contains(typ, ".") {
		if _, ok := t.config.ImportTable().Lookup(typ); !ok {
			return "", &UnsupportedScalarTypeError{Name: scalar}
		}
	}
	return typ, nil
}

// mapFields converts the given fields numbering them from 1.
func (t *Transformer) mapFields(msg *Type, fields []*scanner.Field) error {
	for i, f := range fields {
		field, err := t.MapField(f, i+1)
		if err != nil {
			return err
		}
		msg.Add(field)
	}
	return nil
}

func filterFields(fields []*scanner.Field, keep func(*scanner.Field) bool) []*scanner.Field {
	var result []*scanner.Field
	for _, f := range fields {
		if keep(f) {
			result = append(result, f)
		}
	}
	return result
}

func fieldNames(fields []*scanner.Field) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

// addOneOf adds a oneof over the given members, unless there are none.
func addOneOf(msg *Type, name string, members []string) {
	if len(members) == 0 {
		report.Warn("oneof %s of message %s has no fields and will not be generated", name, msg.Name)
		return
	}
	msg.Add(NewOneOf(name, members...))
}

// MapModel converts a model into its message followed, unless CRUD is
// disabled, by the scalar field enum, the create, find unique, find many and
// delete families and the service grouping all of their methods.
func (t *Transformer) MapModel(m *scanner.Model) ([]Node, error) {
	keys := m.RelationKeys()
	notKey := func(f *scanner.Field) bool { return !keys[f.Name] }

	mapped := NewType(m.Name)
	if err := t.mapFields(mapped, filterFields(m.Fields, notKey)); err != nil {
		return nil, err
	}

	if t.config.DisableCRUD {
		return []Node{mapped}, nil
	}

	var (
		name         = m.Name
		plural       = pluralize(m.Name)
		single       = lowerFirst(name)
		many         = lowerFirst(plural)
		scalarFields = filterFields(m.Fields, (*scanner.Field).IsScalar)
		service      = NewService(name + "Service")
	)

	scalars := newSentinelEnum(name+"ScalarField", fieldNames(scalarFields))

	// create
	createInput := NewType(fmt.Sprintf("Create%sInput", name))
	createFields := filterFields(m.Fields, func(f *scanner.Field) bool {
		return !f.IsGenerated && notKey(f)
	})
	if err := t.mapFields(createInput, createFields); err != nil {
		return nil, err
	}

	creator := NewType(fmt.Sprintf("Create%sRequest", name)).
		Add(NewField(single, 1, createInput.Name, RuleOptional))
	created := NewType(fmt.Sprintf("Create%sResponse", name)).
		Add(NewField(single, 1, mapped.Name, RuleOptional))
	service.Add(NewMethod("create"+name, creator.Name, created.Name))

	manyCreator := NewType(fmt.Sprintf("CreateMany%sRequest", plural)).
		Add(NewField(many, 1, createInput.Name, RuleRepeated))
	manyCreated := NewType(fmt.Sprintf("CreateMany%sResponse", plural)).
		Add(NewField(many, 1, mapped.Name, RuleRepeated))
	service.Add(NewMethod("createMany"+plural, manyCreator.Name, manyCreated.Name))

	// find unique
	uniqueInput := NewType(name + "WhereUniqueInput")
	uniqueFields := filterFields(m.Fields, (*scanner.Field).IsIdentifying)
	if err := t.mapFields(uniqueInput, uniqueFields); err != nil {
		return nil, err
	}
	addOneOf(uniqueInput, "where", fieldNames(uniqueFields))

	findUnique := NewType(fmt.Sprintf("FindUnique%sRequest", name)).
		Add(NewField("where", 1, uniqueInput.Name, RuleOptional))
	service.Add(NewMethod("findUnique"+name, findUnique.Name, mapped.Name))

	// find many
	whereInput := NewType(whereInputName(name)).Add(
		NewField("and", 1, whereInputName(name), RuleRepeated),
		NewField("or", 2, whereInputName(name), RuleRepeated),
		NewField("not", 3, whereInputName(name), RuleRepeated),
	)
	for i, f := range scalarFields {
		whereInput.Add(NewField(f.Name, i+4, whereInputName(f.Type), RuleOptional))
	}

	orderBy := NewType(name + "OrderByInput")
	orderables := filterFields(scalarFields, notKey)
	for i, f := range orderables {
		orderBy.Add(NewField(f.Name, i+1, sortOrder().Name, RuleOptional))
	}
	addOneOf(orderBy, "field", fieldNames(orderables))

	findMany := NewType(fmt.Sprintf("FindMany%sRequest", plural)).Add(
		NewField("where", 1, whereInput.Name, RuleOptional),
		NewField("orderBy", 2, orderBy.Name, RuleRepeated),
		NewField("cursor", 3, uniqueInput.Name, RuleOptional),
		NewField("take", 4, "uint32", RuleOptional),
		NewField("skip", 5, "int32", RuleOptional),
		NewField("distinct", 6, scalars.Name, RuleRepeated),
	)
	foundMany := NewType(fmt.Sprintf("FindMany%sResponse", plural)).
		Add(NewField(many, 1, mapped.Name, RuleRepeated))

	// the oneof leaves room for framing records with errors or metadata
	foundStream := NewType(fmt.Sprintf("FindMany%sStreamResponse", plural)).Add(
		NewField(single, 1, mapped.Name, RuleOptional),
		NewOneOf("case", single),
	)

	service.Add(NewMethod("findMany"+plural, findMany.Name, foundMany.Name))
	streamed := NewMethod(fmt.Sprintf("findMany%sStreamed", plural), findMany.Name, foundStream.Name)
	streamed.ResponseStream = true
	service.Add(streamed)

	// delete
	deleter := NewType(fmt.Sprintf("Delete%sRequest", name)).
		Add(NewField(single, 1, uniqueInput.Name, RuleOptional))
	deleted := NewType(fmt.Sprintf("Delete%sResponse", name)).
		Add(NewField(single, 1, mapped.Name, RuleOptional))
	service.Add(NewMethod("delete"+name, deleter.Name, deleted.Name))

	manyDeleter := NewType(fmt.Sprintf("DeleteMany%sRequest", plural)).
		Add(NewField("where", 1, whereInput.Name, RuleOptional))
	manyDeleted := NewType(fmt.Sprintf("DeleteMany%sResponse", plural)).
		Add(NewField("count", 1, "uint32", RuleOptional))
	service.Add(NewMethod("deleteMany"+plural, manyDeleter.Name, manyDeleted.Name))

	return []Node{
		mapped, scalars,
		creator, createInput, created, manyCreator, manyCreated,
		findUnique, uniqueInput,
		findMany, whereInput, foundMany, foundStream,
		orderBy,
		deleter, deleted, manyDeleter, manyDeleted,
		service,
	}, nil
}
