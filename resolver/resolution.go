package resolver

import (
	"strings"

	"github.com/src-d/crudproto/protobuf"
)

// resolution holds the symbols of a single Resolve call and visits every
// node of the tree. Local symbols are keyed by their dotted path from the
// namespace that declares them. scopes is the path of the message being
// visited.
type resolution struct {
	wellKnown map[string]protobuf.RefKind
	symbols   map[string]protobuf.RefKind
	scopes    []string
	parent    *protobuf.Type
}

func (r *resolution) index(prefix string, nodes []protobuf.Node) {
	for _, n := range nodes {
		switch n := n.(type) {
		case *protobuf.Enum:
			r.symbols[qualify(prefix, n.Name)] = protobuf.RefEnum
		case *protobuf.Type:
			name := qualify(prefix, n.Name)
			r.symbols[name] = protobuf.RefMessage
			r.index(name, n.Declarations())
		case *protobuf.Namespace:
			r.index(prefix, n.Nested)
		}
	}
}

func qualify(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

// lookup finds the kind of the given type name, searching from the innermost
// message scope outwards, as protobuf does.
func (r *resolution) lookup(name string) (protobuf.RefKind, bool) {
	if _, ok := protobuf.ScalarKind(name); ok {
		return protobuf.RefScalar, true
	}

	if kind, ok := r.wellKnown[name]; ok {
		return kind, true
	}

	for i := len(r.scopes); i >= 0; i-- {
		prefix := strings.Join(r.scopes[:i], ".")
		if kind, ok := r.symbols[qualify(prefix, name)]; ok {
			return kind, true
		}
	}
	return protobuf.RefUnresolved, false
}

func (r *resolution) visit(n protobuf.Node) error {
	if n == nil {
		return protobuf.ErrUnknownNodeType
	}
	return n.Accept(r)
}

func (r *resolution) VisitEnum(e *protobuf.Enum) error {
	if len(e.Values) == 0 || e.Values[0].Value != 0 {
		return &FirstEnumValueError{Enum: e.Name}
	}
	return nil
}

func (r *resolution) VisitType(t *protobuf.Type) error {
	parent := r.parent
	r.parent = t
	r.scopes = append(r.scopes, t.Name)
	defer func() {
		r.parent = parent
		r.scopes = r.scopes[:len(r.scopes)-1]
	}()

	numbers := make(map[int]string)
	for _, f := range t.Fields() {
		if f.Number < 1 || f.Number > protobuf.MaxFieldNumber {
			return &FieldNumberError{Message: t.Name, Field: f.Name, Number: f.Number}
		}
		if other, ok := numbers[f.Number]; ok {
			return &FieldNumberError{Message: t.Name, Field: f.Name, Number: f.Number, Other: other}
		}
		numbers[f.Number] = f.Name
	}

	for _, n := range t.Nested {
		if err := r.visit(n); err != nil {
			return err
		}
	}
	return nil
}

func (r *resolution) VisitField(f *protobuf.Field) error {
	kind, ok := r.lookup(f.Type)
	if !ok {
		return &UnresolvedTypeError{Type: f.Type, Scope: r.scope(f.Name)}
	}

	if f.Rule == protobuf.RuleMap {
		if !isMapKey(f.KeyType) {
			return &InvalidMapKeyError{Field: r.scope(f.Name), Type: f.KeyType}
		}
	}

	f.Ref = kind
	return nil
}

// isMapKey reports whether the type can be the key of a map. Those are the
// integral and string scalars.
func isMapKey(typ string) bool {
	switch typ {
	case "float", "double", "bytes":
		return false
	}
	_, ok := protobuf.ScalarKind(typ)
	return ok
}

func (r *resolution) VisitOneOf(o *protobuf.OneOf) error {
	for _, name := range o.Members {
		if r.parent == nil || r.parent.Field(name) == nil {
			return &protobuf.FieldNotFoundError{Name: name, OneOf: o.Name}
		}
	}
	return nil
}

func (r *resolution) VisitService(s *protobuf.Service) error {
	for _, m := range s.Methods {
		if err := r.visit(m); err != nil {
			return err
		}
	}
	return nil
}

func (r *resolution) VisitMethod(m *protobuf.Method) error {
	for _, typ := range []string{m.RequestType, m.ResponseType} {
		kind, ok := r.lookup(typ)
		if !ok {
			return &UnresolvedTypeError{Type: typ, Scope: m.Name}
		}
		if kind != protobuf.RefMessage && kind != protobuf.RefWellKnown {
			return &NotAMessageError{Method: m.Name, Type: typ}
		}
	}
	return nil
}

func (r *resolution) VisitNamespace(n *protobuf.Namespace) error {
	for _, c := range n.Nested {
		if err := r.visit(c); err != nil {
			return err
		}
	}
	return nil
}

func (r *resolution) scope(name string) string {
	return qualify(strings.Join(r.scopes, "."), name)
}
