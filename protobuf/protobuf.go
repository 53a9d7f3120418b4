package protobuf

import (
	"sort"
	"strconv"
	"strings"
)

// MaxFieldNumber is the highest field number protobuf allows.
const MaxFieldNumber = 1<<29 - 1

// Node is a declaration of the schema tree. The set of nodes is closed: it
// is only implemented by Enum, Type, Field, OneOf, Service, Method and
// Namespace, and every consumer dispatches through a Visitor, so adding a
// new kind of node does not compile until all visitors handle it.
type Node interface {
	NodeName() string
	NodeOptions() Options
	Accept(Visitor) error
	isNode()
}

// Visitor has one method per kind of Node.
type Visitor interface {
	VisitEnum(*Enum) error
	VisitType(*Type) error
	VisitField(*Field) error
	VisitOneOf(*OneOf) error
	VisitService(*Service) error
	VisitMethod(*Method) error
	VisitNamespace(*Namespace) error
}

// Namespace is a named container of declarations.
type Namespace struct {
	Name    string
	Options Options
	Nested  []Node
}

// NewNamespace returns an empty namespace with the given name.
func NewNamespace(name string) *Namespace {
	return &Namespace{Name: name}
}

// Add appends the given nodes to the namespace.
func (n *Namespace) Add(nodes ...Node) *Namespace {
	n.Nested = append(n.Nested, nodes...)
	return n
}

// Get returns the direct child with the given name or nil.
func (n *Namespace) Get(name string) Node {
	for _, c := range n.Nested {
		if c.NodeName() == name {
			return c
		}
	}
	return nil
}

// Root is the top of the schema tree. Its options are the file options.
type Root struct {
	Namespace
}

// NewRoot returns an empty root.
func NewRoot() *Root {
	return &Root{}
}

// SetOptions replaces the file options with a copy of the given ones.
func (r *Root) SetOptions(opts Options) {
	r.Options = opts.Clone()
}

// Type is the representation of a protobuf message. Its nested nodes are
// fields, oneofs and nested messages or enums, in declaration order.
type Type struct {
	Name     string
	Options  Options
	Nested   []Node
	Reserved Reserved
}

// NewType returns an empty message with the given name.
func NewType(name string) *Type {
	return &Type{Name: name}
}

// Add appends the given nodes to the message.
func (t *Type) Add(nodes ...Node) *Type {
	t.Nested = append(t.Nested, nodes...)
	return t
}

// Reserve reserves field numbers or names in the message.
func (t *Type) Reserve(entries ...ReservedEntry) {
	t.Reserved = append(t.Reserved, entries...)
}

// Fields returns the fields of the message, oneof members included.
func (t *Type) Fields() []*Field {
	var fields []*Field
	for _, n := range t.Nested {
		if f, ok := n.(*Field); ok {
			fields = append(fields, f)
		}
	}
	return fields
}

// Field returns the field with the given name or nil.
func (t *Type) Field(name string) *Field {
	for _, f := range t.Fields() {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// OneOfs returns the oneofs of the message.
func (t *Type) OneOfs() []*OneOf {
	var oneofs []*OneOf
	for _, n := range t.Nested {
		if o, ok := n.(*OneOf); ok {
			oneofs = append(oneofs, o)
		}
	}
	return oneofs
}

// Declarations returns the nested nodes that are neither fields nor oneofs.
func (t *Type) Declarations() []Node {
	var decls []Node
	for _, n := range t.Nested {
		switch n.(type) {
		case *Field, *OneOf:
		default:
			decls = append(decls, n)
		}
	}
	return decls
}

// FieldRule is the cardinality of a field.
type FieldRule int

const (
	RuleOptional FieldRule = iota
	RuleRequired
	RuleRepeated
	RuleMap
)

func (r FieldRule) String() string {
	switch r {
	case RuleOptional:
		return "optional"
	case RuleRequired:
		return "required"
	case RuleRepeated:
		return "repeated"
	case RuleMap:
		return "map"
	}
	return "FieldRule(" + strconv.Itoa(int(r)) + ")"
}

// RefKind tells what a field type refers to. It is set by the resolver.
type RefKind int

const (
	RefUnresolved RefKind = iota
	RefScalar
	RefEnum
	RefMessage
	RefWellKnown
)

// Field is the representation of a protobuf message field. For map fields,
// Type is the type of the values.
type Field struct {
	Name    string
	Number  int
	Type    string
	KeyType string
	Rule    FieldRule
	Options Options
	Ref     RefKind
}

// NewField returns a field with the given name, number, type and rule.
func NewField(name string, number int, typ string, rule FieldRule) *Field {
	return &Field{Name: name, Number: number, Type: typ, Rule: rule}
}

// NewMapField returns a map field from keyType to valueType.
func NewMapField(name string, number int, keyType, valueType string) *Field {
	return &Field{Name: name, Number: number, Type: valueType, KeyType: keyType, Rule: RuleMap}
}

// IsRepeated reports whether the field holds a list.
func (f *Field) IsRepeated() bool {
	return f.Rule == RuleRepeated
}

// OneOf is a group of fields of the same message of which at most one is set.
type OneOf struct {
	Name    string
	Options Options
	Members []string
}

// NewOneOf returns a oneof over the given field names.
func NewOneOf(name string, members ...string) *OneOf {
	return &OneOf{Name: name, Members: members}
}

// Enum is the representation of a protobuf enumeration.
type Enum struct {
	Name    string
	Options Options
	Values  EnumValues
}

// NewEnum returns an empty enum with the given name.
func NewEnum(name string) *Enum {
	return &Enum{Name: name}
}

// EnumValues is a collection of enumeration values in declaration order.
type EnumValues []*EnumValue

// Add appends a value to the collection.
func (v *EnumValues) Add(name string, val int) {
	*v = append(*v, &EnumValue{Name: name, Value: val})
}

// Get returns the ordinal of the value with the given name.
func (v EnumValues) Get(name string) (int, bool) {
	for _, ev := range v {
		if ev.Name == name {
			return ev.Value, true
		}
	}
	return 0, false
}

// EnumValue is a single value in an enumeration.
type EnumValue struct {
	Name  string
	Value int
}

// Service is the representation of a protobuf service.
type Service struct {
	Name    string
	Options Options
	Methods []*Method
}

// NewService returns an empty service with the given name.
func NewService(name string) *Service {
	return &Service{Name: name}
}

// Add appends the given methods to the service.
func (s *Service) Add(methods ...*Method) *Service {
	s.Methods = append(s.Methods, methods...)
	return s
}

// Method is a single rpc of a service.
type Method struct {
	Name           string
	Options        Options
	RequestType    string
	ResponseType   string
	RequestStream  bool
	ResponseStream bool
}

// NewMethod returns a unary method.
func NewMethod(name, request, response string) *Method {
	return &Method{Name: name, RequestType: request, ResponseType: response}
}

func (n *Namespace) NodeName() string { return n.Name }
func (t *Type) NodeName() string      { return t.Name }
func (f *Field) NodeName() string     { return f.Name }
func (o *OneOf) NodeName() string     { return o.Name }
func (e *Enum) NodeName() string      { return e.Name }
func (s *Service) NodeName() string   { return s.Name }
func (m *Method) NodeName() string    { return m.Name }

func (n *Namespace) NodeOptions() Options { return n.Options }
func (t *Type) NodeOptions() Options      { return t.Options }
func (f *Field) NodeOptions() Options     { return f.Options }
func (o *OneOf) NodeOptions() Options     { return o.Options }
func (e *Enum) NodeOptions() Options      { return e.Options }
func (s *Service) NodeOptions() Options   { return s.Options }
func (m *Method) NodeOptions() Options    { return m.Options }

func (n *Namespace) Accept(v Visitor) error { return v.VisitNamespace(n) }
func (t *Type) Accept(v Visitor) error      { return v.VisitType(t) }
func (f *Field) Accept(v Visitor) error     { return v.VisitField(f) }
func (o *OneOf) Accept(v Visitor) error     { return v.VisitOneOf(o) }
func (e *Enum) Accept(v Visitor) error      { return v.VisitEnum(e) }
func (s *Service) Accept(v Visitor) error   { return v.VisitService(s) }
func (m *Method) Accept(v Visitor) error    { return v.VisitMethod(m) }

func (*Namespace) isNode() {}
func (*Type) isNode()      {}
func (*Field) isNode()     {}
func (*OneOf) isNode()     {}
func (*Enum) isNode()      {}
func (*Service) isNode()   {}
func (*Method) isNode()    {}

// Reserved is the list of reserved field numbers and names of a message.
type Reserved []ReservedEntry

// ReservedEntry is either a ReservedName or a ReservedRange.
type ReservedEntry interface {
	isReserved()
}

// ReservedName is a reserved field name.
type ReservedName string

// ReservedRange is an inclusive range of reserved field numbers.
type ReservedRange struct {
	From, To int
}

func (ReservedName) isReserved()  {}
func (ReservedRange) isReserved() {}

// Options are the set of options given to a file, message, field, enum or
// service.
type Options map[string]OptionValue

// Option is a single named option.
type Option struct {
	Name  string
	Value OptionValue
}

// Sorted returns the options ordered by name.
func (o Options) Sorted() []*Option {
	opts := make([]*Option, 0, len(o))
	for k, v := range o {
		opts = append(opts, &Option{k, v})
	}
	sort.Slice(opts, func(i, j int) bool {
		return opts[i].Name < opts[j].Name
	})
	return opts
}

// Clone returns a shallow copy of the options.
func (o Options) Clone() Options {
	if o == nil {
		return nil
	}
	c := make(Options, len(o))
	for k, v := range o {
		c[k] = v
	}
	return c
}

// OptionValue is the value of an option: a boolean, a number or a string.
type OptionValue interface {
	String() string
	isOptionValue()
}

// BoolValue is a boolean option value, rendered as a bare true or false.
type BoolValue bool

// NumberValue is a numeric option value, rendered unquoted.
type NumberValue float64

// StringValue is a string option value, rendered escaped and quoted.
type StringValue string

func (BoolValue) isOptionValue()   {}
func (NumberValue) isOptionValue() {}
func (StringValue) isOptionValue() {}

func (v BoolValue) String() string {
	return strconv.FormatBool(bool(v))
}

func (v NumberValue) String() string {
	return strconv.FormatFloat(float64(v), 'g', -1, 64)
}

func (v StringValue) String() string {
	return `"` + escape(string(v)) + `"`
}

// ParseOptionValue turns a textual value into a BoolValue, a NumberValue or,
// failing both, a StringValue.
func ParseOptionValue(s string) OptionValue {
	if b, err := strconv.ParseBool(s); err == nil && (s == "true" || s == "false") {
		return BoolValue(b)
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return NumberValue(n)
	}
	return StringValue(s)
}

// Truthy coerces an option value to a boolean.
func Truthy(v OptionValue) bool {
	switch v := v.(type) {
	case BoolValue:
		return bool(v)
	case NumberValue:
		return v != 0
	case StringValue:
		return v != ""
	}
	return false
}

var escaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	`'`, `\'`,
	"\r", `\r`,
	"\n", `\n`,
	"\x00", `\0`,
)

func escape(s string) string {
	return escaper.Replace(s)
}
