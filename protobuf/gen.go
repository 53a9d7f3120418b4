package protobuf

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/src-d/crudproto/report"
)

// Printer renders a resolved Root as proto3 source.
type Printer struct {
	config Config
}

// NewPrinter creates a new printer with the given config.
func NewPrinter(config Config) *Printer {
	return &Printer{config}
}

// Print renders the root. The root is only read, so printing it again
// yields the same text.
func (g *Printer) Print(root *Root) (string, error) {
	p := &printer{
		config:  g.config,
		imports: g.config.ImportTable(),
		used:    NewImportSet(),
	}

	if err := p.writeFile(root); err != nil {
		return "", err
	}
	return p.text(), nil
}

// printer holds the state of a single Print call and visits every node.
// parent is the message whose body is being written.
type printer struct {
	config  Config
	imports ImportTable
	used    *ImportSet
	lines   []string
	indent  int
	parent  *Type
}

func (p *printer) push(line string) {
	if line == "" {
		p.lines = append(p.lines, "")
		return
	}
	p.lines = append(p.lines, strings.Repeat("    ", p.indent)+line)
}

func (p *printer) text() string {
	return strings.Join(p.lines, "\n") + "\n"
}

func (p *printer) pushf(format string, args ...interface{}) {
	p.push(fmt.Sprintf(format, args...))
}

func (p *printer) writeFile(root *Root) error {
	p.push(`syntax = "proto3";`)

	decls, segments := collapseNamespaces(root)
	pkg := p.config.Package
	if pkg == "" {
		pkg = strings.Join(segments, ".")
	}
	if pkg = toProtobufPkg(pkg); pkg != "" {
		p.push("")
		p.pushf("package %s;", pkg)
	}

	if len(root.Options) > 0 {
		p.push("")
		p.writeOptions(root.Options)
	}

	for _, n := range decls {
		if err := p.build(n); err != nil {
			return err
		}
	}

	if p.used.Len() > 0 {
		p.push("")
		for _, path := range p.used.Paths() {
			p.pushf("import %s;", StringValue(path))
		}
	}
	return nil
}

// collapseNamespaces descends from the root through every namespace that is
// the only child of its parent and returns the declarations of the last one
// along with the names of all the namespaces it went through.
func collapseNamespaces(root *Root) ([]Node, []string) {
	var (
		segments []string
		current  = &root.Namespace
	)

	for len(current.Nested) == 1 {
		ns, ok := current.Nested[0].(*Namespace)
		if !ok {
			break
		}
		segments = append(segments, ns.Name)
		current = ns
	}

	return current.Nested, segments
}

func (p *printer) build(n Node) error {
	if n == nil {
		return ErrUnknownNodeType
	}
	return n.Accept(p)
}

func (p *printer) VisitEnum(e *Enum) error {
	p.push("")
	p.pushf("enum %s {", e.Name)
	p.indent++
	if p.writeOptions(e.Options) {
		p.push("")
	}

	for _, v := range e.Values {
		p.pushf("%s = %d;", v.Name, v.Value)
	}

	p.indent--
	p.push("}")
	return nil
}

func (p *printer) VisitType(t *Type) error {
	parent := p.parent
	p.parent = t
	defer func() { p.parent = parent }()

	claimed := make(map[string]struct{})
	for _, o := range t.OneOfs() {
		for _, name := range o.Members {
			claimed[name] = struct{}{}
		}
	}

	p.push("")
	p.pushf("message %s {", t.Name)
	p.indent++
	if p.writeOptions(t.Options) {
		p.push("")
	}

	for _, o := range t.OneOfs() {
		if err := p.build(o); err != nil {
			return err
		}
	}

	for _, f := range t.Fields() {
		if _, ok := claimed[f.Name]; ok {
			continue
		}
		if err := p.build(f); err != nil {
			return err
		}
	}

	for _, n := range t.Declarations() {
		if err := p.build(n); err != nil {
			return err
		}
	}

	p.writeReserved(t.Reserved)
	p.indent--
	p.push("}")
	return nil
}

func (p *printer) VisitField(f *Field) error {
	var label string
	switch {
	case f.Rule == RuleRepeated:
		label = "repeated "
	case f.Rule == RuleOptional && p.config.ExplicitOptional &&
		(f.Ref == RefScalar || f.Ref == RefEnum):
		label = "optional "
	}

	p.push(label + p.fieldDecl(f))
	return nil
}

// fieldDecl renders a field without its label and registers the import of
// its type, if it is a well-known one.
func (p *printer) fieldDecl(f *Field) string {
	typ := f.Type
	if f.Rule == RuleMap {
		typ = fmt.Sprintf("map<%s, %s>", f.KeyType, f.Type)
	}

	decl := fmt.Sprintf("%s %s = %d", typ, toLowerSnakeCase(f.Name), f.Number)
	if opts := fieldOptions(f); opts != "" {
		decl += " " + opts
	}

	if path, ok := p.imports.Lookup(f.Type); ok {
		p.used.Add(path)
	}
	return decl + ";"
}

func fieldOptions(f *Field) string {
	var parts []string
	for _, opt := range f.Options.Sorted() {
		switch opt.Name {
		case "packed":
			// proto3 packs by default, so only disabling it is meaningful
			if !isPackable(f) || Truthy(opt.Value) {
				continue
			}
			parts = append(parts, "packed = false")
		case "default":
			continue
		default:
			parts = append(parts, fmt.Sprintf("%s = %s", opt.Name, opt.Value))
		}
	}

	if len(parts) == 0 {
		return ""
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (p *printer) VisitOneOf(o *OneOf) error {
	if len(o.Members) == 0 {
		return nil
	}

	p.pushf("oneof %s {", toLowerSnakeCase(o.Name))
	p.indent++
	for _, name := range o.Members {
		var f *Field
		if p.parent != nil {
			f = p.parent.Field(name)
		}
		if f == nil {
			return &FieldNotFoundError{Name: name, OneOf: o.Name}
		}
		p.push(p.fieldDecl(f))
	}
	p.indent--
	p.push("}")
	return nil
}

func (p *printer) VisitService(s *Service) error {
	p.push("")
	p.pushf("service %s {", s.Name)
	p.indent++
	if p.writeOptions(s.Options) {
		p.push("")
	}

	for _, m := range s.Methods {
		if err := p.build(m); err != nil {
			return err
		}
	}

	p.indent--
	p.push("}")
	return nil
}

func (p *printer) VisitMethod(m *Method) error {
	p.pushf("rpc %s (%s%s) returns (%s%s) {}",
		m.Name,
		streamPrefix(m.RequestStream), m.RequestType,
		streamPrefix(m.ResponseStream), m.ResponseType,
	)
	return nil
}

func streamPrefix(stream bool) string {
	if stream {
		return "stream "
	}
	return ""
}

// VisitNamespace skips namespaces that could not be collapsed into the
// package, as a single file has no room for them.
func (p *printer) VisitNamespace(n *Namespace) error {
	report.Warn("namespace %s cannot be represented in a single file, ignoring it", n.Name)
	return nil
}

func (p *printer) writeOptions(options Options) bool {
	for _, opt := range options.Sorted() {
		p.pushf("option %s = %s;", opt.Name, opt.Value)
	}
	return len(options) > 0
}

func (p *printer) writeReserved(reserved Reserved) {
	if len(reserved) == 0 {
		return
	}

	parts := make([]string, 0, len(reserved))
	for _, entry := range reserved {
		switch r := entry.(type) {
		case ReservedName:
			parts = append(parts, StringValue(r).String())
		case ReservedRange:
			switch {
			case r.From == r.To:
				parts = append(parts, strconv.Itoa(r.From))
			case r.To == MaxFieldNumber:
				parts = append(parts, fmt.Sprintf("%d to max", r.From))
			default:
				parts = append(parts, fmt.Sprintf("%d to %d", r.From, r.To))
			}
		}
	}

	p.push("")
	p.pushf("reserved %s;", strings.Join(parts, ", "))
}
