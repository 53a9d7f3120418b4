package resolver

import (
	"context"
	"fmt"

	"github.com/bufbuild/protocompile"
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/src-d/crudproto/protobuf"
	"github.com/src-d/crudproto/report"
)

// Resolver has the responsibility of checking every type reference of a
// schema tree before it is printed. A reference may point to a protobuf
// scalar, to a message or enum declared in the tree or to a well-known type
// of the configured import table. Well-known types are checked against the
// descriptors of the files they are imported from, which are compiled from
// the standard imports bundled with protocompile.
type Resolver struct {
	imports protobuf.ImportTable
}

// New creates a new Resolver for the given import table. DefaultImports is
// used when it is nil.
func New(imports protobuf.ImportTable) *Resolver {
	if imports == nil {
		imports = protobuf.DefaultImports
	}
	return &Resolver{imports}
}

// Resolve checks every field type and method type of the root, recording on
// each field what its type refers to. It fails with the first reference that
// cannot be resolved or the first invalid field number it finds.
func (r *Resolver) Resolve(ctx context.Context, root *protobuf.Root) error {
	wellKnown, err := r.loadWellKnown(ctx)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	res := &resolution{
		wellKnown: wellKnown,
		symbols:   make(map[string]protobuf.RefKind),
	}
	res.index("", root.Nested)

	for _, n := range root.Nested {
		if err := res.visit(n); err != nil {
			return err
		}
	}
	return nil
}

// loadWellKnown compiles every file of the import table and returns the
// kind of every type of the table.
func (r *Resolver) loadWellKnown(ctx context.Context) (map[string]protobuf.RefKind, error) {
	paths := r.imports.Paths()
	if len(paths) == 0 {
		return nil, nil
	}

	files, err := compiler(nil).Compile(ctx, paths...)
	if err != nil {
		return nil, fmt.Errorf("loading well-known types: %w", err)
	}

	declared := make(map[string]fileSymbol)
	for _, f := range files {
		indexDescriptors(f.Path(), f.Messages(), f.Enums(), declared)
	}

	kinds := make(map[string]protobuf.RefKind, len(r.imports))
	for typ, path := range r.imports {
		sym, ok := declared[typ]
		if !ok || sym.path != path {
			return nil, &UnresolvedTypeError{Type: typ, Scope: path}
		}
		kinds[typ] = sym.kind
	}

	report.Info("loaded %d well-known types from %d files", len(kinds), len(paths))
	return kinds, nil
}

type fileSymbol struct {
	path string
	kind protobuf.RefKind
}

func indexDescriptors(
	path string,
	msgs protoreflect.MessageDescriptors,
	enums protoreflect.EnumDescriptors,
	into map[string]fileSymbol,
) {
	for i := 0; i < enums.Len(); i++ {
		into[string(enums.Get(i).FullName())] = fileSymbol{path, protobuf.RefEnum}
	}

	for i := 0; i < msgs.Len(); i++ {
		msg := msgs.Get(i)
		if msg.IsMapEntry() {
			continue
		}
		into[string(msg.FullName())] = fileSymbol{path, protobuf.RefWellKnown}
		indexDescriptors(path, msg.Messages(), msg.Enums(), into)
	}
}

// Check compiles the given proto source, named after filename, with the
// standard imports available.
func Check(ctx context.Context, filename, source string) error {
	_, err := compiler(map[string]string{filename: source}).Compile(ctx, filename)
	if err != nil {
		return fmt.Errorf("checking %s: %w", filename, err)
	}
	return nil
}

func compiler(sources map[string]string) *protocompile.Compiler {
	if sources == nil {
		sources = map[string]string{}
	}

	return &protocompile.Compiler{
		Resolver: protocompile.WithStandardImports(&protocompile.SourceResolver{
			Accessor: protocompile.SourceAccessorFromMap(sources),
		}),
	}
}
