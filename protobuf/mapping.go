package protobuf

import (
	"sort"

	"google.golang.org/protobuf/reflect/protoreflect"
)

// ScalarTypes is the mapping between the scalar subtypes of the data model
// and protobuf types. Well-known types are fully qualified and need an entry
// in the ImportTable in use.
var ScalarTypes = map[string]string{
	"String":   "string",
	"Boolean":  "bool",
	"Int":      "sint32",
	"BigInt":   "sint64",
	"Float":    "float",
	"DateTime": "google.protobuf.Timestamp",
	"Json":     "google.protobuf.Struct",
	"Bytes":    "bytes",
}

// ImportTable maps fully qualified well-known type names to the proto file
// that declares them.
type ImportTable map[string]string

// DefaultImports is the import table used when none is configured.
var DefaultImports = ImportTable{
	"google.protobuf.Timestamp": "google/protobuf/timestamp.proto",
	"google.protobuf.Struct":    "google/protobuf/struct.proto",
}

// Lookup returns the import path of the given type, if it is a well-known one.
func (t ImportTable) Lookup(typ string) (string, bool) {
	path, ok := t[typ]
	return path, ok
}

// Paths returns every distinct import path of the table, sorted.
func (t ImportTable) Paths() []string {
	seen := make(map[string]struct{}, len(t))
	var paths []string
	for _, p := range t {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

var scalarKinds = map[string]protoreflect.Kind{
	"double":   protoreflect.DoubleKind,
	"float":    protoreflect.FloatKind,
	"int32":    protoreflect.Int32Kind,
	"int64":    protoreflect.Int64Kind,
	"uint32":   protoreflect.Uint32Kind,
	"uint64":   protoreflect.Uint64Kind,
	"sint32":   protoreflect.Sint32Kind,
	"sint64":   protoreflect.Sint64Kind,
	"fixed32":  protoreflect.Fixed32Kind,
	"fixed64":  protoreflect.Fixed64Kind,
	"sfixed32": protoreflect.Sfixed32Kind,
	"sfixed64": protoreflect.Sfixed64Kind,
	"bool":     protoreflect.BoolKind,
	"string":   protoreflect.StringKind,
	"bytes":    protoreflect.BytesKind,
}

// ScalarKind returns the kind of a protobuf scalar type name.
func ScalarKind(name string) (protoreflect.Kind, bool) {
	k, ok := scalarKinds[name]
	return k, ok
}

// isPackable reports whether repeated values of the field are packed by
// default in proto3. Enums are packed like int32.
func isPackable(f *Field) bool {
	if f.Ref == RefEnum {
		return true
	}
	k, ok := scalarKinds[f.Type]
	if !ok {
		return false
	}
	return k != protoreflect.StringKind && k != protoreflect.BytesKind
}
