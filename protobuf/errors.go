package protobuf

import (
	"errors"
	"fmt"
)

// ErrUnknownNodeType is returned by the printer when it is given a node it
// cannot dispatch.
var ErrUnknownNodeType = errors.New("unknown node type")

// UnsupportedScalarTypeError is returned when a scalar field uses a subtype
// that has no protobuf mapping.
type UnsupportedScalarTypeError struct {
	Name string
}

func (e *UnsupportedScalarTypeError) Error() string {
	return fmt.Sprintf("scalar fields of type %s are not supported", e.Name)
}

// UnsupportedFieldKindError is returned when a field is neither a scalar,
// an enum nor a relation.
type UnsupportedFieldKindError struct {
	Kind  string
	Field string
}

func (e *UnsupportedFieldKindError) Error() string {
	return fmt.Sprintf("%s fields are not supported (field %s)", e.Kind, e.Field)
}

// FieldNotFoundError is returned when a oneof refers to a field that its
// message does not have.
type FieldNotFoundError struct {
	Name  string
	OneOf string
}

func (e *FieldNotFoundError) Error() string {
	return fmt.Sprintf("unable to find field %s for oneof %s", e.Name, e.OneOf)
}
