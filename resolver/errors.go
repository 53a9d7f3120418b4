package resolver

import "fmt"

// UnresolvedTypeError is returned when a type is not a scalar, a declaration
// of the tree or a well-known type of the import table.
type UnresolvedTypeError struct {
	Type  string
	Scope string
}

func (e *UnresolvedTypeError) Error() string {
	return fmt.Sprintf("unable to resolve type %s in %s", e.Type, e.Scope)
}

// FieldNumberError is returned when a field number is out of range or is
// already used by another field of the same message.
type FieldNumberError struct {
	Message string
	Field   string
	Number  int
	Other   string
}

func (e *FieldNumberError) Error() string {
	if e.Other != "" {
		return fmt.Sprintf("field %s of message %s uses number %d, already used by %s", e.Field, e.Message, e.Number, e.Other)
	}
	return fmt.Sprintf("field %s of message %s has invalid number %d", e.Field, e.Message, e.Number)
}

// InvalidMapKeyError is returned when a map field has a key type that
// protobuf does not allow.
type InvalidMapKeyError struct {
	Field string
	Type  string
}

func (e *InvalidMapKeyError) Error() string {
	return fmt.Sprintf("map field %s cannot have keys of type %s", e.Field, e.Type)
}

// NotAMessageError is returned when a method receives or returns something
// that is not a message.
type NotAMessageError struct {
	Method string
	Type   string
}

func (e *NotAMessageError) Error() string {
	return fmt.Sprintf("method %s uses %s, which is not a message", e.Method, e.Type)
}

// FirstEnumValueError is returned when an enum does not start with a value
// numbered 0.
type FirstEnumValueError struct {
	Enum string
}

func (e *FirstEnumValueError) Error() string {
	return fmt.Sprintf("the first value of enum %s must be 0", e.Enum)
}
