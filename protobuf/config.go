package protobuf

// Config holds the settings shared by the Transformer and the Printer.
type Config struct {
	// Package is the literal package of the generated file. When empty, the
	// package is derived from the chain of namespaces of the Root.
	Package string

	// Namespace is a dotted path under which the Transformer nests all the
	// declarations.
	Namespace string

	// FileOptions are set as the options of the Root.
	FileOptions Options

	// Imports is the well-known type import table. DefaultImports is used
	// when it is nil.
	Imports ImportTable

	// DisableCRUD maps every model to its message only, without the create,
	// find and delete families and services.
	DisableCRUD bool

	// ExplicitOptional prints the optional label on singular scalar and enum
	// fields that are not required.
	ExplicitOptional bool
}

// ImportTable returns the configured import table or DefaultImports.
func (c Config) ImportTable() ImportTable {
	if c.Imports == nil {
		return DefaultImports
	}
	return c.Imports
}
