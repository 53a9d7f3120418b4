// Crudproto generates a protocol buffers version 3 `.proto` file exposing the
// CRUD operations of a data model.
//
// The data model is a document listing entities with their fields and
// enumerations, in JSON, YAML or CUE. Every entity is turned into a message
// and, unless disabled, into the request and response messages of its
// create, find unique, find many and delete operations, along with a service
// grouping all of them. Filtering and ordering inputs are generated for
// every scalar field, and a streamed variant of find many is provided for
// large result sets.
//
// The generated schema is resolved before it is printed: every type it uses
// must be a protobuf scalar, a declaration of the schema itself or one of the
// well-known types of the configured import table.
package crudproto
