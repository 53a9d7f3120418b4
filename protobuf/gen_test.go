package protobuf

import (
	"errors"
	"testing"

	"github.com/src-d/crudproto/report"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestPrinter(t *testing.T) {
	report.Silent()
	suite.Run(t, new(GenSuite))
}

type GenSuite struct {
	suite.Suite
	p *printer
}

func (s *GenSuite) SetupTest() {
	s.p = &printer{
		imports: DefaultImports,
		used:    NewImportSet(),
	}
}

const expectedEnum = `
enum PonyRace {
    option allow_alias = true;

    UNKNOWN = 0;
    PINK_CUTIE = 1;
    RED_FURY = 2;
}
`

func mockEnum() *Enum {
	e := NewEnum("PonyRace")
	e.Options = Options{"allow_alias": BoolValue(true)}
	e.Values.Add("UNKNOWN", 0)
	e.Values.Add("PINK_CUTIE", 1)
	e.Values.Add("RED_FURY", 2)
	return e
}

func (s *GenSuite) TestWriteEnum() {
	s.NoError(s.p.build(mockEnum()))
	s.Equal(expectedEnum, s.p.text())
}

const expectedMsg = `
message Pony {
    option deprecated = true;

    oneof lookup_key {
        string by_name = 5;
        sint32 by_id = 6;
    }
    string name = 1 [json_name = "n\"ame"];
    google.protobuf.Timestamp born_at = 2;
    repeated string nick_names = 3;
    map<string, sint32> toy_count = 4;

    message Saddle {
        string color = 1;
    }

    reserved 7, 9 to 11, 20 to max, "old_name";
}
`

func mockMsg() *Type {
	name := NewField("name", 1, "string", RuleRequired)
	name.Options = Options{
		"json_name": StringValue(`n"ame`),
		"default":   NumberValue(7),
	}

	msg := NewType("Pony").Add(
		name,
		NewField("bornAt", 2, "google.protobuf.Timestamp", RuleOptional),
		NewField("nickNames", 3, "string", RuleRepeated),
		NewMapField("toyCount", 4, "string", "sint32"),
		NewField("byName", 5, "string", RuleOptional),
		NewField("byId", 6, "sint32", RuleOptional),
		NewOneOf("lookupKey", "byName", "byId"),
		NewType("Saddle").Add(NewField("color", 1, "string", RuleOptional)),
	)
	msg.Options = Options{"deprecated": BoolValue(true)}
	msg.Reserve(
		ReservedRange{7, 7},
		ReservedRange{9, 11},
		ReservedRange{20, MaxFieldNumber},
		ReservedName("old_name"),
	)
	return msg
}

func (s *GenSuite) TestWriteMessage() {
	s.NoError(s.p.build(mockMsg()))
	s.Equal(expectedMsg, s.p.text())
	s.Equal([]string{"google/protobuf/timestamp.proto"}, s.p.used.Paths())
}

func (s *GenSuite) TestWriteReserved() {
	cases := []struct {
		reserved Reserved
		expected string
	}{
		{Reserved{ReservedRange{5, MaxFieldNumber}}, "reserved 5 to max;"},
		{Reserved{ReservedRange{3, 3}}, "reserved 3;"},
		{Reserved{ReservedRange{3, 8}}, "reserved 3 to 8;"},
		{Reserved{ReservedName(`a"b`), ReservedName("c")}, `reserved "a\"b", "c";`},
	}

	for _, c := range cases {
		s.SetupTest()
		s.p.writeReserved(c.reserved)
		s.Equal([]string{"", c.expected}, s.p.lines)
	}

	s.SetupTest()
	s.p.writeReserved(nil)
	s.Empty(s.p.lines)
}

func (s *GenSuite) TestFieldOptions() {
	cases := []struct {
		name     string
		field    *Field
		expected string
	}{
		{
			"packable and packed is the default",
			&Field{Type: "sint32", Rule: RuleRepeated, Options: Options{
				"packed":  BoolValue(true),
				"default": NumberValue(7),
			}},
			"",
		},
		{
			"packable but not packed",
			&Field{Type: "sint32", Rule: RuleRepeated, Options: Options{"packed": BoolValue(false)}},
			"[packed = false]",
		},
		{
			"enums pack like int32",
			&Field{Type: "Color", Ref: RefEnum, Rule: RuleRepeated, Options: Options{"packed": NumberValue(0)}},
			"[packed = false]",
		},
		{
			"strings never pack",
			&Field{Type: "string", Rule: RuleRepeated, Options: Options{"packed": BoolValue(false)}},
			"",
		},
		{
			"values of every kind",
			&Field{Type: "string", Options: Options{
				"deprecated":  BoolValue(true),
				"(foo.limit)": NumberValue(2.5),
				"json_name":   StringValue("a\r\n\x00\\"),
			}},
			`[(foo.limit) = 2.5, deprecated = true, json_name = "a\r\n\0\\"]`,
		},
		{"no options", &Field{Type: "string"}, ""},
	}

	for _, c := range cases {
		s.Equal(c.expected, fieldOptions(c.field), c.name)
	}
}

const expectedService = `
service PonyService {
    rpc Feed (FeedRequest) returns (FeedResponse) {}
    rpc Watch (WatchRequest) returns (stream Event) {}
    rpc Upload (stream Chunk) returns (UploadResponse) {}
    rpc Chat (stream Line) returns (stream Line) {}
}
`

func (s *GenSuite) TestWriteService() {
	watch := NewMethod("Watch", "WatchRequest", "Event")
	watch.ResponseStream = true
	upload := NewMethod("Upload", "Chunk", "UploadResponse")
	upload.RequestStream = true
	chat := NewMethod("Chat", "Line", "Line")
	chat.RequestStream = true
	chat.ResponseStream = true

	svc := NewService("PonyService").Add(
		NewMethod("Feed", "FeedRequest", "FeedResponse"),
		watch, upload, chat,
	)

	s.NoError(s.p.build(svc))
	s.Equal(expectedService, s.p.text())
}

func (s *GenSuite) TestExplicitOptional() {
	s.p.config.ExplicitOptional = true
	msg := NewType("Toggle").Add(
		&Field{Name: "on", Number: 1, Type: "bool", Rule: RuleOptional, Ref: RefScalar},
		&Field{Name: "at", Number: 2, Type: "google.protobuf.Timestamp", Rule: RuleOptional, Ref: RefWellKnown},
		&Field{Name: "by", Number: 3, Type: "string", Rule: RuleRequired, Ref: RefScalar},
	)

	s.NoError(s.p.build(msg))
	s.Equal(`
message Toggle {
    optional bool on = 1;
    google.protobuf.Timestamp at = 2;
    string by = 3;
}
`, s.p.text())
}

func (s *GenSuite) TestOneOfFieldNotFound() {
	msg := NewType("Broken").Add(
		NewField("a", 1, "string", RuleOptional),
		NewOneOf("choice", "a", "b"),
	)

	err := s.p.build(msg)
	var notFound *FieldNotFoundError
	s.Require().True(errors.As(err, &notFound))
	s.Equal("b", notFound.Name)
	s.Equal("choice", notFound.OneOf)
}

func (s *GenSuite) TestEmptyOneOf() {
	msg := NewType("Empty").Add(NewOneOf("where"))
	s.NoError(s.p.build(msg))
	s.Equal("\nmessage Empty {\n}\n", s.p.text())
}

func (s *GenSuite) TestUnknownNodeType() {
	s.Equal(ErrUnknownNodeType, s.p.build(nil))

	root := NewRoot()
	root.Add(NewType("Fine"), nil)
	_, err := NewPrinter(Config{}).Print(root)
	s.True(errors.Is(err, ErrUnknownNodeType))
}

const expectedProto = `syntax = "proto3";

package ponies.v1;

option go_package = "example.com/ponies";
option java_multiple_files = true;

enum Color {
    UNKNOWN = 0;
    WHITE = 1;
}

message Stable {
    google.protobuf.Struct layout = 1;
    google.protobuf.Timestamp opened_at = 2;
}

message Visit {
    google.protobuf.Timestamp at = 1;
}

import "google/protobuf/struct.proto";
import "google/protobuf/timestamp.proto";
`

func mockRoot() *Root {
	color := NewEnum("Color")
	color.Values.Add("UNKNOWN", 0)
	color.Values.Add("WHITE", 1)

	root := NewRoot()
	root.SetOptions(Options{
		"java_multiple_files": BoolValue(true),
		"go_package":          StringValue("example.com/ponies"),
	})
	root.Add(
		color,
		NewType("Stable").Add(
			NewField("layout", 1, "google.protobuf.Struct", RuleOptional),
			NewField("openedAt", 2, "google.protobuf.Timestamp", RuleOptional),
		),
		NewType("Visit").Add(
			NewField("at", 1, "google.protobuf.Timestamp", RuleRequired),
		),
	)
	return root
}

func (s *GenSuite) TestPrint() {
	printer := NewPrinter(Config{Package: "ponies.v1"})
	root := mockRoot()

	first, err := printer.Print(root)
	s.NoError(err)
	s.Equal(expectedProto, first)

	second, err := printer.Print(root)
	s.NoError(err)
	s.Equal(first, second)
}

func (s *GenSuite) TestPrintCustomImports() {
	root := NewRoot()
	root.Add(NewType("Clock").Add(
		NewField("tick", 1, "google.protobuf.Duration", RuleOptional),
		NewField("at", 2, "google.protobuf.Timestamp", RuleOptional),
	))

	out, err := NewPrinter(Config{Imports: ImportTable{
		"google.protobuf.Duration": "google/protobuf/duration.proto",
	}}).Print(root)
	s.NoError(err)
	s.Equal(`syntax = "proto3";

message Clock {
    google.protobuf.Duration tick = 1;
    google.protobuf.Timestamp at = 2;
}

import "google/protobuf/duration.proto";
`, out)
}

func (s *GenSuite) TestPrintCollapsedNamespaces() {
	root := NewRoot()
	crm := NewNamespace("crm").Add(
		NewType("Account"),
		NewType("Contact"),
	)
	root.Add(NewNamespace("acme").Add(crm))

	out, err := NewPrinter(Config{}).Print(root)
	s.NoError(err)
	s.Equal(`syntax = "proto3";

package acme.crm;

message Account {
}

message Contact {
}
`, out)

	out, err = NewPrinter(Config{Package: "other"}).Print(root)
	s.NoError(err)
	s.Contains(out, "\npackage other;\n")
	s.Contains(out, "\nmessage Contact {\n")
}

func TestCollapseNamespaces(t *testing.T) {
	require := require.New(t)

	decls, segments := collapseNamespaces(NewRoot())
	require.Empty(decls)
	require.Empty(segments)

	leaf := NewType("Only")
	root := NewRoot()
	root.Add(NewNamespace("a").Add(NewNamespace("b").Add(leaf)))
	decls, segments = collapseNamespaces(root)
	require.Equal([]string{"a", "b"}, segments)
	require.Equal([]Node{leaf}, decls)

	branching := NewRoot()
	branching.Add(NewNamespace("a").Add(NewNamespace("b"), NewNamespace("c")))
	decls, segments = collapseNamespaces(branching)
	require.Equal([]string{"a"}, segments)
	require.Len(decls, 2)

	flat := NewRoot()
	flat.Add(NewType("Top"))
	decls, segments = collapseNamespaces(flat)
	require.Empty(segments)
	require.Len(decls, 1)
}

func TestToLowerSnakeCase(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"fooBarBaz", "foo_bar_baz"},
		{"FooBarBaz", "foo_bar_baz"},
		{"foo1barBaz", "foo1bar_baz"},
		{"orderBy", "order_by"},
		{"createdAt", "created_at"},
		{"ID", "id"},
		{"FBar", "fbar"},
		{"userID", "user_i_d"},
		{"id", "id"},
	}

	for _, c := range cases {
		require.Equal(t, c.expected, toLowerSnakeCase(c.input))
	}
}
