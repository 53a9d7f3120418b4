package scanner

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func fixture(name string) string {
	return filepath.Join("..", "fixtures", name)
}

func TestFormatOf(t *testing.T) {
	cases := []struct {
		path   string
		format Format
		err    bool
	}{
		{"schema.json", JSON, false},
		{"schema.YAML", YAML, false},
		{"schema.yml", YAML, false},
		{"schema.cue", CUE, false},
		{"schema.prisma", "", true},
		{"schema", "", true},
	}

	for _, c := range cases {
		format, err := FormatOf(c.path)
		if c.err {
			require.Error(t, err, c.path)
		} else {
			require.NoError(t, err, c.path)
			require.Equal(t, c.format, format, c.path)
		}
	}
}

func TestScanBytesBareDocument(t *testing.T) {
	doc, err := ScanBytes(JSON, []byte(`{
		"models": [{"name": "Tag", "fields": [{"name": "label", "kind": "scalar", "type": "String", "isId": true}]}]
	}`))
	require.NoError(t, err)
	require.Len(t, doc.Models, 1)
	require.Equal(t, "Tag", doc.Models[0].Name)
	require.True(t, doc.Models[0].Fields[0].IsID)
	require.Empty(t, doc.Enums)
}

func TestScanBytesUnknownFormat(t *testing.T) {
	_, err := ScanBytes(Format("toml"), []byte(``))
	require.Error(t, err)
}

func TestScanBytesMalformed(t *testing.T) {
	_, err := ScanBytes(JSON, []byte(`{"models": [`))
	require.Error(t, err)

	_, err = ScanBytes(CUE, []byte(`models: [`))
	require.Error(t, err)
}

func TestModelRelationKeys(t *testing.T) {
	m := &Model{
		Name: "Post",
		Fields: []*Field{
			{Name: "author", Kind: ObjectKind, Type: "User", RelationFromFields: []string{"authorId"}},
			{Name: "authorId", Kind: ScalarKind, Type: "Int"},
			{Name: "title", Kind: ScalarKind, Type: "String"},
		},
	}

	require.Equal(t, map[string]bool{"authorId": true}, m.RelationKeys())
	require.True(t, m.Fields[1].IsScalar())
	require.False(t, m.Fields[0].IsScalar())
}

func TestScanner(t *testing.T) {
	suite.Run(t, new(ScannerSuite))
}

type ScannerSuite struct {
	suite.Suite
}

func (s *ScannerSuite) scan(name string) *Document {
	sc, err := New(fixture(name))
	s.Require().NoError(err)

	doc, err := sc.Scan()
	s.Require().NoError(err)
	return doc
}

func (s *ScannerSuite) TestJSON() {
	s.assertBlog(s.scan("blog.json"))
}

func (s *ScannerSuite) TestYAML() {
	s.assertBlog(s.scan("blog.yaml"))
}

func (s *ScannerSuite) TestCUE() {
	s.assertBlog(s.scan("blog.cue"))
}

func (s *ScannerSuite) TestFormatsAgree() {
	json := s.scan("blog.json")
	s.Equal(json, s.scan("blog.yaml"))
	s.Equal(json, s.scan("blog.cue"))
}

func (s *ScannerSuite) TestMissingFile() {
	sc, err := New(fixture("missing.json"))
	s.NoError(err)

	_, err = sc.Scan()
	s.Error(err)
}

func (s *ScannerSuite) assertBlog(doc *Document) {
	s.Require().Len(doc.Enums, 1)
	s.Equal("Role", doc.Enums[0].Name)
	s.Equal([]*EnumValue{{Name: "USER"}, {Name: "ADMIN"}}, doc.Enums[0].Values)

	s.Require().Len(doc.Models, 2)
	user := doc.Model("User")
	s.Require().NotNil(user)
	s.Len(user.Fields, 6)
	s.Equal(&Field{
		Name:        "id",
		Kind:        ScalarKind,
		Type:        "Int",
		IsRequired:  true,
		IsID:        true,
		IsGenerated: true,
	}, user.Fields[0])
	s.True(user.Fields[1].IsUnique)
	s.False(user.Fields[2].IsRequired)
	s.Equal(EnumKind, user.Fields[3].Kind)
	s.True(user.Fields[5].IsList)

	post := doc.Model("Post")
	s.Require().NotNil(post)
	author := post.Fields[5]
	s.Equal(ObjectKind, author.Kind)
	s.Equal("PostToUser", author.RelationName)
	s.Equal([]string{"authorId"}, author.RelationFromFields)
	s.Nil(doc.Model("Comment"))
}
