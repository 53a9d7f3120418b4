package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue/cuecontext"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a data model document.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	CUE  Format = "cue"
)

// FormatOf guesses the format of a document from its file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	case ".cue":
		return CUE, nil
	}
	return "", fmt.Errorf("unsupported data model document: %s", path)
}

// Scanner reads a data model document from disk.
type Scanner struct {
	path   string
	format Format
}

// New creates a new Scanner for the document at the given path.
func New(path string) (*Scanner, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	return &Scanner{path, format}, nil
}

// Scan reads and decodes the document.
func (s *Scanner) Scan() (*Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}

	doc, err := ScanBytes(s.format, data)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", s.path, err)
	}
	return doc, nil
}

type unmarshaler func([]byte, interface{}) error

var unmarshalers = map[Format]unmarshaler{
	JSON: json.Unmarshal,
	YAML: yaml.Unmarshal,
	CUE:  unmarshalCUE,
}

// envelope is the layout of a DMMF document, which keeps the data model
// under a "datamodel" key.
type envelope struct {
	Datamodel *Document `json:"datamodel" yaml:"datamodel"`
}

// ScanBytes decodes a document in the given format. Both bare documents and
// documents wrapped in a "datamodel" key are accepted.
func ScanBytes(format Format, data []byte) (*Document, error) {
	unmarshal, ok := unmarshalers[format]
	if !ok {
		return nil, fmt.Errorf("unsupported format: %s", format)
	}

	var env envelope
	if err := unmarshal(data, &env); err != nil {
		return nil, err
	}
	if env.Datamodel != nil {
		return env.Datamodel, nil
	}

	doc := new(Document)
	if err := unmarshal(data, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func unmarshalCUE(data []byte, v interface{}) error {
	val := cuecontext.New().CompileBytes(data)
	if err := val.Err(); err != nil {
		return err
	}
	return val.Decode(v)
}
