package crudproto

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/src-d/crudproto/protobuf"
	"github.com/src-d/crudproto/report"
	"github.com/src-d/crudproto/resolver"
	"github.com/src-d/crudproto/scanner"
)

// DefaultOutputName is the name of the generated file when none is given.
const DefaultOutputName = "crud.proto"

// Options are all the available options to configure proto generation.
type Options struct {
	// Schema is the path of the data model document.
	Schema string

	// Folder is where the generated file is written.
	Folder string

	// OutputName is the name of the generated file. DefaultOutputName is
	// used when it is empty.
	OutputName string

	// Config is passed to the transformer and the printer.
	Config protobuf.Config

	// Check compiles the generated text before returning it.
	Check bool
}

func (o Options) outputName() string {
	if o.OutputName == "" {
		return DefaultOutputName
	}
	return o.OutputName
}

// Generate maps the given document to a protobuf schema, resolves it and
// returns its proto3 source.
func Generate(ctx context.Context, doc *scanner.Document, options Options) (string, error) {
	if doc == nil {
		return "", errors.New("no data model provided, there is nothing to generate")
	}

	root, err := protobuf.NewTransformer(options.Config).MapSchema(doc)
	if err != nil {
		return "", err
	}

	r := resolver.New(options.Config.ImportTable())
	if err := r.Resolve(ctx, root); err != nil {
		return "", err
	}

	text, err := protobuf.NewPrinter(options.Config).Print(root)
	if err != nil {
		return "", err
	}

	if options.Check {
		if err := resolver.Check(ctx, options.outputName(), text); err != nil {
			return "", err
		}
	}

	return text, nil
}

// GenerateProto scans the schema of the given options and writes the
// generated proto file to their folder.
func GenerateProto(ctx context.Context, options Options) error {
	s, err := scanner.New(options.Schema)
	if err != nil {
		return err
	}

	doc, err := s.Scan()
	if err != nil {
		return err
	}

	text, err := Generate(ctx, doc, options)
	if err != nil {
		return err
	}

	path := filepath.Join(options.Folder, options.outputName())
	if err := writeFile(path, []byte(text)); err != nil {
		return err
	}

	report.Info("Generated proto: %s", path)
	return nil
}

func writeFile(path string, data []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
