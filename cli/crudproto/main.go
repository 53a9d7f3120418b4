package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/src-d/crudproto"
	"github.com/src-d/crudproto/protobuf"
	"github.com/src-d/crudproto/report"
	"gopkg.in/urfave/cli.v1"
)

var (
	schema           string
	path             string
	output           string
	pkg              string
	namespace        string
	options          cli.StringSlice
	noCRUD           bool
	explicitOptional bool
	check            bool
	verbose          bool
)

func main() {
	app := cli.NewApp()
	app.Name = "crudproto"
	app.Description = "Generate a .proto file with the CRUD services of your data model."
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:        "schema, s",
			Usage:       "Read the data model from `FILE`, in JSON, YAML or CUE.",
			Destination: &schema,
		},
		cli.StringFlag{
			Name:        "folder, f",
			Usage:       "The generated .proto file will be written to `FOLDER`.",
			Destination: &path,
		},
		cli.StringFlag{
			Name:        "output, o",
			Usage:       "Name of the generated file.",
			Value:       crudproto.DefaultOutputName,
			Destination: &output,
		},
		cli.StringFlag{
			Name:        "package, p",
			Usage:       "Protobuf `PACKAGE` of the generated file.",
			Destination: &pkg,
		},
		cli.StringSliceFlag{
			Name:  "option",
			Usage: "Set the file option `KEY=VALUE`. You can use this flag multiple times to set more than one option.",
			Value: &options,
		},
		cli.StringFlag{
			Name:        "namespace",
			Usage:       "Nest all the declarations under the dotted `NAMESPACE`.",
			Destination: &namespace,
		},
		cli.BoolFlag{
			Name:        "no-crud",
			Usage:       "Generate only the messages and enums of the data model.",
			Destination: &noCRUD,
		},
		cli.BoolFlag{
			Name:        "explicit-optional",
			Usage:       "Label the optional scalar and enum fields as optional.",
			Destination: &explicitOptional,
		},
		cli.BoolFlag{
			Name:        "check",
			Usage:       "Compile the generated file before writing it.",
			Destination: &check,
		},
		cli.BoolFlag{
			Name:        "verbose",
			Usage:       "Print all warnings and info messages.",
			Destination: &verbose,
		},
	}

	app.Action = action
	if err := app.Run(os.Args); err != nil {
		report.Error("%s", err)
		os.Exit(1)
	}
}

func action(c *cli.Context) error {
	if schema == "" {
		return errors.New("no data model provided, there is nothing to generate")
	}

	if path == "" {
		return errors.New("destination path cannot be empty")
	}

	if err := checkFolder(path); err != nil {
		return err
	}

	fileOptions, err := parseOptions(options)
	if err != nil {
		return err
	}

	if !verbose {
		report.Silent()
	}

	return crudproto.GenerateProto(context.Background(), crudproto.Options{
		Schema:     schema,
		Folder:     path,
		OutputName: output,
		Check:      check,
		Config: protobuf.Config{
			Package:          pkg,
			Namespace:        namespace,
			FileOptions:      fileOptions,
			DisableCRUD:      noCRUD,
			ExplicitOptional: explicitOptional,
		},
	})
}

func parseOptions(opts []string) (protobuf.Options, error) {
	if len(opts) == 0 {
		return nil, nil
	}

	result := make(protobuf.Options, len(opts))
	for _, opt := range opts {
		kv := strings.SplitN(opt, "=", 2)
		if len(kv) != 2 || strings.TrimSpace(kv[0]) == "" {
			return nil, fmt.Errorf("invalid option %q, expected KEY=VALUE", opt)
		}
		result[strings.TrimSpace(kv[0])] = protobuf.ParseOptionValue(strings.TrimSpace(kv[1]))
	}
	return result, nil
}

func checkFolder(p string) error {
	fi, err := os.Stat(p)
	switch {
	case os.IsNotExist(err):
		return errors.New("folder does not exist, please create it first")
	case err != nil:
		return err
	case !fi.IsDir():
		return fmt.Errorf("folder is not directory: %s", p)
	}
	return nil
}
