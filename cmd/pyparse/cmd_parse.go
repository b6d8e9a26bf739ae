package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/pyparse/format"
	"github.com/dhamidi/pyparse/python/grammar"
	"github.com/dhamidi/pyparse/python/parser"
	"github.com/dhamidi/pyparse/python/tree"
)

func newParseCmd() *cobra.Command {
	var outputFormat string
	var startSymbol string
	var strict bool
	var includePositions bool
	var validate bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a Python file and dump the syntax tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			data, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("read python file: %w", err)
			}

			opts := []parser.Option{parser.WithPath(filename), parser.WithStartSymbol(startSymbol)}
			if !strict {
				opts = append(opts, parser.WithRecovery())
			}
			p := parser.New(grammar.Python(), string(data), opts...)
			root, err := p.Parse()
			if err != nil {
				return fmt.Errorf("parse %s: %w", filename, err)
			}
			for _, e := range p.SyntaxErrors() {
				fmt.Fprintf(os.Stderr, "%s:%s: %s\n", filename, e.Pos, e.Msg)
			}

			var encoder format.Encoder
			switch {
			case outputFormat == "text" && includePositions:
				encoder = format.NewTextEncoder(os.Stdout).WithPositions()
			default:
				encoder, err = format.NewEncoder(outputFormat, os.Stdout)
				if err != nil {
					return err
				}
			}

			if validate {
				if err := validateTree(root); err != nil {
					return err
				}
			}
			if err := encoder.Encode(root); err != nil {
				return fmt.Errorf("encode %s: %w", outputFormat, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format (json, cbor, text)")
	cmd.Flags().StringVar(&startSymbol, "start", parser.FileInput, "grammar start symbol")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail on the first syntax error instead of recovering")
	cmd.Flags().BoolVar(&includePositions, "positions", false, "include positions in text output")
	cmd.Flags().BoolVar(&validate, "validate", false, "check the JSON document against the tree schema")

	return cmd
}

func validateTree(root tree.Element) error {
	data, err := format.NewASTJSONEncoder(nil).Marshal(root)
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return format.ValidateJSON(data)
}
