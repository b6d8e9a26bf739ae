package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/pyparse/python/tokenize"
)

func newTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <file>",
		Short: "Print the token stream of a Python file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read python file: %w", err)
			}
			for _, tok := range tokenize.Tokenize(string(data)) {
				fmt.Printf("%-8s %-10s %q prefix=%q\n", tok.Start, tok.Type, tok.Value, tok.Prefix)
			}
			return nil
		},
	}
}
