package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dhamidi/pyparse/codebase"
)

var errSyntax = errors.New("syntax errors found")

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <path>...",
		Short: "Report syntax errors in Python files and directories",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			total := 0
			for _, arg := range args {
				info, err := os.Stat(arg)
				if err != nil {
					return err
				}
				var c *codebase.Codebase
				if info.IsDir() {
					c = codebase.New(arg)
					if err := c.ScanAll(); err != nil {
						return fmt.Errorf("scan %s: %w", arg, err)
					}
				} else {
					c = codebase.New(filepath.Dir(arg))
					if err := c.ScanFile(arg); err != nil {
						return fmt.Errorf("scan %s: %w", arg, err)
					}
				}
				total += printDiagnostics(c, c.Paths()...)
			}

			if total > 0 {
				return errSyntax
			}
			return nil
		},
	}
}

// printDiagnostics writes one file:line:column line per syntax error, with a
// 1-based column, and returns how many it wrote.
func printDiagnostics(c *codebase.Codebase, paths ...string) int {
	n := 0
	for _, path := range paths {
		for _, e := range c.Diagnostics(path) {
			fmt.Printf("%s:%d:%d: %s\n", path, e.Pos.Line, e.Pos.Column+1, e.Msg)
			n++
		}
	}
	return n
}
