package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/pyparse/python/grammar"
)

func newGrammarCmd() *cobra.Command {
	var showSource bool

	cmd := &cobra.Command{
		Use:   "grammar",
		Short: "Describe the embedded Python grammar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showSource {
				fmt.Print(grammar.Source())
				return nil
			}

			g := grammar.Python()
			for _, name := range g.Symbols() {
				number, _ := g.Start(name)
				dfa := g.DFA(number)
				fmt.Printf("%3d %-16s %3d states\n", number, name, len(dfa.States))
			}
			fmt.Printf("keywords: %s\n", strings.Join(g.Keywords(), " "))
			return nil
		},
	}

	cmd.Flags().BoolVar(&showSource, "source", false, "print the grammar source instead")

	return cmd
}
