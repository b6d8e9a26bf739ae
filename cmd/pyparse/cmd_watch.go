package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/dhamidi/pyparse/codebase"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [dir]",
		Short: "Re-check Python files whenever they change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			c := codebase.New(dir)
			if err := c.ScanAll(); err != nil {
				return fmt.Errorf("scan %s: %w", dir, err)
			}
			printDiagnostics(c, c.Paths()...)

			w, err := codebase.NewFileWatcher(c, func(path string) {
				if c.GetFile(path) == nil {
					fmt.Printf("%s: removed\n", path)
					return
				}
				if printDiagnostics(c, path) == 0 {
					fmt.Printf("%s: ok\n", path)
				}
			})
			if err != nil {
				return fmt.Errorf("watch %s: %w", dir, err)
			}
			w.Start()

			interrupt := make(chan os.Signal, 1)
			signal.Notify(interrupt, os.Interrupt)
			<-interrupt
			return w.Stop()
		},
	}
}
