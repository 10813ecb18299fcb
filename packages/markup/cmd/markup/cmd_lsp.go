package main

import (
	"github.com/spf13/cobra"

	"markup-go/packages/markup/src/lsp"
)

func newLSPCmd(opts *parseFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		RunE: func(cmd *cobra.Command, args []string) error {
			parser, err := opts.newParser()
			if err != nil {
				return err
			}
			server := lsp.NewServer("0.1.0", parser)
			return server.RunStdio()
		},
	}
}
