package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"markup-go/packages/markup/src/ml_parser"
)

func newTreeCmd(opts *parseFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tree <file>",
		Short: "Print the element tree and diagnostics of a markup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readSource(args[0])
			if err != nil {
				return err
			}
			parser, err := opts.newParser()
			if err != nil {
				return err
			}
			result := parser.Parse(source, args[0])
			tree := result.Tree
			tree.Walk(func(id ml_parser.NodeID, node *ml_parser.TreeNode, depth int) bool {
				if id == ml_parser.RootID {
					fmt.Fprintf(os.Stdout, "#root [0,%d)\n", tree.Length)
					return true
				}
				status := "matched"
				if !node.Matched() {
					status = "unclosed"
				}
				fmt.Fprintf(os.Stdout, "%s%s [%d,%d) %s\n",
					strings.Repeat("  ", depth), node.Name(), node.Tag.From(), node.LogicalEnd, status)
				return true
			})
			for _, d := range result.Diagnostics {
				fmt.Fprintln(os.Stderr, d.ContextualMessage(result.File))
			}
			return nil
		},
	}
}
