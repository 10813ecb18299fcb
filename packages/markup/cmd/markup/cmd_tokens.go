package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"markup-go/packages/markup/src/ml_parser"
)

func newTokensCmd(opts *parseFlags) *cobra.Command {
	var showStates bool

	cmd := &cobra.Command{
		Use:   "tokens <file>",
		Short: "Print the tokens of a markup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readSource(args[0])
			if err != nil {
				return err
			}
			options, err := opts.parserOptions()
			if err != nil {
				return err
			}
			seq := ml_parser.Lex(source, &options.Lexer)
			for i := 0; seq.HasToken(i); i++ {
				tok := seq.Token(i)
				line := fmt.Sprintf("%6d %-22s %q%s", tok.Offset, tok.Type, tok.Text, formatProperties(tok))
				if showStates {
					line += " " + seq.StateAt(i).String()
				}
				fmt.Fprintln(os.Stdout, line)
			}
			cliLog.Debugf("%d tokens", seq.Len())
			return nil
		},
	}

	cmd.Flags().BoolVar(&showStates, "states", false, "print the lexer state each token starts in")

	return cmd
}

func formatProperties(tok *ml_parser.Token) string {
	if len(tok.Properties) == 0 {
		return ""
	}
	keys := make([]string, 0, len(tok.Properties))
	for key := range tok.Properties {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, key := range keys {
		parts[i] = key + "=" + tok.Properties[key]
	}
	return " {" + strings.Join(parts, " ") + "}"
}
