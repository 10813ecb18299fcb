package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"markup-go/packages/markup/src/ml_parser"
	"markup-go/packages/markup/src/util"
)

func newElementsCmd(opts *parseFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "elements <file>",
		Short: "Print the structural elements of a markup file",
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
			cacheOptions := &ml_parser.CacheOptions{BlockSize: options.BlockSize}
			if options.NewStore != nil {
				cacheOptions.Store = options.NewStore()
			}
			cache := ml_parser.NewBlockCache(ml_parser.Lex(source, &options.Lexer), cacheOptions)
			file := util.NewParseSourceFile(source, args[0])
			for seq := cache.CreateSequence(); seq.HasNext(); {
				e := seq.Next()
				fmt.Fprintf(os.Stdout, "[%d,%d) %s\n", e.From(), e.To(), describeElement(e))
				for _, d := range ml_parser.ElementDiagnostics(e) {
					fmt.Fprintf(os.Stdout, "    %s\n", d.ContextualMessage(file))
				}
			}
			cliLog.Debugf("%d elements in %d blocks", cache.Len(), len(cache.Blocks()))
			return nil
		},
	}
}

func describeElement(e ml_parser.Element) string {
	switch e := e.(type) {
	case *ml_parser.OpenTag:
		var sb strings.Builder
		sb.WriteString("OpenTag " + e.Name)
		for _, attr := range e.Attributes {
			sb.WriteString(" " + attr.Name)
			if attr.HasValue() {
				sb.WriteString("=" + attr.Value())
			}
		}
		if e.IsVoid {
			sb.WriteString(" /")
		}
		return sb.String()
	case *ml_parser.CloseTag:
		return "CloseTag " + e.Name
	case *ml_parser.Text:
		if e.Raw {
			return "Text raw " + e.RawTag
		}
		return "Text"
	case *ml_parser.Declaration:
		if e.Doctype {
			return fmt.Sprintf("Doctype %s public=%q system=%q", e.RootElement, e.PublicID, e.SystemID)
		}
		return "Declaration"
	}
	return e.Kind().String()
}
