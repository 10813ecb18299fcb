package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"markup-go/packages/markup/src/ml_parser"
)

// parseFlags are the pipeline options shared by every subcommand
type parseFlags struct {
	delimiters []string
	rawText    []string
	blockSize  int
	cacheSize  int
	keepText   bool
	xml        bool
}

func (f *parseFlags) register(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringArrayVar(&f.delimiters, "el", nil,
		`expression delimiters as "open close [mimetype]", e.g. "{{ }} text/x-expression"`)
	flags.StringSliceVar(&f.rawText, "raw-text", nil, "raw-text element names (default script,style)")
	flags.IntVar(&f.blockSize, "block-size", ml_parser.DefaultBlockSize, "elements per cache block")
	flags.IntVar(&f.cacheSize, "cache-blocks", 0, "keep at most this many blocks in an LRU store (0 uses weak references)")
	flags.BoolVar(&f.keepText, "keep-text", false, "keep text elements in the tree")
	flags.BoolVar(&f.xml, "xml", false, "parse as XML: no void, optional-end or raw-text elements")
}

func (f *parseFlags) parserOptions() (*ml_parser.ParserOptions, error) {
	options := &ml_parser.ParserOptions{
		Lexer: ml_parser.LexerOptions{
			RawTextElements: f.rawText,
		},
		BlockSize: f.blockSize,
		KeepText:  f.keepText,
	}
	for _, def := range f.delimiters {
		fields := strings.Fields(def)
		if len(fields) < 2 || len(fields) > 3 {
			return nil, fmt.Errorf("invalid expression delimiter %q: want \"open close [mimetype]\"", def)
		}
		d := ml_parser.ExpressionDelimiter{Open: fields[0], Close: fields[1]}
		if len(fields) == 3 {
			d.MimeType = fields[2]
		}
		options.Lexer.ExpressionDelimiters = append(options.Lexer.ExpressionDelimiters, d)
	}
	if f.xml {
		options.Lexer.RawTextElements = []string{}
	}
	if f.cacheSize > 0 {
		size := f.cacheSize
		options.NewStore = func() ml_parser.ContentStore {
			return ml_parser.NewLRUStore(size)
		}
	}
	return options, nil
}

// newParser creates the HTML or XML parser selected by the flags
func (f *parseFlags) newParser() (*ml_parser.Parser, error) {
	options, err := f.parserOptions()
	if err != nil {
		return nil, err
	}
	if f.xml {
		return ml_parser.NewXmlParser(options), nil
	}
	return ml_parser.NewParser(options), nil
}

// readSource reads the named file, or standard input for "-"
func readSource(name string) (string, error) {
	var data []byte
	var err error
	if name == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	return string(data), nil
}
