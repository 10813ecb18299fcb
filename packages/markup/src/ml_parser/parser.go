package ml_parser

import (
	"sort"

	"markup-go/packages/markup/src/util"
)

// ParseTreeResult represents the result of parsing a document
type ParseTreeResult struct {
	File     *util.ParseSourceFile
	Tokens   *TokenSequence
	Elements *BlockCache
	Tree     *Tree
	// Diagnostics are the element and tree diagnostics ordered by offset
	Diagnostics []*util.Diagnostic
}

// ParserOptions represents options for a Parser
type ParserOptions struct {
	Lexer     LexerOptions
	BlockSize int
	// NewStore creates the content store of each parse. Defaults to a
	// WeakStore.
	NewStore func() ContentStore
	// TagModel defaults to HtmlTagModel
	TagModel TagModel
	KeepText bool
}

// Parser runs the lexer, scanner, block cache and tree builder over a source
type Parser struct {
	options ParserOptions
}

// NewParser creates a new Parser
func NewParser(options *ParserOptions) *Parser {
	p := &Parser{}
	if options != nil {
		p.options = *options
	}
	if p.options.TagModel == nil {
		p.options.TagModel = HtmlTagModel{}
	}
	if p.options.Lexer.StateCache == nil {
		p.options.Lexer.StateCache = NewStateCache()
	}
	return p
}

// Parse parses source into a ParseTreeResult
func (p *Parser) Parse(source, url string) *ParseTreeResult {
	return p.build(util.NewParseSourceFile(source, url), Lex(source, &p.options.Lexer))
}

// Reparse parses the source of previous with removed bytes at offset
// replaced by inserted, reusing the tokens the edit leaves intact
func (p *Parser) Reparse(previous *ParseTreeResult, offset, removed int, inserted string) *ParseTreeResult {
	tokens := previous.Tokens.Edit(offset, removed, inserted)
	return p.build(util.NewParseSourceFile(tokens.Source(), previous.File.URL), tokens)
}

func (p *Parser) build(file *util.ParseSourceFile, tokens *TokenSequence) *ParseTreeResult {
	cacheOptions := &CacheOptions{BlockSize: p.options.BlockSize}
	if p.options.NewStore != nil {
		cacheOptions.Store = p.options.NewStore()
	}
	elements := NewBlockCache(tokens, cacheOptions)
	collector := &diagnosticCollector{elements: elements.CreateSequence()}
	tree := BuildTree(collector, len(file.Content), &TreeOptions{
		TagModel: p.options.TagModel,
		KeepText: p.options.KeepText,
	})
	diagnostics := append(collector.diagnostics, tree.AllDiagnostics()...)
	sort.SliceStable(diagnostics, func(i, j int) bool {
		return diagnostics[i].From < diagnostics[j].From
	})
	return &ParseTreeResult{
		File:        file,
		Tokens:      tokens,
		Elements:    elements,
		Tree:        tree,
		Diagnostics: diagnostics,
	}
}

// diagnosticCollector gathers element diagnostics while the tree builder
// consumes the elements
type diagnosticCollector struct {
	elements    ElementIterator
	diagnostics []*util.Diagnostic
}

func (c *diagnosticCollector) HasNext() bool {
	return c.elements.HasNext()
}

func (c *diagnosticCollector) Next() Element {
	e := c.elements.Next()
	c.diagnostics = append(c.diagnostics, ElementDiagnostics(e)...)
	return e
}
