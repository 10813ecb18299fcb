package lsp

import (
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"markup-go/packages/markup/src/ml_parser"
	"markup-go/packages/markup/src/util"
)

const diagnosticSource = "markup"

// Document is an open text document and its latest parse
type Document struct {
	URI     protocol.DocumentUri
	Version protocol.Integer
	parser  *ml_parser.Parser
	result  *ml_parser.ParseTreeResult
}

// NewDocument parses text as the content of uri
func NewDocument(uri protocol.DocumentUri, version protocol.Integer, text string, parser *ml_parser.Parser) *Document {
	return &Document{
		URI:     uri,
		Version: version,
		parser:  parser,
		result:  parser.Parse(text, string(uri)),
	}
}

// Text returns the current content of the document
func (d *Document) Text() string {
	return d.result.File.Content
}

// Result returns the latest parse of the document
func (d *Document) Result() *ml_parser.ParseTreeResult {
	return d.result
}

// ApplyChanges applies the content changes of a didChange notification in
// order. Ranged changes reparse incrementally.
func (d *Document) ApplyChanges(version protocol.Integer, changes []any) {
	for _, change := range changes {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEvent:
			d.applyRange(c.Range, c.Text)
		case *protocol.TextDocumentContentChangeEvent:
			d.applyRange(c.Range, c.Text)
		case protocol.TextDocumentContentChangeEventWhole:
			d.result = d.parser.Parse(c.Text, string(d.URI))
		case *protocol.TextDocumentContentChangeEventWhole:
			d.result = d.parser.Parse(c.Text, string(d.URI))
		default:
			lspLog.Warningf("ignoring content change of type %T", change)
		}
	}
	d.Version = version
}

func (d *Document) applyRange(r *protocol.Range, text string) {
	if r == nil {
		d.result = d.parser.Parse(text, string(d.URI))
		return
	}
	file := d.result.File
	start := positionToOffset(file, r.Start)
	end := max(positionToOffset(file, r.End), start)
	d.result = d.parser.Reparse(d.result, start, end-start, text)
}

// Diagnostics converts the parse diagnostics to protocol diagnostics
func (d *Document) Diagnostics() []protocol.Diagnostic {
	file := d.result.File
	source := diagnosticSource
	diagnostics := make([]protocol.Diagnostic, 0, len(d.result.Diagnostics))
	for _, diagnostic := range d.result.Diagnostics {
		severity := toProtocolSeverity(diagnostic.Severity)
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    spanToRange(file, diagnostic.From, diagnostic.To),
			Severity: &severity,
			Code:     &protocol.IntegerOrString{Value: diagnostic.Code},
			Source:   &source,
			Message:  diagnostic.Message,
		})
	}
	return diagnostics
}

func toProtocolSeverity(severity util.DiagnosticSeverity) protocol.DiagnosticSeverity {
	switch severity {
	case util.DiagnosticSeverityError:
		return protocol.DiagnosticSeverityError
	case util.DiagnosticSeverityWarning:
		return protocol.DiagnosticSeverityWarning
	}
	return protocol.DiagnosticSeverityInformation
}

// Symbols returns one symbol per element with a body, nested like the tree
func (d *Document) Symbols() []protocol.DocumentSymbol {
	return d.symbols(ml_parser.RootID)
}

func (d *Document) symbols(id ml_parser.NodeID) []protocol.DocumentSymbol {
	tree := d.result.Tree
	file := d.result.File
	var symbols []protocol.DocumentSymbol
	for _, child := range tree.Node(id).Children {
		if !child.IsNode() {
			continue
		}
		node := tree.Node(child.Node)
		symbol := protocol.DocumentSymbol{
			Name:           node.Name(),
			Kind:           protocol.SymbolKindObject,
			Range:          spanToRange(file, node.Tag.From(), node.LogicalEnd),
			SelectionRange: spanToRange(file, node.Tag.From(), node.Tag.To()),
			Children:       d.symbols(child.Node),
		}
		if id := node.Tag.Attribute("id"); id != nil && id.HasValue() {
			detail := "#" + id.UnquotedValue()
			symbol.Detail = &detail
		}
		symbols = append(symbols, symbol)
	}
	return symbols
}

// FoldingRanges returns a range for every element spanning several lines
func (d *Document) FoldingRanges() []protocol.FoldingRange {
	file := d.result.File
	var ranges []protocol.FoldingRange
	d.result.Tree.Walk(func(id ml_parser.NodeID, node *ml_parser.TreeNode, _ int) bool {
		if id == ml_parser.RootID {
			return true
		}
		start := file.Location(node.Tag.From()).Line
		end := file.Location(node.LogicalEnd).Line
		if end > start {
			ranges = append(ranges, protocol.FoldingRange{
				StartLine: protocol.UInteger(start),
				EndLine:   protocol.UInteger(end),
			})
		}
		return true
	})
	return ranges
}

func spanToRange(file *util.ParseSourceFile, from, to int) protocol.Range {
	return protocol.Range{
		Start: offsetToPosition(file, from),
		End:   offsetToPosition(file, to),
	}
}

// offsetToPosition converts a byte offset to a position with a UTF-16
// character column
func offsetToPosition(file *util.ParseSourceFile, offset int) protocol.Position {
	location := file.Location(offset)
	line := file.LineText(location.Line)
	col := min(location.Col, len(line))
	return protocol.Position{
		Line:      protocol.UInteger(location.Line),
		Character: protocol.UInteger(utf16Length(line[:col])),
	}
}

func positionToOffset(file *util.ParseSourceFile, position protocol.Position) int {
	line := file.LineText(int(position.Line))
	units := int(position.Character)
	col := 0
	for col < len(line) && units > 0 {
		r, width := utf8.DecodeRuneInString(line[col:])
		units -= utf16Units(r)
		col += width
	}
	return file.Offset(int(position.Line), col)
}

func utf16Length(s string) int {
	n := 0
	for _, r := range s {
		n += utf16Units(r)
	}
	return n
}

func utf16Units(r rune) int {
	if r >= 0x10000 {
		return 2
	}
	return 1
}
