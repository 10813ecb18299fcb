package ml_parser_test

import (
	"strings"

	"markup-go/packages/markup/src/ml_parser"
)

var curlyDelimiters = &ml_parser.LexerOptions{
	ExpressionDelimiters: []ml_parser.ExpressionDelimiter{
		{Open: "{{", Close: "}}", MimeType: "text/x-expression"},
	},
}

func lexAll(source string, options *ml_parser.LexerOptions) []ml_parser.Token {
	return ml_parser.Lex(source, options).Tokens()
}

func tokenizeAndHumanizeParts(source string, options *ml_parser.LexerOptions) []interface{} {
	result := []interface{}{}
	for _, tok := range lexAll(source, options) {
		result = append(result, []interface{}{tok.Type, tok.Text})
	}
	return result
}

func tokenizeAndHumanizeOffsets(source string, options *ml_parser.LexerOptions) []interface{} {
	result := []interface{}{}
	for _, tok := range lexAll(source, options) {
		result = append(result, []interface{}{tok.Type, tok.Offset})
	}
	return result
}

func scanAll(source string, options *ml_parser.LexerOptions) []ml_parser.Element {
	scanner := ml_parser.ScannerForTokenIndex(ml_parser.Lex(source, options), 0)
	return drain(scanner)
}

func drain(elements ml_parser.ElementIterator) []ml_parser.Element {
	var result []ml_parser.Element
	for elements.HasNext() {
		result = append(result, elements.Next())
	}
	return result
}

func humanizeElements(elements []ml_parser.Element) []interface{} {
	result := []interface{}{}
	for _, e := range elements {
		entry := []interface{}{e.Kind().String()}
		switch e := e.(type) {
		case *ml_parser.OpenTag:
			entry = append(entry, e.Name)
		case *ml_parser.CloseTag:
			entry = append(entry, e.Name)
		}
		entry = append(entry, e.From(), e.To())
		result = append(result, entry)
	}
	return result
}

func humanizeDiagnostics(e ml_parser.Element) []interface{} {
	result := []interface{}{}
	for _, d := range ml_parser.ElementDiagnostics(e) {
		result = append(result, []interface{}{d.Code, d.Severity.String(), d.From, d.To})
	}
	return result
}

// humanizeTree lists the tree in document order: nodes as
// {"Node", name, depth, logicalEnd, matched}, leaves as {kind, name, depth}
func humanizeTree(tree *ml_parser.Tree) []interface{} {
	result := []interface{}{}
	var visit func(id ml_parser.NodeID, depth int)
	visit = func(id ml_parser.NodeID, depth int) {
		for _, child := range tree.Node(id).Children {
			if child.IsNode() {
				node := tree.Node(child.Node)
				result = append(result, []interface{}{"Node", node.Name(), depth, node.LogicalEnd, node.Matched()})
				visit(child.Node, depth+1)
				continue
			}
			name := ""
			switch e := child.Element.(type) {
			case *ml_parser.OpenTag:
				name = e.Name
			case *ml_parser.CloseTag:
				name = e.Name
			}
			result = append(result, []interface{}{child.Element.Kind().String(), name, depth})
		}
	}
	visit(ml_parser.RootID, 0)
	return result
}

// fiftyElementDocument has exactly 50 elements
func fiftyElementDocument() string {
	return strings.Repeat("<b>x</b>", 16) + "<i>y"
}

func expectPanic(f func()) (recovered interface{}) {
	defer func() {
		recovered = recover()
	}()
	f()
	return nil
}
