package ml_parser_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"markup-go/packages/markup/src/ml_parser"
)

func humanizeResultDiagnostics(result *ml_parser.ParseTreeResult) []interface{} {
	out := []interface{}{}
	for _, d := range result.Diagnostics {
		out = append(out, []interface{}{d.Code, d.From, d.To})
	}
	return out
}

func TestParser_Parse(t *testing.T) {
	parser := ml_parser.NewParser(nil)
	source := `<div clas^s="x"><span></div></b>`
	result := parser.Parse(source, "test.html")

	t.Run("should build the tree", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{"Node", "div", 0, 28, true},
			[]interface{}{"Node", "span", 1, 22, false},
			[]interface{}{"CloseTag", "div", 0},
			[]interface{}{"CloseTag", "b", 0},
		}
		if diff := cmp.Diff(expected, humanizeTree(result.Tree)); diff != "" {
			t.Errorf("humanizeTree() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should order diagnostics by offset", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{ml_parser.DiagnosticUnexpectedCharacter, 9, 10},
			[]interface{}{ml_parser.DiagnosticUnclosedElement, 16, 22},
			[]interface{}{ml_parser.DiagnosticUnmatchedCloseTag, 28, 32},
		}
		if diff := cmp.Diff(expected, humanizeResultDiagnostics(result)); diff != "" {
			t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should expose the source file", func(t *testing.T) {
		if diff := cmp.Diff("test.html", result.File.URL); diff != "" {
			t.Errorf("URL mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(source, result.File.Content); diff != "" {
			t.Errorf("Content mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(4, result.Elements.Len()); diff != "" {
			t.Errorf("element count mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestParser_Options(t *testing.T) {
	parser := ml_parser.NewParser(&ml_parser.ParserOptions{
		Lexer:     *curlyDelimiters,
		BlockSize: 2,
		NewStore:  func() ml_parser.ContentStore { return ml_parser.NewLRUStore(1) },
		KeepText:  true,
	})
	result := parser.Parse("<p>{{ a }}<br></p>", "")
	expected := []interface{}{
		[]interface{}{"Node", "p", 0, 18, true},
		[]interface{}{"Text", "", 1},
		[]interface{}{"OpenTag", "br", 1},
		[]interface{}{"CloseTag", "p", 0},
	}
	if diff := cmp.Diff(expected, humanizeTree(result.Tree)); diff != "" {
		t.Errorf("humanizeTree() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(2, result.Elements.BlockSize()); diff != "" {
		t.Errorf("BlockSize() mismatch (-want +got):\n%s", diff)
	}
}

func TestParser_Reparse(t *testing.T) {
	parser := ml_parser.NewParser(&ml_parser.ParserOptions{Lexer: *curlyDelimiters})
	base := strings.Repeat(`<section id="s"><p>text {{ v }}</p></section>`, 10)
	tests := []struct {
		name     string
		offset   int
		removed  int
		inserted string
	}{
		{"insert an element", 19, 0, "<b>bold</b>"},
		{"remove a close tag", 31, 4, ""},
		{"unterminate a value", 14, 1, ""},
		{"comment out the rest", 16, 0, "<!--"},
		{"replace the document", 0, len(base), "<p>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			previous := parser.Parse(base, "doc.html")
			result := parser.Reparse(previous, tt.offset, tt.removed, tt.inserted)
			source := base[:tt.offset] + tt.inserted + base[tt.offset+tt.removed:]
			fresh := parser.Parse(source, "doc.html")
			if diff := cmp.Diff(fresh.File.Content, result.File.Content); diff != "" {
				t.Fatalf("content mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff("doc.html", result.File.URL); diff != "" {
				t.Errorf("URL mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(humanizeTree(fresh.Tree), humanizeTree(result.Tree)); diff != "" {
				t.Errorf("tree mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(humanizeResultDiagnostics(fresh), humanizeResultDiagnostics(result)); diff != "" {
				t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(base, previous.File.Content); diff != "" {
				t.Errorf("previous result changed (-want +got):\n%s", diff)
			}
		})
	}
}

func TestHtmlTagModel(t *testing.T) {
	model := ml_parser.HtmlTagModel{}
	if !model.IsEmptyContent("BR") || model.IsEmptyContent("div") {
		t.Errorf("IsEmptyContent misclassifies br or div")
	}
	if !model.HasOptionalEndTag("li") || model.HasOptionalEndTag("span") {
		t.Errorf("HasOptionalEndTag misclassifies li or span")
	}
	if diff := cmp.Diff([]string{"script", "style"}, model.RawTextElements()); diff != "" {
		t.Errorf("RawTextElements() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(ml_parser.TagContentTypeESCAPABLE_RAW_TEXT, ml_parser.GetHtmlTagDefinition("TEXTAREA").ContentType()); diff != "" {
		t.Errorf("textarea ContentType() mismatch (-want +got):\n%s", diff)
	}
}

func TestXmlParser(t *testing.T) {
	parser := ml_parser.NewXmlParser(&ml_parser.ParserOptions{KeepText: true})
	result := parser.Parse("<br><script>a<b/></script></br>", "")
	expected := []interface{}{
		[]interface{}{"Node", "br", 0, 31, true},
		[]interface{}{"Node", "script", 1, 26, true},
		[]interface{}{"Text", "", 2},
		[]interface{}{"OpenTag", "b", 2},
		[]interface{}{"CloseTag", "script", 1},
		[]interface{}{"CloseTag", "br", 0},
	}
	if diff := cmp.Diff(expected, humanizeTree(result.Tree)); diff != "" {
		t.Errorf("humanizeTree() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]interface{}{}, humanizeResultDiagnostics(result)); diff != "" {
		t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
	}
}
