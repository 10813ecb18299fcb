package ml_parser_test

import (
	"strings"
	"testing"
	"unsafe"

	"github.com/google/go-cmp/cmp"

	"markup-go/packages/markup/src/ml_parser"
)

func TestLexer_Tags(t *testing.T) {
	t.Run("should lex an element with text", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_SYMBOL, "<"},
			[]interface{}{ml_parser.TokenTypeTAG_OPEN, "p"},
			[]interface{}{ml_parser.TokenTypeTAG_CLOSE_SYMBOL, ">"},
			[]interface{}{ml_parser.TokenTypeTEXT, "Hi"},
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_SYMBOL, "</"},
			[]interface{}{ml_parser.TokenTypeTAG_CLOSE, "p"},
			[]interface{}{ml_parser.TokenTypeTAG_CLOSE_SYMBOL, ">"},
		}
		result := tokenizeAndHumanizeParts("<p>Hi</p>", nil)
		if diff := cmp.Diff(expected, result); diff != "" {
			t.Errorf("tokenizeAndHumanizeParts() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should report offsets", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_SYMBOL, 0},
			[]interface{}{ml_parser.TokenTypeTAG_OPEN, 1},
			[]interface{}{ml_parser.TokenTypeTAG_CLOSE_SYMBOL, 2},
			[]interface{}{ml_parser.TokenTypeTEXT, 3},
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_SYMBOL, 5},
			[]interface{}{ml_parser.TokenTypeTAG_CLOSE, 7},
			[]interface{}{ml_parser.TokenTypeTAG_CLOSE_SYMBOL, 8},
		}
		result := tokenizeAndHumanizeOffsets("<p>Hi</p>", nil)
		if diff := cmp.Diff(expected, result); diff != "" {
			t.Errorf("tokenizeAndHumanizeOffsets() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should lex attributes", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_SYMBOL, "<"},
			[]interface{}{ml_parser.TokenTypeTAG_OPEN, "a"},
			[]interface{}{ml_parser.TokenTypeWS, " "},
			[]interface{}{ml_parser.TokenTypeATTR_NAME, "href"},
			[]interface{}{ml_parser.TokenTypeOPERATOR, "="},
			[]interface{}{ml_parser.TokenTypeATTR_VALUE, `"x"`},
			[]interface{}{ml_parser.TokenTypeWS, " "},
			[]interface{}{ml_parser.TokenTypeATTR_NAME, "disabled"},
			[]interface{}{ml_parser.TokenTypeWS, " "},
			[]interface{}{ml_parser.TokenTypeATTR_NAME, "title"},
			[]interface{}{ml_parser.TokenTypeWS, " "},
			[]interface{}{ml_parser.TokenTypeOPERATOR, "="},
			[]interface{}{ml_parser.TokenTypeWS, " "},
			[]interface{}{ml_parser.TokenTypeATTR_VALUE, "'y'"},
			[]interface{}{ml_parser.TokenTypeTAG_CLOSE_SYMBOL, ">"},
		}
		result := tokenizeAndHumanizeParts(`<a href="x" disabled title = 'y'>`, nil)
		if diff := cmp.Diff(expected, result); diff != "" {
			t.Errorf("tokenizeAndHumanizeParts() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should end an unquoted value before a self-closing slash", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_SYMBOL, "<"},
			[]interface{}{ml_parser.TokenTypeTAG_OPEN, "a"},
			[]interface{}{ml_parser.TokenTypeWS, " "},
			[]interface{}{ml_parser.TokenTypeATTR_NAME, "href"},
			[]interface{}{ml_parser.TokenTypeOPERATOR, "="},
			[]interface{}{ml_parser.TokenTypeATTR_VALUE, "x"},
			[]interface{}{ml_parser.TokenTypeTAG_CLOSE_SYMBOL, "/>"},
		}
		result := tokenizeAndHumanizeParts("<a href=x/>", nil)
		if diff := cmp.Diff(expected, result); diff != "" {
			t.Errorf("tokenizeAndHumanizeParts() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should keep a slash inside an unquoted value", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_SYMBOL, "<"},
			[]interface{}{ml_parser.TokenTypeTAG_OPEN, "a"},
			[]interface{}{ml_parser.TokenTypeWS, " "},
			[]interface{}{ml_parser.TokenTypeATTR_NAME, "href"},
			[]interface{}{ml_parser.TokenTypeOPERATOR, "="},
			[]interface{}{ml_parser.TokenTypeATTR_VALUE, "x/y"},
			[]interface{}{ml_parser.TokenTypeTAG_CLOSE_SYMBOL, ">"},
		}
		result := tokenizeAndHumanizeParts("<a href=x/y>", nil)
		if diff := cmp.Diff(expected, result); diff != "" {
			t.Errorf("tokenizeAndHumanizeParts() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should report invalid characters in a tag", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_SYMBOL, "<"},
			[]interface{}{ml_parser.TokenTypeTAG_OPEN, "div"},
			[]interface{}{ml_parser.TokenTypeWS, " "},
			[]interface{}{ml_parser.TokenTypeATTR_NAME, "clas"},
			[]interface{}{ml_parser.TokenTypeERROR, "^"},
			[]interface{}{ml_parser.TokenTypeATTR_NAME, "s"},
			[]interface{}{ml_parser.TokenTypeOPERATOR, "="},
			[]interface{}{ml_parser.TokenTypeATTR_VALUE, `"x"`},
			[]interface{}{ml_parser.TokenTypeTAG_CLOSE_SYMBOL, ">"},
		}
		result := tokenizeAndHumanizeParts(`<div clas^s="x">`, nil)
		if diff := cmp.Diff(expected, result); diff != "" {
			t.Errorf("tokenizeAndHumanizeParts() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should start a new tag at an unexpected '<'", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_SYMBOL, "<"},
			[]interface{}{ml_parser.TokenTypeTAG_OPEN, "div"},
			[]interface{}{ml_parser.TokenTypeWS, " "},
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_SYMBOL, "<"},
			[]interface{}{ml_parser.TokenTypeTAG_OPEN, "span"},
			[]interface{}{ml_parser.TokenTypeTAG_CLOSE_SYMBOL, ">"},
		}
		result := tokenizeAndHumanizeParts("<div <span>", nil)
		if diff := cmp.Diff(expected, result); diff != "" {
			t.Errorf("tokenizeAndHumanizeParts() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should treat '<' not followed by a name as text", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{ml_parser.TokenTypeTEXT, "a "},
			[]interface{}{ml_parser.TokenTypeTEXT, "< b"},
		}
		result := tokenizeAndHumanizeParts("a < b", nil)
		if diff := cmp.Diff(expected, result); diff != "" {
			t.Errorf("tokenizeAndHumanizeParts() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should report an empty end tag", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{ml_parser.TokenTypeERROR, "</>"},
			[]interface{}{ml_parser.TokenTypeTEXT, "x"},
		}
		result := tokenizeAndHumanizeParts("</>x", nil)
		if diff := cmp.Diff(expected, result); diff != "" {
			t.Errorf("tokenizeAndHumanizeParts() mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestLexer_AttributeValueTypes(t *testing.T) {
	source := `<a onclick="f()" style="color:red" class="c" id="i" href="h">`
	var values []ml_parser.Token
	for _, tok := range lexAll(source, nil) {
		if tok.Type.IsAttributeValue() {
			values = append(values, tok)
		}
	}
	expected := []interface{}{
		[]interface{}{ml_parser.TokenTypeATTR_VALUE_JAVASCRIPT, ""},
		[]interface{}{ml_parser.TokenTypeATTR_VALUE_CSS, ""},
		[]interface{}{ml_parser.TokenTypeATTR_VALUE_CSS, "class"},
		[]interface{}{ml_parser.TokenTypeATTR_VALUE_CSS, "id"},
		[]interface{}{ml_parser.TokenTypeATTR_VALUE, ""},
	}
	result := []interface{}{}
	for i := range values {
		kind, _ := values[i].Property(ml_parser.PropertyCSSSelectorKind)
		result = append(result, []interface{}{values[i].Type, kind})
	}
	if diff := cmp.Diff(expected, result); diff != "" {
		t.Errorf("attribute value types mismatch (-want +got):\n%s", diff)
	}
}

func TestLexer_EmbeddingClassifier(t *testing.T) {
	options := &ml_parser.LexerOptions{
		EmbeddingClassifier: func(tagName, attrName string) (string, bool) {
			if tagName == "input" && attrName == "pattern" {
				return "text/x-regexp", true
			}
			return "", false
		},
	}
	var got []string
	for _, tok := range lexAll(`<INPUT Pattern="[a-z]+" name="n">`, options) {
		if tok.Type.IsAttributeValue() {
			mimeType, _ := tok.Property(ml_parser.PropertyEmbeddingMimeType)
			got = append(got, mimeType)
		}
	}
	if diff := cmp.Diff([]string{"text/x-regexp", ""}, got); diff != "" {
		t.Errorf("embedding mimetypes mismatch (-want +got):\n%s", diff)
	}
}

func TestLexer_RawText(t *testing.T) {
	t.Run("should not interpret markup inside script", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_SYMBOL, "<"},
			[]interface{}{ml_parser.TokenTypeTAG_OPEN, "script"},
			[]interface{}{ml_parser.TokenTypeTAG_CLOSE_SYMBOL, ">"},
			[]interface{}{ml_parser.TokenTypeSCRIPT, "if (a<b) x('</div>');"},
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_SYMBOL, "</"},
			[]interface{}{ml_parser.TokenTypeTAG_CLOSE, "script"},
			[]interface{}{ml_parser.TokenTypeTAG_CLOSE_SYMBOL, ">"},
		}
		result := tokenizeAndHumanizeParts("<script>if (a<b) x('</div>');</script>", nil)
		if diff := cmp.Diff(expected, result); diff != "" {
			t.Errorf("tokenizeAndHumanizeParts() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should match the end tag case-insensitively", func(t *testing.T) {
		tokens := lexAll("<STYLE>p{}</Style >", nil)
		if diff := cmp.Diff(ml_parser.TokenTypeSTYLE, tokens[3].Type); diff != "" {
			t.Errorf("body type mismatch (-want +got):\n%s", diff)
		}
		tag, ok := tokens[3].Property(ml_parser.PropertyRawTextTag)
		if !ok || tag != "STYLE" {
			t.Errorf("raw-text-tag = %q, %t; want \"STYLE\", true", tag, ok)
		}
		if diff := cmp.Diff("Style", tokens[5].Text); diff != "" {
			t.Errorf("close tag mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should not end at a longer tag name", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_SYMBOL, "<"},
			[]interface{}{ml_parser.TokenTypeTAG_OPEN, "script"},
			[]interface{}{ml_parser.TokenTypeTAG_CLOSE_SYMBOL, ">"},
			[]interface{}{ml_parser.TokenTypeSCRIPT, "</scripts>"},
		}
		result := tokenizeAndHumanizeParts("<script></scripts>", nil)
		if diff := cmp.Diff(expected, result); diff != "" {
			t.Errorf("tokenizeAndHumanizeParts() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should emit no body for an empty element", func(t *testing.T) {
		result := tokenizeAndHumanizeParts("<script></script>", nil)
		if len(result) != 6 {
			t.Errorf("got %d tokens, want 6: %v", len(result), result)
		}
	})

	t.Run("should cancel raw text for type=text/html", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_SYMBOL, "<"},
			[]interface{}{ml_parser.TokenTypeTAG_OPEN, "script"},
			[]interface{}{ml_parser.TokenTypeWS, " "},
			[]interface{}{ml_parser.TokenTypeATTR_NAME, "type"},
			[]interface{}{ml_parser.TokenTypeOPERATOR, "="},
			[]interface{}{ml_parser.TokenTypeATTR_VALUE, `"Text/HTML"`},
			[]interface{}{ml_parser.TokenTypeTAG_CLOSE_SYMBOL, ">"},
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_SYMBOL, "<"},
			[]interface{}{ml_parser.TokenTypeTAG_OPEN, "b"},
			[]interface{}{ml_parser.TokenTypeTAG_CLOSE_SYMBOL, ">"},
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_SYMBOL, "</"},
			[]interface{}{ml_parser.TokenTypeTAG_CLOSE, "script"},
			[]interface{}{ml_parser.TokenTypeTAG_CLOSE_SYMBOL, ">"},
		}
		result := tokenizeAndHumanizeParts(`<script type="Text/HTML"><b></script>`, nil)
		if diff := cmp.Diff(expected, result); diff != "" {
			t.Errorf("tokenizeAndHumanizeParts() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should use configured raw-text elements", func(t *testing.T) {
		options := &ml_parser.LexerOptions{RawTextElements: []string{"textarea"}}
		tokens := lexAll("<textarea><b></textarea><script><b></script>", options)
		if diff := cmp.Diff(ml_parser.TokenTypeTEXT, tokens[3].Type); diff != "" {
			t.Errorf("textarea body type mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff("<b>", tokens[3].Text); diff != "" {
			t.Errorf("textarea body mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(ml_parser.TokenTypeTAG_OPEN, tokens[11].Type); diff != "" {
			t.Errorf("script body is markup (-want +got):\n%s", diff)
		}
	})
}

func TestLexer_ExpressionLanguage(t *testing.T) {
	t.Run("should split text around an expression", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{ml_parser.TokenTypeTEXT, "a"},
			[]interface{}{ml_parser.TokenTypeEL_OPEN_DELIMITER, "{{"},
			[]interface{}{ml_parser.TokenTypeEL_CONTENT, "x + y"},
			[]interface{}{ml_parser.TokenTypeEL_CLOSE_DELIMITER, "}}"},
			[]interface{}{ml_parser.TokenTypeTEXT, "b"},
		}
		result := tokenizeAndHumanizeParts("a{{x + y}}b", curlyDelimiters)
		if diff := cmp.Diff(expected, result); diff != "" {
			t.Errorf("tokenizeAndHumanizeParts() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should tag content with the delimiter mimetype", func(t *testing.T) {
		tokens := lexAll("{{x}}", curlyDelimiters)
		mimeType, ok := tokens[1].Property(ml_parser.PropertyELMimeType)
		if !ok || mimeType != "text/x-expression" {
			t.Errorf("el-mimetype = %q, %t; want \"text/x-expression\", true", mimeType, ok)
		}
		if _, ok := tokens[0].Property(ml_parser.PropertyELMimeType); ok {
			t.Errorf("delimiter token carries el-mimetype")
		}
	})

	t.Run("should lex an empty expression", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{ml_parser.TokenTypeEL_OPEN_DELIMITER, "{{"},
			[]interface{}{ml_parser.TokenTypeEL_CLOSE_DELIMITER, "}}"},
		}
		result := tokenizeAndHumanizeParts("{{}}", curlyDelimiters)
		if diff := cmp.Diff(expected, result); diff != "" {
			t.Errorf("tokenizeAndHumanizeParts() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should keep markup characters inside an expression", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{ml_parser.TokenTypeEL_OPEN_DELIMITER, "{{"},
			[]interface{}{ml_parser.TokenTypeEL_CONTENT, "a < b"},
			[]interface{}{ml_parser.TokenTypeEL_CLOSE_DELIMITER, "}}"},
		}
		result := tokenizeAndHumanizeParts("{{a < b}}", curlyDelimiters)
		if diff := cmp.Diff(expected, result); diff != "" {
			t.Errorf("tokenizeAndHumanizeParts() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should flush an unterminated expression", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{ml_parser.TokenTypeTEXT, "a"},
			[]interface{}{ml_parser.TokenTypeEL_OPEN_DELIMITER, "{{"},
			[]interface{}{ml_parser.TokenTypeEL_CONTENT, "x"},
		}
		result := tokenizeAndHumanizeParts("a{{x", curlyDelimiters)
		if diff := cmp.Diff(expected, result); diff != "" {
			t.Errorf("tokenizeAndHumanizeParts() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should treat a partial open delimiter as text", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{ml_parser.TokenTypeTEXT, "a{b}"},
		}
		result := tokenizeAndHumanizeParts("a{b}", curlyDelimiters)
		if diff := cmp.Diff(expected, result); diff != "" {
			t.Errorf("tokenizeAndHumanizeParts() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should try delimiters in declaration order", func(t *testing.T) {
		options := &ml_parser.LexerOptions{
			ExpressionDelimiters: []ml_parser.ExpressionDelimiter{
				{Open: "${", Close: "}", MimeType: "text/x-el"},
				{Open: "{{", Close: "}}", MimeType: "text/x-expression"},
			},
		}
		var got []interface{}
		for _, tok := range lexAll("${a}{{b}}", options) {
			if tok.Type == ml_parser.TokenTypeEL_CONTENT {
				mimeType, _ := tok.Property(ml_parser.PropertyELMimeType)
				got = append(got, []interface{}{tok.Text, mimeType})
			}
		}
		expected := []interface{}{
			[]interface{}{"a", "text/x-el"},
			[]interface{}{"b", "text/x-expression"},
		}
		if diff := cmp.Diff(expected, got); diff != "" {
			t.Errorf("expression contents mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should split an attribute value around an expression", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_SYMBOL, "<"},
			[]interface{}{ml_parser.TokenTypeTAG_OPEN, "i"},
			[]interface{}{ml_parser.TokenTypeWS, " "},
			[]interface{}{ml_parser.TokenTypeATTR_NAME, "value"},
			[]interface{}{ml_parser.TokenTypeOPERATOR, "="},
			[]interface{}{ml_parser.TokenTypeATTR_VALUE, `"a`},
			[]interface{}{ml_parser.TokenTypeEL_OPEN_DELIMITER, "{{"},
			[]interface{}{ml_parser.TokenTypeEL_CONTENT, "x"},
			[]interface{}{ml_parser.TokenTypeEL_CLOSE_DELIMITER, "}}"},
			[]interface{}{ml_parser.TokenTypeATTR_VALUE, `b"`},
			[]interface{}{ml_parser.TokenTypeTAG_CLOSE_SYMBOL, ">"},
		}
		result := tokenizeAndHumanizeParts(`<i value="a{{x}}b">`, curlyDelimiters)
		if diff := cmp.Diff(expected, result); diff != "" {
			t.Errorf("tokenizeAndHumanizeParts() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should lex an expression in an unquoted value", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_SYMBOL, "<"},
			[]interface{}{ml_parser.TokenTypeTAG_OPEN, "i"},
			[]interface{}{ml_parser.TokenTypeWS, " "},
			[]interface{}{ml_parser.TokenTypeATTR_NAME, "v"},
			[]interface{}{ml_parser.TokenTypeOPERATOR, "="},
			[]interface{}{ml_parser.TokenTypeEL_OPEN_DELIMITER, "{{"},
			[]interface{}{ml_parser.TokenTypeEL_CONTENT, "x"},
			[]interface{}{ml_parser.TokenTypeEL_CLOSE_DELIMITER, "}}"},
			[]interface{}{ml_parser.TokenTypeTAG_CLOSE_SYMBOL, ">"},
		}
		result := tokenizeAndHumanizeParts(`<i v={{x}}>`, curlyDelimiters)
		if diff := cmp.Diff(expected, result); diff != "" {
			t.Errorf("tokenizeAndHumanizeParts() mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestLexer_CommentsAndDeclarations(t *testing.T) {
	t.Run("should lex a comment", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{ml_parser.TokenTypeCOMMENT, "<!-- a - b -- c -->"},
			[]interface{}{ml_parser.TokenTypeTEXT, "x"},
		}
		result := tokenizeAndHumanizeParts("<!-- a - b -- c -->x", nil)
		if diff := cmp.Diff(expected, result); diff != "" {
			t.Errorf("tokenizeAndHumanizeParts() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should flush an unterminated comment", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{ml_parser.TokenTypeCOMMENT, "<!-- a"},
		}
		result := tokenizeAndHumanizeParts("<!-- a", nil)
		if diff := cmp.Diff(expected, result); diff != "" {
			t.Errorf("tokenizeAndHumanizeParts() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should lex CDATA", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{ml_parser.TokenTypeCDATA, "<![CDATA[a]b]]>"},
		}
		result := tokenizeAndHumanizeParts("<![CDATA[a]b]]>", nil)
		if diff := cmp.Diff(expected, result); diff != "" {
			t.Errorf("tokenizeAndHumanizeParts() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should lex a processing instruction", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{ml_parser.TokenTypeDECLARATION, `<?xml version="1.0"?>`},
		}
		result := tokenizeAndHumanizeParts(`<?xml version="1.0"?>`, nil)
		if diff := cmp.Diff(expected, result); diff != "" {
			t.Errorf("tokenizeAndHumanizeParts() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should lex the parts of a doctype", func(t *testing.T) {
		source := `<!DOCTYPE html PUBLIC "-//W3C//DTD HTML 4.01//EN" "http://www.w3.org/TR/html4/strict.dtd">`
		expected := []interface{}{
			[]interface{}{ml_parser.TokenTypeDECLARATION, "<!DOCTYPE", ml_parser.DoctypePartKeyword},
			[]interface{}{ml_parser.TokenTypeWS, " ", ""},
			[]interface{}{ml_parser.TokenTypeDECLARATION, "html", ml_parser.DoctypePartRoot},
			[]interface{}{ml_parser.TokenTypeWS, " ", ""},
			[]interface{}{ml_parser.TokenTypeDECLARATION, "PUBLIC", ml_parser.DoctypePartPublic},
			[]interface{}{ml_parser.TokenTypeWS, " ", ""},
			[]interface{}{ml_parser.TokenTypeDECLARATION, `"-//W3C//DTD HTML 4.01//EN"`, ml_parser.DoctypePartPublicID},
			[]interface{}{ml_parser.TokenTypeWS, " ", ""},
			[]interface{}{ml_parser.TokenTypeDECLARATION, `"http://www.w3.org/TR/html4/strict.dtd"`, ml_parser.DoctypePartSystemID},
			[]interface{}{ml_parser.TokenTypeDECLARATION, ">", ""},
		}
		result := []interface{}{}
		for _, tok := range lexAll(source, nil) {
			part, _ := tok.Property(ml_parser.PropertyDoctypePart)
			result = append(result, []interface{}{tok.Type, tok.Text, part})
		}
		if diff := cmp.Diff(expected, result); diff != "" {
			t.Errorf("doctype tokens mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should lex SGML comments inside a declaration", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{ml_parser.TokenTypeDECLARATION, "<!ENTITY"},
			[]interface{}{ml_parser.TokenTypeDECLARATION, " a "},
			[]interface{}{ml_parser.TokenTypeSGML_COMMENT, "-- note --"},
			[]interface{}{ml_parser.TokenTypeDECLARATION, ">"},
		}
		result := tokenizeAndHumanizeParts("<!ENTITY a -- note -->", nil)
		if diff := cmp.Diff(expected, result); diff != "" {
			t.Errorf("tokenizeAndHumanizeParts() mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestLexer_References(t *testing.T) {
	expected := []interface{}{
		[]interface{}{ml_parser.TokenTypeTEXT, "a"},
		[]interface{}{ml_parser.TokenTypeCHARACTER, "&amp;"},
		[]interface{}{ml_parser.TokenTypeCHARACTER, "&#65;"},
		[]interface{}{ml_parser.TokenTypeCHARACTER, "&#x4f;"},
		[]interface{}{ml_parser.TokenTypeTEXT, "b "},
		[]interface{}{ml_parser.TokenTypeTEXT, "& c"},
	}
	result := tokenizeAndHumanizeParts("a&amp;&#65;&#x4f;b & c", nil)
	if diff := cmp.Diff(expected, result); diff != "" {
		t.Errorf("tokenizeAndHumanizeParts() mismatch (-want +got):\n%s", diff)
	}
}

func TestLexer_Coverage(t *testing.T) {
	inputs := []string{
		"",
		"plain text",
		"<p>Hi</p>",
		`<div clas^s="x">`,
		"<a b='1' c=\"2\" d=3 e/><br/>",
		"<script>x</script",
		"<script>x</scr",
		"<style>",
		"<!-- unterminated",
		"<!DOCTYPE html SYSTEM 'about:legacy-compat'>",
		"<!DOCTYPE",
		"<!DOCTYPE html --c-- [ <!ENTITY x 'y'> ]>",
		"<![CDATA[ x ]",
		"<?php echo 1 ?>",
		"</ bogus>",
		"<a href=\"{{u}}\">{{ t }}</a>{{",
		"&#x;&#;&;&x",
		"<a\n\tb\r\n=\n'c'\n>",
		"é<ü ö=ä>€</ü>",
		"<",
		"</",
		"<!",
		"<!-",
		"<a b=",
		"<a b='",
		"<a /",
		"</a",
		"</a x>",
		strings.Repeat("<div>", 10) + "text" + strings.Repeat("</div>", 10),
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			var sb strings.Builder
			offset := 0
			for _, tok := range lexAll(input, curlyDelimiters) {
				if tok.Offset != offset {
					t.Fatalf("token %s starts at %d, want %d", tok.String(), tok.Offset, offset)
				}
				if tok.Length() == 0 {
					t.Fatalf("empty token %s", tok.String())
				}
				offset = tok.End()
				sb.WriteString(tok.Text)
			}
			if diff := cmp.Diff(input, sb.String()); diff != "" {
				t.Errorf("token texts do not reproduce the input (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLexer_FlyweightText(t *testing.T) {
	first := lexAll("<div>", nil)
	second := lexAll("<x></x><DIV class=a><div>", nil)
	if unsafe.StringData(first[1].Text) != unsafe.StringData(second[len(second)-2].Text) {
		t.Errorf("tag name %q is not shared", first[1].Text)
	}
	if unsafe.StringData(first[0].Text) != unsafe.StringData(second[0].Text) {
		t.Errorf("punctuation %q is not shared", first[0].Text)
	}
}

func TestLexer_StateCache(t *testing.T) {
	cache := ml_parser.NewStateCache()
	options := &ml_parser.LexerOptions{StateCache: cache}
	seq := ml_parser.Lex(strings.Repeat("<p>a</p>", 50), options)
	if seq.Len() != 350 {
		t.Fatalf("got %d tokens, want 350", seq.Len())
	}
	if cache.Len() > 10 {
		t.Errorf("cache holds %d states for a repetitive document", cache.Len())
	}
	if seq.StateAt(0) != seq.StateAt(7) {
		t.Errorf("equal states are not shared")
	}
	if !seq.StateAt(0).IsInitial() {
		t.Errorf("first state is %s, want the initial state", seq.StateAt(0))
	}
}
