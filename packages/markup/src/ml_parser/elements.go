package ml_parser

import (
	"fmt"
	"strings"

	"markup-go/packages/markup/src/util"
)

// ElementKind represents the kind of a structural element
type ElementKind int

const (
	ElementKindOpenTag ElementKind = iota
	ElementKindCloseTag
	ElementKindText
	ElementKindComment
	ElementKindDeclaration
	ElementKindError
)

func (k ElementKind) String() string {
	switch k {
	case ElementKindOpenTag:
		return "OpenTag"
	case ElementKindCloseTag:
		return "CloseTag"
	case ElementKindText:
		return "Text"
	case ElementKindComment:
		return "Comment"
	case ElementKindDeclaration:
		return "Declaration"
	case ElementKindError:
		return "Error"
	}
	return fmt.Sprintf("ElementKind(%d)", int(k))
}

// Span is a half-open byte range of the source
type Span struct {
	Start int
	End   int
}

// From returns the offset of the first byte
func (s Span) From() int { return s.Start }

// To returns the offset just past the last byte
func (s Span) To() int { return s.End }

// Len returns the length of the span
func (s Span) Len() int { return s.End - s.Start }

// Element is a structural element of the markup. The set of implementations
// is closed: *OpenTag, *CloseTag, *Text, *Comment, *Declaration and
// *ErrorElement.
type Element interface {
	Kind() ElementKind
	From() int
	To() int
	element()
}

// Attribute represents an attribute of an open tag. ValueParts is empty for
// a boolean attribute; a value interrupted by expression regions has one part
// per token, expression delimiters included.
type Attribute struct {
	Name       string
	NameOffset int
	ValueParts []Token
}

// HasValue reports whether the attribute has a value
func (a *Attribute) HasValue() bool {
	return len(a.ValueParts) > 0
}

// Value returns the concatenated text of the value parts, quotes included
func (a *Attribute) Value() string {
	if len(a.ValueParts) == 1 {
		return a.ValueParts[0].Text
	}
	var sb strings.Builder
	for i := range a.ValueParts {
		sb.WriteString(a.ValueParts[i].Text)
	}
	return sb.String()
}

// UnquotedValue returns the value with one pair of matching quotes removed
func (a *Attribute) UnquotedValue() string {
	return unquote(a.Value())
}

// ValueOffset returns the offset of the first value part, or -1
func (a *Attribute) ValueOffset() int {
	if len(a.ValueParts) == 0 {
		return -1
	}
	return a.ValueParts[0].Offset
}

// ValueType returns the token type of the value, as classified by the lexer
func (a *Attribute) ValueType() TokenType {
	for i := range a.ValueParts {
		if a.ValueParts[i].Type.IsAttributeValue() {
			return a.ValueParts[i].Type
		}
	}
	return TokenTypeATTR_VALUE
}

// HasExpressions reports whether the value contains an expression region
func (a *Attribute) HasExpressions() bool {
	for i := range a.ValueParts {
		if a.ValueParts[i].Type.IsExpression() {
			return true
		}
	}
	return false
}

// OpenTag represents a start tag. IsVoid is set when the tag is written
// self-closed, as in <br/>.
type OpenTag struct {
	Span
	Name        string
	Attributes  []*Attribute
	IsVoid      bool
	Diagnostics []*util.Diagnostic
}

func (t *OpenTag) Kind() ElementKind { return ElementKindOpenTag }
func (t *OpenTag) element()          {}

// Attribute returns the last attribute named name, compared
// case-insensitively
func (t *OpenTag) Attribute(name string) *Attribute {
	for i := len(t.Attributes) - 1; i >= 0; i-- {
		if strings.EqualFold(t.Attributes[i].Name, name) {
			return t.Attributes[i]
		}
	}
	return nil
}

// CloseTag represents an end tag
type CloseTag struct {
	Span
	Name        string
	Diagnostics []*util.Diagnostic
}

func (t *CloseTag) Kind() ElementKind { return ElementKindCloseTag }
func (t *CloseTag) element()          {}

// Text represents a run of character data. Raw is set for the body of a
// raw-text element, whose tag name is RawTag.
type Text struct {
	Span
	Raw    bool
	RawTag string
}

func (t *Text) Kind() ElementKind { return ElementKindText }
func (t *Text) element()          {}

// Comment represents a <!-- --> comment
type Comment struct {
	Span
}

func (c *Comment) Kind() ElementKind { return ElementKindComment }
func (c *Comment) element()          {}

// Declaration represents a <!...> declaration or a <?...?> processing
// instruction. Doctype declarations carry their parsed parts.
type Declaration struct {
	Span
	Doctype     bool
	RootElement string
	PublicID    string
	SystemID    string
}

func (d *Declaration) Kind() ElementKind { return ElementKindDeclaration }
func (d *Declaration) element()          {}

// ErrorElement covers a span the scanner could not give structure to
type ErrorElement struct {
	Span
	Diagnostic *util.Diagnostic
}

func (e *ErrorElement) Kind() ElementKind { return ElementKindError }
func (e *ErrorElement) element()          {}

// ElementDiagnostics returns the diagnostics attached to an element
func ElementDiagnostics(e Element) []*util.Diagnostic {
	switch e := e.(type) {
	case *OpenTag:
		return e.Diagnostics
	case *CloseTag:
		return e.Diagnostics
	case *ErrorElement:
		return []*util.Diagnostic{e.Diagnostic}
	}
	return nil
}
