package ml_parser

import (
	"fmt"
	"strings"

	"markup-go/packages/markup/src/util"
)

// Diagnostic codes reported by the scanner
const (
	DiagnosticUnclosedTag         = "unclosed-tag"
	DiagnosticUnexpectedCharacter = "unexpected-character"
	DiagnosticDuplicateAttribute  = "duplicate-attribute"
	DiagnosticUnexpectedToken     = "unexpected-token"
)

// Scanner groups the tokens of a TokenSequence into elements. It is a
// forward-only iterator; every element starts at a token boundary and no
// state is carried from one element to the next, so a scanner can be
// resumed at the token index of any element.
type Scanner struct {
	seq   *TokenSequence
	index int

	next      Element
	nextIndex int
	fetched   bool
}

// ScannerForOffset creates a scanner positioned at the token starting at
// offset. It panics if offset is not a token boundary.
func ScannerForOffset(seq *TokenSequence, offset int) *Scanner {
	index, ok := seq.IndexAtOffset(offset)
	if !ok {
		panic(fmt.Sprintf("Programming error - offset %d is not a token boundary", offset))
	}
	return &Scanner{seq: seq, index: index}
}

// ScannerForTokenIndex creates a scanner positioned at token index. The
// index just past the last token is allowed and yields no elements.
func ScannerForTokenIndex(seq *TokenSequence, index int) *Scanner {
	if index < 0 || (index > 0 && !seq.HasToken(index-1)) {
		panic(fmt.Sprintf("Programming error - token index %d out of range", index))
	}
	return &Scanner{seq: seq, index: index}
}

// HasNext reports whether another element is available
func (s *Scanner) HasNext() bool {
	if !s.fetched {
		s.nextIndex = s.index
		s.next = s.scan()
		s.fetched = true
	}
	return s.next != nil
}

// Next returns the next element. It panics when HasNext is false.
func (s *Scanner) Next() Element {
	if !s.HasNext() {
		panic("Programming error - Next called on an exhausted scanner")
	}
	e := s.next
	s.next = nil
	s.fetched = false
	return e
}

// TokenIndex returns the index of the first token of the element the next
// call to Next returns
func (s *Scanner) TokenIndex() int {
	if s.fetched {
		return s.nextIndex
	}
	return s.index
}

func (s *Scanner) peek() *Token {
	return s.seq.Token(s.index)
}

func (s *Scanner) advance() *Token {
	tok := s.seq.Token(s.index)
	if tok != nil {
		s.index++
	}
	return tok
}

func (s *Scanner) scan() Element {
	tok := s.peek()
	if tok == nil {
		return nil
	}
	switch tok.Type {
	case TokenTypeTAG_OPEN_SYMBOL:
		if tok.Text == "</" {
			return s.scanCloseTag()
		}
		return s.scanOpenTag()
	case TokenTypeCOMMENT:
		s.advance()
		return &Comment{Span: Span{tok.Offset, tok.End()}}
	case TokenTypeDECLARATION:
		return s.scanDeclaration()
	case TokenTypeERROR:
		s.advance()
		return &ErrorElement{
			Span: Span{tok.Offset, tok.End()},
			Diagnostic: util.NewDiagnostic(DiagnosticUnexpectedCharacter, util.DiagnosticSeverityError,
				tok.Offset, tok.End(), "Unexpected character sequence %q", tok.Text),
		}
	}
	if isTextToken(tok.Type) {
		return s.scanText()
	}
	s.advance()
	return &ErrorElement{
		Span: Span{tok.Offset, tok.End()},
		Diagnostic: util.NewDiagnostic(DiagnosticUnexpectedToken, util.DiagnosticSeverityError,
			tok.Offset, tok.End(), "Unexpected %s token %q", tok.Type, tok.Text),
	}
}

func isTextToken(tokenType TokenType) bool {
	switch tokenType {
	case TokenTypeTEXT, TokenTypeWS, TokenTypeCHARACTER, TokenTypeCDATA, TokenTypeSCRIPT, TokenTypeSTYLE,
		TokenTypeEL_OPEN_DELIMITER, TokenTypeEL_CONTENT, TokenTypeEL_CLOSE_DELIMITER:
		return true
	}
	return false
}

func (s *Scanner) scanText() Element {
	text := &Text{}
	first := true
	for tok := s.peek(); tok != nil && isTextToken(tok.Type); tok = s.peek() {
		s.advance()
		if first {
			text.Start = tok.Offset
			first = false
		}
		text.End = tok.End()
		if tag, ok := tok.Property(PropertyRawTextTag); ok {
			text.Raw = true
			text.RawTag = tag
		}
	}
	return text
}

func (s *Scanner) scanOpenTag() Element {
	open := s.advance()
	tag := &OpenTag{Span: Span{open.Offset, open.End()}}
	if name := s.peek(); name != nil && name.Type == TokenTypeTAG_OPEN {
		s.advance()
		tag.Name = name.Text
		tag.End = name.End()
	}

	var attr *Attribute
	expectValue := false
	for {
		tok := s.peek()
		if tok == nil {
			tag.Diagnostics = append(tag.Diagnostics, unclosedTag(tag.Name, tag.Span))
			return tag
		}
		switch {
		case tok.Type == TokenTypeWS:
			if attr != nil && attr.HasValue() {
				expectValue = false
			}
		case tok.Type == TokenTypeATTR_NAME:
			attr = &Attribute{Name: tok.Text, NameOffset: tok.Offset}
			if tag.Attribute(tok.Text) != nil {
				tag.Diagnostics = append(tag.Diagnostics, util.NewDiagnostic(DiagnosticDuplicateAttribute,
					util.DiagnosticSeverityWarning, tok.Offset, tok.End(), "Duplicate attribute %q", tok.Text))
			}
			tag.Attributes = append(tag.Attributes, attr)
			expectValue = false
		case tok.Type == TokenTypeOPERATOR:
			expectValue = attr != nil && !attr.HasValue()
		case tok.Type.IsAttributeValue() || tok.Type.IsExpression():
			if expectValue {
				attr.ValueParts = append(attr.ValueParts, *tok)
			} else {
				tag.Diagnostics = append(tag.Diagnostics, unexpectedCharacter(tok))
			}
		case tok.Type == TokenTypeERROR:
			tag.Diagnostics = append(tag.Diagnostics, unexpectedCharacter(tok))
			expectValue = false
		case tok.Type == TokenTypeTAG_CLOSE_SYMBOL:
			s.advance()
			tag.End = tok.End()
			tag.IsVoid = tok.Text == "/>"
			return tag
		default:
			// the tag ends without '>'; tok belongs to the next element
			tag.Diagnostics = append(tag.Diagnostics, unclosedTag(tag.Name, tag.Span))
			return tag
		}
		s.advance()
		tag.End = tok.End()
	}
}

func (s *Scanner) scanCloseTag() Element {
	open := s.advance()
	tag := &CloseTag{Span: Span{open.Offset, open.End()}}
	if name := s.peek(); name != nil && name.Type == TokenTypeTAG_CLOSE {
		s.advance()
		tag.Name = name.Text
		tag.End = name.End()
	}
	for {
		tok := s.peek()
		if tok == nil {
			tag.Diagnostics = append(tag.Diagnostics, unclosedTag(tag.Name, tag.Span))
			return tag
		}
		switch tok.Type {
		case TokenTypeWS:
		case TokenTypeERROR:
			tag.Diagnostics = append(tag.Diagnostics, unexpectedCharacter(tok))
		case TokenTypeTAG_CLOSE_SYMBOL:
			s.advance()
			tag.End = tok.End()
			return tag
		default:
			tag.Diagnostics = append(tag.Diagnostics, unclosedTag(tag.Name, tag.Span))
			return tag
		}
		s.advance()
		tag.End = tok.End()
	}
}

// scanDeclaration groups the tokens of one declaration. A declaration ends
// with its '>' token, or at the first token that cannot belong to it.
func (s *Scanner) scanDeclaration() Element {
	first := s.advance()
	decl := &Declaration{Span: Span{first.Offset, first.End()}}
	keyword, _ := first.Property(PropertyDoctypePart)
	doctype := keyword == DoctypePartKeyword
	for last := first; !endsDeclaration(last); {
		tok := s.peek()
		if tok == nil || !continuesDeclaration(tok) {
			break
		}
		s.advance()
		last = tok
		decl.End = tok.End()
		if !doctype {
			continue
		}
		switch part, _ := tok.Property(PropertyDoctypePart); part {
		case DoctypePartRoot:
			decl.RootElement = tok.Text
		case DoctypePartPublicID:
			decl.PublicID = strings.TrimSpace(unquote(tok.Text))
		case DoctypePartSystemID:
			decl.SystemID = strings.TrimSpace(unquote(tok.Text))
		}
	}
	decl.Doctype = doctype && decl.RootElement != ""
	return decl
}

func endsDeclaration(tok *Token) bool {
	if tok.Type != TokenTypeDECLARATION || !strings.HasSuffix(tok.Text, ">") {
		return false
	}
	_, part := tok.Property(PropertyDoctypePart)
	return !part
}

func continuesDeclaration(tok *Token) bool {
	switch tok.Type {
	case TokenTypeWS, TokenTypeSGML_COMMENT:
		return true
	case TokenTypeDECLARATION:
		return !strings.HasPrefix(tok.Text, "<!") && !strings.HasPrefix(tok.Text, "<?")
	}
	return false
}

func unclosedTag(name string, span Span) *util.Diagnostic {
	return util.NewDiagnostic(DiagnosticUnclosedTag, util.DiagnosticSeverityError, span.Start, span.End,
		"Tag %q is not closed", name)
}

func unexpectedCharacter(tok *Token) *util.Diagnostic {
	return util.NewDiagnostic(DiagnosticUnexpectedCharacter, util.DiagnosticSeverityError, tok.Offset, tok.End(),
		"Unexpected character %q in tag", tok.Text)
}
