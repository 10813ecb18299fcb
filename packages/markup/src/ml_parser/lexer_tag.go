package ml_parser

import (
	"strings"

	"markup-go/packages/markup/src/core"
)

func (l *Lexer) lexTag(ch int) (*Token, bool) {
	switch l.st.State {
	case stateLT:
		switch {
		case core.IsNameStart(ch):
			l.input.Backup(1)
			l.st.State = stateTag
			return l.token(TokenTypeTAG_OPEN_SYMBOL), true
		case ch == core.CharSLASH:
			l.st.State = stateSlash
		case ch == core.CharBANG:
			l.st.State = stateSGMLEscape
		case ch == core.CharQUESTION:
			l.st.State = stateProcessingInstruction
		case ch == core.CharEOF:
			return l.flush(TokenTypeTEXT)
		default:
			l.input.Backup(1)
			l.st.State = stateText
		}
	case stateTag:
		if core.IsNameChar(ch) {
			break
		}
		l.input.Backup(1)
		name := l.input.ReadText()
		l.st.TagText = name
		l.st.Tag = strings.ToLower(name)
		l.st.RawText = l.rawText[l.st.Tag]
		l.st.CancelRawText = false
		l.st.Attr = ""
		l.st.State = stateTagX
		return l.token(TokenTypeTAG_OPEN), true
	case stateTagX:
		switch {
		case ch == core.CharEOF:
			return nil, true
		case core.IsWhitespace(ch):
			l.st.State = stateTagWS
		case ch == core.CharGT:
			l.afterOpenTag()
			return l.token(TokenTypeTAG_CLOSE_SYMBOL), true
		case ch == core.CharSLASH:
			l.st.State = stateTagSlash
		case ch == core.CharLT:
			// unterminated tag; the next tag starts here
			l.input.Backup(1)
			l.resetTag()
			l.st.State = stateInit
		case core.IsAttributeNameChar(ch):
			l.st.State = stateArg
		default:
			l.st.State = stateTagError
		}
	case stateTagWS:
		if core.IsWhitespace(ch) {
			break
		}
		l.input.Backup(1)
		l.st.State = stateTagX
		return l.token(TokenTypeWS), true
	case stateTagSlash:
		if ch == core.CharGT {
			l.resetTag()
			l.st.State = stateInit
			return l.token(TokenTypeTAG_CLOSE_SYMBOL), true
		}
		l.input.Backup(1)
		l.st.State = stateTagX
		return l.token(TokenTypeERROR), true
	case stateTagError:
		if ch != core.CharEOF && !core.IsWhitespace(ch) && ch != core.CharGT && ch != core.CharSLASH &&
			ch != core.CharLT && !core.IsAttributeNameChar(ch) {
			break
		}
		l.input.Backup(1)
		l.st.State = stateTagX
		return l.token(TokenTypeERROR), true
	case stateArg:
		if core.IsAttributeNameChar(ch) {
			break
		}
		l.input.Backup(1)
		l.st.Attr = strings.ToLower(l.input.ReadText())
		l.st.State = stateArgX
		return l.token(TokenTypeATTR_NAME), true
	case stateArgX:
		switch {
		case core.IsWhitespace(ch):
			l.st.State = stateArgWS
		case ch == core.CharEQ:
			l.st.State = stateEq
			return l.token(TokenTypeOPERATOR), true
		default:
			l.input.Backup(1)
			l.st.Attr = ""
			l.st.State = stateTagX
		}
	case stateArgWS:
		if core.IsWhitespace(ch) {
			break
		}
		l.input.Backup(1)
		l.st.State = stateArgX
		return l.token(TokenTypeWS), true
	}
	return nil, false
}

// afterOpenTag moves past the '>' of an open tag, into the body of a
// raw-text element when the tag names one
func (l *Lexer) afterOpenTag() {
	if l.st.RawText && !l.st.CancelRawText {
		l.st.Attr = ""
		l.st.State = stateRawContent
		return
	}
	l.resetTag()
	l.st.State = stateInit
}

func (l *Lexer) lexValue(ch int) (*Token, bool) {
	switch l.st.State {
	case stateEq:
		switch {
		case core.IsWhitespace(ch):
			l.st.State = stateEqWS
		case ch == core.CharDQ:
			l.st.State = stateValDQuot
		case ch == core.CharSQ:
			l.st.State = stateValQuot
		case ch == core.CharEOF || ch == core.CharGT || ch == core.CharLT:
			l.input.Backup(1)
			l.st.State = stateTagX
		default:
			l.input.Backup(1)
			l.st.State = stateVal
		}
	case stateEqWS:
		if core.IsWhitespace(ch) {
			break
		}
		l.input.Backup(1)
		l.st.State = stateEq
		return l.token(TokenTypeWS), true
	case stateVal:
		switch {
		case ch == core.CharEOF || core.IsWhitespace(ch) || ch == core.CharGT || ch == core.CharLT:
			l.input.Backup(1)
			l.st.State = stateTagX
			if l.pending() {
				return l.valueToken(), true
			}
		case ch == core.CharSLASH:
			l.st.State = stateValSlash
		default:
			if i := l.matchExpressionOpen(ch); i >= 0 {
				return l.valuePartBeforeExpression(i, stateVal), true
			}
		}
	case stateValSlash:
		if ch == core.CharGT {
			// "/>" closes the tag; the slash is not part of the value
			l.input.Backup(2)
			l.st.State = stateTagX
			if l.pending() {
				return l.valueToken(), true
			}
			break
		}
		l.input.Backup(1)
		l.st.State = stateVal
	case stateValQuot, stateValDQuot:
		quote := core.CharSQ
		if l.st.State == stateValDQuot {
			quote = core.CharDQ
		}
		switch ch {
		case quote:
			l.st.State = stateTagX
			return l.valueToken(), true
		case core.CharEOF:
			if !l.pending() {
				return nil, true
			}
			return l.valueToken(), true
		default:
			if i := l.matchExpressionOpen(ch); i >= 0 {
				return l.valuePartBeforeExpression(i, l.st.State), true
			}
		}
	}
	return nil, false
}

// valuePartBeforeExpression cuts the value text read before an EL open
// delimiter, or the delimiter itself when the value part is empty
func (l *Lexer) valuePartBeforeExpression(index int, ret lexerStateKind) *Token {
	if l.beginExpression(index, ret) {
		return l.token(TokenTypeEL_OPEN_DELIMITER)
	}
	return l.valueToken()
}

// valueToken classifies the pending attribute value by attribute and tag name
func (l *Lexer) valueToken() *Token {
	attr := l.st.Attr
	tokenType := TokenTypeATTR_VALUE
	selectorKind := ""
	switch {
	case len(attr) > 2 && strings.HasPrefix(attr, "on"):
		tokenType = TokenTypeATTR_VALUE_JAVASCRIPT
	case attr == "style":
		tokenType = TokenTypeATTR_VALUE_CSS
	case attr == "class" || attr == "id":
		tokenType = TokenTypeATTR_VALUE_CSS
		selectorKind = attr
	}
	if attr == "type" && l.st.RawText && strings.EqualFold(unquote(l.input.ReadText()), "text/html") {
		l.st.CancelRawText = true
	}
	tok := l.token(tokenType)
	if selectorKind != "" {
		tok.setProperty(PropertyCSSSelectorKind, selectorKind)
	}
	if l.classifier != nil {
		if mimeType, ok := l.classifier(l.st.Tag, attr); ok {
			tok.setProperty(PropertyEmbeddingMimeType, mimeType)
		}
	}
	return tok
}

func (l *Lexer) lexEndTag(ch int) (*Token, bool) {
	switch l.st.State {
	case stateSlash:
		switch {
		case core.IsNameStart(ch):
			l.input.Backup(1)
			l.st.State = stateEndTag
			return l.token(TokenTypeTAG_OPEN_SYMBOL), true
		case ch == core.CharEOF:
			return l.flush(TokenTypeTEXT)
		case ch == core.CharGT:
			// "</>" is dropped by browsers; report it
			l.st.State = stateInit
			return l.token(TokenTypeERROR), true
		default:
			l.st.State = stateBogusEndTag
		}
	case stateBogusEndTag:
		switch ch {
		case core.CharGT:
			l.st.State = stateInit
			return l.token(TokenTypeERROR), true
		case core.CharEOF:
			return l.flush(TokenTypeERROR)
		case core.CharLT:
			l.input.Backup(1)
			l.st.State = stateInit
			return l.token(TokenTypeERROR), true
		}
	case stateEndTag:
		if core.IsNameChar(ch) {
			break
		}
		l.input.Backup(1)
		name := l.input.ReadText()
		l.st.TagText = name
		l.st.Tag = strings.ToLower(name)
		l.st.State = stateEndTagX
		return l.token(TokenTypeTAG_CLOSE), true
	case stateEndTagX:
		switch {
		case ch == core.CharEOF:
			return nil, true
		case core.IsWhitespace(ch):
			l.st.State = stateEndTagWS
		case ch == core.CharGT:
			l.resetTag()
			l.st.State = stateInit
			return l.token(TokenTypeTAG_CLOSE_SYMBOL), true
		case ch == core.CharLT:
			l.input.Backup(1)
			l.resetTag()
			l.st.State = stateInit
		default:
			l.st.State = stateEndTagError
		}
	case stateEndTagWS:
		if core.IsWhitespace(ch) {
			break
		}
		l.input.Backup(1)
		l.st.State = stateEndTagX
		return l.token(TokenTypeWS), true
	case stateEndTagError:
		if ch != core.CharEOF && !core.IsWhitespace(ch) && ch != core.CharGT && ch != core.CharLT {
			break
		}
		l.input.Backup(1)
		l.st.State = stateEndTagX
		return l.token(TokenTypeERROR), true
	}
	return nil, false
}

// unquote strips one pair of matching quotes
func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
