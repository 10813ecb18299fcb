package ml_parser

import (
	"markup-go/packages/markup/src/core"
)

func (l *Lexer) lexText(ch int) (*Token, bool) {
	switch l.st.State {
	case stateInit:
		switch ch {
		case core.CharEOF:
			return nil, true
		case core.CharLT:
			l.st.State = stateLT
		case core.CharAMPERSAND:
			l.st.State = stateRef
		default:
			if i := l.matchExpressionOpen(ch); i >= 0 {
				l.beginExpression(i, stateInit)
				return l.token(TokenTypeEL_OPEN_DELIMITER), true
			}
			l.st.State = stateText
		}
	case stateText:
		switch ch {
		case core.CharEOF:
			return l.flush(TokenTypeTEXT)
		case core.CharLT, core.CharAMPERSAND:
			l.input.Backup(1)
			l.st.State = stateInit
			return l.token(TokenTypeTEXT), true
		default:
			if i := l.matchExpressionOpen(ch); i >= 0 {
				if l.beginExpression(i, stateInit) {
					return l.token(TokenTypeEL_OPEN_DELIMITER), true
				}
				return l.token(TokenTypeTEXT), true
			}
		}
	}
	return nil, false
}

// lexReference recognizes &name; &#123; and &#x7b; references. Anything
// that does not complete as a reference continues as plain text.
func (l *Lexer) lexReference(ch int) (*Token, bool) {
	switch l.st.State {
	case stateRef:
		switch {
		case core.IsAsciiLetter(ch):
			l.st.State = stateRefName
		case ch == core.CharHASH:
			l.st.State = stateRefHash
		default:
			l.input.Backup(1)
			l.st.State = stateText
		}
	case stateRefName:
		switch {
		case core.IsAsciiLetter(ch) || core.IsDigit(ch):
		case ch == core.CharSEMICOLON:
			l.st.State = stateInit
			return l.token(TokenTypeCHARACTER), true
		default:
			l.input.Backup(1)
			l.st.State = stateText
		}
	case stateRefHash:
		switch {
		case ch == core.CharX || ch == core.CharLowerX:
			l.st.State = stateRefX
		case core.IsDigit(ch):
			l.st.State = stateRefDec
		default:
			l.input.Backup(1)
			l.st.State = stateText
		}
	case stateRefDec:
		switch {
		case core.IsDigit(ch):
		case ch == core.CharSEMICOLON:
			l.st.State = stateInit
			return l.token(TokenTypeCHARACTER), true
		default:
			l.input.Backup(1)
			l.st.State = stateText
		}
	case stateRefX:
		if core.IsAsciiHexDigit(ch) {
			l.st.State = stateRefHex
		} else {
			l.input.Backup(1)
			l.st.State = stateText
		}
	case stateRefHex:
		switch {
		case core.IsAsciiHexDigit(ch):
		case ch == core.CharSEMICOLON:
			l.st.State = stateInit
			return l.token(TokenTypeCHARACTER), true
		default:
			l.input.Backup(1)
			l.st.State = stateText
		}
	}
	return nil, false
}

// lexRawContent consumes the body of a raw-text element up to its end tag
func (l *Lexer) lexRawContent(ch int) (*Token, bool) {
	if ch == core.CharEOF {
		if !l.pending() {
			return nil, true
		}
		return l.rawContentToken(), true
	}
	if ch != core.CharLT || !l.probeEndTag() {
		return nil, false
	}
	l.input.Backup(1)
	if !l.pending() {
		l.resetTag()
		l.st.State = stateInit
		return nil, false
	}
	tok := l.rawContentToken()
	l.resetTag()
	l.st.State = stateInit
	return tok, true
}

// probeEndTag looks ahead, after a '<', for the end tag of the current
// raw-text element. Nothing is consumed.
func (l *Lexer) probeEndTag() bool {
	read := 0
	next := func() int {
		read++
		return l.input.Read()
	}
	matched := next() == core.CharSLASH
	for i := 0; matched && i < len(l.st.Tag); i++ {
		matched = core.ToLower(next()) == int(l.st.Tag[i])
	}
	if matched {
		c := next()
		matched = c == core.CharEOF || c == core.CharGT || c == core.CharSLASH || core.IsWhitespace(c)
	}
	l.input.Backup(read)
	return matched
}

func (l *Lexer) rawContentToken() *Token {
	tokenType := TokenTypeTEXT
	switch l.st.Tag {
	case "script":
		tokenType = TokenTypeSCRIPT
	case "style":
		tokenType = TokenTypeSTYLE
	}
	tok := l.token(tokenType)
	tok.setProperty(PropertyRawTextTag, l.st.TagText)
	return tok
}

func (l *Lexer) lexComment(ch int) (*Token, bool) {
	switch l.st.State {
	case stateSGMLEscape:
		switch {
		case ch == core.CharMINUS:
			l.st.State = stateSGMLDash
		case ch == core.CharLBRACKET:
			l.st.State = stateCDATA
		case core.IsAsciiLetter(ch):
			l.st.State = stateDeclKeyword
		case ch == core.CharGT:
			l.st.State = stateInit
			return l.token(TokenTypeCOMMENT), true
		case ch == core.CharEOF:
			return l.flush(TokenTypeERROR)
		default:
			l.st.State = stateBogusComment
		}
	case stateSGMLDash:
		switch ch {
		case core.CharMINUS:
			l.st.State = stateComment
		case core.CharEOF:
			return l.flush(TokenTypeERROR)
		default:
			l.input.Backup(1)
			l.st.State = stateBogusComment
		}
	case stateComment:
		switch ch {
		case core.CharMINUS:
			l.st.State = stateCommentDash
		case core.CharEOF:
			return l.flush(TokenTypeCOMMENT)
		}
	case stateCommentDash:
		switch ch {
		case core.CharMINUS:
			l.st.State = stateCommentDashDash
		case core.CharEOF:
			return l.flush(TokenTypeCOMMENT)
		default:
			l.st.State = stateComment
		}
	case stateCommentDashDash:
		switch ch {
		case core.CharGT:
			l.st.State = stateInit
			return l.token(TokenTypeCOMMENT), true
		case core.CharMINUS:
		case core.CharEOF:
			return l.flush(TokenTypeCOMMENT)
		default:
			l.st.State = stateComment
		}
	case stateBogusComment:
		switch ch {
		case core.CharGT:
			l.st.State = stateInit
			return l.token(TokenTypeERROR), true
		case core.CharEOF:
			return l.flush(TokenTypeERROR)
		}
	case stateCDATA:
		switch ch {
		case core.CharEOF:
			return l.flush(TokenTypeCDATA)
		case core.CharRBRACKET:
			if l.input.Read() != core.CharRBRACKET {
				l.input.Backup(1)
				break
			}
			if l.input.Read() != core.CharGT {
				l.input.Backup(2)
				break
			}
			l.st.State = stateInit
			return l.token(TokenTypeCDATA), true
		}
	case stateProcessingInstruction:
		switch ch {
		case core.CharGT:
			l.st.State = stateInit
			return l.token(TokenTypeDECLARATION), true
		case core.CharEOF:
			return l.flush(TokenTypeDECLARATION)
		}
	}
	return nil, false
}
