package ml_parser

import (
	"strings"

	"markup-go/packages/markup/src/core"
)

func (l *Lexer) lexDeclaration(ch int) (*Token, bool) {
	switch l.st.State {
	case stateDeclKeyword:
		if core.IsAsciiLetter(ch) || core.IsDigit(ch) {
			break
		}
		l.input.Backup(1)
		keyword := strings.TrimPrefix(l.input.ReadText(), "<!")
		tok := l.token(TokenTypeDECLARATION)
		if strings.EqualFold(keyword, "doctype") {
			tok.setProperty(PropertyDoctypePart, DoctypePartKeyword)
			l.st.Doctype = doctypeRoot
			l.st.State = stateDoctypeX
		} else {
			l.st.State = stateDecl
		}
		return tok, true
	case stateDecl:
		switch ch {
		case core.CharGT:
			l.st.State = stateInit
			return l.token(TokenTypeDECLARATION), true
		case core.CharEOF:
			return l.flush(TokenTypeDECLARATION)
		case core.CharMINUS:
			l.st.State = stateDeclDash
		case core.CharLT:
			l.input.Backup(1)
			l.st.State = stateInit
			if l.pending() {
				return l.token(TokenTypeDECLARATION), true
			}
		}
	case stateDeclDash:
		if ch != core.CharMINUS {
			l.input.Backup(1)
			l.st.State = stateDecl
			break
		}
		l.input.Backup(2)
		l.st.Return = stateDecl
		l.st.State = stateSGMLCommentStart
		if l.pending() {
			return l.token(TokenTypeDECLARATION), true
		}
	case stateSGMLCommentStart:
		// ch is the first dash of "--"
		l.input.Read()
		l.st.State = stateSGMLComment
	case stateSGMLComment:
		switch ch {
		case core.CharMINUS:
			l.st.State = stateSGMLCommentDash
		case core.CharEOF:
			return l.flush(TokenTypeSGML_COMMENT)
		}
	case stateSGMLCommentDash:
		switch ch {
		case core.CharMINUS:
			l.st.State = l.st.Return
			l.st.Return = stateInit
			return l.token(TokenTypeSGML_COMMENT), true
		case core.CharEOF:
			return l.flush(TokenTypeSGML_COMMENT)
		default:
			l.st.State = stateSGMLComment
		}
	case stateDoctypeX:
		switch {
		case ch == core.CharEOF:
			return nil, true
		case core.IsWhitespace(ch):
			l.st.State = stateDoctypeWS
		case ch == core.CharGT:
			l.st.Doctype = doctypeNone
			l.st.State = stateInit
			return l.token(TokenTypeDECLARATION), true
		case ch == core.CharDQ:
			l.st.State = stateDoctypeDQuot
		case ch == core.CharSQ:
			l.st.State = stateDoctypeQuot
		case ch == core.CharLBRACKET:
			l.st.State = stateDoctypeSubset
		case ch == core.CharLT:
			l.input.Backup(1)
			l.st.Doctype = doctypeNone
			l.st.State = stateInit
		case ch == core.CharMINUS:
			if l.input.Read() == core.CharMINUS {
				l.input.Backup(2)
				l.st.Return = stateDoctypeX
				l.st.State = stateSGMLCommentStart
				break
			}
			l.input.Backup(1)
			l.st.State = stateDoctypeWord
		default:
			l.st.State = stateDoctypeWord
		}
	case stateDoctypeWS:
		if core.IsWhitespace(ch) {
			break
		}
		l.input.Backup(1)
		l.st.State = stateDoctypeX
		return l.token(TokenTypeWS), true
	case stateDoctypeWord:
		switch {
		case ch == core.CharEOF || core.IsWhitespace(ch) || core.IsQuote(ch) ||
			ch == core.CharGT || ch == core.CharLT || ch == core.CharLBRACKET:
			l.input.Backup(1)
			l.st.State = stateDoctypeX
			return l.doctypeWord(), true
		}
	case stateDoctypeQuot, stateDoctypeDQuot:
		quote := core.CharSQ
		if l.st.State == stateDoctypeDQuot {
			quote = core.CharDQ
		}
		switch ch {
		case quote:
			l.st.State = stateDoctypeX
			return l.doctypeLiteral(), true
		case core.CharEOF:
			if !l.pending() {
				return nil, true
			}
			return l.doctypeLiteral(), true
		}
	case stateDoctypeSubset:
		switch ch {
		case core.CharRBRACKET:
			l.st.State = stateDoctypeX
			return l.doctypePart(DoctypePartOther), true
		case core.CharEOF:
			if !l.pending() {
				return nil, true
			}
			return l.doctypePart(DoctypePartOther), true
		}
	}
	return nil, false
}

func (l *Lexer) doctypePart(part string) *Token {
	tok := l.token(TokenTypeDECLARATION)
	tok.setProperty(PropertyDoctypePart, part)
	return tok
}

// doctypeWord tags a bare word of a doctype declaration by its position
func (l *Lexer) doctypeWord() *Token {
	word := l.input.ReadText()
	part := DoctypePartOther
	switch l.st.Doctype {
	case doctypeRoot:
		part = DoctypePartRoot
		l.st.Doctype = doctypeExternal
	case doctypeExternal:
		switch {
		case strings.EqualFold(word, "public"):
			part = DoctypePartPublic
			l.st.Doctype = doctypePublicID
		case strings.EqualFold(word, "system"):
			part = DoctypePartSystem
			l.st.Doctype = doctypeSystemID
		}
	case doctypePublicID:
		part = DoctypePartPublicID
		l.st.Doctype = doctypeSystemID
	case doctypeSystemID:
		part = DoctypePartSystemID
		l.st.Doctype = doctypeDone
	}
	return l.doctypePart(part)
}

// doctypeLiteral tags a quoted literal of a doctype declaration
func (l *Lexer) doctypeLiteral() *Token {
	part := DoctypePartOther
	switch l.st.Doctype {
	case doctypePublicID:
		part = DoctypePartPublicID
		l.st.Doctype = doctypeSystemID
	case doctypeSystemID:
		part = DoctypePartSystemID
		l.st.Doctype = doctypeDone
	}
	return l.doctypePart(part)
}
