package ml_parser

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"markup-go/packages/markup/src/core"
)

// ExpressionDelimiter declares an expression-language region such as {{ }}
type ExpressionDelimiter struct {
	Open     string
	Close    string
	MimeType string
}

// EmbeddingClassifier maps an attribute of a tag to the mimetype of the
// language embedded in its value. Both names are lowercased.
type EmbeddingClassifier func(tagName, attrName string) (mimeType string, ok bool)

// LexerOptions represents options for the character lexer
type LexerOptions struct {
	// ExpressionDelimiters are tried in order at every text and attribute
	// value position
	ExpressionDelimiters []ExpressionDelimiter
	// RawTextElements name the elements whose body is not markup.
	// Defaults to script and style.
	RawTextElements []string
	// EmbeddingClassifier tags attribute values with an embedding mimetype
	EmbeddingClassifier EmbeddingClassifier
	// StateCache interns restart states. Defaults to a process-wide cache.
	StateCache *StateCache
}

var defaultRawTextElements = []string{"script", "style"}

type expressionDelimiter struct {
	ExpressionDelimiter
	open       []int
	close      []int
	openRunes  int
	closeRunes int
}

func toRunes(s string) []int {
	runes := make([]int, 0, utf8.RuneCountInString(s))
	for _, r := range s {
		runes = append(runes, int(r))
	}
	return runes
}

// Lexer is the character-level markup lexer. It is a pull lexer: every
// NextToken call produces exactly one token.
type Lexer struct {
	input      CharacterCursor
	st         LexerState
	delimiters []expressionDelimiter
	rawText    map[string]bool
	classifier EmbeddingClassifier
	cache      *StateCache
}

// NewLexer creates a new Lexer reading from input. A nil state starts at the
// beginning of a document; otherwise state must be one recorded by State()
// at the cursor's position.
func NewLexer(input CharacterCursor, state *LexerState, options *LexerOptions) *Lexer {
	if options == nil {
		options = &LexerOptions{}
	}
	l := &Lexer{
		input:      input,
		rawText:    make(map[string]bool),
		classifier: options.EmbeddingClassifier,
		cache:      options.StateCache,
	}
	if state != nil {
		l.st = *state
	}
	if l.cache == nil {
		l.cache = defaultStateCache
	}
	for _, d := range options.ExpressionDelimiters {
		if d.Open == "" || d.Close == "" {
			panic("Programming error - expression delimiters must not be empty")
		}
		l.delimiters = append(l.delimiters, expressionDelimiter{
			ExpressionDelimiter: d,
			open:                toRunes(d.Open),
			close:               toRunes(d.Close),
			openRunes:           utf8.RuneCountInString(d.Open),
			closeRunes:          utf8.RuneCountInString(d.Close),
		})
	}
	rawText := options.RawTextElements
	if rawText == nil {
		rawText = defaultRawTextElements
	}
	for _, name := range rawText {
		l.rawText[strings.ToLower(name)] = true
	}
	return l
}

// State returns the interned restart state for the current cursor position
func (l *Lexer) State() *LexerState {
	return l.cache.Intern(l.st)
}

// NextToken returns the next token, or nil at the end of input
func (l *Lexer) NextToken() *Token {
	for {
		ch := l.input.Read()
		var tok *Token
		var done bool
		switch l.st.State {
		case stateInit, stateText:
			tok, done = l.lexText(ch)
		case stateRef, stateRefName, stateRefHash, stateRefDec, stateRefX, stateRefHex:
			tok, done = l.lexReference(ch)
		case stateLT, stateTag, stateTagX, stateTagWS, stateTagSlash, stateTagError,
			stateArg, stateArgX, stateArgWS:
			tok, done = l.lexTag(ch)
		case stateEq, stateEqWS, stateVal, stateValSlash, stateValQuot, stateValDQuot:
			tok, done = l.lexValue(ch)
		case stateSlash, stateEndTag, stateEndTagX, stateEndTagWS, stateEndTagError, stateBogusEndTag:
			tok, done = l.lexEndTag(ch)
		case stateRawContent:
			tok, done = l.lexRawContent(ch)
		case stateSGMLEscape, stateSGMLDash, stateComment, stateCommentDash, stateCommentDashDash,
			stateBogusComment, stateCDATA, stateProcessingInstruction:
			tok, done = l.lexComment(ch)
		case stateDeclKeyword, stateDecl, stateDeclDash, stateSGMLCommentStart, stateSGMLComment,
			stateSGMLCommentDash, stateDoctypeX, stateDoctypeWS, stateDoctypeWord, stateDoctypeQuot,
			stateDoctypeDQuot, stateDoctypeSubset:
			tok, done = l.lexDeclaration(ch)
		case stateELOpen, stateELContent, stateELClose:
			tok, done = l.lexExpression(ch)
		default:
			panic(fmt.Sprintf("Programming error - unknown lexer state %d", l.st.State))
		}
		if done {
			return tok
		}
	}
}

// token ends the pending input as a token of the given type
func (l *Lexer) token(tokenType TokenType) *Token {
	if l.input.ReadLength() == 0 {
		panic(fmt.Sprintf("Programming error - attempted to end an empty %s token", tokenType))
	}
	offset, text := l.input.Consume()
	return NewToken(tokenType, offset, text)
}

// flush ends the pending input at end of input, if there is any
func (l *Lexer) flush(tokenType TokenType) (*Token, bool) {
	if l.input.ReadLength() == 0 {
		return nil, true
	}
	return l.token(tokenType), true
}

func (l *Lexer) pending() bool {
	return l.input.ReadLength() > 0
}

// matchRunes reports whether ch followed by the next characters spells s.
// On a mismatch every character read after ch is pushed back.
func (l *Lexer) matchRunes(ch int, s []int) bool {
	if len(s) == 0 || ch != s[0] {
		return false
	}
	for i := 1; i < len(s); i++ {
		if l.input.Read() != s[i] {
			l.input.Backup(i)
			return false
		}
	}
	return true
}

// matchExpressionOpen returns the index of the first delimiter whose open
// string starts at ch, or -1
func (l *Lexer) matchExpressionOpen(ch int) int {
	for i := range l.delimiters {
		if l.matchRunes(ch, l.delimiters[i].open) {
			return i
		}
	}
	return -1
}

// beginExpression enters the EL region of delimiter index, resuming ret
// afterwards. It reports whether the open delimiter is the only pending
// text; otherwise the delimiter is pushed back and emitted by stateELOpen.
func (l *Lexer) beginExpression(index int, ret lexerStateKind) bool {
	d := &l.delimiters[index]
	l.st.EL = index + 1
	l.st.Return = ret
	if l.input.ReadLength() == len(d.Open) {
		l.st.State = stateELContent
		return true
	}
	l.input.Backup(d.openRunes)
	l.st.State = stateELOpen
	return false
}

func (l *Lexer) endExpression() {
	l.st.State = l.st.Return
	l.st.Return = stateInit
	l.st.EL = 0
}

func (l *Lexer) lexExpression(ch int) (*Token, bool) {
	d := &l.delimiters[l.st.EL-1]
	switch l.st.State {
	case stateELOpen:
		for i := 1; i < d.openRunes; i++ {
			l.input.Read()
		}
		l.st.State = stateELContent
		return l.token(TokenTypeEL_OPEN_DELIMITER), true
	case stateELContent:
		if ch == core.CharEOF {
			if !l.pending() {
				return nil, true
			}
			return l.expressionContent(d), true
		}
		if !l.matchRunes(ch, d.close) {
			return nil, false
		}
		if l.input.ReadLength() == len(d.Close) {
			l.endExpression()
			return l.token(TokenTypeEL_CLOSE_DELIMITER), true
		}
		l.input.Backup(d.closeRunes)
		l.st.State = stateELClose
		return l.expressionContent(d), true
	case stateELClose:
		for i := 1; i < d.closeRunes; i++ {
			l.input.Read()
		}
		l.endExpression()
		return l.token(TokenTypeEL_CLOSE_DELIMITER), true
	}
	return nil, false
}

func (l *Lexer) expressionContent(d *expressionDelimiter) *Token {
	tok := l.token(TokenTypeEL_CONTENT)
	if d.MimeType != "" {
		tok.setProperty(PropertyELMimeType, d.MimeType)
	}
	return tok
}

func (l *Lexer) resetTag() {
	l.st.Tag = ""
	l.st.TagText = ""
	l.st.Attr = ""
	l.st.RawText = false
	l.st.CancelRawText = false
}
