package ml_parser

import (
	"fmt"
	"sort"
	"sync"
	"unicode/utf8"
)

// TokenSequence is the lazily lexed token list of one source text. Every
// token records the lexer state it starts in, so lexing can restart at any
// token boundary.
type TokenSequence struct {
	mu      sync.Mutex
	source  string
	options *LexerOptions
	tokens  []Token
	states  []*LexerState
	lexer   *Lexer
	cursor  *StringCursor
}

// Lex creates the token sequence of source. Tokens are produced on demand.
func Lex(source string, options *LexerOptions) *TokenSequence {
	if options == nil {
		options = &LexerOptions{}
	}
	cursor := NewStringCursor(source, 0)
	return &TokenSequence{
		source:  source,
		options: options,
		cursor:  cursor,
		lexer:   NewLexer(cursor, nil, options),
	}
}

// Source returns the lexed text
func (s *TokenSequence) Source() string {
	return s.source
}

// Options returns the lexer options of the sequence
func (s *TokenSequence) Options() *LexerOptions {
	return s.options
}

// fill lexes until token index i exists or the input is exhausted.
// Callers hold s.mu.
func (s *TokenSequence) fill(i int) bool {
	for len(s.tokens) <= i {
		if s.lexer == nil {
			return false
		}
		state := s.lexer.State()
		tok := s.lexer.NextToken()
		if tok == nil {
			s.lexer = nil
			s.cursor = nil
			return false
		}
		s.tokens = append(s.tokens, *tok)
		s.states = append(s.states, state)
	}
	return true
}

// Token returns token i, or nil past the end of input
func (s *TokenSequence) Token(i int) *Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || !s.fill(i) {
		return nil
	}
	return &s.tokens[i]
}

// StateAt returns the lexer state token i starts in
func (s *TokenSequence) StateAt(i int) *LexerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || !s.fill(i) {
		return nil
	}
	return s.states[i]
}

// Len lexes the whole input and returns the number of tokens
func (s *TokenSequence) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fill(len(s.source))
	return len(s.tokens)
}

// Tokens lexes the whole input and returns a copy of its tokens
func (s *TokenSequence) Tokens() []Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fill(len(s.source))
	return append([]Token(nil), s.tokens...)
}

// HasToken reports whether token index i exists, lexing up to it
func (s *TokenSequence) HasToken(i int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return i >= 0 && s.fill(i)
}

// IndexAtOffset returns the index of the token starting at offset. The end
// of input is the boundary just past the last token. ok is false when offset
// falls inside a token.
func (s *TokenSequence) IndexAtOffset(offset int) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if offset < 0 || offset > len(s.source) {
		return 0, false
	}
	for len(s.tokens) == 0 || s.tokens[len(s.tokens)-1].End() <= offset {
		if !s.fill(len(s.tokens)) {
			break
		}
	}
	i := sort.Search(len(s.tokens), func(i int) bool {
		return s.tokens[i].Offset >= offset
	})
	if i < len(s.tokens) {
		return i, s.tokens[i].Offset == offset
	}
	return i, offset == len(s.source)
}

// restartMargin is the distance, in bytes, the lexer may look ahead past the
// end of a token before cutting it
func (s *TokenSequence) restartMargin() int {
	longest := 0
	for _, d := range s.options.ExpressionDelimiters {
		longest = max(longest, utf8.RuneCountInString(d.Open), utf8.RuneCountInString(d.Close))
	}
	rawText := s.options.RawTextElements
	if rawText == nil {
		rawText = defaultRawTextElements
	}
	for _, name := range rawText {
		// "</" + name + terminator
		longest = max(longest, utf8.RuneCountInString(name)+3)
	}
	return utf8.UTFMax*longest + 1
}

// Edit returns the token sequence of the source with removed bytes at offset
// replaced by inserted. Tokens before the edit are reused; lexing restarts
// at the closest safe token boundary and stops as soon as it reaches a
// boundary after the edit whose state matches the old sequence, where the
// old tail is spliced back in.
func (s *TokenSequence) Edit(offset, removed int, inserted string) *TokenSequence {
	if offset < 0 || removed < 0 || offset+removed > len(s.source) {
		panic(fmt.Sprintf("Programming error - edit [%d,%d) out of range of a %d byte source",
			offset, offset+removed, len(s.source)))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fill(len(s.source))

	source := s.source[:offset] + inserted + s.source[offset+removed:]
	delta := len(inserted) - removed
	editEnd := offset + len(inserted)

	margin := s.restartMargin()
	restart := sort.Search(len(s.tokens), func(i int) bool {
		return s.tokens[i].Offset > offset-margin
	}) - 1
	restart = max(restart, 0)

	next := &TokenSequence{
		source:  source,
		options: s.options,
		tokens:  append(make([]Token, 0, len(s.tokens)+8), s.tokens[:restart]...),
		states:  append(make([]*LexerState, 0, len(s.states)+8), s.states[:restart]...),
	}
	var state *LexerState
	start := 0
	if restart < len(s.tokens) {
		state = s.states[restart]
		start = s.tokens[restart].Offset
	}
	cursor := NewStringCursor(source, start)
	lexer := NewLexer(cursor, state, s.options)
	for {
		position := cursor.TokenStart()
		current := lexer.State()
		if position >= editEnd {
			if j, ok := s.tokenAt(position - delta); ok && *s.states[j] == *current {
				for k := j; k < len(s.tokens); k++ {
					next.tokens = append(next.tokens, s.tokens[k].shifted(delta))
				}
				next.states = append(next.states, s.states[j:]...)
				return next
			}
		}
		tok := lexer.NextToken()
		if tok == nil {
			return next
		}
		next.tokens = append(next.tokens, *tok)
		next.states = append(next.states, current)
	}
}

// tokenAt finds the fully lexed token starting at offset. Callers hold s.mu.
func (s *TokenSequence) tokenAt(offset int) (int, bool) {
	i := sort.Search(len(s.tokens), func(i int) bool {
		return s.tokens[i].Offset >= offset
	})
	return i, i < len(s.tokens) && s.tokens[i].Offset == offset
}
