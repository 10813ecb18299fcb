package ml_parser

import (
	"fmt"
	"sync"
)

// lexerStateKind is a state of the character lexer
type lexerStateKind int

const (
	stateInit lexerStateKind = iota
	stateText
	stateLT
	stateSlash
	stateEndTag
	stateEndTagX
	stateEndTagWS
	stateEndTagError
	stateBogusEndTag
	stateTag
	stateTagX
	stateTagWS
	stateTagSlash
	stateTagError
	stateArg
	stateArgX
	stateArgWS
	stateEq
	stateEqWS
	stateVal
	stateValSlash
	stateValQuot
	stateValDQuot
	stateRawContent
	stateSGMLEscape
	stateSGMLDash
	stateComment
	stateCommentDash
	stateCommentDashDash
	stateBogusComment
	stateCDATA
	stateDeclKeyword
	stateDecl
	stateDeclDash
	stateSGMLCommentStart
	stateSGMLComment
	stateSGMLCommentDash
	stateDoctypeX
	stateDoctypeWS
	stateDoctypeWord
	stateDoctypeQuot
	stateDoctypeDQuot
	stateDoctypeSubset
	stateProcessingInstruction
	stateRef
	stateRefName
	stateRefHash
	stateRefDec
	stateRefX
	stateRefHex
	stateELOpen
	stateELContent
	stateELClose
)

// doctype sub-states: which part of a doctype declaration comes next
const (
	doctypeNone = iota
	doctypeRoot
	doctypeExternal
	doctypePublicID
	doctypeSystemID
	doctypeDone
)

// LexerState is the restart state of the lexer between two tokens. It is an
// immutable value: two states are interchangeable when they are equal.
type LexerState struct {
	State lexerStateKind
	// Tag is the lowercased name of the tag being lexed
	Tag string
	// TagText is the tag name as written
	TagText string
	// Attr is the lowercased name of the attribute being lexed
	Attr string
	// RawText is set when the open tag names a raw-text element
	RawText bool
	// CancelRawText is set by type="text/html" on a raw-text element
	CancelRawText bool
	Doctype       int
	// EL is the index+1 of the active expression-language delimiter
	EL int
	// Return is the state resumed after an EL region or an SGML comment
	Return lexerStateKind
}

// IsInitial reports whether the state is the start-of-input state
func (s LexerState) IsInitial() bool {
	return s == LexerState{}
}

func (s LexerState) String() string {
	return fmt.Sprintf("LexerState{%d tag=%q attr=%q raw=%t/%t doctype=%d el=%d ret=%d}",
		s.State, s.Tag, s.Attr, s.RawText, s.CancelRawText, s.Doctype, s.EL, s.Return)
}

// StateCache interns lexer states by structural equality so that per-token
// restart states share storage.
type StateCache struct {
	mu     sync.Mutex
	states map[LexerState]*LexerState
}

// NewStateCache creates a new StateCache
func NewStateCache() *StateCache {
	return &StateCache{states: make(map[LexerState]*LexerState)}
}

// Intern returns the shared instance equal to state
func (c *StateCache) Intern(state LexerState) *LexerState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if shared, ok := c.states[state]; ok {
		return shared
	}
	shared := &state
	c.states[state] = shared
	return shared
}

// Len returns the number of distinct interned states
func (c *StateCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.states)
}

var defaultStateCache = NewStateCache()
