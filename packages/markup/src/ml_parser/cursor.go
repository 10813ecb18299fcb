package ml_parser

import (
	"unicode/utf8"

	"markup-go/packages/markup/src/core"
)

// CharacterCursor is the character source of the lexer. Characters read
// since the last Consume form the pending token; Backup pushes them back.
type CharacterCursor interface {
	// Read returns the next character or core.CharEOF
	Read() int
	// Backup pushes back the last n characters read, EOF reads included
	Backup(n int)
	// ReadLength returns the byte length of the pending token
	ReadLength() int
	// ReadText returns the text of the pending token
	ReadText() string
	// TokenStart returns the offset of the pending token
	TokenStart() int
	// Consume ends the pending token and returns its offset and text
	Consume() (int, string)
}

// StringCursor implements CharacterCursor over a string
type StringCursor struct {
	input    string
	start    int
	pos      int
	eofReads int
}

// NewStringCursor creates a cursor positioned at offset
func NewStringCursor(input string, offset int) *StringCursor {
	if offset < 0 || offset > len(input) {
		panic("Programming error - cursor offset out of range")
	}
	return &StringCursor{
		input: input,
		start: offset,
		pos:   offset,
	}
}

// Read returns the next character or core.CharEOF
func (c *StringCursor) Read() int {
	if c.pos >= len(c.input) {
		c.eofReads++
		return core.CharEOF
	}
	r, width := utf8.DecodeRuneInString(c.input[c.pos:])
	c.pos += width
	return int(r)
}

// Backup pushes back the last n characters read
func (c *StringCursor) Backup(n int) {
	for ; n > 0; n-- {
		if c.eofReads > 0 {
			c.eofReads--
			continue
		}
		if c.pos <= c.start {
			panic("Programming error - attempted to back up past the token start")
		}
		_, width := utf8.DecodeLastRuneInString(c.input[c.start:c.pos])
		c.pos -= width
	}
}

// ReadLength returns the byte length of the pending token
func (c *StringCursor) ReadLength() int {
	return c.pos - c.start
}

// ReadText returns the text of the pending token
func (c *StringCursor) ReadText() string {
	return c.input[c.start:c.pos]
}

// TokenStart returns the offset of the pending token
func (c *StringCursor) TokenStart() int {
	return c.start
}

// Consume ends the pending token
func (c *StringCursor) Consume() (int, string) {
	offset := c.start
	text := c.input[c.start:c.pos]
	c.start = c.pos
	c.eofReads = 0
	return offset, text
}
