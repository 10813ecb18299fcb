package util

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ParseSourceFile represents a source file
type ParseSourceFile struct {
	Content string
	URL     string

	linesOnce  sync.Once
	lineStarts []int
}

// NewParseSourceFile creates a new ParseSourceFile
func NewParseSourceFile(content, url string) *ParseSourceFile {
	return &ParseSourceFile{
		Content: content,
		URL:     url,
	}
}

func (f *ParseSourceFile) lines() []int {
	f.linesOnce.Do(func() {
		f.lineStarts = []int{0}
		for i := 0; i < len(f.Content); i++ {
			if f.Content[i] == '\n' {
				f.lineStarts = append(f.lineStarts, i+1)
			}
		}
	})
	return f.lineStarts
}

// LineCount returns the number of lines in the file
func (f *ParseSourceFile) LineCount() int {
	return len(f.lines())
}

// LineText returns the content of the given zero-based line without its terminator
func (f *ParseSourceFile) LineText(line int) string {
	starts := f.lines()
	if line < 0 || line >= len(starts) {
		return ""
	}
	end := len(f.Content)
	if line+1 < len(starts) {
		end = starts[line+1] - 1
	}
	return strings.TrimSuffix(f.Content[starts[line]:end], "\r")
}

// Location returns the location of a byte offset; offsets past the end are clamped
func (f *ParseSourceFile) Location(offset int) *ParseLocation {
	if offset < 0 {
		offset = 0
	}
	if offset > len(f.Content) {
		offset = len(f.Content)
	}
	starts := f.lines()
	line := sort.Search(len(starts), func(i int) bool { return starts[i] > offset }) - 1
	return NewParseLocation(f, offset, line, offset-starts[line])
}

// Offset returns the byte offset of a zero-based line and byte column
func (f *ParseSourceFile) Offset(line, col int) int {
	starts := f.lines()
	if line < 0 {
		return 0
	}
	if line >= len(starts) {
		return len(f.Content)
	}
	offset := starts[line] + col
	if offset > len(f.Content) {
		offset = len(f.Content)
	}
	return offset
}

// ParseLocation represents a location in the source file
type ParseLocation struct {
	File   *ParseSourceFile
	Offset int
	Line   int
	Col    int
}

// NewParseLocation creates a new ParseLocation
func NewParseLocation(file *ParseSourceFile, offset, line, col int) *ParseLocation {
	return &ParseLocation{
		File:   file,
		Offset: offset,
		Line:   line,
		Col:    col,
	}
}

// String returns a string representation of the location
func (p *ParseLocation) String() string {
	if p.Offset >= 0 {
		return fmt.Sprintf("%s@%d:%d", p.File.URL, p.Line, p.Col)
	}
	return p.File.URL
}

// GetContext returns the source context around the location
func (p *ParseLocation) GetContext(maxChars, maxLines int) *Context {
	content := p.File.Content
	if p.Offset < 0 || len(content) == 0 {
		return nil
	}
	startOffset := p.Offset
	if startOffset > len(content)-1 {
		startOffset = len(content) - 1
	}
	endOffset := startOffset

	ctxChars := 0
	ctxLines := 0
	for ctxChars < maxChars && startOffset > 0 {
		startOffset--
		ctxChars++
		if content[startOffset] == '\n' {
			ctxLines++
			if ctxLines == maxLines {
				break
			}
		}
	}

	ctxChars = 0
	ctxLines = 0
	for ctxChars < maxChars && endOffset < len(content)-1 {
		endOffset++
		ctxChars++
		if content[endOffset] == '\n' {
			ctxLines++
			if ctxLines == maxLines {
				break
			}
		}
	}

	offset := p.Offset
	if offset > len(content) {
		offset = len(content)
	}
	return &Context{
		Before: content[startOffset:offset],
		After:  content[offset:min(endOffset+1, len(content))],
	}
}

// Context represents source context around a location
type Context struct {
	Before string
	After  string
}

// DiagnosticSeverity is the severity of a Diagnostic
type DiagnosticSeverity int

const (
	DiagnosticSeverityInfo DiagnosticSeverity = iota
	DiagnosticSeverityWarning
	DiagnosticSeverityError
)

func (s DiagnosticSeverity) String() string {
	switch s {
	case DiagnosticSeverityInfo:
		return "info"
	case DiagnosticSeverityWarning:
		return "warning"
	case DiagnosticSeverityError:
		return "error"
	}
	return fmt.Sprintf("DiagnosticSeverity(%d)", int(s))
}

// Diagnostic is a problem found in the source. Diagnostics are attached to
// elements and tree nodes; they are never raised.
type Diagnostic struct {
	Code     string
	Message  string
	Severity DiagnosticSeverity
	From     int
	To       int
}

// NewDiagnostic creates a new Diagnostic
func NewDiagnostic(code string, severity DiagnosticSeverity, from, to int, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Severity: severity,
		From:     from,
		To:       to,
	}
}

// String returns a string representation of the diagnostic
func (d *Diagnostic) String() string {
	return fmt.Sprintf("%s [%s] %s (%d-%d)", d.Severity, d.Code, d.Message, d.From, d.To)
}

// ContextualMessage returns the message with the surrounding source of file
func (d *Diagnostic) ContextualMessage(file *ParseSourceFile) string {
	if file == nil {
		return d.Message
	}
	location := file.Location(d.From)
	ctx := location.GetContext(100, 3)
	if ctx == nil {
		return fmt.Sprintf("%s: %s", location, d.Message)
	}
	return fmt.Sprintf(`%s: %s ("%s[%s ->]%s")`, location, d.Message, ctx.Before, strings.ToUpper(d.Severity.String()), ctx.After)
}
