// Package diag maps byte offsets to line/column positions using the newline
// table produced by the lexer, and formats positioned error messages.
package diag

import (
	"fmt"
	"sort"
	"strings"
)

// LineOf returns the 1-based line containing offset. An offset that is itself
// a recorded newline belongs to the line that newline terminates.
func LineOf(offset int, lines []int) int {
	return sort.SearchInts(lines, offset) + 1
}

// ColumnOf returns offset minus the offset of the preceding newline, or the
// offset itself on the first line.
func ColumnOf(offset int, lines []int) int {
	idx := sort.SearchInts(lines, offset)
	if idx == 0 {
		return offset
	}
	return offset - lines[idx-1]
}

// Format renders "<msg> at line <L>, <C>".
func Format(msg string, offset int, lines []int) string {
	return fmt.Sprintf("%s at line %d, %d", msg, LineOf(offset, lines), ColumnOf(offset, lines))
}

// Error is a positioned diagnostic. Its Error text is exactly Format(Msg, ...).
// Stack, when set, names the active fxn calls innermost first. File and
// Source, when set, name and hold the text the offset points into, which may
// be an earlier chunk than the one being run.
type Error struct {
	Msg    string
	Offset int
	Line   int
	Col    int
	Err    error
	Stack  []string
	File   string
	Source string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at line %d, %d", e.Msg, e.Line, e.Col)
}

func (e *Error) Unwrap() error { return e.Err }

// New positions msg at offset.
func New(msg string, offset int, lines []int) *Error {
	return &Error{
		Msg:    msg,
		Offset: offset,
		Line:   LineOf(offset, lines),
		Col:    ColumnOf(offset, lines),
	}
}

func Errorf(offset int, lines []int, format string, args ...any) *Error {
	return New(fmt.Sprintf(format, args...), offset, lines)
}

// Wrap positions err at offset, keeping it reachable through errors.Is/As.
// An err that is already positioned is returned unchanged.
func Wrap(err error, offset int, lines []int) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*Error); ok {
		return err
	}
	d := New(err.Error(), offset, lines)
	d.Err = err
	return d
}

// Snippet renders the offending source line with a caret under the offset.
// It returns "" when the offset does not fall inside src.
func (e *Error) Snippet(src string) string {
	if e.Offset < 0 || e.Offset > len(src) {
		return ""
	}
	start := strings.LastIndexByte(src[:e.Offset], '\n') + 1
	end := strings.IndexByte(src[e.Offset:], '\n')
	if end < 0 {
		end = len(src)
	} else {
		end += e.Offset
	}
	lineText := strings.TrimRight(src[start:end], "\r")

	prefix := fmt.Sprintf("  %d | ", e.Line)
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString(lineText)
	b.WriteString("\n")
	b.WriteString(strings.Repeat(" ", len(prefix)+(e.Offset-start)))
	b.WriteString("^")
	return b.String()
}
