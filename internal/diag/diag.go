// Package diag holds the shared diagnostic log threaded through the
// lexer, inferrer and parser stages.
//
// It mirrors the shape of github.com/kiteco/kiteco/kite-golib/errors:
// a non-nil Errors value represents a non-empty ordered list, and
// Append is the only way to grow one. Entry additionally carries the
// line/position pair every stage needs to render "Error at line L,
// position P: M".
package diag

import (
	"fmt"
	"io"
)

// Entry is a single diagnostic: a message together with its source
// position. It implements error so it composes with github.com/pkg/errors
// helpers if a caller wants to wrap it further.
type Entry struct {
	Msg  string
	Line int
	Col  int
}

// Error implements error.
func (e Entry) Error() string {
	return fmt.Sprintf("Error at line %d, position %d: %s", e.Line, e.Col, e.Msg)
}

// Errors represents a (non-empty, when non-nil) ordered list of diagnostics.
type Errors interface {
	error
	// Slice returns a copy of the underlying entries, in source order.
	Slice() []Entry
	// Len is always > 0.
	Len() int
}

type entrySlice []Entry

func (s entrySlice) Slice() []Entry {
	return append([]Entry(nil), s...)
}

func (s entrySlice) Len() int {
	return len(s)
}

func (s entrySlice) Error() string {
	var msgs string
	for i, e := range s {
		if i > 0 {
			msgs += "\n"
		}
		msgs += e.Error()
	}
	return msgs
}

// Append appends e to errs, allocating errs if it was nil.
func Append(errs Errors, e Entry) Errors {
	if errs == nil {
		return entrySlice{e}
	}
	return append(errs.(entrySlice), e)
}

// Log is the driver-owned, by-reference diagnostic accumulator passed into
// each stage. It is never rebuilt: each stage only ever appends to it, in
// the order it observes problems, so each stage's entries are in source
// order. Since the lexer runs to completion before the parser starts, all
// lexer diagnostics precede all parser diagnostics; the log as a whole is
// not sorted by line.
type Log struct {
	errs Errors
}

// Add appends a new diagnostic to the log.
func (l *Log) Add(msg string, line, col int) {
	l.errs = Append(l.errs, Entry{Msg: msg, Line: line, Col: col})
}

// Entries returns the accumulated diagnostics in the order they were added.
func (l *Log) Entries() []Entry {
	if l.errs == nil {
		return nil
	}
	return l.errs.Slice()
}

// Len reports how many diagnostics have been recorded.
func (l *Log) Len() int {
	if l.errs == nil {
		return 0
	}
	return l.errs.Len()
}

// WriteTo renders the log as one "Error at line L, position P: M" line per
// entry.
func (l *Log) WriteTo(w io.Writer) (int64, error) {
	var n int64
	for _, e := range l.Entries() {
		c, err := fmt.Fprintln(w, e.Error())
		n += int64(c)
		if err != nil {
			return n, err
		}
	}
	return n, nil
}
