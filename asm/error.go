package asm

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifies assembler and decoder errors.
type ErrorKind int

// Known error kinds.
const (
	DuplicateLabel  ErrorKind = iota + 1 // A label is defined more than once.
	UndefinedLabel                       // A label is referenced but never defined.
	AddressOverflow                      // A label address does not fit in 16 bits.
	Truncated                            // The word stream ends inside an instruction.
	Malformed                            // A word of the wrong class appears inside an instruction.
)

// Error defines a build or decode error with its location.
// For build errors, Index is the statement index and Line its source line.
// For decode errors, Index is the word offset in the stream.
type Error struct {
	Kind  ErrorKind
	Index int
	Line  int
	Msg   string
}

// newError creates a new, formatted error message with the given location.
func newError(kind ErrorKind, index, line int, f string, argv ...interface{}) *Error {
	return &Error{
		Kind:  kind,
		Index: index,
		Line:  line,
		Msg:   fmt.Sprintf(f, argv...),
	}
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("asm: line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("asm: %04x: %s", e.Index, e.Msg)
}

// IsKind returns true if err, or any error it wraps, is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
