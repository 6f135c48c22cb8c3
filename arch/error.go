package arch

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifies instruction set errors.
type ErrorKind int

// Known error kinds.
const (
	UnknownMnemonic     ErrorKind = iota + 1 // Text is not a known opcode or predicate mnemonic.
	InvalidOperandCount                      // Operand list does not match the required arity.
	InvalidOpcodeByte                        // Value is not an encodable opcode.
	InvalidCommandByte                       // Value is not a known predicate.
	UnresolvedLabel                          // A label operand reached the encoder.
	InvalidOperand                           // Missing or malformed operand value.
)

func (k ErrorKind) String() string {
	switch k {
	case UnknownMnemonic:
		return "unknown mnemonic"
	case InvalidOperandCount:
		return "invalid operand count"
	case InvalidOpcodeByte:
		return "invalid opcode byte"
	case InvalidCommandByte:
		return "invalid command byte"
	case UnresolvedLabel:
		return "unresolved label"
	case InvalidOperand:
		return "invalid operand"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error defines an instruction set error.
type Error struct {
	Kind ErrorKind
	Msg  string
}

// NewError creates a new, formatted error message of the given kind.
func NewError(kind ErrorKind, f string, argv ...interface{}) *Error {
	return &Error{
		Kind: kind,
		Msg:  fmt.Sprintf(f, argv...),
	}
}

func (e *Error) Error() string {
	return "arch: " + e.Msg
}

// IsKind returns true if err, or any error it wraps, is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
