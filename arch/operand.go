package arch

import "fmt"

// OperandType is the address mode tag carried by an operand.
type OperandType byte

// Known operand types. The values double as the encoded 2-bit tag.
const (
	TypeImm   OperandType = 0 // x = 123
	TypeReg   OperandType = 1 // x = r0
	TypeDeref OperandType = 2 // x = mem[<nested operand>]

	// TypeLabel marks an unresolved symbolic reference. It has no encoded
	// form; labels must be resolved before emitting.
	TypeLabel OperandType = 3
)

func (t OperandType) String() string {
	switch t {
	case TypeImm:
		return "imm"
	case TypeReg:
		return "reg"
	case TypeDeref:
		return "deref"
	case TypeLabel:
		return "label"
	}
	return fmt.Sprintf("<invalid (%d)>", byte(t))
}

// Operand is an instruction operand in one of the known address modes.
// The concrete types are Immediate, Register, Dereference and Label.
type Operand interface {
	// Type returns the operand's address mode tag.
	Type() OperandType

	// Size returns the number of words the operand occupies when encoded.
	Size() int

	String() string

	operand()
}

// Immediate is a constant value.
type Immediate uint16

// Register is a register index.
type Register uint16

// Label is an unresolved reference to a named address.
type Label string

// Dereference reads memory at the address given by its nested operand.
// Create one with Deref.
type Dereference struct {
	x Operand
}

// Deref creates a dereference of x. The dereference owns x; nesting
// another Dereference is allowed and adds one word per level.
// Returns an error if x is nil.
func Deref(x Operand) (Dereference, error) {
	if x == nil {
		return Dereference{}, NewError(InvalidOperand, "dereference of nil operand")
	}
	return Dereference{x: x}, nil
}

// MustDeref is like Deref but panics on a nil operand.
func MustDeref(x Operand) Dereference {
	d, err := Deref(x)
	if err != nil {
		panic(err)
	}
	return d
}

func (Immediate) Type() OperandType   { return TypeImm }
func (Register) Type() OperandType    { return TypeReg }
func (Dereference) Type() OperandType { return TypeDeref }
func (Label) Type() OperandType       { return TypeLabel }

func (Immediate) Size() int { return 1 }
func (Register) Size() int  { return 1 }
func (Label) Size() int     { return 1 }

// Size returns one word for the dereference itself plus the size of
// the nested operand.
func (d Dereference) Size() int {
	if d.x == nil {
		return 1
	}
	return 1 + d.x.Size()
}

// Inner returns the nested operand.
func (d Dereference) Inner() Operand { return d.x }

// Depth returns the number of dereference levels, starting at 1.
func (d Dereference) Depth() int {
	n := 1
	for x, ok := d.x.(Dereference); ok; x, ok = x.x.(Dereference) {
		n++
	}
	return n
}

// Value returns the 16-bit value carried by the operand. Dereferences
// and labels carry none of their own and return 0.
func Value(x Operand) uint16 {
	switch tx := x.(type) {
	case Immediate:
		return uint16(tx)
	case Register:
		return uint16(tx)
	}
	return 0
}

// Resolved returns true if x and everything nested in it is free of labels.
func Resolved(x Operand) bool {
	switch tx := x.(type) {
	case Label:
		return false
	case Dereference:
		return tx.x != nil && Resolved(tx.x)
	}
	return x != nil
}

func (x Immediate) String() string { return fmt.Sprintf("#%d", uint16(x)) }
func (x Register) String() string  { return fmt.Sprintf("$%d", uint16(x)) }
func (x Label) String() string     { return string(x) }

func (d Dereference) String() string {
	if d.x == nil {
		return "*<nil>"
	}
	return "*" + d.x.String()
}

func (Immediate) operand()   {}
func (Register) operand()    {}
func (Dereference) operand() {}
func (Label) operand()       {}
