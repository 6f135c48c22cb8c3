package asm

import (
	"github.com/hexaflex/shk/arch"
	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
)

// MaxAddress is the highest address a label can refer to.
const MaxAddress = 0xffff

// Statement is one instruction of a program, optionally preceded by a
// label naming its address.
type Statement struct {
	Label string           // Optional label defined at this statement's address.
	Instr arch.Instruction // The instruction. May reference labels.
	Line  int              // Source line, for diagnostics and debug symbols.
}

// Symbols maps label names to their addresses.
type Symbols map[string]int

// Clone returns a copy of s.
func (s Symbols) Clone() Symbols {
	return maps.Clone(s)
}

// Layout assigns an address to every label defined in stmts. The first
// statement lives at origin; each following one starts where the previous
// one ends, as given by its encoded size. The origin itself must be a
// valid address.
func Layout(origin int, stmts []Statement) (Symbols, error) {
	if origin < 0 || origin > MaxAddress {
		return nil, newError(AddressOverflow, 0, 0,
			"origin %#x outside address range 0..%#x", origin, MaxAddress)
	}

	syms := make(Symbols)
	address := origin

	for i, st := range stmts {
		if len(st.Label) > 0 {
			if _, ok := syms[st.Label]; ok {
				return nil, newError(DuplicateLabel, i, st.Line, "duplicate label %q", st.Label)
			}

			if address > MaxAddress {
				return nil, newError(AddressOverflow, i, st.Line,
					"label %q at address %#x exceeds %#x", st.Label, address, MaxAddress)
			}

			syms[st.Label] = address
		}

		address += st.Instr.Size()
	}

	return syms, nil
}

// Resolve returns a copy of instr with every label replaced by an
// immediate holding its address. instr itself is not modified.
func Resolve(instr arch.Instruction, syms Symbols) (arch.Instruction, error) {
	if instr.Resolved() {
		return instr, nil
	}

	return instr.MapOperands(func(x arch.Operand) (arch.Operand, error) {
		return resolveOperand(x, syms)
	})
}

// resolveOperand replaces labels in x, descending into dereferences.
func resolveOperand(x arch.Operand, syms Symbols) (arch.Operand, error) {
	switch tx := x.(type) {
	case arch.Label:
		addr, ok := syms[string(tx)]
		if !ok {
			return nil, newError(UndefinedLabel, 0, 0, "reference to undefined label %q", string(tx))
		}
		return arch.Immediate(addr), nil

	case arch.Dereference:
		inner, err := resolveOperand(tx.Inner(), syms)
		if err != nil {
			return nil, err
		}
		return arch.Deref(inner)
	}

	return x, nil
}

// ResolveAll resolves every statement in stmts against syms and returns
// the resolved copies.
func ResolveAll(stmts []Statement, syms Symbols) ([]Statement, error) {
	out := make([]Statement, len(stmts))

	for i, st := range stmts {
		instr, err := Resolve(st.Instr, syms)
		if err != nil {
			var e *Error
			if errors.As(err, &e) {
				e.Index, e.Line = i, st.Line
				return nil, err
			}
			return nil, errors.Wrapf(err, "statement %d", i)
		}

		out[i] = Statement{Label: st.Label, Instr: instr, Line: st.Line}
	}

	return out, nil
}
