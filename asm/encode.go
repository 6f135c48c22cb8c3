package asm

import (
	"github.com/hexaflex/shk/arch"
)

// Encode encodes the given instruction into its final word form.
// The result holds exactly instr.Size() words. Instructions still
// referencing a label are rejected.
func Encode(instr arch.Instruction) ([]arch.Word, error) {
	out := make([]arch.Word, 0, instr.Size())
	return AppendEncoded(out, instr)
}

// AppendEncoded appends the encoded form of instr to out and returns the
// extended slice.
func AppendEncoded(out []arch.Word, instr arch.Instruction) ([]arch.Word, error) {
	var err error

	op := instr.Opcode()
	if op.Encoded() {
		out = append(out, arch.OpcodeToWord(op))
	}

	for i := 0; i < instr.Len(); i++ {
		if out, err = appendOperand(out, instr.Operand(i)); err != nil {
			return nil, err
		}
	}

	for _, c := range instr.Commands() {
		out = append(out, arch.PredicateToWord(c.Predicate()))
		for i := 0; i < c.Predicate().Argc(); i++ {
			if out, err = appendOperand(out, c.Operand(i)); err != nil {
				return nil, err
			}
		}
	}

	return out, nil
}

// appendOperand encodes x. A dereference writes its own word followed by
// the words of its nested operand.
func appendOperand(out []arch.Word, x arch.Operand) ([]arch.Word, error) {
	switch tx := x.(type) {
	case arch.Immediate:
		return append(out, arch.OperandToWord(arch.TypeImm, uint16(tx))), nil
	case arch.Register:
		return append(out, arch.OperandToWord(arch.TypeReg, uint16(tx))), nil
	case arch.Dereference:
		out = append(out, arch.OperandToWord(arch.TypeDeref, 0))
		return appendOperand(out, tx.Inner())
	case arch.Label:
		return nil, arch.NewError(arch.UnresolvedLabel, "unresolved label %q", string(tx))
	}
	return nil, arch.NewError(arch.InvalidOperand, "unsupported operand %T", x)
}
