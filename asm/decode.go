package asm

import (
	"strings"

	"github.com/hexaflex/shk/arch"
	"github.com/pkg/errors"
)

// Line is one decoded instruction along with its address.
type Line struct {
	Address int
	Instr   arch.Instruction
}

// Disassemble decodes the full word stream into instructions.
// Addresses are word offsets relative to origin.
func Disassemble(words []arch.Word, origin int) ([]Line, error) {
	var out []Line

	for pos := 0; pos < len(words); {
		instr, n, err := Decode(words[pos:])
		if err != nil {
			return nil, rebase(err, pos)
		}

		out = append(out, Line{Address: origin + pos, Instr: instr})
		pos += n
	}

	return out, nil
}

// Decode decodes the next instruction from the head of the word stream.
// It returns the instruction and the number of words it occupies.
//
// Operand words found where an opcode is expected are collected into a
// single Data instruction, ending at the next opcode or command word.
func Decode(words []arch.Word) (arch.Instruction, int, error) {
	if len(words) == 0 {
		return arch.Instruction{}, 0, newError(Truncated, 0, 0, "unexpected end of stream")
	}

	var d decoder
	d.words = words

	switch words[0].Class() {
	case arch.OpcodeWord:
		return d.decodeInstruction()
	case arch.OperandWord:
		return d.decodeData()
	case arch.CommandWord:
		return arch.Instruction{}, 0, arch.NewError(arch.InvalidOpcodeByte,
			"expected opcode, found command word %s", words[0])
	}

	return arch.Instruction{}, 0, newError(Malformed, 0, 0,
		"expected opcode, found word %08x of unknown class %d", uint32(words[0]), words[0].Class())
}

type decoder struct {
	words []arch.Word
	pos   int
}

func (d *decoder) next() (arch.Word, error) {
	if d.pos >= len(d.words) {
		return 0, newError(Truncated, d.pos, 0, "unexpected end of stream")
	}
	w := d.words[d.pos]
	d.pos++
	return w, nil
}

func (d *decoder) peek() (arch.Word, bool) {
	if d.pos >= len(d.words) {
		return 0, false
	}
	return d.words[d.pos], true
}

func (d *decoder) decodeInstruction() (arch.Instruction, int, error) {
	w, _ := d.next()

	op, err := arch.DecodeOpcode(w.Byte())
	if err != nil {
		return arch.Instruction{}, 0, err
	}

	args, err := d.decodeOperands(op.Argc())
	if err != nil {
		return arch.Instruction{}, 0, errors.Wrapf(err, "%s", op)
	}

	commands, err := d.decodeCommands()
	if err != nil {
		return arch.Instruction{}, 0, errors.Wrapf(err, "%s", op)
	}

	instr, err := arch.NewInstruction(op, args, commands...)
	return instr, d.pos, err
}

func (d *decoder) decodeData() (arch.Instruction, int, error) {
	var args []arch.Operand

	for {
		w, ok := d.peek()
		if !ok || w.Class() != arch.OperandWord {
			break
		}

		x, err := d.decodeOperand()
		if err != nil {
			return arch.Instruction{}, 0, errors.Wrapf(err, "%s", arch.Data)
		}
		args = append(args, x)
	}

	commands, err := d.decodeCommands()
	if err != nil {
		return arch.Instruction{}, 0, errors.Wrapf(err, "%s", arch.Data)
	}

	instr, err := arch.NewInstruction(arch.Data, args, commands...)
	return instr, d.pos, err
}

// decodeCommands decodes the command words trailing an instruction.
func (d *decoder) decodeCommands() ([]arch.Command, error) {
	var out []arch.Command

	for {
		w, ok := d.peek()
		if !ok || w.Class() != arch.CommandWord {
			return out, nil
		}
		d.pos++

		pred, err := arch.DecodePredicate(w.Byte())
		if err != nil {
			return nil, err
		}

		args, err := d.decodeOperands(pred.Argc())
		if err != nil {
			return nil, errors.Wrapf(err, "%s", pred)
		}

		cmd, err := arch.NewCommand(pred, args...)
		if err != nil {
			return nil, err
		}
		out = append(out, cmd)
	}
}

func (d *decoder) decodeOperands(n int) ([]arch.Operand, error) {
	out := make([]arch.Operand, n)
	for i := range out {
		x, err := d.decodeOperand()
		if err != nil {
			return nil, err
		}
		out[i] = x
	}
	return out, nil
}

// decodeOperand decodes one operand, following dereference chains.
func (d *decoder) decodeOperand() (arch.Operand, error) {
	w, err := d.next()
	if err != nil {
		return nil, err
	}

	if w.Class() != arch.OperandWord {
		return nil, newError(Malformed, d.pos-1, 0, "expected operand, found %s", w)
	}

	switch w.Tag() {
	case arch.TypeImm:
		return arch.Immediate(w.Value()), nil
	case arch.TypeReg:
		return arch.Register(w.Value()), nil
	case arch.TypeDeref:
		x, err := d.decodeOperand()
		if err != nil {
			return nil, err
		}
		return arch.Deref(x)
	}

	return nil, arch.NewError(arch.UnresolvedLabel, "label operand in word stream at %04x", d.pos-1)
}

// rebase shifts the word offset of a decode error by pos, or adds the
// offset as context for errors that carry none.
func rebase(err error, pos int) error {
	var e *Error
	if errors.As(err, &e) {
		e.Index += pos
		return err
	}
	return errors.Wrapf(err, "%04x", pos)
}

// Format returns the single line assembly form of instr, e.g.
//
//	CMP $0, $1, #2 EQ #3
func Format(instr arch.Instruction) string {
	var sb strings.Builder

	sb.WriteString(instr.Opcode().Mnemonic())

	for i := 0; i < instr.Len(); i++ {
		if i == 0 {
			sb.WriteByte(' ')
		} else {
			sb.WriteString(", ")
		}
		sb.WriteString(instr.Operand(i).String())
	}

	for _, c := range instr.Commands() {
		sb.WriteByte(' ')
		sb.WriteString(c.String())
	}

	return sb.String()
}
