package arch

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// Instruction is a validated instruction record: one opcode, the operands
// it requires and zero or more attached commands.
//
// Instructions are values. Accessors hand out copies, and anything that
// changes an operand produces a new Instruction.
type Instruction struct {
	op       Opcode
	args     []Operand
	commands []Command
}

// NewInstruction creates an instruction for op with the given operands.
// For every opcode but Data, the operand count must match op.Argc().
// Data treats its operands as a raw payload of any length, but must carry
// at least one operand word when commands are attached: Data has no opcode
// word, so its commands would otherwise decode as part of whatever record
// precedes it.
func NewInstruction(op Opcode, args []Operand, commands ...Command) (Instruction, error) {
	if !op.Valid() {
		return Instruction{}, NewError(InvalidOpcodeByte, "invalid opcode 0x%02x", byte(op))
	}

	if argc := op.Argc(); argc != VarArgs && len(args) != argc {
		return Instruction{}, NewError(InvalidOperandCount,
			"instruction %s expects %d operands, have %d", op, argc, len(args))
	}

	if op == Data && len(args) == 0 && len(commands) > 0 {
		return Instruction{}, NewError(InvalidOperandCount,
			"instruction %s with %d commands needs a payload", op, len(commands))
	}

	if err := checkOperands(args); err != nil {
		return Instruction{}, err
	}

	for i, c := range commands {
		if !c.pred.Valid() {
			return Instruction{}, NewError(InvalidCommandByte,
				"command %d: invalid predicate 0x%02x", i, byte(c.pred))
		}
	}

	return Instruction{
		op:       op,
		args:     cloneOperands(args),
		commands: cloneCommands(commands),
	}, nil
}

// MustInstruction is like NewInstruction but panics on error.
func MustInstruction(op Opcode, args []Operand, commands ...Command) Instruction {
	instr, err := NewInstruction(op, args, commands...)
	if err != nil {
		panic(err)
	}
	return instr
}

// Opcode returns the instruction's opcode.
func (i Instruction) Opcode() Opcode { return i.op }

// Len returns the number of operands.
func (i Instruction) Len() int { return len(i.args) }

// Operand returns the n'th operand.
func (i Instruction) Operand(n int) Operand { return i.args[n] }

// Operands returns a copy of the instruction's operands.
func (i Instruction) Operands() []Operand { return cloneOperands(i.args) }

// Commands returns a copy of the attached commands.
func (i Instruction) Commands() []Command { return cloneCommands(i.commands) }

// Size returns the number of words the instruction occupies when encoded.
// This is the opcode word (absent for Data), plus all operands, plus each
// command's predicate word and operands.
func (i Instruction) Size() int {
	n := 0
	if i.op.Encoded() {
		n++
	}

	n += operandsSize(i.args)

	for _, c := range i.commands {
		n += c.Size()
	}

	return n
}

// Resolved returns true if no operand, including command operands,
// is or contains a Label.
func (i Instruction) Resolved() bool {
	for _, x := range i.args {
		if !Resolved(x) {
			return false
		}
	}
	for _, c := range i.commands {
		for _, x := range c.args {
			if !Resolved(x) {
				return false
			}
		}
	}
	return true
}

// MapOperands returns a new instruction with fn applied to every operand,
// command operands included. The receiver is left unchanged.
func (i Instruction) MapOperands(fn func(Operand) (Operand, error)) (Instruction, error) {
	args, err := mapOperands(i.args, fn)
	if err != nil {
		return Instruction{}, err
	}

	commands := make([]Command, len(i.commands))
	for j, c := range i.commands {
		cargs, err := mapOperands(c.args, fn)
		if err != nil {
			return Instruction{}, err
		}

		if commands[j], err = NewCommand(c.pred, cargs...); err != nil {
			return Instruction{}, err
		}
	}

	return NewInstruction(i.op, args, commands...)
}

// String returns a multi-line dump of the opcode and operands, meant for
// debugging. Commands are not included.
func (i Instruction) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "instruction {\n")
	fmt.Fprintf(&sb, "  op = %s\n", i.op.Name())
	for n, x := range i.args {
		fmt.Fprintf(&sb, "  operands[%d] = %s\n", n, describe(x))
	}
	sb.WriteString("}")

	return sb.String()
}

// describe returns the debug representation of x.
func describe(x Operand) string {
	switch tx := x.(type) {
	case nil:
		return "operand{<nil>}"
	case Dereference:
		return fmt.Sprintf("operand{type=%s, inner=%s}", tx.Type(), describe(tx.x))
	case Label:
		return fmt.Sprintf("operand{type=%s, name=%s}", tx.Type(), string(tx))
	}
	return fmt.Sprintf("operand{type=%s, value=%d}", x.Type(), Value(x))
}

// checkOperands returns an error if any operand in set is nil or
// dereferences nil.
func checkOperands(set []Operand) error {
	for n, x := range set {
		if x == nil {
			return NewError(InvalidOperand, "operand %d is nil", n)
		}
		for d, ok := x.(Dereference); ok; d, ok = d.x.(Dereference) {
			if d.x == nil {
				return NewError(InvalidOperand, "operand %d: dereference of nil operand", n)
			}
		}
	}
	return nil
}

func mapOperands(set []Operand, fn func(Operand) (Operand, error)) ([]Operand, error) {
	out := make([]Operand, len(set))
	for n, x := range set {
		y, err := fn(x)
		if err != nil {
			return nil, err
		}
		out[n] = y
	}
	return out, nil
}

func operandsSize(set []Operand) int {
	n := 0
	for _, x := range set {
		n += x.Size()
	}
	return n
}

func joinOperands(set []Operand) string {
	parts := make([]string, len(set))
	for n, x := range set {
		parts[n] = x.String()
	}
	return strings.Join(parts, ", ")
}

func cloneOperands(set []Operand) []Operand {
	if len(set) == 0 {
		return nil
	}
	return slices.Clone(set)
}

func cloneCommands(set []Command) []Command {
	if len(set) == 0 {
		return nil
	}
	return slices.Clone(set)
}
