package arch

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func ops(set ...Operand) []Operand { return set }

func TestNewInstructionArity(t *testing.T) {
	_, err := NewInstruction(Add, ops(Register(0), Immediate(1)))
	require.Error(t, err)
	require.True(t, IsKind(err, InvalidOperandCount), err.Error())

	instr, err := NewInstruction(Add, ops(Register(0), Immediate(1), Immediate(2)))
	require.NoError(t, err)
	require.Equal(t, Add, instr.Opcode())
	require.Equal(t, 3, instr.Len())

	_, err = NewInstruction(Ret, ops(Register(0)))
	require.True(t, IsKind(err, InvalidOperandCount))

	_, err = NewInstruction(Ret, nil)
	require.NoError(t, err)
}

func TestNewInstructionEveryOpcode(t *testing.T) {
	for _, op := range Opcodes() {
		if op == Data {
			continue
		}

		args := make([]Operand, op.Argc())
		for i := range args {
			args[i] = Register(i)
		}

		_, err := NewInstruction(op, args)
		require.NoError(t, err, "opcode %s", op)

		_, err = NewInstruction(op, append(args, Immediate(0)))
		require.True(t, IsKind(err, InvalidOperandCount), "opcode %s", op)
	}
}

func TestNewInstructionInvalid(t *testing.T) {
	_, err := NewInstruction(Opcode(0x09), nil)
	require.True(t, IsKind(err, InvalidOpcodeByte))

	_, err = NewInstruction(Push, ops(nil))
	require.True(t, IsKind(err, InvalidOperand))

	_, err = NewInstruction(Push, ops(MustDeref(Dereference{})))
	require.True(t, IsKind(err, InvalidOperand))

	_, err = NewInstruction(Branch, ops(Label("x")), Command{pred: Predicate(7)})
	require.True(t, IsKind(err, InvalidCommandByte))
}

func TestNewInstructionDataCommands(t *testing.T) {
	_, err := NewInstruction(Data, nil, MustCommand(EQ, Immediate(3)))
	require.True(t, IsKind(err, InvalidOperandCount), "%v", err)

	_, err = NewInstruction(Data, ops(), MustCommand(NE, Register(0)))
	require.True(t, IsKind(err, InvalidOperandCount), "%v", err)

	instr, err := NewInstruction(Data, ops(Immediate(1)), MustCommand(EQ, Immediate(3)))
	require.NoError(t, err)
	require.Equal(t, 3, instr.Size())

	instr, err = NewInstruction(Data, nil)
	require.NoError(t, err)
	require.Equal(t, 0, instr.Size())
}

func TestInstructionSize(t *testing.T) {
	tests := []struct {
		name  string
		instr Instruction
		want  int
	}{
		{
			name:  "nop",
			instr: MustInstruction(Noop, nil),
			want:  1,
		},
		{
			name:  "simple",
			instr: MustInstruction(Move, ops(Register(0), Immediate(5))),
			want:  3,
		},
		{
			name:  "nested",
			instr: MustInstruction(Load, ops(Register(0), MustDeref(Register(1)))),
			want:  4,
		},
		{
			name:  "data",
			instr: MustInstruction(Data, ops(Immediate(1), Immediate(2), Immediate(3))),
			want:  3,
		},
		{
			name:  "empty data",
			instr: MustInstruction(Data, nil),
			want:  0,
		},
		{
			name: "command",
			instr: MustInstruction(Compare, ops(Register(0), Register(1), Immediate(2)),
				MustCommand(EQ, Register(3))),
			want: 6,
		},
		{
			name: "commands",
			instr: MustInstruction(Branch, ops(Label("loop")),
				MustCommand(LT, Immediate(1)),
				MustCommand(GE, MustDeref(MustDeref(Register(2))))),
			want: 2 + 2 + 4,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.instr.Size())
			require.Equal(t, tc.want, tc.instr.Size())
		})
	}
}

func TestInstructionImmutable(t *testing.T) {
	args := ops(Register(0), Immediate(5))
	instr := MustInstruction(Move, args)

	args[1] = Immediate(6)
	require.Equal(t, Immediate(5), instr.Operand(1))

	have := instr.Operands()
	have[0] = Label("x")
	require.Equal(t, Register(0), instr.Operand(0))
	require.True(t, instr.Resolved())
}

func TestInstructionMapOperands(t *testing.T) {
	instr := MustInstruction(Branch, ops(Label("end")), MustCommand(NE, Label("x")))
	require.False(t, instr.Resolved())

	out, err := instr.MapOperands(func(x Operand) (Operand, error) {
		if _, ok := x.(Label); ok {
			return Immediate(9), nil
		}
		return x, nil
	})
	require.NoError(t, err)
	require.True(t, out.Resolved())
	require.Equal(t, Immediate(9), out.Operand(0))
	require.Equal(t, Immediate(9), out.Commands()[0].Operand(0))

	require.False(t, instr.Resolved())
	require.Equal(t, Label("end"), instr.Operand(0))
	require.Equal(t, instr.Size(), out.Size())
}

func TestInstructionString(t *testing.T) {
	instr := MustInstruction(Load, ops(Register(0), MustDeref(Register(1))))
	want := "instruction {\n" +
		"  op = load\n" +
		"  operands[0] = operand{type=reg, value=0}\n" +
		"  operands[1] = operand{type=deref, inner=operand{type=reg, value=1}}\n" +
		"}"
	require.Equal(t, want, instr.String())

	instr = MustInstruction(GetIP, ops(Label("here")), MustCommand(EQ, Immediate(1)))
	want = "instruction {\n" +
		"  op = get_ip\n" +
		"  operands[0] = operand{type=label, name=here}\n" +
		"}"
	require.Equal(t, want, instr.String())
}
