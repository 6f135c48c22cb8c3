package arch

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"
)

func TestOperandSize(t *testing.T) {
	tests := []struct {
		name string
		x    Operand
		want int
		typ  OperandType
	}{
		{"imm", Immediate(5), 1, TypeImm},
		{"reg", Register(0), 1, TypeReg},
		{"label", Label("loop"), 1, TypeLabel},
		{"deref", MustDeref(Register(1)), 2, TypeDeref},
		{"deref2", MustDeref(MustDeref(Immediate(0x100))), 3, TypeDeref},
		{"deref3", MustDeref(MustDeref(MustDeref(Label("x")))), 4, TypeDeref},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.x.Size(), spew.Sdump(tc.x))
			require.Equal(t, tc.typ, tc.x.Type())
		})
	}
}

func TestDeref(t *testing.T) {
	_, err := Deref(nil)
	require.True(t, IsKind(err, InvalidOperand))

	d := MustDeref(MustDeref(Register(3)))
	require.Equal(t, 2, d.Depth())
	require.Equal(t, MustDeref(Register(3)), d.Inner())
	require.Equal(t, Register(3), d.Inner().(Dereference).Inner())
	require.Equal(t, "**$3", d.String())

	require.Panics(t, func() { MustDeref(nil) })
}

func TestOperandValue(t *testing.T) {
	require.Equal(t, uint16(0xffff), Value(Immediate(0xffff)))
	require.Equal(t, uint16(7), Value(Register(7)))
	require.Equal(t, uint16(0), Value(MustDeref(Register(7))))
	require.Equal(t, uint16(0), Value(Label("x")))
}

func TestOperandResolved(t *testing.T) {
	require.True(t, Resolved(Immediate(1)))
	require.True(t, Resolved(MustDeref(Register(1))))
	require.False(t, Resolved(Label("a")))
	require.False(t, Resolved(MustDeref(MustDeref(Label("a")))))
	require.False(t, Resolved(nil))
}

func TestOperandString(t *testing.T) {
	require.Equal(t, "#5", Immediate(5).String())
	require.Equal(t, "$0", Register(0).String())
	require.Equal(t, "*#16", MustDeref(Immediate(16)).String())
	require.Equal(t, "loop", Label("loop").String())
	require.Equal(t, "deref", TypeDeref.String())
}
