package asm

import (
	"bytes"
	"testing"

	"github.com/hexaflex/shk/arch"
	"github.com/hexaflex/shk/asm/ar"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestAssemble(t *testing.T) {
	a := New(WithLogger(zaptest.NewLogger(t)), WithDebug(true))

	archive, err := a.Assemble("main.shk", testProgram())
	require.NoError(t, err)
	require.Len(t, archive.Words, 18)
	require.Equal(t, Symbols{"start": 0, "loop": 3, "end": 11, "table": 12}, a.Symbols())

	require.Equal(t, []string{"main.shk"}, archive.Debug.Files)
	require.Len(t, archive.Debug.Symbols, 6)
	require.Equal(t, ar.DebugData{Address: 12, File: 0, Line: 5, Flags: ar.Payload}, archive.Debug.Symbols[4])
	require.Equal(t, []string{"end"}, archive.Debug.LabelsAt(11))

	lines, err := DisassembleArchive(archive)
	require.NoError(t, err)

	want := []string{
		"MOV $0, #0",
		"ADD $0, $0, #1",
		"BRA #3 LT #10",
		"HLT",
		"DAT #1, #2",
		"LOD $1, *#12",
	}
	require.Len(t, lines, len(want))
	for i, line := range lines {
		require.Equal(t, want[i], Format(line.Instr))
		require.Equal(t, archive.Debug.Symbols[i].Address, line.Address)
	}
}

func TestAssembleOrigin(t *testing.T) {
	a := New(WithOrigin(0x100))

	archive, err := a.Assemble("main.shk", testProgram())
	require.NoError(t, err)
	require.Equal(t, 0x100, archive.Origin)
	require.Empty(t, archive.Debug.Symbols)
	require.Empty(t, archive.Debug.Labels)

	lines, err := DisassembleArchive(archive)
	require.NoError(t, err)
	require.Equal(t, 0x10c, lines[4].Address)
	require.Equal(t, "LOD $1, *#268", Format(lines[5].Instr))
}

func TestAssembleOriginRange(t *testing.T) {
	for _, origin := range []int{-1, 0x10000} {
		archive, err := New(WithOrigin(origin)).Assemble("main.shk", testProgram())
		require.True(t, IsKind(err, AddressOverflow), "origin %#x: %v", origin, err)
		require.Nil(t, archive)
	}

	archive, err := New(WithOrigin(0xff00)).Assemble("main.shk", testProgram())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, archive.Save(&buf))

	loaded := ar.New()
	require.NoError(t, loaded.Load(&buf))
	require.Equal(t, 0xff00, loaded.Origin)
}

func TestAssembleSaveLoad(t *testing.T) {
	archive, err := New(WithDebug(true)).Assemble("main.shk", testProgram())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, archive.Save(&buf))

	loaded := ar.New()
	require.NoError(t, loaded.Load(&buf))
	require.Equal(t, archive, loaded)
}

func TestAssembleErrors(t *testing.T) {
	prog := testProgram()
	prog = append(prog, Statement{
		Line:  7,
		Instr: arch.MustInstruction(arch.Call, ops(arch.Label("missing"))),
	})

	_, err := New().Assemble("main.shk", prog)
	require.True(t, IsKind(err, UndefinedLabel))

	prog = testProgram()
	prog[1].Label = "start"
	_, err = New().Assemble("main.shk", prog)
	require.True(t, IsKind(err, DuplicateLabel))
}
