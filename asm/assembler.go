package asm

import (
	"github.com/hexaflex/shk/arch"
	"github.com/hexaflex/shk/asm/ar"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Assembler turns a list of statements into a binary archive.
// It is safe to reuse for multiple programs, but not concurrently.
type Assembler struct {
	log    *zap.Logger
	debug  bool
	origin int

	ar      *ar.Archive // Target archive.
	symbols Symbols     // Label addresses for the current program.
	address int         // Address at which next instruction is written.
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithLogger sets the logger used to trace assembler passes.
func WithLogger(log *zap.Logger) Option {
	return func(a *Assembler) {
		if log != nil {
			a.log = log
		}
	}
}

// WithDebug toggles emitting debug symbols into the archive.
func WithDebug(debug bool) Option {
	return func(a *Assembler) {
		a.debug = debug
	}
}

// WithOrigin sets the address of the first statement.
func WithOrigin(origin int) Option {
	return func(a *Assembler) {
		a.origin = origin
	}
}

// New creates a new assembler with the given options.
func New(opts ...Option) *Assembler {
	a := &Assembler{
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble compiles the given statements into an archive. File names the
// source the statements came from and is recorded in the debug symbols.
func (a *Assembler) Assemble(file string, stmts []Statement) (*ar.Archive, error) {
	a.ar = ar.New()
	a.ar.Origin = a.origin
	a.symbols = nil

	if err := a.resolveLabels(stmts); err != nil {
		return nil, err
	}

	resolved, err := ResolveAll(stmts, a.symbols)
	if err != nil {
		return nil, err
	}

	if err := a.compile(file, resolved); err != nil {
		return nil, err
	}

	a.log.Debug("assembled",
		zap.String("file", file),
		zap.Int("statements", len(stmts)),
		zap.Int("words", len(a.ar.Words)))

	return a.ar, nil
}

// Symbols returns a copy of the label addresses of the last assembled program.
func (a *Assembler) Symbols() Symbols {
	return a.symbols.Clone()
}

// resolveLabels finds all label definitions and resolves their addresses.
func (a *Assembler) resolveLabels(stmts []Statement) error {
	syms, err := Layout(a.origin, stmts)
	if err != nil {
		return err
	}

	a.symbols = syms

	for _, st := range stmts {
		if len(st.Label) > 0 {
			a.log.Debug("label",
				zap.String("name", st.Label),
				zap.Int("address", syms[st.Label]),
				zap.Int("line", st.Line))
		}
	}

	if a.debug {
		a.ar.Debug.SetLabels(syms)
	}

	return nil
}

// compile encodes all given statements.
func (a *Assembler) compile(file string, stmts []Statement) error {
	a.address = a.origin

	for i, st := range stmts {
		code, err := Encode(st.Instr)
		if err != nil {
			return errors.Wrapf(err, "asm: line %d", st.Line)
		}

		if len(code) != st.Instr.Size() {
			return errors.Errorf("asm: line %d: encoded %d words, expected %d",
				st.Line, len(code), st.Instr.Size())
		}

		a.emit(file, i, st, code)
	}

	return nil
}

// emit emits the given instruction.
// It optionally generates debug symbols.
func (a *Assembler) emit(file string, index int, st Statement, code []arch.Word) {
	a.ar.Words = append(a.ar.Words, code...)

	address := a.address
	a.address += len(code)

	a.log.Debug("emit",
		zap.Int("statement", index),
		zap.Int("address", address),
		zap.Int("size", len(code)),
		zap.Stringer("opcode", st.Instr.Opcode()))

	if !a.debug {
		return
	}

	var flags ar.DebugFlags
	if st.Instr.Opcode() == arch.Data {
		flags |= ar.Payload
	}

	fileindex := a.addDebugFile(file)
	a.ar.Debug.Symbols = append(a.ar.Debug.Symbols, ar.DebugData{
		Address: address,
		File:    fileindex,
		Line:    st.Line,
		Flags:   flags,
	})
}

// addDebugFile adds a filename to the debug symbol table, provided it does
// not already exist. Returns the index of the entry in the file list.
func (a *Assembler) addDebugFile(file string) int {
	for i, v := range a.ar.Debug.Files {
		if v == file {
			return i
		}
	}
	a.ar.Debug.Files = append(a.ar.Debug.Files, file)
	return len(a.ar.Debug.Files) - 1
}

// DisassembleArchive decodes the words held by archive.
func DisassembleArchive(archive *ar.Archive) ([]Line, error) {
	return Disassemble(archive.Words, archive.Origin)
}
