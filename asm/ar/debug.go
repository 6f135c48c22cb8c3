package ar

import (
	"fmt"
	"io"
	"runtime"
	"sort"

	"github.com/pkg/errors"
)

// DebugFlags defines debug bitflags.
type DebugFlags byte

// Known debug bit flags.
const (
	// The words at this address are a data payload, not an instruction.
	Payload DebugFlags = 1 << iota
)

// Debug defines any debug data stored in an archive.
type Debug struct {
	Files   []string    // File names associated with the source that makes up this archive. Only set when there are debug symbols.
	Symbols []DebugData // Per-instruction source context.
	Labels  []Label     // Label definitions, ordered by address.
}

// Label names an address.
type Label struct {
	Name    string
	Address int
}

// Clear empties all data.
func (d *Debug) Clear() {
	d.Files = nil
	d.Symbols = nil
	d.Labels = nil
}

// Find returns the debug data associated with the given address.
// Returns nil if there is none.
func (d *Debug) Find(addr int) *DebugData {
	for i := range d.Symbols {
		if d.Symbols[i].Address == addr {
			return &d.Symbols[i]
		}
	}
	return nil
}

// LabelsAt returns the names of all labels defined at the given address.
func (d *Debug) LabelsAt(addr int) []string {
	var out []string
	for _, l := range d.Labels {
		if l.Address == addr {
			out = append(out, l.Name)
		}
	}
	return out
}

// SetLabels replaces the label list with the given name/address pairs,
// sorted by address, then name.
func (d *Debug) SetLabels(syms map[string]int) {
	d.Labels = d.Labels[:0]
	for name, addr := range syms {
		d.Labels = append(d.Labels, Label{Name: name, Address: addr})
	}

	sort.Slice(d.Labels, func(i, j int) bool {
		a, b := d.Labels[i], d.Labels[j]
		if a.Address != b.Address {
			return a.Address < b.Address
		}
		return a.Name < b.Name
	})
}

// Load reads debug data from the given stream.
func (d *Debug) Load(r io.Reader) (err error) {
	defer recoverOnPanic(&err)
	d.read(r)
	return
}

// Save writes debug data to the given stream.
func (d *Debug) Save(w io.Writer) (err error) {
	defer recoverOnPanic(&err)
	d.write(w)
	return
}

func (d *Debug) read(r io.Reader) {
	d.Clear()

	if n := readU8(r); n > 0 {
		d.Files = make([]string, n)
		for i := range d.Files {
			d.Files[i] = string(readBytes(r))
		}
	}

	if n := readU16(r); n > 0 {
		d.Symbols = make([]DebugData, n)
		for i := range d.Symbols {
			d.Symbols[i].read(r)
		}
	}

	if n := readU16(r); n > 0 {
		d.Labels = make([]Label, n)
		for i := range d.Labels {
			d.Labels[i].Name = string(readBytes(r))
			d.Labels[i].Address = int(readU16(r))
		}
	}
}

func (d *Debug) write(w io.Writer) {
	writeU8(w, uint8(len(d.Files)))
	for i := range d.Files {
		writeBytes(w, []byte(d.Files[i]))
	}

	writeU16(w, uint16(len(d.Symbols)))
	for i := range d.Symbols {
		d.Symbols[i].write(w)
	}

	writeU16(w, uint16(len(d.Labels)))
	for i := range d.Labels {
		writeBytes(w, []byte(d.Labels[i].Name))
		writeU16(w, uint16(d.Labels[i].Address))
	}
}

// DebugData defines one set of debug symbols.
type DebugData struct {
	Address int        // Address for which this debug data is defined.
	File    int        // Index into list of file paths in which symbol was defined.
	Line    int        // Line number at which symbol was defined.
	Flags   DebugFlags // Any debug flags defined for this entry.
}

func (d *DebugData) read(r io.Reader) {
	d.Address = int(readU16(r))
	d.File = int(readU8(r))
	d.Line = int(readU16(r))
	d.Flags = DebugFlags(readU8(r))
}

func (d *DebugData) write(w io.Writer) {
	writeU16(w, uint16(d.Address))
	writeU8(w, uint8(d.File))
	writeU16(w, uint16(d.Line))
	writeU8(w, uint8(d.Flags))
}

func recoverOnPanic(err *error) {
	x := recover()
	if x == nil {
		return
	}

	switch tx := x.(type) {
	case runtime.Error:
		panic(tx)
	case error:
		*err = errors.Wrapf(tx, "ar")
	default:
		*err = fmt.Errorf("ar: %v", tx)
	}
}
