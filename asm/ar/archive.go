// Package ar defines the compiled archive type, as well as an encoder
// and decoder for its file format.
package ar

import (
	"compress/gzip"
	"fmt"
	"io"
	"strings"

	"github.com/hexaflex/shk/arch"
	"github.com/pkg/errors"
)

// Archive defines a complete, compiled program.
type Archive struct {
	Debug  Debug       // Optional debug symbols.
	Origin int         // Address of the first word.
	Words  []arch.Word // Compiled code.
}

// New creates a new, empty archive.
func New() *Archive {
	return &Archive{}
}

// Load reads archive data from the given stream.
func (a *Archive) Load(r io.Reader) (err error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return errors.Wrapf(err, "ar: invalid archive format")
	}

	defer gz.Close()
	defer recoverOnPanic(&err)

	a.Debug.read(gz)
	a.Origin = int(readU16(gz))
	a.Words = readWords(gz)
	return
}

// Save writes archive data to the given stream.
func (a *Archive) Save(w io.Writer) (err error) {
	if a.Origin < 0 || a.Origin > 0xffff {
		return errors.Errorf("ar: origin %#x does not fit in 16 bits", a.Origin)
	}

	defer recoverOnPanic(&err)

	gz := gzip.NewWriter(w)
	defer func() {
		if cerr := gz.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "ar")
		}
	}()

	a.Debug.write(gz)
	writeU16(gz, uint16(a.Origin))
	writeWords(gz, a.Words)
	return
}

// maxPrealloc caps the capacity reserved up front from a stored word count.
// Longer streams grow as words are actually read.
const maxPrealloc = 0x10000

func readWords(r io.Reader) []arch.Word {
	n := readU32(r)
	if n == 0 {
		return nil
	}

	out := make([]arch.Word, 0, min(n, maxPrealloc))
	for i := uint32(0); i < n; i++ {
		out = append(out, arch.Word(readU32(r)))
	}
	return out
}

func writeWords(w io.Writer, set []arch.Word) {
	writeU32(w, uint32(len(set)))
	for _, v := range set {
		writeU32(w, uint32(v))
	}
}

// String returns a human-readable dump of the archive's contents.
func (a *Archive) String() string {
	var sb strings.Builder

	if len(a.Debug.Files) > 0 {
		fmt.Fprintf(&sb, "Source files (%d):\n", len(a.Debug.Files))
		for i, v := range a.Debug.Files {
			fmt.Fprintf(&sb, " %d: %s\n", i, v)
		}

		fmt.Fprintf(&sb, "Debug symbols (%d):\n", len(a.Debug.Symbols))
		for _, v := range a.Debug.Symbols {
			fmt.Fprintf(&sb, " %04x: File: %d, Line: %d Flags: %02x\n",
				v.Address, v.File, v.Line, v.Flags)
		}
	}

	if len(a.Debug.Labels) > 0 {
		fmt.Fprintf(&sb, "Labels (%d):\n", len(a.Debug.Labels))
		for _, v := range a.Debug.Labels {
			fmt.Fprintf(&sb, " %04x: %s\n", v.Address, v.Name)
		}
	}

	if len(a.Words) > 0 {
		fmt.Fprintf(&sb, "Words:\n")
		for i, w := range a.Words {
			if i%8 == 0 {
				if i > 0 {
					sb.WriteByte('\n')
				}
				fmt.Fprintf(&sb, " %04x:", a.Origin+i)
			}
			fmt.Fprintf(&sb, " %08x", uint32(w))
		}
		sb.WriteByte('\n')
	}

	return sb.String()
}
