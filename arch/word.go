package arch

import "fmt"

// Word is one unit of encoded output.
//
//	bits 24-25: word class (operand, opcode, command)
//	bits  0-7 : opcode or predicate byte, for opcode and command words
//	bits 16-17: operand type tag, for operand words
//	bits  0-15: operand value, for operand words
type Word uint32

// WordClass tells the kind of data held in a word.
type WordClass byte

// Known word classes.
const (
	OperandWord WordClass = 0
	OpcodeWord  WordClass = 1
	CommandWord WordClass = 2
)

const (
	classShift = 24
	tagShift   = 16
)

// OpcodeToWord returns the opcode word for op.
func OpcodeToWord(op Opcode) Word {
	return Word(OpcodeWord)<<classShift | Word(op)
}

// PredicateToWord returns the command word for p.
func PredicateToWord(p Predicate) Word {
	return Word(CommandWord)<<classShift | Word(p)
}

// OperandToWord returns an operand word with the given tag and value.
func OperandToWord(t OperandType, value uint16) Word {
	return Word(t&3)<<tagShift | Word(value)
}

// Class returns the word class.
func (w Word) Class() WordClass { return WordClass(w>>classShift) & 3 }

// Byte returns the opcode or predicate byte held by w.
func (w Word) Byte() byte { return byte(w) }

// Tag returns the operand type tag held by w.
func (w Word) Tag() OperandType { return OperandType(w>>tagShift) & 3 }

// Value returns the 16-bit operand value held by w.
func (w Word) Value() uint16 { return uint16(w) }

func (w Word) String() string {
	switch w.Class() {
	case OpcodeWord:
		return fmt.Sprintf("op:%02x", w.Byte())
	case CommandWord:
		return fmt.Sprintf("cmd:%02x", w.Byte())
	case OperandWord:
		return fmt.Sprintf("%s:%04x", w.Tag(), w.Value())
	}
	return fmt.Sprintf("?:%08x", uint32(w))
}
