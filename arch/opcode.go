// Package arch defines the system's instruction set: opcodes, operand
// address modes, conditional commands and the instruction records built
// from them, along with the word layout they encode to.
package arch

import "fmt"

// Opcode selects the operation performed by an instruction.
type Opcode uint8

// Known opcodes. The values double as the encoded opcode byte.
const (
	Noop  Opcode = 0x00
	Debug Opcode = 0x01
	Halt  Opcode = 0x02
	Die   Opcode = 0x03

	Load  Opcode = 0x04
	Store Opcode = 0x05
	Pop   Opcode = 0x06
	Push  Opcode = 0x07

	Move     Opcode = 0x08
	Add      Opcode = 0x0a
	Compare  Opcode = 0x0b
	Multiply Opcode = 0x0c
	Divide   Opcode = 0x0d
	Modulo   Opcode = 0x0e

	Branch Opcode = 0x10
	Call   Opcode = 0x11
	Ret    Opcode = 0x12

	GetIP Opcode = 0x14
	SetIP Opcode = 0x15
	GetSP Opcode = 0x16
	SetSP Opcode = 0x17

	// Data is a pseudo-opcode. It is never encoded; its operands are
	// emitted verbatim as payload words.
	Data Opcode = 0x18
)

// VarArgs is returned by Argc for opcodes without a fixed operand count.
const VarArgs = -1

type opcodeInfo struct {
	op       Opcode
	mnemonic string
	name     string
	argc     int
}

// opcodeTable is the canonical list of opcodes. Both lookup directions
// and the arity table are derived from it.
var opcodeTable = [...]opcodeInfo{
	{Noop, "NOP", "noop", 0},
	{Debug, "DBG", "debug", 0},
	{Halt, "HLT", "halt", 0},
	{Die, "DIE", "die", 0},

	{Load, "LOD", "load", 2},
	{Store, "STO", "store", 2},
	{Pop, "POP", "pop", 1},
	{Push, "PSH", "push", 1},

	{Move, "MOV", "move", 2},
	{Add, "ADD", "add", 3},
	{Compare, "CMP", "compare", 3},
	{Multiply, "MUL", "multiply", 3},
	{Divide, "DIV", "divide", 3},
	{Modulo, "MOD", "modulo", 3},

	{Branch, "BRA", "branch", 1},
	{Call, "CAL", "call", 1},
	{Ret, "RET", "ret", 0},

	{GetIP, "GIP", "get_ip", 1},
	{SetIP, "SIP", "set_ip", 1},
	{GetSP, "GSP", "get_sp", 1},
	{SetSP, "SSP", "set_sp", 1},

	{Data, "DAT", "data", VarArgs},
}

var (
	opcodesByMnemonic = make(map[string]Opcode, len(opcodeTable))
	opcodeInfos       [256]*opcodeInfo
)

func init() {
	for i := range opcodeTable {
		info := &opcodeTable[i]
		if _, ok := opcodesByMnemonic[info.mnemonic]; ok {
			panic(fmt.Sprintf("arch: duplicate opcode mnemonic %q", info.mnemonic))
		}
		if opcodeInfos[info.op] != nil {
			panic(fmt.Sprintf("arch: duplicate opcode value 0x%02x", byte(info.op)))
		}
		opcodesByMnemonic[info.mnemonic] = info.op
		opcodeInfos[info.op] = info
	}
}

// Opcodes returns every known opcode in canonical order.
func Opcodes() []Opcode {
	out := make([]Opcode, len(opcodeTable))
	for i := range opcodeTable {
		out[i] = opcodeTable[i].op
	}
	return out
}

// ParseOpcode returns the opcode for the given mnemonic.
// Mnemonics are matched exactly; no other spelling is accepted.
func ParseOpcode(mnemonic string) (Opcode, error) {
	if op, ok := opcodesByMnemonic[mnemonic]; ok {
		return op, nil
	}
	return 0, NewError(UnknownMnemonic, "unknown instruction %q", mnemonic)
}

// DecodeOpcode returns the opcode encoded by the given byte.
// Data has no encoded form and is rejected like any unknown value.
func DecodeOpcode(b byte) (Opcode, error) {
	op := Opcode(b)
	if !op.Valid() || op == Data {
		return 0, NewError(InvalidOpcodeByte, "invalid opcode byte 0x%02x", b)
	}
	return op, nil
}

// Valid returns true if op is part of the instruction set.
func (op Opcode) Valid() bool {
	return opcodeInfos[op] != nil
}

// Mnemonic returns the three-letter mnemonic for op.
// Returns "" if op is not part of the instruction set.
func (op Opcode) Mnemonic() string {
	if info := opcodeInfos[op]; info != nil {
		return info.mnemonic
	}
	return ""
}

// Name returns the long, lower case name for op, e.g. "get_ip".
func (op Opcode) Name() string {
	if info := opcodeInfos[op]; info != nil {
		return info.name
	}
	return fmt.Sprintf("<invalid (%d)>", byte(op))
}

// Argc returns the number of operands op requires.
// Returns VarArgs for Data and for values outside the instruction set.
func (op Opcode) Argc() int {
	if info := opcodeInfos[op]; info != nil {
		return info.argc
	}
	return VarArgs
}

// Encoded returns true if op occupies an opcode word when emitted.
func (op Opcode) Encoded() bool {
	return op != Data
}

func (op Opcode) String() string {
	if m := op.Mnemonic(); m != "" {
		return m
	}
	return fmt.Sprintf("Opcode(0x%02x)", byte(op))
}
