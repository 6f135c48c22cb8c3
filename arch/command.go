package arch

import "fmt"

// Predicate is the condition tested by a command.
type Predicate uint8

// Known predicates. The values double as the encoded predicate byte.
const (
	EQ Predicate = 0x00
	NE Predicate = 0x01
	LT Predicate = 0x02
	LE Predicate = 0x03
	GT Predicate = 0x04
	GE Predicate = 0x05
)

type predicateInfo struct {
	pred     Predicate
	mnemonic string
	name     string
	argc     int
}

// predicateTable is the canonical list of predicates.
var predicateTable = [...]predicateInfo{
	{EQ, "EQ", "eq", 1},
	{NE, "NE", "ne", 1},
	{LT, "LT", "lt", 1},
	{LE, "LE", "le", 1},
	{GT, "GT", "gt", 1},
	{GE, "GE", "ge", 1},
}

var (
	predicatesByMnemonic = make(map[string]Predicate, len(predicateTable))
	predicateInfos       [256]*predicateInfo
)

func init() {
	for i := range predicateTable {
		info := &predicateTable[i]
		if _, ok := predicatesByMnemonic[info.mnemonic]; ok {
			panic(fmt.Sprintf("arch: duplicate predicate mnemonic %q", info.mnemonic))
		}
		if predicateInfos[info.pred] != nil {
			panic(fmt.Sprintf("arch: duplicate predicate value 0x%02x", byte(info.pred)))
		}
		predicatesByMnemonic[info.mnemonic] = info.pred
		predicateInfos[info.pred] = info
	}
}

// Predicates returns every known predicate in canonical order.
func Predicates() []Predicate {
	out := make([]Predicate, len(predicateTable))
	for i := range predicateTable {
		out[i] = predicateTable[i].pred
	}
	return out
}

// ParsePredicate returns the predicate for the given mnemonic.
func ParsePredicate(mnemonic string) (Predicate, error) {
	if p, ok := predicatesByMnemonic[mnemonic]; ok {
		return p, nil
	}
	return 0, NewError(UnknownMnemonic, "unknown command %q", mnemonic)
}

// DecodePredicate returns the predicate encoded by the given byte.
func DecodePredicate(b byte) (Predicate, error) {
	p := Predicate(b)
	if !p.Valid() {
		return 0, NewError(InvalidCommandByte, "invalid command byte 0x%02x", b)
	}
	return p, nil
}

// Valid returns true if p is a known predicate.
func (p Predicate) Valid() bool {
	return predicateInfos[p] != nil
}

// Mnemonic returns the two-letter mnemonic for p.
// Returns "" if p is not a known predicate.
func (p Predicate) Mnemonic() string {
	if info := predicateInfos[p]; info != nil {
		return info.mnemonic
	}
	return ""
}

// Name returns the lower case name for p.
func (p Predicate) Name() string {
	if info := predicateInfos[p]; info != nil {
		return info.name
	}
	return fmt.Sprintf("<invalid (%d)>", byte(p))
}

// Argc returns the number of operands a command with this predicate carries.
// Returns VarArgs for unknown predicates.
func (p Predicate) Argc() int {
	if info := predicateInfos[p]; info != nil {
		return info.argc
	}
	return VarArgs
}

func (p Predicate) String() string {
	if m := p.Mnemonic(); m != "" {
		return m
	}
	return fmt.Sprintf("Predicate(0x%02x)", byte(p))
}

// Command is a conditional predicate attached to an instruction. It
// carries the right hand side of the comparison; the left hand side is
// implied by the instruction it is attached to.
type Command struct {
	pred Predicate
	args []Operand
}

// NewCommand creates a command for p with the given operands.
// The operand count must match p.Argc().
func NewCommand(p Predicate, args ...Operand) (Command, error) {
	if !p.Valid() {
		return Command{}, NewError(InvalidCommandByte, "invalid predicate 0x%02x", byte(p))
	}

	if len(args) != p.Argc() {
		return Command{}, NewError(InvalidOperandCount,
			"command %s expects %d operands, have %d", p, p.Argc(), len(args))
	}

	if err := checkOperands(args); err != nil {
		return Command{}, err
	}

	return Command{pred: p, args: cloneOperands(args)}, nil
}

// MustCommand is like NewCommand but panics on error.
func MustCommand(p Predicate, args ...Operand) Command {
	c, err := NewCommand(p, args...)
	if err != nil {
		panic(err)
	}
	return c
}

// Predicate returns the command's predicate.
func (c Command) Predicate() Predicate { return c.pred }

// Operand returns the i'th operand.
func (c Command) Operand(i int) Operand { return c.args[i] }

// Operands returns a copy of the command's operands.
func (c Command) Operands() []Operand { return cloneOperands(c.args) }

// Size returns the number of words the command occupies when encoded:
// one for the predicate plus its operands.
func (c Command) Size() int {
	return 1 + operandsSize(c.args)
}

func (c Command) String() string {
	return c.pred.String() + " " + joinOperands(c.args)
}
