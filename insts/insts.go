// Package insts provides the LEGv8-subset instruction set used by the
// simulator: the instruction representation, the textual grammar parser,
// per-opcode validation, and the reflection queries a front end uses to
// display an instruction's operands and effects.
//
// Supported instructions:
//   - Arithmetic: ADD, SUB (register), ADDI, SUBI (immediate)
//   - Memory: LDUR, STUR (word load/store with a signed offset)
//   - Branches: B, CBZ, CBNZ (offsets in instruction slots)
//   - Pseudo-ops: a blank line (halt marker) and a // comment
//
// Usage:
//
//	inst, err := insts.Parse("ADDI X0, X1, #42")
//	fmt.Printf("Op: %v, Rd: %d, Rn: %d, Imm: %d\n", inst.Op, inst.Rd, inst.Rn, inst.Imm)
package insts

import "fmt"

// Op represents an instruction opcode.
type Op uint8

// Opcodes. OpNone marks a blank program line and doubles as the implicit
// halt marker during execution.
const (
	OpNone Op = iota
	OpAdd
	OpSub
	OpAddI
	OpSubI
	OpLoad
	OpStore
	OpBranch
	OpBranchZero
	OpBranchNotZero
	OpComment
)

var opMnemonics = map[Op]string{
	OpNone:          "none",
	OpAdd:           "add",
	OpSub:           "sub",
	OpAddI:          "addi",
	OpSubI:          "subi",
	OpLoad:          "ldur",
	OpStore:         "stur",
	OpBranch:        "b",
	OpBranchZero:    "cbz",
	OpBranchNotZero: "cbnz",
	OpComment:       "comment",
}

// String returns the opcode's mnemonic ("none" and "comment" for the two
// pseudo-ops).
func (o Op) String() string {
	if s, ok := opMnemonics[o]; ok {
		return s
	}
	return fmt.Sprintf("op(%d)", uint8(o))
}

// OpFromString returns the opcode named by a mnemonic, as produced by
// Op.String. It is the inverse used when decoding structured snapshots.
func OpFromString(s string) (Op, bool) {
	for op, m := range opMnemonics {
		if m == s {
			return op, true
		}
	}
	return OpNone, false
}

// ZeroReg is the index of the hardwired zero register (XZR).
const ZeroReg uint8 = 31

// Instruction represents one decoded instruction.
//
// The field layout is shared across opcodes:
//   - Rd is the destination for Add/Sub/AddI/SubI/Load, the stored register
//     for Store, and the tested register for BranchZero/BranchNotZero.
//   - Rn is the first source register, or the base register for Load/Store.
//   - Rm is the second source register for Add/Sub.
//   - Imm is the immediate for AddI/SubI, the signed byte offset for
//     Load/Store, and the signed slot offset for the branch opcodes.
//   - Text is the comment body, verbatim.
//
// Register indices are always in 0..=31; an Instruction obtained through
// Parse additionally satisfies its opcode's immediate range (see Validate).
type Instruction struct {
	Op   Op
	Rd   uint8
	Rn   uint8
	Rm   uint8
	Imm  int64
	Text string
}

// RegName returns the canonical register token for an index.
// Index 31 is spelled XZR; X31 is not a token of the grammar.
func RegName(reg uint8) string {
	if reg == ZeroReg {
		return "XZR"
	}
	return fmt.Sprintf("X%d", reg)
}

// String renders the instruction in its canonical textual form. For every
// instruction constructible through Parse, Parse(inst.String()) reproduces
// an equal instruction. The mnemonic occupies a four-column field so
// operands line up across a program listing.
func (i Instruction) String() string {
	switch i.Op {
	case OpAdd, OpSub:
		return fmt.Sprintf("%-4v %s, %s, %s",
			i.Op, RegName(i.Rd), RegName(i.Rn), RegName(i.Rm))
	case OpAddI, OpSubI:
		return fmt.Sprintf("%-4v %s, %s, #%d", i.Op, RegName(i.Rd), RegName(i.Rn), i.Imm)
	case OpLoad, OpStore:
		return fmt.Sprintf("%-4v %s, [%s, #%d]", i.Op, RegName(i.Rd), RegName(i.Rn), i.Imm)
	case OpBranch:
		return fmt.Sprintf("%-4v #%d", i.Op, i.Imm)
	case OpBranchZero, OpBranchNotZero:
		return fmt.Sprintf("%-4v %s, #%d", i.Op, RegName(i.Rd), i.Imm)
	case OpComment:
		return "//" + i.Text
	default:
		return ""
	}
}
