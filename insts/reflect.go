package insts

import "fmt"

// wordBytes is the size of one memory word in bytes.
const wordBytes = 8

// Role classifies how an instruction uses a register operand.
type Role uint8

// Operand roles.
const (
	RoleSource Role = iota + 1
	RoleDest
)

// String returns "source" or "dest".
func (r Role) String() string {
	switch r {
	case RoleSource:
		return "source"
	case RoleDest:
		return "dest"
	default:
		return fmt.Sprintf("role(%d)", uint8(r))
	}
}

// RegReader supplies register values to the evaluated reflection queries.
// *emu.RegFile satisfies it.
type RegReader interface {
	Read(reg uint8) (uint64, error)
}

// MemPeeker supplies memory words to the evaluated reflection queries
// without mutating or failing; ok is false for a misaligned address.
// *emu.Memory satisfies it.
type MemPeeker interface {
	Peek(byteAddr uint64) (uint64, bool)
}

// RegRole reports whether the instruction reads or writes the given
// register, and which. A register that appears as both destination and
// source reports RoleDest. Store never writes a register: both its
// operands are sources.
func (i Instruction) RegRole(reg uint8) (Role, bool) {
	switch i.Op {
	case OpAdd, OpSub:
		if reg == i.Rd {
			return RoleDest, true
		}
		if reg == i.Rn || reg == i.Rm {
			return RoleSource, true
		}
	case OpAddI, OpSubI, OpLoad:
		if reg == i.Rd {
			return RoleDest, true
		}
		if reg == i.Rn {
			return RoleSource, true
		}
	case OpStore:
		if reg == i.Rd || reg == i.Rn {
			return RoleSource, true
		}
	case OpBranchZero, OpBranchNotZero:
		if reg == i.Rd {
			return RoleSource, true
		}
	}
	return 0, false
}

// effectiveAddr computes base + offset with two's-complement wraparound.
// Adding the offset's unsigned bit pattern is the 128-bit signed sum
// truncated to 64 bits.
func effectiveAddr(base uint64, offset int64) uint64 {
	return base + uint64(offset)
}

// MemSlot reports the word slot a Load or Store touches given current
// register values, and whether the access reads (Load) or writes (Store)
// it. ok is false for every other opcode and for a misaligned effective
// address.
func (i Instruction) MemSlot(regs RegReader) (slot uint64, role Role, ok bool) {
	if i.Op != OpLoad && i.Op != OpStore {
		return 0, 0, false
	}

	base, _ := regs.Read(i.Rn)
	addr := effectiveAddr(base, i.Imm)
	if addr%wordBytes != 0 {
		return 0, 0, false
	}

	role = RoleSource
	if i.Op == OpStore {
		role = RoleDest
	}
	return addr / wordBytes, role, true
}

// BranchTarget reports the absolute instruction index the branch reaches
// from the given PC, ignoring any condition. ok is false for non-branch
// opcodes.
func (i Instruction) BranchTarget(pc uint64) (target uint64, ok bool) {
	switch i.Op {
	case OpBranch, OpBranchZero, OpBranchNotZero:
		return pc + uint64(i.Imm), true
	default:
		return 0, false
	}
}
