package insts

// Immediate encoding widths. Arithmetic immediates are a 12-bit unsigned
// field; load/store offsets a 9-bit signed field; branch offsets 26-bit
// and 19-bit signed fields.
const (
	arithImmMax = 1 << 12

	offsetMin = -(1 << 8)
	offsetMax = (1 << 8) - 1

	branchMin = -(1 << 25)
	branchMax = (1 << 25) - 1

	condBranchMin = -(1 << 18)
	condBranchMax = (1 << 18) - 1
)

// Validate checks the instruction's immediate against its opcode's
// encoding width. Parse applies it before returning, so callers only need
// it for instructions built by hand or decoded from external state.
func (i Instruction) Validate() error {
	switch i.Op {
	case OpAddI, OpSubI:
		if i.Imm < 0 || i.Imm >= arithImmMax {
			return &RangeError{Op: i.Op, Value: i.Imm}
		}
	case OpLoad, OpStore:
		if i.Imm < offsetMin || i.Imm > offsetMax {
			return &RangeError{Op: i.Op, Value: i.Imm}
		}
	case OpBranch:
		if i.Imm < branchMin || i.Imm > branchMax {
			return &RangeError{Op: i.Op, Value: i.Imm}
		}
	case OpBranchZero, OpBranchNotZero:
		if i.Imm < condBranchMin || i.Imm > condBranchMax {
			return &RangeError{Op: i.Op, Value: i.Imm}
		}
	}
	return nil
}
