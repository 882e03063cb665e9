package emu

// BranchUnit selects the PC delta for the branch opcodes. Deltas are in
// instruction slots, not bytes; the Simulator applies the chosen delta to
// the PC after every instruction.
type BranchUnit struct {
	regFile *RegFile
}

// NewBranchUnit creates a new branch unit connected to the given register
// file.
func NewBranchUnit(regFile *RegFile) *BranchUnit {
	return &BranchUnit{regFile: regFile}
}

// B returns the delta for an unconditional branch.
func (b *BranchUnit) B(offset int64) int64 {
	return offset
}

// CBZ returns the branch offset when the tested register is zero, and the
// fall-through delta of 1 otherwise.
func (b *BranchUnit) CBZ(rt uint8, offset int64) (int64, error) {
	value, err := b.regFile.Read(rt)
	if err != nil {
		return 0, err
	}
	if value == 0 {
		return offset, nil
	}
	return 1, nil
}

// CBNZ returns the branch offset when the tested register is non-zero,
// and the fall-through delta of 1 otherwise.
func (b *BranchUnit) CBNZ(rt uint8, offset int64) (int64, error) {
	value, err := b.regFile.Read(rt)
	if err != nil {
		return 0, err
	}
	if value != 0 {
		return offset, nil
	}
	return 1, nil
}
