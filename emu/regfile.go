package emu

// RegFile is the simulator's register file: 31 general-purpose 64-bit
// registers X0-X30, the hardwired zero register XZR at index 31, and the
// program counter.
//
// PC holds an instruction-slot index, never a byte address. The ×4
// conversion to a byte address is presentation only and is computed by
// callers; it is never stored here.
type RegFile struct {
	// X holds general-purpose registers X0-X30. Index 31 has no
	// storage: it always reads as 0 and discards writes.
	X [31]uint64

	// PC is the program counter, in instruction slots.
	PC uint64
}

// NewRegFile creates a zeroed register file.
func NewRegFile() *RegFile {
	return &RegFile{}
}

// Read returns a register value. Index 31 reads as 0; indices above 31
// fail with a RegisterError.
func (r *RegFile) Read(reg uint8) (uint64, error) {
	switch {
	case reg < 31:
		return r.X[reg], nil
	case reg == 31:
		return 0, nil
	default:
		return 0, &RegisterError{Reg: reg}
	}
}

// Write sets a register value. Writes to index 31 are accepted and
// discarded; indices above 31 fail with a RegisterError.
func (r *RegFile) Write(reg uint8, value uint64) error {
	switch {
	case reg < 31:
		r.X[reg] = value
		return nil
	case reg == 31:
		return nil
	default:
		return &RegisterError{Reg: reg}
	}
}
