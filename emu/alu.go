package emu

// ALU implements the arithmetic opcodes. All arithmetic is 64-bit
// two's-complement with silent wraparound: overflow is never an error.
type ALU struct {
	regFile *RegFile
}

// NewALU creates a new ALU connected to the given register file.
func NewALU(regFile *RegFile) *ALU {
	return &ALU{regFile: regFile}
}

// Add performs Xd = Xn + Xm.
func (a *ALU) Add(rd, rn, rm uint8) error {
	op1, err := a.regFile.Read(rn)
	if err != nil {
		return err
	}
	op2, err := a.regFile.Read(rm)
	if err != nil {
		return err
	}
	return a.regFile.Write(rd, op1+op2)
}

// Sub performs Xd = Xn - Xm.
func (a *ALU) Sub(rd, rn, rm uint8) error {
	op1, err := a.regFile.Read(rn)
	if err != nil {
		return err
	}
	op2, err := a.regFile.Read(rm)
	if err != nil {
		return err
	}
	return a.regFile.Write(rd, op1-op2)
}

// AddImm performs Xd = Xn + imm. The immediate's two's-complement bit
// pattern is added, which wraps exactly like a widened signed sum
// truncated to 64 bits.
func (a *ALU) AddImm(rd, rn uint8, imm int64) error {
	op1, err := a.regFile.Read(rn)
	if err != nil {
		return err
	}
	return a.regFile.Write(rd, op1+uint64(imm))
}

// SubImm performs Xd = Xn - imm, as an unsigned wrapping subtraction of
// the immediate's bit pattern.
func (a *ALU) SubImm(rd, rn uint8, imm int64) error {
	op1, err := a.regFile.Read(rn)
	if err != nil {
		return err
	}
	return a.regFile.Write(rd, op1-uint64(imm))
}
