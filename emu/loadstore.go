package emu

// LoadStoreUnit implements the word load/store opcodes against the
// register file and memory.
type LoadStoreUnit struct {
	regFile *RegFile
	memory  *Memory
}

// NewLoadStoreUnit creates a new load/store unit connected to the given
// register file and memory.
func NewLoadStoreUnit(regFile *RegFile, memory *Memory) *LoadStoreUnit {
	return &LoadStoreUnit{regFile: regFile, memory: memory}
}

// effectiveAddr computes base + offset with truncating wraparound.
// Adding the offset's unsigned bit pattern equals the 128-bit signed sum
// masked to 64 bits.
func effectiveAddr(base uint64, offset int64) uint64 {
	return base + uint64(offset)
}

// Load performs Xt = M[Xn + offset]. A misaligned effective address fails
// with an AlignmentError before any register is written.
func (lsu *LoadStoreUnit) Load(rt, rn uint8, offset int64) error {
	base, err := lsu.regFile.Read(rn)
	if err != nil {
		return err
	}

	value, err := lsu.memory.Read(effectiveAddr(base, offset))
	if err != nil {
		return err
	}
	return lsu.regFile.Write(rt, value)
}

// Store performs M[Xn + offset] = Xt. A misaligned effective address
// fails with an AlignmentError before memory is touched.
func (lsu *LoadStoreUnit) Store(rt, rn uint8, offset int64) error {
	base, err := lsu.regFile.Read(rn)
	if err != nil {
		return err
	}

	value, err := lsu.regFile.Read(rt)
	if err != nil {
		return err
	}
	return lsu.memory.Write(effectiveAddr(base, offset), value)
}
