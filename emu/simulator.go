package emu

import (
	"fmt"

	"github.com/OptimisticPeach/cs251simulator/insts"
)

// RunState reports whether stepping should continue after a Tick.
type RunState uint8

// Tick outcomes.
const (
	// KeepRunning means the instruction executed and the PC advanced.
	KeepRunning RunState = iota

	// ShouldStop means the PC ran off the end of the program or reached
	// a halt marker; no state was mutated.
	ShouldStop
)

// Simulator composes the register file, memory, and program list, and
// advances them one fetch-decode-execute step at a time.
//
// Regs, Mem, and Program are exported for the interactive layer, which
// may mutate them directly between Tick calls but never concurrently with
// one. The Simulator itself is single-threaded and every Tick is a
// bounded, synchronous computation. Program entries must come through the
// parse+validate path (Parse, the *Line editing methods, or a validated
// snapshot); executing a hand-built out-of-range instruction is a
// contract violation.
type Simulator struct {
	Regs    *RegFile
	Mem     *Memory
	Program []insts.Instruction

	alu    *ALU
	lsu    *LoadStoreUnit
	branch *BranchUnit
}

// NewSimulator creates a simulator with zeroed registers, empty memory,
// and an empty program.
func NewSimulator() *Simulator {
	regFile := NewRegFile()
	memory := NewMemory()

	return &Simulator{
		Regs:   regFile,
		Mem:    memory,
		alu:    NewALU(regFile),
		lsu:    NewLoadStoreUnit(regFile, memory),
		branch: NewBranchUnit(regFile),
	}
}

// Tick performs one fetch-decode-execute step.
//
// A PC at or past the end of the program, or a halt marker (blank line or
// comment) at the PC, stops execution without mutating anything. A failed
// step (alignment fault, or a register fault from corrupted external
// state) leaves all state as it was before the step: no partial writes
// are committed.
func (s *Simulator) Tick() (RunState, error) {
	pc := s.Regs.PC
	if pc >= uint64(len(s.Program)) {
		return ShouldStop, nil
	}

	inst := s.Program[pc]

	delta := int64(1)

	switch inst.Op {
	case insts.OpAdd:
		if err := s.alu.Add(inst.Rd, inst.Rn, inst.Rm); err != nil {
			return ShouldStop, err
		}
	case insts.OpSub:
		if err := s.alu.Sub(inst.Rd, inst.Rn, inst.Rm); err != nil {
			return ShouldStop, err
		}
	case insts.OpAddI:
		if err := s.alu.AddImm(inst.Rd, inst.Rn, inst.Imm); err != nil {
			return ShouldStop, err
		}
	case insts.OpSubI:
		if err := s.alu.SubImm(inst.Rd, inst.Rn, inst.Imm); err != nil {
			return ShouldStop, err
		}
	case insts.OpLoad:
		if err := s.lsu.Load(inst.Rd, inst.Rn, inst.Imm); err != nil {
			return ShouldStop, err
		}
	case insts.OpStore:
		if err := s.lsu.Store(inst.Rd, inst.Rn, inst.Imm); err != nil {
			return ShouldStop, err
		}
	case insts.OpBranch:
		delta = s.branch.B(inst.Imm)
	case insts.OpBranchZero:
		d, err := s.branch.CBZ(inst.Rd, inst.Imm)
		if err != nil {
			return ShouldStop, err
		}
		delta = d
	case insts.OpBranchNotZero:
		d, err := s.branch.CBNZ(inst.Rd, inst.Imm)
		if err != nil {
			return ShouldStop, err
		}
		delta = d
	case insts.OpNone, insts.OpComment:
		return ShouldStop, nil
	}

	// Adding the delta's bit pattern wraps the same way a 128-bit
	// signed sum masked to 64 bits would; underflow and overflow wrap
	// rather than trap.
	s.Regs.PC = pc + uint64(delta)

	return KeepRunning, nil
}

// Run calls Tick until it stops, fails, or maxIters ticks complete. It
// returns the number of ticks that executed successfully.
func (s *Simulator) Run(maxIters int) (int, error) {
	for i := 0; i < maxIters; i++ {
		state, err := s.Tick()
		if err != nil {
			return i, err
		}
		if state == ShouldStop {
			return i, nil
		}
	}
	return maxIters, nil
}

// AppendLine parses, validates, and appends one line of program text.
func (s *Simulator) AppendLine(line string) error {
	inst, err := insts.Parse(line)
	if err != nil {
		return err
	}
	s.Program = append(s.Program, inst)
	return nil
}

// InsertLine parses, validates, and inserts one line of program text
// before index idx.
func (s *Simulator) InsertLine(idx int, line string) error {
	if idx < 0 || idx > len(s.Program) {
		return fmt.Errorf("no program line %d", idx)
	}

	inst, err := insts.Parse(line)
	if err != nil {
		return err
	}

	s.Program = append(s.Program, insts.Instruction{})
	copy(s.Program[idx+1:], s.Program[idx:])
	s.Program[idx] = inst
	return nil
}

// ReplaceLine parses, validates, and replaces the program line at idx.
func (s *Simulator) ReplaceLine(idx int, line string) error {
	if idx < 0 || idx >= len(s.Program) {
		return fmt.Errorf("no program line %d", idx)
	}

	inst, err := insts.Parse(line)
	if err != nil {
		return err
	}
	s.Program[idx] = inst
	return nil
}

// RemoveLine removes the program line at idx.
func (s *Simulator) RemoveLine(idx int) error {
	if idx < 0 || idx >= len(s.Program) {
		return fmt.Errorf("no program line %d", idx)
	}
	s.Program = append(s.Program[:idx], s.Program[idx+1:]...)
	return nil
}

// SetProgram replaces the whole program with instructions that already
// came through the parse+validate path (for example from the loader).
func (s *Simulator) SetProgram(program []insts.Instruction) {
	s.Program = program
}
