// Package loader persists and restores complete simulator state, and
// loads program text files through the parse+validate path.
package loader

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/OptimisticPeach/cs251simulator/emu"
	"github.com/OptimisticPeach/cs251simulator/insts"
)

// snapshot is the serialized form of the whole machine: register file,
// sparse memory, and the program in structured (non-textual) form. It
// round-trips: decoding a just-encoded snapshot reproduces an equal
// state.
type snapshot struct {
	Registers registers         `json:"registers"`
	Memory    map[uint64]uint64 `json:"memory"`
	Program   []instruction     `json:"program"`
}

type registers struct {
	X  [31]uint64 `json:"x"`
	PC uint64     `json:"pc"`
}

// instruction is one program entry in canonical structured form. Ops are
// serialized as their mnemonic strings.
type instruction struct {
	Op   string `json:"op"`
	Rd   uint8  `json:"rd,omitempty"`
	Rn   uint8  `json:"rn,omitempty"`
	Rm   uint8  `json:"rm,omitempty"`
	Imm  int64  `json:"imm,omitempty"`
	Text string `json:"text,omitempty"`
}

// Encode writes the simulator's full state as JSON. Call it only between
// ticks; a mid-step capture would observe partial writes.
func Encode(w io.Writer, sim *emu.Simulator) error {
	snap := snapshot{
		Registers: registers{X: sim.Regs.X, PC: sim.Regs.PC},
		Memory:    make(map[uint64]uint64),
		Program:   make([]instruction, 0, len(sim.Program)),
	}

	for _, slot := range sim.Mem.Used() {
		value, _ := sim.Mem.Peek(slot * emu.WordBytes)
		snap.Memory[slot] = value
	}

	for _, inst := range sim.Program {
		snap.Program = append(snap.Program, instruction{
			Op:   inst.Op.String(),
			Rd:   inst.Rd,
			Rn:   inst.Rn,
			Rm:   inst.Rm,
			Imm:  inst.Imm,
			Text: inst.Text,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

// Decode reads a snapshot and builds a fresh simulator from it. The input
// is fully validated: every instruction passes the same per-opcode range
// checks the parser applies, and every register index must be in 0..=31.
// On failure nothing is returned, so any previously loaded simulator the
// caller holds stays untouched.
func Decode(r io.Reader) (*emu.Simulator, error) {
	var snap snapshot
	dec := json.NewDecoder(r)
	if err := dec.Decode(&snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}

	sim := emu.NewSimulator()
	sim.Regs.X = snap.Registers.X
	sim.Regs.PC = snap.Registers.PC

	for slot, value := range snap.Memory {
		if err := sim.Mem.Write(slot*emu.WordBytes, value); err != nil {
			return nil, fmt.Errorf("memory slot %d: %w", slot, err)
		}
	}

	program := make([]insts.Instruction, 0, len(snap.Program))
	for n, rec := range snap.Program {
		inst, err := decodeInstruction(rec)
		if err != nil {
			return nil, fmt.Errorf("program entry %d: %w", n, err)
		}
		program = append(program, inst)
	}
	sim.SetProgram(program)

	return sim, nil
}

// decodeInstruction validates one structured program entry. A snapshot is
// external state, so unlike parsed text it can carry register indices
// above 31; those surface as a RegisterError here rather than at tick
// time.
func decodeInstruction(rec instruction) (insts.Instruction, error) {
	op, ok := insts.OpFromString(rec.Op)
	if !ok {
		return insts.Instruction{}, fmt.Errorf("unknown op %q", rec.Op)
	}

	for _, reg := range []uint8{rec.Rd, rec.Rn, rec.Rm} {
		if reg > 31 {
			return insts.Instruction{}, &emu.RegisterError{Reg: reg}
		}
	}

	inst := insts.Instruction{
		Op:   op,
		Rd:   rec.Rd,
		Rn:   rec.Rn,
		Rm:   rec.Rm,
		Imm:  rec.Imm,
		Text: rec.Text,
	}
	if err := inst.Validate(); err != nil {
		return insts.Instruction{}, err
	}
	return inst, nil
}

// Load reads and validates a snapshot file.
func Load(path string) (*emu.Simulator, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Decode(f)
}

// Save writes the simulator's state to a snapshot file.
func Save(path string, sim *emu.Simulator) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := Encode(f, sim); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
