// Package emu provides the machine model for the LEGv8-subset stepping
// simulator: the register file, the sparse word-addressed memory, the
// execution units, and the Simulator that ties them to a program list.
package emu

import "fmt"

// AlignmentError reports a memory access whose byte address is not a
// multiple of the word size. It is the only runtime failure reachable
// from a parsed program.
type AlignmentError struct {
	Addr uint64
}

func (e *AlignmentError) Error() string {
	return fmt.Sprintf("byte address %d is not a multiple of %d", e.Addr, WordBytes)
}

// RegisterError reports a register index outside 0..=31. The parser never
// produces one, so it is only reachable through a corrupted or hand-edited
// snapshot.
type RegisterError struct {
	Reg uint8
}

func (e *RegisterError) Error() string {
	return fmt.Sprintf("register %d does not exist", e.Reg)
}
