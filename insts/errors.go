package insts

import "fmt"

// SyntaxError reports a line that matches no instruction form of the
// grammar. The offending text is preserved for correction.
type SyntaxError struct {
	Line string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%q matches no instruction form", e.Line)
}

// InsufficientArgumentsError reports a recognized mnemonic with too few
// operands.
type InsufficientArgumentsError struct {
	Mnemonic string
	Want     int
	Got      int
}

func (e *InsufficientArgumentsError) Error() string {
	return fmt.Sprintf("%s wants %d operands, got %d", e.Mnemonic, e.Want, e.Got)
}

// NumberFormatError reports a malformed numeric token.
type NumberFormatError struct {
	Token string
}

func (e *NumberFormatError) Error() string {
	return fmt.Sprintf("%q is not a number", e.Token)
}

// RangeError reports an immediate outside the bit-width its opcode can
// encode.
type RangeError struct {
	Op    Op
	Value int64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%v: immediate #%d does not fit the encoding", e.Op, e.Value)
}
