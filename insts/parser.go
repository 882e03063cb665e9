package insts

import (
	"strconv"
	"strings"
)

// Parse converts one line of program text into an Instruction.
//
// The line is trimmed and matched case-insensitively. An empty line parses
// to the halt marker (OpNone); a line starting with // parses to a comment
// whose body is preserved verbatim. Anything else must match exactly one of
// the nine instruction forms:
//
//	add/sub  Xd, Xn, Xm
//	addi/subi Xd, Xn, #imm
//	ldur/stur Xt, [Xn, #off]
//	b    #imm
//	cbz/cbnz  Xt, #imm
//
// Register tokens are X0..X30 or XZR (index 31); immediates are signed
// decimal with a # prefix. A successful structural parse is range-checked
// with Validate before it is returned, so every Instruction produced here
// satisfies its opcode's immediate width.
//
// Failures are *SyntaxError, *InsufficientArgumentsError,
// *NumberFormatError, or *RangeError.
func Parse(line string) (Instruction, error) {
	trimmed := strings.TrimSpace(line)

	if trimmed == "" {
		return Instruction{Op: OpNone}, nil
	}

	// Comment bodies are kept verbatim, before any case folding.
	if body, ok := strings.CutPrefix(trimmed, "//"); ok {
		return Instruction{Op: OpComment, Text: body}, nil
	}

	folded := strings.ToLower(trimmed)

	mnemonic, rest := folded, ""
	if i := strings.IndexAny(folded, " \t"); i >= 0 {
		mnemonic, rest = folded[:i], folded[i+1:]
	}

	var (
		inst Instruction
		err  error
	)

	switch mnemonic {
	case "add", "sub":
		inst, err = parseRegRegReg(mnemonic, rest)
	case "addi", "subi":
		inst, err = parseRegRegImm(mnemonic, rest)
	case "ldur", "stur":
		inst, err = parseRegOffset(mnemonic, rest)
	case "b":
		inst, err = parseImmOnly(rest)
	case "cbz", "cbnz":
		inst, err = parseRegImm(mnemonic, rest)
	default:
		return Instruction{}, &SyntaxError{Line: trimmed}
	}
	if err != nil {
		return Instruction{}, err
	}

	if err := inst.Validate(); err != nil {
		return Instruction{}, err
	}
	return inst, nil
}

// splitOperands splits a comma-separated operand list, trimming each piece.
// Empty pieces are dropped so that a trailing comma reads as a missing
// operand rather than an empty token.
func splitOperands(rest string) []string {
	var out []string
	for _, part := range strings.Split(rest, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// operands splits the operand list and enforces the exact arity of the
// instruction form.
func operands(mnemonic, rest string, want int) ([]string, error) {
	args := splitOperands(rest)
	if len(args) < want {
		return nil, &InsufficientArgumentsError{
			Mnemonic: mnemonic,
			Want:     want,
			Got:      len(args),
		}
	}
	if len(args) > want {
		return nil, &SyntaxError{Line: strings.TrimSpace(mnemonic + " " + rest)}
	}
	return args, nil
}

// parseReg parses a case-folded register token: x0..x30 or xzr.
func parseReg(tok string) (uint8, error) {
	if tok == "xzr" {
		return ZeroReg, nil
	}

	digits, ok := strings.CutPrefix(tok, "x")
	if !ok || digits == "" {
		return 0, &SyntaxError{Line: tok}
	}

	n, err := strconv.ParseUint(digits, 10, 8)
	if err != nil {
		return 0, &NumberFormatError{Token: tok}
	}
	if n > 30 {
		// X31 and beyond are not tokens of the grammar; the zero
		// register is only reachable by its mnemonic.
		return 0, &SyntaxError{Line: tok}
	}
	return uint8(n), nil
}

// parseImm parses a #-prefixed signed decimal immediate.
func parseImm(tok string) (int64, error) {
	digits, ok := strings.CutPrefix(tok, "#")
	if !ok {
		return 0, &SyntaxError{Line: tok}
	}

	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, &NumberFormatError{Token: tok}
	}
	return n, nil
}

func parseRegRegReg(mnemonic, rest string) (Instruction, error) {
	args, err := operands(mnemonic, rest, 3)
	if err != nil {
		return Instruction{}, err
	}

	rd, err := parseReg(args[0])
	if err != nil {
		return Instruction{}, err
	}
	rn, err := parseReg(args[1])
	if err != nil {
		return Instruction{}, err
	}
	rm, err := parseReg(args[2])
	if err != nil {
		return Instruction{}, err
	}

	op := OpAdd
	if mnemonic == "sub" {
		op = OpSub
	}
	return Instruction{Op: op, Rd: rd, Rn: rn, Rm: rm}, nil
}

func parseRegRegImm(mnemonic, rest string) (Instruction, error) {
	args, err := operands(mnemonic, rest, 3)
	if err != nil {
		return Instruction{}, err
	}

	rd, err := parseReg(args[0])
	if err != nil {
		return Instruction{}, err
	}
	rn, err := parseReg(args[1])
	if err != nil {
		return Instruction{}, err
	}
	imm, err := parseImm(args[2])
	if err != nil {
		return Instruction{}, err
	}

	op := OpAddI
	if mnemonic == "subi" {
		op = OpSubI
	}
	return Instruction{Op: op, Rd: rd, Rn: rn, Imm: imm}, nil
}

func parseRegOffset(mnemonic, rest string) (Instruction, error) {
	args, err := operands(mnemonic, rest, 3)
	if err != nil {
		return Instruction{}, err
	}

	// The base register and offset arrive wrapped in brackets:
	// "xt", "[xn", "#off]".
	base, openOK := strings.CutPrefix(args[1], "[")
	offTok, closeOK := strings.CutSuffix(args[2], "]")
	if !openOK || !closeOK {
		return Instruction{}, &SyntaxError{Line: strings.TrimSpace(mnemonic + " " + rest)}
	}

	rt, err := parseReg(args[0])
	if err != nil {
		return Instruction{}, err
	}
	rn, err := parseReg(strings.TrimSpace(base))
	if err != nil {
		return Instruction{}, err
	}
	off, err := parseImm(strings.TrimSpace(offTok))
	if err != nil {
		return Instruction{}, err
	}

	op := OpLoad
	if mnemonic == "stur" {
		op = OpStore
	}
	return Instruction{Op: op, Rd: rt, Rn: rn, Imm: off}, nil
}

func parseImmOnly(rest string) (Instruction, error) {
	args, err := operands("b", rest, 1)
	if err != nil {
		return Instruction{}, err
	}

	imm, err := parseImm(args[0])
	if err != nil {
		return Instruction{}, err
	}
	return Instruction{Op: OpBranch, Imm: imm}, nil
}

func parseRegImm(mnemonic, rest string) (Instruction, error) {
	args, err := operands(mnemonic, rest, 2)
	if err != nil {
		return Instruction{}, err
	}

	rt, err := parseReg(args[0])
	if err != nil {
		return Instruction{}, err
	}
	imm, err := parseImm(args[1])
	if err != nil {
		return Instruction{}, err
	}

	op := OpBranchZero
	if mnemonic == "cbnz" {
		op = OpBranchNotZero
	}
	return Instruction{Op: op, Rd: rt, Imm: imm}, nil
}
