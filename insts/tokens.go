package insts

import "fmt"

// TokenKind classifies a span of rendered instruction text. Renderers map
// kinds to their own styling; the core never carries colors.
type TokenKind uint8

// Token kinds.
const (
	TokenPunct TokenKind = iota
	TokenMnemonic
	TokenRegister
	TokenImmediate
	TokenMemory
	TokenPC
	TokenComment
	TokenStop
	TokenInvalid
)

// Token is one typed span of rendered text. Concatenating the Text of an
// instruction's Tokens reproduces its canonical String form.
type Token struct {
	Kind TokenKind
	Text string
}

func punct(s string) Token     { return Token{Kind: TokenPunct, Text: s} }
func mnemonicTok(o Op) Token   { return Token{Kind: TokenMnemonic, Text: fmt.Sprintf("%-4v ", o)} }
func regTok(reg uint8) Token   { return Token{Kind: TokenRegister, Text: RegName(reg)} }
func regVal(v uint64) Token    { return Token{Kind: TokenRegister, Text: fmt.Sprintf("%d", v)} }
func immTok(v int64) Token     { return Token{Kind: TokenImmediate, Text: fmt.Sprintf("#%d", v)} }
func litTok(v int64) Token     { return Token{Kind: TokenImmediate, Text: fmt.Sprintf("%d", v)} }
func resultTok(v uint64) Token { return Token{Kind: TokenImmediate, Text: fmt.Sprintf("%d", v)} }

// Tokens splits the canonical text rendering into typed spans.
func (i Instruction) Tokens() []Token {
	switch i.Op {
	case OpAdd, OpSub:
		return []Token{
			mnemonicTok(i.Op),
			regTok(i.Rd), punct(", "),
			regTok(i.Rn), punct(", "),
			regTok(i.Rm),
		}
	case OpAddI, OpSubI:
		return []Token{
			mnemonicTok(i.Op),
			regTok(i.Rd), punct(", "),
			regTok(i.Rn), punct(", "),
			immTok(i.Imm),
		}
	case OpLoad, OpStore:
		return []Token{
			mnemonicTok(i.Op),
			regTok(i.Rd), punct(", ["),
			regTok(i.Rn), punct(", "),
			immTok(i.Imm), punct("]"),
		}
	case OpBranch:
		return []Token{mnemonicTok(i.Op), immTok(i.Imm)}
	case OpBranchZero, OpBranchNotZero:
		return []Token{
			mnemonicTok(i.Op),
			regTok(i.Rd), punct(", "),
			immTok(i.Imm),
		}
	case OpComment:
		return []Token{{Kind: TokenComment, Text: "//" + i.Text}}
	default:
		return nil
	}
}

// Explain describes the instruction's effect symbolically, in terms of its
// operands only. PC arithmetic is shown scaled by 4 (the byte-address
// presentation); stored state never holds byte addresses.
func (i Instruction) Explain() []Token {
	switch i.Op {
	case OpAdd, OpSub:
		return []Token{
			regTok(i.Rd), punct(" = "),
			regTok(i.Rn), punct(arithSign(i.Op)),
			regTok(i.Rm),
		}
	case OpAddI, OpSubI:
		return []Token{
			regTok(i.Rd), punct(" = "),
			regTok(i.Rn), punct(arithSign(i.Op)),
			litTok(i.Imm),
		}
	case OpLoad:
		return []Token{
			regTok(i.Rd), punct(" = "),
			memTok(), punct("["),
			regTok(i.Rn), punct(" + "),
			litTok(i.Imm), punct("]"),
		}
	case OpStore:
		return []Token{
			memTok(), punct("["),
			regTok(i.Rn), punct(" + "),
			litTok(i.Imm), punct("]"),
			punct(" = "), regTok(i.Rd),
		}
	case OpBranch:
		return []Token{
			pcTok(), punct(" = "), pcTok(), punct(" + "),
			litTok(i.Imm), punct(" * 4"),
		}
	case OpBranchZero, OpBranchNotZero:
		return []Token{
			punct("if "), regTok(i.Rd), punct(condSign(i.Op)),
			pcTok(), punct(" = "), pcTok(), punct(" + "),
			litTok(i.Imm), punct(" * 4"),
		}
	default:
		return []Token{{Kind: TokenStop, Text: "Stop Program"}}
	}
}

// ExplainWith describes the instruction's effect with concrete values
// substituted from the given register and memory state. It is a pure
// query: nothing is mutated and nothing fails. A misaligned effective
// address is rendered as a TokenInvalid span, exactly where execution
// would raise an alignment error. pc is the current instruction-slot
// index; it appears scaled by 4 in the description.
//
// Arithmetic results are shown with the same 64-bit wraparound execution
// applies, so the description and the machine always agree. In
// particular, SubI shows the unsigned wrapping subtraction of its
// immediate, which coincides with a signed reading because SubI
// immediates are validated non-negative.
func (i Instruction) ExplainWith(regs RegReader, mem MemPeeker, pc uint64) []Token {
	switch i.Op {
	case OpAdd, OpSub:
		vn, _ := regs.Read(i.Rn)
		vm, _ := regs.Read(i.Rm)
		result := vn + vm
		if i.Op == OpSub {
			result = vn - vm
		}
		return []Token{
			regTok(i.Rd), punct(" = "),
			regVal(vn), punct(arithSign(i.Op)),
			regVal(vm), punct(" = "),
			resultTok(result),
		}
	case OpAddI, OpSubI:
		vn, _ := regs.Read(i.Rn)
		result := vn + uint64(i.Imm)
		if i.Op == OpSubI {
			result = vn - uint64(i.Imm)
		}
		return []Token{
			regTok(i.Rd), punct(" = "),
			regVal(vn), punct(arithSign(i.Op)),
			litTok(i.Imm), punct(" = "),
			resultTok(result),
		}
	case OpLoad:
		vn, _ := regs.Read(i.Rn)
		addr := effectiveAddr(vn, i.Imm)
		toks := []Token{
			regTok(i.Rd), punct(" = "),
			memTok(), punct("["),
			regVal(vn), punct(" + "),
			litTok(i.Imm), punct(" = "),
			addrTok(addr), punct("]"), punct(" = "),
		}
		if v, ok := mem.Peek(addr); ok {
			toks = append(toks, resultTok(v))
		} else {
			toks = append(toks, Token{Kind: TokenInvalid, Text: "ERROR"})
		}
		return toks
	case OpStore:
		vn, _ := regs.Read(i.Rn)
		vt, _ := regs.Read(i.Rd)
		addr := effectiveAddr(vn, i.Imm)
		return []Token{
			memTok(), punct("["),
			regVal(vn), punct(" + "),
			litTok(i.Imm), punct(" = "),
			addrTok(addr), punct("]"),
			punct(" = "), regVal(vt),
		}
	case OpBranch:
		return append([]Token{pcTok(), punct(" = ")}, branchMath(pc, i.Imm)...)
	case OpBranchZero, OpBranchNotZero:
		vt, _ := regs.Read(i.Rd)
		toks := []Token{
			punct("if "), regVal(vt), punct(condSign(i.Op)),
			pcTok(), punct(" = "),
		}
		return append(toks, branchMath(pc, i.Imm)...)
	default:
		return []Token{{Kind: TokenStop, Text: "Stop Program"}}
	}
}

func memTok() Token { return Token{Kind: TokenMemory, Text: "M"} }
func pcTok() Token  { return Token{Kind: TokenPC, Text: "PC"} }

// addrTok renders an effective address, marking it invalid when it is not
// word-aligned.
func addrTok(addr uint64) Token {
	if addr%wordBytes != 0 {
		return Token{Kind: TokenInvalid, Text: fmt.Sprintf("%d", addr)}
	}
	return Token{Kind: TokenImmediate, Text: fmt.Sprintf("%d", addr)}
}

// branchMath renders "PC*4 + imm * 4 = target*4".
func branchMath(pc uint64, imm int64) []Token {
	target := pc + uint64(imm)
	return []Token{
		{Kind: TokenPC, Text: fmt.Sprintf("%d", pc*4)},
		punct(" + "),
		litTok(imm),
		punct(" * 4 = "),
		resultTok(target * 4),
	}
}

func arithSign(o Op) string {
	if o == OpSub || o == OpSubI {
		return " - "
	}
	return " + "
}

func condSign(o Op) string {
	if o == OpBranchNotZero {
		return " != 0: "
	}
	return " == 0: "
}
