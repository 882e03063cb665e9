package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/retroenv/retrogolib/log"
	"golang.org/x/term"

	"github.com/OptimisticPeach/cs251simulator/emu"
	"github.com/OptimisticPeach/cs251simulator/insts"
	"github.com/OptimisticPeach/cs251simulator/loader"
)

// memContext is the radius, in word slots, shown around occupied memory
// and the current instruction's target slot.
const memContext = 2

// runInteractive drives a line-oriented session. Plain input lines are
// parsed, validated, and appended to the program; dot-commands inspect
// and step the machine. All display goes through the instruction
// reflection surface, and all state edits happen between ticks.
func runInteractive(ctx context.Context, logger *log.Logger, sim *emu.Simulator) error {
	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	if interactive {
		fmt.Println("cs251sim - type instructions to append them, .help for commands")
	}

	scanner := bufio.NewScanner(os.Stdin)
	for ctx.Err() == nil {
		if interactive {
			fmt.Print("> ")
		}
		if !scanner.Scan() {
			break
		}

		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if cmd, ok := strings.CutPrefix(trimmed, "."); ok {
			if quit := command(logger, sim, cmd); quit {
				return nil
			}
			continue
		}

		if err := sim.AppendLine(line); err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}
		if interactive {
			fmt.Printf("%3d: %v\n", len(sim.Program)-1, sim.Program[len(sim.Program)-1])
		}
	}

	return scanner.Err()
}

// command executes one dot-command and reports whether the session
// should end.
func command(logger *log.Logger, sim *emu.Simulator, cmd string) bool {
	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		return false
	}

	name, args := fields[0], fields[1:]

	switch name {
	case "quit", "exit":
		return true
	case "help":
		printHelp()
	case "list":
		printProgram(sim)
	case "regs":
		printRegisters(sim)
	case "mem":
		printMemory(sim)
	case "explain":
		printExplain(sim, args)
	case "step":
		step(sim, 1)
	case "run":
		n := 1000
		if len(args) == 1 {
			if v, err := strconv.Atoi(args[0]); err == nil {
				n = v
			}
		}
		step(sim, n)
	case "reg":
		setRegister(sim, args)
	case "poke":
		setMemory(sim, args)
	case "pc":
		setPC(sim, args)
	case "edit", "insert":
		editProgram(sim, name, args)
	case "delete":
		deleteLine(sim, args)
	case "save":
		if len(args) != 1 {
			fmt.Println("usage: .save <path>")
			return false
		}
		if err := loader.Save(args[0], sim); err != nil {
			logger.Error("Save failed", log.Err(err))
		}
	default:
		fmt.Printf("unknown command %q; try .help\n", name)
	}
	return false
}

func printHelp() {
	fmt.Print(`Type an instruction (e.g. "addi x0, xzr, #5") to append it.
Commands:
  .list               show the program with the PC marker
  .regs               show registers, marking the current instruction's operands
  .mem                show occupied memory with context
  .explain [i]        explain instruction i (default: at PC)
  .step               execute one tick
  .run [n]            tick until halt, error, or n ticks (default 1000)
  .reg <x> <value>    set register x
  .poke <addr> <val>  set the memory word at a byte address
  .pc <slot>          set the program counter
  .edit <i> <line>    replace program line i
  .insert <i> <line>  insert before program line i
  .delete <i>         remove program line i
  .save <path>        write a snapshot
  .quit               leave
`)
}

// tokensText flattens reflection tokens into plain text. A renderer with
// styling would map token kinds instead.
func tokensText(toks []insts.Token) string {
	var b strings.Builder
	for _, t := range toks {
		b.WriteString(t.Text)
	}
	return b.String()
}

func printProgram(sim *emu.Simulator) {
	for idx, inst := range sim.Program {
		marker := "  "
		if uint64(idx) == sim.Regs.PC {
			marker = "->"
		}

		annotation := ""
		if target, ok := inst.BranchTarget(uint64(idx)); ok {
			annotation = fmt.Sprintf("   ; -> %d", target)
		}

		fmt.Printf("%s %3d: %s%s\n", marker, idx, tokensText(inst.Tokens()), annotation)
	}
	if sim.Regs.PC >= uint64(len(sim.Program)) {
		fmt.Printf("-> %3d: (end of program)\n", sim.Regs.PC)
	}
}

// printRegisters dumps the register file, marking how the instruction at
// the PC uses each register.
func printRegisters(sim *emu.Simulator) {
	var current *insts.Instruction
	if sim.Regs.PC < uint64(len(sim.Program)) {
		current = &sim.Program[sim.Regs.PC]
	}

	for reg := uint8(0); reg <= 31; reg++ {
		value, _ := sim.Regs.Read(reg)

		mark := ""
		if current != nil {
			if role, ok := current.RegRole(reg); ok {
				mark = "  <- " + role.String()
			}
		}
		fmt.Printf("%-4s %20d%s\n", insts.RegName(reg), value, mark)
	}
	fmt.Printf("PC   %20d (byte address %d)\n", sim.Regs.PC, sim.Regs.PC*4)
}

// printMemory shows every occupied word plus context, pulling the slot
// the current instruction touches into view even when it is empty.
func printMemory(sim *emu.Simulator) {
	var extras []uint64
	if sim.Regs.PC < uint64(len(sim.Program)) {
		if slot, _, ok := sim.Program[sim.Regs.PC].MemSlot(sim.Regs); ok {
			extras = append(extras, slot)
		}
	}

	ranges := sim.Mem.ContextRanges(memContext, extras)
	if len(ranges) == 0 {
		fmt.Println("memory is empty")
		return
	}

	for n, r := range ranges {
		if n > 0 {
			fmt.Println("     ...")
		}
		for slot := r.Start; slot < r.End; slot++ {
			value, _ := sim.Mem.Peek(slot * emu.WordBytes)
			fmt.Printf("%6d: %20d\n", slot*emu.WordBytes, value)
		}
	}
}

func printExplain(sim *emu.Simulator, args []string) {
	idx := sim.Regs.PC
	if len(args) == 1 {
		v, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			fmt.Println("usage: .explain [index]")
			return
		}
		idx = v
	}

	if idx >= uint64(len(sim.Program)) {
		fmt.Printf("no instruction at %d\n", idx)
		return
	}

	inst := sim.Program[idx]
	fmt.Printf("%s\n", tokensText(inst.Explain()))
	fmt.Printf("%s\n", tokensText(inst.ExplainWith(sim.Regs, sim.Mem, idx)))
}

func step(sim *emu.Simulator, n int) {
	iters, err := sim.Run(n)
	switch {
	case err != nil:
		fmt.Printf("stopped after %d ticks: %v\n", iters, err)
	case iters == n:
		fmt.Printf("paused after %d ticks\n", iters)
	default:
		fmt.Printf("halted after %d ticks\n", iters)
	}
	fmt.Printf("PC = %d\n", sim.Regs.PC)
}

func setRegister(sim *emu.Simulator, args []string) {
	if len(args) != 2 {
		fmt.Println("usage: .reg <x0..x30|xzr> <value>")
		return
	}

	reg, err := regIndex(args[0])
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	value, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		fmt.Printf("error: %q is not a value\n", args[1])
		return
	}

	if err := sim.Regs.Write(reg, value); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}

// regIndex reuses the instruction grammar's register tokens for commands.
func regIndex(tok string) (uint8, error) {
	inst, err := insts.Parse(fmt.Sprintf("cbz %s, #0", tok))
	if err != nil {
		return 0, fmt.Errorf("%q is not a register", tok)
	}
	return inst.Rd, nil
}

func setMemory(sim *emu.Simulator, args []string) {
	if len(args) != 2 {
		fmt.Println("usage: .poke <byte address> <value>")
		return
	}

	addr, err1 := strconv.ParseUint(args[0], 10, 64)
	value, err2 := strconv.ParseUint(args[1], 10, 64)
	if err1 != nil || err2 != nil {
		fmt.Println("usage: .poke <byte address> <value>")
		return
	}

	if err := sim.Mem.Write(addr, value); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}

func setPC(sim *emu.Simulator, args []string) {
	if len(args) != 1 {
		fmt.Println("usage: .pc <slot>")
		return
	}

	v, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		fmt.Printf("error: %q is not a slot index\n", args[0])
		return
	}
	sim.Regs.PC = v
}

func editProgram(sim *emu.Simulator, name string, args []string) {
	if len(args) < 2 {
		fmt.Printf("usage: .%s <index> <instruction>\n", name)
		return
	}

	idx, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Printf("error: %q is not an index\n", args[0])
		return
	}
	line := strings.Join(args[1:], " ")

	if name == "insert" {
		err = sim.InsertLine(idx, line)
	} else {
		err = sim.ReplaceLine(idx, line)
	}
	if err != nil {
		fmt.Printf("error: %v\n", err)
	}
}

func deleteLine(sim *emu.Simulator, args []string) {
	if len(args) != 1 {
		fmt.Println("usage: .delete <index>")
		return
	}

	idx, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Printf("error: %q is not an index\n", args[0])
		return
	}
	if err := sim.RemoveLine(idx); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}
