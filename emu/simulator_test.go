package emu_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/OptimisticPeach/cs251simulator/emu"
	"github.com/OptimisticPeach/cs251simulator/insts"
)

// program builds a validated program from source lines, failing the spec
// on any parse error.
func program(lines ...string) []insts.Instruction {
	GinkgoHelper()

	out := make([]insts.Instruction, 0, len(lines))
	for _, line := range lines {
		inst, err := insts.Parse(line)
		Expect(err).ToNot(HaveOccurred(), "parsing %q", line)
		out = append(out, inst)
	}
	return out
}

var _ = Describe("Simulator", func() {
	var sim *emu.Simulator

	BeforeEach(func() {
		sim = emu.NewSimulator()
	})

	Describe("Tick", func() {
		Context("arithmetic", func() {
			It("should execute add", func() {
				sim.SetProgram(program("add X0, X1, X2"))
				Expect(sim.Regs.Write(1, 10)).To(Succeed())
				Expect(sim.Regs.Write(2, 32)).To(Succeed())

				state, err := sim.Tick()

				Expect(err).ToNot(HaveOccurred())
				Expect(state).To(Equal(emu.KeepRunning))
				Expect(sim.Regs.Read(0)).To(Equal(uint64(42)))
				Expect(sim.Regs.PC).To(Equal(uint64(1)))
			})

			It("should execute sub", func() {
				sim.SetProgram(program("sub X0, X1, X2"))
				Expect(sim.Regs.Write(1, 10)).To(Succeed())
				Expect(sim.Regs.Write(2, 4)).To(Succeed())

				_, err := sim.Tick()

				Expect(err).ToNot(HaveOccurred())
				Expect(sim.Regs.Read(0)).To(Equal(uint64(6)))
			})

			It("should wrap silently on overflow", func() {
				sim.SetProgram(program("add X0, X1, X2"))
				Expect(sim.Regs.Write(1, math.MaxUint64)).To(Succeed())
				Expect(sim.Regs.Write(2, 1)).To(Succeed())

				_, err := sim.Tick()

				Expect(err).ToNot(HaveOccurred())
				Expect(sim.Regs.Read(0)).To(Equal(uint64(0)))
			})

			It("should wrap silently on underflow", func() {
				sim.SetProgram(program("subi X0, X1, #1"))

				_, err := sim.Tick()

				Expect(err).ToNot(HaveOccurred())
				Expect(sim.Regs.Read(0)).To(Equal(uint64(math.MaxUint64)))
			})

			It("should execute immediate arithmetic", func() {
				sim.SetProgram(program(
					"addi X0, XZR, #4095",
					"subi X1, X0, #95",
				))

				_, err := sim.Tick()
				Expect(err).ToNot(HaveOccurred())
				_, err = sim.Tick()
				Expect(err).ToNot(HaveOccurred())

				Expect(sim.Regs.Read(0)).To(Equal(uint64(4095)))
				Expect(sim.Regs.Read(1)).To(Equal(uint64(4000)))
			})

			It("should discard writes to the zero register", func() {
				sim.SetProgram(program("addi XZR, X1, #5"))
				Expect(sim.Regs.Write(1, 10)).To(Succeed())

				_, err := sim.Tick()

				Expect(err).ToNot(HaveOccurred())
				Expect(sim.Regs.Read(31)).To(Equal(uint64(0)))
			})
		})

		Context("memory", func() {
			It("should load a word", func() {
				sim.SetProgram(program("ldur X0, [X1, #8]"))
				Expect(sim.Regs.Write(1, 32)).To(Succeed())
				Expect(sim.Mem.Write(40, 99)).To(Succeed())

				_, err := sim.Tick()

				Expect(err).ToNot(HaveOccurred())
				Expect(sim.Regs.Read(0)).To(Equal(uint64(99)))
			})

			It("should store a word", func() {
				sim.SetProgram(program("stur X0, [X1, #-8]"))
				Expect(sim.Regs.Write(0, 7)).To(Succeed())
				Expect(sim.Regs.Write(1, 24)).To(Succeed())

				_, err := sim.Tick()

				Expect(err).ToNot(HaveOccurred())
				Expect(sim.Mem.Read(16)).To(Equal(uint64(7)))
			})

			It("should wrap negative effective addresses instead of trapping", func() {
				sim.SetProgram(program("stur X0, [X1, #-8]"))
				Expect(sim.Regs.Write(0, 5)).To(Succeed())
				// base 0 - 8 wraps to the top of the address space,
				// which is still 8-byte aligned.

				_, err := sim.Tick()

				Expect(err).ToNot(HaveOccurred())
				Expect(sim.Mem.Read(math.MaxUint64 - 7)).To(Equal(uint64(5)))
			})

			It("should fail with an alignment error and change nothing", func() {
				sim.SetProgram(program("ldur X0, [X1, #3]"))
				Expect(sim.Regs.Write(0, 123)).To(Succeed())
				Expect(sim.Regs.Write(1, 8)).To(Succeed())

				_, err := sim.Tick()

				var alignErr *emu.AlignmentError
				Expect(err).To(BeAssignableToTypeOf(alignErr))
				Expect(sim.Regs.Read(0)).To(Equal(uint64(123)), "no partial write")
				Expect(sim.Regs.PC).To(Equal(uint64(0)), "PC is not advanced")
			})

			It("should check store alignment before touching memory", func() {
				sim.SetProgram(program("stur X0, [X1, #1]"))
				Expect(sim.Regs.Write(0, 9)).To(Succeed())

				_, err := sim.Tick()

				var alignErr *emu.AlignmentError
				Expect(err).To(BeAssignableToTypeOf(alignErr))
				Expect(sim.Mem.Used()).To(BeEmpty())
			})
		})

		Context("branches", func() {
			It("should apply the branch delta in instruction slots", func() {
				sim.SetProgram(program(
					"addi X0, XZR, #0",
					"addi X0, XZR, #0",
					"addi X0, XZR, #0",
					"addi X0, XZR, #0",
					"addi X0, XZR, #0",
					"b    #-3",
				))
				sim.Regs.PC = 5

				_, err := sim.Tick()

				Expect(err).ToNot(HaveOccurred())
				Expect(sim.Regs.PC).To(Equal(uint64(2)))
			})

			It("should take cbz when the register is zero", func() {
				sim.SetProgram(program("cbz X0, #10"))

				_, err := sim.Tick()

				Expect(err).ToNot(HaveOccurred())
				Expect(sim.Regs.PC).To(Equal(uint64(10)))
			})

			It("should fall through cbz when the register is non-zero", func() {
				sim.SetProgram(program("cbz X0, #10"))
				Expect(sim.Regs.Write(0, 1)).To(Succeed())

				_, err := sim.Tick()

				Expect(err).ToNot(HaveOccurred())
				Expect(sim.Regs.PC).To(Equal(uint64(1)))
			})

			It("should take cbnz when the register is non-zero", func() {
				sim.SetProgram(program("cbnz X0, #4"))
				Expect(sim.Regs.Write(0, 2)).To(Succeed())

				_, err := sim.Tick()

				Expect(err).ToNot(HaveOccurred())
				Expect(sim.Regs.PC).To(Equal(uint64(4)))
			})

			It("should wrap the PC rather than trap on underflow", func() {
				sim.SetProgram(program("b #-1"))

				_, err := sim.Tick()

				Expect(err).ToNot(HaveOccurred())
				Expect(sim.Regs.PC).To(Equal(uint64(math.MaxUint64)))
			})
		})

		Context("halting", func() {
			It("should stop without mutation when the PC passes the program end", func() {
				sim.SetProgram(program("addi X0, XZR, #1"))
				sim.Regs.PC = 1

				state, err := sim.Tick()

				Expect(err).ToNot(HaveOccurred())
				Expect(state).To(Equal(emu.ShouldStop))
				Expect(sim.Regs.PC).To(Equal(uint64(1)))
				Expect(sim.Regs.Read(0)).To(Equal(uint64(0)))
			})

			It("should stop on a blank line", func() {
				sim.SetProgram(program("", "addi X0, XZR, #1"))

				state, err := sim.Tick()

				Expect(err).ToNot(HaveOccurred())
				Expect(state).To(Equal(emu.ShouldStop))
				Expect(sim.Regs.PC).To(Equal(uint64(0)))
			})

			It("should stop on a comment", func() {
				sim.SetProgram(program("// done"))

				state, err := sim.Tick()

				Expect(err).ToNot(HaveOccurred())
				Expect(state).To(Equal(emu.ShouldStop))
			})
		})
	})

	Describe("Run", func() {
		It("should execute a countdown loop to completion", func() {
			// X0 = 3; loop: X0 -= 1; while X0 != 0 jump back.
			sim.SetProgram(program(
				"addi X0, XZR, #3",
				"subi X0, X0, #1",
				"cbnz X0, #-1",
			))

			iters, err := sim.Run(100)

			Expect(err).ToNot(HaveOccurred())
			Expect(iters).To(Equal(7))
			Expect(sim.Regs.Read(0)).To(Equal(uint64(0)))
			Expect(sim.Regs.PC).To(Equal(uint64(3)))
		})

		It("should stop at the iteration cap", func() {
			sim.SetProgram(program("b #0"))

			iters, err := sim.Run(25)

			Expect(err).ToNot(HaveOccurred())
			Expect(iters).To(Equal(25))
		})

		It("should report the tick count reached when a tick fails", func() {
			sim.SetProgram(program(
				"addi X1, XZR, #4",
				"ldur X0, [X1, #1]",
			))

			iters, err := sim.Run(10)

			var alignErr *emu.AlignmentError
			Expect(err).To(BeAssignableToTypeOf(alignErr))
			Expect(iters).To(Equal(1))
			Expect(sim.Regs.PC).To(Equal(uint64(1)), "failing step left the PC alone")
		})
	})

	Describe("program editing", func() {
		It("should append through the parse+validate path", func() {
			Expect(sim.AppendLine("addi X0, XZR, #1")).To(Succeed())
			Expect(sim.AppendLine("addi X0, X0, #4096")).ToNot(Succeed())

			Expect(sim.Program).To(HaveLen(1))
		})

		It("should replace and insert validated lines", func() {
			Expect(sim.AppendLine("addi X0, XZR, #1")).To(Succeed())
			Expect(sim.ReplaceLine(0, "subi X0, X0, #1")).To(Succeed())
			Expect(sim.InsertLine(0, "// top")).To(Succeed())

			Expect(sim.Program).To(HaveLen(2))
			Expect(sim.Program[0].Op).To(Equal(insts.OpComment))
			Expect(sim.Program[1].Op).To(Equal(insts.OpSubI))
		})

		It("should reject edits at out-of-range indices", func() {
			Expect(sim.ReplaceLine(0, "b #0")).ToNot(Succeed())
			Expect(sim.RemoveLine(0)).ToNot(Succeed())
		})

		It("should remove lines", func() {
			Expect(sim.AppendLine("b #0")).To(Succeed())
			Expect(sim.RemoveLine(0)).To(Succeed())

			Expect(sim.Program).To(BeEmpty())
		})
	})
})
