package emu_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/OptimisticPeach/cs251simulator/emu"
)

var _ = Describe("Memory", func() {
	var memory *emu.Memory

	BeforeEach(func() {
		memory = emu.NewMemory()
	})

	It("should round-trip a non-zero word", func() {
		Expect(memory.Write(16, 99)).To(Succeed())

		Expect(memory.Read(16)).To(Equal(uint64(99)))
	})

	It("should read never-written addresses as 0", func() {
		Expect(memory.Read(8 * 1024)).To(Equal(uint64(0)))
	})

	It("should keep only non-zero slots", func() {
		Expect(memory.Write(16, 99)).To(Succeed())
		Expect(memory.Used()).To(ConsistOf(uint64(2)))

		Expect(memory.Write(16, 0)).To(Succeed())
		Expect(memory.Used()).To(BeEmpty())
	})

	It("should report occupied slot indices, not byte addresses", func() {
		Expect(memory.Write(0, 1)).To(Succeed())
		Expect(memory.Write(40, 2)).To(Succeed())

		Expect(memory.Used()).To(ConsistOf(uint64(0), uint64(5)))
	})

	It("should reject misaligned addresses for both operations", func() {
		var alignErr *emu.AlignmentError

		_, err := memory.Read(5)
		Expect(err).To(BeAssignableToTypeOf(alignErr))

		err = memory.Write(5, 1)
		Expect(err).To(BeAssignableToTypeOf(alignErr))
	})

	Describe("Peek", func() {
		It("should report aligned words without failing", func() {
			Expect(memory.Write(24, 7)).To(Succeed())

			value, ok := memory.Peek(24)
			Expect(ok).To(BeTrue())
			Expect(value).To(Equal(uint64(7)))
		})

		It("should report misalignment through ok", func() {
			_, ok := memory.Peek(25)
			Expect(ok).To(BeFalse())
		})
	})

	Describe("ContextRanges", func() {
		It("should return nothing for an empty memory with no extras", func() {
			Expect(memory.ContextRanges(2, nil)).To(BeEmpty())
		})

		It("should window a single slot", func() {
			Expect(memory.Write(80, 1)).To(Succeed()) // slot 10

			Expect(memory.ContextRanges(2, nil)).To(Equal([]emu.Range{
				{Start: 8, End: 13},
			}))
		})

		It("should merge touching windows and keep distant ones apart", func() {
			Expect(memory.Write(0, 1)).To(Succeed())   // slot 0
			Expect(memory.Write(24, 1)).To(Succeed())  // slot 3
			Expect(memory.Write(800, 1)).To(Succeed()) // slot 100

			Expect(memory.ContextRanges(1, nil)).To(Equal([]emu.Range{
				{Start: 0, End: 5},
				{Start: 99, End: 102},
			}))
		})

		It("should cover points of interest that are not occupied", func() {
			Expect(memory.Write(8, 1)).To(Succeed()) // slot 1

			Expect(memory.ContextRanges(1, []uint64{50})).To(Equal([]emu.Range{
				{Start: 0, End: 3},
				{Start: 49, End: 52},
			}))
		})

		It("should saturate at the ends of the slot space", func() {
			Expect(memory.Write(0, 1)).To(Succeed())

			ranges := memory.ContextRanges(3, []uint64{math.MaxUint64})
			Expect(ranges[0].Start).To(Equal(uint64(0)))
			Expect(ranges[len(ranges)-1].End).To(Equal(uint64(math.MaxUint64)))
		})
	})
})
