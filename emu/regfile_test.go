package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/OptimisticPeach/cs251simulator/emu"
)

var _ = Describe("RegFile", func() {
	var regFile *emu.RegFile

	BeforeEach(func() {
		regFile = emu.NewRegFile()
	})

	It("should store and return general-purpose registers", func() {
		Expect(regFile.Write(0, 42)).To(Succeed())
		Expect(regFile.Write(30, 7)).To(Succeed())

		Expect(regFile.Read(0)).To(Equal(uint64(42)))
		Expect(regFile.Read(30)).To(Equal(uint64(7)))
	})

	It("should always read the zero register as 0", func() {
		Expect(regFile.Read(31)).To(Equal(uint64(0)))
	})

	It("should accept and discard writes to the zero register", func() {
		Expect(regFile.Write(31, 123)).To(Succeed())

		Expect(regFile.Read(31)).To(Equal(uint64(0)))
	})

	It("should fail on indices above 31", func() {
		_, err := regFile.Read(32)

		var regErr *emu.RegisterError
		Expect(err).To(BeAssignableToTypeOf(regErr))

		err = regFile.Write(200, 1)
		Expect(err).To(BeAssignableToTypeOf(regErr))
	})
})
