package emu_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32sim/emu"
)

var _ = Describe("RegFile", func() {
	var regFile *emu.RegFile

	BeforeEach(func() {
		regFile = emu.NewRegFile()
	})

	It("should start zeroed", func() {
		for i := uint8(0); i < emu.NumRegisters; i++ {
			v, err := regFile.Read(i)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(BeZero())
		}
		Expect(regFile.PC).To(BeZero())
	})

	It("should read back written values", func() {
		for i := uint8(1); i < emu.NumRegisters; i++ {
			Expect(regFile.Write(i, uint32(i)*0x01010101)).To(Succeed())
		}
		for i := uint8(1); i < emu.NumRegisters; i++ {
			v, err := regFile.Read(i)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(uint32(i) * 0x01010101))
		}
	})

	Describe("x0", func() {
		It("should discard writes without error", func() {
			Expect(regFile.Write(0, 0xDEADBEEF)).To(Succeed())

			v, err := regFile.Read(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(BeZero())
		})

		It("should read zero for every value written", func() {
			for _, value := range []uint32{1, 0x7FFFFFFF, 0x80000000, 0xFFFFFFFF} {
				Expect(regFile.Write(0, value)).To(Succeed())
				v, _ := regFile.Read(0)
				Expect(v).To(BeZero())
			}
		})
	})

	Describe("invalid indices", func() {
		It("should reject reads of x32 and above", func() {
			for _, index := range []uint8{32, 33, 255} {
				_, err := regFile.Read(index)
				Expect(errors.Is(err, emu.ErrInvalidRegisterIndex)).To(BeTrue())
			}
		})

		It("should reject writes of x32 and above", func() {
			err := regFile.Write(32, 1)
			Expect(errors.Is(err, emu.ErrInvalidRegisterIndex)).To(BeTrue())
		})
	})

	Describe("Reset", func() {
		It("should clear registers and PC", func() {
			Expect(regFile.Write(5, 42)).To(Succeed())
			regFile.PC = 10

			regFile.Reset()

			v, _ := regFile.Read(5)
			Expect(v).To(BeZero())
			Expect(regFile.PC).To(BeZero())
		})
	})

	Describe("Dump", func() {
		It("should list pc followed by x0 to x31", func() {
			Expect(regFile.Write(1, 3)).To(Succeed())
			regFile.PC = 2

			dump := regFile.Dump()

			Expect(dump).To(HaveLen(emu.NumRegisters + 1))
			Expect(dump[0]).To(Equal(emu.RegisterValue{Name: "pc", Value: 2}))
			Expect(dump[1]).To(Equal(emu.RegisterValue{Name: "x0", Value: 0}))
			Expect(dump[2]).To(Equal(emu.RegisterValue{Name: "x1", Value: 3}))
			Expect(dump[32].Name).To(Equal("x31"))
		})

		It("should format values as eight hex digits", func() {
			Expect(regFile.Write(1, 0xAB)).To(Succeed())

			Expect(regFile.Dump()[2].String()).To(Equal("x1: 000000ab"))
		})
	})
})
