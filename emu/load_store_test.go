package emu_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32sim/emu"
)

var _ = Describe("LoadStoreUnit", func() {
	var (
		memory *emu.Memory
		e      *emu.Emulator
	)

	BeforeEach(func() {
		memory = emu.NewMemory(0x1000)
		e = emu.NewEmulator(emu.WithMemory(memory))
		Expect(e.RegFile().Write(2, 0x100)).To(Succeed())
	})

	reg := func(index uint8) uint32 {
		v, err := e.RegFile().Read(index)
		Expect(err).NotTo(HaveOccurred())
		return v
	}

	load := func(funct3 uint32, offset int32) emu.StepResult {
		return e.StepWord(encodeI(opLoad, 6, funct3, 2, offset))
	}

	Describe("loads", func() {
		BeforeEach(func() {
			Expect(memory.Write32(0x108, 0x8081F2F3)).To(Succeed())
		})

		It("should load a word", func() {
			Expect(load(0b010, 8).Err).NotTo(HaveOccurred())
			Expect(reg(6)).To(Equal(uint32(0x8081F2F3)))
		})

		It("should sign-extend bytes and halfwords", func() {
			load(0b000, 8)
			Expect(reg(6)).To(Equal(uint32(0xFFFFFFF3)))

			load(0b001, 10)
			Expect(reg(6)).To(Equal(uint32(0xFFFF8081)))
		})

		It("should zero-extend with LBU and LHU", func() {
			load(0b100, 8)
			Expect(reg(6)).To(Equal(uint32(0xF3)))

			load(0b101, 10)
			Expect(reg(6)).To(Equal(uint32(0x8081)))
		})

		It("should load positive bytes unchanged", func() {
			Expect(memory.Write8(0x110, 0x7F)).To(Succeed())
			load(0b000, 0x10)
			Expect(reg(6)).To(Equal(uint32(0x7F)))
		})

		It("should apply negative offsets", func() {
			Expect(memory.Write32(0xFC, 0x11223344)).To(Succeed())
			load(0b010, -4)
			Expect(reg(6)).To(Equal(uint32(0x11223344)))
		})

		It("should allow unaligned accesses", func() {
			load(0b010, 9)
			Expect(reg(6)).To(Equal(uint32(0x008081F2)))
		})

		It("should fault outside memory and leave rd alone", func() {
			Expect(e.RegFile().Write(6, 0xAAAA)).To(Succeed())
			Expect(e.RegFile().Write(2, 0xFFE)).To(Succeed())

			result := load(0b010, 0)

			Expect(errors.Is(result.Err, emu.ErrMemoryFault)).To(BeTrue())
			Expect(reg(6)).To(Equal(uint32(0xAAAA)))
			Expect(e.RegFile().PC).To(BeZero())
		})

		It("should reject the reserved funct3 encodings", func() {
			result := load(0b011, 0)
			Expect(errors.Is(result.Err, emu.ErrIllegalInstruction)).To(BeTrue())
		})
	})

	Describe("stores", func() {
		BeforeEach(func() {
			Expect(e.RegFile().Write(5, 0xCAFEBABE)).To(Succeed())
		})

		It("should store a word little-endian", func() {
			Expect(e.StepWord(encodeS(0b010, 2, 5, -4)).Err).NotTo(HaveOccurred())

			data, err := memory.Read(0xFC, 4)
			Expect(err).NotTo(HaveOccurred())
			Expect(data).To(Equal([]byte{0xBE, 0xBA, 0xFE, 0xCA}))
		})

		It("should store the low halfword and byte", func() {
			e.StepWord(encodeS(0b001, 2, 5, 0))
			e.StepWord(encodeS(0b000, 2, 5, 4))

			h, _ := memory.Read32(0x100)
			b, _ := memory.Read32(0x104)
			Expect(h).To(Equal(uint32(0xBABE)))
			Expect(b).To(Equal(uint32(0xBE)))
		})

		It("should fault outside memory", func() {
			Expect(e.RegFile().Write(2, 0x1000)).To(Succeed())

			result := e.StepWord(encodeS(0b000, 2, 5, 0))
			Expect(errors.Is(result.Err, emu.ErrMemoryFault)).To(BeTrue())
		})
	})

	Describe("without memory", func() {
		It("should fault every access", func() {
			result := emu.Step(emu.NewRegFile(), encodeI(opLoad, 6, 0b010, 0, 0))
			Expect(errors.Is(result.Err, emu.ErrMemoryFault)).To(BeTrue())

			result = emu.Step(emu.NewRegFile(), encodeS(0b010, 0, 0, 0))
			Expect(errors.Is(result.Err, emu.ErrMemoryFault)).To(BeTrue())
		})
	})
})
