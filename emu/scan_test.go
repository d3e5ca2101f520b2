package emu_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32sim/emu"
	"github.com/sarchlab/rv32sim/insts"
)

var _ = Describe("Scan", func() {
	It("should find nothing in a valid program", func() {
		Expect(emu.Scan([]uint32{nop, 0x00308093, ebreak})).To(BeEmpty())
	})

	It("should report every word the dispatcher rejects", func() {
		findings := emu.Scan([]uint32{
			nop,
			0x0000007F, // unknown opcode
			encodeShiftImm(5, 0b001, 6, 4, 0b0100000),
			ecall,
			0x300110F3, // csrrw
		})

		Expect(findings).To(HaveLen(4))

		Expect(findings[0].Index).To(Equal(uint32(1)))
		Expect(errors.Is(findings[0].Err, emu.ErrUnimplementedOpcode)).To(BeTrue())

		Expect(findings[1].Index).To(Equal(uint32(2)))
		Expect(findings[1].Inst.Opcode).To(Equal(insts.OpcodeOpImm))
		Expect(errors.Is(findings[1].Err, emu.ErrIllegalInstruction)).To(BeTrue())

		Expect(findings[2].Index).To(Equal(uint32(3)))
		Expect(errors.Is(findings[2].Err, emu.ErrUnimplementedOpcode)).To(BeTrue())

		Expect(findings[3].Index).To(Equal(uint32(4)))
		Expect(errors.Is(findings[3].Err, emu.ErrIllegalInstruction)).To(BeTrue())
	})

	It("should format findings with index and raw word", func() {
		findings := emu.Scan([]uint32{0xFFFFFFFF})

		Expect(findings).To(HaveLen(1))
		Expect(findings[0].String()).To(HavePrefix("0: 0xffffffff unimplemented opcode"))
	})
})
