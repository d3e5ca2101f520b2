package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32sim/insts"
)

var _ = Describe("SignExtend", func() {
	It("should extend a negative 12-bit immediate", func() {
		Expect(insts.SignExtend(0b100000000000, 12)).To(Equal(uint32(0xFFFFF800)))
	})

	It("should leave a positive 12-bit immediate unchanged", func() {
		Expect(insts.SignExtend(0x7FF, 12)).To(Equal(uint32(0x7FF)))
	})

	It("should ignore bits above the field width", func() {
		Expect(insts.SignExtend(0xABC00003, 4)).To(Equal(uint32(3)))
	})

	It("should be exact for every width from 1 to 31", func() {
		for bits := uint(1); bits <= 31; bits++ {
			signBit := uint32(1) << (bits - 1)
			fieldMask := uint32(1)<<bits - 1

			// Positive values come back unchanged.
			for _, v := range []uint32{0, 1, signBit - 1, (signBit - 1) / 3} {
				v &= signBit - 1
				Expect(insts.SignExtend(v, bits)).To(Equal(v),
					"bits=%d value=%#x", bits, v)
			}

			// Negative values get every bit above the field set.
			for _, v := range []uint32{signBit, fieldMask, signBit | 1, signBit | (fieldMask >> 2)} {
				v &= fieldMask
				Expect(insts.SignExtend(v, bits)).To(Equal(v|^fieldMask),
					"bits=%d value=%#x", bits, v)
			}
		}
	})
})
