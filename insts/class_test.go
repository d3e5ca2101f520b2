package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32sim/insts"
)

var _ = Describe("Class", func() {
	It("should classify operations by execution unit", func() {
		Expect(insts.OpADDI.Class()).To(Equal(insts.ClassALU))
		Expect(insts.OpSRA.Class()).To(Equal(insts.ClassALU))
		Expect(insts.OpLUI.Class()).To(Equal(insts.ClassALU))
		Expect(insts.OpAUIPC.Class()).To(Equal(insts.ClassALU))
		Expect(insts.OpMULHSU.Class()).To(Equal(insts.ClassMulDiv))
		Expect(insts.OpREMU.Class()).To(Equal(insts.ClassMulDiv))
		Expect(insts.OpBGEU.Class()).To(Equal(insts.ClassBranch))
		Expect(insts.OpJALR.Class()).To(Equal(insts.ClassJump))
		Expect(insts.OpLHU.Class()).To(Equal(insts.ClassLoad))
		Expect(insts.OpSB.Class()).To(Equal(insts.ClassStore))
		Expect(insts.OpLRW.Class()).To(Equal(insts.ClassAtomic))
		Expect(insts.OpAMOMAXUW.Class()).To(Equal(insts.ClassAtomic))
		Expect(insts.OpEBREAK.Class()).To(Equal(insts.ClassSystem))
		Expect(insts.OpUnknown.Class()).To(Equal(insts.ClassUnknown))
	})

	It("should identify memory and control operations", func() {
		Expect(insts.OpLW.IsMemoryOp()).To(BeTrue())
		Expect(insts.OpSCW.IsMemoryOp()).To(BeTrue())
		Expect(insts.OpADD.IsMemoryOp()).To(BeFalse())

		Expect(insts.OpBEQ.IsControlOp()).To(BeTrue())
		Expect(insts.OpJAL.IsControlOp()).To(BeTrue())
		Expect(insts.OpFENCE.IsControlOp()).To(BeFalse())
	})

	It("should have readable names", func() {
		Expect(insts.ClassMulDiv.String()).To(Equal("muldiv"))
		Expect(insts.Class(200).String()).To(Equal("Class(200)"))
	})
})
