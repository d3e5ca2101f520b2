package insts

import "fmt"

// Class groups operations by the execution unit that handles them.
type Class uint8

// Operation classes.
const (
	ClassUnknown Class = iota
	ClassALU           // integer register and immediate arithmetic, LUI, AUIPC
	ClassMulDiv        // RV32M
	ClassBranch        // conditional branches
	ClassJump          // JAL, JALR
	ClassLoad
	ClassStore
	ClassAtomic // RV32A
	ClassSystem // FENCE, ECALL, EBREAK

	NumClasses
)

var classNames = [NumClasses]string{
	ClassUnknown: "unknown",
	ClassALU:     "alu",
	ClassMulDiv:  "muldiv",
	ClassBranch:  "branch",
	ClassJump:    "jump",
	ClassLoad:    "load",
	ClassStore:   "store",
	ClassAtomic:  "atomic",
	ClassSystem:  "system",
}

func (c Class) String() string {
	if c < NumClasses {
		return classNames[c]
	}
	return fmt.Sprintf("Class(%d)", uint8(c))
}

// Class returns the class of the operation.
func (o Op) Class() Class {
	switch {
	case o == OpUnknown || o >= numOps:
		return ClassUnknown
	case o >= OpLRW:
		return ClassAtomic
	case o >= OpMUL:
		return ClassMulDiv
	}

	switch o {
	case OpJAL, OpJALR:
		return ClassJump
	case OpBEQ, OpBNE, OpBLT, OpBGE, OpBLTU, OpBGEU:
		return ClassBranch
	case OpLB, OpLH, OpLW, OpLBU, OpLHU:
		return ClassLoad
	case OpSB, OpSH, OpSW:
		return ClassStore
	case OpFENCE, OpFENCEI, OpECALL, OpEBREAK:
		return ClassSystem
	}
	return ClassALU
}

// IsMemoryOp reports whether the operation accesses data memory.
func (o Op) IsMemoryOp() bool {
	switch o.Class() {
	case ClassLoad, ClassStore, ClassAtomic:
		return true
	}
	return false
}

// IsControlOp reports whether the operation may set PC.
func (o Op) IsControlOp() bool {
	c := o.Class()
	return c == ClassBranch || c == ClassJump
}
