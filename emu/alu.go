package emu

import (
	"fmt"

	"github.com/sarchlab/rv32sim/insts"
)

// ALU implements RV32I and RV32M arithmetic and logic operations.
type ALU struct {
	regFile *RegFile
}

// NewALU creates a new ALU connected to the given register file.
func NewALU(regFile *RegFile) *ALU {
	return &ALU{regFile: regFile}
}

// ExecuteImm performs a register-immediate operation: rd = op(rs1, imm).
// Shifts take their amount from the decoded shamt.
func (a *ALU) ExecuteImm(inst insts.Instruction) error {
	rs1Value, err := a.regFile.Read(inst.Rs1)
	if err != nil {
		return err
	}

	result, ok := Compute(inst.Op, rs1Value, inst.Imm)
	if !ok {
		return fmt.Errorf("%w: %v is not a register-immediate operation", ErrIllegalInstruction, inst.Op)
	}

	return a.regFile.Write(inst.Rd, result)
}

// ExecuteReg performs a register-register operation: rd = op(rs1, rs2).
func (a *ALU) ExecuteReg(inst insts.Instruction) error {
	rs1Value, err := a.regFile.Read(inst.Rs1)
	if err != nil {
		return err
	}
	rs2Value, err := a.regFile.Read(inst.Rs2)
	if err != nil {
		return err
	}

	result, ok := Compute(inst.Op, rs1Value, rs2Value)
	if !ok {
		return fmt.Errorf("%w: %v is not a register-register operation", ErrIllegalInstruction, inst.Op)
	}

	return a.regFile.Write(inst.Rd, result)
}

// LUI loads the upper immediate: rd = imm.
func (a *ALU) LUI(rd uint8, imm uint32) error {
	return a.regFile.Write(rd, imm)
}

// AUIPC adds the upper immediate to the byte address of the current
// instruction: rd = 4*PC + imm.
func (a *ALU) AUIPC(rd uint8, imm uint32) error {
	return a.regFile.Write(rd, a.regFile.PC*4+imm)
}

// Compute evaluates an integer operation on two operands. For the
// register-immediate forms b is the decoded immediate. It reports false for
// operations that are not ALU operations.
func Compute(op insts.Op, a, b uint32) (uint32, bool) {
	switch op {
	case insts.OpADDI, insts.OpADD:
		return a + b, true
	case insts.OpSUB:
		return a - b, true
	case insts.OpSLTI, insts.OpSLT:
		return boolToWord(int32(a) < int32(b)), true
	case insts.OpSLTIU, insts.OpSLTU:
		return boolToWord(a < b), true
	case insts.OpXORI, insts.OpXOR:
		return a ^ b, true
	case insts.OpORI, insts.OpOR:
		return a | b, true
	case insts.OpANDI, insts.OpAND:
		return a & b, true
	case insts.OpSLLI, insts.OpSLL:
		return a << (b & 0x1F), true
	case insts.OpSRLI, insts.OpSRL:
		return a >> (b & 0x1F), true
	case insts.OpSRAI, insts.OpSRA:
		return uint32(int32(a) >> (b & 0x1F)), true

	case insts.OpMUL:
		return a * b, true
	case insts.OpMULH:
		return uint32(uint64(int64(int32(a))*int64(int32(b))) >> 32), true
	case insts.OpMULHSU:
		return uint32(uint64(int64(int32(a))*int64(b)) >> 32), true
	case insts.OpMULHU:
		return uint32(uint64(a) * uint64(b) >> 32), true
	case insts.OpDIV:
		return div32(a, b), true
	case insts.OpDIVU:
		if b == 0 {
			return 0xFFFFFFFF, true
		}
		return a / b, true
	case insts.OpREM:
		return rem32(a, b), true
	case insts.OpREMU:
		if b == 0 {
			return a, true
		}
		return a % b, true
	}

	return 0, false
}

// div32 is signed division rounding toward zero. Division by zero yields
// all ones and the overflow case -2^31 / -1 yields -2^31.
func div32(a, b uint32) uint32 {
	switch {
	case b == 0:
		return 0xFFFFFFFF
	case a == 0x80000000 && b == 0xFFFFFFFF:
		return a
	}
	return uint32(int32(a) / int32(b))
}

// rem32 is the signed remainder taking the sign of the dividend. Division by
// zero yields the dividend and the overflow case yields 0.
func rem32(a, b uint32) uint32 {
	switch {
	case b == 0:
		return a
	case a == 0x80000000 && b == 0xFFFFFFFF:
		return 0
	}
	return uint32(int32(a) % int32(b))
}

func boolToWord(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
