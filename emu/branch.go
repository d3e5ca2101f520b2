package emu

import (
	"fmt"

	"github.com/sarchlab/rv32sim/insts"
)

// BranchUnit implements RV32 jumps and conditional branches.
//
// Offsets and link values are byte addresses while RegFile.PC is a word
// index, so every target is converted and must be 4-byte aligned.
type BranchUnit struct {
	regFile *RegFile
}

// NewBranchUnit creates a new BranchUnit connected to the given register file.
func NewBranchUnit(regFile *RegFile) *BranchUnit {
	return &BranchUnit{regFile: regFile}
}

func checkTarget(target uint32) error {
	if target%4 != 0 {
		return fmt.Errorf("%w: 0x%08x", ErrMisalignedTarget, target)
	}
	return nil
}

// returnAddress is the byte address of the instruction after PC.
func (b *BranchUnit) returnAddress() uint32 {
	return (b.regFile.PC + 1) * 4
}

// JAL jumps PC-relative and links: rd = return address, PC += offset.
func (b *BranchUnit) JAL(rd uint8, offset uint32) error {
	target := b.regFile.PC*4 + offset
	if err := checkTarget(target); err != nil {
		return err
	}
	if err := b.regFile.Write(rd, b.returnAddress()); err != nil {
		return err
	}
	b.regFile.PC = target / 4
	return nil
}

// JALR jumps to (rs1 + offset) with bit 0 cleared and links.
func (b *BranchUnit) JALR(rd, rs1 uint8, offset uint32) error {
	base, err := b.regFile.Read(rs1)
	if err != nil {
		return err
	}

	target := (base + offset) &^ 1
	if err := checkTarget(target); err != nil {
		return err
	}
	if err := b.regFile.Write(rd, b.returnAddress()); err != nil {
		return err
	}
	b.regFile.PC = target / 4
	return nil
}

// Branch evaluates a conditional branch. It reports whether the branch was
// taken; a taken branch has already moved PC.
func (b *BranchUnit) Branch(inst insts.Instruction) (bool, error) {
	rs1Value, err := b.regFile.Read(inst.Rs1)
	if err != nil {
		return false, err
	}
	rs2Value, err := b.regFile.Read(inst.Rs2)
	if err != nil {
		return false, err
	}

	taken, ok := CheckCondition(inst.Op, rs1Value, rs2Value)
	if !ok {
		return false, fmt.Errorf("%w: %v is not a branch", ErrIllegalInstruction, inst.Op)
	}
	if !taken {
		return false, nil
	}

	target := b.regFile.PC*4 + inst.Imm
	if err := checkTarget(target); err != nil {
		return false, err
	}
	b.regFile.PC = target / 4
	return true, nil
}

// CheckCondition evaluates a branch condition. It reports false for
// operations that are not branches.
func CheckCondition(op insts.Op, a, b uint32) (taken, ok bool) {
	switch op {
	case insts.OpBEQ:
		return a == b, true
	case insts.OpBNE:
		return a != b, true
	case insts.OpBLT:
		return int32(a) < int32(b), true
	case insts.OpBGE:
		return int32(a) >= int32(b), true
	case insts.OpBLTU:
		return a < b, true
	case insts.OpBGEU:
		return a >= b, true
	}
	return false, false
}
