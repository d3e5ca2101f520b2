package emu

import (
	"fmt"

	"github.com/sarchlab/rv32sim/insts"
)

// LoadStoreUnit implements RV32 load and store operations.
type LoadStoreUnit struct {
	regFile *RegFile
	memory  *Memory
}

// NewLoadStoreUnit creates a new LoadStoreUnit connected to the given
// register file and memory.
func NewLoadStoreUnit(regFile *RegFile, memory *Memory) *LoadStoreUnit {
	return &LoadStoreUnit{
		regFile: regFile,
		memory:  memory,
	}
}

func (lsu *LoadStoreUnit) address(rs1 uint8, offset uint32) (uint32, error) {
	base, err := lsu.regFile.Read(rs1)
	if err != nil {
		return 0, err
	}
	return base + offset, nil
}

// Load performs LB, LH, LW, LBU or LHU: rd = extend(mem[rs1 + imm]).
func (lsu *LoadStoreUnit) Load(inst insts.Instruction) error {
	addr, err := lsu.address(inst.Rs1, inst.Imm)
	if err != nil {
		return err
	}

	var value uint32
	switch inst.Op {
	case insts.OpLB, insts.OpLBU:
		b, err := lsu.memory.Read8(addr)
		if err != nil {
			return err
		}
		value = uint32(b)
		if inst.Op == insts.OpLB {
			value = insts.SignExtend(value, 8)
		}
	case insts.OpLH, insts.OpLHU:
		h, err := lsu.memory.Read16(addr)
		if err != nil {
			return err
		}
		value = uint32(h)
		if inst.Op == insts.OpLH {
			value = insts.SignExtend(value, 16)
		}
	case insts.OpLW:
		value, err = lsu.memory.Read32(addr)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: %v is not a load", ErrIllegalInstruction, inst.Op)
	}

	return lsu.regFile.Write(inst.Rd, value)
}

// Store performs SB, SH or SW: mem[rs1 + imm] = rs2.
func (lsu *LoadStoreUnit) Store(inst insts.Instruction) error {
	addr, err := lsu.address(inst.Rs1, inst.Imm)
	if err != nil {
		return err
	}
	value, err := lsu.regFile.Read(inst.Rs2)
	if err != nil {
		return err
	}

	switch inst.Op {
	case insts.OpSB:
		return lsu.memory.Write8(addr, uint8(value))
	case insts.OpSH:
		return lsu.memory.Write16(addr, uint16(value))
	case insts.OpSW:
		return lsu.memory.Write32(addr, value)
	}

	return fmt.Errorf("%w: %v is not a store", ErrIllegalInstruction, inst.Op)
}
