package emu

import (
	"fmt"

	"github.com/sarchlab/rv32sim/insts"
)

// AtomicUnit implements the RV32A word atomics. A single hart holds at most
// one LR reservation.
type AtomicUnit struct {
	regFile *RegFile
	memory  *Memory

	reserved    bool
	reservation uint32
}

// NewAtomicUnit creates a new AtomicUnit connected to the given register
// file and memory.
func NewAtomicUnit(regFile *RegFile, memory *Memory) *AtomicUnit {
	return &AtomicUnit{
		regFile: regFile,
		memory:  memory,
	}
}

// Execute performs LR.W, SC.W or an AMO*.W operation.
func (u *AtomicUnit) Execute(inst insts.Instruction) error {
	addr, err := u.regFile.Read(inst.Rs1)
	if err != nil {
		return err
	}
	if addr%4 != 0 {
		return fmt.Errorf("%w: %v at 0x%08x", ErrMisalignedAccess, inst.Op, addr)
	}
	src, err := u.regFile.Read(inst.Rs2)
	if err != nil {
		return err
	}

	switch inst.Op {
	case insts.OpLRW:
		value, err := u.memory.Read32(addr)
		if err != nil {
			return err
		}
		u.reserved = true
		u.reservation = addr
		return u.regFile.Write(inst.Rd, value)

	case insts.OpSCW:
		if !u.reserved || u.reservation != addr {
			u.reserved = false
			return u.regFile.Write(inst.Rd, 1)
		}
		if err := u.memory.Write32(addr, src); err != nil {
			return err
		}
		u.reserved = false
		return u.regFile.Write(inst.Rd, 0)
	}

	old, err := u.memory.Read32(addr)
	if err != nil {
		return err
	}
	value, ok := amoCompute(inst.Op, old, src)
	if !ok {
		return fmt.Errorf("%w: %v is not an atomic", ErrIllegalInstruction, inst.Op)
	}
	if err := u.memory.Write32(addr, value); err != nil {
		return err
	}
	return u.regFile.Write(inst.Rd, old)
}

func amoCompute(op insts.Op, old, src uint32) (uint32, bool) {
	switch op {
	case insts.OpAMOSWAPW:
		return src, true
	case insts.OpAMOADDW:
		return old + src, true
	case insts.OpAMOXORW:
		return old ^ src, true
	case insts.OpAMOANDW:
		return old & src, true
	case insts.OpAMOORW:
		return old | src, true
	case insts.OpAMOMINW:
		if int32(src) < int32(old) {
			return src, true
		}
		return old, true
	case insts.OpAMOMAXW:
		if int32(src) > int32(old) {
			return src, true
		}
		return old, true
	case insts.OpAMOMINUW:
		return min(old, src), true
	case insts.OpAMOMAXUW:
		return max(old, src), true
	}
	return 0, false
}
