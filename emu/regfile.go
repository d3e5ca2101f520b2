package emu

import (
	"fmt"
)

// NumRegisters is the number of general-purpose registers.
const NumRegisters = 32

// RegFile represents the RV32 register file.
// It contains 32 general-purpose registers (x0-x31) and the program counter.
// x0 is hardwired to zero: reads return 0 and writes are discarded.
type RegFile struct {
	x [NumRegisters]uint32

	// PC is the program counter, as a word index into the instruction
	// stream. Instruction n lives at byte address 4*n.
	PC uint32
}

// NewRegFile creates a zero-initialized register file.
func NewRegFile() *RegFile {
	return &RegFile{}
}

// Read reads a register value. Register 0 always returns 0.
func (r *RegFile) Read(index uint8) (uint32, error) {
	if index >= NumRegisters {
		return 0, fmt.Errorf("%w: read x%d", ErrInvalidRegisterIndex, index)
	}
	if index == 0 {
		return 0, nil
	}
	return r.x[index], nil
}

// Write writes a value to a register. Writes to register 0 are discarded
// without error.
func (r *RegFile) Write(index uint8, value uint32) error {
	if index >= NumRegisters {
		return fmt.Errorf("%w: write x%d", ErrInvalidRegisterIndex, index)
	}
	if index == 0 {
		return nil
	}
	r.x[index] = value
	return nil
}

// Reset zeroes every register and the program counter.
func (r *RegFile) Reset() {
	*r = RegFile{}
}

// RegisterValue is a named register snapshot.
type RegisterValue struct {
	Name  string
	Value uint32
}

func (v RegisterValue) String() string {
	return fmt.Sprintf("%s: %08x", v.Name, v.Value)
}

// Dump returns the program counter followed by x0-x31, in index order.
func (r *RegFile) Dump() []RegisterValue {
	dump := make([]RegisterValue, 0, NumRegisters+1)
	dump = append(dump, RegisterValue{Name: "pc", Value: r.PC})
	for i := 0; i < NumRegisters; i++ {
		dump = append(dump, RegisterValue{
			Name:  fmt.Sprintf("x%d", i),
			Value: r.x[i],
		})
	}
	return dump
}
