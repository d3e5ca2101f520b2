package emu

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRegisterIndex is returned for a register index >= 32.
	ErrInvalidRegisterIndex = errors.New("invalid register index")

	// ErrIllegalInstruction is returned when a family handler exists for the
	// opcode but the remaining fields name no operation.
	ErrIllegalInstruction = errors.New("illegal instruction")

	// ErrUnimplementedOpcode is returned when no family handler exists for
	// the opcode.
	ErrUnimplementedOpcode = errors.New("unimplemented opcode")

	// ErrMisalignedTarget is returned when a taken branch or jump targets an
	// address that is not a multiple of 4.
	ErrMisalignedTarget = errors.New("misaligned jump target")

	// ErrMisalignedAccess is returned for atomics on an address that is not
	// a multiple of 4.
	ErrMisalignedAccess = errors.New("misaligned memory access")

	// ErrTruncatedImage is returned for a program image whose length is not
	// a multiple of 4.
	ErrTruncatedImage = errors.New("image length is not a whole number of words")

	// ErrMemoryFault is returned for accesses outside the attached memory.
	ErrMemoryFault = errors.New("memory fault")

	// ErrInstructionLimit is returned once the configured instruction limit
	// has been reached.
	ErrInstructionLimit = errors.New("instruction limit reached")
)

// StepError locates a fault at the instruction that raised it.
type StepError struct {
	PC   uint32 // Word index of the faulting instruction
	Word uint32 // Raw instruction word
	Err  error
}

func (err *StepError) Error() string {
	return fmt.Sprintf("pc=%d (0x%08x) word=0x%08x: %v", err.PC, err.PC*4, err.Word, err.Err)
}

func (err *StepError) Unwrap() error {
	return err.Err
}
