// Package insts provides RV32 instruction definitions and decoding.
//
// This package implements decoding of RISC-V machine code into structured
// instruction representations. It supports:
//   - RV32I base integer instructions (register-immediate, register-register,
//     loads, stores, branches, jumps, LUI/AUIPC, FENCE, ECALL/EBREAK)
//   - RV32M multiply and divide
//   - RV32A word-sized atomics (LR.W, SC.W, AMO*.W)
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst := decoder.Decode(0x00308093) // ADDI x1, x1, 3
//	fmt.Printf("Op: %v, Rd: %d, Rs1: %d, Imm: %d\n", inst.Op, inst.Rd, inst.Rs1, int32(inst.Imm))
package insts
