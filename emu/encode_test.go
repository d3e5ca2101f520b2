package emu_test

// Instruction encoders used by the tests. Register and funct fields are
// passed unshifted; immediates are byte offsets.

const (
	opLoad   = 0b0000011
	opFence  = 0b0001111
	opImm    = 0b0010011
	opAUIPC  = 0b0010111
	opStore  = 0b0100011
	opAMO    = 0b0101111
	opReg    = 0b0110011
	opLUI    = 0b0110111
	opBranch = 0b1100011
	opJALR   = 0b1100111
	opJAL    = 0b1101111
	opSystem = 0b1110011
)

const (
	nop    = 0x00000013
	ebreak = 0x00100073
	ecall  = 0x00000073
)

func encodeR(opcode, rd, funct3, rs1, rs2, funct7 uint32) uint32 {
	return funct7<<25 | rs2<<20 | rs1<<15 | funct3<<12 | rd<<7 | opcode
}

func encodeI(opcode, rd, funct3, rs1 uint32, imm int32) uint32 {
	return (uint32(imm)&0xFFF)<<20 | rs1<<15 | funct3<<12 | rd<<7 | opcode
}

func encodeS(funct3, rs1, rs2 uint32, imm int32) uint32 {
	u := uint32(imm)
	return (u>>5&0x7F)<<25 | rs2<<20 | rs1<<15 | funct3<<12 | (u&0x1F)<<7 | opStore
}

func encodeB(funct3, rs1, rs2 uint32, imm int32) uint32 {
	u := uint32(imm)
	return (u>>12&1)<<31 | (u>>5&0x3F)<<25 | rs2<<20 | rs1<<15 | funct3<<12 |
		(u>>1&0xF)<<8 | (u>>11&1)<<7 | opBranch
}

func encodeU(opcode, rd, imm20 uint32) uint32 {
	return imm20<<12 | rd<<7 | opcode
}

func encodeJ(rd uint32, imm int32) uint32 {
	u := uint32(imm)
	return (u>>20&1)<<31 | (u>>1&0x3FF)<<21 | (u>>11&1)<<20 | (u>>12&0xFF)<<12 | rd<<7 | opJAL
}

func encodeADDI(rd, rs1 uint32, imm int32) uint32 {
	return encodeI(opImm, rd, 0b000, rs1, imm)
}

// encodeShiftImm encodes SLLI (funct3 001) or SRLI/SRAI (funct3 101) with
// the given imm[11:5] discriminator.
func encodeShiftImm(rd, funct3, rs1, shamt, disc uint32) uint32 {
	return disc<<25 | shamt<<20 | rs1<<15 | funct3<<12 | rd<<7 | opImm
}

// encodeAMO encodes an RV32A instruction with aq and rl clear.
func encodeAMO(funct5, rd, rs1, rs2 uint32) uint32 {
	return encodeR(opAMO, rd, 0b010, rs1, rs2, funct5<<2)
}
