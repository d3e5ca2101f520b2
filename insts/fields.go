package insts

// Bit positions of the fixed instruction fields.
const (
	rdShift     = 7
	funct3Shift = 12
	rs1Shift    = 15
	rs2Shift    = 20
	funct7Shift = 25

	regMask    = 0x1F
	funct3Mask = 0x7
	funct7Mask = 0x7F
	opcodeMask = 0x7F
)

// SignExtend replicates bit (bits-1) of value into every higher bit of the
// 32-bit result. Bits of value at or above position bits are ignored.
func SignExtend(value uint32, bits uint) uint32 {
	shift := 32 - bits
	return uint32(int32(value<<shift) >> shift)
}

// field extracts the inclusive bit range [hi:lo] of word.
func field(word uint32, hi, lo uint) uint32 {
	return (word >> lo) & (1<<(hi-lo+1) - 1)
}

func opcodeOf(word uint32) Opcode { return Opcode(word & opcodeMask) }
func rdOf(word uint32) uint8      { return uint8((word >> rdShift) & regMask) }
func funct3Of(word uint32) uint8  { return uint8((word >> funct3Shift) & funct3Mask) }
func rs1Of(word uint32) uint8     { return uint8((word >> rs1Shift) & regMask) }
func rs2Of(word uint32) uint8     { return uint8((word >> rs2Shift) & regMask) }
func funct7Of(word uint32) uint8  { return uint8((word >> funct7Shift) & funct7Mask) }

// immI decodes imm[11:0] = inst[31:20].
func immI(word uint32) uint32 {
	return SignExtend(field(word, 31, 20), 12)
}

// immS decodes imm[11:5] = inst[31:25], imm[4:0] = inst[11:7].
func immS(word uint32) uint32 {
	return SignExtend(field(word, 31, 25)<<5|field(word, 11, 7), 12)
}

// immB decodes imm[12|10:5|4:1|11] = inst[31|30:25|11:8|7].
func immB(word uint32) uint32 {
	imm := field(word, 31, 31)<<12 |
		field(word, 7, 7)<<11 |
		field(word, 30, 25)<<5 |
		field(word, 11, 8)<<1
	return SignExtend(imm, 13)
}

// immU decodes imm[31:12] = inst[31:12].
func immU(word uint32) uint32 {
	return word &^ 0xFFF
}

// immJ decodes imm[20|10:1|11|19:12] = inst[31|30:21|20|19:12].
func immJ(word uint32) uint32 {
	imm := field(word, 31, 31)<<20 |
		field(word, 19, 12)<<12 |
		field(word, 20, 20)<<11 |
		field(word, 30, 21)<<1
	return SignExtend(imm, 21)
}
