package insts

import "fmt"

// Opcode is the 7-bit major opcode that selects an instruction family.
type Opcode uint8

// RV32 major opcodes.
const (
	OpcodeLoad    Opcode = 0b0000011
	OpcodeMiscMem Opcode = 0b0001111
	OpcodeOpImm   Opcode = 0b0010011
	OpcodeAUIPC   Opcode = 0b0010111
	OpcodeStore   Opcode = 0b0100011
	OpcodeAMO     Opcode = 0b0101111
	OpcodeOp      Opcode = 0b0110011
	OpcodeLUI     Opcode = 0b0110111
	OpcodeBranch  Opcode = 0b1100011
	OpcodeJALR    Opcode = 0b1100111
	OpcodeJAL     Opcode = 0b1101111
	OpcodeSystem  Opcode = 0b1110011
)

var opcodeNames = map[Opcode]string{
	OpcodeLoad:    "LOAD",
	OpcodeMiscMem: "MISC-MEM",
	OpcodeOpImm:   "OP-IMM",
	OpcodeAUIPC:   "AUIPC",
	OpcodeStore:   "STORE",
	OpcodeAMO:     "AMO",
	OpcodeOp:      "OP",
	OpcodeLUI:     "LUI",
	OpcodeBranch:  "BRANCH",
	OpcodeJALR:    "JALR",
	OpcodeJAL:     "JAL",
	OpcodeSystem:  "SYSTEM",
}

func (o Opcode) String() string {
	if name, ok := opcodeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("0b%07b", uint8(o))
}

// Format is the encoding shape of an instruction.
type Format uint8

// Instruction formats.
const (
	FormatUnknown Format = iota
	FormatR              // rd, rs1, rs2, funct3, funct7
	FormatI              // rd, rs1, funct3, 12-bit signed immediate
	FormatIShift         // OP-IMM shift: rd, rs1, funct3, shamt, discriminator
	FormatS              // rs1, rs2, funct3, 12-bit signed store offset
	FormatB              // rs1, rs2, funct3, 13-bit signed branch offset
	FormatU              // rd, upper 20-bit immediate
	FormatJ              // rd, 21-bit signed jump offset
)

var formatNames = [...]string{
	FormatUnknown: "unknown",
	FormatR:       "R",
	FormatI:       "I",
	FormatIShift:  "I-shift",
	FormatS:       "S",
	FormatB:       "B",
	FormatU:       "U",
	FormatJ:       "J",
}

func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return fmt.Sprintf("Format(%d)", uint8(f))
}

// Op represents a resolved RV32 operation.
type Op uint16

// RV32 operations.
const (
	OpUnknown Op = iota

	// RV32I
	OpLUI
	OpAUIPC
	OpJAL
	OpJALR
	OpBEQ
	OpBNE
	OpBLT
	OpBGE
	OpBLTU
	OpBGEU
	OpLB
	OpLH
	OpLW
	OpLBU
	OpLHU
	OpSB
	OpSH
	OpSW
	OpADDI
	OpSLTI
	OpSLTIU
	OpXORI
	OpORI
	OpANDI
	OpSLLI
	OpSRLI
	OpSRAI
	OpADD
	OpSUB
	OpSLL
	OpSLT
	OpSLTU
	OpXOR
	OpSRL
	OpSRA
	OpOR
	OpAND
	OpFENCE
	OpFENCEI
	OpECALL
	OpEBREAK

	// RV32M
	OpMUL
	OpMULH
	OpMULHSU
	OpMULHU
	OpDIV
	OpDIVU
	OpREM
	OpREMU

	// RV32A
	OpLRW
	OpSCW
	OpAMOSWAPW
	OpAMOADDW
	OpAMOXORW
	OpAMOANDW
	OpAMOORW
	OpAMOMINW
	OpAMOMAXW
	OpAMOMINUW
	OpAMOMAXUW

	numOps
)

var opNames = [numOps]string{
	OpUnknown:  "unknown",
	OpLUI:      "lui",
	OpAUIPC:    "auipc",
	OpJAL:      "jal",
	OpJALR:     "jalr",
	OpBEQ:      "beq",
	OpBNE:      "bne",
	OpBLT:      "blt",
	OpBGE:      "bge",
	OpBLTU:     "bltu",
	OpBGEU:     "bgeu",
	OpLB:       "lb",
	OpLH:       "lh",
	OpLW:       "lw",
	OpLBU:      "lbu",
	OpLHU:      "lhu",
	OpSB:       "sb",
	OpSH:       "sh",
	OpSW:       "sw",
	OpADDI:     "addi",
	OpSLTI:     "slti",
	OpSLTIU:    "sltiu",
	OpXORI:     "xori",
	OpORI:      "ori",
	OpANDI:     "andi",
	OpSLLI:     "slli",
	OpSRLI:     "srli",
	OpSRAI:     "srai",
	OpADD:      "add",
	OpSUB:      "sub",
	OpSLL:      "sll",
	OpSLT:      "slt",
	OpSLTU:     "sltu",
	OpXOR:      "xor",
	OpSRL:      "srl",
	OpSRA:      "sra",
	OpOR:       "or",
	OpAND:      "and",
	OpFENCE:    "fence",
	OpFENCEI:   "fence.i",
	OpECALL:    "ecall",
	OpEBREAK:   "ebreak",
	OpMUL:      "mul",
	OpMULH:     "mulh",
	OpMULHSU:   "mulhsu",
	OpMULHU:    "mulhu",
	OpDIV:      "div",
	OpDIVU:     "divu",
	OpREM:      "rem",
	OpREMU:     "remu",
	OpLRW:      "lr.w",
	OpSCW:      "sc.w",
	OpAMOSWAPW: "amoswap.w",
	OpAMOADDW:  "amoadd.w",
	OpAMOXORW:  "amoxor.w",
	OpAMOANDW:  "amoand.w",
	OpAMOORW:   "amoor.w",
	OpAMOMINW:  "amomin.w",
	OpAMOMAXW:  "amomax.w",
	OpAMOMINUW: "amominu.w",
	OpAMOMAXUW: "amomaxu.w",
}

func (o Op) String() string {
	if o < numOps {
		return opNames[o]
	}
	return fmt.Sprintf("Op(%d)", uint16(o))
}

// wildcard matches every value of a key component in the op table.
const wildcard = 0xFF

// shiftArith is the discriminator of an arithmetic shift: funct7 for SRA, and
// the value a set imm[10] maps to for SRAI.
const shiftArith = 0b0100000

// opKey identifies an operation by opcode, funct3 and discriminator. The
// discriminator is funct7 for R-type, imm[11:5] for shifts and funct5 for
// atomics. Shift immediates use only imm[10], as 0 or shiftArith.
type opKey struct {
	opcode Opcode
	funct3 uint8
	disc   uint8
}

var opTable = map[opKey]Op{
	{OpcodeLUI, wildcard, wildcard}:   OpLUI,
	{OpcodeAUIPC, wildcard, wildcard}: OpAUIPC,
	{OpcodeJAL, wildcard, wildcard}:   OpJAL,
	{OpcodeJALR, 0b000, wildcard}:     OpJALR,

	{OpcodeBranch, 0b000, wildcard}: OpBEQ,
	{OpcodeBranch, 0b001, wildcard}: OpBNE,
	{OpcodeBranch, 0b100, wildcard}: OpBLT,
	{OpcodeBranch, 0b101, wildcard}: OpBGE,
	{OpcodeBranch, 0b110, wildcard}: OpBLTU,
	{OpcodeBranch, 0b111, wildcard}: OpBGEU,

	{OpcodeLoad, 0b000, wildcard}: OpLB,
	{OpcodeLoad, 0b001, wildcard}: OpLH,
	{OpcodeLoad, 0b010, wildcard}: OpLW,
	{OpcodeLoad, 0b100, wildcard}: OpLBU,
	{OpcodeLoad, 0b101, wildcard}: OpLHU,

	{OpcodeStore, 0b000, wildcard}: OpSB,
	{OpcodeStore, 0b001, wildcard}: OpSH,
	{OpcodeStore, 0b010, wildcard}: OpSW,

	{OpcodeOpImm, 0b000, wildcard}:   OpADDI,
	{OpcodeOpImm, 0b010, wildcard}:   OpSLTI,
	{OpcodeOpImm, 0b011, wildcard}:   OpSLTIU,
	{OpcodeOpImm, 0b100, wildcard}:   OpXORI,
	{OpcodeOpImm, 0b110, wildcard}:   OpORI,
	{OpcodeOpImm, 0b111, wildcard}:   OpANDI,
	{OpcodeOpImm, 0b001, 0}:          OpSLLI,
	{OpcodeOpImm, 0b101, 0}:          OpSRLI,
	{OpcodeOpImm, 0b101, shiftArith}: OpSRAI,

	{OpcodeOp, 0b000, 0b0000000}: OpADD,
	{OpcodeOp, 0b000, 0b0100000}: OpSUB,
	{OpcodeOp, 0b001, 0b0000000}: OpSLL,
	{OpcodeOp, 0b010, 0b0000000}: OpSLT,
	{OpcodeOp, 0b011, 0b0000000}: OpSLTU,
	{OpcodeOp, 0b100, 0b0000000}: OpXOR,
	{OpcodeOp, 0b101, 0b0000000}: OpSRL,
	{OpcodeOp, 0b101, 0b0100000}: OpSRA,
	{OpcodeOp, 0b110, 0b0000000}: OpOR,
	{OpcodeOp, 0b111, 0b0000000}: OpAND,

	{OpcodeOp, 0b000, 0b0000001}: OpMUL,
	{OpcodeOp, 0b001, 0b0000001}: OpMULH,
	{OpcodeOp, 0b010, 0b0000001}: OpMULHSU,
	{OpcodeOp, 0b011, 0b0000001}: OpMULHU,
	{OpcodeOp, 0b100, 0b0000001}: OpDIV,
	{OpcodeOp, 0b101, 0b0000001}: OpDIVU,
	{OpcodeOp, 0b110, 0b0000001}: OpREM,
	{OpcodeOp, 0b111, 0b0000001}: OpREMU,

	{OpcodeMiscMem, 0b000, wildcard}: OpFENCE,
	{OpcodeMiscMem, 0b001, wildcard}: OpFENCEI,

	{OpcodeAMO, 0b010, 0b00010}: OpLRW,
	{OpcodeAMO, 0b010, 0b00011}: OpSCW,
	{OpcodeAMO, 0b010, 0b00001}: OpAMOSWAPW,
	{OpcodeAMO, 0b010, 0b00000}: OpAMOADDW,
	{OpcodeAMO, 0b010, 0b00100}: OpAMOXORW,
	{OpcodeAMO, 0b010, 0b01100}: OpAMOANDW,
	{OpcodeAMO, 0b010, 0b01000}: OpAMOORW,
	{OpcodeAMO, 0b010, 0b10000}: OpAMOMINW,
	{OpcodeAMO, 0b010, 0b10100}: OpAMOMAXW,
	{OpcodeAMO, 0b010, 0b11000}: OpAMOMINUW,
	{OpcodeAMO, 0b010, 0b11100}: OpAMOMAXUW,
}

// lookupOp resolves a key, falling back to wildcard discriminator and then
// wildcard funct3 entries.
func lookupOp(opcode Opcode, funct3, disc uint8) Op {
	if op, ok := opTable[opKey{opcode, funct3, disc}]; ok {
		return op
	}
	if op, ok := opTable[opKey{opcode, funct3, wildcard}]; ok {
		return op
	}
	if op, ok := opTable[opKey{opcode, wildcard, wildcard}]; ok {
		return op
	}
	return OpUnknown
}
