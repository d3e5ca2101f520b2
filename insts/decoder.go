package insts

import "fmt"

// Instruction represents a decoded RV32 instruction.
//
// Every format produces the same record shape. Fields a format does not use
// are left zero, so an executor can branch on Opcode and Op alone.
type Instruction struct {
	Raw    uint32 // Instruction word as fetched
	Opcode Opcode // Major opcode, bits [6:0]
	Format Format // Encoding format selected by Opcode
	Op     Op     // Resolved operation, OpUnknown if the fields have no meaning

	Rd     uint8 // Destination register, bits [11:7]
	Rs1    uint8 // First source register, bits [19:15]
	Rs2    uint8 // Second source register, bits [24:20]
	Funct3 uint8 // Sub-operation, bits [14:12]
	Funct7 uint8 // R-type discriminator, bits [31:25]; imm[11:5] for shifts

	// Imm is the immediate operand, already sign-extended (I, S, B, J),
	// positioned in the upper 20 bits (U), or the shift amount (I-shift).
	Imm uint32

	// Shift-immediate fields.
	Shamt uint8 // Shift amount, imm[4:0]
	Arith bool  // Arithmetic right shift discriminator, imm[10]
}

// Decoder decodes RV32 machine code into instructions.
type Decoder struct{}

// NewDecoder creates a new RV32 instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes a 32-bit RV32 instruction word. It never fails: words that
// do not name a known operation come back with Op set to OpUnknown.
func (d *Decoder) Decode(word uint32) Instruction {
	inst := Instruction{
		Raw:    word,
		Opcode: opcodeOf(word),
	}

	switch inst.Opcode {
	case OpcodeOp, OpcodeAMO:
		d.decodeR(word, &inst)
	case OpcodeOpImm:
		if f3 := funct3Of(word); f3 == 0b001 || f3 == 0b101 {
			d.decodeIShift(word, &inst)
		} else {
			d.decodeI(word, &inst)
		}
	case OpcodeLoad, OpcodeJALR, OpcodeMiscMem, OpcodeSystem:
		d.decodeI(word, &inst)
	case OpcodeStore:
		d.decodeS(word, &inst)
	case OpcodeBranch:
		d.decodeB(word, &inst)
	case OpcodeLUI, OpcodeAUIPC:
		d.decodeU(word, &inst)
	case OpcodeJAL:
		d.decodeJ(word, &inst)
	default:
		inst.Format = FormatUnknown
		return inst
	}

	inst.Op = d.resolve(&inst)

	return inst
}

// decodeR decodes register-register and atomic instructions.
// Format: funct7 | rs2 | rs1 | funct3 | rd | opcode
func (d *Decoder) decodeR(word uint32, inst *Instruction) {
	inst.Format = FormatR
	inst.Rd = rdOf(word)
	inst.Funct3 = funct3Of(word)
	inst.Rs1 = rs1Of(word)
	inst.Rs2 = rs2Of(word)
	inst.Funct7 = funct7Of(word)
}

// decodeI decodes register-immediate, load, JALR, FENCE and SYSTEM
// instructions.
// Format: imm[11:0] | rs1 | funct3 | rd | opcode
func (d *Decoder) decodeI(word uint32, inst *Instruction) {
	inst.Format = FormatI
	inst.Rd = rdOf(word)
	inst.Funct3 = funct3Of(word)
	inst.Rs1 = rs1Of(word)
	inst.Imm = immI(word)
}

// decodeIShift decodes SLLI, SRLI and SRAI.
// Format: imm[11:5] | shamt | rs1 | funct3 | rd | opcode
// imm[10] selects an arithmetic right shift.
func (d *Decoder) decodeIShift(word uint32, inst *Instruction) {
	inst.Format = FormatIShift
	inst.Rd = rdOf(word)
	inst.Funct3 = funct3Of(word)
	inst.Rs1 = rs1Of(word)
	inst.Funct7 = funct7Of(word)
	inst.Shamt = uint8(field(word, 24, 20))
	inst.Arith = field(word, 30, 30) == 1
	inst.Imm = uint32(inst.Shamt)
}

// decodeS decodes stores.
// Format: imm[11:5] | rs2 | rs1 | funct3 | imm[4:0] | opcode
func (d *Decoder) decodeS(word uint32, inst *Instruction) {
	inst.Format = FormatS
	inst.Funct3 = funct3Of(word)
	inst.Rs1 = rs1Of(word)
	inst.Rs2 = rs2Of(word)
	inst.Imm = immS(word)
}

// decodeB decodes conditional branches.
// Format: imm[12|10:5] | rs2 | rs1 | funct3 | imm[4:1|11] | opcode
func (d *Decoder) decodeB(word uint32, inst *Instruction) {
	inst.Format = FormatB
	inst.Funct3 = funct3Of(word)
	inst.Rs1 = rs1Of(word)
	inst.Rs2 = rs2Of(word)
	inst.Imm = immB(word)
}

// decodeU decodes LUI and AUIPC.
// Format: imm[31:12] | rd | opcode
func (d *Decoder) decodeU(word uint32, inst *Instruction) {
	inst.Format = FormatU
	inst.Rd = rdOf(word)
	inst.Imm = immU(word)
}

// decodeJ decodes JAL.
// Format: imm[20|10:1|11|19:12] | rd | opcode
func (d *Decoder) decodeJ(word uint32, inst *Instruction) {
	inst.Format = FormatJ
	inst.Rd = rdOf(word)
	inst.Imm = immJ(word)
}

// resolve maps the decoded fields to an operation.
func (d *Decoder) resolve(inst *Instruction) Op {
	switch inst.Opcode {
	case OpcodeSystem:
		// ECALL and EBREAK share funct3 000 and differ only in imm.
		if inst.Funct3 != 0 || inst.Rs1 != 0 || inst.Rd != 0 {
			return OpUnknown
		}
		switch inst.Imm {
		case 0:
			return OpECALL
		case 1:
			return OpEBREAK
		}
		return OpUnknown
	case OpcodeAMO:
		// funct7 = funct5 | aq | rl
		op := lookupOp(inst.Opcode, inst.Funct3, inst.Funct7>>2)
		if op == OpLRW && inst.Rs2 != 0 {
			return OpUnknown
		}
		return op
	case OpcodeOpImm:
		if inst.Format == FormatIShift {
			// Only imm[10] selects between the shift variants.
			var disc uint8
			if inst.Arith {
				disc = shiftArith
			}
			return lookupOp(inst.Opcode, inst.Funct3, disc)
		}
		return lookupOp(inst.Opcode, inst.Funct3, inst.Funct7)
	case OpcodeOp:
		return lookupOp(inst.Opcode, inst.Funct3, inst.Funct7)
	default:
		return lookupOp(inst.Opcode, inst.Funct3, 0)
	}
}

// String renders the instruction in assembler syntax.
func (inst Instruction) String() string {
	if inst.Op == OpUnknown {
		return fmt.Sprintf("unknown 0x%08x (%v)", inst.Raw, inst.Opcode)
	}

	switch inst.Format {
	case FormatR:
		if inst.Opcode == OpcodeAMO {
			if inst.Op == OpLRW {
				return fmt.Sprintf("%v x%d, (x%d)", inst.Op, inst.Rd, inst.Rs1)
			}
			return fmt.Sprintf("%v x%d, x%d, (x%d)", inst.Op, inst.Rd, inst.Rs2, inst.Rs1)
		}
		return fmt.Sprintf("%v x%d, x%d, x%d", inst.Op, inst.Rd, inst.Rs1, inst.Rs2)
	case FormatIShift:
		return fmt.Sprintf("%v x%d, x%d, %d", inst.Op, inst.Rd, inst.Rs1, inst.Shamt)
	case FormatI:
		switch inst.Opcode {
		case OpcodeLoad, OpcodeJALR:
			return fmt.Sprintf("%v x%d, %d(x%d)", inst.Op, inst.Rd, int32(inst.Imm), inst.Rs1)
		case OpcodeMiscMem, OpcodeSystem:
			return inst.Op.String()
		}
		return fmt.Sprintf("%v x%d, x%d, %d", inst.Op, inst.Rd, inst.Rs1, int32(inst.Imm))
	case FormatS:
		return fmt.Sprintf("%v x%d, %d(x%d)", inst.Op, inst.Rs2, int32(inst.Imm), inst.Rs1)
	case FormatB:
		return fmt.Sprintf("%v x%d, x%d, %d", inst.Op, inst.Rs1, inst.Rs2, int32(inst.Imm))
	case FormatU:
		return fmt.Sprintf("%v x%d, 0x%x", inst.Op, inst.Rd, inst.Imm>>12)
	case FormatJ:
		return fmt.Sprintf("%v x%d, %d", inst.Op, inst.Rd, int32(inst.Imm))
	}

	return inst.Op.String()
}
