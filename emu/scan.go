package emu

import (
	"fmt"

	"github.com/sarchlab/rv32sim/insts"
)

// ScanFinding is a word the dispatcher would reject.
type ScanFinding struct {
	Index uint32 // Word index within the scanned program
	Inst  insts.Instruction
	Err   error // Wraps ErrUnimplementedOpcode or ErrIllegalInstruction
}

func (f ScanFinding) String() string {
	return fmt.Sprintf("%d: 0x%08x %v", f.Index, f.Inst.Raw, f.Err)
}

// Scan decodes every word of a program and reports each one that Execute
// would reject, without executing anything.
func Scan(words []uint32) []ScanFinding {
	decoder := insts.NewDecoder()

	var findings []ScanFinding
	for i, word := range words {
		inst := decoder.Decode(word)
		if err := Check(inst); err != nil {
			findings = append(findings, ScanFinding{
				Index: uint32(i),
				Inst:  inst,
				Err:   err,
			})
		}
	}

	return findings
}
