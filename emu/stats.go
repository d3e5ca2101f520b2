package emu

import (
	"fmt"

	"github.com/sarchlab/rv32sim/insts"
)

// Stats is the instruction mix of a run.
type Stats struct {
	// Retired is the number of instructions that completed.
	Retired uint64
	// ByClass counts retired instructions per class.
	ByClass [insts.NumClasses]uint64
	// MemoryOps counts retired loads, stores and atomics.
	MemoryOps uint64
	// TakenBranches counts conditional branches that moved PC.
	TakenBranches uint64
	// ControlTransfers counts taken branches and jumps.
	ControlTransfers uint64
}

// Stats returns the instruction mix since creation or the last Reset.
func (e *Emulator) Stats() Stats {
	return e.stats
}

// record counts a retired instruction.
func (s *Stats) record(inst insts.Instruction, ctl control) {
	s.Retired++
	s.ByClass[inst.Op.Class()]++
	if inst.Op.IsMemoryOp() {
		s.MemoryOps++
	}
	if inst.Op.IsControlOp() && ctl == controlJump {
		s.ControlTransfers++
		if inst.Op.Class() == insts.ClassBranch {
			s.TakenBranches++
		}
	}
}

// Lines renders the retired count and the non-zero counters, one per line.
func (s Stats) Lines() []string {
	lines := []string{fmt.Sprintf("retired: %d", s.Retired)}
	for c := insts.Class(0); c < insts.NumClasses; c++ {
		if s.ByClass[c] == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %d", c, s.ByClass[c]))
	}
	if s.MemoryOps > 0 {
		lines = append(lines, fmt.Sprintf("memory ops: %d", s.MemoryOps))
	}
	if s.ByClass[insts.ClassBranch] > 0 {
		lines = append(lines, fmt.Sprintf("taken branches: %d", s.TakenBranches))
	}
	if s.ControlTransfers > 0 {
		lines = append(lines, fmt.Sprintf("control transfers: %d", s.ControlTransfers))
	}
	return lines
}
