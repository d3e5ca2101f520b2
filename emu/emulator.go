// Package emu provides functional RV32 emulation.
package emu

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/rv32sim/insts"
)

// Outcome classifies the result of a step.
type Outcome uint8

// Step outcomes.
const (
	// OutcomeContinue means the instruction retired and execution can go on.
	OutcomeContinue Outcome = iota
	// OutcomeHalt means the program stopped cleanly (EBREAK, or PC ran past
	// the end of the loaded image).
	OutcomeHalt
	// OutcomeFault means the step failed; StepResult.Err holds a *StepError.
	OutcomeFault
)

func (o Outcome) String() string {
	switch o {
	case OutcomeContinue:
		return "continue"
	case OutcomeHalt:
		return "halt"
	case OutcomeFault:
		return "fault"
	}
	return fmt.Sprintf("Outcome(%d)", uint8(o))
}

// StepResult represents the result of executing a single instruction.
type StepResult struct {
	Outcome Outcome

	// Err is a *StepError if Outcome is OutcomeFault.
	Err error
}

// control tells the step loop how PC moves after a family handler returns.
type control uint8

const (
	controlNext control = iota // advance PC by one word
	controlJump                // handler already set PC
	controlHalt                // leave PC and stop
)

// familyHandler executes one opcode family.
type familyHandler func(e *Emulator, inst insts.Instruction) (control, error)

// families is the closed set of opcode families the dispatcher executes.
var families = map[insts.Opcode]familyHandler{
	insts.OpcodeOpImm:   (*Emulator).executeOpImm,
	insts.OpcodeOp:      (*Emulator).executeOp,
	insts.OpcodeLUI:     (*Emulator).executeLUI,
	insts.OpcodeAUIPC:   (*Emulator).executeAUIPC,
	insts.OpcodeJAL:     (*Emulator).executeJAL,
	insts.OpcodeJALR:    (*Emulator).executeJALR,
	insts.OpcodeBranch:  (*Emulator).executeBranch,
	insts.OpcodeLoad:    (*Emulator).executeLoad,
	insts.OpcodeStore:   (*Emulator).executeStore,
	insts.OpcodeMiscMem: (*Emulator).executeMiscMem,
	insts.OpcodeSystem:  (*Emulator).executeSystem,
	insts.OpcodeAMO:     (*Emulator).executeAMO,
}

// Emulator executes RV32 instructions functionally.
type Emulator struct {
	regFile *RegFile
	memory  *Memory
	decoder *insts.Decoder
	logger  logrus.FieldLogger

	// Execution units
	alu        *ALU
	lsu        *LoadStoreUnit
	branchUnit *BranchUnit
	atomicUnit *AtomicUnit

	// Execution state
	fetchLimit      uint32 // PC at which Step halts
	hasFetchLimit   bool
	maxInstructions uint64 // 0 means no limit
	stats           Stats
}

// EmulatorOption is a functional option for configuring the Emulator.
type EmulatorOption func(*Emulator)

// WithMemory attaches a memory to the emulator.
func WithMemory(memory *Memory) EmulatorOption {
	return func(e *Emulator) {
		e.memory = memory
	}
}

// WithRegFile makes the emulator operate on an existing register file.
func WithRegFile(regFile *RegFile) EmulatorOption {
	return func(e *Emulator) {
		e.regFile = regFile
	}
}

// WithLogger sets the logger used for step tracing and fault reports.
func WithLogger(logger logrus.FieldLogger) EmulatorOption {
	return func(e *Emulator) {
		e.logger = logger
	}
}

// WithMaxInstructions sets the maximum number of instructions to execute.
// A value of 0 means no limit.
func WithMaxInstructions(max uint64) EmulatorOption {
	return func(e *Emulator) {
		e.maxInstructions = max
	}
}

// NewEmulator creates a new RV32 emulator. Without WithMemory it has no
// memory, so fetches, loads and stores fault.
func NewEmulator(opts ...EmulatorOption) *Emulator {
	e := &Emulator{
		regFile: NewRegFile(),
		decoder: insts.NewDecoder(),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		logger := logrus.New()
		logger.SetOutput(io.Discard)
		e.logger = logger
	}

	e.initUnits()

	return e
}

func (e *Emulator) initUnits() {
	e.alu = NewALU(e.regFile)
	e.lsu = NewLoadStoreUnit(e.regFile, e.memory)
	e.branchUnit = NewBranchUnit(e.regFile)
	e.atomicUnit = NewAtomicUnit(e.regFile, e.memory)
}

// RegFile returns the emulator's register file.
func (e *Emulator) RegFile() *RegFile {
	return e.regFile
}

// Memory returns the emulator's memory, which may be nil.
func (e *Emulator) Memory() *Memory {
	return e.memory
}

// InstructionCount returns the number of instructions retired.
func (e *Emulator) InstructionCount() uint64 {
	return e.stats.Retired
}

// SetFetchLimit makes Step halt once PC reaches limit, a word index.
func (e *Emulator) SetFetchLimit(limit uint32) {
	e.fetchLimit = limit
	e.hasFetchLimit = true
}

// ClearFetchLimit lets Step fetch from anywhere in memory.
func (e *Emulator) ClearFetchLimit() {
	e.fetchLimit = 0
	e.hasFetchLimit = false
}

// FetchLimit returns the word index at which Step halts, and whether a
// limit is set.
func (e *Emulator) FetchLimit() (uint32, bool) {
	return e.fetchLimit, e.hasFetchLimit
}

// LoadProgram copies a little-endian program image to addr, points PC at
// its first word and halts execution once PC runs past its last word.
func (e *Emulator) LoadProgram(addr uint32, image []byte) error {
	if addr%4 != 0 {
		return fmt.Errorf("%w: load address 0x%08x", ErrMisalignedAccess, addr)
	}
	if len(image)%4 != 0 {
		return fmt.Errorf("%w: %d bytes", ErrTruncatedImage, len(image))
	}
	if err := e.memory.Write(addr, image); err != nil {
		return err
	}

	e.regFile.PC = addr / 4
	e.SetFetchLimit(e.regFile.PC + uint32(len(image)/4))

	return nil
}

// Reset clears registers, the reservation and the statistics. Memory
// contents and the fetch limit are kept.
func (e *Emulator) Reset() {
	e.regFile.Reset()
	e.stats = Stats{}
	e.initUnits()
}

// Step fetches the word at PC, decodes and executes it.
func (e *Emulator) Step() StepResult {
	pc := e.regFile.PC

	if e.hasFetchLimit && pc >= e.fetchLimit {
		return StepResult{Outcome: OutcomeHalt}
	}

	word, err := e.memory.Read32(pc * 4)
	if err != nil {
		return e.fault(pc, 0, fmt.Errorf("fetch: %w", err))
	}

	return e.StepWord(word)
}

// StepWord decodes and executes word as the instruction at PC.
func (e *Emulator) StepWord(word uint32) StepResult {
	return e.Execute(e.decoder.Decode(word))
}

// Execute dispatches a decoded instruction to its family handler and moves
// PC. A faulting instruction leaves PC unchanged.
func (e *Emulator) Execute(inst insts.Instruction) StepResult {
	pc := e.regFile.PC

	if e.maxInstructions > 0 && e.stats.Retired >= e.maxInstructions {
		return e.fault(pc, inst.Raw, fmt.Errorf("%w: %d", ErrInstructionLimit, e.maxInstructions))
	}

	e.logger.WithFields(logrus.Fields{
		"pc":   pc,
		"word": fmt.Sprintf("0x%08x", inst.Raw),
		"op":   inst.Op,
	}).Debug("step")

	ctl, err := e.dispatch(inst)
	if err != nil {
		e.regFile.PC = pc
		return e.fault(pc, inst.Raw, err)
	}

	e.stats.record(inst, ctl)

	switch ctl {
	case controlNext:
		e.regFile.PC++
	case controlHalt:
		e.logger.WithField("pc", pc).Debug("halted")
		return StepResult{Outcome: OutcomeHalt}
	}

	return StepResult{Outcome: OutcomeContinue}
}

// Run steps until the program halts, faults or ctx is done. It returns nil
// on a clean halt, the *StepError of a fault, or the context error.
func (e *Emulator) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		result := e.Step()
		switch result.Outcome {
		case OutcomeHalt:
			return nil
		case OutcomeFault:
			return result.Err
		}
	}
}

func (e *Emulator) fault(pc, word uint32, err error) StepResult {
	stepErr := &StepError{PC: pc, Word: word, Err: err}

	e.logger.WithFields(logrus.Fields{
		"pc":   pc,
		"word": fmt.Sprintf("0x%08x", word),
		"err":  err,
	}).Warn("fault")

	return StepResult{Outcome: OutcomeFault, Err: stepErr}
}

func (e *Emulator) dispatch(inst insts.Instruction) (control, error) {
	if err := Check(inst); err != nil {
		return controlNext, err
	}
	return families[inst.Opcode](e, inst)
}

// Check reports whether the dispatcher can execute inst, without executing
// it. It returns ErrUnimplementedOpcode when no family handles the opcode
// and ErrIllegalInstruction when the fields name no operation.
func Check(inst insts.Instruction) error {
	if _, ok := families[inst.Opcode]; !ok {
		return fmt.Errorf("%w: %v", ErrUnimplementedOpcode, inst.Opcode)
	}
	if inst.Op == insts.OpUnknown {
		return fmt.Errorf("%w: %v funct3=%03b funct7=%07b",
			ErrIllegalInstruction, inst.Opcode, inst.Funct3, inst.Funct7)
	}
	if inst.Op == insts.OpECALL {
		// Environment calls trap to a supervisor, which this core does not model.
		return fmt.Errorf("%w: ecall", ErrUnimplementedOpcode)
	}
	return nil
}

func (e *Emulator) executeOpImm(inst insts.Instruction) (control, error) {
	return controlNext, e.alu.ExecuteImm(inst)
}

func (e *Emulator) executeOp(inst insts.Instruction) (control, error) {
	return controlNext, e.alu.ExecuteReg(inst)
}

func (e *Emulator) executeLUI(inst insts.Instruction) (control, error) {
	return controlNext, e.alu.LUI(inst.Rd, inst.Imm)
}

func (e *Emulator) executeAUIPC(inst insts.Instruction) (control, error) {
	return controlNext, e.alu.AUIPC(inst.Rd, inst.Imm)
}

func (e *Emulator) executeJAL(inst insts.Instruction) (control, error) {
	return controlJump, e.branchUnit.JAL(inst.Rd, inst.Imm)
}

func (e *Emulator) executeJALR(inst insts.Instruction) (control, error) {
	return controlJump, e.branchUnit.JALR(inst.Rd, inst.Rs1, inst.Imm)
}

func (e *Emulator) executeBranch(inst insts.Instruction) (control, error) {
	taken, err := e.branchUnit.Branch(inst)
	if taken {
		return controlJump, err
	}
	return controlNext, err
}

func (e *Emulator) executeLoad(inst insts.Instruction) (control, error) {
	return controlNext, e.lsu.Load(inst)
}

func (e *Emulator) executeStore(inst insts.Instruction) (control, error) {
	return controlNext, e.lsu.Store(inst)
}

// executeMiscMem handles FENCE and FENCE.I. A single hart without caches
// observes its own accesses in order, so both are no-ops.
func (e *Emulator) executeMiscMem(inst insts.Instruction) (control, error) {
	return controlNext, nil
}

func (e *Emulator) executeSystem(inst insts.Instruction) (control, error) {
	if inst.Op == insts.OpEBREAK {
		return controlHalt, nil
	}
	return controlNext, fmt.Errorf("%w: %v", ErrIllegalInstruction, inst.Op)
}

func (e *Emulator) executeAMO(inst insts.Instruction) (control, error) {
	return controlNext, e.atomicUnit.Execute(inst)
}

// Step executes a single instruction word against regFile with no memory
// attached. Loads, stores and atomics fault with ErrMemoryFault.
func Step(regFile *RegFile, word uint32) StepResult {
	return NewEmulator(WithRegFile(regFile)).StepWord(word)
}
