// Package emu provides functional TT16 emulation.
package emu

import (
	"log/slog"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/tt16sim/config"
	"github.com/sarchlab/tt16sim/insts"
)

// ReservedPolicy selects how the reserved opcode class is executed.
type ReservedPolicy uint8

const (
	// ReservedNop leaves the registers unchanged and re-latches the current
	// output. The instruction still counts as retired.
	ReservedNop ReservedPolicy = iota
	// ReservedTrap rejects the instruction with an UnspecifiedBehaviorError.
	ReservedTrap
)

// StepResult represents the result of executing a single instruction.
type StepResult struct {
	// Inst is the decoded instruction.
	Inst insts.Instruction

	// Output is the output latch after the instruction.
	Output uint8

	// Err is set if the instruction did not complete.
	Err error
}

// Emulator executes TT16 instructions functionally, one at a time.
// Each Emulator owns its state; independent emulators can run
// concurrently, but a single Emulator must not be shared across goroutines.
type Emulator struct {
	*sim.HookableBase

	regFile *RegFile
	decoder *insts.Decoder
	alu     *ALU
	shifter ShiftRule
	logger  *slog.Logger

	// Output latch
	output uint8

	reservedPolicy   ReservedPolicy
	instructionCount uint64
	maxInstructions  uint64 // 0 means no limit
}

// EmulatorOption is a functional option for configuring the Emulator.
type EmulatorOption func(*Emulator)

// WithReservedPolicy sets how opcode 00 is executed.
func WithReservedPolicy(policy ReservedPolicy) EmulatorOption {
	return func(e *Emulator) {
		e.reservedPolicy = policy
	}
}

// WithShiftRule sets the rule used by the SLL function.
func WithShiftRule(rule ShiftRule) EmulatorOption {
	return func(e *Emulator) {
		e.shifter = rule
	}
}

// WithLogger sets the logger for diagnostics.
func WithLogger(logger *slog.Logger) EmulatorOption {
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

// WithConfig applies a validated configuration.
func WithConfig(cfg *config.Config) EmulatorOption {
	return func(e *Emulator) {
		if cfg.ReservedPolicy == config.ReservedTrap {
			e.reservedPolicy = ReservedTrap
		} else {
			e.reservedPolicy = ReservedNop
		}

		if cfg.ShiftRule == config.ShiftLogical {
			e.shifter = LogicalShift{}
		} else {
			e.shifter = ReferenceShift{}
		}

		e.maxInstructions = cfg.MaxInstructions
	}
}

// NewEmulator creates a new TT16 emulator in its reset state.
func NewEmulator(opts ...EmulatorOption) *Emulator {
	e := &Emulator{
		HookableBase: sim.NewHookableBase(),
		regFile:      &RegFile{},
		decoder:      insts.NewDecoder(),
		shifter:      ReferenceShift{},
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		opt(e)
	}

	e.alu = NewALU(e.shifter)

	return e
}

// RegFile returns the emulator's register file.
func (e *Emulator) RegFile() *RegFile {
	return e.regFile
}

// Output returns the current value of the output latch.
func (e *Emulator) Output() uint8 {
	return e.output
}

// InstructionCount returns the number of instructions retired since reset.
func (e *Emulator) InstructionCount() uint64 {
	return e.instructionCount
}

// Reset zeroes the registers, the output latch and the instruction count.
func (e *Emulator) Reset() {
	e.regFile.Reset()
	e.output = 0
	e.instructionCount = 0
}

// Step executes a single instruction word to completion.
func (e *Emulator) Step(word uint16) StepResult {
	if e.maxInstructions > 0 && e.instructionCount >= e.maxInstructions {
		return StepResult{Err: ErrMaxInstructions}
	}

	inst := e.decoder.Decode(word)

	result := e.execute(inst)
	if result.Err != nil {
		return result
	}

	e.instructionCount++
	e.retire(inst)

	return result
}

// Execute issues one instruction word and returns the output latch after
// write-back.
func (e *Emulator) Execute(word uint16) (uint8, error) {
	result := e.Step(word)
	return result.Output, result.Err
}

// Run executes words in order and returns the output latch sampled after
// each one. It stops at the first error; the outputs retired before the
// error are returned with it.
func (e *Emulator) Run(words []uint16) ([]uint8, error) {
	outputs := make([]uint8, 0, len(words))

	for _, word := range words {
		out, err := e.Execute(word)
		if err != nil {
			return outputs, err
		}
		outputs = append(outputs, out)
	}

	return outputs, nil
}

// execute dispatches a decoded instruction on its class.
func (e *Emulator) execute(inst insts.Instruction) StepResult {
	var value uint8

	switch inst.Class {
	case insts.ClassLoadImm:
		value = inst.Imm()
	case insts.ClassALUImm:
		e.checkFunc(inst)
		value = e.alu.Compute(inst.Func, e.regFile.ReadReg(inst.Reg1), inst.Imm())
	case insts.ClassALUReg:
		e.checkFunc(inst)
		value = e.alu.Compute(inst.Func,
			e.regFile.ReadReg(inst.Reg1), e.regFile.ReadReg(inst.RegB()))
	default:
		return e.executeReserved(inst)
	}

	// Write-back, then latch.
	e.regFile.WriteReg(inst.RegW, value)
	e.output = value

	return StepResult{Inst: inst, Output: e.output}
}

func (e *Emulator) executeReserved(inst insts.Instruction) StepResult {
	if e.reservedPolicy == ReservedTrap {
		return StepResult{
			Inst:   inst,
			Output: e.output,
			Err:    &UnspecifiedBehaviorError{Word: inst.Word},
		}
	}

	e.logger.Debug("reserved opcode executed as no-op",
		slog.Uint64("seq", e.instructionCount+1),
		slog.Int("word", int(inst.Word)))

	return StepResult{Inst: inst, Output: e.output}
}

func (e *Emulator) checkFunc(inst insts.Instruction) {
	if inst.Func.Assigned() {
		return
	}

	e.logger.Debug("unassigned ALU function",
		slog.Int("func", int(inst.Func)),
		slog.String("inst", inst.String()))
}

// retire notifies the hooks once the instruction has completed.
func (e *Emulator) retire(inst insts.Instruction) {
	if e.NumHooks() == 0 {
		return
	}

	e.InvokeHook(sim.HookCtx{
		Domain: e,
		Pos:    HookPosRetire,
		Item: &RetireEvent{
			Seq:    e.instructionCount,
			Inst:   inst,
			Output: e.output,
			Regs:   e.regFile.Snapshot(),
		},
	})
}
