package emu

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/tt16sim/config"
	"github.com/sarchlab/tt16sim/insts"
)

// HookPosRetire marks when an instruction has written back and latched its
// result.
var HookPosRetire = &sim.HookPos{Name: "Inst Retire"}

// RetireEvent is the hook item passed at HookPosRetire.
type RetireEvent struct {
	// Seq is the 1-based position of the instruction since the last reset.
	Seq uint64
	// Inst is the retired instruction.
	Inst insts.Instruction
	// Output is the output latch after write-back.
	Output uint8
	// Regs is the register file after write-back.
	Regs [insts.NumRegs]uint8
}

// TraceHook logs every retired instruction at config.LevelTrace.
type TraceHook struct {
	logger *slog.Logger
}

// NewTraceHook creates a TraceHook writing to logger, or to slog.Default()
// when logger is nil.
func NewTraceHook(logger *slog.Logger) *TraceHook {
	if logger == nil {
		logger = slog.Default()
	}
	return &TraceHook{logger: logger}
}

// Func implements sim.Hook.
func (h *TraceHook) Func(ctx sim.HookCtx) {
	if ctx.Pos != HookPosRetire {
		return
	}

	evt, ok := ctx.Item.(*RetireEvent)
	if !ok {
		return
	}

	h.logger.Log(context.Background(), config.LevelTrace, "retire",
		slog.Uint64("seq", evt.Seq),
		slog.String("word", fmt.Sprintf("0x%04X", evt.Inst.Word)),
		slog.String("inst", evt.Inst.String()),
		slog.String("out", fmt.Sprintf("0x%02X", evt.Output)),
		slog.Any("regs", evt.Regs),
	)
}
