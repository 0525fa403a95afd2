// Package emu provides functional TT16 emulation.
package emu

import "github.com/sarchlab/tt16sim/insts"

// ShiftRule computes the SLL function of the ALU.
type ShiftRule interface {
	Shift(a, b uint8) uint8
}

// ReferenceShift reproduces the shifter observed in the reference vectors,
// where 3 SLL 4 yields 0x18: the operand is shifted by the low four bits of
// b inside a wider accumulator and the accumulator is then halved.
// Only one vector constrains this rule.
type ReferenceShift struct{}

// Shift returns ((a << (b & 0xF)) >> 1) truncated to 8 bits.
func (ReferenceShift) Shift(a, b uint8) uint8 {
	return uint8((uint32(a) << (b & 0xF)) >> 1)
}

// LogicalShift is a conventional logical left shift.
type LogicalShift struct{}

// Shift returns a << b. Shifts of 8 or more yield 0.
func (LogicalShift) Shift(a, b uint8) uint8 {
	return a << b
}

// ALU implements the TT16 arithmetic and logic operations on 8-bit values.
type ALU struct {
	shifter ShiftRule
}

// NewALU creates a new ALU using the given shift rule. A nil rule selects
// ReferenceShift.
func NewALU(shifter ShiftRule) *ALU {
	if shifter == nil {
		shifter = ReferenceShift{}
	}
	return &ALU{shifter: shifter}
}

// Compute applies the function selected by fn to x and y.
// Unassigned function codes produce 0.
func (a *ALU) Compute(fn insts.Func, x, y uint8) uint8 {
	switch fn {
	case insts.FuncADD:
		return a.ADD(x, y)
	case insts.FuncAND:
		return a.AND(x, y)
	case insts.FuncSLL:
		return a.SLL(x, y)
	}
	return 0
}

// ADD performs 8-bit addition. The carry out is discarded.
func (a *ALU) ADD(x, y uint8) uint8 {
	return x + y
}

// AND performs bitwise AND.
func (a *ALU) AND(x, y uint8) uint8 {
	return x & y
}

// SLL performs a left shift through the configured shift rule.
func (a *ALU) SLL(x, y uint8) uint8 {
	return a.shifter.Shift(x, y)
}
