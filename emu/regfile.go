// Package emu provides functional TT16 emulation.
package emu

import "github.com/sarchlab/tt16sim/insts"

// RegFile represents the TT16 register file.
// It contains eight 8-bit general-purpose registers (R0-R7). Unlike many
// ISAs, R0 is not hardwired to zero.
type RegFile struct {
	// R holds general-purpose registers R0-R7.
	R [insts.NumRegs]uint8
}

const regIndexMask = insts.NumRegs - 1

// ReadReg reads a register value. The index is taken modulo 8, matching
// the 3-bit register fields of the encoding.
func (r *RegFile) ReadReg(reg uint8) uint8 {
	return r.R[reg&regIndexMask]
}

// WriteReg writes a value to a register.
func (r *RegFile) WriteReg(reg uint8, value uint8) {
	r.R[reg&regIndexMask] = value
}

// Reset clears every register to zero.
func (r *RegFile) Reset() {
	r.R = [insts.NumRegs]uint8{}
}

// Snapshot returns a copy of all registers.
func (r *RegFile) Snapshot() [insts.NumRegs]uint8 {
	return r.R
}
