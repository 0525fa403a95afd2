// Package insts provides TT16 instruction definitions and decoding.
package insts

import "fmt"

// Class is the instruction class selected by the 2-bit opcode field.
type Class uint8

// Instruction classes.
const (
	ClassReserved Class = 0b00 // No reference behavior
	ClassALUImm   Class = 0b01 // reg[regw] = alu(func, reg[reg1], imm)
	ClassLoadImm  Class = 0b10 // reg[regw] = imm
	ClassALUReg   Class = 0b11 // reg[regw] = alu(func, reg[reg1], reg[regb])
)

func (c Class) String() string {
	switch c {
	case ClassReserved:
		return "reserved"
	case ClassALUImm:
		return "alu-imm"
	case ClassLoadImm:
		return "load-imm"
	case ClassALUReg:
		return "alu-reg"
	}
	return fmt.Sprintf("Class(%d)", uint8(c))
}

// Func is the 4-bit ALU function selector.
type Func uint8

// Confirmed ALU functions. The remaining 13 codes are unassigned.
const (
	FuncAND Func = 0b0000
	FuncADD Func = 0b0110
	FuncSLL Func = 0b1110
)

// Assigned reports whether the function code has known ALU behavior.
func (f Func) Assigned() bool {
	return f == FuncAND || f == FuncADD || f == FuncSLL
}

// Mnemonic returns the register-register mnemonic of the function.
func (f Func) Mnemonic() string {
	switch f {
	case FuncAND:
		return "and"
	case FuncADD:
		return "add"
	case FuncSLL:
		return "sll"
	}
	return fmt.Sprintf("alu.%d", uint8(f))
}

// ImmMnemonic returns the register-immediate mnemonic of the function.
func (f Func) ImmMnemonic() string {
	if !f.Assigned() {
		return fmt.Sprintf("alui.%d", uint8(f))
	}
	return f.Mnemonic() + "i"
}

func (f Func) String() string {
	return f.Mnemonic()
}

// Field positions and widths.
const (
	opcodeShift   = 0
	opcodeMask    = 0b11
	funcShift     = 2
	funcMask      = 0b1111
	operandBShift = 6
	operandBMask  = 0b1111
	reg1Shift     = 10
	reg1Mask      = 0b111
	regWShift     = 13
	regWMask      = 0b111

	// NumRegs is the number of general purpose registers.
	NumRegs = 8
	// MaxImm is the largest encodable immediate.
	MaxImm = operandBMask
)

// Instruction represents a decoded TT16 instruction.
type Instruction struct {
	Word uint16 // Raw instruction word

	Class    Class // Instruction class (bits [1:0])
	Func     Func  // ALU function (bits [5:2])
	OperandB uint8 // Immediate or second source register (bits [9:6])
	Reg1     uint8 // First source register (bits [12:10])
	RegW     uint8 // Destination register (bits [15:13])
}

// Imm returns operandB as a zero-extended immediate.
func (i Instruction) Imm() uint8 {
	return i.OperandB
}

// RegB returns operandB as a register index.
func (i Instruction) RegB() uint8 {
	return i.OperandB & 0b111
}

// String disassembles the instruction.
func (i Instruction) String() string {
	switch i.Class {
	case ClassLoadImm:
		return fmt.Sprintf("li r%d, %d", i.RegW, i.Imm())
	case ClassALUImm:
		return fmt.Sprintf("%s r%d, r%d, %d", i.Func.ImmMnemonic(), i.RegW, i.Reg1, i.Imm())
	case ClassALUReg:
		return fmt.Sprintf("%s r%d, r%d, r%d", i.Func.Mnemonic(), i.RegW, i.Reg1, i.RegB())
	}
	return fmt.Sprintf(".word 0x%04X", i.Word)
}

// Decoder decodes TT16 machine words into instructions.
type Decoder struct{}

// NewDecoder creates a new TT16 instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode splits a 16-bit instruction word into its fields.
// It never fails and does not allocate.
func (d *Decoder) Decode(word uint16) Instruction {
	return Instruction{
		Word:     word,
		Class:    Class((word >> opcodeShift) & opcodeMask),
		Func:     Func((word >> funcShift) & funcMask),
		OperandB: uint8((word >> operandBShift) & operandBMask),
		Reg1:     uint8((word >> reg1Shift) & reg1Mask),
		RegW:     uint8((word >> regWShift) & regWMask),
	}
}
