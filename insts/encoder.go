package insts

// Encode packs instruction fields into a 16-bit word. Each field is masked
// to its width, so out-of-range values wrap instead of spilling into
// neighbouring fields.
func Encode(class Class, fn Func, regW, reg1, operandB uint8) uint16 {
	var word uint16
	word |= (uint16(class) & opcodeMask) << opcodeShift
	word |= (uint16(fn) & funcMask) << funcShift
	word |= (uint16(operandB) & operandBMask) << operandBShift
	word |= (uint16(reg1) & reg1Mask) << reg1Shift
	word |= (uint16(regW) & regWMask) << regWShift
	return word
}

// EncodeInstruction re-encodes a decoded instruction.
func EncodeInstruction(inst Instruction) uint16 {
	return Encode(inst.Class, inst.Func, inst.RegW, inst.Reg1, inst.OperandB)
}

// LI encodes "li rW, imm": reg[regW] = imm.
func LI(regW, imm uint8) uint16 {
	return Encode(ClassLoadImm, 0, regW, 0, imm)
}

// ALU encodes a register-register ALU operation.
func ALU(fn Func, regW, reg1, regB uint8) uint16 {
	return Encode(ClassALUReg, fn, regW, reg1, regB&0b111)
}

// ALUImm encodes a register-immediate ALU operation.
func ALUImm(fn Func, regW, reg1, imm uint8) uint16 {
	return Encode(ClassALUImm, fn, regW, reg1, imm)
}

// ADD encodes "add rW, r1, rB".
func ADD(regW, reg1, regB uint8) uint16 { return ALU(FuncADD, regW, reg1, regB) }

// ADDI encodes "addi rW, r1, imm".
func ADDI(regW, reg1, imm uint8) uint16 { return ALUImm(FuncADD, regW, reg1, imm) }

// AND encodes "and rW, r1, rB".
func AND(regW, reg1, regB uint8) uint16 { return ALU(FuncAND, regW, reg1, regB) }

// ANDI encodes "andi rW, r1, imm".
func ANDI(regW, reg1, imm uint8) uint16 { return ALUImm(FuncAND, regW, reg1, imm) }

// SLL encodes "sll rW, r1, rB".
func SLL(regW, reg1, regB uint8) uint16 { return ALU(FuncSLL, regW, reg1, regB) }

// SLLI encodes "slli rW, r1, imm".
func SLLI(regW, reg1, imm uint8) uint16 { return ALUImm(FuncSLL, regW, reg1, imm) }
