// Package insts provides TT16 instruction definitions, decoding, encoding
// and a small text assembler.
//
// Every TT16 instruction is a single 16-bit word:
//
//	15   13 12   10 9        6 5      2 1    0
//	+------+-------+----------+--------+------+
//	| regw | reg1  | operandB |  func  |  op  |
//	+------+-------+----------+--------+------+
//
// operandB is a 4-bit immediate for the load-immediate and
// register-immediate classes, and a register index (low 3 bits) for the
// register-register class. Every word decodes; there is no illegal encoding.
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst := decoder.Decode(0x00C2) // li r0, 3
//	fmt.Printf("Class: %v, RegW: %d, Imm: %d\n", inst.Class, inst.RegW, inst.Imm())
package insts
