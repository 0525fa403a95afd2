package benchmarks

import "github.com/sarchlab/tt16sim/insts"

// GetMicrobenchmarks returns the standard set of microprograms.
// Each targets one instruction class or ALU function. Expected outputs
// assume the default configuration (reference shift rule, reserved
// opcode as no-op).
func GetMicrobenchmarks() []Benchmark {
	return []Benchmark{
		referenceBench(),
		arithmeticSequential(),
		dependencyChain(),
		doubling(),
		fibonacci(),
		maskChain(),
		shiftSweep(),
		reservedNops(),
	}
}

// GetCoreBenchmarks returns a minimal set for quick validation.
func GetCoreBenchmarks() []Benchmark {
	return []Benchmark{
		referenceBench(),
		dependencyChain(),
		fibonacci(),
	}
}

// BuildProgram collects instruction words into a program.
func BuildProgram(words ...uint16) []uint16 {
	return words
}

// 1. Reference - the stimulus of the original hardware bench
func referenceBench() Benchmark {
	return Benchmark{
		Name:        "reference",
		Description: "LI, LI, ADD, ADDI, SLL, AND from the original bench",
		Program: BuildProgram(
			insts.LI(0, 3),
			insts.LI(1, 4),
			insts.ADD(2, 0, 1),
			insts.ADDI(3, 0, 2),
			insts.SLL(4, 0, 1),
			insts.AND(5, 0, 1),
		),
		ExpectedOutput: 0x00,
	}
}

// 2. Arithmetic Sequential - independent immediate adds across registers
func arithmeticSequential() Benchmark {
	var words []uint16
	for round := 0; round < 4; round++ {
		for r := uint8(0); r < 5; r++ {
			words = append(words, insts.ADDI(r, r, 1))
		}
	}

	return Benchmark{
		Name:           "arithmetic_sequential",
		Description:    "20 independent ADDI operations over r0-r4",
		Program:        words,
		ExpectedOutput: 4, // r4 = 4*1
	}
}

// 3. Dependency Chain - every instruction reads the previous result
func dependencyChain() Benchmark {
	return Benchmark{
		Name:           "dependency_chain",
		Description:    "20 dependent ADDIs (r0 = r0 + 1)",
		Program:        buildDependencyChain(20),
		ExpectedOutput: 20,
	}
}

func buildDependencyChain(n int) []uint16 {
	words := []uint16{insts.LI(0, 0)}
	for i := 0; i < n; i++ {
		words = append(words, insts.ADDI(0, 0, 1))
	}
	return words
}

// 4. Doubling - register-register ADD up to the top bit
func doubling() Benchmark {
	words := []uint16{insts.LI(0, 1)}
	for i := 0; i < 7; i++ {
		words = append(words, insts.ADD(0, 0, 0))
	}

	return Benchmark{
		Name:           "doubling",
		Description:    "r0 = 1 doubled seven times with ADD",
		Program:        words,
		ExpectedOutput: 0x80,
	}
}

// 5. Fibonacci - rotating three registers, ends with an 8-bit wrap
func fibonacci() Benchmark {
	return Benchmark{
		Name:        "fibonacci",
		Description: "Fibonacci in r0-r2 until 377 wraps to 121",
		Program: BuildProgram(
			insts.LI(0, 1),
			insts.LI(1, 1),
			insts.ADD(2, 0, 1), // 2
			insts.ADD(0, 1, 2), // 3
			insts.ADD(1, 2, 0), // 5
			insts.ADD(2, 0, 1), // 8
			insts.ADD(0, 1, 2), // 13
			insts.ADD(1, 2, 0), // 21
			insts.ADD(2, 0, 1), // 34
			insts.ADD(0, 1, 2), // 55
			insts.ADD(1, 2, 0), // 89
			insts.ADD(2, 0, 1), // 144
			insts.ADD(0, 1, 2), // 233
			insts.ADD(1, 2, 0), // 377 mod 256
		),
		ExpectedOutput: 0x79,
	}
}

// 6. Mask Chain - AND with register and immediate operands
func maskChain() Benchmark {
	return Benchmark{
		Name:        "mask_chain",
		Description: "ANDI/AND narrowing 0xF to 0x2",
		Program: BuildProgram(
			insts.LI(0, 15),
			insts.ANDI(1, 0, 0b1010), // 0xA
			insts.AND(2, 1, 0),       // 0xA
			insts.ANDI(3, 2, 0b0011), // 0x2
		),
		ExpectedOutput: 0x02,
	}
}

// 7. Shift Sweep - SLL through the reference shifter
func shiftSweep() Benchmark {
	return Benchmark{
		Name:        "shift_sweep",
		Description: "SLL and SLLI through the reference shifter",
		Program: BuildProgram(
			insts.LI(0, 1),
			insts.LI(1, 4),
			insts.SLL(2, 0, 1),  // (1 << 4) >> 1 = 8
			insts.SLLI(3, 2, 2), // (8 << 2) >> 1 = 16
			insts.SLLI(4, 3, 3), // (16 << 3) >> 1 = 64
		),
		ExpectedOutput: 0x40,
	}
}

// 8. Reserved No-ops - opcode 00 leaves state and output untouched
func reservedNops() Benchmark {
	words := []uint16{insts.LI(0, 7)}
	for i := 0; i < 8; i++ {
		words = append(words, insts.Encode(insts.ClassReserved, insts.Func(i), uint8(i), 0, 0))
	}

	return Benchmark{
		Name:           "reserved_nops",
		Description:    "Eight reserved-class words after LI",
		Program:        words,
		ExpectedOutput: 7,
	}
}
