package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tt16sim/insts"
)

var _ = Describe("Decoder", func() {
	var decoder *insts.Decoder

	BeforeEach(func() {
		decoder = insts.NewDecoder()
	})

	Describe("Load Immediate", func() {
		// li r0, 3           -> 0x00C2
		// Encoding: regw=0, reg1=0, operandB=3, func=0, op=10
		It("should decode li r0, 3", func() {
			inst := decoder.Decode(0x00C2)

			Expect(inst.Class).To(Equal(insts.ClassLoadImm))
			Expect(inst.RegW).To(Equal(uint8(0)))
			Expect(inst.Imm()).To(Equal(uint8(3)))
			Expect(inst.Word).To(Equal(uint16(0x00C2)))
		})

		// li r1, 4           -> 0x2102
		// Encoding: regw=1, reg1=0, operandB=4, func=0, op=10
		It("should decode li r1, 4", func() {
			inst := decoder.Decode(0x2102)

			Expect(inst.Class).To(Equal(insts.ClassLoadImm))
			Expect(inst.RegW).To(Equal(uint8(1)))
			Expect(inst.Imm()).To(Equal(uint8(4)))
		})
	})

	Describe("Register-Register ALU", func() {
		// add r2, r0, r1     -> 0x405B
		// Encoding: regw=2, reg1=0, operandB=1, func=0110, op=11
		It("should decode add r2, r0, r1", func() {
			inst := decoder.Decode(0x405B)

			Expect(inst.Class).To(Equal(insts.ClassALUReg))
			Expect(inst.Func).To(Equal(insts.FuncADD))
			Expect(inst.RegW).To(Equal(uint8(2)))
			Expect(inst.Reg1).To(Equal(uint8(0)))
			Expect(inst.RegB()).To(Equal(uint8(1)))
		})

		// sll r4, r0, r1     -> 0x807B
		// Encoding: regw=4, reg1=0, operandB=1, func=1110, op=11
		It("should decode sll r4, r0, r1", func() {
			inst := decoder.Decode(0x807B)

			Expect(inst.Class).To(Equal(insts.ClassALUReg))
			Expect(inst.Func).To(Equal(insts.FuncSLL))
			Expect(inst.RegW).To(Equal(uint8(4)))
			Expect(inst.RegB()).To(Equal(uint8(1)))
		})

		// and r5, r0, r1     -> 0xA043
		// Encoding: regw=5, reg1=0, operandB=1, func=0000, op=11
		It("should decode and r5, r0, r1", func() {
			inst := decoder.Decode(0xA043)

			Expect(inst.Class).To(Equal(insts.ClassALUReg))
			Expect(inst.Func).To(Equal(insts.FuncAND))
			Expect(inst.RegW).To(Equal(uint8(5)))
		})

		It("should use only the low three bits of operandB as a register", func() {
			inst := decoder.Decode(insts.Encode(insts.ClassALUReg, insts.FuncADD, 0, 0, 0b1011))

			Expect(inst.OperandB).To(Equal(uint8(0b1011)))
			Expect(inst.RegB()).To(Equal(uint8(0b011)))
		})
	})

	Describe("Register-Immediate ALU", func() {
		// addi r3, r0, 2     -> 0x6099
		// Encoding: regw=3, reg1=0, operandB=2, func=0110, op=01
		It("should decode addi r3, r0, 2", func() {
			inst := decoder.Decode(0x6099)

			Expect(inst.Class).To(Equal(insts.ClassALUImm))
			Expect(inst.Func).To(Equal(insts.FuncADD))
			Expect(inst.RegW).To(Equal(uint8(3)))
			Expect(inst.Reg1).To(Equal(uint8(0)))
			Expect(inst.Imm()).To(Equal(uint8(2)))
		})

		It("should decode the full 4-bit immediate", func() {
			inst := decoder.Decode(insts.ADDI(7, 7, 15))

			Expect(inst.Imm()).To(Equal(uint8(15)))
			Expect(inst.Reg1).To(Equal(uint8(7)))
			Expect(inst.RegW).To(Equal(uint8(7)))
		})
	})

	Describe("Reserved class", func() {
		It("should decode opcode 00 as reserved", func() {
			inst := decoder.Decode(0x0000)

			Expect(inst.Class).To(Equal(insts.ClassReserved))
		})

		It("should still extract every field", func() {
			inst := decoder.Decode(0xFFFC)

			Expect(inst.Class).To(Equal(insts.ClassReserved))
			Expect(inst.Func).To(Equal(insts.Func(0b1111)))
			Expect(inst.OperandB).To(Equal(uint8(0b1111)))
			Expect(inst.Reg1).To(Equal(uint8(7)))
			Expect(inst.RegW).To(Equal(uint8(7)))
		})
	})

	Describe("Determinism", func() {
		It("should decode the same word to the same fields", func() {
			for _, w := range []uint16{0x0000, 0x00C2, 0x405B, 0xFFFF, 0x1234} {
				Expect(decoder.Decode(w)).To(Equal(decoder.Decode(w)))
			}
		})
	})

	Describe("Disassembly", func() {
		DescribeTable("String",
			func(word uint16, text string) {
				Expect(decoder.Decode(word).String()).To(Equal(text))
			},
			Entry("load immediate", insts.LI(0, 3), "li r0, 3"),
			Entry("add", insts.ADD(2, 0, 1), "add r2, r0, r1"),
			Entry("addi", insts.ADDI(3, 0, 2), "addi r3, r0, 2"),
			Entry("and", insts.AND(5, 0, 1), "and r5, r0, r1"),
			Entry("sll", insts.SLL(4, 0, 1), "sll r4, r0, r1"),
			Entry("slli", insts.SLLI(4, 0, 1), "slli r4, r0, 1"),
			Entry("unassigned register form", insts.ALU(5, 1, 2, 3), "alu.5 r1, r2, r3"),
			Entry("unassigned immediate form", insts.ALUImm(5, 1, 2, 3), "alui.5 r1, r2, 3"),
			Entry("reserved", uint16(0x1234), ".word 0x1234"),
		)
	})
})
