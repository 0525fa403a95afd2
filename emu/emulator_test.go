package emu_test

import (
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tt16sim/config"
	"github.com/sarchlab/tt16sim/emu"
	"github.com/sarchlab/tt16sim/insts"
)

var _ = Describe("Emulator", func() {
	var e *emu.Emulator

	BeforeEach(func() {
		e = emu.NewEmulator()
		e.Reset()
	})

	mustExecute := func(word uint16) uint8 {
		out, err := e.Execute(word)
		ExpectWithOffset(1, err).NotTo(HaveOccurred())
		return out
	}

	Describe("NewEmulator", func() {
		It("should create an emulator in its reset state", func() {
			Expect(e).NotTo(BeNil())
			Expect(e.RegFile()).NotTo(BeNil())
			Expect(e.Output()).To(BeZero())
			Expect(e.InstructionCount()).To(BeZero())
		})

		It("should give every emulator independent state", func() {
			other := emu.NewEmulator()

			mustExecute(insts.LI(0, 9))

			Expect(other.RegFile().ReadReg(0)).To(BeZero())
			Expect(other.Output()).To(BeZero())
		})
	})

	Describe("Reference scenario", func() {
		It("should match the reference vectors step by step", func() {
			Expect(mustExecute(insts.LI(0, 3))).To(Equal(uint8(0x03)))
			Expect(e.RegFile().ReadReg(0)).To(Equal(uint8(3)))

			Expect(mustExecute(insts.LI(1, 4))).To(Equal(uint8(0x04)))
			Expect(e.RegFile().ReadReg(1)).To(Equal(uint8(4)))

			Expect(mustExecute(insts.ADD(2, 0, 1))).To(Equal(uint8(0x07)))

			Expect(mustExecute(insts.ADDI(3, 0, 2))).To(Equal(uint8(0x05)))
			Expect(e.RegFile().ReadReg(0)).To(Equal(uint8(3)))

			Expect(mustExecute(insts.AND(5, 0, 1))).To(Equal(uint8(0x00)))

			Expect(mustExecute(insts.SLL(4, 0, 1))).To(Equal(uint8(0x18)))

			Expect(e.InstructionCount()).To(Equal(uint64(6)))
		})

		It("should run the raw words from the original bench", func() {
			outputs, err := e.Run([]uint16{0x00C2, 0x2102, 0x405B, 0x6099, 0x807B, 0xA043})

			Expect(err).NotTo(HaveOccurred())
			Expect(outputs).To(Equal([]uint8{0x03, 0x04, 0x07, 0x05, 0x18, 0x00}))
		})
	})

	Describe("Step", func() {
		It("should report the decoded instruction", func() {
			result := e.Step(insts.ADDI(3, 0, 2))

			Expect(result.Err).To(BeNil())
			Expect(result.Inst.Class).To(Equal(insts.ClassALUImm))
			Expect(result.Inst.RegW).To(Equal(uint8(3)))
			Expect(result.Output).To(Equal(uint8(2)))
		})

		It("should zero-extend load immediates", func() {
			Expect(mustExecute(insts.LI(7, 15))).To(Equal(uint8(15)))
		})

		It("should use the low three bits of operandB as the register index", func() {
			mustExecute(insts.LI(3, 5))
			mustExecute(insts.LI(1, 2))

			word := insts.Encode(insts.ClassALUReg, insts.FuncADD, 6, 1, 0b1011)
			Expect(mustExecute(word)).To(Equal(uint8(7)))
		})

		It("should allow the destination to be a source", func() {
			mustExecute(insts.LI(2, 9))
			Expect(mustExecute(insts.ADD(2, 2, 2))).To(Equal(uint8(18)))
			Expect(e.RegFile().ReadReg(2)).To(Equal(uint8(18)))
		})

		It("should write zero for unassigned functions", func() {
			mustExecute(insts.LI(1, 9))
			Expect(mustExecute(insts.ALU(5, 1, 1, 1))).To(BeZero())
			Expect(e.RegFile().ReadReg(1)).To(BeZero())
		})

		It("should keep 8-bit register width", func() {
			mustExecute(insts.LI(0, 15))
			for i := 0; i < 4; i++ {
				mustExecute(insts.ADD(0, 0, 0))
			}
			Expect(e.RegFile().ReadReg(0)).To(Equal(uint8(0xF0)))
			Expect(mustExecute(insts.ADDI(0, 0, 15))).To(Equal(uint8(0xFF)))
			Expect(mustExecute(insts.ADDI(0, 0, 1))).To(Equal(uint8(0x00)))
		})
	})

	Describe("Reserved opcode", func() {
		It("should be a no-op by default", func() {
			mustExecute(insts.LI(4, 6))
			before := e.RegFile().Snapshot()

			out, err := e.Execute(0xE000)

			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal(uint8(6)))
			Expect(e.RegFile().Snapshot()).To(Equal(before))
			Expect(e.InstructionCount()).To(Equal(uint64(2)))
		})

		It("should trap when configured strict", func() {
			e = emu.NewEmulator(emu.WithReservedPolicy(emu.ReservedTrap))
			mustExecute(insts.LI(4, 6))

			result := e.Step(0x1234)

			Expect(result.Err).To(MatchError(emu.ErrUnspecifiedBehavior))
			var ube *emu.UnspecifiedBehaviorError
			Expect(result.Err).To(BeAssignableToTypeOf(ube))
			Expect(result.Err.(*emu.UnspecifiedBehaviorError).Word).To(Equal(uint16(0x1234)))
			Expect(e.Output()).To(Equal(uint8(6)))
			Expect(e.InstructionCount()).To(Equal(uint64(1)))
		})

		It("should stop Run at the first trap", func() {
			e = emu.NewEmulator(emu.WithReservedPolicy(emu.ReservedTrap))

			outputs, err := e.Run([]uint16{insts.LI(0, 1), 0x0000, insts.LI(1, 2)})

			Expect(err).To(MatchError(emu.ErrUnspecifiedBehavior))
			Expect(outputs).To(Equal([]uint8{1}))
			Expect(e.RegFile().ReadReg(1)).To(BeZero())
		})
	})

	Describe("Reset", func() {
		It("should zero registers, output and count", func() {
			mustExecute(insts.LI(0, 3))
			mustExecute(insts.LI(7, 1))

			e.Reset()

			Expect(e.RegFile().Snapshot()).To(Equal([8]uint8{}))
			Expect(e.Output()).To(BeZero())
			Expect(e.InstructionCount()).To(BeZero())
		})
	})

	Describe("WithMaxInstructions", func() {
		It("should stop after the limit", func() {
			e = emu.NewEmulator(emu.WithMaxInstructions(2))

			_, err := e.Run([]uint16{insts.LI(0, 1), insts.LI(1, 2), insts.LI(2, 3)})

			Expect(err).To(MatchError(emu.ErrMaxInstructions))
			Expect(e.RegFile().ReadReg(2)).To(BeZero())
		})

		It("should allow execution again after reset", func() {
			e = emu.NewEmulator(emu.WithMaxInstructions(1))
			mustExecute(insts.LI(0, 1))

			e.Reset()

			mustExecute(insts.LI(0, 2))
			Expect(e.Output()).To(Equal(uint8(2)))
		})
	})

	Describe("WithConfig", func() {
		It("should apply policy, shift rule and limit", func() {
			cfg := config.DefaultConfig()
			cfg.ReservedPolicy = config.ReservedTrap
			cfg.ShiftRule = config.ShiftLogical
			cfg.MaxInstructions = 3
			e = emu.NewEmulator(emu.WithConfig(cfg))

			mustExecute(insts.LI(0, 3))
			mustExecute(insts.LI(1, 4))
			Expect(mustExecute(insts.SLL(4, 0, 1))).To(Equal(uint8(0x30)))

			e.Reset()
			_, err := e.Execute(0x0000)
			Expect(err).To(MatchError(emu.ErrUnspecifiedBehavior))
		})
	})

	Describe("Properties", func() {
		It("should round-trip load immediates through addi 0", func() {
			for r := uint8(0); r < 8; r++ {
				for r2 := uint8(0); r2 < 8; r2++ {
					if r == r2 {
						continue
					}
					for v := uint8(0); v <= insts.MaxImm; v++ {
						e.Reset()
						mustExecute(insts.LI(r, v))
						Expect(mustExecute(insts.ADDI(r2, r, 0))).To(Equal(v))
					}
				}
			}
		})

		It("should isolate write-back to the destination register", func() {
			for w := 0; w < 0x10000; w += 7 {
				word := uint16(w)
				inst := insts.NewDecoder().Decode(word)
				if inst.Class == insts.ClassReserved {
					continue
				}

				e.Reset()
				for r := uint8(0); r < 8; r++ {
					mustExecute(insts.LI(r, r+3))
				}
				before := e.RegFile().Snapshot()

				mustExecute(word)

				after := e.RegFile().Snapshot()
				for r := range after {
					if uint8(r) != inst.RegW {
						Expect(after[r]).To(Equal(before[r]))
					}
				}
			}
		})

		It("should be deterministic across fresh emulators", func() {
			words := make([]uint16, 0, 4096)
			for i := 0; i < 4096; i++ {
				words = append(words, uint16(i*40503+17))
			}

			first, err := emu.NewEmulator().Run(words)
			Expect(err).NotTo(HaveOccurred())
			second, err := emu.NewEmulator().Run(words)
			Expect(err).NotTo(HaveOccurred())

			Expect(second).To(Equal(first))
		})

		It("should run independent emulators in parallel", func() {
			words := []uint16{0x00C2, 0x2102, 0x405B, 0x6099, 0x807B, 0xA043}

			var wg sync.WaitGroup
			results := make([][]uint8, 8)
			for i := range results {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					defer GinkgoRecover()

					out, err := emu.NewEmulator().Run(words)
					Expect(err).NotTo(HaveOccurred())
					results[i] = out
				}(i)
			}
			wg.Wait()

			for _, out := range results {
				Expect(out).To(Equal([]uint8{0x03, 0x04, 0x07, 0x05, 0x18, 0x00}))
			}
		})
	})
})
