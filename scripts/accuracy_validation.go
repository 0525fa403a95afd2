// Package main provides accuracy validation for the TT16 emulator.
// Ensures that the emulator still reproduces the reference vectors.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"

	"github.com/sarchlab/tt16sim/config"
	"github.com/sarchlab/tt16sim/emu"
	"github.com/sarchlab/tt16sim/insts"
	"github.com/sarchlab/tt16sim/vectors"
)

// testReferenceBench validates the six-instruction stimulus of the
// original hardware bench.
func testReferenceBench() bool {
	fmt.Println("Testing reference bench...")

	e := emu.NewEmulator()
	want := []uint8{0x03, 0x04, 0x07, 0x05, 0x18, 0x00}

	words, err := vectors.Reference().Words()
	if err != nil {
		fmt.Printf("❌ Reference bench does not assemble: %v\n", err)
		return false
	}

	outputs, err := e.Run(words)
	if err != nil {
		fmt.Printf("❌ Reference bench failed: %v\n", err)
		return false
	}

	for i := range want {
		if outputs[i] != want[i] {
			fmt.Printf("❌ Step %d (%s): got 0x%02X, want 0x%02X\n",
				i, insts.NewDecoder().Decode(words[i]), outputs[i], want[i])
			return false
		}
	}

	fmt.Println("✅ Reference bench reproduced")
	return true
}

// testCorpus runs the embedded vector corpus.
func testCorpus() bool {
	fmt.Println("\nTesting vector corpus...")

	files, err := vectors.Corpus()
	if err != nil {
		fmt.Printf("❌ Corpus does not load: %v\n", err)
		return false
	}

	reports, err := vectors.NewRunner().RunAll(context.Background(), files)
	if err != nil {
		fmt.Printf("❌ Corpus run failed: %v\n", err)
		return false
	}

	vectors.RenderReports(os.Stdout, reports)

	for _, r := range reports {
		if !r.Passed() {
			fmt.Printf("❌ %s: %d of %d checks failed\n", r.Name, r.Failed, r.Checked)
			return false
		}
	}

	fmt.Println("✅ Vector corpus passed")
	return true
}

// testPolicyAgreement validates that the reserved opcode policy has no
// effect on programs that never issue a reserved-class word.
func testPolicyAgreement() bool {
	fmt.Println("\nTesting reserved policy agreement...")

	rng := rand.New(rand.NewSource(1))
	program := make([]uint16, 4096)
	for i := range program {
		word := uint16(rng.Intn(1 << 16))
		if insts.Class(word&0b11) == insts.ClassReserved {
			word |= uint16(insts.ClassLoadImm)
		}
		program[i] = word
	}

	nop := config.DefaultConfig()
	trap := config.DefaultConfig()
	trap.ReservedPolicy = config.ReservedTrap

	a, errA := emu.NewEmulator(emu.WithConfig(nop)).Run(program)
	b, errB := emu.NewEmulator(emu.WithConfig(trap)).Run(program)
	if errA != nil || errB != nil {
		fmt.Printf("❌ Unexpected error: nop=%v trap=%v\n", errA, errB)
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			fmt.Printf("❌ Outputs diverge at word %d (0x%04X)\n", i, program[i])
			return false
		}
	}

	fmt.Printf("✅ %d random instructions agree under both policies\n", len(program))
	return true
}

func main() {
	fmt.Println("TT16Sim Accuracy Validation")
	fmt.Println("===========================")

	allPassed := true

	if !testReferenceBench() {
		allPassed = false
	}

	if !testCorpus() {
		allPassed = false
	}

	if !testPolicyAgreement() {
		allPassed = false
	}

	fmt.Println("\n===========================")
	if allPassed {
		fmt.Println("🎉 ALL ACCURACY TESTS PASSED")
		os.Exit(0)
	} else {
		fmt.Println("❌ ACCURACY TESTS FAILED")
		os.Exit(1)
	}
}
