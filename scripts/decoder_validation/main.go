// Validate the decoder exhaustively - every 16-bit word must decode,
// re-encode to itself and decode without allocating.
package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/tt16sim/insts"
)

const numWords = 1 << 16

func main() {
	decoder := insts.NewDecoder()

	failures := 0
	classCounts := map[insts.Class]int{}
	for w := 0; w < numWords; w++ {
		word := uint16(w)
		inst := decoder.Decode(word)
		classCounts[inst.Class]++

		if got := insts.EncodeInstruction(inst); got != word {
			fmt.Printf("roundtrip mismatch: 0x%04X -> %s -> 0x%04X\n", word, inst, got)
			failures++
		}
		if inst.OperandB > insts.MaxImm || inst.Reg1 >= insts.NumRegs || inst.RegW >= insts.NumRegs {
			fmt.Printf("field out of range: 0x%04X -> %+v\n", word, inst)
			failures++
		}
	}

	// Warm up
	for i := 0; i < 1000; i++ {
		decoder.Decode(uint16(i))
	}

	runtime.GC()
	var m1, m2 runtime.MemStats
	runtime.ReadMemStats(&m1)

	start := time.Now()
	iterations := 100
	var sink insts.Instruction
	for i := 0; i < iterations; i++ {
		for w := 0; w < numWords; w++ {
			sink = decoder.Decode(uint16(w))
		}
	}
	_ = sink

	elapsed := time.Since(start)
	runtime.ReadMemStats(&m2)

	totalDecodes := iterations * numWords
	allocations := m2.Mallocs - m1.Mallocs

	fmt.Printf("Decoder Validation Results:\n")
	fmt.Printf("===========================\n")
	fmt.Printf("Words checked: %d\n", numWords)
	for _, c := range []insts.Class{insts.ClassReserved, insts.ClassALUImm, insts.ClassLoadImm, insts.ClassALUReg} {
		fmt.Printf("  %-10s %d\n", c, classCounts[c])
	}
	fmt.Printf("Roundtrip/range failures: %d\n", failures)
	fmt.Printf("Total decode operations: %d\n", totalDecodes)
	fmt.Printf("Time elapsed: %v\n", elapsed)
	fmt.Printf("Decodes per second: %.0f\n", float64(totalDecodes)/elapsed.Seconds())
	fmt.Printf("Allocations: %d\n", allocations)

	if failures > 0 {
		fmt.Fprintf(os.Stderr, "\nFAIL: %d decoder mismatches\n", failures)
		atexit.Exit(1)
	}
	if allocations != 0 {
		fmt.Printf("\nWARNING: decode allocated %d times\n", allocations)
	}
	fmt.Printf("\nOK\n")
	atexit.Exit(0)
}
