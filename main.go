// Package main provides the entry point for TT16Sim.
// TT16Sim is an instruction-set simulator for the TT16 16-bit processor
// and its 8-bit output latch.
//
// For the full CLI, use: go run ./cmd/tt16sim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("TT16Sim - TT16 Instruction-Set Simulator")
	fmt.Println("")
	fmt.Println("Usage: tt16sim [options] <program|vectors.yaml>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -config    Path to simulator configuration JSON file")
	fmt.Println("  -v         Verbose output")
	fmt.Println("  -trace     Log every retired instruction")
	fmt.Println("  -dump      Print the register file after the run")
	fmt.Println("  -strict    Reject the reserved opcode")
	fmt.Println("  -shift     SLL rule: reference or logical")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/tt16sim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/tt16sim' instead.")
	}
}
