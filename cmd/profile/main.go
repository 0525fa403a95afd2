// Package main provides a profiling wrapper for TT16Sim to identify performance bottlenecks.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"time"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/tt16sim/config"
	"github.com/sarchlab/tt16sim/emu"
	"github.com/sarchlab/tt16sim/loader"
)

var (
	cpuProfile  = flag.String("cpuprofile", "", "write cpu profile to file")
	memProfile  = flag.String("memprofile", "", "write memory profile to file")
	duration    = flag.Duration("duration", 30*time.Second, "max duration to run (for profiling)")
	repeat      = flag.Int("repeat", 100000, "times to run the program from reset")
	instruction = flag.Uint64("max-instr", 0, "max instructions per run (0 = unlimited)")
	configPath  = flag.String("config", "", "Path to simulator configuration JSON file")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: profile [options] <program>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		atexit.Exit(1)
	}

	cfg := config.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadConfig(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			atexit.Exit(1)
		}
	}
	if *instruction > 0 {
		cfg.MaxInstructions = *instruction
	}

	// Start CPU profiling if requested
	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating CPU profile: %v\n", err)
			atexit.Exit(1)
		}
		atexit.Register(func() { _ = f.Close() })

		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error starting CPU profile: %v\n", err)
			atexit.Exit(1)
		}
		atexit.Register(pprof.StopCPUProfile)
	}

	programPath := flag.Arg(0)

	prog, err := loader.Load(programPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		atexit.Exit(1)
	}

	fmt.Printf("Loaded: %s (%s, %d words)\n", programPath, prog.Format, len(prog.Words))

	start := time.Now()
	deadline := start.Add(*duration)

	instrCount, runs, err := runProfile(cfg, prog, deadline)

	elapsed := time.Since(start)

	// Write memory profile if requested
	if *memProfile != "" {
		writeHeapProfile(*memProfile)
	}

	fmt.Printf("\nProfiling Results:\n")
	if err != nil {
		fmt.Printf("Stopped: %v\n", err)
	}
	fmt.Printf("Runs completed: %d\n", runs)
	fmt.Printf("Instructions executed: %d\n", instrCount)
	fmt.Printf("Elapsed time: %v\n", elapsed)
	if instrCount > 0 {
		fmt.Printf("Instructions/second: %.0f\n", float64(instrCount)/elapsed.Seconds())
	}

	if err != nil && !errors.Is(err, emu.ErrMaxInstructions) {
		atexit.Exit(1)
	}
	atexit.Exit(0)
}

// runProfile executes the program from reset until the repeat count or the
// deadline is reached.
func runProfile(
	cfg *config.Config,
	prog *loader.Program,
	deadline time.Time,
) (instrCount uint64, runs int, err error) {
	emulator := emu.NewEmulator(emu.WithConfig(cfg))

	for runs < *repeat {
		if runs%1024 == 0 && time.Now().After(deadline) {
			fmt.Printf("\nTimeout reached after %v - stopping execution\n", *duration)
			break
		}

		emulator.Reset()
		_, err = emulator.Run(prog.Words)
		instrCount += emulator.InstructionCount()
		if err != nil {
			return instrCount, runs, err
		}
		runs++
	}

	return instrCount, runs, nil
}

func writeHeapProfile(path string) {
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating memory profile: %v\n", err)
		return
	}
	defer func() { _ = f.Close() }()

	if err := pprof.WriteHeapProfile(f); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing memory profile: %v\n", err)
	}
}
