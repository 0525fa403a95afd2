// Package main provides the TT16Sim command line.
//
// Usage:
//
//	tt16sim [flags] <program.bin|program.hex|program.s|vectors.yaml>
//
// A program image is executed from reset and the output latch is printed
// after every instruction. A YAML vector file is checked against its
// expected latch values.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/tt16sim/config"
	"github.com/sarchlab/tt16sim/emu"
	"github.com/sarchlab/tt16sim/loader"
	"github.com/sarchlab/tt16sim/vectors"
)

var (
	configPath = flag.String("config", "", "Path to simulator configuration JSON file")
	verbose    = flag.Bool("v", false, "Verbose output")
	trace      = flag.Bool("trace", false, "Log every retired instruction")
	dump       = flag.Bool("dump", false, "Print the register file after the run")
	strict     = flag.Bool("strict", false, "Reject the reserved opcode instead of treating it as a no-op")
	shift      = flag.String("shift", "", "SLL rule: reference or logical")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: tt16sim [options] <program|vectors.yaml>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		atexit.Exit(2)
	}

	cfg, err := buildConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		atexit.Exit(1)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		atexit.Exit(1)
	}
	slog.SetDefault(logger)

	path := flag.Arg(0)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		atexit.Exit(runVectors(cfg, logger, flag.Args()))
	default:
		atexit.Exit(runProgram(cfg, logger, path))
	}
}

func buildConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadConfig(*configPath)
		if err != nil {
			return nil, err
		}
	}

	if *strict {
		cfg.ReservedPolicy = config.ReservedTrap
	}
	if *shift != "" {
		cfg.ShiftRule = *shift
	}
	if *verbose && cfg.LogLevel == "info" {
		cfg.LogLevel = "debug"
	}
	if *trace {
		cfg.LogLevel = "trace"
	}

	return cfg, cfg.Validate()
}

func newLogger(cfg *config.Config) (*slog.Logger, error) {
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler), nil
}

func hooks(logger *slog.Logger) []sim.Hook {
	if !*trace {
		return nil
	}
	return []sim.Hook{emu.NewTraceHook(logger)}
}

// runProgram executes a program image and prints the latch after every word.
func runProgram(cfg *config.Config, logger *slog.Logger, path string) int {
	prog, err := loader.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		return 1
	}

	logger.Debug("loaded program",
		slog.String("path", prog.Path),
		slog.String("format", prog.Format.String()),
		slog.Int("words", len(prog.Words)))

	emulator := emu.NewEmulator(emu.WithConfig(cfg), emu.WithLogger(logger))
	for _, h := range hooks(logger) {
		emulator.AcceptHook(h)
	}

	exitCode := 0
	for i, word := range prog.Words {
		result := emulator.Step(word)
		if result.Err != nil {
			fmt.Fprintf(os.Stderr, "Error at word %d (0x%04X): %v\n", i, word, result.Err)
			exitCode = 1
			break
		}
		fmt.Printf("%4d  %04X  %-20s  out=0x%02X\n", i, word, result.Inst, result.Output)
	}

	if *verbose {
		fmt.Printf("\nProgram: %s\n", path)
		fmt.Printf("Instructions executed: %d\n", emulator.InstructionCount())
		fmt.Printf("Output: 0x%02X\n", emulator.Output())
	}

	if *dump {
		dumpRegisters(emulator.RegFile())
	}

	return exitCode
}

// runVectors checks every vector file given on the command line.
func runVectors(cfg *config.Config, logger *slog.Logger, paths []string) int {
	runner := vectors.NewRunner()
	runner.Config = cfg
	runner.Logger = logger
	runner.Hooks = hooks(logger)

	reports, err := runner.RunFiles(context.Background(), paths)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running vectors: %v\n", err)
		return 1
	}

	vectors.RenderReports(os.Stdout, reports)

	for _, r := range reports {
		if !r.Passed() {
			return 1
		}
	}
	return 0
}

func dumpRegisters(rf *emu.RegFile) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("Register File")
	t.AppendHeader(table.Row{"Reg", "Hex", "Dec"})

	for i, v := range rf.Snapshot() {
		t.AppendRow(table.Row{fmt.Sprintf("r%d", i), fmt.Sprintf("0x%02X", v), v})
	}
	t.Render()
}

