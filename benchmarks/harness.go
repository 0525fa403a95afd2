// Package benchmarks provides TT16 microprograms with known results and a
// harness that runs them for validation and throughput measurement.
package benchmarks

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sarchlab/tt16sim/config"
	"github.com/sarchlab/tt16sim/emu"
)

// Benchmark defines a single microprogram.
type Benchmark struct {
	// Name identifies the benchmark
	Name string

	// Description explains what the benchmark exercises
	Description string

	// Program is the TT16 instruction stream to execute
	Program []uint16

	// ExpectedOutput is the output latch after the last instruction
	ExpectedOutput uint8
}

// BenchmarkResult holds the results for a single benchmark run.
type BenchmarkResult struct {
	// Name identifies the benchmark
	Name string `json:"name"`

	// Description explains what the benchmark exercises
	Description string `json:"description"`

	// InstructionsRetired is the number of completed instructions over all
	// iterations
	InstructionsRetired uint64 `json:"instructions_retired"`

	// Output is the final output latch value
	Output uint8 `json:"output"`

	// Passed is true when Output matched the expected value
	Passed bool `json:"passed"`

	// Err is set if the program did not complete
	Err string `json:"error,omitempty"`

	// WallTime is the actual time taken to run all iterations
	WallTime time.Duration `json:"wall_time_ns"`

	// MIPS is millions of instructions retired per wall-clock second
	MIPS float64 `json:"mips"`
}

// HarnessConfig configures the benchmark harness.
type HarnessConfig struct {
	// Iterations is how many times each program is run from reset
	Iterations int

	// Sim is the simulator configuration used for every run
	Sim *config.Config

	// Output is where to write results (default: os.Stdout)
	Output io.Writer
}

// DefaultConfig returns a default harness configuration.
func DefaultConfig() HarnessConfig {
	return HarnessConfig{
		Iterations: 1000,
		Sim:        config.DefaultConfig(),
		Output:     os.Stdout,
	}
}

// Harness runs benchmarks.
type Harness struct {
	config     HarnessConfig
	benchmarks []Benchmark
}

// NewHarness creates a harness with the given configuration.
func NewHarness(config HarnessConfig) *Harness {
	if config.Iterations <= 0 {
		config.Iterations = 1
	}
	if config.Output == nil {
		config.Output = os.Stdout
	}
	return &Harness{config: config}
}

// AddBenchmark adds a benchmark to the harness.
func (h *Harness) AddBenchmark(b Benchmark) {
	h.benchmarks = append(h.benchmarks, b)
}

// AddBenchmarks adds several benchmarks to the harness.
func (h *Harness) AddBenchmarks(bs []Benchmark) {
	h.benchmarks = append(h.benchmarks, bs...)
}

// RunAll runs every benchmark in insertion order.
func (h *Harness) RunAll() []BenchmarkResult {
	results := make([]BenchmarkResult, 0, len(h.benchmarks))
	for _, b := range h.benchmarks {
		results = append(results, h.Run(b))
	}
	return results
}

// Run executes one benchmark for the configured number of iterations,
// resetting the emulator before each.
func (h *Harness) Run(b Benchmark) BenchmarkResult {
	var opts []emu.EmulatorOption
	if h.config.Sim != nil {
		opts = append(opts, emu.WithConfig(h.config.Sim))
	}
	e := emu.NewEmulator(opts...)

	result := BenchmarkResult{Name: b.Name, Description: b.Description}

	start := time.Now()
	for i := 0; i < h.config.Iterations; i++ {
		e.Reset()
		if _, err := e.Run(b.Program); err != nil {
			result.Err = err.Error()
			break
		}
		result.InstructionsRetired += e.InstructionCount()
	}
	result.WallTime = time.Since(start)

	result.Output = e.Output()
	result.Passed = result.Err == "" && result.Output == b.ExpectedOutput
	if secs := result.WallTime.Seconds(); secs > 0 {
		result.MIPS = float64(result.InstructionsRetired) / secs / 1e6
	}

	return result
}

// PrintResults writes a human-readable table of results.
func (h *Harness) PrintResults(results []BenchmarkResult) {
	t := table.NewWriter()
	t.SetOutputMirror(h.config.Output)
	t.SetTitle("TT16 Microbenchmarks")
	t.AppendHeader(table.Row{"Benchmark", "Instructions", "Output", "Result", "Wall Time", "MIPS"})

	for _, r := range results {
		status := "PASS"
		if !r.Passed {
			status = "FAIL"
			if r.Err != "" {
				status = "ERROR: " + r.Err
			}
		}
		t.AppendRow(table.Row{
			r.Name,
			r.InstructionsRetired,
			fmt.Sprintf("0x%02X", r.Output),
			status,
			r.WallTime.Round(time.Microsecond),
			fmt.Sprintf("%.1f", r.MIPS),
		})
	}

	t.Render()
}

// PrintCSV writes results in CSV format.
func (h *Harness) PrintCSV(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output, "name,instructions,output,passed,wall_time_ns,mips")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "%s,%d,%d,%t,%d,%.3f\n",
			r.Name,
			r.InstructionsRetired,
			r.Output,
			r.Passed,
			r.WallTime.Nanoseconds(),
			r.MIPS,
		)
	}
}

// PrintJSON writes results as indented JSON.
func (h *Harness) PrintJSON(results []BenchmarkResult) error {
	enc := json.NewEncoder(h.config.Output)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
