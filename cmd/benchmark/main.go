// Command benchmark runs the TT16Sim microbenchmark harness.
//
// Usage:
//
//	go run ./cmd/benchmark [flags]
//
// Flags:
//
//	-csv          Output results in CSV format (default: human-readable)
//	-json         Output results as JSON
//	-iterations   Runs of each program from reset (default: 1000)
//	-core         Only run the core benchmark subset
//	-config       Path to simulator configuration JSON file
//
// Example:
//
//	# Output CSV for spreadsheet comparison
//	go run ./cmd/benchmark -csv > results.csv
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/tt16sim/benchmarks"
	"github.com/sarchlab/tt16sim/config"
)

func main() {
	csvOutput := flag.Bool("csv", false, "Output results in CSV format")
	jsonOutput := flag.Bool("json", false, "Output results as JSON")
	iterations := flag.Int("iterations", 1000, "Runs of each program from reset")
	coreOnly := flag.Bool("core", false, "Only run the core benchmark subset")
	configPath := flag.String("config", "", "Path to simulator configuration JSON file")
	flag.Parse()

	harnessConfig := benchmarks.DefaultConfig()
	harnessConfig.Iterations = *iterations
	harnessConfig.Output = os.Stdout

	if *configPath != "" {
		cfg, err := config.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			atexit.Exit(1)
		}
		harnessConfig.Sim = cfg
	}

	harness := benchmarks.NewHarness(harnessConfig)
	if *coreOnly {
		harness.AddBenchmarks(benchmarks.GetCoreBenchmarks())
	} else {
		harness.AddBenchmarks(benchmarks.GetMicrobenchmarks())
	}

	results := harness.RunAll()

	switch {
	case *jsonOutput:
		if err := harness.PrintJSON(results); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing JSON: %v\n", err)
			atexit.Exit(1)
		}
	case *csvOutput:
		harness.PrintCSV(results)
	default:
		fmt.Println("TT16Sim Benchmark Harness")
		fmt.Println("=========================")
		fmt.Printf("Iterations: %d\n", harnessConfig.Iterations)
		fmt.Printf("Reserved policy: %s\n", harnessConfig.Sim.ReservedPolicy)
		fmt.Printf("Shift rule: %s\n", harnessConfig.Sim.ShiftRule)
		fmt.Println("")
		harness.PrintResults(results)
	}

	for _, r := range results {
		if !r.Passed {
			atexit.Exit(1)
		}
	}
	atexit.Exit(0)
}
