package vectors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sarchlab/akita/v4/sim"
	"golang.org/x/sync/errgroup"

	"github.com/sarchlab/tt16sim/config"
	"github.com/sarchlab/tt16sim/emu"
	"github.com/sarchlab/tt16sim/insts"
)

// StepOutcome records one executed step.
type StepOutcome struct {
	Index  int
	Inst   insts.Instruction
	Output uint8
	Expect *uint8
	Err    error
}

// Failed reports whether the step errored or missed its expected value.
func (o StepOutcome) Failed() bool {
	return o.Err != nil || (o.Expect != nil && *o.Expect != o.Output)
}

// Report summarizes the run of one vector file.
type Report struct {
	Name    string
	Path    string
	Steps   []StepOutcome
	Checked int
	Failed  int
}

// Passed reports whether every step succeeded.
func (r *Report) Passed() bool {
	return r.Failed == 0
}

// Runner executes vector files, each on its own freshly reset emulator.
type Runner struct {
	// Config is the base configuration; files may override parts of it.
	Config *config.Config
	// Logger receives run diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
	// Hooks are attached to every emulator the runner creates.
	Hooks []sim.Hook
}

// NewRunner creates a Runner with the default configuration.
func NewRunner() *Runner {
	return &Runner{
		Config: config.DefaultConfig(),
		Logger: slog.Default(),
	}
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

// Run executes a single vector file. A step that errors is recorded in the
// report and ends the file; malformed files return an error instead.
func (r *Runner) Run(ctx context.Context, f *File) (*Report, error) {
	words, err := f.Words()
	if err != nil {
		return nil, fmt.Errorf("vectors %q: %w", f.Name, err)
	}

	base := r.Config
	if base == nil {
		base = config.DefaultConfig()
	}

	e := emu.NewEmulator(
		emu.WithConfig(f.configure(base)),
		emu.WithLogger(r.logger()),
	)
	for _, h := range r.Hooks {
		e.AcceptHook(h)
	}
	e.Reset()

	report := &Report{Name: f.Name, Path: f.Path}

	for i, word := range words {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result := e.Step(word)
		outcome := StepOutcome{
			Index:  i + 1,
			Inst:   result.Inst,
			Output: result.Output,
			Expect: f.Steps[i].Expect,
			Err:    result.Err,
		}
		if outcome.Expect != nil {
			report.Checked++
		}
		if outcome.Failed() {
			report.Failed++
			r.logger().Warn("vector mismatch",
				slog.String("vectors", f.Name),
				slog.Int("step", outcome.Index),
				slog.String("inst", outcome.Inst.String()),
				slog.Int("got", int(outcome.Output)),
				slog.Any("err", outcome.Err))
		}

		report.Steps = append(report.Steps, outcome)

		if result.Err != nil {
			break
		}
	}

	r.logger().Debug("vectors done",
		slog.String("vectors", f.Name),
		slog.Int("steps", len(report.Steps)),
		slog.Int("checked", report.Checked),
		slog.Int("failed", report.Failed))

	return report, nil
}

// RunAll executes files concurrently, one emulator per file, and returns
// the reports in input order. Hooks shared through r.Hooks must be safe for
// concurrent use.
func (r *Runner) RunAll(ctx context.Context, files []*File) ([]*Report, error) {
	reports := make([]*Report, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, f := range files {
		g.Go(func() error {
			report, err := r.Run(ctx, f)
			if err != nil {
				return err
			}
			reports[i] = report
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return reports, nil
}

// RunFiles loads and runs vector files from disk.
func (r *Runner) RunFiles(ctx context.Context, paths []string) ([]*Report, error) {
	files := make([]*File, 0, len(paths))
	for _, p := range paths {
		f, err := LoadFile(p)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}

	return r.RunAll(ctx, files)
}

// RenderReports writes a summary table of reports followed by a detail
// table of every failing step.
func RenderReports(w io.Writer, reports []*Report) {
	summary := table.NewWriter()
	summary.SetOutputMirror(w)
	summary.SetTitle("Vector Results")
	summary.AppendHeader(table.Row{"Vectors", "Steps", "Checked", "Failed", "Result"})

	failures := table.NewWriter()
	failures.SetOutputMirror(w)
	failures.SetTitle("Failures")
	failures.AppendHeader(table.Row{"Vectors", "Step", "Instruction", "Got", "Expected", "Error"})

	for _, rep := range reports {
		result := "PASS"
		if !rep.Passed() {
			result = "FAIL"
		}
		summary.AppendRow(table.Row{rep.Name, len(rep.Steps), rep.Checked, rep.Failed, result})

		for _, s := range rep.Steps {
			if !s.Failed() {
				continue
			}
			expected, errText := "-", "-"
			if s.Expect != nil {
				expected = fmt.Sprintf("0x%02X", *s.Expect)
			}
			if s.Err != nil {
				errText = s.Err.Error()
			}
			failures.AppendRow(table.Row{
				rep.Name, s.Index, s.Inst.String(),
				fmt.Sprintf("0x%02X", s.Output), expected, errText,
			})
		}
	}

	summary.Render()
	if failures.Length() > 0 {
		failures.Render()
	}
}
