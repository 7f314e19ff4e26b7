package simrun

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-logr/logr"

	"github.com/sarchlab/simuben/simlog"
)

// Verilator runs the RTL simulator. Its stdout carries the brief summary
// and its stderr the perf counter log.
type Verilator struct {
	Path string
	Log  logr.Logger

	// ExtraArgs are appended after the default arguments.
	ExtraArgs []string
}

// NewVerilator creates a Verilator runner for the executable at path.
func NewVerilator(path string, log logr.Logger) *Verilator {
	return &Verilator{Path: path, Log: log}
}

// Name returns "verilator".
func (v *Verilator) Name() string {
	return "verilator"
}

// Command returns the argument vector used to run image.
func (v *Verilator) Command(image string) []string {
	cmd := []string{v.Path, "--no-diff", "-i", image}
	return append(cmd, v.ExtraArgs...)
}

// Run simulates image and parses both output streams. A perf log that does
// not parse fails the run.
func (v *Verilator) Run(ctx context.Context, image string) (*Result, error) {
	out, err := Exec(ctx, v.Log, Invocation{Args: v.Command(image)})
	if err != nil {
		return nil, err
	}

	brief, err := simlog.ParseBrief(strings.NewReader(out.Stdout),
		simlog.WithSource(v.Name()+" stdout"))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse brief log")
	}

	perf, err := simlog.ParsePerf(strings.NewReader(out.Stderr),
		simlog.WithSource(v.Name()+" stderr"))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse perf log")
	}

	v.Log.Info("verilator run parsed",
		"image", image,
		"cores", len(brief.Cores),
		"perfEvents", perf.Len(),
		"hostTimeMS", brief.TimeSpentMS)

	return &Result{Output: out, Brief: brief, Perf: perf}, nil
}
