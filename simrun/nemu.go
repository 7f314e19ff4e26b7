package simrun

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-logr/logr"

	"github.com/sarchlab/simuben/simlog"
)

// NEMU runs the instruction-set emulator in batch mode.
type NEMU struct {
	Path string
	Log  logr.Logger
}

// NewNEMU creates a NEMU runner for the executable at path.
func NewNEMU(path string, log logr.Logger) *NEMU {
	return &NEMU{Path: path, Log: log}
}

// Name returns "nemu".
func (n *NEMU) Name() string {
	return "nemu"
}

// Command returns the argument vector used to run image.
func (n *NEMU) Command(image string) []string {
	return []string{n.Path, image, "--batch"}
}

// Run emulates image. NEMU prints no perf log; any core totals it reports
// are picked up by the lenient brief parser.
func (n *NEMU) Run(ctx context.Context, image string) (*Result, error) {
	out, err := Exec(ctx, n.Log, Invocation{Args: n.Command(image)})
	if err != nil {
		return nil, err
	}

	brief, err := simlog.ParseBrief(strings.NewReader(out.Stdout),
		simlog.WithSource(n.Name()+" stdout"))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse nemu output")
	}

	return &Result{Output: out, Brief: brief}, nil
}
