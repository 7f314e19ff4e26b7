// Package simrun launches RISC-V simulators as external processes and
// hands their output to the simlog parsers.
package simrun

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-logr/logr"

	"github.com/sarchlab/simuben/metrics"
	"github.com/sarchlab/simuben/simlog"
)

// ExitError reports a simulator that exited unsuccessfully.
type ExitError struct {
	Command  []string
	ExitCode int
	Stderr   string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s returned %d: %s",
		strings.Join(e.Command, " "), e.ExitCode, strings.TrimSpace(e.Stderr))
}

// Output is the raw text a simulator produced.
type Output struct {
	Stdout string
	Stderr string
}

// Result is what one simulator run yields.
type Result struct {
	// Output keeps the raw text for artifact storage.
	Output Output

	// Brief is the end-of-run summary parsed from stdout.
	Brief *simlog.BriefSummary

	// Perf is the counter log parsed from stderr; nil for simulators that
	// do not emit one.
	Perf *metrics.Store
}

// Simulator runs a benchmark image.
type Simulator interface {
	Name() string
	Run(ctx context.Context, image string) (*Result, error)
}

// Invocation describes one external process.
type Invocation struct {
	// Args is the argument vector; Args[0] is the executable.
	Args []string

	// Dir is the working directory; empty means the current one.
	Dir string

	// Env is appended to the inherited environment.
	Env []string
}

// Exec runs inv to completion and captures both output streams. A non-zero
// exit status is reported as an *ExitError; cancellation of ctx is reported
// as the context's error.
func Exec(ctx context.Context, log logr.Logger, inv Invocation) (Output, error) {
	if len(inv.Args) == 0 {
		return Output{}, errors.New("empty command")
	}

	command := inv.Args
	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	cmd.Dir = inv.Dir
	if len(inv.Env) > 0 {
		cmd.Env = append(os.Environ(), inv.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.V(1).Info("starting process", "command", strings.Join(command, " "), "dir", inv.Dir)
	err := cmd.Run()
	out := Output{Stdout: stdout.String(), Stderr: stderr.String()}

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return out, errors.Wrapf(ctxErr, "%s interrupted", command[0])
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return out, &ExitError{
				Command:  command,
				ExitCode: exitErr.ExitCode(),
				Stderr:   out.Stderr,
			}
		}
		return out, errors.Wrapf(err, "failed to run %s", command[0])
	}

	log.V(1).Info("process finished",
		"command", command[0],
		"stdoutBytes", stdout.Len(),
		"stderrBytes", stderr.Len())
	return out, nil
}

// Lines splits stdout into lines.
func (o Output) Lines() []string {
	if o.Stdout == "" {
		return nil
	}
	return strings.Split(strings.TrimRight(o.Stdout, "\n"), "\n")
}
