// Package harness runs a set of benchmark suites through a simulator and
// collects their brief exports into one run table.
package harness

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-logr/logr"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/simuben/export"
	"github.com/sarchlab/simuben/metrics"
	"github.com/sarchlab/simuben/simlog"
	"github.com/sarchlab/simuben/simrun"
	"github.com/sarchlab/simuben/table"
)

// MergedSuffix follows the simulator name in the run-wide table's file
// name, e.g. verilator.brief.merged.csv.
const MergedSuffix = ".brief.merged.csv"

// HarnessConfig configures the run harness.
type HarnessConfig struct {
	// RunName identifies the run; artifacts go to OutputDir/RunName.
	RunName string

	// OutputDir holds one directory per run.
	OutputDir string

	// Builder compiles suites into images.
	Builder Builder

	// Simulator produces the brief summary that is exported and merged.
	Simulator simrun.Simulator

	// Companions run the same image for reference; only their logs are kept.
	Companions []simrun.Simulator

	// CSV selects the core and header of the brief export.
	CSV export.CSVConfig

	// Clock converts cycles into simulated time in reports. Zero disables it.
	Clock sim.Freq

	// Output is where to write reports (default: os.Stdout)
	Output io.Writer

	Log logr.Logger
}

// DefaultConfig returns a default harness configuration.
func DefaultConfig() HarnessConfig {
	return HarnessConfig{
		OutputDir: filepath.Join(os.TempDir(), "simuben"),
		Output:    os.Stdout,
		Log:       logr.Discard(),
	}
}

// SuiteResult holds what one suite produced.
type SuiteResult struct {
	Suite string `json:"suite"`
	Image string `json:"image"`

	// Dir holds the suite's artifacts.
	Dir string `json:"dir"`

	Brief *simlog.BriefSummary `json:"brief"`

	// Perf is nil when the simulator emits no perf log.
	Perf *metrics.Store `json:"-"`

	// BriefCSV is the path of the suite's brief export.
	BriefCSV string `json:"brief_csv"`

	WallTime time.Duration `json:"wall_time_ns"`
}

// RunResult holds what a whole run produced.
type RunResult struct {
	RunName string        `json:"run_name"`
	Dir     string        `json:"dir"`
	Merged  string        `json:"merged"`
	Suites  []SuiteResult `json:"suites"`
}

// Harness runs benchmark suites and reports results.
type Harness struct {
	config HarnessConfig
	suites []Suite
}

// NewHarness creates a new run harness.
func NewHarness(config HarnessConfig) *Harness {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	if config.Log.GetSink() == nil {
		config.Log = logr.Discard()
	}
	return &Harness{
		config: config,
		suites: []Suite{},
	}
}

// AddSuite adds a suite to the harness.
func (h *Harness) AddSuite(s Suite) {
	h.suites = append(h.suites, s)
}

// AddSuites adds multiple suites to the harness.
func (h *Harness) AddSuites(suites []Suite) {
	h.suites = append(h.suites, suites...)
}

// RunDir is the directory the run's artifacts are written to.
func (h *Harness) RunDir() string {
	return filepath.Join(h.config.OutputDir, h.config.RunName)
}

// RunAll builds and simulates every suite in order, then merges the
// per-suite brief exports. An existing run directory is replaced. If any
// step fails, the run directory is removed.
func (h *Harness) RunAll(ctx context.Context) (*RunResult, error) {
	if err := h.validate(); err != nil {
		return nil, err
	}

	runDir := h.RunDir()
	log := h.config.Log.WithValues("run", h.config.RunName)

	if _, err := os.Stat(runDir); err == nil {
		log.Info("run directory exists, overwriting", "dir", runDir)
	}
	if err := os.RemoveAll(runDir); err != nil {
		return nil, errors.Wrapf(err, "failed to clear run directory %s", runDir)
	}
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return nil, errors.Wrapf(err, "failed to create run directory %s", runDir)
	}

	result, err := h.runAll(ctx, log, runDir)
	if err != nil {
		log.Error(err, "run failed, cleaning up", "dir", runDir)
		if rmErr := os.RemoveAll(runDir); rmErr != nil {
			log.Error(rmErr, "failed to remove run directory", "dir", runDir)
		}
		return nil, err
	}

	log.Info("run completed", "suites", len(result.Suites), "merged", result.Merged)
	return result, nil
}

func (h *Harness) validate() error {
	switch {
	case h.config.RunName == "":
		return errors.New("run name must not be empty")
	case filepath.Base(h.config.RunName) != h.config.RunName:
		return errors.Newf("run name %q must not contain a path separator", h.config.RunName)
	case h.config.Builder == nil:
		return errors.New("no builder configured")
	case h.config.Simulator == nil:
		return errors.New("no simulator configured")
	case len(h.suites) == 0:
		return errors.New("no suites to run")
	}
	return nil
}

func (h *Harness) runAll(ctx context.Context, log logr.Logger, runDir string) (*RunResult, error) {
	buildDir, err := os.MkdirTemp("", "simuben-build-*")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create build directory")
	}
	defer func() { _ = os.RemoveAll(buildDir) }()

	result := &RunResult{
		RunName: h.config.RunName,
		Dir:     runDir,
		Suites:  make([]SuiteResult, 0, len(h.suites)),
	}

	files := make([]table.SuiteFile, 0, len(h.suites))
	for _, suite := range h.suites {
		sr, err := h.runSuite(ctx, log.WithValues("suite", suite.Name), suite, buildDir, runDir)
		if err != nil {
			return nil, err
		}
		result.Suites = append(result.Suites, *sr)
		files = append(files, table.SuiteFile{Suite: suite.Name, Path: sr.BriefCSV})
	}

	merged, err := table.MergeFiles(h.config.RunName, files)
	if err != nil {
		return nil, errors.Wrap(err, "failed to merge brief exports")
	}

	var buf bytes.Buffer
	if err := merged.WriteCSV(&buf); err != nil {
		return nil, err
	}

	result.Merged = filepath.Join(runDir, h.config.Simulator.Name()+MergedSuffix)
	if err := os.WriteFile(result.Merged, buf.Bytes(), 0644); err != nil {
		return nil, errors.Wrap(err, "failed to write merged table")
	}

	return result, nil
}

func (h *Harness) runSuite(
	ctx context.Context,
	log logr.Logger,
	suite Suite,
	buildDir, runDir string,
) (*SuiteResult, error) {
	log.Info("running suite", "sources", len(suite.Sources))

	image, err := h.config.Builder.Build(ctx, suite, buildDir)
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(runDir, suite.Name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "failed to create artifact directory for %s", suite.Name)
	}

	start := time.Now()
	res, err := h.config.Simulator.Run(ctx, image)
	if err != nil {
		return nil, errors.Wrapf(err, "suite %s", suite.Name)
	}
	wallTime := time.Since(start)

	sr := &SuiteResult{
		Suite:    suite.Name,
		Image:    image,
		Dir:      dir,
		Brief:    res.Brief,
		Perf:     res.Perf,
		WallTime: wallTime,
	}

	// The merge reads the first row as the header.
	csvConfig := h.config.CSV
	csvConfig.HideHeader = false

	sr.BriefCSV, err = writeArtifacts(dir, h.config.Simulator.Name(), res, csvConfig)
	if err != nil {
		return nil, err
	}

	for _, companion := range h.config.Companions {
		cres, err := companion.Run(ctx, image)
		if err != nil {
			return nil, errors.Wrapf(err, "suite %s", suite.Name)
		}
		if err := writeLog(dir, companion.Name(), cres.Output); err != nil {
			return nil, err
		}
	}

	log.Info("suite finished", "wallTime", wallTime, "artifacts", dir)
	return sr, nil
}
