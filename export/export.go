// Package export writes brief summaries in the formats consumed by the run
// harness and by people.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/sarchlab/akita/v4/sim"
	"go.yaml.in/yaml/v3"

	"github.com/sarchlab/simuben/simlog"
)

// BriefHeader is the header row of a brief CSV export.
var BriefHeader = []string{"Instructions", "Cycles"}

// CSVConfig selects what a brief CSV export contains.
type CSVConfig struct {
	// CoreNumber selects which core's rows are exported.
	CoreNumber int `yaml:"core_number"`

	// HideHeader omits the "Instructions,Cycles" header row.
	HideHeader bool `yaml:"hide_header"`
}

// BriefCSV writes one "instructions,cycles" row for every report of the
// selected core, in encounter order.
func BriefCSV(w io.Writer, brief *simlog.BriefSummary, cfg CSVConfig) error {
	writer := csv.NewWriter(w)

	if !cfg.HideHeader {
		if err := writer.Write(BriefHeader); err != nil {
			return errors.Wrap(err, "failed to write brief header")
		}
	}

	for _, core := range brief.Cores {
		if core.CoreNumber != cfg.CoreNumber {
			continue
		}
		err := writer.Write([]string{
			strconv.FormatInt(core.InstructionsCount, 10),
			strconv.FormatInt(core.CyclesCount, 10),
		})
		if err != nil {
			return errors.Wrap(err, "failed to write brief row")
		}
	}

	writer.Flush()
	return errors.Wrap(writer.Error(), "failed to flush brief export")
}

// CoreReport is the YAML view of one core.
type CoreReport struct {
	simlog.CoreBrief `yaml:",inline"`

	IPC float64 `yaml:"ipc"`

	// SimulatedSeconds is CyclesCount at the configured core clock.
	SimulatedSeconds float64 `yaml:"simulated_seconds,omitempty"`
}

// BriefReport is the YAML view of a brief summary.
type BriefReport struct {
	Cores       []CoreReport `yaml:"cores"`
	TimeSpentMS int64        `yaml:"time_spent_ms"`
	ClockMHz    float64      `yaml:"clock_mhz,omitempty"`
}

// NewBriefReport derives per-core IPC and, when clock is non-zero, the
// simulated time each core's cycle count corresponds to.
func NewBriefReport(brief *simlog.BriefSummary, clock sim.Freq) BriefReport {
	report := BriefReport{
		TimeSpentMS: brief.TimeSpentMS,
		Cores:       make([]CoreReport, 0, len(brief.Cores)),
	}
	if clock > 0 {
		report.ClockMHz = float64(clock / sim.MHz)
	}

	for _, core := range brief.Cores {
		cr := CoreReport{CoreBrief: core, IPC: core.IPC()}
		if clock > 0 {
			cr.SimulatedSeconds = SimulatedSeconds(core.CyclesCount, clock)
		}
		report.Cores = append(report.Cores, cr)
	}
	return report
}

// SimulatedSeconds converts a cycle count into seconds at clock.
func SimulatedSeconds(cycles int64, clock sim.Freq) float64 {
	if clock <= 0 {
		return 0
	}
	return float64(cycles) / float64(clock)
}

// BriefYAML writes the brief summary as YAML.
func BriefYAML(w io.Writer, brief *simlog.BriefSummary, clock sim.Freq) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(NewBriefReport(brief, clock)); err != nil {
		return errors.Wrap(err, "failed to encode brief report")
	}
	return errors.Wrap(enc.Close(), "failed to flush brief report")
}
