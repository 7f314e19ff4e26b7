package harness

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/sarchlab/simuben/export"
)

// PrintResults outputs one row per reported core in a human-readable table.
func (h *Harness) PrintResults(result *RunResult) {
	_, _ = fmt.Fprintf(h.config.Output, "=== simuben run %s ===\n", result.RunName)

	header := []string{"Suite", "Core", "Instructions", "Cycles", "IPC"}
	if h.config.Clock != 0 {
		header = append(header, "Simulated Time")
	}
	header = append(header, "Wall Time")

	tw := tablewriter.NewWriter(h.config.Output)
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	tw.SetHeader(header)

	alignments := make([]int, len(header))
	for i := range alignments {
		alignments[i] = tablewriter.ALIGN_RIGHT
	}
	alignments[0] = tablewriter.ALIGN_LEFT
	tw.SetColumnAlignment(alignments)

	for _, sr := range result.Suites {
		for _, core := range sr.Brief.Cores {
			row := []string{
				sr.Suite,
				strconv.Itoa(core.CoreNumber),
				strconv.FormatInt(core.InstructionsCount, 10),
				strconv.FormatInt(core.CyclesCount, 10),
				fmt.Sprintf("%.3f", core.IPC()),
			}
			if h.config.Clock != 0 {
				seconds := export.SimulatedSeconds(core.CyclesCount, h.config.Clock)
				row = append(row, time.Duration(math.Round(seconds*float64(time.Second))).String())
			}
			row = append(row, sr.WallTime.Round(time.Millisecond).String())
			tw.Append(row)
		}
	}
	tw.Render()

	_, _ = fmt.Fprintf(h.config.Output, "Merged table: %s\n", result.Merged)
}

// RunReport is the complete output format for a run.
type RunReport struct {
	Timestamp string     `json:"timestamp"`
	Result    *RunResult `json:"result"`
	Summary   RunSummary `json:"summary"`
}

// RunSummary contains aggregate statistics across all suites.
type RunSummary struct {
	TotalSuites       int           `json:"total_suites"`
	TotalInstructions int64         `json:"total_instructions"`
	TotalCycles       int64         `json:"total_cycles"`
	AverageIPC        float64       `json:"average_ipc"`
	TotalWallTime     time.Duration `json:"total_wall_time_ns"`
}

// Summarize aggregates the selected core of every suite.
func (h *Harness) Summarize(result *RunResult) RunSummary {
	summary := RunSummary{TotalSuites: len(result.Suites)}
	for _, sr := range result.Suites {
		summary.TotalWallTime += sr.WallTime
		core, ok := sr.Brief.Core(h.config.CSV.CoreNumber)
		if !ok {
			continue
		}
		summary.TotalInstructions += core.InstructionsCount
		summary.TotalCycles += core.CyclesCount
	}

	if summary.TotalCycles > 0 {
		summary.AverageIPC = float64(summary.TotalInstructions) / float64(summary.TotalCycles)
	}
	return summary
}

// PrintJSON outputs the run in JSON format for automated comparison.
func (h *Harness) PrintJSON(result *RunResult) error {
	report := RunReport{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Result:    result,
		Summary:   h.Summarize(result),
	}

	encoder := json.NewEncoder(h.config.Output)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
