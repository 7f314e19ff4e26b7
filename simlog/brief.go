package simlog

import (
	"io"
	"regexp"
	"strconv"
)

var (
	coreRow      = regexp.MustCompile(`Core-(\d) instrCnt = (\d+), cycleCnt = (\d+), IPC = \d+.\d+`)
	timeSpentRow = regexp.MustCompile(`Host time spent: (\d+)ms`)
)

// CoreBrief holds the end-of-run totals of one simulated core.
type CoreBrief struct {
	CoreNumber        int   `yaml:"core_number" json:"core_number"`
	InstructionsCount int64 `yaml:"instructions_count" json:"instructions_count"`
	CyclesCount       int64 `yaml:"cycles_count" json:"cycles_count"`
}

// IPC returns instructions per cycle, or 0 when no cycles were counted.
func (c CoreBrief) IPC() float64 {
	if c.CyclesCount == 0 {
		return 0
	}
	return float64(c.InstructionsCount) / float64(c.CyclesCount)
}

// BriefSummary is the reduced form of a simulator's brief log.
type BriefSummary struct {
	// Cores lists per-core totals in the order they were reported.
	Cores []CoreBrief `yaml:"cores" json:"cores"`

	// TimeSpentMS is the host wall time of the simulation.
	TimeSpentMS int64 `yaml:"time_spent_ms" json:"time_spent_ms"`
}

// Core returns the totals of the given core. If a core was reported more
// than once the last report wins.
func (b *BriefSummary) Core(number int) (CoreBrief, bool) {
	for i := len(b.Cores) - 1; i >= 0; i-- {
		if b.Cores[i].CoreNumber == number {
			return b.Cores[i], true
		}
	}
	return CoreBrief{}, false
}

// ParseBrief extracts per-core counters and host time from a brief log.
// The default mode is Lenient: lines that match neither the core totals
// nor the host time pattern are ignored.
func ParseBrief(r io.Reader, opts ...Option) (*BriefSummary, error) {
	o := buildOptions(Lenient, opts)
	brief := &BriefSummary{}

	err := eachLine(r, func(number int, line string) error {
		return parseBriefLine(brief, o, number, line)
	})
	if err != nil {
		return nil, err
	}
	return brief, nil
}

// ParseBriefLines is ParseBrief over lines that are already split.
func ParseBriefLines(lines []string, opts ...Option) (*BriefSummary, error) {
	o := buildOptions(Lenient, opts)
	brief := &BriefSummary{}

	err := eachLineOf(lines, func(number int, line string) error {
		return parseBriefLine(brief, o, number, line)
	})
	if err != nil {
		return nil, err
	}
	return brief, nil
}

func parseBriefLine(brief *BriefSummary, o Options, number int, line string) error {
	line = trim(line)
	if line == "" {
		return nil
	}

	if m := coreRow.FindStringSubmatch(line); m != nil {
		core, err := parseCore(m)
		if err != nil {
			return o.countError(number, line, err)
		}
		brief.Cores = append(brief.Cores, core)
		return nil
	}

	if m := timeSpentRow.FindStringSubmatch(line); m != nil {
		ms, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return o.countError(number, line, err)
		}
		brief.TimeSpentMS = ms
		return nil
	}

	if o.Mode == Strict {
		return &ParseError{Source: o.Source, Line: number, Content: line}
	}
	return nil
}

// countError reports a matched line whose counts do not fit. Lenient parses
// skip the line.
func (o Options) countError(number int, line string, cause error) error {
	if o.Mode == Lenient {
		return nil
	}
	return &ParseError{Source: o.Source, Line: number, Content: line, Cause: cause}
}

func parseCore(m []string) (CoreBrief, error) {
	number, err := strconv.Atoi(m[1])
	if err != nil {
		return CoreBrief{}, err
	}
	instructions, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return CoreBrief{}, err
	}
	cycles, err := strconv.ParseInt(m[3], 10, 64)
	if err != nil {
		return CoreBrief{}, err
	}

	return CoreBrief{
		CoreNumber:        number,
		InstructionsCount: instructions,
		CyclesCount:       cycles,
	}, nil
}
