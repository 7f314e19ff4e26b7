package simlog

import (
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/sarchlab/simuben/metrics"
)

// perfRow matches "[PERF ][time=<tick>] <namespace>: <name>, <value>".
// Trailing text after the value is tolerated.
var perfRow = regexp.MustCompile(`^\[PERF \]\[time=\s*(\d+)\]\s*([^:]+):\s*([^,]+),\s*(\d+)`)

// ParsePerf folds a perf log into a metrics.Store. The default mode is
// Strict: the first non-blank line that does not match the perf grammar
// aborts the parse with a *ParseError and no store is returned.
func ParsePerf(r io.Reader, opts ...Option) (*metrics.Store, error) {
	o := buildOptions(Strict, opts)
	store := metrics.NewStore()

	err := eachLine(r, func(number int, line string) error {
		return parsePerfLine(store, o, number, line)
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// ParsePerfLines is ParsePerf over lines that are already split.
func ParsePerfLines(lines []string, opts ...Option) (*metrics.Store, error) {
	o := buildOptions(Strict, opts)
	store := metrics.NewStore()

	err := eachLineOf(lines, func(number int, line string) error {
		return parsePerfLine(store, o, number, line)
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// ParsePerfEvent parses one perf line. ok is false when the line does not
// match the grammar.
func ParsePerfEvent(line string) (e metrics.Event, ok bool, err error) {
	m := perfRow.FindStringSubmatch(trim(line))
	if m == nil {
		return metrics.Event{}, false, nil
	}

	time, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return metrics.Event{}, true, err
	}
	value, err := strconv.ParseInt(m[4], 10, 64)
	if err != nil {
		return metrics.Event{}, true, err
	}

	return metrics.Event{
		Time:      time,
		Namespace: strings.TrimSpace(m[2]),
		Name:      strings.TrimSpace(m[3]),
		Value:     value,
	}, true, nil
}

func parsePerfLine(store *metrics.Store, o Options, number int, line string) error {
	if trim(line) == "" {
		return nil
	}

	e, ok, err := ParsePerfEvent(line)
	if err != nil {
		return &ParseError{Source: o.Source, Line: number, Content: trim(line), Cause: err}
	}
	if !ok {
		if o.Mode == Lenient {
			return nil
		}
		return &ParseError{Source: o.Source, Line: number, Content: trim(line)}
	}

	store.Add(e)
	return nil
}
