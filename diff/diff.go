// Package diff compares the run tables of two benchmark executions and
// produces per-key instruction and cycle deltas.
package diff

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/cockroachdb/errors"

	"github.com/sarchlab/simuben/table"
)

// Metric names used in column headers.
const (
	MetricInstructions = "instructions"
	MetricCycles       = "cycles"
)

// UndefinedPercent is printed for a relative diff against a zero baseline.
const UndefinedPercent = "n/a"

// ZeroPolicy decides what a relative diff against an old value of 0 becomes.
type ZeroPolicy int

const (
	// ZeroAsUndefined marks the relative diff undefined and renders it as
	// UndefinedPercent.
	ZeroAsUndefined ZeroPolicy = iota
	// ZeroAsError fails the comparison with a *ZeroBaselineError.
	ZeroAsError
)

// ParseZeroPolicy maps "undefined" and "error" to their policies.
func ParseZeroPolicy(s string) (ZeroPolicy, error) {
	switch s {
	case "", "undefined":
		return ZeroAsUndefined, nil
	case "error":
		return ZeroAsError, nil
	default:
		return 0, errors.Newf("unknown zero policy %q (want undefined or error)", s)
	}
}

func (p ZeroPolicy) String() string {
	switch p {
	case ZeroAsUndefined:
		return "undefined"
	case ZeroAsError:
		return "error"
	default:
		return "unknown"
	}
}

// Percent is a relative change in percent.
type Percent struct {
	Value   float64
	Defined bool
}

// String renders the percentage with an explicit sign and two fractional
// digits, e.g. "+12.50%".
func (p Percent) String() string {
	if !p.Defined {
		return UndefinedPercent
	}
	return fmt.Sprintf("%+.2f%%", p.Value)
}

// Delta compares one metric between two runs.
type Delta struct {
	Old int64
	New int64
	// Abs is New - Old. Loaded counts are never negative, so it cannot wrap.
	Abs int64
	// Rel is Abs / Old * 100.
	Rel Percent
}

// Row is the comparison of one key.
type Row struct {
	Key table.Key
	// RunName is the new table's run_name cell for the key.
	RunName      string
	Instructions Delta
	Cycles       Delta
}

// Result is the ordered comparison of two run tables.
type Result struct {
	KeyColumns []string
	Rows       []Row
}

// Options configures Compare.
type Options struct {
	ZeroPolicy ZeroPolicy
}

// Compare diffs two tables built with the same key columns. Both tables
// must cover exactly the same keys; rows are returned in ascending key
// order.
func Compare(oldTable, newTable *table.RunTable, opts Options) (*Result, error) {
	if !slices.Equal(oldTable.KeyColumns(), newTable.KeyColumns()) {
		return nil, errors.Newf("key columns differ: %v in %s, %v in %s",
			oldTable.KeyColumns(), oldTable.Source(),
			newTable.KeyColumns(), newTable.Source())
	}

	if err := checkKeySets(oldTable, newTable); err != nil {
		return nil, err
	}

	result := &Result{KeyColumns: oldTable.KeyColumns()}
	for _, key := range oldTable.SortedKeys() {
		o, _ := oldTable.Row(key)
		n, _ := newTable.Row(key)

		instructions, err := compareMetric(key, MetricInstructions, o.Instructions, n.Instructions, opts)
		if err != nil {
			return nil, err
		}
		cycles, err := compareMetric(key, MetricCycles, o.Cycles, n.Cycles, opts)
		if err != nil {
			return nil, err
		}

		result.Rows = append(result.Rows, Row{
			Key:          key,
			RunName:      n.RunName,
			Instructions: instructions,
			Cycles:       cycles,
		})
	}

	return result, nil
}

func checkKeySets(oldTable, newTable *table.RunTable) error {
	var missingInNew, missingInOld []table.Key
	for _, k := range oldTable.SortedKeys() {
		if !newTable.Has(k) {
			missingInNew = append(missingInNew, k)
		}
	}
	for _, k := range newTable.SortedKeys() {
		if !oldTable.Has(k) {
			missingInOld = append(missingInOld, k)
		}
	}

	if len(missingInNew) == 0 && len(missingInOld) == 0 {
		return nil
	}
	return &KeySetMismatchError{
		OldSource:    oldTable.Source(),
		NewSource:    newTable.Source(),
		MissingInNew: missingInNew,
		MissingInOld: missingInOld,
	}
}

func compareMetric(key table.Key, metric string, o, n int64, opts Options) (Delta, error) {
	d := Delta{Old: o, New: n, Abs: n - o}
	if o == 0 {
		switch opts.ZeroPolicy {
		case ZeroAsError:
			return Delta{}, &ZeroBaselineError{Key: key, Metric: metric}
		case ZeroAsUndefined:
			return d, nil
		default:
			return Delta{}, errors.Newf("unknown zero policy %d", opts.ZeroPolicy)
		}
	}

	d.Rel = Percent{
		Value:   float64(d.Abs) / float64(o) * 100,
		Defined: true,
	}
	return d, nil
}

// Header returns the column names of the diff table. A run_name column
// leads unless it is already a key column.
func (r *Result) Header() []string {
	var header []string
	if !slices.Contains(r.KeyColumns, table.RunNameColumn) {
		header = append(header, table.RunNameColumn)
	}
	header = append(header, r.KeyColumns...)
	for _, m := range []string{MetricInstructions, MetricCycles} {
		header = append(header,
			m+"_old",
			m+"_new",
			m+"_diff_absolute",
			m+"_diff_relative",
		)
	}
	return header
}

// Records returns the header followed by one record per row.
func (r *Result) Records() [][]string {
	prefixRunName := !slices.Contains(r.KeyColumns, table.RunNameColumn)

	records := make([][]string, 0, len(r.Rows)+1)
	records = append(records, r.Header())
	for _, row := range r.Rows {
		var rec []string
		if prefixRunName {
			rec = append(rec, row.RunName)
		}
		rec = append(rec, row.Key...)
		rec = appendDelta(rec, row.Instructions)
		rec = appendDelta(rec, row.Cycles)
		records = append(records, rec)
	}
	return records
}

func appendDelta(rec []string, d Delta) []string {
	return append(rec,
		strconv.FormatInt(d.Old, 10),
		strconv.FormatInt(d.New, 10),
		strconv.FormatInt(d.Abs, 10),
		d.Rel.String(),
	)
}
