// Package table loads the CSV run tables produced by benchmark runs and
// merges per-suite tables into one run-wide table.
package table

import (
	"encoding/csv"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Column names every run table must carry.
const (
	InstructionsColumn = "instructions"
	CyclesColumn       = "cycles"
	RunNameColumn      = "run_name"
	SuiteNameColumn    = "test_suite_name"
)

// DefaultKeyColumns identifies rows by suite.
var DefaultKeyColumns = []string{SuiteNameColumn}

// KeyedRow is one validated data row of a run table.
type KeyedRow struct {
	Key          Key
	Instructions int64
	Cycles       int64

	// RunName is the row's run_name cell, empty when the source has no
	// such column.
	RunName string

	// Line is the 1-based line of the row in its source.
	Line int
}

// RunTable is a duplicate-free, validated mapping from composite key to
// row. It is not modified after Load returns.
type RunTable struct {
	source     string
	keyColumns []string
	rows       map[string]KeyedRow
	order      []Key
}

// Source returns the name the table was loaded from.
func (t *RunTable) Source() string {
	return t.source
}

// KeyColumns returns the key column names used to build the table.
func (t *RunTable) KeyColumns() []string {
	return slices.Clone(t.keyColumns)
}

// Len returns the number of rows.
func (t *RunTable) Len() int {
	return len(t.rows)
}

// Row returns the row stored under key.
func (t *RunTable) Row(key Key) (KeyedRow, bool) {
	row, ok := t.rows[key.id()]
	return row, ok
}

// Has reports whether key is present.
func (t *RunTable) Has(key Key) bool {
	_, ok := t.rows[key.id()]
	return ok
}

// Keys returns all keys in source order.
func (t *RunTable) Keys() []Key {
	return slices.Clone(t.order)
}

// SortedKeys returns all keys in lexicographic order.
func (t *RunTable) SortedKeys() []Key {
	keys := t.Keys()
	slices.SortFunc(keys, Key.Compare)
	return keys
}

// Rows returns all rows in source order.
func (t *RunTable) Rows() []KeyedRow {
	rows := make([]KeyedRow, 0, len(t.order))
	for _, k := range t.order {
		rows = append(rows, t.rows[k.id()])
	}
	return rows
}

// LoadFile loads a run table from a CSV file.
func LoadFile(path string, keyColumns []string) (*RunTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open run table")
	}
	defer func() { _ = f.Close() }()

	return Load(f, path, keyColumns)
}

// Load reads a CSV run table from r. The header must contain every key
// column plus "instructions" and "cycles"; each data row must carry
// integer metrics and a key not seen before in the same source.
func Load(r io.Reader, source string, keyColumns []string) (*RunTable, error) {
	if len(keyColumns) == 0 {
		return nil, errors.Newf("no key columns given for %s", source)
	}

	reader := newReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &EmptySourceError{Source: source}
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read header of %s", source)
	}

	cols, err := resolveColumns(source, header, keyColumns)
	if err != nil {
		return nil, err
	}

	t := &RunTable{
		source:     source,
		keyColumns: slices.Clone(keyColumns),
		rows:       make(map[string]KeyedRow),
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", source)
		}
		line, _ := reader.FieldPos(0)

		row, err := cols.row(record)
		if err != nil {
			return nil, &MalformedRowError{Source: source, Line: line, Row: record, Cause: err}
		}
		row.Line = line

		id := row.Key.id()
		if prev, dup := t.rows[id]; dup {
			return nil, &DuplicateKeyError{
				Source:    source,
				Key:       row.Key,
				Line:      line,
				FirstLine: prev.Line,
			}
		}

		t.rows[id] = row
		t.order = append(t.order, row.Key)
	}

	return t, nil
}

func newReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return reader
}

type columns struct {
	keys         []int
	instructions int
	cycles       int
	runName      int
}

// resolveColumns maps the required column names onto header positions.
// Key columns must match exactly. The metric columns also accept a
// case-insensitive match so brief exports headed "Instructions,Cycles" load.
func resolveColumns(source string, header []string, keyColumns []string) (columns, error) {
	required := append(slices.Clone(keyColumns), InstructionsColumn, CyclesColumn)

	index := make(map[string]int, len(required))
	var missing []string
	for _, name := range required {
		i := slices.Index(header, name)
		if i < 0 && isMetricColumn(name) {
			i = findMetricColumn(header, name)
		}
		if i < 0 {
			missing = append(missing, name)
			continue
		}
		index[name] = i
	}

	if len(missing) > 0 {
		slices.Sort(missing)
		missing = slices.Compact(missing)
		return columns{}, &SchemaError{Source: source, Missing: missing}
	}

	cols := columns{
		instructions: index[InstructionsColumn],
		cycles:       index[CyclesColumn],
		runName:      slices.Index(header, RunNameColumn),
	}
	for _, name := range keyColumns {
		cols.keys = append(cols.keys, index[name])
	}
	return cols, nil
}

func isMetricColumn(name string) bool {
	return name == InstructionsColumn || name == CyclesColumn
}

func findMetricColumn(header []string, name string) int {
	return slices.IndexFunc(header, func(h string) bool {
		return strings.EqualFold(strings.TrimSpace(h), name)
	})
}

func (c columns) row(record []string) (KeyedRow, error) {
	cell := func(i int) (string, error) {
		if i >= len(record) {
			return "", errors.Newf("row has %d fields, column %d is missing", len(record), i+1)
		}
		return record[i], nil
	}

	key := make(Key, 0, len(c.keys))
	for _, i := range c.keys {
		v, err := cell(i)
		if err != nil {
			return KeyedRow{}, err
		}
		key = append(key, v)
	}

	instructions, err := intCell(c.instructions, cell)
	if err != nil {
		return KeyedRow{}, err
	}
	cycles, err := intCell(c.cycles, cell)
	if err != nil {
		return KeyedRow{}, err
	}

	row := KeyedRow{
		Key:          key,
		Instructions: instructions,
		Cycles:       cycles,
	}
	if c.runName >= 0 && c.runName < len(record) {
		row.RunName = record[c.runName]
	}
	return row, nil
}

func intCell(i int, cell func(int) (string, error)) (int64, error) {
	v, err := cell(i)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "column %d", i+1)
	}
	if n < 0 {
		return 0, errors.Newf("column %d holds negative count %d", i+1, n)
	}
	return n, nil
}
