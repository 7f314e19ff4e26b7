package table

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/cockroachdb/errors"
)

// SuiteSource is one per-suite brief export to be merged.
type SuiteSource struct {
	// Suite identifies the suite; it becomes the test_suite_name cell.
	Suite string
	// Name identifies the source in errors, e.g. a file path.
	Name string
	// Reader yields the CSV content.
	Reader io.Reader
}

// Merged is a run-wide table built from per-suite sources.
type Merged struct {
	Header []string
	Rows   [][]string
}

// Records returns the header followed by all rows.
func (m *Merged) Records() [][]string {
	records := make([][]string, 0, len(m.Rows)+1)
	records = append(records, m.Header)
	return append(records, m.Rows...)
}

// WriteCSV writes the merged table to w.
func (m *Merged) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.WriteAll(m.Records()); err != nil {
		return errors.Wrap(err, "failed to write merged table")
	}
	return nil
}

// Merge concatenates per-suite tables into one table for runName. The
// first source's header, prefixed with run_name and test_suite_name,
// becomes the merged header; later headers are skipped without being
// compared. Rows keep source order. Every source must have a header and at
// least one data row.
func Merge(runName string, sources []SuiteSource) (*Merged, error) {
	if len(sources) == 0 {
		return nil, errors.New("no sources to merge")
	}

	merged := &Merged{}
	for _, src := range sources {
		if err := mergeOne(merged, runName, src); err != nil {
			return nil, err
		}
	}
	return merged, nil
}

func mergeOne(merged *Merged, runName string, src SuiteSource) error {
	reader := newReader(src.Reader)

	header, err := reader.Read()
	if err == io.EOF {
		return &EmptySourceError{Source: src.Name}
	}
	if err != nil {
		return errors.Wrapf(err, "failed to read header of %s", src.Name)
	}

	if merged.Header == nil {
		merged.Header = append([]string{RunNameColumn, SuiteNameColumn}, header...)
	}

	rows := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrapf(err, "failed to read %s", src.Name)
		}

		merged.Rows = append(merged.Rows, append([]string{runName, src.Suite}, record...))
		rows++
	}

	if rows == 0 {
		return &EmptySourceError{Source: src.Name, HeaderOnly: true}
	}
	return nil
}

// SuiteFile names a suite's brief export on disk.
type SuiteFile struct {
	Suite string
	Path  string
}

// MergeFiles opens each file in order and merges them with Merge.
func MergeFiles(runName string, files []SuiteFile) (*Merged, error) {
	sources := make([]SuiteSource, 0, len(files))
	for _, sf := range files {
		f, err := os.Open(sf.Path)
		if err != nil {
			closeAll(sources)
			return nil, errors.Wrapf(err, "failed to open brief export of suite %s", sf.Suite)
		}
		sources = append(sources, SuiteSource{Suite: sf.Suite, Name: sf.Path, Reader: f})
	}
	defer closeAll(sources)

	return Merge(runName, sources)
}

func closeAll(sources []SuiteSource) {
	for _, src := range sources {
		if c, ok := src.Reader.(io.Closer); ok {
			_ = c.Close()
		}
	}
}
