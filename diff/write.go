package diff

import (
	"encoding/csv"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/olekukonko/tablewriter"
)

// metricColumns is the number of trailing numeric columns per row.
const metricColumns = 8

// WriteCSV writes the canonical diff table consumed by report renderers.
func WriteCSV(w io.Writer, r *Result) error {
	writer := csv.NewWriter(w)
	if err := writer.WriteAll(r.Records()); err != nil {
		return errors.Wrap(err, "failed to write diff table")
	}
	return nil
}

// WriteTable writes the diff as an aligned text table for terminals.
func WriteTable(w io.Writer, r *Result) {
	records := r.Records()

	tw := tablewriter.NewWriter(w)
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	tw.SetHeader(records[0])

	alignments := make([]int, len(records[0]))
	keyCols := len(records[0]) - metricColumns
	for i := range alignments {
		if i < keyCols {
			alignments[i] = tablewriter.ALIGN_LEFT
		} else {
			alignments[i] = tablewriter.ALIGN_RIGHT
		}
	}
	tw.SetColumnAlignment(alignments)

	tw.AppendBulk(records[1:])
	tw.Render()
}
