package metrics

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Render formats every bucket that recorded at least one non-zero value as
// "{namespace}.{name}: [v1, v2, ...]". Counters that never fired are
// dropped.
func Render(s *Store) []string {
	var lines []string
	s.Each(func(b Bucket) {
		if b.AllZero() {
			return
		}
		lines = append(lines, b.Namespace+"."+b.Name+": "+formatValues(b.Values))
	})
	return lines
}

// WriteRendered writes the rendered lines of s to w, one per line.
func WriteRendered(w io.Writer, s *Store) error {
	for _, line := range Render(s) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func formatValues(values []int64) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range values {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.FormatInt(v, 10))
	}
	sb.WriteByte(']')
	return sb.String()
}
