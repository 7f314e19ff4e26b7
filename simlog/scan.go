package simlog

import (
	"bufio"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
)

// maxLineSize bounds a single log line.
const maxLineSize = 1 << 20

// eachLine calls fn with every line of r and its 1-based number. Lines are
// passed untrimmed.
func eachLine(r io.Reader, fn func(number int, line string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	number := 0
	for scanner.Scan() {
		number++
		if err := fn(number, scanner.Text()); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "failed to read line %d", number+1)
	}
	return nil
}

func eachLineOf(lines []string, fn func(number int, line string) error) error {
	for i, line := range lines {
		if err := fn(i+1, line); err != nil {
			return err
		}
	}
	return nil
}

func trim(line string) string {
	return strings.TrimSpace(line)
}
