package harness

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/sarchlab/simuben/export"
	"github.com/sarchlab/simuben/metrics"
	"github.com/sarchlab/simuben/simrun"
)

// Artifact file suffixes, each following the simulator name.
const (
	LogSuffix      = ".log"
	PerfSuffix     = ".perf.log"
	BriefCSVSuffix = ".brief.csv"
)

// writeArtifacts stores a simulator's raw output, its rendered perf log and
// its brief export in dir. It returns the brief export's path.
func writeArtifacts(dir, name string, res *simrun.Result, cfg export.CSVConfig) (string, error) {
	if err := writeLog(dir, name, res.Output); err != nil {
		return "", err
	}

	if res.Perf != nil {
		var buf bytes.Buffer
		if err := metrics.WriteRendered(&buf, res.Perf); err != nil {
			return "", errors.Wrapf(err, "failed to render %s perf log", name)
		}
		if err := writeFile(filepath.Join(dir, name+PerfSuffix), buf.Bytes()); err != nil {
			return "", err
		}
	}

	var buf bytes.Buffer
	if err := export.BriefCSV(&buf, res.Brief, cfg); err != nil {
		return "", err
	}

	path := filepath.Join(dir, name+BriefCSVSuffix)
	if err := writeFile(path, buf.Bytes()); err != nil {
		return "", err
	}
	return path, nil
}

// writeLog stores stdout followed by stderr as <name>.log.
func writeLog(dir, name string, out simrun.Output) error {
	data := make([]byte, 0, len(out.Stdout)+len(out.Stderr))
	data = append(data, out.Stdout...)
	data = append(data, out.Stderr...)
	return writeFile(filepath.Join(dir, name+LogSuffix), data)
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}
