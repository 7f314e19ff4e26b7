package harness

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
)

// SourceExtensions are the file extensions counted as benchmark sources.
var SourceExtensions = []string{".c", ".cpp", ".cc", ".cxx", ".ll"}

// Suite is one named benchmark program built from a set of sources.
type Suite struct {
	// Name is the directory name of the suite.
	Name string

	// Sources are absolute paths of the suite's source files, sorted.
	Sources []string
}

// DiscoverSuites treats every sub-directory of dir as a suite and collects
// its sources recursively. Suites are sorted by name. A suite directory
// without any source is an error.
func DiscoverSuites(dir string) ([]Suite, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve %s", dir)
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read test directory %s", dir)
	}

	var suites []Suite
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		suiteDir := filepath.Join(abs, entry.Name())
		sources, err := collectSources(suiteDir)
		if err != nil {
			return nil, err
		}
		if len(sources) == 0 {
			return nil, errors.Newf("no sources found in suite directory %s", suiteDir)
		}

		suites = append(suites, Suite{Name: entry.Name(), Sources: sources})
	}

	if len(suites) == 0 {
		return nil, errors.Newf("no test suites found in %s", dir)
	}

	slices.SortFunc(suites, func(a, b Suite) int {
		return strings.Compare(a.Name, b.Name)
	})
	return suites, nil
}

func collectSources(dir string) ([]string, error) {
	var sources []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() && slices.Contains(SourceExtensions, filepath.Ext(path)) {
			sources = append(sources, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to scan suite directory %s", dir)
	}

	slices.Sort(sources)
	return sources, nil
}
