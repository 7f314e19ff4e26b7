package main

import (
	"bytes"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sarchlab/simuben/diff"
	"github.com/sarchlab/simuben/table"
)

func newMergeCommand(opts *globalOptions) *cobra.Command {
	var (
		runName string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "merge --run <name> <suite>=<brief.csv>...",
		Short: "Merge per-suite brief exports into one run table",
		Long: `Concatenates per-suite brief exports in argument order, prefixing
every row with the run name and the suite name.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := parseSuiteFiles(args)
			if err != nil {
				return err
			}

			merged, err := table.MergeFiles(runName, files)
			if err != nil {
				return err
			}

			opts.logger(cmd).Info("tables merged",
				"run", runName, "suites", len(files), "rows", len(merged.Rows))

			var buf bytes.Buffer
			if err := merged.WriteCSV(&buf); err != nil {
				return err
			}
			return writeOutput(cmd, output, buf.Bytes())
		},
	}

	cmd.Flags().StringVarP(&runName, "run", "r", "", "run name written to every row")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "where to write the merged table")
	_ = cmd.MarkFlagRequired("run")
	return cmd
}

// parseSuiteFiles splits "suite=path" arguments.
func parseSuiteFiles(args []string) ([]table.SuiteFile, error) {
	files := make([]table.SuiteFile, 0, len(args))
	for _, arg := range args {
		suite, path, ok := strings.Cut(arg, "=")
		if !ok || suite == "" || path == "" {
			return nil, errors.Newf("expected <suite>=<path>, got %q", arg)
		}
		files = append(files, table.SuiteFile{Suite: suite, Path: path})
	}
	return files, nil
}

func newDiffCommand(opts *globalOptions) *cobra.Command {
	var (
		oldPath    string
		newPath    string
		keyColumns []string
		zeroPolicy string
		format     string
	)

	cmd := &cobra.Command{
		Use:   "diff -o <old.csv> -n <new.csv>",
		Short: "Compare two run tables",
		Long: `Loads two merged run tables, checks that they cover the same keys and
prints, per key, the old and new instruction and cycle counts with their
absolute and relative differences.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd, false)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("key") {
				keyColumns = cfg.Diff.KeyColumns
			}
			if cmd.Flags().Changed("zero-policy") {
				cfg.Diff.ZeroPolicy = zeroPolicy
			}
			diffOptions, err := cfg.DiffOptions()
			if err != nil {
				return err
			}

			oldTable, newTable, err := loadPair(oldPath, newPath, keyColumns)
			if err != nil {
				return err
			}

			result, err := diff.Compare(oldTable, newTable, diffOptions)
			if err != nil {
				return err
			}

			opts.logger(cmd).V(1).Info("tables compared",
				"old", oldPath, "new", newPath, "rows", len(result.Rows))

			switch format {
			case "csv":
				return diff.WriteCSV(cmd.OutOrStdout(), result)
			case "table":
				diff.WriteTable(cmd.OutOrStdout(), result)
				return nil
			default:
				return errors.Newf("unknown format %q (want csv or table)", format)
			}
		},
	}

	cmd.Flags().StringVarP(&oldPath, "old", "o", "", "baseline run table")
	cmd.Flags().StringVarP(&newPath, "new", "n", "", "candidate run table")
	cmd.Flags().StringSliceVarP(&keyColumns, "key", "k", nil,
		"key columns (default from config: test_suite_name)")
	cmd.Flags().StringVar(&zeroPolicy, "zero-policy", "",
		"relative diff against a zero baseline: undefined or error")
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "output format: csv or table")
	_ = cmd.MarkFlagRequired("old")
	_ = cmd.MarkFlagRequired("new")
	return cmd
}

// loadPair loads both run tables concurrently.
func loadPair(oldPath, newPath string, keyColumns []string) (*table.RunTable, *table.RunTable, error) {
	var oldTable, newTable *table.RunTable

	var g errgroup.Group
	g.Go(func() error {
		var err error
		oldTable, err = table.LoadFile(oldPath, keyColumns)
		return err
	})
	g.Go(func() error {
		var err error
		newTable, err = table.LoadFile(newPath, keyColumns)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return oldTable, newTable, nil
}

// writeOutput writes data to path, or to the command's stdout for "-".
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}
