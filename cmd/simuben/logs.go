package main

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/sarchlab/simuben/export"
	"github.com/sarchlab/simuben/metrics"
	"github.com/sarchlab/simuben/simlog"
)

func newPerfCommand(opts *globalOptions) *cobra.Command {
	var lenient bool

	cmd := &cobra.Command{
		Use:   "perf <log>",
		Short: "Render the non-zero counters of a Verilator perf log",
		Long: `Parses a perf log ("-" reads stdin) and prints every counter that
recorded a non-zero value as "namespace.name: [v1, v2, ...]".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, source, err := openInput(cmd, args[0])
			if err != nil {
				return err
			}
			defer func() { _ = in.Close() }()

			mode := simlog.Strict
			if lenient {
				mode = simlog.Lenient
			}

			store, err := simlog.ParsePerf(in, simlog.WithSource(source), simlog.WithMode(mode))
			if err != nil {
				return err
			}

			opts.logger(cmd).V(1).Info("perf log parsed",
				"source", source, "events", store.Len(), "times", len(store.Times()))
			return metrics.WriteRendered(cmd.OutOrStdout(), store)
		},
	}

	cmd.Flags().BoolVar(&lenient, "lenient", false, "skip lines that are not perf records")
	return cmd
}

func newBriefCommand(opts *globalOptions) *cobra.Command {
	var (
		coreNumber int
		noHeader   bool
		format     string
	)

	cmd := &cobra.Command{
		Use:   "brief <log>",
		Short: "Export the per-core totals of a brief log",
		Long: `Reduces a brief log ("-" reads stdin) to per-core instruction and
cycle counts. The csv format writes the selected core's rows; the yaml
format writes every core with its IPC and, when clock_mhz is configured,
its simulated time.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd, false)
			if err != nil {
				return err
			}

			csvConfig := cfg.Export
			if cmd.Flags().Changed("csv-core-number") {
				csvConfig.CoreNumber = coreNumber
			}
			if cmd.Flags().Changed("csv-no-header") {
				csvConfig.HideHeader = noHeader
			}

			in, source, err := openInput(cmd, args[0])
			if err != nil {
				return err
			}
			defer func() { _ = in.Close() }()

			brief, err := simlog.ParseBrief(in, simlog.WithSource(source))
			if err != nil {
				return err
			}

			switch format {
			case "csv":
				return export.BriefCSV(cmd.OutOrStdout(), brief, csvConfig)
			case "yaml":
				return export.BriefYAML(cmd.OutOrStdout(), brief, cfg.Clock())
			default:
				return errors.Newf("unknown format %q (want csv or yaml)", format)
			}
		},
	}

	cmd.Flags().IntVar(&coreNumber, "csv-core-number", 0, "core whose totals are exported")
	cmd.Flags().BoolVar(&noHeader, "csv-no-header", false, "omit the csv header row")
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "output format: csv or yaml")
	return cmd
}
