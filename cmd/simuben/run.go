package main

import (
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/sarchlab/simuben/config"
	"github.com/sarchlab/simuben/harness"
	"github.com/sarchlab/simuben/simrun"
)

func newRunCommand(opts *globalOptions) *cobra.Command {
	var (
		runName   string
		testsDir  string
		outputDir string
		jsonOut   bool
	)

	cmd := &cobra.Command{
		Use:   "run -r <name> -d <tests>",
		Short: "Build, simulate and merge every suite under a directory",
		Long: `Every sub-directory of the tests directory is a suite. Each suite is
built with nexus-am and simulated with Verilator (and NEMU, when configured).
Logs and brief exports are kept under <output>/<run>/<suite>/ and all suites
are merged into <output>/<run>/verilator.brief.merged.csv. A failed run
leaves no run directory behind.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd, true)
			if err != nil {
				return err
			}

			suites, err := harness.DiscoverSuites(testsDir)
			if err != nil {
				return err
			}

			hc, err := harnessConfig(cfg, opts, cmd)
			if err != nil {
				return err
			}
			hc.RunName = runName
			if outputDir != "" {
				hc.OutputDir = outputDir
			}

			h := harness.NewHarness(hc)
			h.AddSuites(suites)

			result, err := h.RunAll(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOut {
				return h.PrintJSON(result)
			}
			h.PrintResults(result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&runName, "run-name", "r", "", "unique name of this run")
	cmd.Flags().StringVarP(&testsDir, "dir", "d", "", "directory containing one sub-directory per suite")
	cmd.Flags().StringVar(&outputDir, "output-dir", "",
		"directory receiving run directories (default "+filepath.Join("$TMPDIR", "simuben")+")")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the run report as JSON")
	_ = cmd.MarkFlagRequired("run-name")
	_ = cmd.MarkFlagRequired("dir")
	return cmd
}

// harnessConfig wires the configured builder and simulators into a harness
// configuration. Verilator is required; NEMU is optional.
func harnessConfig(cfg *config.Config, opts *globalOptions, cmd *cobra.Command) (harness.HarnessConfig, error) {
	log := opts.logger(cmd)

	hc := harness.DefaultConfig()
	hc.Output = cmd.OutOrStdout()
	hc.Log = log
	hc.CSV = cfg.Export
	hc.Clock = cfg.Clock()

	if cfg.NexusAM.Path == "" {
		return hc, errors.New("nexus_am.path must be set to build suites")
	}
	hc.Builder = harness.NewNexusAM(cfg.NexusAM.Path, cfg.NexusAM.ToolchainPath, log.WithName("nexus-am"))

	path, err := cfg.SimulatorPath(config.SimVerilator)
	if err != nil {
		return hc, errors.Wrap(err, "a run needs the verilator section")
	}
	hc.Simulator = simrun.NewVerilator(path, log.WithName("verilator"))

	if path, err := cfg.SimulatorPath(config.SimNEMU); err == nil {
		hc.Companions = append(hc.Companions, simrun.NewNEMU(path, log.WithName("nemu")))
	}

	return hc, nil
}
