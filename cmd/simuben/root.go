package main

import (
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/errors/oserror"
	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/spf13/cobra"

	"github.com/sarchlab/simuben/config"
)

// globalOptions are the flags shared by every command.
type globalOptions struct {
	configPath string
	verbosity  int
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "simuben",
		Short:         "Benchmark XiangShan simulators and compare runs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", config.DefaultPath,
		"path to the configuration file")
	root.PersistentFlags().IntVarP(&opts.verbosity, "verbosity", "v", 0,
		"log verbosity; 1 also logs every external command")

	root.AddCommand(
		newPerfCommand(opts),
		newBriefCommand(opts),
		newMergeCommand(opts),
		newDiffCommand(opts),
		newRunCommand(opts),
	)
	return root
}

// logger writes structured logs to the command's stderr.
func (o *globalOptions) logger(cmd *cobra.Command) logr.Logger {
	w := cmd.ErrOrStderr()
	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			_, _ = fmt.Fprintf(w, "%s: %s\n", prefix, args)
			return
		}
		_, _ = fmt.Fprintln(w, args)
	}, funcr.Options{Verbosity: o.verbosity}).WithName("simuben")
}

// loadConfig reads the configuration file. A missing file at the default
// path yields the defaults unless required is set; a missing file that was
// named explicitly is always an error.
func (o *globalOptions) loadConfig(cmd *cobra.Command, required bool) (*config.Config, error) {
	explicit := cmd.Flags().Changed("config")

	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		if !explicit && !required && oserror.IsNotExist(err) {
			return config.DefaultConfig(), nil
		}
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid configuration in %s", o.configPath)
	}
	return cfg, nil
}

// openInput opens path, or the command's stdin for "-".
func openInput(cmd *cobra.Command, path string) (io.ReadCloser, string, error) {
	if path == "-" {
		return io.NopCloser(cmd.InOrStdin()), "<stdin>", nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, "", errors.Wrapf(err, "failed to open %s", path)
	}
	return f, path, nil
}
