// Package config holds the simuben configuration file model.
package config

import (
	"os"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/sarchlab/akita/v4/sim"
	"go.yaml.in/yaml/v3"

	"github.com/sarchlab/simuben/diff"
	"github.com/sarchlab/simuben/export"
	"github.com/sarchlab/simuben/table"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "simuben.yml"

// NexusAMConfig locates the nexus-am tree used to build benchmark images.
type NexusAMConfig struct {
	// Path is the nexus-am root; it is exported as AM_HOME.
	Path string `yaml:"path"`

	// ToolchainPath is the RISC-V cross toolchain bin directory.
	ToolchainPath string `yaml:"toolchain_path"`
}

// VerilatorConfig locates the RTL simulator executable.
type VerilatorConfig struct {
	Path string `yaml:"path"`
}

// NEMUConfig locates the instruction-set emulator executable.
type NEMUConfig struct {
	Path string `yaml:"path"`
}

// DiffConfig controls run table comparison.
type DiffConfig struct {
	// KeyColumns identify a row across the two tables.
	KeyColumns []string `yaml:"key_columns"`

	// ZeroPolicy is "undefined" or "error".
	ZeroPolicy string `yaml:"zero_policy"`
}

// Config is the simuben configuration. The verilator and nemu sections are
// optional; absent sections are nil.
type Config struct {
	NexusAM   NexusAMConfig    `yaml:"nexus_am"`
	Verilator *VerilatorConfig `yaml:"verilator,omitempty"`
	NEMU      *NEMUConfig      `yaml:"nemu,omitempty"`

	Export export.CSVConfig `yaml:"export"`
	Diff   DiffConfig       `yaml:"diff"`

	// ClockMHz is the simulated core clock used to turn cycle counts into
	// simulated time. Zero disables the conversion.
	ClockMHz float64 `yaml:"clock_mhz"`
}

// DefaultConfig returns a Config with no simulators configured.
func DefaultConfig() *Config {
	return &Config{
		Export: export.CSVConfig{
			CoreNumber: 0,
			HideHeader: false,
		},
		Diff: DiffConfig{
			KeyColumns: slices.Clone(table.DefaultKeyColumns),
			ZeroPolicy: diff.ZeroAsUndefined.String(),
		},
	}
}

// LoadConfig loads a Config from a YAML file on top of the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.Wrap(err, "failed to parse config")
	}

	return config, nil
}

// SaveConfig writes a Config to a YAML file.
func (c *Config) SaveConfig(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to serialize config")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}

	return nil
}

// Validate checks that every present section is usable.
func (c *Config) Validate() error {
	if c.Verilator != nil && c.Verilator.Path == "" {
		return errors.New("verilator.path must be set when the verilator section is present")
	}
	if c.NEMU != nil && c.NEMU.Path == "" {
		return errors.New("nemu.path must be set when the nemu section is present")
	}
	if c.Export.CoreNumber < 0 {
		return errors.New("export.core_number must be >= 0")
	}
	if len(c.Diff.KeyColumns) == 0 {
		return errors.New("diff.key_columns must not be empty")
	}
	if _, err := diff.ParseZeroPolicy(c.Diff.ZeroPolicy); err != nil {
		return errors.Wrap(err, "diff.zero_policy")
	}
	if c.ClockMHz < 0 {
		return errors.New("clock_mhz must be >= 0")
	}
	return nil
}

// Clone returns a deep copy of the Config.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Verilator != nil {
		v := *c.Verilator
		clone.Verilator = &v
	}
	if c.NEMU != nil {
		n := *c.NEMU
		clone.NEMU = &n
	}
	clone.Diff.KeyColumns = slices.Clone(c.Diff.KeyColumns)
	return &clone
}

// Clock returns the configured core clock, zero when unset.
func (c *Config) Clock() sim.Freq {
	return sim.Freq(c.ClockMHz) * sim.MHz
}

// DiffOptions builds diff options from the diff section.
func (c *Config) DiffOptions() (diff.Options, error) {
	policy, err := diff.ParseZeroPolicy(c.Diff.ZeroPolicy)
	if err != nil {
		return diff.Options{}, err
	}
	return diff.Options{ZeroPolicy: policy}, nil
}
