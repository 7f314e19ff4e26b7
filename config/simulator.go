package config

import (
	"github.com/cockroachdb/errors"
)

// SimKind names a supported simulator.
type SimKind int

const (
	// SimVerilator is the cycle-accurate RTL simulator.
	SimVerilator SimKind = iota
	// SimNEMU is the instruction-set emulator.
	SimNEMU
)

func (k SimKind) String() string {
	switch k {
	case SimVerilator:
		return "verilator"
	case SimNEMU:
		return "nemu"
	default:
		return "unknown"
	}
}

// ParseSimKind maps a simulator name to its kind.
func ParseSimKind(s string) (SimKind, error) {
	switch s {
	case "verilator":
		return SimVerilator, nil
	case "nemu":
		return SimNEMU, nil
	default:
		return 0, errors.Newf("unknown simulator %q", s)
	}
}

// ErrSimulatorNotConfigured is returned for a simulator whose section is
// absent from the configuration.
var ErrSimulatorNotConfigured = errors.New("simulator not configured")

// SimulatorPath returns the executable path of the given simulator.
func (c *Config) SimulatorPath(kind SimKind) (string, error) {
	switch kind {
	case SimVerilator:
		if c.Verilator == nil {
			return "", errors.Wrapf(ErrSimulatorNotConfigured, "%s", kind)
		}
		return c.Verilator.Path, nil
	case SimNEMU:
		if c.NEMU == nil {
			return "", errors.Wrapf(ErrSimulatorNotConfigured, "%s", kind)
		}
		return c.NEMU.Path, nil
	default:
		return "", errors.Newf("unknown simulator kind %d", kind)
	}
}

// Simulators lists the configured simulators in a fixed order.
func (c *Config) Simulators() []SimKind {
	var kinds []SimKind
	for _, k := range []SimKind{SimVerilator, SimNEMU} {
		if _, err := c.SimulatorPath(k); err == nil {
			kinds = append(kinds, k)
		}
	}
	return kinds
}
