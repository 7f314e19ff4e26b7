// Package simlog parses the text streams emitted by RISC-V simulators: the
// per-tick perf counter log and the end-of-run brief summary.
package simlog

// Mode selects how a parser treats non-blank lines that do not match its
// grammar.
type Mode int

const (
	// Strict fails the whole parse on the first unmatched line.
	Strict Mode = iota
	// Lenient skips unmatched lines, and brief lines whose counts overflow.
	Lenient
)

func (m Mode) String() string {
	switch m {
	case Strict:
		return "strict"
	case Lenient:
		return "lenient"
	default:
		return "unknown"
	}
}

// Options configures a parse call.
type Options struct {
	// Source names the input in error messages, e.g. a file path.
	Source string

	// Mode overrides the parser's default mode.
	Mode Mode
}

// Option modifies parse Options.
type Option func(*Options)

// WithSource names the input for error reporting.
func WithSource(source string) Option {
	return func(o *Options) {
		o.Source = source
	}
}

// WithMode overrides the parser's default mode.
func WithMode(mode Mode) Option {
	return func(o *Options) {
		o.Mode = mode
	}
}

func buildOptions(defaultMode Mode, opts []Option) Options {
	o := Options{
		Source: "<input>",
		Mode:   defaultMode,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
