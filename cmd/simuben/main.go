// Command simuben turns RISC-V simulator output into benchmark tables and
// compares runs.
//
// Usage:
//
//	simuben <command> [flags]
//
// Commands:
//
//	perf   Render a Verilator perf log
//	brief  Export the per-core totals of a brief log
//	merge  Merge per-suite brief exports into one run table
//	diff   Compare two run tables
//	run    Build, simulate and merge every suite under a directory
//
// Example:
//
//	# Benchmark every suite under tests/ as run "baseline"
//	simuben run -r baseline -d tests/ -c simuben.yml
//
//	# Compare two runs
//	simuben diff -o baseline.csv -n candidate.csv --format table
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCommand().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "simuben: %v\n", err)
		os.Exit(1)
	}
}
