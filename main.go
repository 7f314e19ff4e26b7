// Package main provides the entry point for simuben.
// simuben benchmarks XiangShan RISC-V simulators and compares runs.
//
// The CLI lives in ./cmd/simuben; its package documentation lists the
// commands.
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("simuben - XiangShan simulator benchmarking")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/simuben --help' for the commands.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/simuben' instead.")
	}
}
