// Package main is the entry point for the qt quality tool runner.
package main

import (
	"fmt"
	"os"

	"github.com/qualitytools/qt/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
