// Package main provides the entry point for the LeapProse CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/leapprose/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
