// Package main provides the tapdeck CLI.
package main

import (
	"os"

	"github.com/tapdeck-labs/tapdeck/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
