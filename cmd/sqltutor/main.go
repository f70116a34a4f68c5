// Package main provides the CLI for the sqltutor tutorial site.
package main

import (
	"os"

	"github.com/leapstack-labs/sqltutor/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
