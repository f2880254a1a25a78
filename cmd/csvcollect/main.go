// Package main provides the CLI for csvcollect.
package main

import (
	"context"
	"errors"
	"os"

	"github.com/leapstack-labs/csvcollect/internal/cli"
	"github.com/leapstack-labs/csvcollect/internal/collector"
)

// Exit codes.
const (
	exitError         = 1
	exitConfiguration = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	err := cli.Execute(context.Background())
	return exitCode(err)
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, collector.ErrConfiguration):
		return exitConfiguration
	default:
		return exitError
	}
}
