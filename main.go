package main

import (
	"fmt"
	"os"

	"github.com/kubiyabot/dynatrace-mcp/internal/cli"
	dterrors "github.com/kubiyabot/dynatrace-mcp/internal/errors"
	"github.com/kubiyabot/dynatrace-mcp/internal/version"
)

// Set by goreleaser
var (
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	version.SetBuildInfo(commit, date, builtBy)

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, dterrors.FormatSimple(err))
		os.Exit(dterrors.ExitCodeFromError(err))
	}
}
