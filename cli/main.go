package main

import (
	"fmt"
	"os"

	"github.com/trebuchet-org/treb-market/internal/cli"
	"github.com/trebuchet-org/treb-market/internal/cli/render"
	"github.com/trebuchet-org/treb-market/internal/config"
	"github.com/trebuchet-org/treb-market/internal/domain"
)

// Set by goreleaser ldflags
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	config.SetBuildFlags(version, commit, date)

	rootCmd := cli.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		if domain.IsUserRejection(err) {
			fmt.Fprintln(os.Stderr, render.FormatWarning("Cancelled: rejected by user"))
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
