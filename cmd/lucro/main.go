// Package main provides the entry point for the lucro CLI tool.
package main

import (
	"context"
	"os"

	"github.com/agentstation/lucro/cmd/lucro/app"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	application := app.New(version, commit, date, builtBy)

	ctx, cancel := app.ContextWithSignals(context.Background())
	defer cancel()

	if err := application.Execute(ctx, os.Args[1:]); err != nil {
		cancel()
		app.ExitOnError(err)
	}
}
