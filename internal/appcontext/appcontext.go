// Package appcontext provides the application context interface shared by
// the lucro commands.
package appcontext

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/lucro"
	"github.com/agentstation/lucro/internal/cmd/globals"
	"github.com/agentstation/lucro/internal/config"
)

// Interface defines what commands need from the application. The App in
// cmd/lucro/app implements it; tests use Mock.
type Interface interface {
	// Client returns the catalog client, creating it on first use.
	Client(ctx context.Context) (lucro.Client, error)

	// Config returns the loaded configuration.
	Config() *config.Config

	// Flags returns the output flags of the current invocation.
	Flags() *globals.Flags

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
