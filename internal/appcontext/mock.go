package appcontext

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/lucro"
	"github.com/agentstation/lucro/internal/cmd/globals"
	"github.com/agentstation/lucro/internal/config"
	"github.com/agentstation/lucro/pkg/errors"
	"github.com/agentstation/lucro/pkg/logging"
)

// Mock provides a mock implementation of Interface for testing.
// Nil fields fall back to zero values.
type Mock struct {
	ClientValue lucro.Client
	ConfigValue *config.Config
	FlagsValue  *globals.Flags
	LoggerValue *zerolog.Logger
	VersionInfo string
}

var _ Interface = (*Mock)(nil)

// Client returns ClientValue, or an error when it is unset.
func (m *Mock) Client(context.Context) (lucro.Client, error) {
	if m.ClientValue == nil {
		return nil, errors.NewCriticalStartupError("client", errors.ErrNotFound)
	}
	return m.ClientValue, nil
}

// Config returns ConfigValue or an empty config.
func (m *Mock) Config() *config.Config {
	if m.ConfigValue == nil {
		return &config.Config{}
	}
	return m.ConfigValue
}

// Flags returns FlagsValue or empty flags.
func (m *Mock) Flags() *globals.Flags {
	if m.FlagsValue == nil {
		return &globals.Flags{}
	}
	return m.FlagsValue
}

// Logger returns LoggerValue or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerValue == nil {
		return &logging.Nop
	}
	return m.LoggerValue
}

// Version returns VersionInfo.
func (m *Mock) Version() string { return m.VersionInfo }

// Commit returns an empty commit.
func (m *Mock) Commit() string { return "" }

// Date returns an empty date.
func (m *Mock) Date() string { return "" }

// BuiltBy returns an empty builder.
func (m *Mock) BuiltBy() string { return "" }
