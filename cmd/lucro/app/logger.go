package app

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/agentstation/lucro/internal/cmd/globals"
	"github.com/agentstation/lucro/pkg/logging"
)

// NewLogger creates the CLI logger.
// Log level precedence (highest to lowest):
//  1. --log-level flag
//  2. -q/--quiet flag (warn), which wins over -v/--verbose
//  3. -v/--verbose flag (debug)
//  4. LOG_LEVEL environment variable
//  5. Default (info)
func NewLogger(settings Settings, flags *globals.Flags) zerolog.Logger {
	level := determineLogLevel(settings, flags)

	cfg := logging.DefaultConfig()
	cfg.Level = level
	cfg.Format = firstNonEmpty(settings.LogFormat, cfg.Format)
	cfg.Output = firstNonEmpty(settings.LogOutput, cfg.Output)
	cfg.NoColor = cfg.NoColor || flags.NoColor
	cfg.AddCaller = level == "debug" || level == "trace"

	return logging.NewLoggerFromConfig(cfg)
}

func determineLogLevel(settings Settings, flags *globals.Flags) string {
	if settings.LogLevel != "" {
		validated := validateLogLevel(settings.LogLevel)
		if validated != settings.LogLevel {
			fmt.Fprintf(os.Stderr, "Warning: invalid log level %q, using %q\n", settings.LogLevel, validated)
		}
		return validated
	}

	switch {
	case flags.Verbose && flags.Quiet:
		fmt.Fprintf(os.Stderr, "Warning: both --verbose and --quiet specified, using --quiet\n")
		return "warn"
	case flags.Quiet:
		return "warn"
	case flags.Verbose:
		return "debug"
	}

	if env := os.Getenv("LOG_LEVEL"); env != "" {
		return validateLogLevel(env)
	}
	return "info"
}

// validateLogLevel returns level when it is known, else "info".
func validateLogLevel(level string) string {
	switch level {
	case "trace", "debug", "info", "warn", "error":
		return level
	default:
		return "info"
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
