package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/lucro/cmd/lucro/cmd/history"
	"github.com/agentstation/lucro/cmd/lucro/cmd/prices"
	"github.com/agentstation/lucro/cmd/lucro/cmd/search"
	"github.com/agentstation/lucro/cmd/lucro/cmd/status"
	"github.com/agentstation/lucro/cmd/lucro/cmd/update"
	"github.com/agentstation/lucro/internal/cmd/globals"
	"github.com/agentstation/lucro/internal/cmd/output"
	"github.com/agentstation/lucro/internal/config"
	"github.com/agentstation/lucro/pkg/errors"
	"github.com/agentstation/lucro/pkg/logging"
)

// Execute runs the lucro CLI with the given arguments.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	if a.out != nil {
		rootCmd.SetOut(a.out)
		rootCmd.SetErr(a.out)
	}
	return rootCmd.ExecuteContext(ctx)
}

func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "lucro",
		Short:   "Albion Online market catalog and price lookup",
		Version: a.version,
		Long: `Lucro keeps a local copy of the Albion Online item catalog, resolves
item names typed in your language to catalog ids and looks up their
market prices in the royal cities.

The catalog is fetched from the ao-data item dump on first use and
refreshed when it is older than the refresh interval. Prices come from
the Albion Online Data Project.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "Core Commands:"})
	rootCmd.AddGroup(&cobra.Group{ID: "management", Title: "Management Commands:"})

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.settings.ConfigFile, "config", "", "config file (default is $HOME/.lucro.yaml)")
	pf.StringVar(&a.settings.DataDir, "data-dir", "", "directory of the cached catalog")
	pf.StringVar(&a.settings.Locale, "locale", "", "locale of item names, e.g. PT-BR")
	pf.BoolVar(&a.settings.Offline, "offline", false, "never refresh the catalog before searching")
	pf.StringVar(&a.settings.LogLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")
	pf.StringVar(&a.settings.LogFormat, "log-format", "", "log format: auto, console, json")
	pf.StringVar(&a.settings.LogOutput, "log-file", "", "write logs to this file instead of stderr")
	a.flags = globals.AddFlags(rootCmd)

	rootCmd.SetVersionTemplate("lucro {{.Version}}\n")

	a.registerCommands(rootCmd)
	return rootCmd
}

// setupCommand loads configuration, applies the root flags and rebuilds
// the logger before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	flags, err := globals.Parse(cmd)
	if err != nil {
		return err
	}
	format, err := output.ParseFormat(flags.Output)
	if err != nil {
		return errors.NewValidationError("output", flags.Output, err.Error())
	}
	if format == "" {
		format = output.DetectFormat("")
	}
	flags.Output = string(format)
	a.flags = flags

	if !a.fixedLogger {
		logger := NewLogger(a.settings, a.flags)
		a.logger = &logger
		logging.SetDefault(logger)
	}

	if a.config == nil {
		cfg, err := config.Load(a.settings.ConfigFile)
		if err != nil {
			return err
		}
		a.config = cfg
	}
	if err := a.applySettings(cmd); err != nil {
		return err
	}

	cmd.SetContext(logging.WithLogger(cmd.Context(), a.logger))
	a.logger.Debug().
		Str("config_file", a.config.ConfigFile).
		Str("data_dir", a.config.DataDir).
		Str("locale", a.config.Locale).
		Msg("Configuration loaded")
	return nil
}

// applySettings overrides config values with the root flags the user set.
func (a *App) applySettings(cmd *cobra.Command) error {
	flags := cmd.Flags()
	if flags.Changed("data-dir") {
		a.config.DataDir = a.settings.DataDir
	}
	if flags.Changed("locale") {
		locale, err := config.NormalizeLocale(a.settings.Locale)
		if err != nil {
			return err
		}
		a.config.Locale = locale
	}
	if flags.Changed("offline") {
		a.config.Offline = a.settings.Offline
	}
	return a.config.Validate()
}

func (a *App) registerCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(search.NewCommand(a))
	rootCmd.AddCommand(prices.NewCommand(a))
	rootCmd.AddCommand(history.NewCommand(a))

	rootCmd.AddCommand(update.NewCommand(a))
	rootCmd.AddCommand(status.NewCommand(a))

	rootCmd.AddCommand(a.newVersionCommand())
}

func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		// Needs no configuration.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("lucro %s\n", a.version)
			if a.flags.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
			}
		},
	}
}

// ExitOnError prints err and exits with status 1.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
