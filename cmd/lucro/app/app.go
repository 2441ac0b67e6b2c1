// Package app wires configuration, logging and the catalog client for the
// lucro CLI and hands them to the commands.
package app

import (
	"context"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/lucro"
	"github.com/agentstation/lucro/internal/appcontext"
	"github.com/agentstation/lucro/internal/cmd/globals"
	"github.com/agentstation/lucro/internal/config"
	"github.com/agentstation/lucro/pkg/logging"
)

// Ensure App implements appcontext.Interface at compile time.
var _ appcontext.Interface = (*App)(nil)

// App holds the dependencies of one CLI invocation.
type App struct {
	version string
	commit  string
	date    string
	builtBy string

	config   *config.Config
	flags    *globals.Flags
	settings Settings
	logger   *zerolog.Logger
	// fixedLogger is set when the logger came from WithLogger
	fixedLogger bool
	out      io.Writer

	// clientOpts are appended to the options derived from config
	clientOpts []lucro.Option

	mu     sync.Mutex
	client lucro.Client
}

// Settings are the root flags that are not part of config.Config.
type Settings struct {
	ConfigFile string
	DataDir    string
	Locale     string
	Offline    bool
	LogLevel   string
	LogFormat  string
	LogOutput  string
}

// Option is a functional option for configuring the App.
type Option func(*App)

// WithConfig uses cfg instead of loading configuration from disk.
func WithConfig(cfg *config.Config) Option {
	return func(a *App) {
		a.config = cfg
	}
}

// WithLogger sets a custom logger; it is kept for every command.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) {
		a.logger = logger
		a.fixedLogger = logger != nil
	}
}

// WithOutput redirects command output, e.g. to a buffer in tests.
func WithOutput(w io.Writer) Option {
	return func(a *App) {
		a.out = w
	}
}

// WithClientOptions appends options to every client the app creates.
func WithClientOptions(opts ...lucro.Option) Option {
	return func(a *App) {
		a.clientOpts = append(a.clientOpts, opts...)
	}
}

// WithClient sets a ready client (useful for testing).
func WithClient(c lucro.Client) Option {
	return func(a *App) {
		a.client = c
	}
}

// New creates an App with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) *App {
	a := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		flags:   &globals.Flags{},
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		logger := NewLogger(a.settings, a.flags)
		a.logger = &logger
	}
	return a
}

// Version returns the version information.
func (a *App) Version() string { return a.version }

// Commit returns the git commit hash.
func (a *App) Commit() string { return a.commit }

// Date returns the build date.
func (a *App) Date() string { return a.date }

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string { return a.builtBy }

// Config returns the application configuration.
func (a *App) Config() *config.Config { return a.config }

// Flags returns the output flags of the current invocation.
func (a *App) Flags() *globals.Flags { return a.flags }

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger { return a.logger }

// Client returns the catalog client, creating it on first use. Creating it
// loads the cached catalog and fetches it when nothing is cached.
func (a *App) Client(ctx context.Context) (lucro.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client != nil {
		return a.client, nil
	}

	opts := append(a.config.Options(), lucro.WithLogger(a.logger))
	opts = append(opts, a.clientOpts...)
	c, err := lucro.New(logging.WithLogger(ctx, a.logger), opts...)
	if err != nil {
		return nil, err
	}
	a.client = c
	return c, nil
}
