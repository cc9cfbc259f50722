// Package cmdutils wires the shared application stack for the CLI
// commands: configuration, logging, transport, credential storage and
// the session store.
package cmdutils

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/samber/oops"

	slogctx "github.com/veqryn/slog-context"

	"github.com/firasabed78/culinary--academy/internal/api"
	"github.com/firasabed78/culinary--academy/internal/config"
	"github.com/firasabed78/culinary--academy/internal/credstore"
	"github.com/firasabed78/culinary--academy/internal/guard"
	"github.com/firasabed78/culinary--academy/internal/session"
)

// App is the assembled application stack. One instance per process.
type App struct {
	Cfg      *config.Config
	Creds    credstore.Store
	API      *api.Client
	Sessions *session.Store
	Nav      *guard.Navigator
}

// Bootstrap loads the configuration, initialises the logger and builds
// the stack. The unauthorized hook of the transport is bound to the
// session cleanup so that a 401 from any endpoint demotes the session.
func Bootstrap(ctx context.Context, cfgPath string) (*App, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, oops.In("bootstrap").Wrapf(err, "Failed to load the configuration")
	}

	if err := InitLogger(cfg.Logger); err != nil {
		return nil, oops.In("bootstrap").Wrapf(err, "Failed to initialise the logger")
	}
	slogctx.Debug(ctx, "Starting the application", slog.Any("config", cfg))

	stateDir, err := cfg.StateDir()
	if err != nil {
		return nil, oops.In("bootstrap").Wrapf(err, "Failed to resolve the state directory")
	}
	creds := credstore.NewFileStore(stateDir)

	var sessions *session.Store
	client, err := api.NewClient(cfg.API, creds, api.WithOnUnauthorized(func() {
		if sessions != nil {
			sessions.HandleUnauthorized()
		}
	}))
	if err != nil {
		return nil, oops.In("bootstrap").Wrapf(err, "Failed to build the API client")
	}
	sessions = session.NewStore(client, creds)

	return &App{
		Cfg:      cfg,
		Creds:    creds,
		API:      client,
		Sessions: sessions,
		Nav:      guard.NewNavigator(cfg.Session.LoginPath, cfg.Session.DefaultLandingPath),
	}, nil
}

// InitLogger installs the default slog logger according to the config,
// wrapped so context attributes propagate into every record.
func InitLogger(cfg config.Logger) error {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("unknown log level: %q", cfg.Level)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	case "text":
		handler = slog.NewTextHandler(os.Stderr, opts)
	default:
		return fmt.Errorf("unknown log format: %q", cfg.Format)
	}

	slog.SetDefault(slog.New(slogctx.NewHandler(handler, nil)))
	return nil
}

// RequireAuth resolves the session and evaluates the auth gate for the
// given path. Anonymous callers get an error naming the sign-in
// surface.
func (a *App) RequireAuth(ctx context.Context, path string) error {
	a.Sessions.Resolve(ctx)

	decision := a.Nav.RequireAuth(a.Sessions.Snapshot(), path)
	switch decision.Kind {
	case guard.Admit:
		return nil
	case guard.Redirect:
		return fmt.Errorf("not signed in: run `academyctl login` (will return to %s)", a.Nav.Pending())
	default:
		return fmt.Errorf("session state is still resolving")
	}
}
