package app

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/oakmed/carebook/internal/portal/domain"
	"github.com/oakmed/carebook/internal/portal/routes"
	"github.com/oakmed/carebook/internal/portal/session"
	"github.com/oakmed/carebook/internal/portal/store/drivers/sqlite"
	"github.com/oakmed/carebook/pkg/apiclient"
	"github.com/oakmed/carebook/pkg/cryptox"
	"github.com/oakmed/carebook/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application wires the portal's session machinery: the backend client, the
// durable session store, and the controller that owns the lifecycle.
type Application struct {
	cfg    Config
	logger *slog.Logger

	client     *apiclient.Client
	db         *sqlite.Store
	controller *session.Controller
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "carebook-portal",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	sealer, err := loadSealer(cfg.SealKeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize credential sealing: %w", err)
	}

	if err := app.initDatabase(sealer); err != nil {
		return nil, err
	}

	app.client = apiclient.New(cfg.BackendBaseURL)
	if cfg.RequestTimeout > 0 {
		app.client.HTTPClient.Timeout = cfg.RequestTimeout
	}

	app.controller = session.NewController(app.client, app.db, app.logger)
	app.controller.SetRetryPolicy(cfg.RetryDelay, cfg.RetryAttempts)

	return app, nil
}

// Controller exposes the session controller to the UI layer.
func (app *Application) Controller() *session.Controller { return app.controller }

// Run performs the startup verification and blocks until shutdown is
// requested.
func (app *Application) Run() error {
	app.logger.Info("portal starting", "backend", app.cfg.BackendBaseURL, "version", BuildVersion)

	unsub := app.controller.Subscribe(func(s domain.Session) {
		app.logger.Debug("session state changed",
			"state", s.State.String(), "degraded", s.ConnectionDegraded)
	})
	defer unsub()

	app.controller.Start(context.Background())

	snap := app.controller.Snapshot()
	app.logger.Info("session ready",
		"state", snap.State.String(),
		"degraded", snap.ConnectionDegraded,
		"landing", routes.LandingPathFor(snap, app.controller.RoleHint()),
	)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	sig := <-shutdown
	app.logger.Info("shutdown signal received", "signal", sig)

	return app.Shutdown()
}

// Shutdown cancels pending verification work and closes the store.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down portal...")

	app.controller.Close()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("portal stopped")
	return nil
}

// initDatabase initializes the session database and applies migrations.
func (app *Application) initDatabase(sealer *cryptox.Sealer) error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host, sealer)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// loadSealer reads the sealing key file, generating one on first run.
func loadSealer(path string) (*cryptox.Sealer, error) {
	material, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		material = make([]byte, 32)
		if _, err := rand.Read(material); err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, material, 0o600); err != nil {
			return nil, fmt.Errorf("failed to write seal key file: %w", err)
		}
	} else if err != nil {
		return nil, err
	}

	return cryptox.NewSealer(material)
}
