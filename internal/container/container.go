package container

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"rxintel/adapters/backend"
	"rxintel/internal"
	"rxintel/internal/config"
	"rxintel/internal/frontend"
	"rxintel/internal/gateway"
	"rxintel/ports"
	"rxintel/ui"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Outbound
	Backend ports.Backend

	// Front-end API and the sessions driving the page
	Gateway  *gateway.Service
	Sessions *ui.SessionManager
	Server   *ui.Server
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	c := &Container{
		Config: cfg,
		Logger: internal.NewLogger(internal.ParseLevel(cfg.LogLevel)),
	}
	c.Backend = backend.NewClient(cfg.Backend.URL, cfg.Backend.Timeout, c.Logger)
	return c, c.init()
}

// NewWithBackend wires the container around an existing backend, for tests
// and embedded use.
func NewWithBackend(cfg *config.Config, b ports.Backend, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	c := &Container{Config: cfg, Logger: logger, Backend: b}
	return c, c.init()
}

func (c *Container) init() error {
	cfg := c.Config

	c.Gateway = gateway.NewService(c.Backend, gateway.Options{
		MaxUploadBytes:       cfg.Upload.MaxBytes,
		AllowedExtensions:    cfg.Upload.AllowedExtensions,
		MaxConcurrentUploads: cfg.Backend.MaxConcurrentUploads,
	}, c.Logger)

	c.Sessions = ui.NewSessionManager(c.Gateway, frontend.Options{
		NotificationTTL:    cfg.UI.NotificationTTL,
		HealthPollInterval: cfg.UI.HealthPollInterval,
		Logger:             c.Logger,
	}, cfg.UI.SessionTTL, c.Logger)

	server, err := ui.NewServer(c.Gateway, c.Sessions, ui.Options{
		MaxUploadBytes: cfg.Upload.MaxBytes,
		SessionTTL:     cfg.UI.SessionTTL,
	}, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to create web server: %w", err)
	}
	c.Server = server

	c.Logger.With("Container").Info("initialized: backend=%s upload limit=%d bytes", c.Backend.BaseURL(), cfg.Upload.MaxBytes)
	return nil
}

// Run serves HTTP and sweeps sessions until ctx is done or either fails.
func (c *Container) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.Server.Run(ctx, ":"+c.Config.Server.Port)
	})
	g.Go(func() error {
		return c.Sessions.Run(ctx)
	})
	return g.Wait()
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(context.Context) error {
	if c.Sessions != nil {
		c.Sessions.Close()
	}
	return nil
}
