package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/LadybugDB/bugscope/internal/config"
	"github.com/LadybugDB/bugscope/internal/ctxlog"
	"github.com/LadybugDB/bugscope/internal/engine"
	"github.com/LadybugDB/bugscope/internal/executor"
	"github.com/LadybugDB/bugscope/internal/handlers"
	"github.com/LadybugDB/bugscope/internal/metrics"
	"github.com/LadybugDB/bugscope/internal/registry"
	"github.com/LadybugDB/bugscope/internal/rpcserver"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	logFile io.Closer
	config  *config.Config

	engine   engine.Engine
	registry *registry.Registry
	metrics  *metrics.Metrics
	service  *handlers.Service

	rpc        *rpcserver.Server
	httpServer *http.Server
}

// NewApp builds an App from a validated configuration. Nothing is opened or
// bound until Serve is called.
func NewApp(outW io.Writer, cfg *config.Config) (*App, error) {
	w, logFile := logWriter(outW, cfg.Log)
	logger := newLogger(cfg.Log.Level, cfg.Log.Format, w)
	logger.Debug("Logger configured successfully.", "file", cfg.Log.File)

	eng, err := newEngine(cfg.Engine.Kind)
	if err != nil {
		closeQuietly(logFile)
		return nil, err
	}

	reg, err := registry.New(cfg.Root, cfg.Extension)
	if err != nil {
		closeQuietly(logFile)
		return nil, fmt.Errorf("failed to create registry: %w", err)
	}
	logger.Debug("Registry created.", "root", reg.Root(), "extension", reg.Extension())

	m := metrics.New()
	exec := executor.New(reg, eng, cfg.EngineOptions(), m)
	svc := handlers.New(reg, exec, cfg.OverviewLimit, m)
	logger.Debug("Service wired.", "engine", eng.Name(), "overview_limit", svc.OverviewLimit())

	return &App{
		outW:     outW,
		logger:   logger,
		logFile:  logFile,
		config:   cfg,
		engine:   eng,
		registry: reg,
		metrics:  m,
		service:  svc,
	}, nil
}

// Service returns the operation boundary.
func (a *App) Service() *handlers.Service {
	return a.service
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Context returns ctx carrying the application logger.
func (a *App) Context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

// Close releases the log file, if any.
func (a *App) Close() error {
	if a.logFile == nil {
		return nil
	}
	return a.logFile.Close()
}

func closeQuietly(c io.Closer) {
	if c != nil {
		_ = c.Close()
	}
}
