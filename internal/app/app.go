package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/specialistvlad/gamreg/internal/ctxlog"
	"github.com/specialistvlad/gamreg/internal/engine"
	"github.com/specialistvlad/gamreg/internal/gam"
	"github.com/specialistvlad/gamreg/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	ctx        context.Context
	logger     *slog.Logger
	config     *Config
	registry   *registry.Registry
	engine     *engine.Engine
	modules    []gam.Module
	httpServer *http.Server
}

// NewApp is the constructor for the main application. It returns an App with
// its own isolated logger, registry and engine. When no modules are given the
// modules compiled into the binary are used.
func NewApp(ctx context.Context, outW io.Writer, cfg *Config, modules ...gam.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured successfully.")

	if len(modules) == 0 {
		modules = coreModules()
	}

	reg := registry.New()
	return &App{
		outW:     outW,
		ctx:      ctx,
		logger:   logger,
		config:   cfg,
		registry: reg,
		engine:   engine.New(reg),
		modules:  modules,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (app *App) Registry() *registry.Registry {
	return app.registry
}

// Engine returns the application's engine. This is primarily for testing.
func (app *App) Engine() *engine.Engine {
	return app.engine
}
