package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/specialistvlad/gamreg/internal/ctxlog"
	"github.com/specialistvlad/gamreg/internal/descriptor"
)

// healthHandler logs the request and reports liveness.
func (app *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	logger := ctxlog.FromContext(app.ctx)
	logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

type signalView struct {
	Name  string          `json:"name"`
	Type  string          `json:"type"`
	Shape [2]int          `json:"shape"`
	Class string          `json:"class"`
	Value json.RawMessage `json:"value,omitempty"`
}

type moduleView struct {
	Name           string       `json:"name"`
	Description    string       `json:"description,omitempty"`
	Source         string       `json:"source"`
	RegistrationID string       `json:"registration_id"`
	Inputs         []signalView `json:"inputs"`
	Outputs        []signalView `json:"outputs"`
	Parameters     []signalView `json:"parameters"`
}

// modulesHandler serves the registered descriptors and live parameter values
// as JSON.
func (app *App) modulesHandler(w http.ResponseWriter, r *http.Request) {
	logger := ctxlog.FromContext(app.ctx)
	logger.Debug("Modules endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)

	views, err := app.moduleViews()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(views); err != nil {
		logger.Error("Failed to encode modules response.", "error", err)
	}
}

func (app *App) moduleViews() ([]moduleView, error) {
	names := app.registry.Modules()
	views := make([]moduleView, 0, len(names))
	for _, name := range names {
		entry, err := app.registry.Lookup(name)
		if err != nil {
			return nil, err
		}
		values, err := app.registry.ParameterValues(name)
		if err != nil {
			return nil, err
		}
		views = append(views, moduleView{
			Name:           entry.Name,
			Description:    entry.Description,
			Source:         entry.Source,
			RegistrationID: entry.RegistrationID.String(),
			Inputs:         signalViews(&entry.Inputs, nil),
			Outputs:        signalViews(&entry.Outputs, nil),
			Parameters:     signalViews(&entry.Parameters, values),
		})
	}
	return views, nil
}

func signalViews(d *descriptor.Descriptor, values map[string]descriptor.Value) []signalView {
	views := make([]signalView, len(d.Names))
	for i, name := range d.Names {
		views[i] = signalView{
			Name:  name,
			Type:  d.ElementTypes[i].String(),
			Shape: [2]int{d.Dimensions[i].Rows, d.Dimensions[i].Cols},
			Class: d.NumberOfDimensions[i].String(),
		}
		if v, ok := values[name]; ok {
			views[i].Value = json.RawMessage(FormatValue(v))
		}
	}
	return views
}

// Handler returns the HTTP handler serving /health and /modules.
func (app *App) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", app.healthHandler)
	mux.HandleFunc("/modules", app.modulesHandler)
	return mux
}

// healthCheckServer initializes and runs the health check HTTP server.
func (app *App) healthCheckServer() {
	logger := ctxlog.FromContext(app.ctx)
	logger.Debug("Configuring health check server.")
	if app.config.HealthcheckPort <= 0 {
		logger.Debug("Health check server not started: disabled")
		return
	}

	addr := fmt.Sprintf(":%d", app.config.HealthcheckPort)
	app.httpServer = &http.Server{
		Addr:              addr,
		Handler:           app.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("🩺 Health check server starting", "address", fmt.Sprintf("http://localhost%s/health", addr))
		// ListenAndServe will return an error on graceful shutdown.
		if err := app.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Health check server failed unexpectedly", "error", err)
		}
	}()
}

func (app *App) closeHealthCheckServer() error {
	logger := ctxlog.FromContext(app.ctx)
	if app.httpServer == nil {
		logger.Debug("Health check server was not running.")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(app.ctx), 5*time.Second)
	defer cancel()

	logger.Info("🩺 Shutting down health check server...")
	if err := app.httpServer.Shutdown(ctx); err != nil {
		logger.Error("Health check server shutdown failed", "error", err)
		return err
	}
	logger.Debug("Health check server shut down gracefully.")
	return nil
}
