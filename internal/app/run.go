package app

import (
	"fmt"

	"github.com/specialistvlad/gamreg/internal/ctxlog"
)

// Run executes the main application logic: load and validate every module,
// apply overrides, set the modules up, print their descriptors and drive the
// configured number of Execute cycles with zero inputs.
func (app *App) Run() error {
	logger := ctxlog.FromContext(app.ctx)
	logger.Debug("App.Run method started.")

	app.healthCheckServer()
	defer app.closeHealthCheckServer()

	if err := app.LoadModules(); err != nil {
		return err
	}
	if err := app.ApplyOverrides(); err != nil {
		return fmt.Errorf("failed to apply overrides: %w", err)
	}
	if err := app.engine.Setup(app.ctx); err != nil {
		return err
	}

	if err := Describe(app.outW, app.registry); err != nil {
		return fmt.Errorf("failed to describe modules: %w", err)
	}

	if err := app.runCycles(); err != nil {
		return err
	}

	logger.Debug("App.Run method finished.")
	return nil
}

func (app *App) runCycles() error {
	logger := ctxlog.FromContext(app.ctx)
	modules := app.engine.Modules()
	if app.config.Cycles == 0 || len(modules) == 0 {
		logger.Debug("No cycles to run.", "cycles", app.config.Cycles, "modules", len(modules))
		return nil
	}

	logger.Info("🚀 Starting execution.", "cycles", app.config.Cycles, "modules", len(modules))
	for cycle := 1; cycle <= app.config.Cycles; cycle++ {
		if err := app.ctx.Err(); err != nil {
			logger.Warn("Execution cancelled.", "cycle", cycle)
			return err
		}
		for _, name := range modules {
			inputs, err := app.engine.ZeroInputs(name)
			if err != nil {
				return err
			}
			outputs, err := app.engine.Execute(app.ctx, name, inputs)
			if err != nil {
				return fmt.Errorf("cycle %d: %w", cycle, err)
			}
			fmt.Fprintf(app.outW, "cycle %d %s: %s\n", cycle, name, FormatValues(outputs))
		}
	}
	logger.Info("🏁 Execution finished.")
	return nil
}
