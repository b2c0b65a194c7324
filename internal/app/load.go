package app

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/gamreg/internal/ctxlog"
	"github.com/specialistvlad/gamreg/internal/descriptor"
)

// LoadModules registers the descriptors declared by the manifests under
// ModulesPath, then attaches every Go module to the engine. A module with a
// manifest is checked against it; a module without one registers its own
// descriptors.
func (app *App) LoadModules() error {
	logger := ctxlog.FromContext(app.ctx)
	logger.Debug("Loading modules...", "modules_path", app.config.ModulesPath)

	declared := map[string]bool{}
	if app.config.ModulesPath != "" {
		names, err := app.registry.LoadManifests(app.ctx, app.config.ModulesPath)
		if err != nil {
			return fmt.Errorf("failed to load manifests: %w", err)
		}
		for _, name := range names {
			declared[name] = true
		}
	}

	for _, m := range app.modules {
		var err error
		if declared[m.Name()] {
			err = app.engine.Attach(app.ctx, m)
			delete(declared, m.Name())
		} else {
			err = app.engine.Load(app.ctx, m)
		}
		if err != nil {
			return fmt.Errorf("failed to load module '%s': %w", m.Name(), err)
		}
	}

	for name := range declared {
		logger.Warn("Manifest declares a module with no Go implementation; it is registered but never executed.", "module", name)
	}
	logger.Info("Modules loaded.", "registered", len(app.registry.Modules()), "attached", len(app.engine.Modules()))
	return nil
}

// ApplyOverrides writes the configured parameter overrides into the registry.
// Each value is converted to the normal form of the parameter's shape first.
func (app *App) ApplyOverrides() error {
	logger := ctxlog.FromContext(app.ctx)
	var errs []error
	for _, raw := range app.config.Overrides {
		o, err := ParseOverride(raw)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		ref := descriptor.ByName(o.Parameter)
		shape, err := app.registry.ParameterDimensions(o.Module, ref)
		if err != nil {
			if errors.Is(err, descriptor.ErrLookup) && !errors.Is(err, descriptor.ErrUnknownModule) {
				err = fmt.Errorf("%w: %w", descriptor.ErrUnknownParameter, err)
			}
			errs = append(errs, fmt.Errorf("override '%s': %w", raw, err))
			continue
		}
		value, err := descriptor.Normalize(shape, o.Value)
		if err != nil {
			errs = append(errs, fmt.Errorf("override '%s': %w", raw, err))
			continue
		}
		if err := app.registry.SetParameterValue(o.Module, ref, value); err != nil {
			errs = append(errs, fmt.Errorf("override '%s': %w", raw, err))
			continue
		}
		logger.Debug("Parameter overridden.", "module", o.Module, "parameter", o.Parameter)
	}
	return errors.Join(errs...)
}
