package registry

import (
	"context"
	"fmt"

	"github.com/specialistvlad/gamreg/internal/ctxlog"
	"github.com/specialistvlad/gamreg/internal/manifest"
)

// LoadManifests registers every module declared in the manifests found under
// paths. Loading stops at the first module that fails validation; modules
// registered before it stay registered. It returns the names it registered, in
// load order.
func (r *Registry) LoadManifests(ctx context.Context, paths ...string) ([]string, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Registry loading descriptors from manifests...", "paths", paths)

	defs, err := manifest.Load(ctx, paths...)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(defs))
	for _, def := range defs {
		if err := r.RegisterDefinition(ctx, def); err != nil {
			return names, err
		}
		names = append(names, def.Name)
	}

	logger.Info("Registry loaded successfully.", "modules_registered", len(names))
	return names, nil
}

// RegisterDefinition registers a module decoded from a manifest.
func (r *Registry) RegisterDefinition(ctx context.Context, def *manifest.Definition) error {
	meta := Entry{Name: def.Name, Description: def.Description, Source: def.Source}
	if err := r.register(ctx, meta, def.Inputs, def.Outputs, def.Parameters); err != nil {
		return fmt.Errorf("manifest %s: %w", def.Source, err)
	}
	return nil
}
