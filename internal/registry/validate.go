package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/gamreg/internal/ctxlog"
	"github.com/specialistvlad/gamreg/internal/descriptor"
	"github.com/specialistvlad/gamreg/internal/gam"
)

// ErrParity reports that a registered module and the Go code implementing it
// disagree about the module's signals.
var ErrParity = errors.New("descriptor parity check failed")

// CheckParity performs a strict parity check between the registered
// descriptors of m and the descriptors m itself declares. Names, element types
// and shapes must agree. Parameter defaults may differ: a manifest is allowed
// to retune a module.
func (r *Registry) CheckParity(ctx context.Context, m gam.Module) error {
	name := m.Name()
	registered, err := r.Lookup(name)
	if err != nil {
		return err
	}
	if registered.Source == SourceBuiltin {
		return nil
	}

	in, out, params := m.Descriptors()
	var errs []string
	for _, part := range []struct {
		kind descriptor.Kind
		raw  descriptor.Raw
	}{
		{descriptor.InputKind, in},
		{descriptor.OutputKind, out},
		{descriptor.ParameterKind, params},
	} {
		builtin, err := descriptor.Validate(part.raw.Tag(part.kind))
		if err != nil {
			errs = append(errs, fmt.Sprintf("Go module declares an invalid %s: %v", part.kind, err))
			continue
		}
		errs = append(errs, compareSignals(registered.Descriptor(part.kind), &builtin)...)
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w for module '%s' (%s):\n- %s", ErrParity, name, registered.Source, strings.Join(errs, "\n- "))
	}
	ctxlog.FromContext(ctx).Debug("Manifest matches Go module.", "module", name, "source", registered.Source)
	return nil
}

func compareSignals(manifest, builtin *descriptor.Descriptor) []string {
	kind := manifest.Kind
	if len(manifest.Names) != len(builtin.Names) {
		return []string{fmt.Sprintf("%s: manifest declares %d signals but Go module declares %d",
			kind, len(manifest.Names), len(builtin.Names))}
	}

	var errs []string
	for i := range manifest.Names {
		if manifest.Names[i] != builtin.Names[i] {
			errs = append(errs, fmt.Sprintf("%s[%d]: manifest name '%s' but Go module name '%s'",
				kind, i, manifest.Names[i], builtin.Names[i]))
		}
		if manifest.ElementTypes[i] != builtin.ElementTypes[i] {
			errs = append(errs, fmt.Sprintf("%s[%d]: type mismatch. Manifest requires '%s' but Go module provides '%s'",
				kind, i, manifest.ElementTypes[i], builtin.ElementTypes[i]))
		}
		if manifest.Dimensions[i] != builtin.Dimensions[i] {
			errs = append(errs, fmt.Sprintf("%s[%d]: shape mismatch. Manifest requires %s but Go module provides %s",
				kind, i, manifest.Dimensions[i], builtin.Dimensions[i]))
		}
	}
	return errs
}
