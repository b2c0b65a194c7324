// Package gam defines the contract every pluggable computation module (GAM)
// implements so the host engine can drive it without module-specific code.
package gam

import (
	"context"

	"github.com/specialistvlad/gamreg/internal/descriptor"
)

// Module is a pluggable computation unit.
//
// The host engine registers the three descriptors returned by Descriptors,
// calls Setup exactly once, then calls Execute once per cycle. Execute receives
// one value per declared input and must return one value per declared output,
// each in the normal form of its declared shape (see descriptor.Value).
type Module interface {
	// Name is the registry key of the module.
	Name() string
	// Descriptors returns the raw input, output and parameter descriptors.
	Descriptors() (inputs, outputs, parameters descriptor.Raw)
	// Setup may read parameter values and cache derived constants.
	Setup(ctx context.Context, params Parameters) error
	// Execute runs one cycle.
	Execute(ctx context.Context, inputs []descriptor.Value) ([]descriptor.Value, error)
}

// Parameters is the read-only view of the registry a module sees in Setup.
type Parameters interface {
	NumberOfParameters(module string) (int, error)
	ParameterValue(module string, ref descriptor.Ref) (descriptor.Value, error)
}
