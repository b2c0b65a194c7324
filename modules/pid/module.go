// Package pid implements a discrete PID filter.
//
// The controller is the backward-difference form
//
//	y[n] = y[n-1] + a0*x[n] + a1*x[n-1] + a2*x[n-2]
//
// with a0 = Kp + T*Ki + Kd/T, a1 = -(Kp + 2*Kd/T) and a2 = Kd/T, computed once
// in Setup from the live parameter values.
package pid

import (
	"context"
	"fmt"

	"github.com/specialistvlad/gamreg/internal/ctxlog"
	"github.com/specialistvlad/gamreg/internal/descriptor"
	"github.com/specialistvlad/gamreg/internal/gam"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Name is the registry key of the module.
const Name = "pid"

var scalar = descriptor.Shape{Rows: 1, Cols: 1}

// Module implements gam.Module for this package.
type Module struct {
	a0, a1, a2 float64
	// history
	y1, x1, x2 float64
}

// New returns a PID filter with cleared history.
func New() *Module {
	return &Module{}
}

func (m *Module) Name() string { return Name }

// Descriptors declares one scalar float64 input and output, and the four
// scalar gains Kp=1, Ki=0, Kd=0, T=1e-3.
func (m *Module) Descriptors() (descriptor.Raw, descriptor.Raw, descriptor.Raw) {
	in := descriptor.FromSignals(false, descriptor.Signal{Name: "Input", Type: descriptor.Float64, Shape: scalar})
	out := descriptor.FromSignals(false, descriptor.Signal{Name: "Output", Type: descriptor.Float64, Shape: scalar})
	params := descriptor.FromSignals(true,
		descriptor.Signal{Name: "Kp", Type: descriptor.Float64, Shape: scalar, Default: 1.0},
		descriptor.Signal{Name: "Ki", Type: descriptor.Float64, Shape: scalar, Default: 0.0},
		descriptor.Signal{Name: "Kd", Type: descriptor.Float64, Shape: scalar, Default: 0.0},
		descriptor.Signal{Name: "T", Type: descriptor.Float64, Shape: scalar, Default: 1e-3},
	)
	return in, out, params
}

// Setup reads the gains and computes the filter coefficients.
func (m *Module) Setup(ctx context.Context, params gam.Parameters) error {
	var kp, ki, kd, t float64
	for _, p := range []struct {
		name string
		dst  *float64
	}{
		{"Kp", &kp}, {"Ki", &ki}, {"Kd", &kd}, {"T", &t},
	} {
		v, err := params.ParameterValue(Name, descriptor.ByName(p.name))
		if err != nil {
			return err
		}
		if err := gocty.FromCtyValue(v, p.dst); err != nil {
			return fmt.Errorf("parameter '%s': %w", p.name, err)
		}
	}
	if t == 0 {
		return fmt.Errorf("parameter 'T' must not be zero")
	}

	m.a0 = kp + t*ki + kd/t
	m.a1 = -(kp + 2*kd/t)
	m.a2 = kd / t
	m.y1, m.x1, m.x2 = 0, 0, 0

	ctxlog.FromContext(ctx).Debug("PID configured.", "Kp", kp, "Ki", ki, "Kd", kd, "T", t)
	return nil
}

// Execute advances the filter by one sample.
func (m *Module) Execute(_ context.Context, inputs []descriptor.Value) ([]descriptor.Value, error) {
	var x float64
	if err := gocty.FromCtyValue(inputs[0], &x); err != nil {
		return nil, fmt.Errorf("input 'Input': %w", err)
	}

	y := m.y1 + m.a0*x + m.a1*m.x1 + m.a2*m.x2
	m.y1 = y
	m.x2, m.x1 = m.x1, x

	return []descriptor.Value{cty.NumberFloatVal(y)}, nil
}
