// Package pwmout implements piPWMOut, a 16-channel PWM output stage. The
// module forwards its input to its output, rounded to float32, and silences
// every channel at or beyond ActChans.
package pwmout

import (
	"context"
	"fmt"

	"github.com/specialistvlad/gamreg/internal/ctxlog"
	"github.com/specialistvlad/gamreg/internal/descriptor"
	"github.com/specialistvlad/gamreg/internal/gam"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

const (
	// Name is the registry key of the module.
	Name = "piPWMOut"
	// Channels is the number of PWM channels.
	Channels = 16
)

var channels = descriptor.Shape{Rows: 1, Cols: Channels}

// Module implements gam.Module for this package.
type Module struct {
	frequency int32
	active    int
}

// New returns an unconfigured PWM output stage.
func New() *Module {
	return &Module{}
}

func (m *Module) Name() string { return Name }

func (m *Module) Descriptors() (descriptor.Raw, descriptor.Raw, descriptor.Raw) {
	scalar := descriptor.Shape{Rows: 1, Cols: 1}
	in := descriptor.FromSignals(false, descriptor.Signal{Name: "Input", Type: descriptor.Float32, Shape: channels})
	out := descriptor.FromSignals(false, descriptor.Signal{Name: "Output", Type: descriptor.Float32, Shape: channels})
	params := descriptor.FromSignals(true,
		descriptor.Signal{Name: "Frequency", Type: descriptor.Int32, Shape: scalar, Default: 1000},
		descriptor.Signal{Name: "ActChans", Type: descriptor.Int32, Shape: scalar, Default: Channels},
	)
	return in, out, params
}

func (m *Module) Setup(ctx context.Context, params gam.Parameters) error {
	var freq, active int32
	for _, p := range []struct {
		name string
		dst  *int32
	}{
		{"Frequency", &freq}, {"ActChans", &active},
	} {
		v, err := params.ParameterValue(Name, descriptor.ByName(p.name))
		if err != nil {
			return err
		}
		if err := gocty.FromCtyValue(v, p.dst); err != nil {
			return fmt.Errorf("parameter '%s': %w", p.name, err)
		}
	}
	if freq <= 0 {
		return fmt.Errorf("parameter 'Frequency' must be positive, got %d", freq)
	}
	if active < 0 || active > Channels {
		return fmt.Errorf("parameter 'ActChans' must be within [0, %d], got %d", Channels, active)
	}

	m.frequency = freq
	m.active = int(active)
	ctxlog.FromContext(ctx).Debug("PWM output configured.", "frequency", freq, "active_channels", active)
	return nil
}

func (m *Module) Execute(_ context.Context, inputs []descriptor.Value) ([]descriptor.Value, error) {
	var duty []float32
	if err := gocty.FromCtyValue(inputs[0], &duty); err != nil {
		return nil, fmt.Errorf("input 'Input': %w", err)
	}

	out := make([]cty.Value, len(duty))
	for i, d := range duty {
		if i >= m.active {
			d = 0
		}
		out[i] = cty.NumberFloatVal(float64(d))
	}
	return []descriptor.Value{cty.ListVal(out)}, nil
}
