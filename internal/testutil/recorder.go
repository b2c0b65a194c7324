package testutil

import (
	"context"
	"sync"

	"github.com/specialistvlad/gamreg/internal/descriptor"
	"github.com/specialistvlad/gamreg/internal/gam"
	"github.com/zclconf/go-cty/cty"
)

// RecorderModule is a shared, self-contained module for app tests. It declares
// one scalar float64 input and output and one scalar parameter "Gain", and
// multiplies its input by the gain read in Setup.
type RecorderModule struct {
	ModuleName string

	mu     sync.Mutex
	gain   float64
	setups int
	inputs [][]descriptor.Value
}

// NewRecorderModule creates a recorder registered under name.
func NewRecorderModule(name string) *RecorderModule {
	return &RecorderModule{ModuleName: name}
}

func (m *RecorderModule) Name() string { return m.ModuleName }

func (m *RecorderModule) Descriptors() (descriptor.Raw, descriptor.Raw, descriptor.Raw) {
	scalar := descriptor.Shape{Rows: 1, Cols: 1}
	in := descriptor.FromSignals(false, descriptor.Signal{Name: "In", Type: descriptor.Float64, Shape: scalar})
	out := descriptor.FromSignals(false, descriptor.Signal{Name: "Out", Type: descriptor.Float64, Shape: scalar})
	params := descriptor.FromSignals(true, descriptor.Signal{Name: "Gain", Type: descriptor.Float64, Shape: scalar, Default: 1.0})
	return in, out, params
}

func (m *RecorderModule) Setup(_ context.Context, params gam.Parameters) error {
	v, err := params.ParameterValue(m.ModuleName, descriptor.ByName("Gain"))
	if err != nil {
		return err
	}
	gain, _ := v.AsBigFloat().Float64()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.gain = gain
	m.setups++
	return nil
}

func (m *RecorderModule) Execute(_ context.Context, inputs []descriptor.Value) ([]descriptor.Value, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inputs = append(m.inputs, inputs)
	return []descriptor.Value{inputs[0].Multiply(cty.NumberFloatVal(m.gain))}, nil
}

// Setups reports how many times Setup succeeded.
func (m *RecorderModule) Setups() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setups
}

// Gain reports the gain read in the last Setup.
func (m *RecorderModule) Gain() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gain
}

// Executions reports how many times Execute ran.
func (m *RecorderModule) Executions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.inputs)
}
