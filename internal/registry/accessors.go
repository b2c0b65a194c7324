package registry

import (
	"fmt"

	"github.com/specialistvlad/gamreg/internal/descriptor"
)

// signal resolves a module, a descriptor kind and a selector to the descriptor
// and the canonical index of the selected signal.
func (r *Registry) signal(module string, kind descriptor.Kind, ref descriptor.Ref) (*descriptor.Descriptor, int, error) {
	e, err := r.entry(module)
	if err != nil {
		return nil, 0, err
	}
	d := e.Descriptor(kind)
	idx, err := d.Resolve(ref)
	if err != nil {
		return nil, 0, fmt.Errorf("module '%s': %w", module, err)
	}
	return d, idx, nil
}

func (r *Registry) count(module string, kind descriptor.Kind) (int, error) {
	e, err := r.entry(module)
	if err != nil {
		return 0, err
	}
	n, err := e.Descriptor(kind).Len()
	if err != nil {
		return 0, fmt.Errorf("module '%s': %w", module, err)
	}
	return n, nil
}

// --- Counts ---

// NumberOfInputs returns the number of declared input signals.
func (r *Registry) NumberOfInputs(module string) (int, error) {
	return r.count(module, descriptor.InputKind)
}

// NumberOfOutputs returns the number of declared output signals.
func (r *Registry) NumberOfOutputs(module string) (int, error) {
	return r.count(module, descriptor.OutputKind)
}

// NumberOfParameters returns the number of declared parameters.
func (r *Registry) NumberOfParameters(module string) (int, error) {
	return r.count(module, descriptor.ParameterKind)
}

// --- Element types ---

func (r *Registry) elementType(module string, kind descriptor.Kind, ref descriptor.Ref) (descriptor.ElementType, error) {
	d, idx, err := r.signal(module, kind, ref)
	if err != nil {
		return descriptor.InvalidType, err
	}
	return d.ElementTypes[idx], nil
}

// InputType returns the element type of input idx.
func (r *Registry) InputType(module string, idx int) (descriptor.ElementType, error) {
	return r.elementType(module, descriptor.InputKind, descriptor.ByIndex(idx))
}

// OutputType returns the element type of output idx.
func (r *Registry) OutputType(module string, idx int) (descriptor.ElementType, error) {
	return r.elementType(module, descriptor.OutputKind, descriptor.ByIndex(idx))
}

// ParameterType returns the element type of a parameter.
func (r *Registry) ParameterType(module string, ref descriptor.Ref) (descriptor.ElementType, error) {
	return r.elementType(module, descriptor.ParameterKind, ref)
}

// --- Classification ---

func (r *Registry) classification(module string, kind descriptor.Kind, ref descriptor.Ref) (descriptor.Classification, error) {
	d, idx, err := r.signal(module, kind, ref)
	if err != nil {
		return 0, err
	}
	return d.NumberOfDimensions[idx], nil
}

// InputNumberOfDimensions returns the classification of input idx.
func (r *Registry) InputNumberOfDimensions(module string, idx int) (descriptor.Classification, error) {
	return r.classification(module, descriptor.InputKind, descriptor.ByIndex(idx))
}

// OutputNumberOfDimensions returns the classification of output idx.
func (r *Registry) OutputNumberOfDimensions(module string, idx int) (descriptor.Classification, error) {
	return r.classification(module, descriptor.OutputKind, descriptor.ByIndex(idx))
}

// ParameterNumberOfDimensions returns the classification of a parameter.
func (r *Registry) ParameterNumberOfDimensions(module string, ref descriptor.Ref) (descriptor.Classification, error) {
	return r.classification(module, descriptor.ParameterKind, ref)
}

// --- Dimensions ---

func (r *Registry) dimensions(module string, kind descriptor.Kind, ref descriptor.Ref) (descriptor.Shape, error) {
	d, idx, err := r.signal(module, kind, ref)
	if err != nil {
		return descriptor.Shape{}, err
	}
	return d.Dimensions[idx], nil
}

// InputDimensions returns the (rows, cols) shape of input idx.
func (r *Registry) InputDimensions(module string, idx int) (descriptor.Shape, error) {
	return r.dimensions(module, descriptor.InputKind, descriptor.ByIndex(idx))
}

// OutputDimensions returns the (rows, cols) shape of output idx.
func (r *Registry) OutputDimensions(module string, idx int) (descriptor.Shape, error) {
	return r.dimensions(module, descriptor.OutputKind, descriptor.ByIndex(idx))
}

// ParameterDimensions returns the (rows, cols) shape of a parameter.
func (r *Registry) ParameterDimensions(module string, ref descriptor.Ref) (descriptor.Shape, error) {
	return r.dimensions(module, descriptor.ParameterKind, ref)
}

// --- Names ---

func (r *Registry) name(module string, kind descriptor.Kind, ref descriptor.Ref) (string, error) {
	d, idx, err := r.signal(module, kind, ref)
	if err != nil {
		return "", err
	}
	return d.Names[idx], nil
}

// InputName returns the name of input idx.
func (r *Registry) InputName(module string, idx int) (string, error) {
	return r.name(module, descriptor.InputKind, descriptor.ByIndex(idx))
}

// OutputName returns the name of output idx.
func (r *Registry) OutputName(module string, idx int) (string, error) {
	return r.name(module, descriptor.OutputKind, descriptor.ByIndex(idx))
}

// ParameterName returns the name of a parameter.
func (r *Registry) ParameterName(module string, ref descriptor.Ref) (string, error) {
	return r.name(module, descriptor.ParameterKind, ref)
}

// --- Parameter values ---

// ParameterDefaultValue returns the declared default of a parameter, not its
// live value.
func (r *Registry) ParameterDefaultValue(module string, ref descriptor.Ref) (descriptor.Value, error) {
	d, idx, err := r.signal(module, descriptor.ParameterKind, ref)
	if err != nil {
		return descriptor.Value{}, err
	}
	return d.DefaultValues[idx], nil
}

// ParameterValue returns the live value of a parameter.
func (r *Registry) ParameterValue(module string, ref descriptor.Ref) (descriptor.Value, error) {
	d, idx, err := r.signal(module, descriptor.ParameterKind, ref)
	if err != nil {
		return descriptor.Value{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.values.Get(module, d.Names[idx])
}

// SetParameterValue overwrites the live value of a parameter. The value is
// stored as given; shape agreement is the caller's responsibility. A name the
// module never declared fails with ErrUnknownParameter, an index outside the
// declared range with ErrLookup.
func (r *Registry) SetParameterValue(module string, ref descriptor.Ref, value descriptor.Value) error {
	e, err := r.entry(module)
	if err != nil {
		return err
	}
	name, byName := ref.Name()
	if !byName {
		idx, err := e.Parameters.Resolve(ref)
		if err != nil {
			return fmt.Errorf("module '%s': %w", module, err)
		}
		name = e.Parameters.Names[idx]
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.values.Set(module, name, value)
}

// ParameterValues returns a copy of the live values of a module keyed by
// parameter name.
func (r *Registry) ParameterValues(module string) (map[string]descriptor.Value, error) {
	if _, err := r.entry(module); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.values.Snapshot(module), nil
}
