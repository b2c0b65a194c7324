package descriptor

import (
	"fmt"
	"slices"
	"strconv"
)

// Descriptor is a validated input, output or parameter declaration. All slices
// have the same length; DefaultValues is only populated for ParameterKind.
type Descriptor struct {
	Kind               Kind
	ElementTypes       []ElementType
	Dimensions         []Shape
	Names              []string
	NumberOfDimensions []Classification
	DefaultValues      []Value
}

// Clone returns a copy of d that shares no slices with it.
func (d Descriptor) Clone() Descriptor {
	return Descriptor{
		Kind:               d.Kind,
		ElementTypes:       slices.Clone(d.ElementTypes),
		Dimensions:         slices.Clone(d.Dimensions),
		Names:              slices.Clone(d.Names),
		NumberOfDimensions: slices.Clone(d.NumberOfDimensions),
		DefaultValues:      slices.Clone(d.DefaultValues),
	}
}

// Len returns the number of signals. It re-checks field lengths so a
// Descriptor assembled without Validate cannot be indexed out of bounds.
func (d Descriptor) Len() (int, error) {
	n := len(d.ElementTypes)
	lengths := []int{len(d.Dimensions), len(d.Names), len(d.NumberOfDimensions)}
	if d.Kind == ParameterKind {
		lengths = append(lengths, len(d.DefaultValues))
	}
	for _, l := range lengths {
		if l != n {
			return 0, schemaErr(ErrSchemaCountMismatch, string(d.Kind), "", -1,
				"keys have different number of elements; all keys must contain the same number of elements")
		}
	}
	return n, nil
}

// Resolve turns a selector into a positional index.
func (d Descriptor) Resolve(ref Ref) (int, error) {
	n, err := d.Len()
	if err != nil {
		return 0, err
	}
	if !ref.byName {
		if ref.index < 0 || ref.index >= n {
			return 0, fmt.Errorf("%w: %s index %d out of range [0, %d)", ErrLookup, d.Kind, ref.index, n)
		}
		return ref.index, nil
	}
	for i, name := range d.Names {
		if name == ref.name {
			return i, nil
		}
	}
	msg := fmt.Sprintf("%s: '%s' not found", d.Kind, ref.name)
	if hint := Suggest(ref.name, d.Names); hint != "" {
		msg += fmt.Sprintf("; did you mean '%s'?", hint)
	}
	return 0, fmt.Errorf("%w: %s", ErrLookup, msg)
}

// Ref selects one signal of a descriptor either by position or by name.
type Ref struct {
	index  int
	name   string
	byName bool
}

// ByIndex selects the signal at position i.
func ByIndex(i int) Ref {
	return Ref{index: i}
}

// ByName selects the signal called name.
func ByName(name string) Ref {
	return Ref{name: name, byName: true}
}

// Name returns the selected name and whether the selector is by name.
func (r Ref) Name() (string, bool) {
	return r.name, r.byName
}

// Index returns the selected position and whether the selector is by index.
func (r Ref) Index() (int, bool) {
	return r.index, !r.byName
}

func (r Ref) String() string {
	if r.byName {
		return strconv.Quote(r.name)
	}
	return strconv.Itoa(r.index)
}
