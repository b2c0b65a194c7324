package descriptor

import (
	"maps"
	"reflect"
)

// Field keys of a raw descriptor.
const (
	FieldElementTypes       = "element_types"
	FieldDimensions         = "dimensions"
	FieldNames              = "names"
	FieldDefaultValues      = "default_values"
	FieldNumberOfDimensions = "number_of_dimensions"
	FieldName               = "name"
)

var allowedFields = []string{
	FieldElementTypes,
	FieldDimensions,
	FieldNames,
	FieldDefaultValues,
	FieldNumberOfDimensions,
	FieldName,
}

// Raw is an unvalidated descriptor as produced by a manifest loader or a Go
// module. Sequence fields may hold any Go slice or array.
type Raw map[string]any

// Tag returns a shallow copy of r whose "name" field is set to kind. The
// receiver is left untouched.
func (r Raw) Tag(kind Kind) Raw {
	tagged := make(Raw, len(r)+1)
	maps.Copy(tagged, r)
	tagged[FieldName] = string(kind)
	return tagged
}

// Signal is the typed form of one entry of a descriptor. Default is only
// meaningful for parameters: a number for scalars, a slice of numbers for
// vectors, a slice of slices for matrices.
type Signal struct {
	Name    string
	Type    ElementType
	Shape   Shape
	Default any
}

// FromSignals builds a raw descriptor from typed signals. When withDefaults is
// set, the default_values field is populated, with scalar defaults wrapped in a
// single-element sequence.
func FromSignals(withDefaults bool, signals ...Signal) Raw {
	types := make([]any, 0, len(signals))
	dims := make([]any, 0, len(signals))
	names := make([]any, 0, len(signals))
	defaults := make([]any, 0, len(signals))
	for _, s := range signals {
		types = append(types, s.Type)
		dims = append(dims, []any{s.Shape.Rows, s.Shape.Cols})
		names = append(names, s.Name)
		if _, isSeq := sequence(s.Default); isSeq {
			defaults = append(defaults, s.Default)
		} else {
			defaults = append(defaults, []any{s.Default})
		}
	}
	raw := Raw{
		FieldElementTypes: types,
		FieldDimensions:   dims,
		FieldNames:        names,
	}
	if withDefaults {
		raw[FieldDefaultValues] = defaults
	}
	return raw
}

// sequence returns the elements of v when v is a Go slice or array. Strings and
// maps are not sequences.
func sequence(v any) ([]any, bool) {
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Kind() == reflect.Slice && rv.IsNil() {
		return []any{}, true
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}
