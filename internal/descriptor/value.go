package descriptor

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Value is the representation of a signal or parameter value: a cty.Number for
// scalars, a list of numbers for vectors and a list of lists for matrices.
type Value = cty.Value

var (
	vectorType = cty.List(cty.Number)
	matrixType = cty.List(cty.List(cty.Number))
)

// TypeFor returns the cty type a value of the given classification has in
// normal form.
func TypeFor(c Classification) cty.Type {
	switch c {
	case Scalar:
		return cty.Number
	case Vector:
		return vectorType
	default:
		return matrixType
	}
}

// Normalize converts v to the normal form of shape, accepting tuples wherever a
// list is expected. It fails when the nesting or element counts disagree.
func Normalize(shape Shape, v Value) (Value, error) {
	class, ok := Classify(shape)
	if !ok {
		return cty.NilVal, fmt.Errorf("invalid shape %s", shape)
	}
	if v.IsNull() || !v.IsWhollyKnown() {
		return cty.NilVal, fmt.Errorf("a %s value is required", class)
	}
	out, err := convert.Convert(v, TypeFor(class))
	if err != nil {
		return cty.NilVal, fmt.Errorf("expected a %s of shape %s: %w", class, shape, err)
	}

	switch class {
	case Vector:
		if n := out.LengthInt(); n != shape.Elements() {
			return cty.NilVal, fmt.Errorf("expected %d elements for shape %s, got %d", shape.Elements(), shape, n)
		}
	case Matrix:
		if n := out.LengthInt(); n != shape.Rows {
			return cty.NilVal, fmt.Errorf("expected %d rows for shape %s, got %d", shape.Rows, shape, n)
		}
		for it := out.ElementIterator(); it.Next(); {
			idx, row := it.Element()
			if n := row.LengthInt(); n != shape.Cols {
				return cty.NilVal, fmt.Errorf("row %s: expected %d columns for shape %s, got %d", idx.AsBigFloat().String(), shape.Cols, shape, n)
			}
		}
	}
	return out, nil
}

// Zero returns the all-zero value of shape in normal form.
func Zero(shape Shape) Value {
	class, _ := Classify(shape)
	zero := cty.NumberIntVal(0)
	switch class {
	case Scalar:
		return zero
	case Vector:
		return cty.ListVal(repeat(zero, shape.Elements()))
	default:
		row := cty.ListVal(repeat(zero, shape.Cols))
		return cty.ListVal(repeat(row, shape.Rows))
	}
}

func repeat(v Value, n int) []Value {
	out := make([]Value, n)
	for i := range out {
		out[i] = v
	}
	return out
}
