package descriptor

import (
	"math"
	"reflect"

	"github.com/zclconf/go-cty/cty"
)

// checkDefault validates default_values[i] against its shape and element type
// and returns it in normal form.
func checkDefault(desc string, i int, v any, et ElementType, shape Shape, class Classification) (Value, error) {
	fail := func(format string, args ...any) (Value, error) {
		return cty.NilVal, schemaErr(ErrSchemaDefaultValue, desc, FieldDefaultValues, i, format, args...)
	}

	items, isSeq := sequence(v)
	switch class {
	case Scalar:
		if !isSeq {
			items = []any{v}
		}
		if len(items) != 1 {
			return fail("scalar default must hold exactly one entry, got %d", len(items))
		}
		leaf, reason := numericLeaf(items[0], et)
		if reason != "" {
			return fail("%s", reason)
		}
		return leaf, nil

	case Vector:
		if !isSeq {
			return fail("vector default must be a sequence of numbers, got %s", describeValue(v))
		}
		if len(items) != shape.Elements() {
			return fail("vector default has %d entries, shape %s needs %d", len(items), shape, shape.Elements())
		}
		vals, reason := numericRow(items, et)
		if reason != "" {
			return fail("%s", reason)
		}
		return cty.ListVal(vals), nil

	default:
		if !isSeq {
			return fail("matrix default must be a sequence of sequences, got %s", describeValue(v))
		}
		if len(items) != shape.Rows {
			return fail("matrix default has %d rows, shape %s needs %d", len(items), shape, shape.Rows)
		}
		rows := make([]cty.Value, len(items))
		for r, item := range items {
			row, ok := sequence(item)
			if !ok {
				return fail("matrix row %d must be a sequence, got %s", r, describeValue(item))
			}
			if len(row) != shape.Cols {
				return fail("matrix row %d has %d entries, shape %s needs %d", r, len(row), shape, shape.Cols)
			}
			vals, reason := numericRow(row, et)
			if reason != "" {
				return fail("row %d: %s", r, reason)
			}
			rows[r] = cty.ListVal(vals)
		}
		return cty.ListVal(rows), nil
	}
}

func numericRow(items []any, et ElementType) ([]cty.Value, string) {
	vals := make([]cty.Value, len(items))
	for k, item := range items {
		leaf, reason := numericLeaf(item, et)
		if reason != "" {
			return nil, reason
		}
		vals[k] = leaf
	}
	return vals, ""
}

// numericLeaf converts a Go integer or float into a cty number. A non-empty
// reason means the leaf was rejected.
func numericLeaf(v any, et ElementType) (cty.Value, string) {
	if v == nil {
		return cty.NilVal, "entries must be either integer or float, got nil"
	}
	var (
		val cty.Value
		f   float64
	)
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		val, f = cty.NumberIntVal(rv.Int()), float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		val, f = cty.NumberUIntVal(rv.Uint()), float64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		f = rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return cty.NilVal, "entries must be finite numbers"
		}
		val = cty.NumberFloatVal(f)
	default:
		return cty.NilVal, "entries must be either integer or float, got " + describeValue(v)
	}

	if et.IsInteger() && f != math.Trunc(f) {
		return cty.NilVal, "entries of an " + et.String() + " parameter must be integral, got " + describeValue(v)
	}
	if !et.InRange(val.AsBigFloat()) {
		return cty.NilVal, describeValue(v) + " is out of range for " + et.String()
	}
	return val, ""
}
