package descriptor

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func pidParameters() Raw {
	return Raw{
		FieldElementTypes:  []any{Float64, Float64, Float64, Float64},
		FieldDimensions:    []any{[]any{1, 1}, []any{1, 1}, []any{1, 1}, []any{1, 1}},
		FieldNames:         []any{"Kp", "Ki", "Kd", "T"},
		FieldDefaultValues: []any{[]any{1.0}, []any{0.0}, []any{0.0}, []any{1e-3}},
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	cases := []struct {
		shape Shape
		want  Classification
		ok    bool
	}{
		{Shape{1, 1}, Scalar, true},
		{Shape{1, 16}, Vector, true},
		{Shape{16, 1}, Vector, true},
		{Shape{2, 2}, Matrix, true},
		{Shape{3, 7}, Matrix, true},
		{Shape{0, 1}, 0, false},
		{Shape{1, 0}, 0, false},
		{Shape{-1, 4}, 0, false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.shape.String(), func(t *testing.T) {
			t.Parallel()
			got, ok := Classify(tc.shape)
			require.Equal(t, tc.ok, ok)
			if ok {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestValidate_Success(t *testing.T) {
	t.Parallel()

	t.Run("parameters are typed and defaults normalized", func(t *testing.T) {
		t.Parallel()
		raw := pidParameters().Tag(ParameterKind)

		d, err := Validate(raw)
		require.NoError(t, err)

		assert.Equal(t, ParameterKind, d.Kind)
		assert.Equal(t, []string{"Kp", "Ki", "Kd", "T"}, d.Names)
		assert.Equal(t, []Classification{Scalar, Scalar, Scalar, Scalar}, d.NumberOfDimensions)
		require.Len(t, d.DefaultValues, 4)
		assert.True(t, d.DefaultValues[0].Equals(cty.NumberFloatVal(1.0)).True())
		assert.True(t, d.DefaultValues[3].Equals(cty.NumberFloatVal(1e-3)).True())

		_, tagged := raw[FieldNumberOfDimensions]
		assert.False(t, tagged, "the raw descriptor must not gain a derived field")
	})

	t.Run("vector, matrix and reflect types", func(t *testing.T) {
		t.Parallel()
		raw := Raw{
			FieldElementTypes:  []any{reflect.TypeOf(float32(0)), Int32},
			FieldDimensions:    [][]int{{1, 3}, {2, 2}},
			FieldNames:         []string{"gains", "table"},
			FieldDefaultValues: []any{[]float64{1, 2, 3}, [][]int{{1, 2}, {3, 4}}},
		}.Tag(ParameterKind)

		d, err := Validate(raw)
		require.NoError(t, err)

		want := []Shape{{1, 3}, {2, 2}}
		if diff := cmp.Diff(want, d.Dimensions); diff != "" {
			t.Errorf("dimensions mismatch (-want +got):\n%s", diff)
		}
		assert.Equal(t, []ElementType{Float32, Int32}, d.ElementTypes)
		assert.Equal(t, []Classification{Vector, Matrix}, d.NumberOfDimensions)
		assert.True(t, d.DefaultValues[0].Type().Equals(cty.List(cty.Number)))
		assert.True(t, d.DefaultValues[1].Type().Equals(cty.List(cty.List(cty.Number))))
	})

	t.Run("scalar default may be bare", func(t *testing.T) {
		t.Parallel()
		raw := Raw{
			FieldElementTypes:  []any{Int32},
			FieldDimensions:    []any{[]any{1, 1}},
			FieldNames:         []any{"Frequency"},
			FieldDefaultValues: []any{1000},
		}.Tag(ParameterKind)

		d, err := Validate(raw)
		require.NoError(t, err)
		assert.True(t, d.DefaultValues[0].Equals(cty.NumberIntVal(1000)).True())
	})

	t.Run("empty descriptor", func(t *testing.T) {
		t.Parallel()
		d, err := Validate(Raw{}.Tag(InputKind))
		require.NoError(t, err)
		n, err := d.Len()
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("supplied classification is recomputed", func(t *testing.T) {
		t.Parallel()
		raw := Raw{
			FieldElementTypes:       []any{Float32},
			FieldDimensions:         []any{[]any{1, 16}},
			FieldNames:              []any{"Input"},
			FieldNumberOfDimensions: []any{0},
		}.Tag(InputKind)

		d, err := Validate(raw)
		require.NoError(t, err)
		assert.Equal(t, []Classification{Vector}, d.NumberOfDimensions)
	})
}

func TestValidate_Failures(t *testing.T) {
	t.Parallel()

	inputs := func(mutate func(Raw)) Raw {
		raw := Raw{
			FieldElementTypes: []any{Float64, Float64},
			FieldDimensions:   []any{[]any{1, 1}, []any{1, 4}},
			FieldNames:        []any{"a", "b"},
		}
		mutate(raw)
		return raw.Tag(InputKind)
	}
	params := func(mutate func(Raw)) Raw {
		raw := pidParameters()
		mutate(raw)
		return raw.Tag(ParameterKind)
	}

	cases := []struct {
		name        string
		raw         Raw
		kind        error
		errContains string
	}{
		{
			name:        "missing kind tag",
			raw:         Raw{},
			kind:        ErrSchemaLayout,
			errContains: "missing descriptor kind tag",
		},
		{
			name:        "unknown key with suggestion",
			raw:         inputs(func(r Raw) { r["dimension"] = []any{} }),
			kind:        ErrSchemaLayout,
			errContains: "did you mean 'dimensions'",
		},
		{
			name:        "defaults on an input descriptor",
			raw:         inputs(func(r Raw) { r[FieldDefaultValues] = []any{1, 2} }),
			kind:        ErrSchemaLayout,
			errContains: "allowed only in ParameterDict",
		},
		{
			name:        "field is not a sequence",
			raw:         inputs(func(r Raw) { r[FieldNames] = "a" }),
			kind:        ErrSchemaType,
			errContains: "must be an ordered sequence",
		},
		{
			name:        "field is a map",
			raw:         inputs(func(r Raw) { r[FieldNames] = map[string]any{"a": 1} }),
			kind:        ErrSchemaType,
			errContains: "RootInputDict['names']",
		},
		{
			name:        "names longer than dimensions",
			raw:         inputs(func(r Raw) { r[FieldNames] = []any{"a", "b", "c"} }),
			kind:        ErrSchemaCountMismatch,
			errContains: "RootInputDict: keys have different number of elements",
		},
		{
			name:        "missing defaults on parameters",
			raw:         params(func(r Raw) { delete(r, FieldDefaultValues) }),
			kind:        ErrSchemaCountMismatch,
			errContains: "default_values=0",
		},
		{
			name:        "element type is an instance",
			raw:         inputs(func(r Raw) { r[FieldElementTypes] = []any{Float64, 3.0} }),
			kind:        ErrSchemaType,
			errContains: "['element_types'][1]: contains a non-type value",
		},
		{
			name:        "element type is a type keyword string",
			raw:         inputs(func(r Raw) { r[FieldElementTypes] = []any{"float64", Float64} }),
			kind:        ErrSchemaType,
			errContains: "non-type value",
		},
		{
			name:        "unsupported reflect type",
			raw:         inputs(func(r Raw) { r[FieldElementTypes] = []any{reflect.TypeOf(""), Float64} }),
			kind:        ErrSchemaType,
			errContains: "unsupported element type",
		},
		{
			name:        "shape is not a pair",
			raw:         inputs(func(r Raw) { r[FieldDimensions] = []any{[]any{1, 1, 1}, []any{1, 4}} }),
			kind:        ErrSchemaDimension,
			errContains: "must be a 1x2 sequence",
		},
		{
			name:        "shape is a scalar",
			raw:         inputs(func(r Raw) { r[FieldDimensions] = []any{1, []any{1, 4}} }),
			kind:        ErrSchemaDimension,
			errContains: "['dimensions'][0]",
		},
		{
			name:        "shape has a float",
			raw:         inputs(func(r Raw) { r[FieldDimensions] = []any{[]any{1, 1}, []any{1, 4.5}} }),
			kind:        ErrSchemaDimension,
			errContains: "entries must be integers",
		},
		{
			name:        "shape has a zero",
			raw:         inputs(func(r Raw) { r[FieldDimensions] = []any{[]any{0, 1}, []any{1, 4}} }),
			kind:        ErrSchemaDimension,
			errContains: "equal or greater than 1",
		},
		{
			name:        "name is not a string",
			raw:         inputs(func(r Raw) { r[FieldNames] = []any{"a", 7} }),
			kind:        ErrSchemaType,
			errContains: "entries must be strings",
		},
		{
			name:        "duplicate name",
			raw:         inputs(func(r Raw) { r[FieldNames] = []any{"a", "a"} }),
			kind:        ErrSchemaLayout,
			errContains: "already declared at index 0",
		},
		{
			name:        "default is a string",
			raw:         params(func(r Raw) { r[FieldDefaultValues] = []any{[]any{"1"}, []any{0.0}, []any{0.0}, []any{1e-3}} }),
			kind:        ErrSchemaDefaultValue,
			errContains: "either integer or float",
		},
		{
			name:        "scalar default with two entries",
			raw:         params(func(r Raw) { r[FieldDefaultValues] = []any{[]any{1.0, 2.0}, []any{0.0}, []any{0.0}, []any{1e-3}} }),
			kind:        ErrSchemaDefaultValue,
			errContains: "exactly one entry",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Validate(tc.raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.kind)
			assert.Contains(t, err.Error(), tc.errContains)

			var schemaErr *SchemaError
			require.True(t, errors.As(err, &schemaErr))
		})
	}
}

func TestValidate_DefaultShapes(t *testing.T) {
	t.Parallel()

	param := func(et ElementType, dims []any, def any) Raw {
		return Raw{
			FieldElementTypes:  []any{et},
			FieldDimensions:    []any{dims},
			FieldNames:         []any{"p"},
			FieldDefaultValues: []any{def},
		}.Tag(ParameterKind)
	}

	cases := []struct {
		name        string
		raw         Raw
		errContains string
	}{
		{"vector given a bare scalar", param(Float64, []any{1, 3}, 2.0), "vector default must be a sequence"},
		{"vector with wrong length", param(Float64, []any{1, 3}, []any{1, 2}), "has 2 entries"},
		{"vector with nested entry", param(Float64, []any{3, 1}, []any{1, []any{2}, 3}), "either integer or float"},
		{"matrix given a flat sequence", param(Float64, []any{2, 2}, []any{1, 2, 3, 4}), "has 4 rows"},
		{"matrix row is a number", param(Float64, []any{2, 2}, []any{1, 2}), "matrix row 0 must be a sequence"},
		{"matrix ragged row", param(Float64, []any{2, 2}, []any{[]any{1, 2}, []any{3}}), "matrix row 1 has 1 entries"},
		{"bool leaf", param(Float64, []any{1, 1}, []any{true}), "either integer or float"},
		{"fractional integer", param(Int32, []any{1, 1}, []any{1.5}), "must be integral"},
		{"uint8 overflow", param(Uint8, []any{1, 1}, []any{300}), "out of range for uint8"},
		{"negative unsigned", param(Uint16, []any{1, 2}, []any{1, -1}), "out of range for uint16"},
		{"uint64 at 2^64", param(Uint64, []any{1, 1}, []any{math.Ldexp(1, 64)}), "out of range for uint64"},
		{"int64 at 2^63", param(Int64, []any{1, 1}, []any{math.Ldexp(1, 63)}), "out of range for int64"},
		{"float32 overflow", param(Float32, []any{1, 1}, []any{1e300}), "out of range for float32"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Validate(tc.raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSchemaDefaultValue)
			assert.Contains(t, err.Error(), tc.errContains)
		})
	}
}

func TestTag_DoesNotMutate(t *testing.T) {
	raw := Raw{FieldNames: []any{}}
	tagged := raw.Tag(OutputKind)

	assert.Equal(t, "RootOutputDict", tagged[FieldName])
	_, ok := raw[FieldName]
	assert.False(t, ok)
}

func TestFromSignals(t *testing.T) {
	raw := FromSignals(true,
		Signal{Name: "Frequency", Type: Int32, Shape: Shape{1, 1}, Default: 1000},
		Signal{Name: "Gains", Type: Float32, Shape: Shape{1, 2}, Default: []float64{0.5, 0.25}},
	)

	d, err := Validate(raw.Tag(ParameterKind))
	require.NoError(t, err)
	assert.Equal(t, []string{"Frequency", "Gains"}, d.Names)
	assert.True(t, d.DefaultValues[0].Equals(cty.NumberIntVal(1000)).True())
	assert.Equal(t, 2, d.DefaultValues[1].LengthInt())

	inputs := FromSignals(false, Signal{Name: "Input", Type: Float64, Shape: Shape{1, 1}})
	_, hasDefaults := inputs[FieldDefaultValues]
	assert.False(t, hasDefaults)
}

func TestValidate_DefaultRangeLimits(t *testing.T) {
	t.Parallel()

	cases := []struct {
		et  ElementType
		def any
	}{
		{Uint64, uint64(math.MaxUint64)},
		{Int64, int64(math.MinInt64)},
		{Int64, int64(math.MaxInt64)},
		{Uint8, 255},
		{Float32, math.MaxFloat32},
		{Float32, -math.MaxFloat32},
		{Float64, 1e300},
	}

	for _, tc := range cases {
		raw := Raw{
			FieldElementTypes:  []any{tc.et},
			FieldDimensions:    []any{[]any{1, 1}},
			FieldNames:         []any{"p"},
			FieldDefaultValues: []any{[]any{tc.def}},
		}.Tag(ParameterKind)

		_, err := Validate(raw)
		assert.NoError(t, err, "%s default %v", tc.et, tc.def)
	}
}
