package app_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/specialistvlad/gamreg/internal/app"
	"github.com/specialistvlad/gamreg/internal/descriptor"
	"github.com/specialistvlad/gamreg/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const recorderManifest = `
gam "rec" {
  description = "Scales its input."

  inputs {
    element_types = [float64]
    dimensions    = [[1, 1]]
    names         = ["In"]
  }

  outputs {
    element_types = [float64]
    dimensions    = [[1, 1]]
    names         = ["Out"]
  }

  parameters {
    element_types  = [float64]
    dimensions     = [[1, 1]]
    names          = ["Gain"]
    default_values = [[3]]
  }
}
`

func TestRun_BuiltinModules(t *testing.T) {
	t.Parallel()

	// --- Arrange & Act ---
	result := testutil.RunApp(t, nil, &app.Config{Cycles: 2})

	// --- Assert ---
	require.NoError(t, result.Err)
	assert.Contains(t, result.Output, "GAM pid (builtin)")
	assert.Contains(t, result.Output, "GAM piPWMOut (builtin)")
	assert.Contains(t, result.Output, "cycle 2 pid: 0")
	testutil.AssertModuleExecuted(t, result, "pid", 2)
	testutil.AssertModuleExecuted(t, result, "piPWMOut", 2)
}

func TestRun_ManifestDefaultsReachSetup(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	rec := testutil.NewRecorderModule("rec")

	// --- Act ---
	result := testutil.RunApp(t, map[string]string{"rec/rec.hcl": recorderManifest}, &app.Config{Cycles: 3}, rec)

	// --- Assert ---
	require.NoError(t, result.Err)
	assert.Equal(t, 1, rec.Setups())
	assert.Equal(t, 3.0, rec.Gain())
	assert.Equal(t, 3, rec.Executions())
	assert.Contains(t, result.Output, "Scales its input.")

	entry, err := result.App.Registry().Lookup("rec")
	require.NoError(t, err)
	assert.Contains(t, entry.Source, "rec.hcl")
}

func TestRun_Overrides(t *testing.T) {
	t.Parallel()

	rec := testutil.NewRecorderModule("rec")
	cfg := &app.Config{Cycles: 1, Overrides: []string{"rec.Gain=0.5"}}

	result := testutil.RunApp(t, map[string]string{"rec.hcl": recorderManifest}, cfg, rec)

	require.NoError(t, result.Err)
	assert.Equal(t, 0.5, rec.Gain())

	def, err := result.App.Registry().ParameterDefaultValue("rec", descriptor.ByName("Gain"))
	require.NoError(t, err)
	f, _ := def.AsBigFloat().Float64()
	assert.Equal(t, 3.0, f)
}

func TestRun_OverrideErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		override string
		target   error
		excluded error
	}{
		{"unknown parameter", "rec.Frequency=500", descriptor.ErrUnknownParameter, descriptor.ErrUnknownModule},
		{"unknown module", "nope.Gain=1", descriptor.ErrUnknownModule, descriptor.ErrUnknownParameter},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rec := testutil.NewRecorderModule("rec")
			cfg := &app.Config{Cycles: 1, Overrides: []string{tc.override}}

			result := testutil.RunApp(t, nil, cfg, rec)

			require.ErrorIs(t, result.Err, tc.target)
			assert.NotErrorIs(t, result.Err, tc.excluded)
			assert.Zero(t, rec.Setups())

			live, err := result.App.Registry().ParameterValues("rec")
			require.NoError(t, err)
			assert.Len(t, live, 1)
		})
	}

	t.Run("shape mismatch", func(t *testing.T) {
		t.Parallel()
		rec := testutil.NewRecorderModule("rec")
		cfg := &app.Config{Cycles: 1, Overrides: []string{"rec.Gain=[1, 2]"}}

		result := testutil.RunApp(t, nil, cfg, rec)

		require.Error(t, result.Err)
		assert.Contains(t, result.Err.Error(), "rec.Gain=[1, 2]")
	})
}

func TestRun_ManifestDisagreesWithModule(t *testing.T) {
	t.Parallel()

	rec := testutil.NewRecorderModule("rec")
	drifted := `
gams:
  - name: rec
    inputs:
      element_types: [float32]
      dimensions: [[1, 1]]
      names: [In]
    outputs:
      element_types: [float64]
      dimensions: [[1, 1]]
      names: [Out]
    parameters:
      element_types: [float64]
      dimensions: [[1, 1]]
      names: [Gain]
      default_values: [[1]]
`
	result := testutil.RunApp(t, map[string]string{"rec.yaml": drifted}, nil, rec)

	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "type mismatch")
	assert.Zero(t, rec.Executions())
}

func TestRun_InvalidManifest(t *testing.T) {
	t.Parallel()

	bad := "gam \"rec\" {\n  inputs {\n    element_types = [float64]\n    dimensions = [[1, 1]]\n    names = [\"a\", \"b\"]\n  }\n}\n"
	result := testutil.RunApp(t, map[string]string{"rec.hcl": bad}, nil, testutil.NewRecorderModule("rec"))

	require.ErrorIs(t, result.Err, descriptor.ErrSchemaCountMismatch)
}

func TestRun_ManifestWithoutImplementation(t *testing.T) {
	t.Parallel()

	result := testutil.RunApp(t, map[string]string{"rec.hcl": recorderManifest}, nil, testutil.NewRecorderModule("other"))

	require.NoError(t, result.Err)
	assert.Contains(t, result.Output, "no Go implementation")
	assert.Equal(t, []string{"other", "rec"}, result.App.Registry().Modules())
	assert.Equal(t, []string{"other"}, result.App.Engine().Modules())
}

func TestModulesEndpoint(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	rec := testutil.NewRecorderModule("rec")
	result := testutil.RunApp(t, map[string]string{"rec.hcl": recorderManifest}, &app.Config{}, rec)
	require.NoError(t, result.Err)

	srv := httptest.NewServer(result.App.Handler())
	defer srv.Close()

	// --- Act ---
	resp, err := http.Get(srv.URL + "/modules")
	require.NoError(t, err)
	defer resp.Body.Close()

	// --- Assert ---
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body, 1)
	assert.Equal(t, "rec", body[0]["name"])
	params := body[0]["parameters"].([]any)
	gain := params[0].(map[string]any)
	assert.Equal(t, "Gain", gain["name"])
	assert.Equal(t, 3.0, gain["value"])
	assert.Equal(t, "SCALAR", gain["class"])

	health, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	health.Body.Close()
	assert.Equal(t, http.StatusOK, health.StatusCode)
}

func TestNewConfig(t *testing.T) {
	t.Parallel()

	_, err := app.NewConfig(app.Config{Cycles: -1})
	require.Error(t, err)

	_, err = app.NewConfig(app.Config{HealthcheckPort: 70000})
	require.Error(t, err)

	_, err = app.NewConfig(app.Config{Overrides: []string{"nodot=1"}})
	require.Error(t, err)

	cfg, err := app.NewConfig(app.Config{Cycles: 2, Overrides: []string{"pid.Kp=2"}})
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Cycles)
}

func TestParseOverride(t *testing.T) {
	t.Parallel()

	o, err := app.ParseOverride("piPWMOut.ActChans = 4")
	require.NoError(t, err)
	assert.Equal(t, "piPWMOut", o.Module)
	assert.Equal(t, "ActChans", o.Parameter)
	f, _ := o.Value.AsBigFloat().Float64()
	assert.Equal(t, 4.0, f)

	o, err = app.ParseOverride("lpf.Taps=[[1, 2], [3, 4]]")
	require.NoError(t, err)
	assert.Equal(t, 2, o.Value.LengthInt())

	for _, bad := range []string{"x", "m.=1", ".p=1", "m.p=[1,", "m.p=var.x"} {
		_, err := app.ParseOverride(bad)
		assert.Error(t, err, bad)
	}
}

func TestNewApp_DefaultsToCoreModules(t *testing.T) {
	t.Parallel()

	a := app.NewApp(context.Background(), &testutil.SafeBuffer{}, &app.Config{})
	require.NoError(t, a.LoadModules())
	assert.Equal(t, []string{"piPWMOut", "pid"}, a.Engine().Modules())
}
