package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/gamreg/internal/cli"
	"github.com/specialistvlad/gamreg/internal/descriptor"
	"github.com/stretchr/testify/require"
)

func TestRun_InvalidManifest(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The dimensions entry is not a pair, so validation must reject it.
	invalid := `
gam "pid" {
  inputs {
    element_types = [float64]
    dimensions    = [[1, 1, 1]]
    names         = ["Input"]
  }
}
`
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "pid.hcl")
	require.NoError(t, os.WriteFile(filePath, []byte(invalid), 0600), "failed to set up test file")
	out := &bytes.Buffer{}

	// --- Act ---
	runErr := run(context.Background(), out, []string{filePath})

	// --- Assert ---
	require.Error(t, runErr)
	require.ErrorIs(t, runErr, descriptor.ErrSchemaDimension)
	require.Contains(t, runErr.Error(), "pid.hcl")
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The "-h" (help) flag should cause cli.Parse to return `shouldExit=true`.
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, []string{"-h"})

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}

	err := run(context.Background(), out, []string{"--this-is-not-a-valid-flag"})

	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 2, exitErr.Code)
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}

func TestRun_ShippedManifests(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}

	err := run(context.Background(), out, []string{"-cycles", "2", "-set", "piPWMOut.ActChans=4", "../../modules"})

	require.NoError(t, err)
	require.Contains(t, out.String(), "GAM pid (")
	require.Contains(t, out.String(), "pid.hcl)")
	require.Contains(t, out.String(), "pwmout.yaml)")
	require.Contains(t, out.String(), "cycle 2 piPWMOut: [0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0]")
}
