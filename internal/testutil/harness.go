package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/specialistvlad/gamreg/internal/app"
	"github.com/specialistvlad/gamreg/internal/gam"
	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	// Output holds everything the app wrote: logs, descriptor tables and
	// cycle results.
	Output string
	Err    error
	App    *app.App
}

// RunApp provides a standardized harness for running the whole application
// against a set of manifest files. files maps paths relative to a temporary
// modules directory to their content. cfg may be nil; its ModulesPath is
// always replaced.
func RunApp(t *testing.T, files map[string]string, cfg *app.Config, modules ...gam.Module) *HarnessResult {
	t.Helper()

	modulesDir := t.TempDir()
	for name, content := range files {
		filePath := filepath.Join(modulesDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
	}

	if cfg == nil {
		cfg = &app.Config{Cycles: 1}
	}
	cfg.ModulesPath = modulesDir
	cfg.LogLevel = "debug"
	cfg.LogFormat = "text"

	out := &SafeBuffer{}
	testApp := app.NewApp(context.Background(), out, cfg, modules...)
	err := testApp.Run()

	if os.Getenv("GAMREG_TEST_LOGS") == "true" {
		t.Logf("--- Full Output for %s ---\n%s", t.Name(), out.String())
	}

	return &HarnessResult{
		Output: out.String(),
		Err:    err,
		App:    testApp,
	}
}
