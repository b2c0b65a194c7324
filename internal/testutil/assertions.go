package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// AssertModuleExecuted checks the log output within a HarnessResult to confirm
// that a module completed the given cycle.
func AssertModuleExecuted(t *testing.T, result *HarnessResult, module string, cycle int) {
	t.Helper()

	expected := fmt.Sprintf("module=%s cycle=%d", module, cycle)
	require.True(t,
		strings.Contains(result.Output, expected),
		"expected log output for module '%s' cycle %d was not found", module, cycle,
	)
}
