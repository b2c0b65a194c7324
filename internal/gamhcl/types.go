package gamhcl

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/gamreg/internal/descriptor"
)

// ElementTypeFromExpr converts an HCL expression that is a bare type keyword
// (e.g. `float64`) into its descriptor.ElementType.
//
// The second result reports whether the expression is a keyword at all. When it
// is not, the caller should evaluate it as a value: a literal in a type
// position is a schema error the validator reports, not a syntax error.
func ElementTypeFromExpr(expr hcl.Expression) (descriptor.ElementType, bool, hcl.Diagnostics) {
	keyword := hcl.ExprAsKeyword(expr)
	if keyword == "" {
		return descriptor.InvalidType, false, nil
	}

	et, ok := descriptor.ParseElementType(keyword)
	if !ok {
		return descriptor.InvalidType, true, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Unsupported element type",
			Detail: fmt.Sprintf("The keyword '%s' is not a valid element type. Supported types are: %s.",
				keyword, strings.Join(descriptor.SupportedTypes(), ", ")),
			Subject: expr.Range().Ptr(),
		}}
	}
	return et, true, nil
}
