package app

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

// Override assigns a live value to one parameter of one module.
type Override struct {
	Module    string
	Parameter string
	Value     cty.Value
}

// ParseOverride parses "module.parameter=value". The value is an HCL literal
// expression, so scalars are written as numbers and vectors or matrices as
// (nested) lists: "piPWMOut.ActChans=4", "lpf.Taps=[0.25, 0.5, 0.25]".
func ParseOverride(s string) (Override, error) {
	target, expr, ok := strings.Cut(s, "=")
	if !ok {
		return Override{}, fmt.Errorf("invalid override '%s': expected module.parameter=value", s)
	}
	target = strings.TrimSpace(target)
	dot := strings.LastIndex(target, ".")
	if dot <= 0 || dot == len(target)-1 {
		return Override{}, fmt.Errorf("invalid override '%s': expected module.parameter=value", s)
	}

	parsed, diags := hclsyntax.ParseExpression([]byte(expr), "override", hcl.InitialPos)
	if diags.HasErrors() {
		return Override{}, fmt.Errorf("invalid override '%s': %w", s, diags)
	}
	value, diags := parsed.Value(nil)
	if diags.HasErrors() {
		return Override{}, fmt.Errorf("invalid override '%s': %w", s, diags)
	}

	return Override{
		Module:    target[:dot],
		Parameter: target[dot+1:],
		Value:     value,
	}, nil
}
