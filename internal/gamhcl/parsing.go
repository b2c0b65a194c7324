// Package gamhcl holds small helpers on top of hashicorp/hcl shared by the
// manifest decoders.
package gamhcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
)

// FindUniqueBlock searches a slice of blocks for the block of a given type.
// It returns a diagnostic error for every repeated occurrence. If no block is
// found, it returns nil.
func FindUniqueBlock(blocks hcl.Blocks, blockType string) (*hcl.Block, hcl.Diagnostics) {
	var found *hcl.Block
	var diags hcl.Diagnostics

	for _, block := range blocks.OfType(blockType) {
		if found != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  fmt.Sprintf("Duplicate %q block", blockType),
				Detail:   fmt.Sprintf("Only one %q block is allowed; the first was defined at %s.", blockType, found.DefRange),
				Subject:  block.DefRange.Ptr(),
			})
			continue
		}
		found = block
	}

	return found, diags
}

// BlockAttributes returns every attribute of a block body without imposing a
// schema, so unknown keys reach the descriptor validator. A nil block yields
// no attributes.
func BlockAttributes(block *hcl.Block) (hcl.Attributes, hcl.Diagnostics) {
	if block == nil {
		return hcl.Attributes{}, nil
	}
	attrs, diags := block.Body.JustAttributes()
	if attrs == nil {
		attrs = hcl.Attributes{}
	}
	return attrs, diags
}
