package manifest

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/gamreg/internal/descriptor"
	"github.com/specialistvlad/gamreg/internal/gamhcl"
)

// rootSchema defines the top-level structure of a manifest: one or more 'gam'
// blocks.
var rootSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "gam", LabelNames: []string{"name"}},
	},
}

// gamBodySchema defines the body of a single 'gam' block.
var gamBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "description"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "inputs"},
		{Type: "outputs"},
		{Type: "parameters"},
	},
}

// DecodeHCL decodes the 'gam' blocks of an HCL manifest.
func DecodeHCL(filename string, src []byte) ([]*Definition, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diags
	}

	content, contentDiags := file.Body.Content(rootSchema)
	diags = append(diags, contentDiags...)
	if contentDiags.HasErrors() {
		return nil, diags
	}

	defs := make([]*Definition, 0, len(content.Blocks))
	seen := make(map[string]*hcl.Block)
	for _, block := range content.Blocks {
		name := block.Labels[0]
		if prev, dup := seen[name]; dup {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate gam definition",
				Detail:   fmt.Sprintf("A gam named '%s' has already been defined at %s.", name, prev.DefRange),
				Subject:  block.DefRange.Ptr(),
			})
			continue
		}
		seen[name] = block

		def, defDiags := decodeGAMBlock(block, filename)
		diags = append(diags, defDiags...)
		if defDiags.HasErrors() {
			continue
		}
		defs = append(defs, def)
	}

	if diags.HasErrors() {
		return nil, diags
	}
	return defs, nil
}

func decodeGAMBlock(block *hcl.Block, filename string) (*Definition, hcl.Diagnostics) {
	def := newDefinition(block.Labels[0], filename)

	body, diags := block.Body.Content(gamBodySchema)
	if diags.HasErrors() {
		return nil, diags
	}

	if attr, exists := body.Attributes["description"]; exists {
		diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &def.Description)...)
	}

	sections := []struct {
		blockType string
		target    descriptor.Raw
	}{
		{"inputs", def.Inputs},
		{"outputs", def.Outputs},
		{"parameters", def.Parameters},
	}
	for _, section := range sections {
		sectionBlock, findDiags := gamhcl.FindUniqueBlock(body.Blocks, section.blockType)
		diags = append(diags, findDiags...)

		attrs, attrDiags := gamhcl.BlockAttributes(sectionBlock)
		diags = append(diags, attrDiags...)
		for key, attr := range attrs {
			value, valueDiags := decodeField(key, attr.Expr)
			diags = append(diags, valueDiags...)
			if !valueDiags.HasErrors() {
				section.target[key] = value
			}
		}
	}
	return def, diags
}

// decodeField turns one section attribute into its raw value. element_types
// entries that are bare keywords become descriptor.ElementType values; all
// other expressions are evaluated as literals.
func decodeField(key string, expr hcl.Expression) (any, hcl.Diagnostics) {
	if key != descriptor.FieldElementTypes {
		return literal(expr)
	}

	exprs, listDiags := hcl.ExprList(expr)
	if listDiags.HasErrors() {
		return typeEntry(expr)
	}
	var diags hcl.Diagnostics
	entries := make([]any, len(exprs))
	for i, e := range exprs {
		entry, entryDiags := typeEntry(e)
		diags = append(diags, entryDiags...)
		entries[i] = entry
	}
	return entries, diags
}

func typeEntry(expr hcl.Expression) (any, hcl.Diagnostics) {
	et, isKeyword, diags := gamhcl.ElementTypeFromExpr(expr)
	if isKeyword {
		return et, diags
	}
	return literal(expr)
}

// literal evaluates expr without variables or functions.
func literal(expr hcl.Expression) (any, hcl.Diagnostics) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	native, err := ctyToNative(val)
	if err != nil {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Unsupported value",
			Detail:   err.Error(),
			Subject:  expr.Range().Ptr(),
		}}
	}
	return native, nil
}
