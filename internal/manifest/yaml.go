package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/specialistvlad/gamreg/internal/descriptor"
	"gopkg.in/yaml.v3"
)

type yamlFile struct {
	GAMs []yamlGAM `yaml:"gams"`
}

type yamlGAM struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Inputs      map[string]any `yaml:"inputs"`
	Outputs     map[string]any `yaml:"outputs"`
	Parameters  map[string]any `yaml:"parameters"`
}

// DecodeYAML decodes the "gams" sequence of a YAML manifest. Unknown
// top-level or per-module keys are rejected; unknown section keys are kept for
// the validator to report.
func DecodeYAML(filename string, src []byte) ([]*Definition, error) {
	dec := yaml.NewDecoder(bytes.NewReader(src))
	dec.KnownFields(true)

	var file yamlFile
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	defs := make([]*Definition, 0, len(file.GAMs))
	seen := make(map[string]int)
	for i, g := range file.GAMs {
		if g.Name == "" {
			return nil, fmt.Errorf("gams[%d]: name is required", i)
		}
		if prev, dup := seen[g.Name]; dup {
			return nil, fmt.Errorf("gams[%d]: a gam named '%s' has already been defined at gams[%d]", i, g.Name, prev)
		}
		seen[g.Name] = i

		def := newDefinition(g.Name, filename)
		def.Description = g.Description
		for _, section := range []struct {
			src    map[string]any
			target descriptor.Raw
		}{
			{g.Inputs, def.Inputs},
			{g.Outputs, def.Outputs},
			{g.Parameters, def.Parameters},
		} {
			for key, value := range section.src {
				if key == descriptor.FieldElementTypes {
					value = yamlElementTypes(value)
				}
				section.target[key] = value
			}
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// yamlElementTypes replaces recognised type names with their ElementType.
// Anything else is left in place so the validator can reject it.
func yamlElementTypes(v any) any {
	entries, ok := v.([]any)
	if !ok {
		return v
	}
	out := make([]any, len(entries))
	for i, e := range entries {
		out[i] = e
		if s, ok := e.(string); ok {
			if et, ok := descriptor.ParseElementType(s); ok {
				out[i] = et
			}
		}
	}
	return out
}
