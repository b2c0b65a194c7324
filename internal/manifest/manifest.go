package manifest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/gamreg/internal/ctxlog"
	"github.com/specialistvlad/gamreg/internal/descriptor"
	"github.com/specialistvlad/gamreg/internal/fsutil"
)

// Extensions lists the file extensions Load picks up.
var Extensions = []string{".hcl", ".yaml", ".yml"}

// Definition is the raw declaration of one module found in a manifest.
type Definition struct {
	Name        string
	Description string
	Inputs      descriptor.Raw
	Outputs     descriptor.Raw
	Parameters  descriptor.Raw
	// Source is the manifest file the definition was read from.
	Source string
}

// Load finds every manifest under the given paths and decodes them. A module
// name declared more than once across all files is an error.
func Load(ctx context.Context, paths ...string) ([]*Definition, error) {
	logger := ctxlog.FromContext(ctx)

	var defs []*Definition
	seen := make(map[string]string)
	for _, path := range paths {
		files, err := fsutil.FindFilesByExtension(path, Extensions...)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve manifest path '%s': %w", path, err)
		}
		if len(files) == 0 {
			logger.Warn("No manifest files found in path.", "path", path)
			continue
		}
		logger.Debug("Found manifest files.", "path", path, "files", files)

		for _, file := range files {
			fileDefs, err := DecodeFile(file)
			if err != nil {
				return nil, err
			}
			for _, def := range fileDefs {
				if prev, dup := seen[def.Name]; dup {
					return nil, fmt.Errorf("module '%s' is declared in both %s and %s", def.Name, prev, file)
				}
				seen[def.Name] = file
			}
			defs = append(defs, fileDefs...)
			logger.Debug("Loaded manifest.", "file", file, "modules", len(fileDefs))
		}
	}

	logger.Info("Manifests loaded.", "modules", len(defs))
	return defs, nil
}

// DecodeFile reads and decodes a single manifest, choosing the format from the
// file extension.
func DecodeFile(path string) ([]*Definition, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var defs []*Definition
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".hcl":
		defs, err = DecodeHCL(path, src)
	case ".yaml", ".yml":
		defs, err = DecodeYAML(path, src)
	default:
		return nil, fmt.Errorf("unsupported manifest format '%s' for %s", ext, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	return defs, nil
}

func newDefinition(name, source string) *Definition {
	return &Definition{
		Name:       name,
		Inputs:     descriptor.Raw{},
		Outputs:    descriptor.Raw{},
		Parameters: descriptor.Raw{},
		Source:     source,
	}
}
