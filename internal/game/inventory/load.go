package inventory

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// loadDir parses every *.yaml file in dir as one T and validates it.
// op names the public loader in error messages.
func loadDir[T any](dir, op string, validate func(*T) error) ([]*T, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%s: cannot read directory %q: %w", op, dir, err)
	}

	var out []*T
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%s: cannot read file %q: %w", op, path, err)
		}
		var def T
		if err := yaml.Unmarshal(data, &def); err != nil {
			return nil, fmt.Errorf("%s: cannot parse file %q: %w", op, path, err)
		}
		if err := validate(&def); err != nil {
			return nil, fmt.Errorf("%s: invalid definition in %q: %w", op, path, err)
		}
		out = append(out, &def)
	}
	return out, nil
}
