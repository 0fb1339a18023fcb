package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/james-see/melodygen/pkg/generator"
)

// LoadPreset reads generation parameters from a YAML or JSON file.
// Files without a known extension are tried as YAML, then JSON.
func LoadPreset(path string) (generator.Params, error) {
	var p generator.Params
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return p, fmt.Errorf("preset %s not found", path)
		}
		return p, fmt.Errorf("read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &p); err != nil {
			return p, fmt.Errorf("failed to parse JSON: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &p); err != nil {
			return p, fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &p); err != nil {
			if err := json.Unmarshal(data, &p); err != nil {
				return p, fmt.Errorf("failed to parse preset (tried YAML and JSON): %w", err)
			}
		}
	}
	return p, nil
}

// SavePreset writes parameters as YAML
func SavePreset(path string, p generator.Params) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create preset dir: %w", err)
		}
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal preset: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
