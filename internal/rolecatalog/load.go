package rolecatalog

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML role-catalogue file, resolves each role's
// system-instructions-file relative to the catalogue's directory, and
// returns a validated RunConfig.
func Load(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rolecatalog: read %s: %w", path, err)
	}
	cfg := RunConfig{RepairAttempts: 1}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("rolecatalog: parse %s: %w", path, err)
	}

	baseDir := filepath.Dir(path)
	for i := range cfg.RoleBindings {
		spec := &cfg.RoleBindings[i].Spec
		if spec.SystemInstructionsFile == "" {
			continue
		}
		p := spec.SystemInstructionsFile
		if !filepath.IsAbs(p) {
			p = filepath.Join(baseDir, p)
		}
		content, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("rolecatalog: reading system-instructions-file for role %q: %w", cfg.RoleBindings[i].Name, err)
		}
		spec.SystemInstructions = string(content)
	}

	applyModelDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
