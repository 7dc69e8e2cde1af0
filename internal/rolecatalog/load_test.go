package rolecatalog

import (
	"os"
	"path/filepath"
	"testing"
)

const minimalCatalogue = `
goal: "ship the feature"
cycles: 3
assistant-binary:
  name: claude
allowed-file-extensions: [".go"]
role-bindings:
  - name: planner
    spec:
      behaviors:
        timeout-policy: planner
  - name: implementer
    spec:
      behaviors:
        apply-files: true
        can-finish: true
`

func writeCatalogue(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing catalogue: %v", err)
	}
	return path
}

func TestLoad_AppliesTimeoutDefaults(t *testing.T) {
	path := writeCatalogue(t, minimalCatalogue)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.HandshakeS != 15 || cfg.IdleDefaultS != 30 || cfg.OverallDefaultS != 300 {
		t.Errorf("timeouts = %+v", cfg.TimeoutConfig)
	}
}

func TestLoad_AppliesModelDefaultsByRoleName(t *testing.T) {
	path := writeCatalogue(t, minimalCatalogue)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	planner := cfg.RoleBindings[cfg.RoleIndex("planner")]
	implementer := cfg.RoleBindings[cfg.RoleIndex("implementer")]
	if planner.Spec.Model == "" {
		t.Error("planner model should default to a non-empty value")
	}
	if implementer.Spec.Model == "" {
		t.Error("implementer model should default to a non-empty value")
	}
	if planner.Spec.Model == implementer.Spec.Model {
		t.Error("planner and non-planner roles should default to different models")
	}
}

func TestLoad_MissingGoalFails(t *testing.T) {
	path := writeCatalogue(t, `
assistant-binary:
  name: claude
role-bindings:
  - name: a
    spec: {}
`)
	if _, err := Load(path); err == nil {
		t.Error("expected error for missing goal")
	}
}

func TestLoad_DuplicateRoleNameFails(t *testing.T) {
	path := writeCatalogue(t, `
goal: "x"
assistant-binary:
  name: claude
role-bindings:
  - name: a
    spec: {}
  - name: a
    spec: {}
`)
	if _, err := Load(path); err == nil {
		t.Error("expected error for duplicate role binding name")
	}
}

func TestLoad_LoadsSystemInstructionsFileRelativeToCatalogue(t *testing.T) {
	dir := t.TempDir()
	instrPath := filepath.Join(dir, "planner.md")
	if err := os.WriteFile(instrPath, []byte("You are the planner.\n"), 0644); err != nil {
		t.Fatalf("writing instructions file: %v", err)
	}
	configPath := filepath.Join(dir, "config.yaml")
	content := `
goal: "x"
assistant-binary:
  name: claude
role-bindings:
  - name: planner
    spec:
      system-instructions-file: planner.md
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("writing catalogue: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	got := cfg.RoleBindings[0].Spec.SystemInstructions
	if got != "You are the planner.\n" {
		t.Errorf("SystemInstructions = %q", got)
	}
}
