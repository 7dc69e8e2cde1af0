package scaffold

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInit_CreatesConfigAndRoleFiles(t *testing.T) {
	dir := t.TempDir()
	if err := Init(dir); err != nil {
		t.Fatalf("Init() error: %v", err)
	}

	for _, rel := range []string{
		filepath.Join(".orcctl", "config.yaml"),
		filepath.Join(".orcctl", "roles", "planner.md"),
		filepath.Join(".orcctl", "roles", "implementer.md"),
	} {
		if _, err := os.Stat(filepath.Join(dir, rel)); err != nil {
			t.Errorf("expected %s to exist: %v", rel, err)
		}
	}
}

func TestInit_FailsWhenOrcctlDirAlreadyExists(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".orcctl"), 0755); err != nil {
		t.Fatalf("pre-creating .orcctl: %v", err)
	}
	if err := Init(dir); err == nil {
		t.Error("expected Init() to fail when .orcctl already exists")
	}
}

func TestInit_ConfigReferencesBothRolePromptFiles(t *testing.T) {
	dir := t.TempDir()
	if err := Init(dir); err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, ".orcctl", "config.yaml"))
	if err != nil {
		t.Fatalf("reading config.yaml: %v", err)
	}
	content := string(data)
	for _, want := range []string{"planner.md", "implementer.md", "goal:", "role-bindings:"} {
		if !strings.Contains(content, want) {
			t.Errorf("config.yaml missing expected content %q", want)
		}
	}
}
