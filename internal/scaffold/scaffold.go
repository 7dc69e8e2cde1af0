// Package scaffold creates a starter .orcctl/ directory: a role catalogue
// and per-role system-instruction files a user can edit before running.
package scaffold

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jbarreto/orcctl/internal/ux"
)

var configTemplate = `goal: "describe the goal of this run"
cycles: 2
repair-attempts: 1
run-tests: false
test-command: ["go", "test", "./..."]

workspace-root: .
runs-root: ./.orcctl/runs

assistant-binary:
  name: claude
  fallback-paths:
    - /usr/local/bin/claude

allowed-file-extensions: [".go", ".md", ".yaml", ".json"]

handshake-timeout-s: 15
idle-timeout-default-s: 30
overall-timeout-default-s: 300
idle-timeout-planner-s: 60
overall-timeout-planner-s: 600

role-bindings:
  - name: planner
    spec:
      system-instructions-file: roles/planner.md
      reasoning-effort: high
      prompt-flags:
        allow-read: true
      behaviors:
        timeout-policy: planner
        can-finish: false

  - name: implementer
    spec:
      system-instructions-file: roles/implementer.md
      prompt-flags:
        allow-read: true
        allow-write: true
        allow-file-suggestions: true
      behaviors:
        apply-files: true
        can-finish: true
`

var plannerPromptTemplate = `You are the planning role in a multi-role orchestration run.

## Task

Read the goal and the incoming payload, and produce a short plan of concrete
steps for the implementer role to execute.

## Output

Respond with a JSON object: {"status": "IN_PROGRESS", "plan": ["step one", "step two"]}
`

var implementerPromptTemplate = `You are the implementation role in a multi-role orchestration run.

## Task

Follow the incoming plan and make the described changes by proposing files.

## Output

Respond with a JSON object:
{"status": "DONE", "summary": "what changed", "files": [{"path": "relative/path.go", "content": "..."}]}
`

// Init creates a new .orcctl/ directory with an example role catalogue and
// per-role prompt files.
func Init(targetDir string) error {
	base := filepath.Join(targetDir, ".orcctl")
	if _, err := os.Stat(base); err == nil {
		return fmt.Errorf(".orcctl directory already exists in %s", targetDir)
	}

	rolesDir := filepath.Join(base, "roles")
	if err := os.MkdirAll(rolesDir, 0755); err != nil {
		return fmt.Errorf("creating .orcctl/roles: %w", err)
	}

	configPath := filepath.Join(base, "config.yaml")
	if err := os.WriteFile(configPath, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config.yaml: %w", err)
	}

	if err := os.WriteFile(filepath.Join(rolesDir, "planner.md"), []byte(plannerPromptTemplate), 0644); err != nil {
		return fmt.Errorf("writing planner.md: %w", err)
	}
	if err := os.WriteFile(filepath.Join(rolesDir, "implementer.md"), []byte(implementerPromptTemplate), 0644); err != nil {
		return fmt.Errorf("writing implementer.md: %w", err)
	}

	fmt.Printf("\n%s%s✓ Initialized .orcctl/ directory%s\n\n", ux.Bold, ux.Green, ux.Reset)
	fmt.Printf("  Created:\n")
	fmt.Printf("    %s.orcctl/config.yaml%s       — role catalogue and run settings\n", ux.Cyan, ux.Reset)
	fmt.Printf("    %s.orcctl/roles/planner.md%s  — example planner instructions\n", ux.Cyan, ux.Reset)
	fmt.Printf("    %s.orcctl/roles/implementer.md%s — example implementer instructions\n\n", ux.Cyan, ux.Reset)
	fmt.Printf("  Next steps:\n")
	fmt.Printf("    1. Edit %s.orcctl/config.yaml%s to define your roles\n", ux.Cyan, ux.Reset)
	fmt.Printf("    2. Run %sorcctl run .orcctl/config.yaml%s\n\n", ux.Cyan, ux.Reset)

	return nil
}
