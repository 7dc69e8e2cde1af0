package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jbarreto/orcctl/internal/canon"
	"github.com/jbarreto/orcctl/internal/fileapply"
	"github.com/jbarreto/orcctl/internal/testrunner"
)

// Store roots all per-run artifact writes under <runsRoot>/<runID>/.
type Store struct {
	runsRoot string
	runID    string
}

// New constructs a Store for one run. The run directory is created
// immediately (I1: created before any turn starts).
func New(runsRoot, runID string) (*Store, error) {
	s := &Store{runsRoot: runsRoot, runID: runID}
	if err := os.MkdirAll(s.RunDir(), 0755); err != nil {
		return nil, fmt.Errorf("artifact: creating run directory: %w", err)
	}
	return s, nil
}

// RunDir is <runsRoot>/<runID>.
func (s *Store) RunDir() string {
	return filepath.Join(s.runsRoot, s.runID)
}

// RoleDir is <runsRoot>/<runID>/cycles/<cycleIndex>/<roleName>.
func (s *Store) RoleDir(cycleIndex int, roleName string) string {
	return filepath.Join(s.RunDir(), "cycles", strconv.Itoa(cycleIndex), roleName)
}

// TurnArtifacts is everything a completed turn may produce, handed to
// PersistTurn in one call so every file in §4.7's layout is written from a
// single, consistent snapshot.
type TurnArtifacts struct {
	Prompt         string
	AssistantText  string
	DeltaText      string
	ItemTexts      []string
	Handoff        map[string]any
	AppliedFiles   []fileapply.AppliedFile
	RejectedFiles  []fileapply.RejectedFile
	TestResult     *testrunner.Result
}

// PersistTurn writes the full per-turn artifact set for one role+cycle.
// Every write is atomic (temp file + rename); optional files
// (applied_files.json, rejected_files.json, test_result.json) are written
// only when their corresponding slice/pointer is non-empty/non-nil,
// matching §4.7's "present iff" rule.
func (s *Store) PersistTurn(cycleIndex int, roleName string, a TurnArtifacts) (string, error) {
	dir := s.RoleDir(cycleIndex, roleName)

	if err := writeFileAtomic(filepath.Join(dir, "prompt.txt"), []byte(a.Prompt), 0644); err != nil {
		return dir, err
	}
	if err := writeFileAtomic(filepath.Join(dir, "assistant_text.txt"), []byte(a.AssistantText), 0644); err != nil {
		return dir, err
	}
	if err := writeFileAtomic(filepath.Join(dir, "delta_text.txt"), []byte(a.DeltaText), 0644); err != nil {
		return dir, err
	}
	if err := writeFileAtomic(filepath.Join(dir, "items_text.md"), []byte(renderItemsMarkdown(a.ItemTexts)), 0644); err != nil {
		return dir, err
	}

	handoffBytes, err := canon.MarshalIndent(a.Handoff, "  ")
	if err != nil {
		return dir, fmt.Errorf("artifact: marshal handoff: %w", err)
	}
	if err := writeFileAtomic(filepath.Join(dir, "handoff.json"), handoffBytes, 0644); err != nil {
		return dir, err
	}

	if len(a.AppliedFiles) > 0 {
		b, err := json.MarshalIndent(a.AppliedFiles, "", "  ")
		if err != nil {
			return dir, fmt.Errorf("artifact: marshal applied_files: %w", err)
		}
		if err := writeFileAtomic(filepath.Join(dir, "applied_files.json"), b, 0644); err != nil {
			return dir, err
		}
	}

	if len(a.RejectedFiles) > 0 {
		b, err := json.MarshalIndent(a.RejectedFiles, "", "  ")
		if err != nil {
			return dir, fmt.Errorf("artifact: marshal rejected_files: %w", err)
		}
		if err := writeFileAtomic(filepath.Join(dir, "rejected_files.json"), b, 0644); err != nil {
			return dir, err
		}
	}

	if a.TestResult != nil {
		b, err := json.MarshalIndent(a.TestResult, "", "  ")
		if err != nil {
			return dir, fmt.Errorf("artifact: marshal test_result: %w", err)
		}
		if err := writeFileAtomic(filepath.Join(dir, "test_result.json"), b, 0644); err != nil {
			return dir, err
		}
	}

	return dir, nil
}

// WriteSidecar writes an auxiliary file (e.g. the analysis.md sidecar
// produced by payload reduction) into the same role+cycle directory.
func (s *Store) WriteSidecar(cycleIndex int, roleName, filename, content string) error {
	dir := s.RoleDir(cycleIndex, roleName)
	return writeFileAtomic(filepath.Join(dir, filename), []byte(content), 0644)
}

// WriteControllerState rewrites controller_state.json in full, in
// canonical form, at the run root.
func (s *Store) WriteControllerState(state *ControllerState) error {
	data, err := canon.MarshalIndent(state, "  ")
	if err != nil {
		return fmt.Errorf("artifact: marshal controller state: %w", err)
	}
	return writeFileAtomic(s.controllerStatePath(), data, 0644)
}

// ReadControllerState loads controller_state.json from the run root, used
// by resume and by the status/doctor CLI commands.
func (s *Store) ReadControllerState() (*ControllerState, error) {
	data, err := os.ReadFile(s.controllerStatePath())
	if err != nil {
		return nil, fmt.Errorf("artifact: read controller state: %w", err)
	}
	var state ControllerState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("artifact: parse controller state: %w", err)
	}
	return &state, nil
}

func (s *Store) controllerStatePath() string {
	return filepath.Join(s.RunDir(), "controller_state.json")
}

func renderItemsMarkdown(items []string) string {
	out := ""
	for i, item := range items {
		if i > 0 {
			out += "\n\n---\n\n"
		}
		out += item
	}
	return out
}
