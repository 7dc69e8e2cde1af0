package artifact

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jbarreto/orcctl/internal/fileapply"
	"github.com/jbarreto/orcctl/internal/testrunner"
)

func TestNew_CreatesRunDirectoryImmediately(t *testing.T) {
	runsRoot := t.TempDir()
	s, err := New(runsRoot, "run-1")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if info, err := os.Stat(s.RunDir()); err != nil || !info.IsDir() {
		t.Fatalf("run directory was not created: %v", err)
	}
}

func TestRoleDir_LayoutMatchesCycleAndRoleName(t *testing.T) {
	s, err := New(t.TempDir(), "run-1")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	got := s.RoleDir(2, "implementer")
	want := filepath.Join(s.RunDir(), "cycles", "2", "implementer")
	if got != want {
		t.Errorf("RoleDir() = %q, want %q", got, want)
	}
}

func TestPersistTurn_AlwaysWritesCoreFiles(t *testing.T) {
	s, err := New(t.TempDir(), "run-1")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	dir, err := s.PersistTurn(1, "planner", TurnArtifacts{
		Prompt:        "do the thing",
		AssistantText: "ok I did it",
		DeltaText:     "partial",
		ItemTexts:     []string{"item one", "item two"},
		Handoff:       map[string]any{"status": "IN_PROGRESS"},
	})
	if err != nil {
		t.Fatalf("PersistTurn() error: %v", err)
	}

	for _, name := range []string{"prompt.txt", "assistant_text.txt", "delta_text.txt", "items_text.md", "handoff.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s to exist: %v", name, err)
		}
	}
	for _, name := range []string{"applied_files.json", "rejected_files.json", "test_result.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
			t.Errorf("expected %s to be absent, stat err = %v", name, err)
		}
	}

	items, err := os.ReadFile(filepath.Join(dir, "items_text.md"))
	if err != nil {
		t.Fatalf("reading items_text.md: %v", err)
	}
	if want := "item one\n\n---\n\nitem two"; string(items) != want {
		t.Errorf("items_text.md = %q, want %q", items, want)
	}
}

func TestPersistTurn_WritesOptionalFilesOnlyWhenPresent(t *testing.T) {
	s, err := New(t.TempDir(), "run-1")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	dir, err := s.PersistTurn(1, "implementer", TurnArtifacts{
		Handoff:       map[string]any{"status": "DONE"},
		AppliedFiles:  []fileapply.AppliedFile{{Path: "a.go", SHA256: "abc"}},
		RejectedFiles: []fileapply.RejectedFile{{Path: "../escape.go", Reason: "path traversal"}},
		TestResult:    &testrunner.Result{ExitCode: 0, Stdout: "PASS"},
	})
	if err != nil {
		t.Fatalf("PersistTurn() error: %v", err)
	}

	for _, name := range []string{"applied_files.json", "rejected_files.json", "test_result.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s to exist: %v", name, err)
		}
	}
}

func TestWriteSidecar_WritesIntoRoleDirectory(t *testing.T) {
	s, err := New(t.TempDir(), "run-1")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if err := s.WriteSidecar(1, "planner", "analysis.md", "# analysis\n"); err != nil {
		t.Fatalf("WriteSidecar() error: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(s.RoleDir(1, "planner"), "analysis.md"))
	if err != nil {
		t.Fatalf("reading sidecar: %v", err)
	}
	if string(got) != "# analysis\n" {
		t.Errorf("sidecar content = %q", got)
	}
}

func TestControllerState_WriteReadRoundTrip(t *testing.T) {
	s, err := New(t.TempDir(), "run-1")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	state := NewControllerState("run-1", "ship the feature")
	state.CyclesCompleted = 2
	state.LatestJSONByRole["planner"] = map[string]any{"status": "IN_PROGRESS"}
	state.History = append(state.History, TurnRecord{
		CycleIndex: 1,
		RoleName:   "planner",
		Status:     StatusOK,
	})

	if err := s.WriteControllerState(state); err != nil {
		t.Fatalf("WriteControllerState() error: %v", err)
	}
	got, err := s.ReadControllerState()
	if err != nil {
		t.Fatalf("ReadControllerState() error: %v", err)
	}
	if got.RunID != "run-1" || got.Goal != "ship the feature" || got.CyclesCompleted != 2 {
		t.Errorf("round-tripped state = %+v", got)
	}
	if len(got.History) != 1 || got.History[0].RoleName != "planner" {
		t.Errorf("history = %+v", got.History)
	}
}

func TestWriteControllerState_IsByteForByteDeterministic(t *testing.T) {
	s, err := New(t.TempDir(), "run-1")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	state := NewControllerState("run-1", "goal")
	state.LatestJSONByRole["b"] = map[string]any{"z": 1, "a": 2}
	state.LatestJSONByRole["a"] = map[string]any{"status": "DONE"}

	if err := s.WriteControllerState(state); err != nil {
		t.Fatalf("WriteControllerState() error: %v", err)
	}
	first, err := os.ReadFile(s.controllerStatePath())
	if err != nil {
		t.Fatalf("reading controller state: %v", err)
	}
	if err := s.WriteControllerState(state); err != nil {
		t.Fatalf("WriteControllerState() error: %v", err)
	}
	second, err := os.ReadFile(s.controllerStatePath())
	if err != nil {
		t.Fatalf("reading controller state: %v", err)
	}
	if string(first) != string(second) {
		t.Errorf("repeated writes of the same state produced different bytes")
	}
}

func TestRequestStop_IsMonotonic(t *testing.T) {
	state := NewControllerState("run-1", "goal")
	if state.StopRequested {
		t.Fatal("StopRequested should start false")
	}
	state.RequestStop()
	state.RequestStop()
	if !state.StopRequested {
		t.Error("StopRequested should be true after RequestStop")
	}
}
