// Package artifact atomically persists per-turn artifacts, handoff JSON,
// and run-wide controller state under the run directory.
package artifact

import "time"

// TurnStatus is the closed status enum recorded per TurnRecord.
type TurnStatus string

const (
	StatusOK              TurnStatus = "ok"
	StatusJSONFailed      TurnStatus = "json_failed"
	StatusTransportFailed TurnStatus = "transport_failed"
	StatusTimedOut        TurnStatus = "timed_out"
)

// TurnRecord is one entry in ControllerState.History.
type TurnRecord struct {
	CycleIndex        int        `json:"cycle_index"`
	RoleName          string     `json:"role_name"`
	PromptLen         int        `json:"prompt_len"`
	StartedAt         time.Time  `json:"started_at"`
	FinishedAt        time.Time  `json:"finished_at"`
	Status            TurnStatus `json:"status"`
	ArtifactDir       string     `json:"artifact_dir"`
	AppliedFilesCount int        `json:"applied_files_count"`
	TestStatus        string     `json:"test_status,omitempty"`
}

// ControllerState is the run-wide state rewritten in full after every
// turn.
type ControllerState struct {
	RunID            string                    `json:"run_id"`
	Goal             string                    `json:"goal"`
	CyclesCompleted  int                       `json:"cycles_completed"`
	StopRequested    bool                      `json:"stop_requested"`
	LatestJSONByRole map[string]map[string]any `json:"latest_json_by_role"`
	History          []TurnRecord              `json:"history"`
}

// NewControllerState seeds a fresh state for a new run.
func NewControllerState(runID, goal string) *ControllerState {
	return &ControllerState{
		RunID:            runID,
		Goal:             goal,
		LatestJSONByRole: make(map[string]map[string]any),
	}
}

// RequestStop sets StopRequested. The transition is monotonic: once true,
// repeated calls are no-ops (I4 — false-to-true only).
func (s *ControllerState) RequestStop() {
	s.StopRequested = true
}
