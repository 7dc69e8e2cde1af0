// Package scheduler owns the run lifecycle: sequencing roles, reducing and
// forwarding payloads, maintaining run state, enforcing the overall
// timeout and cycle budget, and deciding termination.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/jbarreto/orcctl/internal/artifact"
	"github.com/jbarreto/orcctl/internal/fileapply"
	"github.com/jbarreto/orcctl/internal/fileblocks"
	"github.com/jbarreto/orcctl/internal/jsonextract"
	"github.com/jbarreto/orcctl/internal/promptassembler"
	"github.com/jbarreto/orcctl/internal/rolecatalog"
	"github.com/jbarreto/orcctl/internal/schemavalidate"
	"github.com/jbarreto/orcctl/internal/testrunner"
	"github.com/jbarreto/orcctl/internal/timeoutresolver"
	"github.com/jbarreto/orcctl/internal/turnrunner"
	"github.com/jbarreto/orcctl/internal/ux"
)

// ResumePoint identifies where a previously interrupted run should
// continue from: reload controller_state.json instead of re-seeding the
// goal payload, and skip roles already recorded in that cycle.
type ResumePoint struct {
	Cycle int
	Role  string
}

// Scheduler drives one run from setup through teardown.
type Scheduler struct {
	Config      *rolecatalog.RunConfig
	Store       *artifact.Store
	Bindings    []*turnrunner.RoleBinding
	SchemaCache *schemavalidate.Cache
	Client      turnrunner.ClientIdentity
	Resume      *ResumePoint

	state *artifact.ControllerState
}

// New constructs a Scheduler for a validated config, an already-created
// artifact store, and the role bindings in declaration order (transports
// constructed but not yet started).
func New(cfg *rolecatalog.RunConfig, store *artifact.Store, bindings []*turnrunner.RoleBinding) *Scheduler {
	return &Scheduler{
		Config:      cfg,
		Store:       store,
		Bindings:    bindings,
		SchemaCache: schemavalidate.NewCache(),
		Client:      turnrunner.ClientIdentity{Name: "orcctl", Version: "1"},
	}
}

// Run executes Setup, the cycle loop, and Teardown. It returns an error
// for setup failures (ConfigError-class problems already surfaced by the
// caller's config load, or TransportStartFailed here) and when the
// controller state cannot be written after a cycle; other mid-run
// failures are recorded in ControllerState instead of propagated, per the
// error-handling design's local-recovery policy.
func (s *Scheduler) Run(ctx context.Context, runID string) error {
	if err := s.setup(ctx, runID); err != nil {
		return err
	}
	defer s.teardown()

	startCycle := 1
	payload := map[string]any{"goal": s.Config.Goal}
	if s.Resume != nil {
		if s.Resume.Cycle > startCycle {
			startCycle = s.Resume.Cycle
		}
		payload = s.resumePayload()
	}

	for cycleIndex := startCycle; cycleIndex <= s.Config.Cycles; cycleIndex++ {
		if s.state.StopRequested {
			break
		}
		if ctx.Err() != nil {
			break
		}

		startRoleIdx := 0
		if cycleIndex == startCycle && s.Resume != nil {
			for i, b := range s.Bindings {
				if b.Name == s.Resume.Role {
					startRoleIdx = i
					break
				}
			}
		}

		abortRun, nextPayload := s.runCycle(ctx, cycleIndex, startRoleIdx, payload)
		payload = nextPayload
		s.state.CyclesCompleted = cycleIndex
		if err := s.Store.WriteControllerState(s.state); err != nil {
			return fmt.Errorf("scheduler: writing controller state: %w", err)
		}
		if abortRun {
			break
		}
	}

	return nil
}

func (s *Scheduler) setup(ctx context.Context, runID string) error {
	for _, b := range s.Bindings {
		if err := b.Transport.Start(ctx); err != nil {
			return fmt.Errorf("scheduler: starting transport for role %q: %w", b.Name, err)
		}
	}
	if s.Resume != nil {
		state, err := s.Store.ReadControllerState()
		if err != nil {
			return fmt.Errorf("scheduler: reading controller state for resume: %w", err)
		}
		s.state = state
		return nil
	}
	s.state = artifact.NewControllerState(runID, s.Config.Goal)
	return s.Store.WriteControllerState(s.state)
}

// resumePayload reconstructs the payload the resumed role should receive:
// the reduced output of whichever role most recently ran before the
// resume point, or the seed goal payload if no turn has run yet.
func (s *Scheduler) resumePayload() map[string]any {
	if len(s.state.History) == 0 {
		return map[string]any{"goal": s.Config.Goal}
	}
	last := s.state.History[len(s.state.History)-1]
	if reduced, ok := s.state.LatestJSONByRole[last.RoleName]; ok {
		return reduced
	}
	return map[string]any{"goal": s.Config.Goal}
}

func (s *Scheduler) teardown() {
	for _, b := range s.Bindings {
		_ = b.Transport.Stop(2 * time.Second)
	}
	if s.state != nil {
		_ = s.Store.WriteControllerState(s.state)
	}
}

// runCycle runs every role binding in declaration order for one cycle. It
// returns abortRun=true when a transport/timeout failure in the first
// role of the cycle requires aborting the whole run (rather than just the
// cycle), and the payload to carry into the next cycle (or role, on
// continuation).
func (s *Scheduler) runCycle(ctx context.Context, cycleIndex int, startRoleIdx int, payload map[string]any) (abortRun bool, nextPayload map[string]any) {
	for roleIdx, binding := range s.Bindings {
		if roleIdx < startRoleIdx {
			continue
		}
		if s.state.StopRequested || ctx.Err() != nil {
			return false, payload
		}

		record, reduced, terminate := s.runRole(ctx, cycleIndex, binding, payload)
		s.state.History = append(s.state.History, record)
		payload = reduced

		if record.Status == artifact.StatusTransportFailed || record.Status == artifact.StatusTimedOut {
			isFirstRole := roleIdx == startRoleIdx
			ux.RoleFail(cycleIndex, binding.Name, string(record.Status))
			if isFirstRole {
				return true, payload
			}
			return false, payload
		}

		if terminate {
			s.state.RequestStop()
			return false, payload
		}
	}
	return false, payload
}

// runRole executes one role's turn including the repair loop, artifact
// persistence, file application, and test execution, and reports whether
// the payload signals run termination.
func (s *Scheduler) runRole(ctx context.Context, cycleIndex int, binding *turnrunner.RoleBinding, incoming map[string]any) (artifact.TurnRecord, map[string]any, bool) {
	startedAt := time.Now()
	ux.RoleStart(cycleIndex, binding.Name)

	timeouts, err := timeoutresolver.Resolve(s.timeoutPolicy(), binding.Spec.Behaviors.TimeoutPolicy)
	if err != nil {
		return artifact.TurnRecord{
			CycleIndex: cycleIndex,
			RoleName:   binding.Name,
			StartedAt:  startedAt,
			FinishedAt: time.Now(),
			Status:     artifact.StatusTransportFailed,
		}, incoming, false
	}

	prompt := promptassembler.Assemble(promptassembler.Input{
		RoleName:        binding.Name,
		Spec:            binding.Spec,
		Goal:            s.Config.Goal,
		CycleIndex:      cycleIndex,
		IncomingPayload: incoming,
		IsRepair:        false,
	})

	result, extracted, status := s.runWithRepair(ctx, binding, prompt, incoming, timeouts, cycleIndex)

	record := artifact.TurnRecord{
		CycleIndex: cycleIndex,
		RoleName:   binding.Name,
		PromptLen:  len(prompt),
		StartedAt:  startedAt,
		Status:     status,
	}

	if status == artifact.StatusTransportFailed || status == artifact.StatusTimedOut {
		record.FinishedAt = time.Now()
		return record, incoming, false
	}

	reduction := reducePayload(extracted)

	var appliedResult fileapply.Result
	if binding.Spec.Behaviors.ApplyFiles {
		proposals := toProposals(reduction.FileProposal)
		proposals = mergeFenceBlocks(proposals, result.AssistantText)
		if len(proposals) > 0 {
			appliedResult, _ = fileapply.Apply(s.Config.WorkspaceRoot, proposals, s.Config.AllowedFileExtensions)
			if appliedResult.AllRejected() {
				record.Status = artifact.StatusJSONFailed
			}
		}
	}

	var testResult *testrunner.Result
	if s.Config.RunTests && binding.Spec.Behaviors.ApplyFiles && len(appliedResult.Applied) > 0 {
		res, err := testrunner.Run(ctx, s.Config.TestCommand, s.Config.WorkspaceRoot, 0)
		if err == nil {
			testResult = &res
			if res.ExitCode == 0 {
				record.TestStatus = "passed"
			} else {
				record.TestStatus = "failed"
			}
		} else {
			record.TestStatus = "error"
		}
	}

	dir, err := s.Store.PersistTurn(cycleIndex, binding.Name, artifact.TurnArtifacts{
		Prompt:        prompt,
		AssistantText: result.AssistantText,
		DeltaText:     result.DeltaText,
		ItemTexts:     result.ItemTexts,
		Handoff:       reduction.Reduced,
		AppliedFiles:  appliedResult.Applied,
		RejectedFiles: appliedResult.Rejected,
		TestResult:    testResult,
	})
	record.ArtifactDir = dir
	record.AppliedFilesCount = len(appliedResult.Applied)
	record.FinishedAt = time.Now()
	if err != nil {
		ux.ArtifactWriteFailed(cycleIndex, binding.Name, err)
	}

	if reduction.HasAnalysis {
		_ = s.Store.WriteSidecar(cycleIndex, binding.Name, "analysis.md", reduction.AnalysisMD)
	}

	// I2: latest_json_by_role only updates once the turn has fully
	// succeeded through extraction/reduction; it is never updated for a
	// transport_failed or extraction-exhausted turn.
	if record.Status == artifact.StatusOK {
		if s.state.LatestJSONByRole == nil {
			s.state.LatestJSONByRole = make(map[string]map[string]any)
		}
		s.state.LatestJSONByRole[binding.Name] = reduction.Reduced
	}

	terminate := payloadStatus(extracted) == "DONE" && binding.Spec.Behaviors.CanFinish
	ux.RoleDone(cycleIndex, binding.Name, string(record.Status), time.Since(startedAt))

	return record, reduction.Reduced, terminate
}

// runWithRepair invokes TurnRunner, then on extraction/validation failure
// retries up to repair_attempts additional times with a repair prompt on
// the same thread (P5: at most repair_attempts+1 TurnRunner calls).
func (s *Scheduler) runWithRepair(ctx context.Context, binding *turnrunner.RoleBinding, firstPrompt string, incoming map[string]any, timeouts timeoutresolver.Timeouts, cycleIndex int) (turnrunner.TurnResult, map[string]any, artifact.TurnStatus) {
	prompt := firstPrompt
	var last turnrunner.TurnResult

	for attempt := 0; attempt <= s.Config.RepairAttempts; attempt++ {
		last = turnrunner.Run(ctx, binding, prompt, timeouts, s.Client)

		switch last.CompletionReason {
		case turnrunner.ReasonTransportClosed, turnrunner.ReasonCancelled:
			return last, incoming, artifact.StatusTransportFailed
		case turnrunner.ReasonIdleTimeout, turnrunner.ReasonOverallTimeout:
			return last, incoming, artifact.StatusTimedOut
		}

		extracted, err := jsonextract.Extract(last.AssistantText)
		if err == nil {
			if schemaErr := s.SchemaCache.Validate(binding.Name, binding.Spec.SchemaHint, extracted); schemaErr == nil {
				status := artifact.StatusOK
				if last.CompletionReason != turnrunner.ReasonNormal {
					status = artifact.StatusOK // partial text is still a usable payload
				}
				return last, extracted, status
			}
		}

		if attempt < s.Config.RepairAttempts {
			ux.RepairRetry(cycleIndex, binding.Name, attempt+1, s.Config.RepairAttempts)
			prompt = promptassembler.Assemble(promptassembler.Input{
				RoleName:        binding.Name,
				Spec:            binding.Spec,
				Goal:            s.Config.Goal,
				CycleIndex:      cycleIndex,
				IncomingPayload: incoming,
				IsRepair:        true,
			})
		}
	}

	excerpt := last.AssistantText
	if len(excerpt) > 2048 {
		excerpt = excerpt[:2048]
	}
	return last, map[string]any{
		"error":       "json_parse_failed",
		"raw_excerpt": excerpt,
	}, artifact.StatusJSONFailed
}

func (s *Scheduler) timeoutPolicy() timeoutresolver.Policy {
	sec := func(v float64) time.Duration { return time.Duration(v * float64(time.Second)) }
	return timeoutresolver.Policy{
		HandshakeTimeout: sec(s.Config.HandshakeS),
		DefaultIdle:      sec(s.Config.IdleDefaultS),
		DefaultOverall:   sec(s.Config.OverallDefaultS),
		PlannerIdle:      sec(s.Config.IdlePlannerS),
		PlannerOverall:   sec(s.Config.OverallPlannerS),
	}
}

func toProposals(raw []map[string]any) []fileapply.Proposal {
	out := make([]fileapply.Proposal, 0, len(raw))
	for _, m := range raw {
		path, _ := m["path"].(string)
		content, _ := m["content"].(string)
		out = append(out, fileapply.Proposal{Path: path, Content: content})
	}
	return out
}

// mergeFenceBlocks supplements the JSON files[] proposals with any
// file=-annotated fenced code blocks found in the raw assistant text — a
// fallback path for roles that describe a file inline instead of through
// the files[] array. JSON-sourced proposals win on a path collision.
func mergeFenceBlocks(proposals []fileapply.Proposal, assistantText string) []fileapply.Proposal {
	seen := make(map[string]bool, len(proposals))
	for _, p := range proposals {
		seen[p.Path] = true
	}
	for _, block := range fileblocks.Parse(assistantText) {
		if seen[block.Path] {
			continue
		}
		seen[block.Path] = true
		proposals = append(proposals, fileapply.Proposal{Path: block.Path, Content: block.Content})
	}
	return proposals
}
