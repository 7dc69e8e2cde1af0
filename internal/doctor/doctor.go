// Package doctor gathers failure context from a run's on-disk artifacts
// and sends it to a one-shot claude invocation for diagnosis.
package doctor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/jbarreto/orcctl/internal/artifact"
	"github.com/jbarreto/orcctl/internal/ux"
)

const maxTextChars = 8000

const diagPrompt = `You are diagnosing a failed multi-role orchestration run. Analyze the context below and provide a concise diagnosis.

## Failed Turn
%s

## Assistant Text (tail)
%s

## Applied/Rejected Files
%s
Instructions:
1. Identify what went wrong: transport failure, idle/overall timeout, or JSON extraction exhaustion.
2. Classify this as a ROLE CONFIG problem (timeout policy, schema hint, prompt flags) or an ASSISTANT BEHAVIOR problem (the subprocess itself misbehaved).
3. Suggest specific fixes to the role catalogue.
4. Recommend the next command to run:
   - orcctl run <config>   (start a fresh run)
   - orcctl status <runs-root> <run-id> (inspect full history first)

Be direct and concise. Focus on actionable advice.`

// Run diagnoses the most recent failing turn recorded in state, using the
// run directory's on-disk artifacts as context for a one-shot claude call.
func Run(ctx context.Context, runDir string, state *artifact.ControllerState) error {
	rec, idx := lastFailedTurn(state)
	if idx == -1 {
		fmt.Println("No failed turn to diagnose.")
		return nil
	}

	turnDesc := fmt.Sprintf("Cycle: %d\nRole: %s\nStatus: %s\nApplied files: %d",
		rec.CycleIndex, rec.RoleName, rec.Status, rec.AppliedFilesCount)

	assistantText := gatherAssistantText(rec.ArtifactDir)
	filesSummary := gatherFilesSummary(rec.ArtifactDir)

	diagText := fmt.Sprintf(diagPrompt, turnDesc, assistantText, filesSummary)

	fmt.Printf("\n%s%s══ Doctor: diagnosing cycle %d · %s ══%s\n\n",
		ux.Bold, ux.Cyan, rec.CycleIndex, rec.RoleName, ux.Reset)

	if err := runClaude(ctx, diagText); err != nil {
		return fmt.Errorf("doctor: running claude: %w", err)
	}

	fmt.Println()
	ux.ResumeHint(state.RunID)
	return nil
}

// lastFailedTurn returns the most recent non-ok TurnRecord and its index,
// or (_, -1) if every recorded turn succeeded.
func lastFailedTurn(state *artifact.ControllerState) (artifact.TurnRecord, int) {
	for i := len(state.History) - 1; i >= 0; i-- {
		if state.History[i].Status != artifact.StatusOK {
			return state.History[i], i
		}
	}
	return artifact.TurnRecord{}, -1
}

func gatherAssistantText(artifactDir string) string {
	if artifactDir == "" {
		return "(no artifact directory recorded for this turn)"
	}
	data, err := os.ReadFile(filepath.Join(artifactDir, "assistant_text.txt"))
	if err != nil {
		return "(no assistant_text.txt found)"
	}
	text := string(data)
	if len(text) > maxTextChars {
		text = "...(truncated)\n" + text[len(text)-maxTextChars:]
	}
	return text
}

func gatherFilesSummary(artifactDir string) string {
	if artifactDir == "" {
		return "(none)"
	}
	var parts []string
	for _, name := range []string{"applied_files.json", "rejected_files.json"} {
		data, err := os.ReadFile(filepath.Join(artifactDir, name))
		if err != nil {
			continue
		}
		parts = append(parts, fmt.Sprintf("--- %s ---\n%s", name, string(data)))
	}
	if len(parts) == 0 {
		return "(none)"
	}
	return strings.Join(parts, "\n")
}

func filteredEnv() []string {
	var env []string
	for _, e := range os.Environ() {
		key := strings.SplitN(e, "=", 2)[0]
		if strings.HasPrefix(key, "CLAUDECODE") {
			continue
		}
		env = append(env, e)
	}
	return env
}

func runClaude(ctx context.Context, prompt string) error {
	cmd := exec.CommandContext(ctx, "claude", "-p", prompt, "--model", "sonnet")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = filteredEnv()
	return cmd.Run()
}
