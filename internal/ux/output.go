package ux

import (
	"fmt"
	"strings"
	"time"
)

// ANSI color helpers
const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Dim    = "\033[2m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Cyan   = "\033[36m"
)

func timestamp() string {
	return time.Now().Format("15:04:05")
}

// CycleHeader prints a timestamped header marking the start of a cycle.
func CycleHeader(index, total int) {
	fmt.Printf("\n%s[%s]%s %s══════════════════════════════════════%s\n",
		Dim, timestamp(), Reset, Cyan, Reset)
	fmt.Printf("%s[%s]%s  %sCycle %d/%d%s\n",
		Dim, timestamp(), Reset, Bold, index, total, Reset)
	fmt.Printf("%s[%s]%s %s══════════════════════════════════════%s\n",
		Dim, timestamp(), Reset, Cyan, Reset)
}

// RoleStart prints a role-turn start line.
func RoleStart(cycleIndex int, roleName string) {
	fmt.Printf("%s[%s]%s  %s▶ cycle %d · %s%s\n",
		Dim, timestamp(), Reset, Cyan, cycleIndex, roleName, Reset)
}

// RoleDone prints a role-turn completion line.
func RoleDone(cycleIndex int, roleName, status string, duration time.Duration) {
	m := int(duration.Minutes())
	s := int(duration.Seconds()) % 60
	color := Green
	mark := "✓"
	if status != "ok" {
		color = Yellow
		mark = "!"
	}
	fmt.Printf("%s[%s]%s  %s%s cycle %d · %s (%s, %dm %02ds)%s\n",
		Dim, timestamp(), Reset, color, mark, cycleIndex, roleName, status, m, s, Reset)
}

// RoleFail prints a role-turn failure line.
func RoleFail(cycleIndex int, roleName, status string) {
	fmt.Printf("%s[%s]%s  %s✗ cycle %d · %s failed: %s%s\n",
		Dim, timestamp(), Reset, Red, cycleIndex, roleName, status, Reset)
}

// RepairRetry prints a JSON-repair retry notice.
func RepairRetry(cycleIndex int, roleName string, attempt, max int) {
	fmt.Printf("%s[%s]%s  %s↺ cycle %d · %s: repairing JSON (attempt %d/%d)%s\n",
		Dim, timestamp(), Reset, Yellow, cycleIndex, roleName, attempt, max, Reset)
}

// ArtifactWriteFailed prints a non-fatal artifact persistence failure.
func ArtifactWriteFailed(cycleIndex int, roleName string, err error) {
	fmt.Printf("%s[%s]%s  %s⚠ cycle %d · %s: artifact write failed: %s%s\n",
		Dim, timestamp(), Reset, Yellow, cycleIndex, roleName, err, Reset)
}

// ResumeHint prints the status command that inspects the run's full
// history before it is resumed or re-run.
func ResumeHint(runID string) {
	fmt.Printf("\n%sInspect:%s orcctl status <runs-root> %s\n", Yellow, Reset, runID)
}

// ToolUse prints an inline tool call.
func ToolUse(name, input string) {
	summary := input
	if len(summary) > 80 {
		summary = summary[:77] + "..."
	}
	fmt.Printf("  %s⚡ %s%s %s\n", Cyan, name, Reset, summary)
}

// ToolDenied prints a denied tool call.
func ToolDenied(name, input string) {
	summary := input
	if len(summary) > 80 {
		summary = summary[:77] + "..."
	}
	fmt.Printf("  %s✗ %s(denied)%s %s\n", Red, name, Reset, summary)
}

// PermissionPrompt prints a permission denial prompt header.
func PermissionPrompt(tools []string) {
	fmt.Printf("\n  %s⚠ Tools denied: %s%s\n", Yellow, strings.Join(tools, ", "), Reset)
}

// Success prints a final run-completion message.
func Success(cyclesCompleted int) {
	fmt.Printf("\n%s[%s]%s  %s%s══ Run finished after %d cycle(s) ══%s\n\n",
		Dim, timestamp(), Reset, Bold, Green, cyclesCompleted, Reset)
}

// Aborted prints a final run-abort message.
func Aborted(cyclesCompleted int, reason string) {
	fmt.Printf("\n%s[%s]%s  %s%s══ Run aborted after %d cycle(s): %s ══%s\n\n",
		Dim, timestamp(), Reset, Bold, Red, cyclesCompleted, reason, Reset)
}
