// Package envsubst builds the environment passed to each role's assistant
// subprocess: strip CLAUDECODE*-prefixed variables (this orchestrator must
// never appear, to itself, as running inside an interactive Claude Code
// session) and inject ORCCTL_*-prefixed identifiers for the current run.
package envsubst

import (
	"fmt"
	"os"
	"strings"
)

// RunContext names the per-role ORCCTL_* variables injected into the
// subprocess environment.
type RunContext struct {
	RunID         string
	RoleName      string
	CycleIndex    int
	WorkspaceRoot string
}

// BuildEnv returns a filtered copy of base with CLAUDECODE*-prefixed
// entries removed and ORCCTL_* entries for ctx appended.
func BuildEnv(base []string, ctx RunContext) []string {
	env := make([]string, 0, len(base)+4)
	for _, e := range base {
		key := strings.SplitN(e, "=", 2)[0]
		if strings.HasPrefix(key, "CLAUDECODE") {
			continue
		}
		env = append(env, e)
	}
	env = append(env,
		"ORCCTL_RUN_ID="+ctx.RunID,
		"ORCCTL_ROLE="+ctx.RoleName,
		fmt.Sprintf("ORCCTL_CYCLE_INDEX=%d", ctx.CycleIndex),
		"ORCCTL_WORKSPACE_ROOT="+ctx.WorkspaceRoot,
	)
	return env
}

// Expand substitutes $VAR/${VAR} references in template using vars first,
// falling back to the process environment.
func Expand(template string, vars map[string]string) string {
	return os.Expand(template, func(key string) string {
		if v, ok := vars[key]; ok {
			return v
		}
		return os.Getenv(key)
	})
}
