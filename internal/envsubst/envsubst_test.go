package envsubst

import (
	"slices"
	"strings"
	"testing"
)

func TestBuildEnv_StripsClaudeCodeVars(t *testing.T) {
	base := []string{"CLAUDECODE=1", "CLAUDECODE_SESSION=abc", "PATH=/usr/bin"}
	env := BuildEnv(base, RunContext{RunID: "run-1"})

	for _, e := range env {
		if strings.HasPrefix(e, "CLAUDECODE") {
			t.Errorf("expected CLAUDECODE* to be stripped, found %q", e)
		}
	}
	if !slices.Contains(env, "PATH=/usr/bin") {
		t.Error("expected unrelated vars to be preserved")
	}
}

func TestBuildEnv_InjectsRunContextVars(t *testing.T) {
	env := BuildEnv(nil, RunContext{
		RunID:         "run-1",
		RoleName:      "planner",
		CycleIndex:    3,
		WorkspaceRoot: "/workspace",
	})

	want := []string{
		"ORCCTL_RUN_ID=run-1",
		"ORCCTL_ROLE=planner",
		"ORCCTL_CYCLE_INDEX=3",
		"ORCCTL_WORKSPACE_ROOT=/workspace",
	}
	for _, w := range want {
		if !slices.Contains(env, w) {
			t.Errorf("missing expected entry %q in %v", w, env)
		}
	}
}

func TestExpand_PrefersSuppliedVarsOverEnvironment(t *testing.T) {
	t.Setenv("ORCCTL_TEST_VAR", "from-environment")
	got := Expand("value is $ORCCTL_TEST_VAR", map[string]string{"ORCCTL_TEST_VAR": "from-vars"})
	if got != "value is from-vars" {
		t.Errorf("Expand() = %q", got)
	}
}

func TestExpand_FallsBackToProcessEnvironment(t *testing.T) {
	t.Setenv("ORCCTL_TEST_VAR2", "from-environment")
	got := Expand("value is $ORCCTL_TEST_VAR2", nil)
	if got != "value is from-environment" {
		t.Errorf("Expand() = %q", got)
	}
}

func TestExpand_UnknownVarExpandsEmpty(t *testing.T) {
	got := Expand("value is ${ORCCTL_DOES_NOT_EXIST}", nil)
	if got != "value is " {
		t.Errorf("Expand() = %q", got)
	}
}
