// Package rolecatalog defines the RoleSpec/RunConfig data carried by the
// YAML role catalogue, and validates it on load. Prompt template
// composition and the wire protocol itself are out of this package's
// scope; it only owns the configuration shape the scheduler consumes.
package rolecatalog

// PromptFlags gates which tool-invocation categories a role's approval
// policy may grant.
type PromptFlags struct {
	AllowTools           bool `yaml:"allow-tools"`
	AllowRead            bool `yaml:"allow-read"`
	AllowWrite           bool `yaml:"allow-write"`
	AllowFileSuggestions bool `yaml:"allow-file-suggestions"`
}

// Behaviors controls run-termination and timeout-policy semantics for a
// role.
type Behaviors struct {
	// TimeoutPolicy selects "planner" timeouts when set to that literal;
	// any other value (including empty) selects the default policy.
	TimeoutPolicy string `yaml:"timeout-policy"`
	// ApplyFiles gates whether FileApplicator inspects this role's payload.
	ApplyFiles bool `yaml:"apply-files"`
	// CanFinish gates whether a status=="DONE" payload from this role is
	// honoured as a run-termination signal.
	CanFinish bool `yaml:"can-finish"`
}

// RoleSpec is the catalogue entry for one role binding.
type RoleSpec struct {
	SystemInstructions     string      `yaml:"system-instructions"`
	SystemInstructionsFile string      `yaml:"system-instructions-file"`
	Model                  string      `yaml:"model"`
	ModelEnv               string      `yaml:"model-env"`
	ReasoningEffort        string      `yaml:"reasoning-effort"`
	PromptFlags            PromptFlags `yaml:"prompt-flags"`
	Behaviors              Behaviors   `yaml:"behaviors"`
	SchemaHint             string      `yaml:"schema-hint"`
	Skills                 []string    `yaml:"skills"`
}

// RoleBinding pairs a unique run-scoped name with its RoleSpec.
type RoleBinding struct {
	Name string   `yaml:"name"`
	Spec RoleSpec `yaml:"spec"`
}

// TimeoutConfig carries the default and planner timeout 3-tuples plus the
// shared handshake timeout, all in seconds as read from YAML.
type TimeoutConfig struct {
	HandshakeS      float64 `yaml:"handshake-timeout-s"`
	IdleDefaultS    float64 `yaml:"idle-timeout-default-s"`
	OverallDefaultS float64 `yaml:"overall-timeout-default-s"`
	IdlePlannerS    float64 `yaml:"idle-timeout-planner-s"`
	OverallPlannerS float64 `yaml:"overall-timeout-planner-s"`
}

// AssistantBinary names the child executable and its fallback search
// paths.
type AssistantBinary struct {
	Name          string   `yaml:"name"`
	FallbackPaths []string `yaml:"fallback-paths"`
}

// RunConfig is the top-level YAML document the scheduler consumes.
type RunConfig struct {
	Goal                  string   `yaml:"goal"`
	Cycles                int      `yaml:"cycles"`
	RunTests              bool     `yaml:"run-tests"`
	TestCommand           []string `yaml:"test-command"`
	RepairAttempts        int      `yaml:"repair-attempts"`
	TimeoutConfig         `yaml:",inline"`
	AllowedFileExtensions []string        `yaml:"allowed-file-extensions"`
	WorkspaceRoot         string          `yaml:"workspace-root"`
	RunsRoot              string          `yaml:"runs-root"`
	AssistantBinary       AssistantBinary `yaml:"assistant-binary"`
	RoleBindings          []RoleBinding   `yaml:"role-bindings"`
}

// RoleIndex returns the index of the named role binding, or -1 if absent.
func (c *RunConfig) RoleIndex(name string) int {
	for i, rb := range c.RoleBindings {
		if rb.Name == name {
			return i
		}
	}
	return -1
}
