package rolecatalog

import "os"

// ModelInfo names one resolvable model id and the default role it best
// serves when a RoleSpec leaves Model empty.
type ModelInfo struct {
	ID          string
	DefaultRole string
}

// defaultModels is the built-in catalogue consulted when a role spec's
// Model field is empty. Role names are free text matched against
// RoleBinding.Name; "planner" and "architect" map to the flagship model,
// everything else to the balanced model.
var defaultModels = map[string]string{
	"planner":   "claude-opus-4-5-20251101",
	"architect": "claude-opus-4-5-20251101",
	"default":   "claude-sonnet-4-5-20250929",
}

// resolveModel returns the model id a role should use: an explicit
// per-role environment override (via ModelEnv), else the spec's own Model
// field, else the catalogue default for the role name.
func resolveModel(roleName string, spec RoleSpec) string {
	if spec.ModelEnv != "" {
		if v := os.Getenv(spec.ModelEnv); v != "" {
			return v
		}
	}
	if spec.Model != "" {
		return spec.Model
	}
	if m, ok := defaultModels[roleName]; ok {
		return m
	}
	return defaultModels["default"]
}

// applyModelDefaults resolves RoleSpec.Model for every binding: an
// explicit ModelEnv override always wins, even over a model already set
// in YAML, else the spec's own Model field is left as-is, else the
// catalogue default for the role name is filled in.
func applyModelDefaults(cfg *RunConfig) {
	for i := range cfg.RoleBindings {
		rb := &cfg.RoleBindings[i]
		rb.Spec.Model = resolveModel(rb.Name, rb.Spec)
	}
}
