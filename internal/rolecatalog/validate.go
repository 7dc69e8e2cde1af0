package rolecatalog

import "fmt"

// Validate checks a RunConfig for errors and fills in timeout/cycle
// defaults. It is the single ConfigError source: failing here must happen
// before any transport starts.
func Validate(cfg *RunConfig) error {
	if cfg.Goal == "" {
		return fmt.Errorf("rolecatalog: 'goal' is required")
	}
	if cfg.Cycles <= 0 {
		cfg.Cycles = 1
	}
	if cfg.RepairAttempts < 0 {
		return fmt.Errorf("rolecatalog: 'repair-attempts' must be >= 0")
	}
	if len(cfg.RoleBindings) == 0 {
		return fmt.Errorf("rolecatalog: at least one role binding is required")
	}
	if cfg.WorkspaceRoot == "" {
		cfg.WorkspaceRoot = "."
	}
	if cfg.RunsRoot == "" {
		cfg.RunsRoot = "./.runs"
	}
	if cfg.AssistantBinary.Name == "" {
		return fmt.Errorf("rolecatalog: 'assistant-binary.name' is required")
	}
	if cfg.RunTests && len(cfg.TestCommand) == 0 {
		return fmt.Errorf("rolecatalog: 'test-command' is required when 'run-tests' is true")
	}

	applyTimeoutDefaults(cfg)
	if err := validateTimeouts(cfg.TimeoutConfig); err != nil {
		return err
	}

	seen := make(map[string]bool, len(cfg.RoleBindings))
	for i := range cfg.RoleBindings {
		rb := &cfg.RoleBindings[i]
		if rb.Name == "" {
			return fmt.Errorf("rolecatalog: role binding %d: 'name' is required", i+1)
		}
		if seen[rb.Name] {
			return fmt.Errorf("rolecatalog: duplicate role binding name %q", rb.Name)
		}
		seen[rb.Name] = true

		switch rb.Spec.Behaviors.TimeoutPolicy {
		case "", "planner", "default":
		default:
			return fmt.Errorf("rolecatalog: role %q: unknown timeout-policy %q (must be \"planner\" or \"default\")", rb.Name, rb.Spec.Behaviors.TimeoutPolicy)
		}
	}

	for _, ext := range cfg.AllowedFileExtensions {
		if ext == "" {
			return fmt.Errorf("rolecatalog: 'allowed-file-extensions' entries must be non-empty")
		}
	}

	return nil
}

func applyTimeoutDefaults(cfg *RunConfig) {
	if cfg.HandshakeS <= 0 {
		cfg.HandshakeS = 15
	}
	if cfg.IdleDefaultS <= 0 {
		cfg.IdleDefaultS = 30
	}
	if cfg.OverallDefaultS <= 0 {
		cfg.OverallDefaultS = 300
	}
	if cfg.IdlePlannerS <= 0 {
		cfg.IdlePlannerS = 60
	}
	if cfg.OverallPlannerS <= 0 {
		cfg.OverallPlannerS = 600
	}
}

func validateTimeouts(t TimeoutConfig) error {
	const maxBound = 3600
	if t.IdleDefaultS < 1 || t.IdleDefaultS > t.OverallDefaultS || t.OverallDefaultS > maxBound {
		return fmt.Errorf("rolecatalog: default timeouts must satisfy 1 <= idle <= overall <= %d", maxBound)
	}
	if t.IdlePlannerS < 1 || t.IdlePlannerS > t.OverallPlannerS || t.OverallPlannerS > maxBound {
		return fmt.Errorf("rolecatalog: planner timeouts must satisfy 1 <= idle <= overall <= %d", maxBound)
	}
	return nil
}
