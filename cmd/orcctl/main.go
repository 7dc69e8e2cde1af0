package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jbarreto/orcctl/internal/artifact"
	"github.com/jbarreto/orcctl/internal/doctor"
	"github.com/jbarreto/orcctl/internal/docs"
	"github.com/jbarreto/orcctl/internal/envsubst"
	"github.com/jbarreto/orcctl/internal/rolecatalog"
	"github.com/jbarreto/orcctl/internal/scaffold"
	"github.com/jbarreto/orcctl/internal/scheduler"
	"github.com/jbarreto/orcctl/internal/transport"
	"github.com/jbarreto/orcctl/internal/turnrunner"
	"github.com/jbarreto/orcctl/internal/ux"
	cli "github.com/urfave/cli/v3"
)

// exitCodeErr carries a specific process exit code through app.Run's
// generic error return. Configuration problems exit 2; everything else
// that reaches main as an error exits 1.
type exitCodeErr struct {
	code int
	err  error
}

func (e *exitCodeErr) Error() string { return e.err.Error() }
func (e *exitCodeErr) Unwrap() error { return e.err }

func configErr(err error) error {
	return &exitCodeErr{code: 2, err: err}
}

func main() {
	app := &cli.Command{
		Name:        "orcctl",
		Usage:       "Multi-role AI orchestrator",
		Description: "Run 'orcctl docs' for documentation on the role catalogue, wire protocol, and more.",
		Commands: []*cli.Command{
			initCmd(),
			runCmd(),
			statusCmd(),
			doctorCmd(),
			docsCmd(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%serror:%s %v\n", ux.Red, ux.Reset, err)
		code := 1
		var ec *exitCodeErr
		if errors.As(err, &ec) {
			code = ec.code
		}
		os.Exit(code)
	}
}

func runCmd() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Run a role catalogue to completion",
		ArgsUsage: "[config.yaml]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "Path to the role catalogue YAML (alternative to the positional arg)"},
			&cli.StringFlag{Name: "goal", Usage: "Override the configured goal"},
			&cli.IntFlag{Name: "cycles", Usage: "Override the configured cycle budget"},
			&cli.StringFlag{Name: "model", Usage: "Override every role's model"},
			&cli.IntFlag{Name: "from-cycle", Usage: "Resume from this cycle index instead of re-seeding the goal payload"},
			&cli.StringFlag{Name: "from-role", Usage: "Resume from this role within --from-cycle (requires --from-cycle)"},
			&cli.BoolFlag{Name: "dry-run", Usage: "Print the cycle/role plan without starting any transport"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			// orcctl must never run nested inside the very kind of session
			// it is orchestrating — the CLAUDECODE guard mirrors the
			// ambient convention every role's subprocess environment also
			// enforces via envsubst.BuildEnv.
			if os.Getenv("CLAUDECODE") != "" {
				return configErr(fmt.Errorf("orcctl cannot run inside Claude Code (CLAUDECODE env var is set). Run from a regular terminal"))
			}

			configPath := cmd.String("config")
			if configPath == "" {
				configPath = cmd.Args().First()
			}
			if configPath == "" {
				return configErr(fmt.Errorf("config path is required (--config or a positional argument)"))
			}

			cfg, err := rolecatalog.Load(configPath)
			if err != nil {
				return configErr(fmt.Errorf("loading config: %w", err))
			}

			if v := cmd.String("goal"); v != "" {
				cfg.Goal = v
			}
			if v := cmd.Int("cycles"); v != 0 {
				cfg.Cycles = int(v)
			}
			if v := cmd.String("model"); v != "" {
				for i := range cfg.RoleBindings {
					cfg.RoleBindings[i].Spec.Model = v
				}
			}
			if err := rolecatalog.Validate(cfg); err != nil {
				return configErr(fmt.Errorf("validating config after CLI overrides: %w", err))
			}

			fromRole := cmd.String("from-role")
			fromCycle := int(cmd.Int("from-cycle"))
			if fromRole != "" && fromCycle == 0 {
				return configErr(fmt.Errorf("--from-role requires --from-cycle"))
			}
			if fromCycle > 0 && cfg.RoleIndex(fromRole) < 0 && fromRole != "" {
				return configErr(fmt.Errorf("--from-role %q is not a configured role", fromRole))
			}

			runID := scheduler.NewRunID(time.Now())
			store, err := artifact.New(cfg.RunsRoot, runID)
			if err != nil {
				return fmt.Errorf("creating run directory: %w", err)
			}

			bindings, err := buildBindings(cfg, store, runID)
			if err != nil {
				return err
			}

			if cmd.Bool("dry-run") {
				printPlan(cfg)
				return nil
			}

			sched := scheduler.New(cfg, store, bindings)
			if fromCycle > 0 {
				sched.Resume = &scheduler.ResumePoint{Cycle: fromCycle, Role: fromRole}
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
			defer stop()

			fmt.Printf("%sRun:%s %s\n", ux.Bold, ux.Reset, runID)
			if err := sched.Run(ctx, runID); err != nil {
				return fmt.Errorf("running: %w", err)
			}

			final, err := store.ReadControllerState()
			if err != nil {
				return fmt.Errorf("reading final state: %w", err)
			}
			if final.StopRequested {
				ux.Success(final.CyclesCompleted)
				return nil
			}
			ux.Aborted(final.CyclesCompleted, "cycle budget exhausted without a finishing role")
			return fmt.Errorf("run aborted: cycle budget exhausted without a finishing role")
		},
	}
}

// printPlan renders the cycle/role sequence a run would execute, for
// --dry-run inspection without starting any subprocess.
func printPlan(cfg *rolecatalog.RunConfig) {
	fmt.Printf("%sGoal:%s %s\n", ux.Bold, ux.Reset, cfg.Goal)
	for cycle := 1; cycle <= cfg.Cycles; cycle++ {
		fmt.Printf("%sCycle %d%s\n", ux.Bold, cycle, ux.Reset)
		for _, rb := range cfg.RoleBindings {
			fmt.Printf("  %d. %s (model=%s, can-finish=%t)\n", cfg.RoleIndex(rb.Name)+1, rb.Name, rb.Spec.Model, rb.Spec.Behaviors.CanFinish)
		}
	}
}

// buildBindings constructs one Transport (not yet started) per role
// binding, in catalogue declaration order.
func buildBindings(cfg *rolecatalog.RunConfig, store *artifact.Store, runID string) ([]*turnrunner.RoleBinding, error) {
	bindings := make([]*turnrunner.RoleBinding, 0, len(cfg.RoleBindings))
	for _, rb := range cfg.RoleBindings {
		env := envsubst.BuildEnv(os.Environ(), envsubst.RunContext{
			RunID:         runID,
			RoleName:      rb.Name,
			CycleIndex:    1,
			WorkspaceRoot: cfg.WorkspaceRoot,
		})

		t := transport.New(transport.Options{
			BinaryName:    cfg.AssistantBinary.Name,
			FallbackPaths: cfg.AssistantBinary.FallbackPaths,
			WorkDir:       cfg.WorkspaceRoot,
			Env:           env,
			StderrLogPath: filepath.Join(store.RunDir(), "cycles", "0", rb.Name, "stderr.log"),
		})

		bindings = append(bindings, &turnrunner.RoleBinding{
			Name:      rb.Name,
			Spec:      rb.Spec,
			Transport: t,
		})
	}
	return bindings, nil
}

func statusCmd() *cli.Command {
	return &cli.Command{
		Name:      "status",
		Usage:     "Show run status",
		ArgsUsage: "<runs-root> <run-id>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			runsRoot := cmd.Args().Get(0)
			runID := cmd.Args().Get(1)
			if runsRoot == "" || runID == "" {
				return fmt.Errorf("usage: orcctl status <runs-root> <run-id>")
			}

			store, err := artifact.New(runsRoot, runID)
			if err != nil {
				return fmt.Errorf("opening run directory: %w", err)
			}
			state, err := store.ReadControllerState()
			if err != nil {
				return fmt.Errorf("reading controller state: %w", err)
			}

			ux.RenderStatus(state, store.RunDir())
			return nil
		},
	}
}

func doctorCmd() *cli.Command {
	return &cli.Command{
		Name:      "doctor",
		Usage:     "Diagnose the most recent failed turn in a run, using AI",
		ArgsUsage: "<runs-root> <run-id>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			runsRoot := cmd.Args().Get(0)
			runID := cmd.Args().Get(1)
			if runsRoot == "" || runID == "" {
				return fmt.Errorf("usage: orcctl doctor <runs-root> <run-id>")
			}

			store, err := artifact.New(runsRoot, runID)
			if err != nil {
				return fmt.Errorf("opening run directory: %w", err)
			}
			state, err := store.ReadControllerState()
			if err != nil {
				return fmt.Errorf("reading controller state: %w", err)
			}

			return doctor.Run(ctx, store.RunDir(), state)
		},
	}
}

func initCmd() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Initialize a new .orcctl/ directory with an example role catalogue",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir, err := os.Getwd()
			if err != nil {
				return err
			}
			return scaffold.Init(dir)
		},
	}
}

func docsCmd() *cli.Command {
	return &cli.Command{
		Name:      "docs",
		Usage:     "Show documentation",
		ArgsUsage: "[topic]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			name := cmd.Args().First()
			if name == "" {
				fmt.Print("\nAvailable topics:\n\n")
				for _, t := range docs.All() {
					fmt.Printf("  %-14s %s\n", t.Name, t.Summary)
				}
				fmt.Println("\nRun 'orcctl docs <topic>' to read a topic.")
				return nil
			}
			t, err := docs.Get(name)
			if err != nil {
				return err
			}
			fmt.Print(t.Content)
			return nil
		},
	}
}
