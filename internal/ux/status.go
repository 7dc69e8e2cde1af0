package ux

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jbarreto/orcctl/internal/artifact"
)

// RenderStatus prints the full status display for a run: header,
// per-role history, and the on-disk artifact tree under runDir.
func RenderStatus(cfg *artifact.ControllerState, runDir string) {
	fmt.Printf("%sRun:%s      %s\n", Bold, Reset, cfg.RunID)
	fmt.Printf("%sGoal:%s     %s\n", Bold, Reset, cfg.Goal)
	if cfg.StopRequested {
		fmt.Printf("%sState:%s    %s%sfinished%s (after %d cycle(s))\n",
			Bold, Reset, Green, Bold, Reset, cfg.CyclesCompleted)
	} else {
		fmt.Printf("%sState:%s    %s%sin progress%s (%d cycle(s) completed)\n",
			Bold, Reset, Yellow, Bold, Reset, cfg.CyclesCompleted)
	}

	if len(cfg.History) > 0 {
		fmt.Printf("\n%sHistory:%s\n", Bold, Reset)
		for _, rec := range cfg.History {
			color := Green
			if rec.Status != artifact.StatusOK {
				color = Yellow
			}
			dur := rec.FinishedAt.Sub(rec.StartedAt)
			fmt.Printf("  %scycle %d%s  %-16s %s%s%s  %dm%02ds  %d file(s)\n",
				Dim, rec.CycleIndex, Reset, rec.RoleName, color, rec.Status, Reset,
				int(dur.Minutes()), int(dur.Seconds())%60, rec.AppliedFilesCount)
		}
	}

	fmt.Printf("\n%sArtifacts:%s\n", Bold, Reset)
	cyclesDir := filepath.Join(runDir, "cycles")
	entries, err := os.ReadDir(cyclesDir)
	if err != nil || len(entries) == 0 {
		fmt.Printf("  %s(none)%s\n", Dim, Reset)
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			fmt.Printf("  %s/%s\n", cyclesDir, e.Name())
		}
	}
	fmt.Println()
}
