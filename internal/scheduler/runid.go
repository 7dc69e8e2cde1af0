package scheduler

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewRunID returns an opaque, lexicographically-sortable, timestamp-derived
// identifier unique per process start: <unix-ms>-<short-uuid>.
func NewRunID(now time.Time) string {
	return fmt.Sprintf("%013d-%s", now.UnixMilli(), uuid.New().String()[:8])
}
