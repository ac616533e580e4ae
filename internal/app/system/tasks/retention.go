// internal/app/system/tasks/retention.go

package tasks

import (
	"context"
	"time"

	"github.com/lumenarts/lumenhub/internal/app/system/timeouts"
	"github.com/lumenarts/lumenhub/internal/app/system/trash"
)

// RetentionSweepJob purges soft-deleted content that has aged past the
// retention window. It runs daily; the sweep itself is idempotent, so an
// overlapping external trigger through the cleanup endpoint is harmless.
func RetentionSweepJob(svc *trash.Service) Job {
	return Job{
		Name:     "retention-sweep",
		Interval: 24 * time.Hour,
		Run: func(ctx context.Context) error {
			sctx, cancel := context.WithTimeout(ctx, timeouts.Sweep())
			defer cancel()
			_, err := svc.Sweep(sctx)
			return err
		},
	}
}
