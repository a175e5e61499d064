package worker

// recalc_cron.go
// Background goroutine that periodically recomputes cash snapshots flagged
// stale by the sync writers. Keeps dashboards close to fresh even when no
// reader forces a recalculation.

import (
	"context"
	"time"

	"syapos/internal/repository"

	"github.com/rs/zerolog/log"
)

const (
	recalcTickInterval = 30 * time.Second
	recalcBatchSize    = 10
)

// RecalcCronConfig holds the dependencies for the snapshot sweep. Recompute
// is satisfied by the snapshot service.
type RecalcCronConfig struct {
	Snapshots repository.SnapshotRepository
	Recompute func(ctx context.Context, shiftID int64) error
}

// StartRecalcCron launches a goroutine that ticks every 30s and recomputes a
// batch of stale snapshots, oldest first. It respects the context for
// graceful shutdown.
func StartRecalcCron(ctx context.Context, cfg RecalcCronConfig) {
	go func() {
		ticker := time.NewTicker(recalcTickInterval)
		defer ticker.Stop()

		log.Info().Msg("recalc_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("recalc_cron: shutting down")
				return
			case <-ticker.C:
				processStaleSnapshots(ctx, cfg)
			}
		}
	}()
}

func processStaleSnapshots(ctx context.Context, cfg RecalcCronConfig) {
	snaps, err := cfg.Snapshots.ListStale(ctx, recalcBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("recalc_cron: stale query failed")
		return
	}
	if len(snaps) == 0 {
		return
	}

	log.Debug().Int("count", len(snaps)).Msg("recalc_cron: recomputing stale snapshots")
	for i := range snaps {
		if err := cfg.Recompute(ctx, snaps[i].ShiftID); err != nil {
			log.Warn().Err(err).Int64("shift_id", snaps[i].ShiftID).Msg("recalc_cron: recompute failed")
		}
	}
}
