package scheduler

import (
	"context"
	"time"

	applog "pricewatch/internal/log"
	"pricewatch/internal/services"
)

// Run triggers a full catalog sync on a fixed interval and blocks
// until ctx is cancelled. One pass runs immediately at start.
func Run(ctx context.Context, batch *services.BatchService, interval time.Duration) {
	if interval <= 0 {
		return
	}

	applog.Info(nil, "scheduler.start", map[string]any{"interval": interval.String()})

	runOnce(ctx, batch)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			applog.Info(nil, "scheduler.stop", nil)
			return
		case <-ticker.C:
			runOnce(ctx, batch)
		}
	}
}

func runOnce(ctx context.Context, batch *services.BatchService) {
	summary, err := batch.SyncAll(ctx)
	if err != nil {
		applog.Error(nil, "scheduler.run.fail", err, nil)
		return
	}
	applog.Info(nil, "scheduler.run.done", map[string]any{
		"total": summary.TotalProducts, "ok": summary.SuccessCount, "err": summary.ErrorCount,
	})
}
