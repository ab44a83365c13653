package main

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/LegionFenix/The-TGAM1-Data-Collector/internal/metrics"
)

func startMetricsLogger(ctx context.Context, interval time.Duration, l *slog.Logger, wg *sync.WaitGroup) {
	if interval <= 0 {
		return
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				snap := metrics.Snap()
				l.Info("metrics_snapshot",
					"frames_decoded", snap.FramesDecoded,
					"malformed_frames", snap.Malformed,
					"unknown_codes", snap.UnknownCodes,
					"rows_emitted", snap.RowsEmitted,
					"rows_dropped", snap.RowsDropped,
					"rows_skipped", snap.RowsSkipped,
					"edf_conversions", snap.EDFConversions,
					"edf_conversion_failures", snap.EDFFailures,
					"hub_drops", snap.HubDrops,
					"hub_kicks", snap.HubKicks,
					"hub_subscribers", snap.HubSubscribers,
					"errors", snap.Errors,
				)
			case <-ctx.Done():
				return
			}
		}
	}()
}
