package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/LegionFenix/The-TGAM1-Data-Collector/internal/metrics"
	"github.com/LegionFenix/The-TGAM1-Data-Collector/internal/rowio"
	"github.com/LegionFenix/The-TGAM1-Data-Collector/internal/sample"
	"github.com/LegionFenix/The-TGAM1-Data-Collector/internal/thinkgear"
)

// runRecord wires the live path end to end: serial transport -> frame
// decoder -> payload parser -> sample aggregator -> row sink + live status
// hub, then blocks until SIGINT/SIGTERM.
func runRecord(cfg *Config, l *slog.Logger) error {
	h := initHub(cfg, l)

	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	sink := rowio.NewSink(f)
	defer sink.Close()

	agg := sample.NewAggregator(sink, h)
	dec := thinkgear.NewDecoder(func(payload []byte) {
		_ = thinkgear.ParsePayload(payload, thinkgear.HandlerFunc(agg.Handle))
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var wg sync.WaitGroup

	startMetricsLogger(ctx, cfg.LogMetricsInterval, l, &wg)

	closeSerial, err := runSerialRX(ctx, cfg, dec, l, &wg)
	if err != nil {
		return fmt.Errorf("open serial: %w", err)
	}

	serialReady := true
	metrics.SetReadinessFunc(func() bool {
		return serialReady && ctx.Err() == nil
	})

	var metricsSrv, statusSrv *http.Server
	if cfg.MetricsAddr != "" {
		metrics.InitBuildInfo(version, commit, date)
		metricsSrv = metrics.StartHTTP(cfg.MetricsAddr)
	}
	if cfg.StatusAddr != "" {
		statusSrv = startStatusHTTP(cfg.StatusAddr, agg, l)
	}

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigCh
	l.Info("shutdown_signal", "signal", s.String())

	cancel()
	closeSerial()
	wg.Wait()

	if metricsSrv != nil {
		_ = metricsSrv.Shutdown(context.Background())
	}
	if statusSrv != nil {
		_ = statusSrv.Shutdown(context.Background())
	}
	return nil
}

func initHub(cfg *Config, l *slog.Logger) *sample.Hub {
	h := sample.NewHub()
	h.OutBufSize = cfg.HubBuffer
	switch cfg.HubPolicy {
	case "drop":
		h.Policy = sample.PolicyDrop
	case "kick":
		h.Policy = sample.PolicyKick
	default:
		l.Warn("unknown_hub_policy", "policy", cfg.HubPolicy, "used", "drop")
		h.Policy = sample.PolicyDrop
	}
	l.Info("build_info", "version", version, "commit", commit, "date", date)
	l.Info("hub_config", "policy", cfg.HubPolicy, "buffer", h.OutBufSize)
	return h
}
