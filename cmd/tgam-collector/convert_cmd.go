package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/LegionFenix/The-TGAM1-Data-Collector/internal/edf"
	"github.com/LegionFenix/The-TGAM1-Data-Collector/internal/metrics"
	"github.com/LegionFenix/The-TGAM1-Data-Collector/internal/rowio"
)

// runConvert loads a row file and runs the offline pipeline (Range Analyser
// -> Signal Builder -> Resampler -> Scaler -> EDF Emitter), writing the
// resulting .edf file. No partial EDF is written on a configuration error.
func runConvert(cfg *Config, l *slog.Logger) error {
	in, err := os.Open(cfg.InputPath)
	if err != nil {
		metrics.IncEDFConversionFailure()
		return fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	rows, err := rowio.ReadAll(in)
	if err != nil {
		metrics.IncEDFConversionFailure()
		return fmt.Errorf("read rows: %w", err)
	}

	out, err := os.Create(cfg.OutputPath)
	if err != nil {
		metrics.IncEDFConversionFailure()
		return fmt.Errorf("create output: %w", err)
	}
	defer out.Close()

	opts := edf.Options{DataRecordDuration: cfg.DataRecordDuration, RawRate: cfg.RawRate}
	if err := edf.Convert(out, rows, opts); err != nil {
		metrics.IncEDFConversionFailure()
		metrics.IncError(metrics.ErrEDFWrite)
		_ = os.Remove(cfg.OutputPath)
		return fmt.Errorf("convert: %w", err)
	}

	metrics.IncEDFConversion()
	l.Info("edf_conversion_complete", "input", cfg.InputPath, "output", cfg.OutputPath, "rows", len(rows))
	return nil
}
