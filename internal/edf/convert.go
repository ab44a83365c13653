// Package edf analyses recorded rows, builds EDF signal descriptors,
// resamples them onto a fixed-rate grid, scales to digital values, and
// writes the byte-exact EDF 1985 file.
package edf

import (
	"fmt"
	"io"

	"github.com/LegionFenix/The-TGAM1-Data-Collector/internal/rowio"
)

// Options configures one offline conversion run.
type Options struct {
	DataRecordDuration float64 // seconds per EDF data record
	RawRate            float64 // declared raw channel rate, Hz
}

// Convert runs the full offline pipeline: range analysis, signal
// construction, resampling, scaling, and EDF emission. It returns a single
// aggregate error on any stage failure; no partial EDF is written on a
// configuration error (empty or zero-duration input).
func Convert(w io.Writer, rows []rowio.Row, opts Options) error {
	if len(rows) == 0 {
		return fmt.Errorf("edf: convert: %w", ErrNoRows)
	}

	ranges := AnalyzeRanges(rows)
	signals := BuildSignals(ranges, opts.DataRecordDuration, opts.RawRate)

	if err := Resample(rows, signals, opts.RawRate); err != nil {
		return fmt.Errorf("edf: convert: %w", err)
	}
	Scale(signals)

	start := rows[0].Timestamp
	if err := Write(w, signals, start, opts.DataRecordDuration); err != nil {
		return fmt.Errorf("edf: convert: %w", err)
	}
	return nil
}
