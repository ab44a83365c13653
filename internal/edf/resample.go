package edf

import (
	"errors"
	"time"

	"github.com/LegionFenix/The-TGAM1-Data-Collector/internal/rowio"
)

// ErrNoRows is returned when there are no rows to resample (one of the
// configuration errors of §4.G/H; a zero-duration recording gets
// ErrZeroDuration instead).
var ErrNoRows = errors.New("edf: no rows to resample")

// ErrZeroDuration is returned when the recording spans no measurable time.
var ErrZeroDuration = errors.New("edf: recording has zero duration")

// Resample maps the asynchronous row timeline onto the fixed-rate EDF grid,
// filling each signal's Physical samples in place (scaling to digital values
// is the Scaler's job). signals must be in the order produced by
// BuildSignals. rawRate is the raw channel's declared sample rate in Hz.
//
// The recording spans one data record per integer second touched between
// the first and last row, inclusive of both endpoints.
func Resample(rows []rowio.Row, signals []Signal, rawRate float64) error {
	if len(rows) == 0 {
		return ErrNoRows
	}
	t0 := rows[0].Timestamp
	tN := rows[len(rows)-1].Timestamp
	d := tN.Sub(t0).Seconds()
	if d <= 0 {
		return ErrZeroDuration
	}
	records := int(d) + 1

	signals[SignalRaw].Physical = resampleRaw(rows, records, rawRate)

	signals[SignalAttention].Physical = resample1Hz(rows, t0, records, func(r rowio.Row) float64 { return float64(r.Attention) })
	signals[SignalMeditation].Physical = resample1Hz(rows, t0, records, func(r rowio.Row) float64 { return float64(r.Meditation) })
	signals[SignalQuality].Physical = resample1Hz(rows, t0, records, func(r rowio.Row) float64 { return float64(r.SignalQuality) })

	bandSelectors := [8]func(rowio.Row) float64{
		func(r rowio.Row) float64 { return float64(r.Delta) },
		func(r rowio.Row) float64 { return float64(r.Theta) },
		func(r rowio.Row) float64 { return float64(r.LowAlpha) },
		func(r rowio.Row) float64 { return float64(r.HighAlpha) },
		func(r rowio.Row) float64 { return float64(r.LowBeta) },
		func(r rowio.Row) float64 { return float64(r.HighBeta) },
		func(r rowio.Row) float64 { return float64(r.LowGamma) },
		func(r rowio.Row) float64 { return float64(r.MidGamma) },
	}
	for i, sel := range bandSelectors {
		signals[SignalDelta+i].Physical = resample1Hz(rows, t0, records, sel)
	}

	return nil
}

// resampleRaw performs nearest-neighbour-by-index upsampling of the raw
// channel across records*rate grid points: not time-accurate, but it
// preserves the total recorded span (see design note on resampler
// fidelity).
func resampleRaw(rows []rowio.Row, records int, rate float64) []float64 {
	m := int(float64(records) * rate)
	if m <= 0 {
		return nil
	}
	out := make([]float64, m)
	n := len(rows)
	for i := 0; i < m; i++ {
		srcIdx := int((float64(i) / float64(m)) * float64(n))
		if srcIdx >= n {
			srcIdx = n - 1
		}
		out[i] = float64(rows[srcIdx].RawWave)
	}
	return out
}

// resample1Hz buckets rows into one-second windows centered on each integer
// second of the recording and averages sel over each window. Empty windows
// yield 0.
func resample1Hz(rows []rowio.Row, t0 time.Time, records int, sel func(rowio.Row) float64) []float64 {
	out := make([]float64, records)
	for s := 0; s < records; s++ {
		target := t0.Add(time.Duration(s) * time.Second)
		var sum float64
		var n int
		for _, row := range rows {
			delta := row.Timestamp.Sub(target).Seconds()
			if delta >= -0.5 && delta <= 0.5 {
				sum += sel(row)
				n++
			}
		}
		if n > 0 {
			out[s] = sum / float64(n)
		}
	}
	return out
}
