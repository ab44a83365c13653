package edf

import "github.com/LegionFenix/The-TGAM1-Data-Collector/internal/rowio"

// Range is an inclusive [Min, Max] bound for one numeric channel.
type Range struct {
	Min, Max float64
}

// Ranges holds the per-channel min/max computed across a set of loaded rows.
type Ranges struct {
	Raw        Range
	Attention  Range
	Meditation Range
	Bands      [8]Range // Delta, Theta, LowAlpha, HighAlpha, LowBeta, HighBeta, LowGamma, MidGamma
}

// defaultRaw, defaultPct and defaultBand are the fallback bounds used when a
// channel has no observed data (an empty row set, or all-zero inputs still
// produce a degenerate but valid range from AnalyzeRanges — these defaults
// only apply to a genuinely empty row slice).
var (
	defaultRaw  = Range{Min: -500, Max: 500}
	defaultPct  = Range{Min: 0, Max: 100}
	defaultBand = Range{Min: 0, Max: 1000}
)

// AnalyzeRanges computes min/max for each numeric channel across rows. It is
// pure and deterministic. An empty rows slice yields the documented defaults
// for every channel.
func AnalyzeRanges(rows []rowio.Row) Ranges {
	if len(rows) == 0 {
		return Ranges{
			Raw:        defaultRaw,
			Attention:  defaultPct,
			Meditation: defaultPct,
			Bands:      [8]Range{defaultBand, defaultBand, defaultBand, defaultBand, defaultBand, defaultBand, defaultBand, defaultBand},
		}
	}

	r := Ranges{
		Raw:        Range{Min: float64(rows[0].RawWave), Max: float64(rows[0].RawWave)},
		Attention:  Range{Min: float64(rows[0].Attention), Max: float64(rows[0].Attention)},
		Meditation: Range{Min: float64(rows[0].Meditation), Max: float64(rows[0].Meditation)},
	}
	firstBands := rows[0].Bands()
	for i := range r.Bands {
		r.Bands[i] = Range{Min: float64(firstBands[i]), Max: float64(firstBands[i])}
	}

	for _, row := range rows[1:] {
		extend(&r.Raw, float64(row.RawWave))
		extend(&r.Attention, float64(row.Attention))
		extend(&r.Meditation, float64(row.Meditation))
		bands := row.Bands()
		for i, b := range bands {
			extend(&r.Bands[i], float64(b))
		}
	}
	return r
}

func extend(r *Range, v float64) {
	if v < r.Min {
		r.Min = v
	}
	if v > r.Max {
		r.Max = v
	}
}
