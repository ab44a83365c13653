// Package rowio persists decoded EEG samples as a delimited text log and
// reads them back, typed, for offline conversion.
package rowio

import "time"

// TimestampLayout is the on-disk timestamp format: YYYY-MM-DD HH:MM:SS.fff.
const TimestampLayout = "2006-01-02 15:04:05.000"

// Header is the first line written to every row file.
var Header = []string{
	"Timestamp", "Attention", "Meditation", "PoorSignal", "RawWave", "SignalQuality",
	"Delta", "Theta", "LowAlpha", "HighAlpha", "LowBeta", "HighBeta", "LowGamma", "MidGamma",
}

// Row is one persisted Sample: an ordered tuple mirroring the Sample schema.
type Row struct {
	Timestamp     time.Time
	Attention     int
	Meditation    int
	PoorSignal    int
	RawWave       int
	SignalQuality int
	Delta         int64
	Theta         int64
	LowAlpha      int64
	HighAlpha     int64
	LowBeta       int64
	HighBeta      int64
	LowGamma      int64
	MidGamma      int64
}

// Bands returns the eight spectral band powers in protocol order.
func (r Row) Bands() [8]int64 {
	return [8]int64{r.Delta, r.Theta, r.LowAlpha, r.HighAlpha, r.LowBeta, r.HighBeta, r.LowGamma, r.MidGamma}
}
