// Package sample maintains the single "current Sample" accumulated from
// decoded ThinkGear data values, and fans out a snapshot to subscribers
// whenever a trigger value causes a row to be emitted.
package sample

import (
	"sync"
	"time"

	"github.com/LegionFenix/The-TGAM1-Data-Collector/internal/logging"
	"github.com/LegionFenix/The-TGAM1-Data-Collector/internal/metrics"
	"github.com/LegionFenix/The-TGAM1-Data-Collector/internal/rowio"
	"github.com/LegionFenix/The-TGAM1-Data-Collector/internal/thinkgear"
)

// Sample is the process-lifetime "current sample" accumulated from the
// stream. Each field is last-observed-since-start; the aggregator never
// invents values that haven't arrived yet.
type Sample struct {
	LastUpdate    time.Time
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

func (s Sample) toRow(ts time.Time) rowio.Row {
	return rowio.Row{
		Timestamp:     ts,
		Attention:     s.Attention,
		Meditation:    s.Meditation,
		PoorSignal:    s.PoorSignal,
		RawWave:       s.RawWave,
		SignalQuality: s.SignalQuality,
		Delta:         s.Delta,
		Theta:         s.Theta,
		LowAlpha:      s.LowAlpha,
		HighAlpha:     s.HighAlpha,
		LowBeta:       s.LowBeta,
		HighBeta:      s.HighBeta,
		LowGamma:      s.LowGamma,
		MidGamma:      s.MidGamma,
	}
}

// RowSink is whatever the aggregator appends emitted rows to (normally *rowio.Sink).
type RowSink interface {
	WriteRow(rowio.Row) error
}

// Aggregator encapsulates the shared mutable Sample behind a small,
// concurrency-safe API: producer-context handlers mutate it, control-context
// callers only ever observe a consistent snapshot copy, never the live
// fields directly.
type Aggregator struct {
	mu     sync.Mutex
	sample Sample

	sink RowSink
	hub  *Hub

	// now is overridable for deterministic tests.
	now func() time.Time
}

// NewAggregator constructs an Aggregator that writes emitted rows to sink and
// (if non-nil) publishes each emitted Sample snapshot to hub.
func NewAggregator(sink RowSink, hub *Hub) *Aggregator {
	return &Aggregator{sink: sink, hub: hub, now: time.Now}
}

// Snapshot returns a consistent copy of the current Sample, safe for
// concurrent callers in the control context.
func (a *Aggregator) Snapshot() Sample {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sample
}

// Handle implements thinkgear.Handler. It is invoked on the stream-reader
// (producer) context for every decoded DataValue.
func (a *Aggregator) Handle(v thinkgear.DataValue) {
	if v.ExtendedLevel != 0 {
		// No extended-code values are defined by the protocol today; forward
		// but otherwise ignore so future codes don't silently vanish upstream.
		return
	}

	var emit bool
	var snap Sample

	a.mu.Lock()
	switch v.Code {
	case thinkgear.CodePoorSignal:
		if len(v.Data) < 1 {
			a.mu.Unlock()
			return
		}
		a.sample.PoorSignal = int(v.Data[0])
		emit = true
	case thinkgear.CodeAttention:
		if len(v.Data) < 1 {
			a.mu.Unlock()
			return
		}
		a.sample.Attention = int(v.Data[0])
		emit = true
	case thinkgear.CodeMeditation:
		if len(v.Data) < 1 {
			a.mu.Unlock()
			return
		}
		a.sample.Meditation = int(v.Data[0])
		emit = true
	case thinkgear.CodeRawWave16Bit:
		if len(v.Data) < 2 {
			a.mu.Unlock()
			return
		}
		a.sample.RawWave = int(int16(uint16(v.Data[0])<<8 | uint16(v.Data[1])))
	case thinkgear.CodeASICEEGPower:
		if len(v.Data) < 24 {
			a.mu.Unlock()
			return
		}
		a.sample.Delta = decode24(v.Data[0:3])
		a.sample.Theta = decode24(v.Data[3:6])
		a.sample.LowAlpha = decode24(v.Data[6:9])
		a.sample.HighAlpha = decode24(v.Data[9:12])
		a.sample.LowBeta = decode24(v.Data[12:15])
		a.sample.HighBeta = decode24(v.Data[15:18])
		a.sample.LowGamma = decode24(v.Data[18:21])
		a.sample.MidGamma = decode24(v.Data[21:24])
		emit = true
	default:
		a.mu.Unlock()
		metrics.IncUnknownCode()
		return
	}

	if emit {
		a.sample.SignalQuality = 255 - a.sample.PoorSignal
		a.sample.LastUpdate = a.now()
		snap = a.sample
	}
	a.mu.Unlock()

	if !emit {
		return
	}
	a.emit(snap)
}

func (a *Aggregator) emit(snap Sample) {
	row := snap.toRow(snap.LastUpdate)
	if a.sink != nil {
		if err := a.sink.WriteRow(row); err != nil {
			metrics.IncRowsDropped()
			metrics.IncError(metrics.ErrSinkWrite)
			logging.L().Error("row_sink_write_error", "error", err)
		} else {
			metrics.IncRowsEmitted()
		}
	}
	if a.hub != nil {
		a.hub.Publish(snap)
	}
}

// decode24 decodes a 3-byte big-endian unsigned integer into an int64,
// wide enough to hold any 24-bit value.
func decode24(b []byte) int64 {
	return int64(b[0])<<16 | int64(b[1])<<8 | int64(b[2])
}
