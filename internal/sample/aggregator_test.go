package sample

import (
	"errors"
	"testing"
	"time"

	"github.com/LegionFenix/The-TGAM1-Data-Collector/internal/rowio"
	"github.com/LegionFenix/The-TGAM1-Data-Collector/internal/thinkgear"
)

type fakeSink struct {
	rows []rowio.Row
	err  error
}

func (f *fakeSink) WriteRow(r rowio.Row) error {
	if f.err != nil {
		return f.err
	}
	f.rows = append(f.rows, r)
	return nil
}

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestAggregator_PoorSignalEmitsRow(t *testing.T) {
	sink := &fakeSink{}
	a := NewAggregator(sink, nil)
	a.now = fixedClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	a.Handle(thinkgear.DataValue{Code: thinkgear.CodePoorSignal, Data: []byte{0x00}})

	if len(sink.rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(sink.rows))
	}
	if sink.rows[0].PoorSignal != 0 || sink.rows[0].SignalQuality != 255 {
		t.Fatalf("got %+v, want PoorSignal=0 SignalQuality=255", sink.rows[0])
	}
}

func TestAggregator_RawWaveDoesNotEmit(t *testing.T) {
	sink := &fakeSink{}
	a := NewAggregator(sink, nil)

	a.Handle(thinkgear.DataValue{Code: thinkgear.CodeRawWave16Bit, Data: []byte{0x12, 0x34}})

	if len(sink.rows) != 0 {
		t.Fatalf("got %d rows, want 0 (raw wave must not trigger emit)", len(sink.rows))
	}
	snap := a.Snapshot()
	if snap.RawWave != 0x1234 {
		t.Fatalf("RawWave = %d, want %d", snap.RawWave, 0x1234)
	}
}

func TestAggregator_AttentionThenEmitReflectsLatestRawWave(t *testing.T) {
	sink := &fakeSink{}
	a := NewAggregator(sink, nil)

	a.Handle(thinkgear.DataValue{Code: thinkgear.CodeRawWave16Bit, Data: []byte{0x12, 0x34}})
	a.Handle(thinkgear.DataValue{Code: thinkgear.CodeAttention, Data: []byte{0x40}})

	if len(sink.rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(sink.rows))
	}
	if sink.rows[0].Attention != 0x40 || sink.rows[0].RawWave != 0x1234 {
		t.Fatalf("got %+v", sink.rows[0])
	}
}

func TestAggregator_ASICEEGPowerDecodesBandsAndEmits(t *testing.T) {
	sink := &fakeSink{}
	a := NewAggregator(sink, nil)

	data := make([]byte, 24)
	for i := 0; i < 8; i++ {
		data[i*3+2] = byte(i + 1) // values 1..8, big-endian 24-bit
	}
	a.Handle(thinkgear.DataValue{Code: thinkgear.CodeASICEEGPower, Data: data})

	if len(sink.rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(sink.rows))
	}
	r := sink.rows[0]
	got := [8]int64{r.Delta, r.Theta, r.LowAlpha, r.HighAlpha, r.LowBeta, r.HighBeta, r.LowGamma, r.MidGamma}
	want := [8]int64{1, 2, 3, 4, 5, 6, 7, 8}
	if got != want {
		t.Fatalf("bands = %v, want %v", got, want)
	}
}

func TestAggregator_ExtendedLevelIgnored(t *testing.T) {
	sink := &fakeSink{}
	a := NewAggregator(sink, nil)

	a.Handle(thinkgear.DataValue{ExtendedLevel: 1, Code: thinkgear.CodeAttention, Data: []byte{0x63}})

	if len(sink.rows) != 0 {
		t.Fatalf("got %d rows, want 0 (extended level values are not defined today)", len(sink.rows))
	}
}

func TestAggregator_SinkFailureDoesNotPanic(t *testing.T) {
	sink := &fakeSink{err: errors.New("disk full")}
	a := NewAggregator(sink, nil)

	a.Handle(thinkgear.DataValue{Code: thinkgear.CodeAttention, Data: []byte{0x32}})
	snap := a.Snapshot()
	if snap.Attention != 0x32 {
		t.Fatalf("snapshot should still reflect the update even if the sink write failed")
	}
}

func TestAggregator_PublishesToHubSubscribers(t *testing.T) {
	h := NewHub()
	sub := h.Subscribe()
	defer h.Unsubscribe(sub)

	a := NewAggregator(&fakeSink{}, h)
	a.Handle(thinkgear.DataValue{Code: thinkgear.CodeMeditation, Data: []byte{0x32}})

	select {
	case snap := <-sub.Out:
		if snap.Meditation != 0x32 {
			t.Fatalf("got Meditation=%d, want 50", snap.Meditation)
		}
	default:
		t.Fatalf("expected a published snapshot")
	}
}
