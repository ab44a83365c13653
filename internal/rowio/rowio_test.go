package rowio

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestSink_WriteRow_WritesHeaderOnce(t *testing.T) {
	var buf bytes.Buffer
	s := NewSink(&buf)

	ts := time.Date(2026, 1, 2, 3, 4, 5, 6*int(time.Millisecond), time.UTC)
	row := Row{Timestamp: ts, Attention: 64, SignalQuality: 255}
	if err := s.WriteRow(row); err != nil {
		t.Fatalf("WriteRow: %v", err)
	}
	if err := s.WriteRow(row); err != nil {
		t.Fatalf("WriteRow: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3 (header + 2 rows): %q", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "Timestamp;Attention") {
		t.Fatalf("unexpected header: %q", lines[0])
	}
}

func TestSinkSource_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	s := NewSink(&buf)

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	want := []Row{
		{Timestamp: base, Attention: 10, Meditation: 50, SignalQuality: 255},
		{Timestamp: base.Add(time.Second), Attention: 20, Meditation: 50, SignalQuality: 255, Delta: 1234567},
	}
	for _, r := range want {
		if err := s.WriteRow(r); err != nil {
			t.Fatalf("WriteRow: %v", err)
		}
	}
	_ = s.Close()

	got, err := ReadAll(&buf)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d rows, want %d", len(got), len(want))
	}
	for i := range want {
		if !got[i].Timestamp.Equal(want[i].Timestamp) || got[i].Attention != want[i].Attention || got[i].Delta != want[i].Delta {
			t.Fatalf("row %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSource_SkipsMalformedRows(t *testing.T) {
	data := "Timestamp;Attention;Meditation;PoorSignal;RawWave;SignalQuality;Delta;Theta;LowAlpha;HighAlpha;LowBeta;HighBeta;LowGamma;MidGamma\n" +
		"not-a-timestamp;1;2;3;4;5;6;7;8;9;10;11;12;13\n" +
		"2026-01-02 03:04:05.000;10;20;0;0;255;0;0;0;0;0;0;0;0\n" +
		"too;few;fields\n"

	rows, err := ReadAll(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1 (bad rows skipped)", len(rows))
	}
	if rows[0].Attention != 10 || rows[0].Meditation != 20 {
		t.Fatalf("unexpected surviving row: %+v", rows[0])
	}
}
