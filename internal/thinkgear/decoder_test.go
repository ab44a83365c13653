package thinkgear

import (
	"bytes"
	"testing"
)

func TestDecoder_MinimalPoorSignalFrame(t *testing.T) {
	// AA AA 02 02 00 FD: sum(0x02,0x00)=2, ~2&0xFF=0xFD
	stream := []byte{0xAA, 0xAA, 0x02, 0x02, 0x00, 0xFD}

	var got [][]byte
	d := NewDecoder(func(payload []byte) {
		cp := append([]byte(nil), payload...)
		got = append(got, cp)
	})
	d.Feed(stream)

	if len(got) != 1 {
		t.Fatalf("got %d frames, want 1", len(got))
	}
	if !bytes.Equal(got[0], []byte{0x02, 0x00}) {
		t.Fatalf("got payload % X, want 02 00", got[0])
	}
}

func TestDecoder_AttentionFrame(t *testing.T) {
	// AA AA 02 04 40 BB: sum(0x04,0x40)=0x44, ~0x44&0xFF=0xBB
	stream := []byte{0xAA, 0xAA, 0x02, 0x04, 0x40, 0xBB}
	var got [][]byte
	d := NewDecoder(func(payload []byte) {
		got = append(got, append([]byte(nil), payload...))
	})
	d.Feed(stream)
	if len(got) != 1 || !bytes.Equal(got[0], []byte{0x04, 0x40}) {
		t.Fatalf("got %v, want one frame [04 40]", got)
	}
}

func TestDecoder_BadChecksumRecovery(t *testing.T) {
	// First frame has a wrong checksum (00 instead of BB), second is valid (attention=50).
	stream := []byte{
		0xAA, 0xAA, 0x02, 0x04, 0x40, 0x00,
		0xAA, 0xAA, 0x02, 0x04, 0x32, 0xC9,
	}
	var got [][]byte
	d := NewDecoder(func(payload []byte) {
		got = append(got, append([]byte(nil), payload...))
	})
	d.Feed(stream)
	if len(got) != 1 {
		t.Fatalf("got %d frames, want 1 (first frame should be discarded)", len(got))
	}
	if !bytes.Equal(got[0], []byte{0x04, 0x32}) {
		t.Fatalf("got payload % X, want 04 32 (attention=50)", got[0])
	}
}

func TestDecoder_GarbagePrefixDoesNotAffectOutcome(t *testing.T) {
	frame := []byte{0xAA, 0xAA, 0x02, 0x02, 0x00, 0xFD}
	garbage := []byte{0x01, 0x02, 0xAA, 0x00, 0xFF, 0xAA}

	var clean, withGarbage [][]byte
	NewDecoder(func(p []byte) { clean = append(clean, append([]byte(nil), p...)) }).Feed(frame)
	NewDecoder(func(p []byte) { withGarbage = append(withGarbage, append([]byte(nil), p...)) }).Feed(append(garbage, frame...))

	if len(clean) != len(withGarbage) {
		t.Fatalf("frame counts differ: clean=%d withGarbage=%d", len(clean), len(withGarbage))
	}
	for i := range clean {
		if !bytes.Equal(clean[i], withGarbage[i]) {
			t.Fatalf("frame %d differs: %X vs %X", i, clean[i], withGarbage[i])
		}
	}
}

func TestDecoder_InvalidLengthResyncs(t *testing.T) {
	// length byte 170 (>169) is invalid; decoder must resync and still find the next valid frame.
	stream := []byte{0xAA, 0xAA, 170}
	valid := []byte{0xAA, 0xAA, 0x02, 0x02, 0x00, 0xFD}
	stream = append(stream, valid...)

	var got [][]byte
	NewDecoder(func(p []byte) { got = append(got, append([]byte(nil), p...)) }).Feed(stream)
	if len(got) != 1 {
		t.Fatalf("got %d frames, want 1", len(got))
	}
}

func TestDecoder_ChunkedFeedMatchesWholeFeed(t *testing.T) {
	stream := []byte{
		0xAA, 0xAA, 0x02, 0x02, 0x00, 0xFD,
		0xAA, 0xAA, 0x02, 0x04, 0x40, 0xBB,
		0xAA, 0xAA, 0x04, 0x80, 0x02, 0x12, 0x34, 0x37,
	}

	var whole [][]byte
	NewDecoder(func(p []byte) { whole = append(whole, append([]byte(nil), p...)) }).Feed(stream)

	var chunked [][]byte
	d := NewDecoder(func(p []byte) { chunked = append(chunked, append([]byte(nil), p...)) })
	sizes := []int{1, 2, 3, 5, 7}
	pos, cs := 0, 0
	for pos < len(stream) {
		n := sizes[cs%len(sizes)]
		cs++
		if pos+n > len(stream) {
			n = len(stream) - pos
		}
		d.Feed(stream[pos : pos+n])
		pos += n
	}

	if len(whole) != len(chunked) {
		t.Fatalf("whole=%d chunked=%d frame counts differ", len(whole), len(chunked))
	}
	for i := range whole {
		if !bytes.Equal(whole[i], chunked[i]) {
			t.Fatalf("frame %d differs: %X vs %X", i, whole[i], chunked[i])
		}
	}
}
