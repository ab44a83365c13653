package thinkgear

import (
	"github.com/LegionFenix/The-TGAM1-Data-Collector/internal/metrics"
)

const (
	sync0 = 0xAA
	sync1 = 0xAA

	// maxPayloadLength is the protocol's hard ceiling on the length field;
	// anything above this is a framing error.
	maxPayloadLength = 169

	// payloadBufSize is sized generously above maxPayloadLength so a runt
	// length byte can never index out of bounds while state 3 is filling it.
	payloadBufSize = 256
)

// syncState is the decoder's position in the 5-state sync/length/payload/checksum machine.
type syncState int

const (
	stateSync0 syncState = iota
	stateSync1
	stateLength
	statePayload
	stateChecksum
)

// Decoder is a byte-at-a-time ThinkGear frame decoder. It owns a single
// mutable parsing state for the lifetime of a byte stream, never blocks,
// and never allocates in steady state: Feed walks its fixed-size internal
// buffer byte by byte and hands each validated payload to onFrame.
//
// Decoder is not safe for concurrent use by multiple goroutines; a single
// byte-producer context owns it for the stream's lifetime.
type Decoder struct {
	state   syncState
	length  int
	index   int
	payload [payloadBufSize]byte

	onFrame func(payload []byte)
}

// NewDecoder constructs a Decoder that invokes onFrame with each validated
// payload (checksum verified). The slice passed to onFrame is only valid
// for the duration of the call; callers must copy if they need to retain it.
func NewDecoder(onFrame func(payload []byte)) *Decoder {
	return &Decoder{onFrame: onFrame}
}

// Feed processes an arbitrarily sized chunk of bytes, advancing the state
// machine one byte at a time. It never blocks and never allocates.
func (d *Decoder) Feed(chunk []byte) {
	for _, b := range chunk {
		d.step(b)
	}
}

func (d *Decoder) step(b byte) {
	switch d.state {
	case stateSync0:
		if b == sync0 {
			d.state = stateSync1
		}
	case stateSync1:
		if b == sync1 {
			d.state = stateLength
		} else {
			d.state = stateSync0
		}
	case stateLength:
		switch {
		case b == sync1:
			// absorb extra sync bytes, stay in stateLength
		case b > maxPayloadLength:
			metrics.IncMalformed()
			d.state = stateSync0
		default:
			d.length = int(b)
			d.index = 0
			d.state = statePayload
		}
	case statePayload:
		if d.index < payloadBufSize {
			d.payload[d.index] = b
			d.index++
		}
		if d.index >= d.length {
			d.state = stateChecksum
		}
	case stateChecksum:
		if checksum(d.payload[:d.length]) == b {
			metrics.IncFramesDecoded()
			if d.onFrame != nil {
				d.onFrame(d.payload[:d.length])
			}
		} else {
			metrics.IncMalformed()
		}
		d.state = stateSync0
	}
}

// checksum computes the ThinkGear trailing checksum byte over payload bytes:
// the bitwise complement of the low byte of their sum.
func checksum(payload []byte) byte {
	var sum int
	for _, b := range payload {
		sum += int(b)
	}
	return byte(^sum)
}
