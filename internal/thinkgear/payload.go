package thinkgear

import (
	"errors"
)

// ErrTruncatedPayload is returned when a code's declared length runs past
// the end of the payload buffer.
var ErrTruncatedPayload = errors.New("thinkgear: truncated payload")

// ParsePayload walks a single decoded frame payload, dispatching each tagged
// value to h. Unknown codes still consume their declared length so a single
// unrecognized tag cannot desynchronise the remainder of the payload.
//
// Malformed payloads (a length that runs past the buffer end) abort parsing
// of this payload only; the next frame is independent and unaffected.
func ParsePayload(payload []byte, h Handler) error {
	n := len(payload)
	i := 0
	for i < n {
		level := 0
		for i < n && payload[i] == extendedCodePrefix {
			level++
			i++
		}
		if i >= n {
			break
		}

		code := payload[i]
		i++

		length := 1
		if code&highBitMask != 0 {
			if i >= n {
				return ErrTruncatedPayload
			}
			length = int(payload[i])
			i++
		}

		if i+length > n {
			return ErrTruncatedPayload
		}

		if h != nil {
			h.Handle(DataValue{ExtendedLevel: level, Code: code, Data: payload[i : i+length]})
		}

		i += length
	}
	return nil
}
