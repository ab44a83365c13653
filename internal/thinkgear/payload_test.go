package thinkgear

import (
	"testing"
)

type recordHandler struct {
	values []DataValue
}

func (r *recordHandler) Handle(v DataValue) {
	cp := append([]byte(nil), v.Data...)
	r.values = append(r.values, DataValue{ExtendedLevel: v.ExtendedLevel, Code: v.Code, Data: cp})
}

func TestParsePayload_SingleByteCode(t *testing.T) {
	h := &recordHandler{}
	if err := ParsePayload([]byte{CodePoorSignal, 0x00}, h); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(h.values) != 1 || h.values[0].Code != CodePoorSignal || h.values[0].Data[0] != 0x00 {
		t.Fatalf("got %+v", h.values)
	}
}

func TestParsePayload_MultiByteCode(t *testing.T) {
	h := &recordHandler{}
	payload := []byte{CodeRawWave16Bit, 0x02, 0x12, 0x34}
	if err := ParsePayload(payload, h); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(h.values) != 1 || h.values[0].Code != CodeRawWave16Bit {
		t.Fatalf("got %+v", h.values)
	}
	if h.values[0].Data[0] != 0x12 || h.values[0].Data[1] != 0x34 {
		t.Fatalf("got data % X", h.values[0].Data)
	}
}

func TestParsePayload_UnknownCodeDoesNotDesync(t *testing.T) {
	h := &recordHandler{}
	// unknown code 0x90 with length 3, then a known single-byte code after it.
	payload := []byte{0x90, 0x03, 0xDE, 0xAD, 0xBE, CodeAttention, 0x40}
	if err := ParsePayload(payload, h); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(h.values) != 2 {
		t.Fatalf("got %d values, want 2", len(h.values))
	}
	if h.values[0].Code != 0x90 {
		t.Fatalf("first value code = %#x, want 0x90", h.values[0].Code)
	}
	if h.values[1].Code != CodeAttention || h.values[1].Data[0] != 0x40 {
		t.Fatalf("second value = %+v, want attention=0x40", h.values[1])
	}
}

func TestParsePayload_ExtendedCodeLevelForwarded(t *testing.T) {
	h := &recordHandler{}
	payload := []byte{extendedCodePrefix, extendedCodePrefix, CodeAttention, 0x32}
	if err := ParsePayload(payload, h); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(h.values) != 1 || h.values[0].ExtendedLevel != 2 {
		t.Fatalf("got %+v, want ExtendedLevel=2", h.values)
	}
}

func TestParsePayload_TruncatedMultiByteAborts(t *testing.T) {
	h := &recordHandler{}
	payload := []byte{CodeRawWave16Bit, 0x05, 0x01, 0x02} // declares 5 bytes, only 2 remain
	err := ParsePayload(payload, h)
	if err == nil {
		t.Fatalf("expected truncation error")
	}
	if len(h.values) != 0 {
		t.Fatalf("expected no dispatched values, got %+v", h.values)
	}
}

func TestParsePayload_ASICEEGPower(t *testing.T) {
	h := &recordHandler{}
	bands := []byte{
		0x00, 0x00, 0x01, // Delta = 1
		0x00, 0x00, 0x02, // Theta = 2
		0x00, 0x00, 0x03, // LowAlpha = 3
		0x00, 0x00, 0x04, // HighAlpha = 4
		0x00, 0x00, 0x05, // LowBeta = 5
		0x00, 0x00, 0x06, // HighBeta = 6
		0x00, 0x00, 0x07, // LowGamma = 7
		0x00, 0x00, 0x08, // MidGamma = 8
	}
	payload := append([]byte{CodeASICEEGPower, 0x18}, bands...)
	if err := ParsePayload(payload, h); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(h.values) != 1 || h.values[0].Code != CodeASICEEGPower || len(h.values[0].Data) != 24 {
		t.Fatalf("got %+v", h.values)
	}
}
