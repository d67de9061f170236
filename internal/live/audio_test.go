package live

import (
	"encoding/base64"
	"math"
	"testing"
)

func TestEncodeFrame_WireFormat(t *testing.T) {
	frame := EncodeFrame([]float32{0, 0.5, -0.5})
	if frame.MimeType != "audio/pcm;rate=16000" {
		t.Errorf("unexpected mime type %q", frame.MimeType)
	}
	raw, err := base64.StdEncoding.DecodeString(frame.Data)
	if err != nil {
		t.Fatalf("payload is not base64: %v", err)
	}
	if len(raw) != 6 {
		t.Fatalf("expected 6 bytes for 3 samples, got %d", len(raw))
	}
	// Little-endian int16: 0, 16384, -16384.
	if raw[0] != 0 || raw[1] != 0 {
		t.Errorf("sample 0 encoded as % x", raw[0:2])
	}
	if raw[2] != 0x00 || raw[3] != 0x40 {
		t.Errorf("sample 0.5 encoded as % x", raw[2:4])
	}
	if raw[4] != 0x00 || raw[5] != 0xC0 {
		t.Errorf("sample -0.5 encoded as % x", raw[4:6])
	}
}

func TestEncodeFrame_ClampsOutOfRange(t *testing.T) {
	frame := EncodeFrame([]float32{2.0, -2.0, 1.0})
	samples, err := DecodePCM(frame.Data)
	if err != nil {
		t.Fatalf("DecodePCM failed: %v", err)
	}
	if samples[0] < 0.99 {
		t.Errorf("over-range sample should clamp near 1.0, got %f", samples[0])
	}
	if samples[1] > -0.99 {
		t.Errorf("under-range sample should clamp near -1.0, got %f", samples[1])
	}
}

func TestDecodePCM_RoundTrip(t *testing.T) {
	in := make([]float32, CaptureFrameSize)
	for i := range in {
		in[i] = float32(math.Sin(float64(i) / 50.0 * 2 * math.Pi * 0.9))
	}
	out, err := DecodePCM(EncodeFrame(in).Data)
	if err != nil {
		t.Fatalf("DecodePCM failed: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("length changed: %d -> %d", len(in), len(out))
	}
	for i := range in {
		if diff := math.Abs(float64(out[i] - in[i])); diff > 1.0/32768.0+1e-6 {
			t.Fatalf("sample %d drifted by %f", i, diff)
		}
	}
}

func TestDecodePCM_RejectsBadPayloads(t *testing.T) {
	if _, err := DecodePCM("not base64!!!"); err == nil {
		t.Error("expected error for invalid base64")
	}
	odd := base64.StdEncoding.EncodeToString([]byte{1, 2, 3})
	if _, err := DecodePCM(odd); err == nil {
		t.Error("expected error for odd-length payload")
	}
}
