package live

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"math"
)

// Wire format of the voice service: little-endian 16-bit signed PCM, mono,
// base64-encoded inline. Capture runs at 16kHz, playback at 24kHz.
const (
	InputSampleRate  = 16000
	OutputSampleRate = 24000
	CaptureFrameSize = 4096

	inputMimeType = "audio/pcm;rate=16000"
)

// AudioFrame is one outbound chunk of microphone audio.
type AudioFrame struct {
	Data     string `json:"data"`
	MimeType string `json:"mimeType"`
}

// EncodeFrame converts one capture buffer of float PCM into the wire format.
func EncodeFrame(samples []float32) AudioFrame {
	raw := make([]byte, len(samples)*2)
	for i, s := range samples {
		// Out-of-range float to int conversions are implementation-defined
		// in Go; clamp before converting.
		v := s * 32768
		if v > math.MaxInt16 {
			v = math.MaxInt16
		} else if v < math.MinInt16 {
			v = math.MinInt16
		}
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(int16(v)))
	}
	return AudioFrame{
		Data:     base64.StdEncoding.EncodeToString(raw),
		MimeType: inputMimeType,
	}
}

// DecodePCM converts inbound base64 PCM16 into float samples in [-1, 1).
func DecodePCM(data string) ([]float32, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, err
	}
	if len(raw)%2 != 0 {
		return nil, errors.New("live: odd-length PCM16 payload")
	}
	samples := make([]float32, len(raw)/2)
	for i := range samples {
		samples[i] = float32(int16(binary.LittleEndian.Uint16(raw[i*2:]))) / 32768.0
	}
	return samples, nil
}
