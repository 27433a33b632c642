package sound

import (
	"math"
	"testing"
)

func TestGenerateThudBounded(t *testing.T) {
	buf := generateThud()
	if len(buf) == 0 {
		t.Fatal("expected non-empty buffer")
	}
	for i, v := range buf {
		if math.IsNaN(v) || v < -1 || v > 1 {
			t.Fatalf("sample %d out of range: %v", i, v)
		}
	}
}

func TestApplyEnvelopeEndpoints(t *testing.T) {
	buf := make(floatBuffer, generatorSampleRate/10)
	for i := range buf {
		buf[i] = 1.0
	}
	applyEnvelope(buf, 0.01, 0.02)

	if buf[0] != 0 {
		t.Errorf("expected silent start, got %v", buf[0])
	}
	mid := buf[len(buf)/2]
	if mid != 1.0 {
		t.Errorf("expected full volume mid-buffer, got %v", mid)
	}
	last := buf[len(buf)-1]
	if last > 0.01 {
		t.Errorf("expected near-silent end, got %v", last)
	}
}

func TestImpactGain(t *testing.T) {
	tests := []struct {
		name   string
		speed  float64
		weight float64
		min    float64
		max    float64
	}{
		{"slow light", 150, 0.5, 0.0, 0.2},
		{"fast heavy", 3000, 2.0, 0.9, 1.0},
		{"negative speed", -100, 1.0, 0.0, 0.0},
		{"clamped weight", 1000, 50.0, 0.0, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := impactGain(tt.speed, tt.weight)
			if g < tt.min || g > tt.max {
				t.Errorf("impactGain(%v, %v) = %v, want in [%v, %v]", tt.speed, tt.weight, g, tt.min, tt.max)
			}
		})
	}
}

func TestBufferStreamerExhausts(t *testing.T) {
	s := &bufferStreamer{buf: floatBuffer{0.5, -0.5}, gain: 0.5}
	out := make([][2]float64, 4)

	n, ok := s.Stream(out)
	if !ok || n != 2 {
		t.Fatalf("expected 2 samples streamed, got n=%d ok=%v", n, ok)
	}
	if out[0][0] != 0.25 || out[0][1] != 0.25 {
		t.Errorf("expected gain applied to both channels, got %v", out[0])
	}

	n, ok = s.Stream(out)
	if ok || n != 0 {
		t.Errorf("expected exhausted streamer, got n=%d ok=%v", n, ok)
	}
}
