package audio

import (
	"testing"
)

func TestFloat32ToInt16(t *testing.T) {
	samples := []float32{0.0, 0.5, -0.5, 1.0, -1.0}
	out := Float32ToInt16(samples)

	if out[0] != 0 {
		t.Errorf("Expected 0, got %d", out[0])
	}
	if out[1] != 16383 {
		t.Errorf("Expected 16383, got %d", out[1])
	}
	if out[2] != -16383 {
		t.Errorf("Expected -16383, got %d", out[2])
	}
	if out[3] != 32767 {
		t.Errorf("Expected 32767, got %d", out[3])
	}
	if out[4] != -32767 {
		t.Errorf("Expected -32767, got %d", out[4])
	}
}

func TestFloat32ToInt16_Clamps(t *testing.T) {
	out := Float32ToInt16([]float32{2.5, -3.0})
	if out[0] != 32767 {
		t.Errorf("Expected clamp to 32767, got %d", out[0])
	}
	if out[1] != -32767 {
		t.Errorf("Expected clamp to -32767, got %d", out[1])
	}
}

func TestInt16BytesRoundTrip(t *testing.T) {
	samples := []int16{0, 1, -1, 255, 256, -32768, 32767}
	data := Int16ToBytes(samples)

	if len(data) != len(samples)*2 {
		t.Fatalf("Expected %d bytes, got %d", len(samples)*2, len(data))
	}

	back, err := BytesToInt16(data)
	if err != nil {
		t.Fatalf("BytesToInt16 failed: %v", err)
	}
	for i, s := range samples {
		if back[i] != s {
			t.Errorf("Sample %d: expected %d, got %d", i, s, back[i])
		}
	}
}

func TestBytesToInt16_OddLength(t *testing.T) {
	_, err := BytesToInt16([]byte{1, 2, 3})
	if err == nil {
		t.Error("Expected error for odd-length data")
	}
}

func TestResample_Downsample(t *testing.T) {
	// 1 second of 16kHz audio downsampled to 8kHz should halve the length
	samples := make([]int16, 16000)
	out := Resample(samples, 16000, 8000)
	if len(out) != 8000 {
		t.Errorf("Expected 8000 samples, got %d", len(out))
	}
}

func TestResample_SameRate(t *testing.T) {
	samples := []int16{1, 2, 3}
	out := Resample(samples, 16000, 16000)
	if len(out) != 3 {
		t.Errorf("Expected unchanged length 3, got %d", len(out))
	}
}

func TestResample_Interpolates(t *testing.T) {
	// Doubling the rate should interpolate midpoints
	samples := []int16{0, 100}
	out := Resample(samples, 8000, 16000)
	if len(out) != 4 {
		t.Fatalf("Expected 4 samples, got %d", len(out))
	}
	if out[1] != 50 {
		t.Errorf("Expected interpolated midpoint 50, got %d", out[1])
	}
}

func TestRMS(t *testing.T) {
	if rms := RMS(nil); rms != 0.0 {
		t.Errorf("Expected 0 for empty input, got %f", rms)
	}

	if rms := RMS([]int16{0, 0, 0}); rms != 0.0 {
		t.Errorf("Expected 0 for silence, got %f", rms)
	}

	// Constant amplitude signal has RMS equal to that amplitude
	if rms := RMS([]int16{1000, -1000, 1000, -1000}); rms != 1000.0 {
		t.Errorf("Expected 1000, got %f", rms)
	}
}

func TestLevelMeter(t *testing.T) {
	m := NewLevelMeter()
	if m.Level() != 0.0 {
		t.Errorf("Expected initial level 0, got %f", m.Level())
	}

	m.Observe([]int16{16384, -16384, 16384, -16384})
	level := m.Level()
	if level < 0.49 || level > 0.51 {
		t.Errorf("Expected level near 0.5, got %f", level)
	}

	m.Reset()
	if m.Level() != 0.0 {
		t.Errorf("Expected level 0 after reset, got %f", m.Level())
	}
}
