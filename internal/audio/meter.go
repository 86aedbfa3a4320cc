package audio

import "sync"

// LevelMeter tracks the amplitude of the most recent capture frame.
// It stands in for a realtime analyser node: the UI layer polls Level
// to draw a waveform while the session is live.
type LevelMeter struct {
	mu    sync.RWMutex
	level float64
}

// NewLevelMeter creates a new level meter
func NewLevelMeter() *LevelMeter {
	return &LevelMeter{}
}

// Observe updates the meter from one frame of samples
func (m *LevelMeter) Observe(samples []int16) {
	rms := RMS(samples)
	m.mu.Lock()
	m.level = rms / 32768.0
	m.mu.Unlock()
}

// Level returns the normalized amplitude of the last observed frame (0..1)
func (m *LevelMeter) Level() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.level
}

// Reset clears the meter
func (m *LevelMeter) Reset() {
	m.mu.Lock()
	m.level = 0
	m.mu.Unlock()
}
