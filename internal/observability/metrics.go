package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Session metrics
	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "interpreter_active_sessions",
		Help: "Number of active live transcription sessions",
	})

	connectAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "interpreter_connect_attempts_total",
		Help: "Total connection attempts to the speech backend",
	}, []string{"kind"}) // kind: "manual" or "retry"

	reconnects = promauto.NewCounter(prometheus.CounterOpts{
		Name: "interpreter_reconnects_scheduled_total",
		Help: "Total automatic reconnects scheduled after session close",
	})

	sessionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "interpreter_session_duration_seconds",
		Help:    "Duration of live transcription sessions in seconds",
		Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800},
	})

	// Turn metrics
	turnsFinalized = promauto.NewCounter(prometheus.CounterOpts{
		Name: "interpreter_turns_finalized_total",
		Help: "Total finalized transcript turns",
	})

	// Translation metrics
	translateRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "interpreter_translate_requests_total",
		Help: "Total translation requests",
	}, []string{"status"})

	translateLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "interpreter_translate_latency_seconds",
		Help:    "Translation request latency in seconds",
		Buckets: []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0},
	})

	// TTS metrics
	ttsRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "interpreter_tts_requests_total",
		Help: "Total TTS synthesis requests",
	}, []string{"status"})

	ttsLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "interpreter_tts_latency_seconds",
		Help:    "TTS synthesis latency in seconds",
		Buckets: []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0},
	})

	ttsCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "interpreter_tts_cache_lookups_total",
		Help: "Total TTS audio cache lookups",
	}, []string{"result"}) // result: "hit" or "miss"

	// Error metrics
	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "interpreter_errors_total",
		Help: "Total number of errors",
	}, []string{"type", "component"})

	// Audio metrics
	audioBytesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "interpreter_audio_bytes_total",
		Help: "Total audio bytes processed",
	}, []string{"direction"}) // direction: "in" or "out"
)

// Metrics tracks metrics for a single interpretation session
type Metrics struct {
	sessionID          string
	startTime          time.Time
	translateStartTime time.Time
	ttsStartTime       time.Time
	mu                 sync.Mutex
}

// NewSessionMetrics creates a new metrics tracker for a session
func NewSessionMetrics(sessionID string) *Metrics {
	return &Metrics{
		sessionID: sessionID,
		startTime: time.Now(),
	}
}

// RecordSessionStart records the start of a session
func (m *Metrics) RecordSessionStart() {
	activeSessions.Inc()
}

// RecordSessionEnd records the end of a session
func (m *Metrics) RecordSessionEnd() {
	activeSessions.Dec()
	sessionDuration.Observe(time.Since(m.startTime).Seconds())
}

// RecordConnectAttempt records a connection attempt
func (m *Metrics) RecordConnectAttempt(retry bool) {
	kind := "manual"
	if retry {
		kind = "retry"
	}
	connectAttempts.WithLabelValues(kind).Inc()
}

// RecordReconnectScheduled records an automatic reconnect being scheduled
func (m *Metrics) RecordReconnectScheduled() {
	reconnects.Inc()
}

// RecordTurnFinalized records a finalized transcript turn
func (m *Metrics) RecordTurnFinalized() {
	turnsFinalized.Inc()
}

// RecordTranslateStart records the start of a translation request
func (m *Metrics) RecordTranslateStart() {
	m.mu.Lock()
	m.translateStartTime = time.Now()
	m.mu.Unlock()
}

// RecordTranslateEnd records the end of a translation request
func (m *Metrics) RecordTranslateEnd(success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.translateStartTime.IsZero() {
		translateLatency.Observe(time.Since(m.translateStartTime).Seconds())
	}

	status := "success"
	if !success {
		status = "error"
	}
	translateRequests.WithLabelValues(status).Inc()
}

// RecordTTSStart records the start of a TTS synthesis request
func (m *Metrics) RecordTTSStart() {
	m.mu.Lock()
	m.ttsStartTime = time.Now()
	m.mu.Unlock()
}

// RecordTTSEnd records the end of a TTS synthesis request
func (m *Metrics) RecordTTSEnd(success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.ttsStartTime.IsZero() {
		ttsLatency.Observe(time.Since(m.ttsStartTime).Seconds())
	}

	status := "success"
	if !success {
		status = "error"
	}
	ttsRequests.WithLabelValues(status).Inc()
}

// RecordTTSCacheLookup records a TTS audio cache lookup
func (m *Metrics) RecordTTSCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	ttsCacheLookups.WithLabelValues(result).Inc()
}

// RecordError records an error
func (m *Metrics) RecordError(errorType, component string) {
	errorsTotal.WithLabelValues(errorType, component).Inc()
}

// RecordAudioBytes records audio bytes processed
func (m *Metrics) RecordAudioBytes(direction string, bytes int64) {
	audioBytesProcessed.WithLabelValues(direction).Add(float64(bytes))
}
