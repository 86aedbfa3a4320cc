package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/voxlate/live-interpreter/internal/audio"
	"github.com/voxlate/live-interpreter/internal/observability"
	"github.com/voxlate/live-interpreter/internal/speech"
)

// Status is the connection state of the live transcription session
type Status int

const (
	StatusDisconnected Status = iota
	StatusConnecting
	StatusConnected
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusDisconnected:
		return "disconnected"
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	case StatusError:
		return "error"
	}
	return "unknown"
}

// AttemptToken identifies one connection attempt. An attempt is
// current iff its token equals the manager's latest issued token;
// callbacks from superseded attempts check this and refuse to mutate
// shared state.
type AttemptToken uint64

// TokenIssuer fetches single-use session tokens
type TokenIssuer interface {
	Issue(ctx context.Context, model string) (string, error)
}

// Hooks are the upstream consumers attached to the session's output.
// All hooks are optional.
type Hooks struct {
	// OnPartial receives the accumulated in-progress turn text on
	// every fragment
	OnPartial func(text string)

	// OnTurnFinal receives each finalized turn exactly once
	OnTurnFinal func(text string)

	// OnAudio receives synthesized interpreter audio (raw PCM)
	OnAudio func(pcm []byte)

	// OnStatus observes status transitions
	OnStatus func(st Status, msg string)
}

// Config holds session manager settings
type Config struct {
	Model             string
	SourceLangName    string // empty or "auto" requests runtime detection
	CaptureSampleRate int

	MaxReconnectAttempts int
	InitialBackoff       time.Duration
	MaxBackoff           time.Duration
}

// Manager owns the lifecycle of the streaming transcription session:
// connect, frame pumping, turn accumulation, reconnect with bounded
// backoff, and teardown. At most one attempt is current at a time; a
// stale attempt's events are discarded rather than cancelled.
type Manager struct {
	cfg     Config
	tokens  TokenIssuer
	dialer  speech.Dialer
	capture audio.CaptureStage
	hooks   Hooks
	logger  zerolog.Logger
	metrics *observability.Metrics

	ctx      context.Context
	schedule Scheduler
	timer    reconnectTimer

	mu               sync.Mutex
	attempt          AttemptToken
	status           Status
	statusMsg        string
	desiredActive    bool
	connecting       bool
	reconnectAttempt int
	stream           speech.Stream
	micOn            bool

	acc *Accumulator
}

// NewManager creates a session manager. ctx bounds the manager's
// lifetime: reconnects and token fetches are cancelled with it.
func NewManager(ctx context.Context, cfg Config, tokens TokenIssuer, dialer speech.Dialer,
	capture audio.CaptureStage, hooks Hooks, logger zerolog.Logger, metrics *observability.Metrics) *Manager {
	if cfg.MaxReconnectAttempts <= 0 {
		cfg.MaxReconnectAttempts = 3
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = time.Second
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 8 * time.Second
	}
	return &Manager{
		cfg:      cfg,
		tokens:   tokens,
		dialer:   dialer,
		capture:  capture,
		hooks:    hooks,
		logger:   logger,
		metrics:  metrics,
		ctx:      ctx,
		schedule: defaultScheduler,
		acc:      NewAccumulator(),
	}
}

// SetScheduler replaces the reconnect scheduler (used by tests)
func (m *Manager) SetScheduler(s Scheduler) {
	m.schedule = s
}

// Status returns the current connection status and its message
func (m *Manager) Status() (Status, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status, m.statusMsg
}

// MicOn reports whether the mic indicator is lit
func (m *Manager) MicOn() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.micOn
}

// DesiredActive reports whether the user wants the mic on
func (m *Manager) DesiredActive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.desiredActive
}

// Level returns the live capture amplitude for waveform feedback
func (m *Manager) Level() float64 {
	return m.capture.Level()
}

// ToggleMic turns the session off when connected, on otherwise
func (m *Manager) ToggleMic() {
	m.mu.Lock()
	if m.status == StatusConnected {
		m.desiredActive = false
		m.setStatusLocked(StatusDisconnected, "")
		m.micOn = false
		// Invalidate the attempt so events still queued on the
		// closing stream are discarded as stale
		m.attempt++
		m.acc.Reset()
		stream := m.stream
		m.stream = nil
		m.mu.Unlock()

		m.timer.Cancel()
		m.capture.Stop()
		if stream != nil {
			stream.Close()
		}
		if m.metrics != nil {
			m.metrics.RecordSessionEnd()
		}
		m.logger.Info().Msg("Session disconnected by user")
		return
	}
	m.mu.Unlock()
	m.Connect(false)
}

// Connect starts a new connection attempt. A fresh (non-retry)
// connect records user intent and resets the reconnect budget; a
// retry preserves both. No-op while another connect is in flight.
func (m *Manager) Connect(isRetry bool) {
	m.mu.Lock()
	if m.connecting || m.status == StatusConnecting {
		m.mu.Unlock()
		return
	}
	m.connecting = true
	if !isRetry {
		m.desiredActive = true
		m.reconnectAttempt = 0
	}
	m.attempt++
	attempt := m.attempt
	m.setStatusLocked(StatusConnecting, "")
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.RecordConnectAttempt(isRetry)
	}
	m.logger.Info().Uint64("attempt", uint64(attempt)).Bool("retry", isRetry).Msg("Connecting")

	defer func() {
		m.mu.Lock()
		m.connecting = false
		m.mu.Unlock()
	}()

	token, err := m.tokens.Issue(m.ctx, m.cfg.Model)
	if !m.isCurrent(attempt) {
		return
	}
	if err != nil || token == "" {
		// Hard failure: the user must explicitly reconnect
		m.mu.Lock()
		m.desiredActive = false
		m.setStatusLocked(StatusError, fmt.Sprintf("failed to obtain session token: %v", err))
		m.mu.Unlock()
		m.logger.Error().Err(err).Msg("Token issuance failed")
		if m.metrics != nil {
			m.metrics.RecordError("token_error", "session")
		}
		return
	}

	stream, err := m.dialer.Dial(m.ctx, token, speech.SessionConfig{
		Model:             m.cfg.Model,
		SystemInstruction: m.systemInstruction(),
		SampleRate:        m.cfg.CaptureSampleRate,
	})
	if !m.isCurrent(attempt) {
		if stream != nil {
			stream.Close()
		}
		return
	}
	if err != nil {
		m.mu.Lock()
		m.micOn = false
		m.setStatusLocked(StatusError, fmt.Sprintf("connection failed: %v", err))
		m.mu.Unlock()
		m.logger.Error().Err(err).Msg("Failed to open speech session")
		if m.metrics != nil {
			m.metrics.RecordError("dial_error", "session")
		}
		return
	}

	m.mu.Lock()
	if !m.desiredActive {
		// The user turned the mic off while we were connecting
		m.mu.Unlock()
		stream.Close()
		return
	}
	m.stream = stream
	m.mu.Unlock()

	go m.eventLoop(attempt, stream)
}

// systemInstruction describes transcription behavior to the backend,
// naming the source language when it is fixed
func (m *Manager) systemInstruction() string {
	lang := m.cfg.SourceLangName
	if lang == "" || lang == "auto" {
		return "Transcribe the caller's speech verbatim, detecting the spoken language automatically."
	}
	return fmt.Sprintf("Transcribe the caller's speech verbatim. The caller speaks %s.", lang)
}

// eventLoop consumes the stream's events until it closes. Every
// handler re-checks attempt freshness: a superseded attempt drains its
// events without touching shared state.
func (m *Manager) eventLoop(attempt AttemptToken, stream speech.Stream) {
	for ev := range stream.Events() {
		switch ev.Type {
		case speech.EventOpened:
			m.handleOpened(attempt, stream)
		case speech.EventTranscript:
			m.handleTranscript(attempt, ev.Text)
		case speech.EventTurnComplete:
			m.handleTurnComplete(attempt)
		case speech.EventAudio:
			m.handleAudio(attempt, ev.PCM)
		case speech.EventError:
			m.handleError(attempt, ev.Err)
		case speech.EventClosed:
			m.handleClosed(attempt)
		}
	}
}

func (m *Manager) handleOpened(attempt AttemptToken, stream speech.Stream) {
	m.mu.Lock()
	if m.attempt != attempt || !m.desiredActive {
		m.mu.Unlock()
		stream.Close()
		return
	}
	m.setStatusLocked(StatusConnected, "")
	m.micOn = true
	m.mu.Unlock()

	m.logger.Info().Uint64("attempt", uint64(attempt)).Msg("Session connected")
	if m.metrics != nil {
		m.metrics.RecordSessionStart()
	}

	err := m.capture.Start(func(frame []int16) {
		m.sendFrame(attempt, stream, frame)
	})
	if err != nil {
		m.logger.Error().Err(err).Msg("Microphone capture failed")
		if m.metrics != nil {
			m.metrics.RecordError("capture_error", "session")
		}
		m.mu.Lock()
		if m.attempt == attempt {
			m.micOn = false
			m.setStatusLocked(StatusError, fmt.Sprintf("microphone unavailable: %v", err))
		}
		m.mu.Unlock()
		// Teardown continues through the stream's own close path
		stream.Close()
	}
}

// sendFrame pumps one captured frame into the session. A failed send
// flags the error but leaves teardown to the session's close path.
func (m *Manager) sendFrame(attempt AttemptToken, stream speech.Stream, frame []int16) {
	m.mu.Lock()
	stale := m.attempt != attempt || !m.desiredActive
	m.mu.Unlock()
	if stale {
		return
	}

	data := audio.Int16ToBytes(frame)
	if err := stream.SendMedia(data); err != nil {
		m.mu.Lock()
		if m.attempt == attempt {
			m.setStatusLocked(StatusError, fmt.Sprintf("failed to send audio: %v", err))
		}
		m.mu.Unlock()
		if m.metrics != nil {
			m.metrics.RecordError("send_error", "session")
		}
		return
	}
	if m.metrics != nil {
		m.metrics.RecordAudioBytes("in", int64(len(data)))
	}
}

func (m *Manager) handleTranscript(attempt AttemptToken, fragment string) {
	m.mu.Lock()
	if m.attempt != attempt {
		m.mu.Unlock()
		return
	}
	pending := m.acc.Append(fragment)
	m.mu.Unlock()

	if m.hooks.OnPartial != nil {
		m.hooks.OnPartial(pending)
	}
}

func (m *Manager) handleTurnComplete(attempt AttemptToken) {
	m.mu.Lock()
	if m.attempt != attempt {
		m.mu.Unlock()
		return
	}
	text, ok := m.acc.Finalize()
	m.mu.Unlock()

	if !ok {
		return
	}
	m.logger.Info().Str("text", text).Msg("Turn finalized")
	if m.metrics != nil {
		m.metrics.RecordTurnFinalized()
	}
	if m.hooks.OnTurnFinal != nil {
		m.hooks.OnTurnFinal(text)
	}
}

func (m *Manager) handleAudio(attempt AttemptToken, pcm []byte) {
	if !m.isCurrent(attempt) {
		return
	}
	if m.metrics != nil {
		m.metrics.RecordAudioBytes("out", int64(len(pcm)))
	}
	if m.hooks.OnAudio != nil {
		m.hooks.OnAudio(pcm)
	}
}

func (m *Manager) handleError(attempt AttemptToken, err error) {
	m.mu.Lock()
	if m.attempt != attempt {
		m.mu.Unlock()
		return
	}
	m.micOn = false
	m.setStatusLocked(StatusError, fmt.Sprintf("session error: %v", err))
	m.mu.Unlock()

	m.capture.Stop()
	m.logger.Error().Err(err).Msg("Session error")
	if m.metrics != nil {
		m.metrics.RecordError("session_error", "session")
	}
}

func (m *Manager) handleClosed(attempt AttemptToken) {
	m.mu.Lock()
	if m.attempt != attempt {
		m.mu.Unlock()
		return
	}
	m.micOn = false
	m.stream = nil
	m.acc.Reset()
	wantsReconnect := m.desiredActive
	retryAttempt := m.reconnectAttempt
	if wantsReconnect && retryAttempt < m.cfg.MaxReconnectAttempts {
		m.reconnectAttempt++
	}
	m.mu.Unlock()

	m.capture.Stop()
	if m.metrics != nil {
		m.metrics.RecordSessionEnd()
	}

	if !wantsReconnect {
		return
	}
	if retryAttempt >= m.cfg.MaxReconnectAttempts {
		// Budget exhausted: give up silently
		m.logger.Warn().Int("attempts", retryAttempt).Msg("Reconnect budget exhausted")
		return
	}

	delay := m.backoff(retryAttempt)
	m.logger.Info().Dur("delay", delay).Int("attempt", retryAttempt+1).Msg("Scheduling reconnect")
	if m.metrics != nil {
		m.metrics.RecordReconnectScheduled()
	}
	m.timer.Schedule(m.schedule, delay, func() {
		m.Connect(true)
	})
}

// backoff returns min(initial * 2^attempt, max)
func (m *Manager) backoff(attempt int) time.Duration {
	d := m.cfg.InitialBackoff << uint(attempt)
	if d > m.cfg.MaxBackoff {
		d = m.cfg.MaxBackoff
	}
	return d
}

func (m *Manager) isCurrent(attempt AttemptToken) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attempt == attempt
}

// setStatusLocked updates status under the caller's lock and notifies
// the status hook without holding it
func (m *Manager) setStatusLocked(st Status, msg string) {
	m.status = st
	m.statusMsg = msg
	if m.hooks.OnStatus != nil {
		hook := m.hooks.OnStatus
		go hook(st, msg)
	}
}

// Close disconnects if connected and cancels any pending reconnect
func (m *Manager) Close() {
	m.mu.Lock()
	m.desiredActive = false
	m.attempt++
	m.acc.Reset()
	stream := m.stream
	m.stream = nil
	if m.status == StatusConnected || m.status == StatusConnecting {
		m.setStatusLocked(StatusDisconnected, "")
	}
	m.micOn = false
	m.mu.Unlock()

	m.timer.Cancel()
	m.capture.Stop()
	if stream != nil {
		stream.Close()
	}
}
