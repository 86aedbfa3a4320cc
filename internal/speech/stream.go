package speech

import (
	"context"
)

// EventType identifies one event on a streaming speech session
type EventType int

const (
	// EventOpened fires once when the session is established
	EventOpened EventType = iota

	// EventTranscript carries an incremental input transcription fragment
	EventTranscript

	// EventTurnComplete marks the end of the current utterance
	EventTurnComplete

	// EventAudio carries synthesized interpreter audio (raw PCM)
	EventAudio

	// EventError reports a session-level failure
	EventError

	// EventClosed fires once when the session ends; always the last event
	EventClosed
)

// Event is one message from the streaming speech session. The session
// state machine consumes these from a channel in a loop instead of
// registering callbacks, so transitions stay table-driven and testable.
type Event struct {
	Type EventType
	Text string // transcript fragment for EventTranscript
	PCM  []byte // decoded audio for EventAudio
	Err  error  // cause for EventError
}

// SessionConfig describes one streaming session
type SessionConfig struct {
	Model             string
	SystemInstruction string
	SampleRate        int // capture sample rate for the media mime type
}

// Stream is one live bidirectional speech session
type Stream interface {
	// SendMedia delivers one frame of raw 16-bit PCM to the backend
	SendMedia(pcm []byte) error

	// Events returns the session's event channel. The channel is
	// closed after EventClosed is delivered.
	Events() <-chan Event

	// Close tears the session down. Safe to call repeatedly.
	Close() error
}

// Dialer opens streaming sessions. The production implementation
// speaks the websocket wire protocol; tests substitute fakes.
type Dialer interface {
	Dial(ctx context.Context, token string, cfg SessionConfig) (Stream, error)
}
