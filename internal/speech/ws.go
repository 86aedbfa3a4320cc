package speech

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// WSDialer opens streaming speech sessions over websocket
type WSDialer struct {
	Endpoint string
	Logger   zerolog.Logger
}

// Dial opens a session authenticated by a single-use token and sends
// the setup message before returning
func (d *WSDialer) Dial(ctx context.Context, token string, cfg SessionConfig) (Stream, error) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, d.Endpoint, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("failed to open speech session (status %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("failed to open speech session: %w", err)
	}

	setup := clientMessage{Setup: &setupPayload{
		Model:                   cfg.Model,
		ResponseModalities:      []string{"AUDIO"},
		SystemInstruction:       cfg.SystemInstruction,
		InputAudioTranscription: true,
	}}
	if err := conn.WriteJSON(setup); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to send session setup: %w", err)
	}

	s := &wsStream{
		conn:       conn,
		sampleRate: cfg.SampleRate,
		events:     make(chan Event, 32),
		logger:     d.Logger,
	}
	s.events <- Event{Type: EventOpened}
	go s.readPump()
	return s, nil
}

type wsStream struct {
	conn       *websocket.Conn
	sampleRate int
	events     chan Event
	logger     zerolog.Logger

	writeMu   sync.Mutex
	closeOnce sync.Once
}

// SendMedia delivers one frame of raw PCM as a base64 media message
func (s *wsStream) SendMedia(pcm []byte) error {
	msg := clientMessage{Media: &mediaPayload{
		Data:     base64.StdEncoding.EncodeToString(pcm),
		MimeType: fmt.Sprintf("audio/pcm;rate=%d", s.sampleRate),
	}}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("failed to send audio frame: %w", err)
	}
	return nil
}

// Events returns the session's event channel
func (s *wsStream) Events() <-chan Event {
	return s.events
}

// Close tears the session down. Safe to call repeatedly.
func (s *wsStream) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.writeMu.Lock()
		_ = s.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		s.writeMu.Unlock()
		err = s.conn.Close()
	})
	return err
}

// readPump reads inbound messages until the connection ends, then
// emits EventClosed and closes the event channel
func (s *wsStream) readPump() {
	defer func() {
		s.events <- Event{Type: EventClosed}
		close(s.events)
	}()

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.events <- Event{Type: EventError, Err: err}
			}
			return
		}

		var msg serverMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to parse server message")
			continue
		}
		if msg.ServerContent == nil {
			continue
		}

		sc := msg.ServerContent
		if sc.InputTranscription != nil && sc.InputTranscription.Text != "" {
			s.events <- Event{Type: EventTranscript, Text: sc.InputTranscription.Text}
		}
		if sc.Audio != nil && sc.Audio.Data != "" {
			pcm, err := base64.StdEncoding.DecodeString(sc.Audio.Data)
			if err != nil {
				s.logger.Warn().Err(err).Msg("Failed to decode interpreter audio")
			} else {
				s.events <- Event{Type: EventAudio, PCM: pcm}
			}
		}
		if sc.TurnComplete {
			s.events <- Event{Type: EventTurnComplete}
		}
	}
}
