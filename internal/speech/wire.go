package speech

// Wire types for the bidirectional streaming speech session.
// Outbound messages carry base64 PCM media; inbound messages carry
// incremental input transcription fragments, a turn-complete marker,
// and optionally synthesized interpreter audio.

// clientMessage is the envelope for all outbound messages
type clientMessage struct {
	Setup *setupPayload `json:"setup,omitempty"`
	Media *mediaPayload `json:"media,omitempty"`
}

// setupPayload opens the session: response modality, system
// instruction, and a request for inline transcription of caller audio
type setupPayload struct {
	Model                   string   `json:"model"`
	ResponseModalities      []string `json:"responseModalities"`
	SystemInstruction       string   `json:"systemInstruction,omitempty"`
	InputAudioTranscription bool     `json:"inputAudioTranscription"`
}

// mediaPayload carries one base64-encoded PCM frame
type mediaPayload struct {
	Data     string `json:"data"`
	MimeType string `json:"mimeType"`
}

// serverMessage is the envelope for all inbound messages
type serverMessage struct {
	ServerContent *serverContent `json:"serverContent,omitempty"`
}

type serverContent struct {
	InputTranscription *inputTranscription `json:"inputTranscription,omitempty"`
	TurnComplete       bool                `json:"turnComplete,omitempty"`
	Audio              *mediaPayload       `json:"audio,omitempty"`
}

type inputTranscription struct {
	Text string `json:"text"`
}
