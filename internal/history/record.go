package history

// TTSStatus tracks synthesis/playback state for one turn's play button
type TTSStatus string

const (
	TTSStatusNone    TTSStatus = ""
	TTSStatusLoading TTSStatus = "loading"
	TTSStatusPlaying TTSStatus = "playing"
	TTSStatusPaused  TTSStatus = "paused"
	TTSStatusError   TTSStatus = "error"
)

// Record is one conversation turn: the finalized source text and the
// state of its translation and synthesized speech. Records are owned
// by the history store; this core only mutates Translated,
// IsTranslating, AudioBase64, and TTSStatus.
type Record struct {
	ID            string
	Original      string
	Translated    string
	IsTranslating bool
	AudioBase64   string
	TTSStatus     TTSStatus
}
