package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the live interpreter gateway
type Config struct {
	// Server configuration
	Port string `envconfig:"PORT" default:"8080"`

	// Speech streaming backend configuration
	SpeechEndpoint string `envconfig:"SPEECH_ENDPOINT" required:"true"` // wss:// URL of the streaming speech session
	SpeechModel    string `envconfig:"SPEECH_MODEL" default:"live-transcribe-1"`
	TokenEndpoint  string `envconfig:"TOKEN_ENDPOINT" required:"true"` // POST endpoint issuing single-use session tokens
	APIKey         string `envconfig:"API_KEY" required:"true"`

	// Language configuration. SOURCE_LANG "auto" means detect at runtime.
	SourceLang string `envconfig:"SOURCE_LANG" default:"auto"`
	TargetLang string `envconfig:"TARGET_LANG" default:"ko"`

	// Translation backend configuration
	TranslateEndpoint string `envconfig:"TRANSLATE_ENDPOINT" required:"true"`
	DetectEndpoint    string `envconfig:"DETECT_ENDPOINT" required:"true"`
	TranslateModel    string `envconfig:"TRANSLATE_MODEL" default:"translate-2"`

	// TTS backend configuration
	TTSEndpoint  string `envconfig:"TTS_ENDPOINT" required:"true"`
	TTSVoice     string `envconfig:"TTS_VOICE" default:"aria"`
	TTSModel     string `envconfig:"TTS_MODEL" default:"speech-1"`
	TTSAutoPlay  bool   `envconfig:"TTS_AUTO_PLAY" default:"true"`
	TTSChunkMax  int    `envconfig:"TTS_CHUNK_MAX" default:"200"`  // max characters per synthesis request
	TTSCacheSize int    `envconfig:"TTS_CACHE_SIZE" default:"100"` // cached audio entries before eviction

	// Audio configuration
	CaptureSampleRate  int `envconfig:"CAPTURE_SAMPLE_RATE" default:"16000"`
	PlaybackSampleRate int `envconfig:"PLAYBACK_SAMPLE_RATE" default:"24000"`
	SpeechAudioRate    int `envconfig:"SPEECH_AUDIO_RATE" default:"24000"` // rate of interpreter audio from the speech backend
	FrameSize          int `envconfig:"FRAME_SIZE" default:"4096"`         // samples per capture frame

	// Reconnection configuration
	ReconnectMaxAttempts int `envconfig:"RECONNECT_MAX_ATTEMPTS" default:"3"`
	ReconnectBackoff     int `envconfig:"RECONNECT_BACKOFF" default:"1000"` // initial backoff in milliseconds
	ReconnectMaxBackoff  int `envconfig:"RECONNECT_MAX_BACKOFF" default:"8000"`

	// Observability configuration
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`       // Log level: debug, info, warn, error
	LogPretty      bool   `envconfig:"LOG_PRETTY" default:"false"`     // Pretty print logs (for development)
	MetricsEnabled bool   `envconfig:"METRICS_ENABLED" default:"true"` // Enable Prometheus metrics
}

// Load reads configuration from environment variables
// It first attempts to load from .env file if it exists, then from environment
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	return LoadFromEnv()
}

// LoadFromEnv loads configuration directly from environment variables
// without attempting to load .env file (useful for containerized deployments)
func LoadFromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY is required")
	}
	if cfg.TTSChunkMax <= 0 {
		return nil, fmt.Errorf("TTS_CHUNK_MAX must be positive")
	}
	if cfg.CaptureSampleRate <= 0 || cfg.PlaybackSampleRate <= 0 {
		return nil, fmt.Errorf("sample rates must be positive")
	}

	return &cfg, nil
}

// GetEnv returns the value of an environment variable or a default value
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
