package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/voxlate/live-interpreter/internal/audio"
	"github.com/voxlate/live-interpreter/internal/config"
	"github.com/voxlate/live-interpreter/internal/history"
	"github.com/voxlate/live-interpreter/internal/observability"
	"github.com/voxlate/live-interpreter/internal/playback"
	"github.com/voxlate/live-interpreter/internal/session"
	"github.com/voxlate/live-interpreter/internal/speech"
	"github.com/voxlate/live-interpreter/internal/translate"
	"github.com/voxlate/live-interpreter/internal/tts"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// Use fmt for fatal errors before logger is initialized
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	observability.InitLogger(cfg.LogLevel, cfg.LogPretty)
	logger := observability.GetLogger()

	logger.Info().
		Str("port", cfg.Port).
		Str("speech_endpoint", cfg.SpeechEndpoint).
		Str("source_lang", cfg.SourceLang).
		Str("target_lang", cfg.TargetLang).
		Str("log_level", cfg.LogLevel).
		Bool("metrics_enabled", cfg.MetricsEnabled).
		Msg("Live Interpreter starting")

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	metrics := observability.NewSessionMetrics(observability.NewCorrelationID())

	// Conversation history shared by the pipeline stages
	store := history.NewMemoryStore()

	// Translation pipeline
	translateClient := translate.NewClient(cfg.TranslateEndpoint, cfg.DetectEndpoint, cfg.TranslateModel, logger)
	dispatcher := translate.NewDispatcher(translateClient, store, logger, metrics)

	// Speech synthesis and playback
	speaker := playback.NewSpeaker(cfg.PlaybackSampleRate, cfg.FrameSize, logger)
	player := playback.NewEngine(speaker, logger)
	ttsClient := tts.NewClient(cfg.TTSEndpoint, logger)
	ttsCache := tts.NewMemoryCache(cfg.TTSCacheSize)
	ttsEngine := tts.NewEngine(ttsClient, ttsCache, store, player, tts.EngineConfig{
		Voice:    cfg.TTSVoice,
		Model:    cfg.TTSModel,
		ChunkMax: cfg.TTSChunkMax,
	}, logger, metrics)

	if cfg.TTSAutoPlay {
		dispatcher.OnTranslated = func(id, translated string) {
			go func() {
				if err := ttsEngine.Play(rootCtx, id, translated); err != nil {
					logger.Warn().Err(err).Str("turn_id", id).Msg("Auto-play failed")
				}
			}()
		}
	}

	// Streaming transcription session
	tokens := speech.NewTokenClient(cfg.TokenEndpoint, cfg.APIKey)
	dialer := &speech.WSDialer{Endpoint: cfg.SpeechEndpoint, Logger: logger}
	capture := audio.NewDeviceCapture(cfg.CaptureSampleRate, cfg.FrameSize, logger)

	sourceLangName := cfg.SourceLang
	if sourceLangName != "auto" {
		sourceLangName = translate.NameFor(cfg.SourceLang)
	}

	hooks := session.Hooks{
		OnPartial: func(text string) {
			logger.Debug().Str("partial", text).Msg("Transcript fragment")
		},
		OnTurnFinal: func(text string) {
			id := uuid.New().String()
			store.Append(&history.Record{ID: id, Original: text, IsTranslating: true})
			metrics.RecordTurnFinalized()
			go dispatcher.Translate(rootCtx, id, text, cfg.SourceLang, cfg.TargetLang)
		},
		OnAudio: func(pcm []byte) {
			metrics.RecordAudioBytes("out", int64(len(pcm)))
			samples, err := audio.BytesToInt16(pcm)
			if err != nil {
				logger.Warn().Err(err).Msg("Dropping malformed interpreter audio")
				return
			}
			samples = audio.Resample(samples, cfg.SpeechAudioRate, cfg.PlaybackSampleRate)
			go player.Play(rootCtx, samples)
		},
		OnStatus: func(st session.Status, msg string) {
			logger.Info().Str("status", st.String()).Str("detail", msg).Msg("Session status")
		},
	}

	mgr := session.NewManager(rootCtx, session.Config{
		Model:                cfg.SpeechModel,
		SourceLangName:       sourceLangName,
		CaptureSampleRate:    cfg.CaptureSampleRate,
		MaxReconnectAttempts: cfg.ReconnectMaxAttempts,
		InitialBackoff:       time.Duration(cfg.ReconnectBackoff) * time.Millisecond,
		MaxBackoff:           time.Duration(cfg.ReconnectMaxBackoff) * time.Millisecond,
	}, tokens, dialer, capture, hooks, logger, metrics)

	// Create HTTP server
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("/health", observability.HealthCheckHandler())

	// Readiness endpoint - each check validates one collaborator's
	// configuration without spending API quota
	checks := map[string]observability.HealthCheckFunc{
		"token_issuer": func(ctx context.Context) (bool, error) {
			if cfg.TokenEndpoint == "" || cfg.APIKey == "" {
				return false, fmt.Errorf("token issuer not configured")
			}
			return true, nil
		},
		"translate": func(ctx context.Context) (bool, error) {
			if cfg.TranslateEndpoint == "" {
				return false, fmt.Errorf("translation backend not configured")
			}
			return true, nil
		},
		"tts": func(ctx context.Context) (bool, error) {
			if cfg.TTSEndpoint == "" {
				return false, fmt.Errorf("synthesis backend not configured")
			}
			return true, nil
		},
	}
	mux.HandleFunc("/ready", observability.ReadinessHandler(checks))

	// Metrics endpoint (Prometheus)
	if cfg.MetricsEnabled {
		mux.Handle("/metrics", promhttp.Handler())
		logger.Info().Msg("Prometheus metrics enabled at /metrics")
	}

	// Create HTTP server with timeouts
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info().Str("port", cfg.Port).Msg("Server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Bring the microphone session up once the server is running
	go mgr.Connect(false)

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down...")

	mgr.Close()
	ttsEngine.Stop()
	stop()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited gracefully")
}
