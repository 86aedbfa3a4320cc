package tts

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/voxlate/live-interpreter/internal/audio"
	"github.com/voxlate/live-interpreter/internal/history"
	"github.com/voxlate/live-interpreter/internal/observability"
)

// Synthesizer renders text to base64 PCM.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice, model string) (string, error)
}

// Player renders decoded PCM. Play blocks until the clip finishes or
// is interrupted; Stop interrupts the current clip.
type Player interface {
	Play(ctx context.Context, pcm []int16) error
	Stop()
}

// EngineConfig carries the synthesis settings for one engine.
type EngineConfig struct {
	Voice    string
	Model    string
	ChunkMax int
}

// Engine drives synthesis and playback for one turn at a time. Long
// text is split into chunks; the first chunk plays while the rest are
// still being synthesized. Finished audio is merged and cached so a
// replay needs no network.
type Engine struct {
	synth   Synthesizer
	cache   Cache
	store   history.Store
	player  Player
	cfg     EngineConfig
	logger  zerolog.Logger
	metrics *observability.Metrics

	// errClearDelay is how long an error status stays on a record
	// before clearing itself. Shortened in tests.
	errClearDelay time.Duration
	// playGap separates consecutive turns in PlayAll.
	playGap time.Duration
}

// NewEngine creates a playback engine.
func NewEngine(synth Synthesizer, cache Cache, store history.Store, player Player, cfg EngineConfig, logger zerolog.Logger, metrics *observability.Metrics) *Engine {
	if cfg.ChunkMax <= 0 {
		cfg.ChunkMax = 200
	}
	return &Engine{
		synth:         synth,
		cache:         cache,
		store:         store,
		player:        player,
		cfg:           cfg,
		logger:        logger.With().Str("component", "tts_engine").Logger(),
		metrics:       metrics,
		errClearDelay: 3 * time.Second,
		playGap:       500 * time.Millisecond,
	}
}

// Play speaks the given text for the turn with the given id. Cached
// audio replays without touching the network; otherwise the text is
// chunked, synthesized, played, and the merged result cached. Blocks
// until playback ends.
func (e *Engine) Play(ctx context.Context, id, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	key := CacheKey(id, e.cfg.Voice, e.cfg.Model)

	// Audio memoized on the record replays without any lookup.
	if rec := e.store.Get(id); rec != nil && rec.AudioBase64 != "" {
		return e.playCached(ctx, id, rec.AudioBase64)
	}

	if b64, ok := e.cache.Get(key); ok {
		if e.metrics != nil {
			e.metrics.RecordTTSCacheLookup(true)
		}
		// Hydrate the record so the next replay skips the cache.
		e.store.Update(id, func(r *history.Record) {
			r.AudioBase64 = b64
		})
		return e.playCached(ctx, id, b64)
	}
	if e.metrics != nil {
		e.metrics.RecordTTSCacheLookup(false)
	}

	return e.synthesizeAndPlay(ctx, id, key, text)
}

func (e *Engine) playCached(ctx context.Context, id, b64 string) error {
	pcm, err := decodeAudio(b64)
	if err != nil {
		e.setError(id, err)
		return err
	}

	e.setStatus(id, history.TTSStatusPlaying)
	err = e.player.Play(ctx, pcm)
	e.setStatus(id, history.TTSStatusNone)
	return err
}

func (e *Engine) synthesizeAndPlay(ctx context.Context, id, key, text string) error {
	e.setStatus(id, history.TTSStatusLoading)

	chunks := SplitChunks(text, e.cfg.ChunkMax)
	if len(chunks) == 0 {
		e.setStatus(id, history.TTSStatusNone)
		return nil
	}

	e.logger.Debug().
		Str("turn_id", id).
		Int("chunks", len(chunks)).
		Msg("synthesizing turn")

	// playDone carries the previous chunk's playback result so the
	// next chunk can synthesize while the current one is audible.
	playDone := make(chan error, 1)
	playDone <- nil

	var merged []byte
	for i, chunk := range chunks {
		if e.metrics != nil {
			e.metrics.RecordTTSStart()
		}
		b64, err := e.synth.Synthesize(ctx, chunk, e.cfg.Voice, e.cfg.Model)
		if err != nil {
			if e.metrics != nil {
				e.metrics.RecordTTSEnd(false)
			}
			<-playDone
			e.setError(id, err)
			return fmt.Errorf("synthesize chunk %d: %w", i, err)
		}
		if e.metrics != nil {
			e.metrics.RecordTTSEnd(true)
		}

		pcmBytes, err := base64.StdEncoding.DecodeString(b64)
		if err != nil {
			<-playDone
			e.setError(id, err)
			return fmt.Errorf("decode chunk %d: %w", i, err)
		}
		merged = append(merged, pcmBytes...)

		samples, err := audio.BytesToInt16(pcmBytes)
		if err != nil {
			<-playDone
			e.setError(id, err)
			return fmt.Errorf("decode chunk %d: %w", i, err)
		}

		if err := <-playDone; err != nil {
			e.setError(id, err)
			return err
		}
		if i == 0 {
			e.setStatus(id, history.TTSStatusPlaying)
		}
		go func(s []int16) {
			playDone <- e.player.Play(ctx, s)
		}(samples)
	}

	err := <-playDone
	if err != nil {
		e.setError(id, err)
		return err
	}

	mergedB64 := base64.StdEncoding.EncodeToString(merged)
	e.cache.Put(key, mergedB64)
	e.store.Update(id, func(r *history.Record) {
		r.AudioBase64 = mergedB64
		r.TTSStatus = history.TTSStatusNone
	})
	return nil
}

// Stop interrupts playback and clears the playing status on every
// record that carries it.
func (e *Engine) Stop() {
	e.player.Stop()
	for _, rec := range e.store.All() {
		if rec.TTSStatus == history.TTSStatusPlaying {
			e.store.Update(rec.ID, func(r *history.Record) {
				r.TTSStatus = history.TTSStatusNone
			})
		}
	}
}

// PlayAll speaks every translated turn in order, separated by a short
// gap. Stops at the first playback error or when ctx is cancelled.
func (e *Engine) PlayAll(ctx context.Context) error {
	records := e.store.All()
	first := true
	for _, rec := range records {
		if rec.Translated == "" || rec.IsTranslating {
			continue
		}
		if !first {
			select {
			case <-time.After(e.playGap):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		first = false
		if err := e.Play(ctx, rec.ID, rec.Translated); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return nil
}

// decodeAudio converts base64 PCM into samples for the player.
func decodeAudio(b64 string) ([]int16, error) {
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("decode audio: %w", err)
	}
	return audio.BytesToInt16(raw)
}

func (e *Engine) setStatus(id string, status history.TTSStatus) {
	e.store.Update(id, func(r *history.Record) {
		r.TTSStatus = status
	})
}

// setError marks the record failed; the mark clears itself so a later
// replay attempt starts clean.
func (e *Engine) setError(id string, err error) {
	e.logger.Error().Err(err).Str("turn_id", id).Msg("speech synthesis failed")
	if e.metrics != nil {
		e.metrics.RecordError("tts", "tts_engine")
	}
	e.setStatus(id, history.TTSStatusError)
	time.AfterFunc(e.errClearDelay, func() {
		e.store.Update(id, func(r *history.Record) {
			if r.TTSStatus == history.TTSStatusError {
				r.TTSStatus = history.TTSStatusNone
			}
		})
	})
}
