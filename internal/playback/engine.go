// Package playback owns the single audio output path. Only one clip
// plays at a time; starting a new one interrupts whatever is playing.
package playback

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Sink renders PCM samples to an output device. Play blocks until the
// clip finishes or ctx is cancelled.
type Sink interface {
	Play(ctx context.Context, pcm []int16) error
}

// Engine serializes playback onto a Sink. Play interrupts the current
// clip before starting the next one, so overlapping speech is never
// audible.
type Engine struct {
	sink   Sink
	logger zerolog.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	playing bool
}

// NewEngine creates an engine over the given sink.
func NewEngine(sink Sink, logger zerolog.Logger) *Engine {
	return &Engine{
		sink:   sink,
		logger: logger.With().Str("component", "playback").Logger(),
	}
}

// Play renders pcm, first stopping any clip already playing. It
// blocks until the clip finishes, is interrupted, or ctx is
// cancelled. An interrupted clip is not an error.
func (e *Engine) Play(ctx context.Context, pcm []int16) error {
	e.interrupt()

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	e.mu.Lock()
	e.cancel = cancel
	e.done = done
	e.playing = true
	e.mu.Unlock()

	err := e.sink.Play(ctx, pcm)

	e.mu.Lock()
	if e.done == done {
		e.cancel = nil
		e.done = nil
		e.playing = false
	}
	e.mu.Unlock()
	cancel()
	close(done)

	if err != nil && ctx.Err() != nil {
		// Interrupted by Stop or a newer clip.
		return nil
	}
	return err
}

// Stop interrupts the current clip, if any, and waits for it to
// drain.
func (e *Engine) Stop() {
	e.interrupt()
}

// Playing reports whether a clip is currently being rendered.
func (e *Engine) Playing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playing
}

func (e *Engine) interrupt() {
	e.mu.Lock()
	cancel, done := e.cancel, e.done
	e.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}
