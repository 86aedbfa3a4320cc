package translate

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/voxlate/live-interpreter/internal/history"
	"github.com/voxlate/live-interpreter/internal/observability"
)

// FailureMarker is stored as the translation when the backend fails.
// There is no automatic retry; the marker tells the reader what
// happened.
const FailureMarker = "번역 오류"

// Backend is the subset of Client the dispatcher needs.
type Backend interface {
	Translate(ctx context.Context, text, from, to string) (string, error)
	Detect(ctx context.Context, text string) (string, error)
}

// Dispatcher runs translations for finalized turns and writes the
// results back into the history store. Each turn id is translated at
// most once at a time: a second call for an id that is still in
// flight is dropped.
type Dispatcher struct {
	backend Backend
	store   history.Store
	logger  zerolog.Logger
	metrics *observability.Metrics

	// OnTranslated, when set, is called after a successful
	// translation has been stored. Used for auto-play.
	OnTranslated func(id, translated string)

	mu      sync.Mutex
	pending map[string]struct{}
}

// NewDispatcher creates a dispatcher writing into the given store.
func NewDispatcher(backend Backend, store history.Store, logger zerolog.Logger, metrics *observability.Metrics) *Dispatcher {
	return &Dispatcher{
		backend: backend,
		store:   store,
		logger:  logger.With().Str("component", "dispatcher").Logger(),
		metrics: metrics,
		pending: make(map[string]struct{}),
	}
}

// Translate translates one finalized turn and stores the result.
// Blocking; callers run it on its own goroutine. Duplicate calls for
// an id still in flight return immediately without a request.
func (d *Dispatcher) Translate(ctx context.Context, id, text, source, target string) {
	d.mu.Lock()
	if _, dup := d.pending[id]; dup {
		d.mu.Unlock()
		d.logger.Debug().Str("turn_id", id).Msg("translation already in flight, dropping")
		return
	}
	d.pending[id] = struct{}{}
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		delete(d.pending, id)
		d.mu.Unlock()
	}()

	from, to := source, target
	if from == AutoCode {
		detected, err := d.backend.Detect(ctx, text)
		if err != nil {
			// Detection is best effort; the backend handles
			// an unspecified source on its own.
			d.logger.Warn().Err(err).Str("turn_id", id).Msg("language detection failed")
		} else {
			from = detected
			to = resolveTarget(detected, target)
		}
	}

	if d.metrics != nil {
		d.metrics.RecordTranslateStart()
	}

	translated, err := d.backend.Translate(ctx, text, from, to)
	if err != nil {
		if d.metrics != nil {
			d.metrics.RecordTranslateEnd(false)
		}
		d.logger.Error().Err(err).Str("turn_id", id).Msg("translation failed")
		d.store.Update(id, func(r *history.Record) {
			r.Translated = FailureMarker
			r.IsTranslating = false
		})
		return
	}

	if d.metrics != nil {
		d.metrics.RecordTranslateEnd(true)
	}

	result := strings.TrimSpace(translated)
	d.store.Update(id, func(r *history.Record) {
		r.Translated = result
		r.IsTranslating = false
	})

	if d.OnTranslated != nil {
		d.OnTranslated(id, result)
	}
}
