package session

import (
	"sync"
	"time"
)

// Scheduler runs fn after d and returns a cancel func. The default
// implementation wraps time.AfterFunc; tests substitute their own to
// observe and control reconnect delays.
type Scheduler func(d time.Duration, fn func()) (cancel func())

func defaultScheduler(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// reconnectTimer owns at most one scheduled reconnect. Scheduling a
// new one replaces the old; Cancel is safe when nothing is scheduled.
type reconnectTimer struct {
	mu     sync.Mutex
	cancel func()
}

func (t *reconnectTimer) Schedule(s Scheduler, d time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
	}
	t.cancel = s(d, fn)
}

func (t *reconnectTimer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}
