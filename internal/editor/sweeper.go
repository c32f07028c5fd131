package editor

import (
	"context"
	"log/slog"
	"time"

	"github.com/pricebook/pricebook/internal/draft"
)

// Sweeper discards editor sessions that have been idle longer than a timeout,
// the server-side counterpart of a closed browser tab. Nothing is committed.
type Sweeper struct {
	store    *Store
	idle     time.Duration
	interval time.Duration
	now      func() time.Time
}

// NewSweeper creates a new Sweeper.
func NewSweeper(store *Store, idle, interval time.Duration) *Sweeper {
	return &Sweeper{
		store:    store,
		idle:     idle,
		interval: interval,
		now:      time.Now,
	}
}

// Start begins the sweep loop. It blocks until ctx is cancelled.
func (sw *Sweeper) Start(ctx context.Context) {
	slog.Info("editor sweeper started", "interval", sw.interval.String(), "idleTimeout", sw.idle.String())
	ticker := time.NewTicker(sw.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("editor sweeper stopped")
			return
		case <-ticker.C:
			sw.Sweep()
		}
	}
}

// Sweep evicts idle sessions once and returns how many were discarded.
// Sessions waiting on a save result are left alone.
func (sw *Sweeper) Sweep() int {
	cutoff := sw.now().Add(-sw.idle)
	evicted := 0

	for id, e := range sw.store.snapshot() {
		e.mu.Lock()
		sess := e.session
		expired := false
		switch sess.State() {
		case draft.StateClosed:
			expired = true
		case draft.StateEditing:
			if sess.LastActivity().Before(cutoff) {
				_ = sess.Cancel()
				expired = true
			}
		}
		e.mu.Unlock()

		if expired {
			sw.store.Delete(id)
			evicted++
			slog.Debug("editor sweeper: discarded idle session", "sessionId", id, "kind", sess.Scope().Kind)
		}
	}

	if evicted > 0 {
		slog.Info("editor sweeper: discarded idle sessions", "count", evicted)
	}
	return evicted
}
