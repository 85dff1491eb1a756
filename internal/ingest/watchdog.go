package ingest

import (
	"context"
	"log/slog"
	"time"

	"casque-hud/internal/telemetry"
)

// Watchdog raises lost_connection when the store has not received data for
// StaleAfter, and clears it again once data flows. It only writes the flag
// on transitions, so a source that manages the flag itself is not overridden
// while data is fresh.
type Watchdog struct {
	StaleAfter time.Duration
	Interval   time.Duration

	now     func() time.Time
	started time.Time
	stale   bool
	log     *slog.Logger
}

// NewWatchdog returns a watchdog polling four times per staleness window.
func NewWatchdog(staleAfter time.Duration) *Watchdog {
	if staleAfter <= 0 {
		staleAfter = 3 * time.Second
	}
	return &Watchdog{
		StaleAfter: staleAfter,
		Interval:   staleAfter / 4,
		now:        time.Now,
		log:        slog.Default().With("component", "watchdog"),
	}
}

// Check evaluates the store once and reports whether it is stale.
func (w *Watchdog) Check(store *telemetry.Store) bool {
	now := w.now()
	if w.started.IsZero() {
		w.started = now
	}
	last := store.LastUpdate()
	if last.IsZero() {
		last = w.started
	}
	stale := now.Sub(last) > w.StaleAfter
	if stale != w.stale {
		w.stale = stale
		store.SetLostConnection(stale)
		if stale {
			w.log.Warn("telemetry stale", "since", last, "after", w.StaleAfter)
		} else {
			w.log.Info("telemetry resumed")
		}
	}
	return stale
}

// Run polls the store until ctx is done.
func (w *Watchdog) Run(ctx context.Context, store *telemetry.Store) {
	interval := w.Interval
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	w.Check(store)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Check(store)
		}
	}
}
