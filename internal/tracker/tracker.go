// SPDX-License-Identifier: MIT

// Package tracker is the service layer around the phase counter: it
// serializes delivery, persists snapshots across destroy/recreate cycles,
// journals entries and feeds metrics. All dependencies are injected; the
// tracker owns no ambient state.
package tracker

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/phasekit/lifecount/internal/counter"
	"github.com/phasekit/lifecount/internal/log"
	"github.com/phasekit/lifecount/internal/metrics"
	"github.com/phasekit/lifecount/internal/phase"
	"github.com/phasekit/lifecount/internal/store"
)

// Journal is the subset of the journal surface the tracker drives. A nil
// Journal disables journaling.
type Journal interface {
	Append(ctx context.Context, phase string) error
	Reset(ctx context.Context) error
}

// Options configure optional tracker behaviour.
type Options struct {
	// Strict logs and counts phase entries that no legal walk of the
	// external lifecycle machine would produce. Delivery is still
	// accepted: the counter is an observer, not a gatekeeper.
	Strict bool
}

// Tracker coordinates the counter with its collaborators. The external
// lifecycle owner guarantees serialized callback delivery; the mutex
// extends that guarantee to concurrent HTTP transports.
type Tracker struct {
	mu      sync.Mutex
	counter *counter.Counter
	store   store.Store
	journal Journal
	opts    Options
	logger  zerolog.Logger

	hasPrev bool
	prev    phase.Phase
}

// New creates a tracker with all counts at zero. Call Restore to pick up
// a persisted snapshot.
func New(st store.Store, jnl Journal, opts Options) *Tracker {
	return &Tracker{
		counter: counter.New(),
		store:   st,
		journal: jnl,
		opts:    opts,
		logger:  log.WithComponent("tracker"),
	}
}

// Record handles one phase-entry notification: increment, journal,
// metrics, and the strict-mode consistency check. It returns the updated
// snapshot.
func (t *Tracker) Record(ctx context.Context, p phase.Phase) counter.State {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.opts.Strict {
		t.checkTransition(p)
	}

	snap := t.counter.Record(p)
	metrics.RecordPhaseEntry(p.String(), snap[p])

	if t.journal != nil {
		if err := t.journal.Append(ctx, p.String()); err != nil {
			metrics.RecordJournalError()
			t.logger.Warn().Err(err).
				Str(log.FieldPhase, p.String()).
				Str(log.FieldEvent, "journal.append_failed").
				Msg("phase entry not journaled")
		}
	}

	t.prev = p
	t.hasPrev = true

	t.logger.Debug().
		Str(log.FieldPhase, p.String()).
		Int64(log.FieldCount, snap[p]).
		Str(log.FieldEvent, "phase.recorded").
		Msg("phase entry recorded")
	return snap
}

// checkTransition flags deliveries inconsistent with the external
// machine. Callers hold the mutex.
func (t *Tracker) checkTransition(next phase.Phase) {
	if !t.hasPrev {
		if !phase.First(next) {
			metrics.RecordIllegalTransition("", next.String())
			t.logger.Warn().
				Str(log.FieldPhase, next.String()).
				Str(log.FieldEvent, "phase.unexpected_first").
				Msg("first phase entry is not Created")
		}
		return
	}
	if !phase.CanFollow(t.prev, next) {
		metrics.RecordIllegalTransition(t.prev.String(), next.String())
		t.logger.Warn().
			Str(log.FieldPrevPhase, t.prev.String()).
			Str(log.FieldPhase, next.String()).
			Str(log.FieldEvent, "phase.illegal_transition").
			Msg("phase entry inconsistent with lifecycle machine")
	}
}

// Snapshot returns the current counts.
func (t *Tracker) Snapshot() counter.State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counter.Snapshot()
}

// Render returns the fixed-order textual rendering of the current counts.
func (t *Tracker) Render() string {
	return counter.Render(t.Snapshot())
}

// Reset zeroes the counts and the journal. Normal operation never calls
// this; it backs the explicit reset surface.
func (t *Tracker) Reset(ctx context.Context) counter.State {
	t.mu.Lock()
	defer t.mu.Unlock()

	snap := t.counter.Reset()
	t.hasPrev = false
	metrics.RecordReset()
	for _, p := range phase.Order {
		metrics.SetPhaseCount(p.String(), 0)
	}

	if t.journal != nil {
		if err := t.journal.Reset(ctx); err != nil {
			t.logger.Warn().Err(err).
				Str(log.FieldEvent, "journal.reset_failed").
				Msg("journal not cleared on reset")
		}
	}

	t.logger.Info().Str(log.FieldEvent, "counts.reset").Msg("counts reset to zero")
	return snap
}

// Save serializes the current counts into the snapshot store. Called
// before teardown.
func (t *Tracker) Save(ctx context.Context) error {
	t.mu.Lock()
	data := counter.Serialize(t.counter.Snapshot())
	t.mu.Unlock()

	if err := t.store.Save(ctx, data); err != nil {
		metrics.RecordStoreError("save")
		return err
	}
	t.logger.Info().Str(log.FieldEvent, "snapshot.saved").Msg("counts persisted")
	return nil
}

// Restore loads the persisted snapshot into the counter. It never fails:
// a missing snapshot starts from zero, and corrupted persisted state
// degrades to zero counts rather than breaking recreation.
func (t *Tracker) Restore(ctx context.Context) {
	data, err := t.store.Load(ctx)
	switch {
	case errors.Is(err, store.ErrNoSnapshot):
		metrics.RecordRestore("empty")
		t.logger.Info().Str(log.FieldEvent, "snapshot.none").Msg("no persisted counts, starting from zero")
		return
	case err != nil:
		metrics.RecordRestore("corrupt")
		metrics.RecordStoreError("load")
		t.logger.Warn().Err(err).
			Str(log.FieldEvent, "snapshot.load_failed").
			Msg("persisted counts unreadable, starting from zero")
		return
	}

	restored := counter.Restore(data)

	t.mu.Lock()
	t.counter = counter.NewFromState(restored)
	t.hasPrev = false
	t.mu.Unlock()

	for _, p := range phase.Order {
		metrics.SetPhaseCount(p.String(), restored[p])
	}
	metrics.RecordRestore("restored")
	t.logger.Info().Str(log.FieldEvent, "snapshot.restored").Msg("counts restored from snapshot")
}
