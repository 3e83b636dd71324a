// SPDX-License-Identifier: MIT

// Package driver simulates the external lifecycle owner: it replays a
// scripted sequence of phase entries against a tracker, optionally
// pausing for a save/recreate/restore cycle mid-run. lifecount itself
// never generates transitions; this replayer stands in for the host that
// does.
package driver

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/phasekit/lifecount/internal/log"
	"github.com/phasekit/lifecount/internal/phase"
	"github.com/phasekit/lifecount/internal/tracker"
)

// Step is a single scripted action.
type Step struct {
	// Enter delivers one phase entry (the normal case).
	Enter phase.Phase
	// Recreate, when set, simulates the destroy/recreate cycle instead:
	// save the snapshot, then restore it into the tracker as a fresh
	// process would.
	Recreate bool
}

// Rotation is the canonical demo script: first launch, a configuration
// change destroying and recreating the component, then the launch
// sequence again. The expected outcome is every launch-phase count at 2.
var Rotation = []Step{
	{Enter: phase.Created},
	{Enter: phase.Started},
	{Enter: phase.Resumed},
	{Recreate: true},
	{Enter: phase.Created},
	{Enter: phase.Started},
	{Enter: phase.Resumed},
}

// Background is a script covering the full visible cycle: launch,
// background, return to foreground.
var Background = []Step{
	{Enter: phase.Created},
	{Enter: phase.Started},
	{Enter: phase.Resumed},
	{Enter: phase.Paused},
	{Enter: phase.Stopped},
	{Enter: phase.Started},
	{Enter: phase.Resumed},
}

// Driver replays scripts against a tracker.
type Driver struct {
	tracker *tracker.Tracker
	limiter *rate.Limiter
}

// New creates a driver delivering at most stepsPerSecond entries per
// second. A non-positive rate delivers as fast as the tracker accepts.
func New(tr *tracker.Tracker, stepsPerSecond float64) *Driver {
	var limiter *rate.Limiter
	if stepsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(stepsPerSecond), 1)
	}
	return &Driver{tracker: tr, limiter: limiter}
}

// Run replays the script in order. Delivery is strictly sequential, like
// host lifecycle callbacks. Cancelling the context stops the replay.
func (d *Driver) Run(ctx context.Context, script []Step) error {
	logger := log.WithComponent("driver")

	for i, step := range script {
		if d.limiter != nil {
			if err := d.limiter.Wait(ctx); err != nil {
				return fmt.Errorf("replay interrupted at step %d: %w", i, err)
			}
		} else if err := ctx.Err(); err != nil {
			return fmt.Errorf("replay interrupted at step %d: %w", i, err)
		}

		if step.Recreate {
			if err := d.tracker.Save(ctx); err != nil {
				return fmt.Errorf("save before recreate: %w", err)
			}
			d.tracker.Restore(ctx)
			logger.Info().Str(log.FieldEvent, "driver.recreated").Msg("simulated destroy/recreate cycle")
			continue
		}

		d.tracker.Record(ctx, step.Enter)
	}

	logger.Info().
		Int("steps", len(script)).
		Str(log.FieldEvent, "driver.done").
		Msg("script replay complete")
	return nil
}
