// SPDX-License-Identifier: MIT

package health

import (
	"context"
	"time"
)

// StoreChecker verifies that the snapshot store answers a Load call.
type StoreChecker struct {
	load func(ctx context.Context) error
}

// NewStoreChecker wraps a store probe. The probe should return nil both
// for a readable snapshot and for a cleanly-absent one.
func NewStoreChecker(load func(ctx context.Context) error) *StoreChecker {
	return &StoreChecker{load: load}
}

func (c *StoreChecker) Name() string { return "store" }

func (c *StoreChecker) Check(ctx context.Context) CheckResult {
	probeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := c.load(probeCtx); err != nil {
		return CheckResult{
			Status: StatusUnhealthy,
			Error:  err.Error(),
		}
	}
	return CheckResult{
		Status:  StatusHealthy,
		Message: "snapshot store reachable",
	}
}

// Pinger is anything with a context Ping, like the journal.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingChecker reports healthy while the wrapped component answers pings.
type PingChecker struct {
	name   string
	target Pinger
}

// NewPingChecker creates a checker around a pingable component. A nil
// target reports healthy as "not configured".
func NewPingChecker(name string, target Pinger) *PingChecker {
	return &PingChecker{name: name, target: target}
}

func (c *PingChecker) Name() string { return c.name }

func (c *PingChecker) Check(ctx context.Context) CheckResult {
	if c.target == nil {
		return CheckResult{
			Status:  StatusHealthy,
			Message: "not configured (optional)",
		}
	}

	probeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := c.target.Ping(probeCtx); err != nil {
		return CheckResult{
			Status: StatusUnhealthy,
			Error:  err.Error(),
		}
	}
	return CheckResult{Status: StatusHealthy}
}
