// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package waiter models "wait until the status field says ready" as a small
// state machine with one polling loop, reused by every resource kind the
// helper waits on. Probes are paced by a token bucket so a tight poll never
// hammers the API server.
package waiter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/defaults"
	hwperrors "github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/errors"
)

// State is the observed condition of a waited-on resource.
type State string

const (
	// StatePending means the resource has not reached the target state yet.
	StatePending State = "Pending"
	// StateReady means the resource reached the target state.
	StateReady State = "Ready"
	// StateFailed means the resource reported a terminal failure.
	StateFailed State = "Failed"
	// StateTimedOut means the bounded wait expired before Ready or Failed.
	StateTimedOut State = "TimedOut"
)

// Probe inspects the resource once and classifies it. Returning StateFailed
// ends the wait immediately; the optional message is attached to the error.
type Probe func(ctx context.Context) (State, string, error)

// Waiter runs bounded, rate-limited status waits.
type Waiter struct {
	interval time.Duration
	limiter  *rate.Limiter
}

// New creates a Waiter with the default poll interval and rate cap.
func New() *Waiter {
	return &Waiter{
		interval: defaults.PollInterval,
		limiter:  rate.NewLimiter(rate.Limit(defaults.PollRatePerSecond), 1),
	}
}

// NewWithInterval creates a Waiter with a custom poll interval, mainly for tests.
func NewWithInterval(interval time.Duration) *Waiter {
	return &Waiter{
		interval: interval,
		limiter:  rate.NewLimiter(rate.Inf, 1),
	}
}

// Wait polls the probe until it reports Ready, reports Failed, or the timeout
// expires. The description names the resource in logs and errors
// (e.g. "csv rhods-operator.v3.0.0"). The returned State is always one of
// Ready, Failed or TimedOut.
func (w *Waiter) Wait(ctx context.Context, description string, timeout time.Duration, probe Probe) (State, error) {
	slog.Debug("waiting", "target", description, "timeout", timeout)

	var lastMsg string
	err := wait.PollUntilContextTimeout(ctx, w.interval, timeout, true,
		func(ctx context.Context) (bool, error) {
			if err := w.limiter.Wait(ctx); err != nil {
				return false, err
			}

			state, msg, err := probe(ctx)
			if err != nil {
				return false, err
			}
			lastMsg = msg

			switch state {
			case StateReady:
				return true, nil
			case StateFailed:
				return false, hwperrors.New(hwperrors.ErrCodeInternal,
					fmt.Sprintf("%s failed: %s", description, msg))
			default:
				slog.Debug("still waiting", "target", description, "state", state, "detail", msg)
				return false, nil
			}
		},
	)

	switch {
	case err == nil:
		slog.Debug("wait satisfied", "target", description)
		return StateReady, nil
	case wait.Interrupted(err):
		return StateTimedOut, hwperrors.WrapWithContext(hwperrors.ErrCodeTimeout,
			fmt.Sprintf("timed out waiting for %s after %v", description, timeout), err,
			map[string]any{"lastState": lastMsg})
	default:
		return StateFailed, err
	}
}
