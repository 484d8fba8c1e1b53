// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

package waiter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hwperrors "github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/errors"
)

func TestWait_ReadyAfterPending(t *testing.T) {
	w := NewWithInterval(time.Millisecond)

	calls := 0
	state, err := w.Wait(context.Background(), "test resource", time.Second,
		func(_ context.Context) (State, string, error) {
			calls++
			if calls < 3 {
				return StatePending, "phase=Installing", nil
			}
			return StateReady, "", nil
		})

	require.NoError(t, err)
	assert.Equal(t, StateReady, state)
	assert.Equal(t, 3, calls)
}

func TestWait_ImmediateReady(t *testing.T) {
	w := NewWithInterval(time.Millisecond)

	state, err := w.Wait(context.Background(), "test resource", time.Second,
		func(_ context.Context) (State, string, error) {
			return StateReady, "", nil
		})

	require.NoError(t, err)
	assert.Equal(t, StateReady, state)
}

func TestWait_Failed(t *testing.T) {
	w := NewWithInterval(time.Millisecond)

	state, err := w.Wait(context.Background(), "csv rhods-operator", time.Second,
		func(_ context.Context) (State, string, error) {
			return StateFailed, "InstallCheckFailed", nil
		})

	require.Error(t, err)
	assert.Equal(t, StateFailed, state)
	assert.Contains(t, err.Error(), "InstallCheckFailed")
}

func TestWait_Timeout(t *testing.T) {
	w := NewWithInterval(time.Millisecond)

	state, err := w.Wait(context.Background(), "slow resource", 25*time.Millisecond,
		func(_ context.Context) (State, string, error) {
			return StatePending, "phase=Pending", nil
		})

	require.Error(t, err)
	assert.Equal(t, StateTimedOut, state)
	assert.Equal(t, hwperrors.ErrCodeTimeout, hwperrors.CodeOf(err))
}

func TestWait_ProbeError(t *testing.T) {
	w := NewWithInterval(time.Millisecond)

	probeErr := hwperrors.New(hwperrors.ErrCodeFetchFailed, "get failed")
	state, err := w.Wait(context.Background(), "broken resource", time.Second,
		func(_ context.Context) (State, string, error) {
			return StatePending, "", probeErr
		})

	require.ErrorIs(t, err, probeErr)
	assert.Equal(t, StateFailed, state)
}

func TestWait_ContextCanceled(t *testing.T) {
	w := NewWithInterval(time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	state, _ := w.Wait(ctx, "canceled", time.Second,
		func(_ context.Context) (State, string, error) {
			return StatePending, "", nil
		})

	assert.Equal(t, StateTimedOut, state)
}
