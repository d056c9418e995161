/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bridgeErrors "mlbridge/common/errors"
)

var transportErr = bridgeErrors.NewCommonBridgeError(bridgeErrors.ErrorTypeTransport, "connection refused")

func failingUntil(successOn uint, calls *uint) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		*calls++
		if successOn > 0 && *calls >= successOn {
			return nil
		}
		return transportErr
	}
}

func TestPolicy_RetryBound(t *testing.T) {
	tests := []struct {
		name         string
		maxRetries   uint
		successOn    uint
		wantAttempts uint
		wantErr      bool
	}{
		{name: "no retries, always failing", maxRetries: 0, successOn: 0, wantAttempts: 1, wantErr: true},
		{name: "N retries, always failing", maxRetries: 3, successOn: 0, wantAttempts: 4, wantErr: true},
		{name: "succeeds first time", maxRetries: 3, successOn: 1, wantAttempts: 1},
		{name: "succeeds on attempt k", maxRetries: 3, successOn: 3, wantAttempts: 3},
		{name: "succeeds on last allowed attempt", maxRetries: 3, successOn: 4, wantAttempts: 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls uint
			policy := NewPolicy(tt.maxRetries, 0)

			attempts, err := policy.Run(context.Background(), failingUntil(tt.successOn, &calls))

			assert.Equal(t, tt.wantAttempts, calls)
			assert.Equal(t, tt.wantAttempts, attempts)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, bridgeErrors.IsErrorType(err, bridgeErrors.ErrorTypeTransport))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPolicy_NonRetryableShortCircuits(t *testing.T) {
	var calls int
	failed := bridgeErrors.NewCommonBridgeError(bridgeErrors.ErrorTypeWorkerJobFailed, "worker reason: bad model")

	err := NewPolicy(10, time.Millisecond).Do(context.Background(), func(ctx context.Context) error {
		calls++
		return failed
	})

	assert.Equal(t, 1, calls)
	assert.Equal(t, failed, err)
}

func TestPolicy_OnRetry(t *testing.T) {
	var reported []uint
	var calls uint
	policy := NewPolicy(2, 0).WithOnRetry(func(attempt uint, err error) {
		reported = append(reported, attempt)
	})

	err := policy.Do(context.Background(), failingUntil(0, &calls))

	assert.Error(t, err)
	assert.Equal(t, []uint{1, 2, 3}, reported)
}

func TestPolicy_CustomPredicate(t *testing.T) {
	var calls int
	plain := errors.New("plain")
	policy := NewPolicy(2, 0).WithRetryIf(func(err error) bool { return errors.Is(err, plain) })

	err := policy.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return plain
	})

	assert.Equal(t, 3, calls)
	assert.ErrorIs(t, err, plain)
}

func TestPolicy_ContextCancellation(t *testing.T) {
	t.Run("already cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		var calls uint

		err := NewPolicy(5, time.Hour).Do(ctx, failingUntil(0, &calls))

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, uint(0), calls)
	})
	t.Run("cancelled while waiting", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		var calls uint
		op := func(ctx context.Context) error {
			calls++
			cancel()
			return transportErr
		}

		start := time.Now()
		err := NewPolicy(5, time.Hour).Do(ctx, op)

		assert.ErrorIs(t, err, context.Canceled)
		assert.Contains(t, err.Error(), "connection refused")
		assert.Equal(t, uint(1), calls)
		assert.Less(t, time.Since(start), time.Minute)
	})
}

func TestDoWithResult(t *testing.T) {
	var calls int
	value, err := DoWithResult(context.Background(), NewPolicy(3, 0), func(ctx context.Context) (string, error) {
		calls++
		if calls < 2 {
			return "", transportErr
		}
		return "job-1", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "job-1", value)
	assert.Equal(t, 2, calls)
}
