/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

// Package retry is the bounded retry wrapper applied to every trainer and worker call.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go"
	bridgeErrors "mlbridge/common/errors"
)

// Policy retries an operation at most MaxRetries times after the first attempt, waiting a
// fixed Delay between attempts. Only errors accepted by IsRetryable are retried.
type Policy struct {
	MaxRetries  uint
	Delay       time.Duration
	IsRetryable func(error) bool
	// OnRetry is called with the 1-based number of the attempt that just failed
	OnRetry func(attempt uint, err error)
}

func NewPolicy(maxRetries uint, delay time.Duration) Policy {
	return Policy{
		MaxRetries:  maxRetries,
		Delay:       delay,
		IsRetryable: bridgeErrors.IsRetryable,
	}
}

// WithOnRetry returns a copy of p that reports failed attempts to onRetry
func (p Policy) WithOnRetry(onRetry func(attempt uint, err error)) Policy {
	p.OnRetry = onRetry
	return p
}

// WithRetryIf returns a copy of p using isRetryable as predicate
func (p Policy) WithRetryIf(isRetryable func(error) bool) Policy {
	p.IsRetryable = isRetryable
	return p
}

// Attempts is the maximum number of times the operation runs
func (p Policy) Attempts() uint {
	return p.MaxRetries + 1
}

// Do runs op until it succeeds, returns a non-retryable error, the attempts are exhausted or
// ctx is done. The last error is returned unchanged.
func (p Policy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	_, err := p.Run(ctx, op)
	return err
}

// Run is Do that also reports how many attempts were made
func (p Policy) Run(ctx context.Context, op func(ctx context.Context) error) (uint, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	isRetryable := p.IsRetryable
	if isRetryable == nil {
		isRetryable = bridgeErrors.IsRetryable
	}

	var attempts uint
	var lastErr error
	err := retry.Do(
		func() error {
			attempts++
			lastErr = op(ctx)
			return lastErr
		},
		retry.Attempts(p.Attempts()),
		retry.Delay(p.Delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isRetryable),
		retry.OnRetry(func(n uint, err error) {
			if p.OnRetry != nil {
				p.OnRetry(n+1, err)
			}
		}),
		retry.Context(ctx),
	)
	if err != nil && lastErr != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return attempts, fmt.Errorf("%w, last error: %v", err, lastErr)
	}
	return attempts, err
}

// DoWithResult is Do for operations producing a value
func DoWithResult[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := p.Do(ctx, func(ctx context.Context) error {
		value, err := op(ctx)
		if err != nil {
			return err
		}
		result = value
		return nil
	})
	return result, err
}
