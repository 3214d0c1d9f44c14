// The MIT License (MIT)
//
// Copyright (c) 2017-2020 Uber Technologies Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package backoff provides the jittered exponential retry policy used by
// the connector's periodic jobs and in-tick admin retries.
package backoff

import (
	"math/rand"
	"time"
)

// RetryPolicy computes the n-th retry interval.
type RetryPolicy interface {
	ComputeNextDelay(elapsedTime time.Duration, numAttempts int) time.Duration
}

type exponentialRetryPolicy struct {
	initialInterval    time.Duration
	backoffCoefficient float64
	maximumInterval    time.Duration
	expirationInterval time.Duration
}

// NoInterval means a retry policy never expires based on elapsed time.
const NoInterval time.Duration = 0

// NewExponentialRetryPolicy returns a retry policy starting at initialInterval
// and doubling (by default) on every attempt.
func NewExponentialRetryPolicy(initialInterval time.Duration) *exponentialRetryPolicy {
	return &exponentialRetryPolicy{
		initialInterval:    initialInterval,
		backoffCoefficient: 2.0,
		maximumInterval:    0,
		expirationInterval: NoInterval,
	}
}

func (p *exponentialRetryPolicy) SetBackoffCoefficient(c float64) { p.backoffCoefficient = c }
func (p *exponentialRetryPolicy) SetMaximumInterval(d time.Duration) { p.maximumInterval = d }
func (p *exponentialRetryPolicy) SetExpirationInterval(d time.Duration) { p.expirationInterval = d }

func (p *exponentialRetryPolicy) ComputeNextDelay(elapsedTime time.Duration, numAttempts int) time.Duration {
	if p.expirationInterval != NoInterval && elapsedTime > p.expirationInterval {
		return -1
	}
	interval := float64(p.initialInterval)
	for i := 0; i < numAttempts; i++ {
		interval *= p.backoffCoefficient
	}
	d := time.Duration(interval)
	if p.maximumInterval != 0 && d > p.maximumInterval {
		d = p.maximumInterval
	}
	return d
}

// IsRetryable reports whether an error should be retried.
type IsRetryable func(error) bool

// Retry invokes op until it succeeds, the policy expires, or isRetryable
// says to stop. Retry stops once the elapsed time exceeds the policy's
// expiration interval; the final sleep before that check can still run past
// the interval by up to one retry delay.
func Retry(op func() error, policy RetryPolicy, isRetryable IsRetryable) error {
	var err error
	start := time.Now()
	for attempt := 0; ; attempt++ {
		err = op()
		if err == nil {
			return nil
		}
		if isRetryable != nil && !isRetryable(err) {
			return err
		}
		next := policy.ComputeNextDelay(time.Since(start), attempt)
		if next < 0 {
			return err
		}
		time.Sleep(next)
	}
}

// JitDuration returns duration jittered by +/- coefficient*duration, used
// to stagger periodic jobs so independently started connectors don't all
// hit the same admin API on the same tick.
func JitDuration(duration time.Duration, coefficient float64) time.Duration {
	if coefficient == 0 {
		return duration
	}
	return time.Duration((1 + coefficient*(2*rand.Float64()-1)) * float64(duration))
}
