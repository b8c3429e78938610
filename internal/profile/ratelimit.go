// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package profile

import (
	"time"

	"github.com/relabs-tech/motion_shaper/internal/scalar"
)

// RateLimiter bounds how fast its output may change, in units per second.
// It carries the last emitted value between calls and is not safe for
// concurrent use.
type RateLimiter struct {
	rate       float64
	lastOutput float64
}

// NewRateLimiter returns a limiter starting from zero.
func NewRateLimiter(maxRatePerSecond float64) *RateLimiter {
	return &RateLimiter{rate: maxRatePerSecond}
}

// Calculate moves the output toward requested by at most rate*elapsed and
// returns the new output. A negative elapsed time is treated as zero.
func (l *RateLimiter) Calculate(requested float64, elapsed time.Duration) float64 {
	if elapsed < 0 {
		elapsed = 0
	}
	allowed := l.rate * elapsed.Seconds()
	l.lastOutput += scalar.Clip(requested-l.lastOutput, -allowed, allowed)
	return l.lastOutput
}

// Reset sets the carried output to value.
func (l *RateLimiter) Reset(value float64) {
	l.lastOutput = value
}

// Rate returns the maximum change per second.
func (l *RateLimiter) Rate() float64 { return l.rate }

// LastOutput returns the most recently emitted value.
func (l *RateLimiter) LastOutput() float64 { return l.lastOutput }
