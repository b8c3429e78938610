// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package teleop

import (
	"math"
	"sync"
	"time"
)

// Source is anything that can provide operator samples over time.
type Source interface {
	Next() (Sample, error)
}

type mockSource struct {
	start time.Time
}

// NewMockSource creates an operator that sweeps the sticks and squeezes
// the boost trigger periodically.
func NewMockSource() Source {
	return &mockSource{start: time.Now()}
}

func (m *mockSource) Next() (Sample, error) {
	elapsed := time.Since(m.start).Seconds()

	return Sample{
		Source: "mock",
		X:      math.Sin(elapsed * 0.5),
		Y:      0.5 * math.Cos(elapsed*0.3),
		R:      0.3 * math.Sin(elapsed*0.9),
		Boost:  math.Max(0, math.Sin(elapsed*0.2)),
		Trim:   0,
		Time:   time.Now().Format(time.RFC3339Nano),
	}, nil
}

// LatestSource holds the most recent sample pushed by a subscriber. Next
// returns a neutral sample once the last update is older than the timeout,
// so a dropped input link brings the sticks back to center.
type LatestSource struct {
	mu      sync.RWMutex
	sample  Sample
	updated time.Time
	timeout time.Duration
	now     func() time.Time
}

// NewLatestSource returns an empty holder. A zero timeout disables the
// staleness check.
func NewLatestSource(timeout time.Duration) *LatestSource {
	return &LatestSource{timeout: timeout, now: time.Now}
}

// Update stores s as the current sample.
func (l *LatestSource) Update(s Sample) {
	l.mu.Lock()
	l.sample = s
	l.updated = l.now()
	l.mu.Unlock()
}

// Stale reports whether no sample arrived within the timeout.
func (l *LatestSource) Stale() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.staleLocked()
}

func (l *LatestSource) staleLocked() bool {
	if l.updated.IsZero() {
		return true
	}
	return l.timeout > 0 && l.now().Sub(l.updated) > l.timeout
}

func (l *LatestSource) Next() (Sample, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.staleLocked() {
		return Sample{Source: "stale", Time: l.now().Format(time.RFC3339Nano)}, nil
	}
	return l.sample, nil
}
