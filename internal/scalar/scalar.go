// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package scalar holds the small stateless helpers shared by the shaping code.
package scalar

import "math"

// Clip restricts value to the closed interval [min, max].
func Clip(value, min, max float64) float64 {
	return math.Max(min, math.Min(max, value))
}

// Deadband discards value when its magnitude does not exceed threshold.
// A value exactly on the threshold is discarded.
func Deadband(value, threshold float64) float64 {
	if math.Abs(value) > threshold {
		return value
	}
	return 0
}

// SymmetricDifference returns |x - y|; argument order does not matter.
func SymmetricDifference(x, y float64) float64 {
	if x > y {
		return x - y
	}
	return y - x
}
