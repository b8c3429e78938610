// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package profile

import (
	"fmt"
	"strings"

	"github.com/relabs-tech/motion_shaper/internal/scalar"
)

// SpeedPoint is a named target speed in mechanism units (m/s, rad/s, ...).
type SpeedPoint = float64

// BlendMode selects how the variable speed factors move the output away
// from the primary speed.
type BlendMode int

const (
	Increase BlendMode = iota
	Decrease
	Both
)

func (m BlendMode) String() string {
	switch m {
	case Increase:
		return "increase"
	case Decrease:
		return "decrease"
	case Both:
		return "both"
	default:
		return fmt.Sprintf("BlendMode(%d)", int(m))
	}
}

// ParseBlendMode converts "increase", "decrease" or "both" (any case) to a BlendMode.
func ParseBlendMode(s string) (BlendMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "increase":
		return Increase, nil
	case "decrease":
		return Decrease, nil
	case "both":
		return Both, nil
	}
	return 0, fmt.Errorf("unknown blend mode %q (want increase, decrease or both)", s)
}

// DualSpeedBlender bridges a primary and a secondary speed with one factor.
//
// The distance between the two points is taken as a magnitude, so Increase
// always adds to the primary speed and Decrease always subtracts from it,
// whichever of the two points is numerically larger.
type DualSpeedBlender struct {
	Primary   SpeedPoint
	Secondary SpeedPoint
}

// Calculate returns the blended speed. factor is used as given; values
// outside [0, 1] extrapolate past the configured points. Modes other than
// Increase and Decrease return the primary speed.
func (b DualSpeedBlender) Calculate(mode BlendMode, factor float64) float64 {
	switch mode {
	case Increase:
		return b.Primary + scalar.SymmetricDifference(b.Primary, b.Secondary)*factor
	case Decrease:
		return b.Primary - scalar.SymmetricDifference(b.Primary, b.Secondary)*factor
	default:
		return b.Primary
	}
}

// TriSpeedBlender bridges three speed points with two factors.
type TriSpeedBlender struct {
	Primary   SpeedPoint
	Secondary SpeedPoint
	Tertiary  SpeedPoint
}

// Calculate returns the blended speed.
//
// Increase and Decrease chain the steps: factor1 spans primary..secondary and
// factor2 spans secondary..tertiary. Both treats the factors as independent
// modifiers around the primary speed: factor1 adds |primary-secondary| and
// factor2 subtracts |primary-tertiary|. Factors are not clamped. Unknown
// modes return the primary speed.
func (b TriSpeedBlender) Calculate(mode BlendMode, factor1, factor2 float64) float64 {
	switch mode {
	case Increase:
		return b.Primary +
			scalar.SymmetricDifference(b.Primary, b.Secondary)*factor1 +
			scalar.SymmetricDifference(b.Secondary, b.Tertiary)*factor2
	case Decrease:
		return b.Primary -
			scalar.SymmetricDifference(b.Primary, b.Secondary)*factor1 -
			scalar.SymmetricDifference(b.Secondary, b.Tertiary)*factor2
	case Both:
		return b.Primary +
			scalar.SymmetricDifference(b.Primary, b.Secondary)*factor1 -
			scalar.SymmetricDifference(b.Primary, b.Tertiary)*factor2
	default:
		return b.Primary
	}
}
