// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package teleop

import (
	"errors"
	"math"
)

// Tuning is a live re-tune request for one axis. Nil fields are left as
// they are.
type Tuning struct {
	Axis string `json:"axis"` // "x", "y" or "r"

	Acceleration *float64 `json:"acceleration,omitempty"`
	Primary      *float64 `json:"primary,omitempty"`
	Secondary    *float64 `json:"secondary,omitempty"`
	Tertiary     *float64 `json:"tertiary,omitempty"`
}

func (t Tuning) hasSpeeds() bool {
	return t.Primary != nil || t.Secondary != nil || t.Tertiary != nil
}

func (t Tuning) validate() error {
	if t.Acceleration == nil && !t.hasSpeeds() {
		return errors.New("tuning changes nothing")
	}
	for _, v := range []*float64{t.Primary, t.Secondary, t.Tertiary} {
		if v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0)) {
			return errors.New("speed points must be finite")
		}
	}
	return nil
}
