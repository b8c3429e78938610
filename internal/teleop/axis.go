// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package teleop

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/relabs-tech/motion_shaper/internal/profile"
	"github.com/relabs-tech/motion_shaper/internal/scalar"
)

// SpeedMode picks which profile entry point an axis uses each cycle.
type SpeedMode int

const (
	SingleSpeed SpeedMode = iota
	DualSpeed
	TriSpeed
)

func (m SpeedMode) String() string {
	switch m {
	case SingleSpeed:
		return "single"
	case DualSpeed:
		return "dual"
	case TriSpeed:
		return "tri"
	default:
		return fmt.Sprintf("SpeedMode(%d)", int(m))
	}
}

// ParseSpeedMode converts "single", "dual" or "tri" to a SpeedMode.
func ParseSpeedMode(s string) (SpeedMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single":
		return SingleSpeed, nil
	case "dual":
		return DualSpeed, nil
	case "tri":
		return TriSpeed, nil
	}
	return 0, fmt.Errorf("unknown speed mode %q (want single, dual or tri)", s)
}

// AxisConfig describes how one control axis is shaped.
type AxisConfig struct {
	Name string

	Profile      profile.Config
	Acceleration float64 // units per second, used when limiting is enabled
	Deadband     float64 // applied to the raw stick value

	SpeedMode SpeedMode
	BlendMode profile.BlendMode

	// Primary is the single speed target and the base of dual/tri blending.
	Primary   float64
	Secondary float64
	Tertiary  float64
}

// Axis owns the motion profile of one control axis.
type Axis struct {
	cfg     AxisConfig
	profile *profile.MotionProfile
}

// NewAxis validates cfg and builds the axis profile.
func NewAxis(cfg AxisConfig) (*Axis, error) {
	p, err := profile.New(cfg.Profile)
	if err != nil {
		return nil, fmt.Errorf("axis %s: %w", cfg.Name, err)
	}
	if err := p.ConfigureAcceleration(cfg.Acceleration); err != nil {
		return nil, fmt.Errorf("axis %s: %w", cfg.Name, err)
	}
	if math.IsNaN(cfg.Deadband) || cfg.Deadband < 0 || cfg.Deadband >= 1 {
		return nil, fmt.Errorf("axis %s: deadband must be in [0, 1), got %v", cfg.Name, cfg.Deadband)
	}
	for _, v := range []float64{cfg.Primary, cfg.Secondary, cfg.Tertiary} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("axis %s: speed points must be finite", cfg.Name)
		}
	}
	p.ConfigureDualSpeedControl(cfg.Primary, cfg.Secondary)
	p.ConfigureTriSpeedControl(cfg.Primary, cfg.Secondary, cfg.Tertiary)

	return &Axis{cfg: cfg, profile: p}, nil
}

// Name returns the axis name.
func (a *Axis) Name() string { return a.cfg.Name }

// Config returns the current axis configuration, including applied tunings.
func (a *Axis) Config() AxisConfig { return a.cfg }

// Shape deadbands raw and runs it through the profile. For tri speed boost
// and trim feed factor1 and factor2; for dual speed the trim trigger drives
// Decrease and the boost trigger drives every other mode.
func (a *Axis) Shape(raw, boost, trim float64, elapsed time.Duration) float64 {
	v := scalar.Deadband(raw, a.cfg.Deadband)

	switch a.cfg.SpeedMode {
	case DualSpeed:
		factor := boost
		if a.cfg.BlendMode == profile.Decrease {
			factor = trim
		}
		return a.profile.CalculateDual(a.cfg.BlendMode, v, factor, elapsed)
	case TriSpeed:
		return a.profile.CalculateTri(a.cfg.BlendMode, v, boost, trim, elapsed)
	default:
		return a.profile.Calculate(v, a.cfg.Primary, elapsed)
	}
}

// Reset drops the carried smoothing state.
func (a *Axis) Reset() {
	a.profile.Reset()
}

// Apply reconfigures the axis from t. A new acceleration replaces the
// limiter and carries the current output over; new speed points replace
// both blenders and the limiter ramps to them.
func (a *Axis) Apply(t Tuning) error {
	if err := t.validate(); err != nil {
		return fmt.Errorf("axis %s: %w", a.cfg.Name, err)
	}
	if t.Acceleration != nil {
		last := a.profile.LastOutput()
		if err := a.profile.ConfigureAcceleration(*t.Acceleration); err != nil {
			return fmt.Errorf("axis %s: %w", a.cfg.Name, err)
		}
		a.profile.ResetTo(last)
		a.cfg.Acceleration = *t.Acceleration
	}
	if t.hasSpeeds() {
		if t.Primary != nil {
			a.cfg.Primary = *t.Primary
		}
		if t.Secondary != nil {
			a.cfg.Secondary = *t.Secondary
		}
		if t.Tertiary != nil {
			a.cfg.Tertiary = *t.Tertiary
		}
		a.profile.ConfigureDualSpeedControl(a.cfg.Primary, a.cfg.Secondary)
		a.profile.ConfigureTriSpeedControl(a.cfg.Primary, a.cfg.Secondary, a.cfg.Tertiary)
	}
	return nil
}
