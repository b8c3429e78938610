// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package profile turns an operator axis value into a normalized actuator
// command: variable speed blending, acceleration limiting and normalization
// by the mechanism's maximum speed.
//
// A MotionProfile is driven by a single control loop goroutine. Configure*
// calls must not race with the Calculate* calls on the same instance.
package profile

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/relabs-tech/motion_shaper/internal/scalar"
)

var (
	// ErrInvalidMaxSpeed is returned for a maximum mechanical speed that is
	// not a finite positive number.
	ErrInvalidMaxSpeed = errors.New("max mechanical speed must be finite and > 0")

	// ErrInvalidRate is returned for a negative or non-finite acceleration rate.
	ErrInvalidRate = errors.New("acceleration rate must be finite and >= 0")
)

// Config is fixed when the profile is built.
type Config struct {
	// MaxMechanicalSpeed is the mechanism speed reached at a command of 1.0.
	MaxMechanicalSpeed float64 `json:"max_mechanical_speed"`

	AccelerationLimiting bool `json:"acceleration_limiting"`
	VariableSpeed        bool `json:"variable_speed"`

	// ClampBlendFactors restricts blend factors to [0, 1]. When false the
	// factors are used as given and may extrapolate past the speed points.
	ClampBlendFactors bool `json:"clamp_blend_factors"`
}

// DefaultConfig normalizes by 1 with limiting and variable speed disabled.
func DefaultConfig() Config {
	return Config{MaxMechanicalSpeed: 1}
}

// Validate reports whether c can be used to build a profile.
func (c Config) Validate() error {
	if !isFinite(c.MaxMechanicalSpeed) || c.MaxMechanicalSpeed <= 0 {
		return fmt.Errorf("%w (got %v)", ErrInvalidMaxSpeed, c.MaxMechanicalSpeed)
	}
	return nil
}

// MotionProfile converts an analog input into a motor output.
type MotionProfile struct {
	cfg Config

	limiter *RateLimiter
	dual    DualSpeedBlender
	tri     TriSpeedBlender
}

// New builds a profile from cfg. The acceleration limiter starts with a
// rate of zero and the speed points at zero until configured.
func New(cfg Config) (*MotionProfile, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &MotionProfile{
		cfg:     cfg,
		limiter: NewRateLimiter(0),
	}, nil
}

// NewDefault builds a profile from DefaultConfig.
func NewDefault() *MotionProfile {
	p, _ := New(DefaultConfig())
	return p
}

// Config returns the profile configuration.
func (p *MotionProfile) Config() Config { return p.cfg }

// ConfigureAcceleration replaces the acceleration limiter with one allowing
// at most rate units per second. The carried output restarts from zero.
func (p *MotionProfile) ConfigureAcceleration(rate float64) error {
	if !isFinite(rate) || rate < 0 {
		return fmt.Errorf("%w (got %v)", ErrInvalidRate, rate)
	}
	p.limiter = NewRateLimiter(rate)
	return nil
}

// ConfigureDualSpeedControl sets the speed points used by CalculateDual.
func (p *MotionProfile) ConfigureDualSpeedControl(primary, secondary SpeedPoint) {
	p.dual = DualSpeedBlender{Primary: primary, Secondary: secondary}
}

// ConfigureTriSpeedControl sets the speed points used by CalculateTri.
func (p *MotionProfile) ConfigureTriSpeedControl(primary, secondary, tertiary SpeedPoint) {
	p.tri = TriSpeedBlender{Primary: primary, Secondary: secondary, Tertiary: tertiary}
}

// Acceleration returns the configured limiter rate.
func (p *MotionProfile) Acceleration() float64 { return p.limiter.Rate() }

// DualSpeed returns the dual speed points.
func (p *MotionProfile) DualSpeed() DualSpeedBlender { return p.dual }

// TriSpeed returns the tri speed points.
func (p *MotionProfile) TriSpeed() TriSpeedBlender { return p.tri }

// Reset drops the limiter's carried output back to zero.
func (p *MotionProfile) Reset() {
	p.limiter.Reset(0)
}

// LastOutput returns the limiter's carried output in mechanical units,
// before normalization by the max speed.
func (p *MotionProfile) LastOutput() float64 { return p.limiter.LastOutput() }

// ResetTo seeds the limiter's carried output, in mechanical units.
func (p *MotionProfile) ResetTo(output float64) {
	p.limiter.Reset(output)
}

// Calculate is the single speed mode: value scaled by targetSpeed. It works
// whether or not variable speed is enabled.
func (p *MotionProfile) Calculate(value, targetSpeed float64, elapsed time.Duration) float64 {
	return p.output(value, targetSpeed, elapsed)
}

// CalculateDual blends the dual speed points with factor and scales value by
// the result. It returns 0 when variable speed is disabled.
func (p *MotionProfile) CalculateDual(mode BlendMode, value, factor float64, elapsed time.Duration) float64 {
	if !p.cfg.VariableSpeed {
		return 0
	}
	speed := p.dual.Calculate(mode, p.factor(factor))
	return p.output(value, speed, elapsed)
}

// CalculateTri blends the tri speed points with factor1 and factor2 and
// scales value by the result. It returns 0 when variable speed is disabled.
func (p *MotionProfile) CalculateTri(mode BlendMode, value, factor1, factor2 float64, elapsed time.Duration) float64 {
	if !p.cfg.VariableSpeed {
		return 0
	}
	speed := p.tri.Calculate(mode, p.factor(factor1), p.factor(factor2))
	return p.output(value, speed, elapsed)
}

// output normalizes value*speed, passing the product through the limiter
// first when acceleration limiting is on.
func (p *MotionProfile) output(value, speed float64, elapsed time.Duration) float64 {
	if p.cfg.AccelerationLimiting {
		return p.limiter.Calculate(value*speed, elapsed) / p.cfg.MaxMechanicalSpeed
	}
	return value * (speed / p.cfg.MaxMechanicalSpeed)
}

func (p *MotionProfile) factor(f float64) float64 {
	if p.cfg.ClampBlendFactors {
		return scalar.Clip(f, 0, 1)
	}
	return f
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
