// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/relabs-tech/motion_shaper/internal/profile"
	"github.com/relabs-tech/motion_shaper/internal/teleop"
)

// AxisSet is the shaping configuration for the three drive axes.
type AxisSet struct {
	X, Y, R teleop.AxisConfig
}

// AxisConfigs converts the X_, Y_ and R_ settings into axis configurations,
// validating each one the same way the controller will.
func (c *Config) AxisConfigs() (AxisSet, error) {
	x, errX := c.AxisX.axisConfig("x")
	y, errY := c.AxisY.axisConfig("y")
	r, errR := c.AxisR.axisConfig("r")
	if err := multierr.Combine(errX, errY, errR); err != nil {
		return AxisSet{}, err
	}
	return AxisSet{X: x, Y: y, R: r}, nil
}

func (a Axis) axisConfig(name string) (teleop.AxisConfig, error) {
	speedMode, err := teleop.ParseSpeedMode(a.SpeedMode)
	if err != nil {
		return teleop.AxisConfig{}, fmt.Errorf("axis %s: %w", name, err)
	}
	blendMode, err := profile.ParseBlendMode(a.BlendMode)
	if err != nil {
		return teleop.AxisConfig{}, fmt.Errorf("axis %s: %w", name, err)
	}

	cfg := teleop.AxisConfig{
		Name: name,
		Profile: profile.Config{
			MaxMechanicalSpeed:   a.MaxMechanicalSpeed,
			AccelerationLimiting: a.AccelLimiting,
			VariableSpeed:        a.VariableSpeed,
			ClampBlendFactors:    a.ClampFactors,
		},
		Acceleration: a.Acceleration,
		Deadband:     a.Deadband,
		SpeedMode:    speedMode,
		BlendMode:    blendMode,
		Primary:      a.PrimarySpeed,
		Secondary:    a.SecondarySpeed,
		Tertiary:     a.TertiarySpeed,
	}
	// build once so bad values surface at load time, not in the loop
	if _, err := teleop.NewAxis(cfg); err != nil {
		return teleop.AxisConfig{}, err
	}
	return cfg, nil
}

// Cycle returns the control loop period.
func (c *Config) Cycle() time.Duration {
	return time.Duration(c.CycleInterval) * time.Millisecond
}

// InputStaleAfter returns how long a joystick sample stays valid.
func (c *Config) InputStaleAfter() time.Duration {
	return time.Duration(c.InputTimeout) * time.Millisecond
}
