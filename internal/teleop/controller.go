// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package teleop shapes operator samples into drive commands, one motion
// profile per control axis.
package teleop

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/multierr"
)

// Controller shapes the three drive axes each cycle. It must be driven by a
// single goroutine; tunings are applied through Apply between cycles.
type Controller struct {
	x, y, r       *Axis
	fieldRelative bool
	wasEnabled    bool
}

// NewController builds the three axes, reporting every invalid axis at once.
func NewController(x, y, r AxisConfig, fieldRelative bool) (*Controller, error) {
	ax, errX := NewAxis(x)
	ay, errY := NewAxis(y)
	ar, errR := NewAxis(r)
	if err := multierr.Combine(errX, errY, errR); err != nil {
		return nil, err
	}
	return &Controller{x: ax, y: ay, r: ar, fieldRelative: fieldRelative}, nil
}

// Axis looks an axis up by name ("x", "y" or "r").
func (c *Controller) Axis(name string) (*Axis, bool) {
	switch name {
	case "x":
		return c.x, true
	case "y":
		return c.y, true
	case "r":
		return c.r, true
	}
	return nil, false
}

// Apply re-tunes one axis.
func (c *Controller) Apply(t Tuning) error {
	a, ok := c.Axis(t.Axis)
	if !ok {
		return fmt.Errorf("tuning: unknown axis %q", t.Axis)
	}
	return a.Apply(t)
}

// Step shapes one sample. headingDeg is only used in field relative mode.
// While disabled the command is zero and every axis ramps up from rest once
// enabled again.
func (c *Controller) Step(s Sample, headingDeg float64, enabled bool, elapsed time.Duration) Command {
	if !enabled {
		if c.wasEnabled {
			c.x.Reset()
			c.y.Reset()
			c.r.Reset()
		}
		c.wasEnabled = false
		return Command{}
	}
	c.wasEnabled = true

	x := c.x.Shape(s.X, s.Boost, s.Trim, elapsed)
	y := c.y.Shape(s.Y, s.Boost, s.Trim, elapsed)
	r := c.r.Shape(s.R, s.Boost, s.Trim, elapsed)

	if c.fieldRelative {
		x, y = FieldToRobot(x, y, headingDeg)
	}
	return Command{X: x, Y: y, R: r, Enabled: true}
}

// FieldToRobot rotates a field relative translation into the robot frame
// for a robot heading of headingDeg (counter-clockwise positive).
func FieldToRobot(x, y, headingDeg float64) (float64, float64) {
	sin, cos := math.Sincos(headingDeg * math.Pi / 180)
	return x*cos + y*sin, -x*sin + y*cos
}
