// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package teleop

// Sample is one raw operator frame, as read from the joystick.
// Axes are nominally in [-1, 1], Boost and Trim in [0, 1].
type Sample struct {
	Source string `json:"source"` // "serial", "mock", ...

	X float64 `json:"x"` // longitudinal
	Y float64 `json:"y"` // lateral
	R float64 `json:"r"` // rotation

	Boost float64 `json:"boost"` // fast trigger
	Trim  float64 `json:"trim"`  // slow trigger

	Time string `json:"time"` // RFC3339Nano
}

// Command is the shaped output for one cycle, normalized to the
// [-1, 1] actuator convention.
type Command struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	R       float64 `json:"r"`
	Enabled bool    `json:"enabled"`
	Time    string  `json:"time"`
}

// Pose is the orientation published by the inertial computer.
// Only Yaw is used, for field relative driving.
type Pose struct {
	Roll  float64 `json:"roll"`
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
}
