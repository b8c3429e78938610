// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"time"

	"github.com/relabs-tech/motion_shaper/internal/config"
	"github.com/relabs-tech/motion_shaper/internal/teleop"
)

// RunMockConsole drives the shaping pipeline from a simulated operator and
// prints the result, without a broker or hardware. Axis tuning comes from
// the loaded configuration, or the defaults when none is loaded.
func RunMockConsole() error {
	cfg := config.Get()
	if cfg == nil {
		cfg = config.Defaults()
	}
	axes, err := cfg.AxisConfigs()
	if err != nil {
		return err
	}
	controller, err := teleop.NewController(axes.X, axes.Y, axes.R, false)
	if err != nil {
		return err
	}

	src := teleop.NewMockSource()
	ticker := time.NewTicker(cfg.Cycle())
	defer ticker.Stop()

	var last time.Time
	for now := range ticker.C {
		elapsed := cfg.Cycle()
		if !last.IsZero() {
			elapsed = now.Sub(last)
		}
		last = now

		s, err := src.Next()
		if err != nil {
			return err
		}
		cmd := controller.Step(s, 0, true, elapsed)

		fmt.Printf("%s    %s\n", formatSample(s), formatCommand(cmd))
	}
	return nil
}
