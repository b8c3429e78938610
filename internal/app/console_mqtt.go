// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/relabs-tech/motion_shaper/internal/bus"
	"github.com/relabs-tech/motion_shaper/internal/config"
	"github.com/relabs-tech/motion_shaper/internal/teleop"
)

// RunConsoleMQTT prints operator samples and shaped commands side by side.
func RunConsoleMQTT() error {
	cfg := config.Get()
	if cfg == nil {
		return fmt.Errorf("console: configuration not loaded")
	}

	client, err := bus.Connect(cfg.MQTTBroker, cfg.MQTTClientIDConsole)
	if err != nil {
		return err
	}

	if err := bus.SubscribeJSON(client, cfg.TopicInput, func(s teleop.Sample) {
		fmt.Println(formatSample(s))
	}); err != nil {
		return err
	}
	if err := bus.SubscribeJSON(client, cfg.TopicCommand, func(c teleop.Command) {
		fmt.Println(formatCommand(c))
	}); err != nil {
		return err
	}

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}

func formatSample(s teleop.Sample) string {
	return fmt.Sprintf("[IN ]  x=%+6.3f y=%+6.3f r=%+6.3f  boost=%5.3f trim=%5.3f  (%s)",
		s.X, s.Y, s.R, s.Boost, s.Trim, s.Source)
}

func formatCommand(c teleop.Command) string {
	state := "DISABLED"
	if c.Enabled {
		state = "enabled"
	}
	return fmt.Sprintf("[CMD]  x=%+6.3f y=%+6.3f r=%+6.3f  %s", c.X, c.Y, c.R, state)
}
