// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"errors"
	"fmt"
	"io"
	"log"

	"go.uber.org/multierr"

	"github.com/relabs-tech/motion_shaper/internal/bus"
	"github.com/relabs-tech/motion_shaper/internal/config"
	"github.com/relabs-tech/motion_shaper/internal/input"
	"github.com/relabs-tech/motion_shaper/internal/teleop"
)

// RunInputProducer reads the joystick bridge on the serial port and
// publishes every sample to the input topic.
func RunInputProducer() (err error) {
	cfg := config.Get()
	if cfg == nil {
		return fmt.Errorf("input: configuration not loaded")
	}
	if cfg.InputSerialPort == "" {
		return fmt.Errorf("input: INPUT_SERIAL_PORT is required")
	}

	client, err := bus.Connect(cfg.MQTTBroker, cfg.MQTTClientIDInput)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	port, err := input.OpenSerial(cfg.InputSerialPort, cfg.InputBaudRate)
	if err != nil {
		return err
	}
	defer multierr.AppendInvoke(&err, multierr.Close(port))

	return PumpSamples(input.NewReader(port), client, cfg.TopicInput)
}

// PumpSamples publishes samples from src until it runs dry. A clean end of
// stream returns nil.
func PumpSamples(src teleop.Source, pub bus.Publisher, topic string) error {
	published := 0
	for {
		s, err := src.Next()
		if errors.Is(err, io.EOF) {
			log.Printf("input: stream closed after %d samples", published)
			return nil
		}
		if err != nil {
			return fmt.Errorf("input: read: %w", err)
		}

		if err := bus.PublishJSON(pub, topic, false, s); err != nil {
			log.Printf("input: %v", err)
			continue
		}
		published++
	}
}
