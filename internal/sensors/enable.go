// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package sensors reads the operator's enable (deadman) switch.
package sensors

import (
	"fmt"
	"log"
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// EnableSwitch reports whether the operator currently allows motion.
type EnableSwitch interface {
	Enabled() bool
}

// AlwaysEnabled is used when no switch is wired.
type AlwaysEnabled struct{}

func (AlwaysEnabled) Enabled() bool { return true }

var (
	hostOnce    sync.Once
	hostInitErr error
)

func initHost() error {
	hostOnce.Do(func() {
		if _, err := host.Init(); err != nil {
			hostInitErr = fmt.Errorf("periph host init: %w", err)
		}
	})
	return hostInitErr
}

// gpioSwitch is a normally open button between the pin and ground; pressed
// (held) reads low.
type gpioSwitch struct {
	pin gpio.PinIn
}

// NewGPIOEnableSwitch configures pinName as a pulled-up input. An empty
// name returns AlwaysEnabled.
func NewGPIOEnableSwitch(pinName string) (EnableSwitch, error) {
	if pinName == "" {
		return AlwaysEnabled{}, nil
	}
	if err := initHost(); err != nil {
		return nil, err
	}

	pin := gpioreg.ByName(pinName)
	if pin == nil {
		return nil, fmt.Errorf("enable switch: pin %q not found", pinName)
	}
	if err := pin.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("enable switch: configure %s: %w", pinName, err)
	}
	log.Printf("enable switch: watching %s (hold to drive)", pin.Name())
	return NewPinEnableSwitch(pin), nil
}

// NewPinEnableSwitch wraps an already configured input pin.
func NewPinEnableSwitch(pin gpio.PinIn) EnableSwitch {
	return &gpioSwitch{pin: pin}
}

func (s *gpioSwitch) Enabled() bool {
	return s.pin.Read() == gpio.Low
}
