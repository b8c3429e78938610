// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"testing"

	"go.viam.com/test"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

func TestAlwaysEnabledWithoutPin(t *testing.T) {
	sw, err := NewGPIOEnableSwitch("")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, sw.Enabled(), test.ShouldBeTrue)
}

func TestPinEnableSwitch(t *testing.T) {
	pin := &gpiotest.Pin{N: "GPIO17", Num: 17, L: gpio.High}
	sw := NewPinEnableSwitch(pin)

	test.That(t, sw.Enabled(), test.ShouldBeFalse)
	pin.L = gpio.Low
	test.That(t, sw.Enabled(), test.ShouldBeTrue)
}
