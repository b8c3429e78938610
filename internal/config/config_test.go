// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/multierr"
	"go.viam.com/test"

	"github.com/relabs-tech/motion_shaper/internal/profile"
	"github.com/relabs-tech/motion_shaper/internal/teleop"
)

const sample = `
# broker
MQTT_BROKER=tcp://localhost:1883
TOPIC_COMMAND = robot/drive

CYCLE_INTERVAL=20
INPUT_SERIAL_PORT=/dev/ttyACM0
INPUT_BAUD_RATE=57600
FIELD_RELATIVE=true
DISPLAY_I2C_ADDR=0x3D

X_MAX_MECHANICAL_SPEED=10
X_SPEED_MODE=DUAL
X_BLEND_MODE=increase
X_PRIMARY_SPEED=2
X_SECONDARY_SPEED=8
X_ACCEL_LIMITING=false
R_CLAMP_FACTORS=true
`

func TestParse(t *testing.T) {
	cfg, err := Parse(strings.NewReader(sample))
	test.That(t, err, test.ShouldBeNil)

	test.That(t, cfg.MQTTBroker, test.ShouldEqual, "tcp://localhost:1883")
	test.That(t, cfg.TopicCommand, test.ShouldEqual, "robot/drive")
	test.That(t, cfg.TopicInput, test.ShouldEqual, "teleop/input")
	test.That(t, cfg.InputBaudRate, test.ShouldEqual, 57600)
	test.That(t, cfg.FieldRelative, test.ShouldBeTrue)
	test.That(t, cfg.DisplayI2CAddr, test.ShouldEqual, uint16(0x3D))
	test.That(t, cfg.Cycle(), test.ShouldEqual, 20*time.Millisecond)
	test.That(t, cfg.InputStaleAfter(), test.ShouldEqual, 250*time.Millisecond)

	axes, err := cfg.AxisConfigs()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, axes.X.SpeedMode, test.ShouldEqual, teleop.DualSpeed)
	test.That(t, axes.X.BlendMode, test.ShouldEqual, profile.Increase)
	test.That(t, axes.X.Profile.MaxMechanicalSpeed, test.ShouldEqual, 10.0)
	test.That(t, axes.X.Profile.AccelerationLimiting, test.ShouldBeFalse)
	test.That(t, axes.Y.Primary, test.ShouldEqual, 7.5)
	test.That(t, axes.R.Profile.ClampBlendFactors, test.ShouldBeTrue)
	test.That(t, axes.R.Secondary, test.ShouldAlmostEqual, 6*math.Pi)
}

func TestParseErrors(t *testing.T) {
	for name, body := range map[string]string{
		"missing equals": "MQTT_BROKER tcp://x\nCYCLE_INTERVAL=20",
		"unknown key":    "MQTT_BROKER=tcp://x\nCOLOR=blue",
		"unknown axis":   "MQTT_BROKER=tcp://x\nX_COLOR=blue",
		"bad float":      "MQTT_BROKER=tcp://x\nY_DEADBAND=wide",
		"bad bool":       "MQTT_BROKER=tcp://x\nR_VARIABLE_SPEED=maybe",
		"bad addr":       "MQTT_BROKER=tcp://x\nDISPLAY_I2C_ADDR=0x1FFFF",
	} {
		t.Run(name, func(t *testing.T) {
			cfg, err := Parse(strings.NewReader(body))
			test.That(t, cfg, test.ShouldBeNil)
			test.That(t, err, test.ShouldNotBeNil)
			test.That(t, err.Error(), test.ShouldContainSubstring, "config line")
		})
	}
}

func TestValidateReportsEverything(t *testing.T) {
	body := strings.Join([]string{
		"CYCLE_INTERVAL=0",
		"X_MAX_MECHANICAL_SPEED=0",
		"Y_SPEED_MODE=quad",
		"R_BLEND_MODE=sideways",
		"WEB_SERVER_PORT=70000",
		"DISPLAY_UPDATE_INTERVAL=0",
	}, "\n")

	cfg, err := Parse(strings.NewReader(body))
	test.That(t, cfg, test.ShouldBeNil)
	errs := multierr.Errors(err)
	test.That(t, len(errs), test.ShouldEqual, 7)
	test.That(t, err.Error(), test.ShouldContainSubstring, "MQTT_BROKER is required")
	test.That(t, err.Error(), test.ShouldContainSubstring, "max mechanical speed")
	test.That(t, err.Error(), test.ShouldContainSubstring, "quad")
	test.That(t, err.Error(), test.ShouldContainSubstring, "sideways")
	test.That(t, err.Error(), test.ShouldContainSubstring, "WEB_SERVER_PORT")
	test.That(t, err.Error(), test.ShouldContainSubstring, "DISPLAY_UPDATE_INTERVAL")
}

func TestDisplayIntervalMustBePositive(t *testing.T) {
	for _, v := range []string{"0", "-200"} {
		cfg, err := Parse(strings.NewReader("MQTT_BROKER=tcp://x\nDISPLAY_UPDATE_INTERVAL=" + v))
		test.That(t, cfg, test.ShouldBeNil)
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "DISPLAY_UPDATE_INTERVAL must be > 0")
	}
}

func TestLoadAndGlobal(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.txt"))
	test.That(t, err, test.ShouldNotBeNil)

	path := filepath.Join(t.TempDir(), "shaper_config.txt")
	test.That(t, os.WriteFile(path, []byte(sample), 0o644), test.ShouldBeNil)

	test.That(t, InitGlobal(path), test.ShouldBeNil)
	test.That(t, Get(), test.ShouldNotBeNil)
	test.That(t, Get().TopicCommand, test.ShouldEqual, "robot/drive")

	// later calls keep the first configuration
	test.That(t, InitGlobal(filepath.Join(t.TempDir(), "other.txt")), test.ShouldBeNil)
	test.That(t, Get().TopicCommand, test.ShouldEqual, "robot/drive")
}

func TestDefaultsAreValid(t *testing.T) {
	cfg := Defaults()
	cfg.MQTTBroker = "tcp://localhost:1883"
	test.That(t, cfg.validate(), test.ShouldBeNil)

	axes, err := cfg.AxisConfigs()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, axes.X.SpeedMode, test.ShouldEqual, teleop.TriSpeed)
	test.That(t, axes.X.BlendMode, test.ShouldEqual, profile.Both)
	test.That(t, axes.X.Acceleration, test.ShouldEqual, 3.0)
}

func TestShippedConfigLoads(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "shaper_config.txt"))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.EnableGPIOPin, test.ShouldEqual, "")
	test.That(t, cfg.AxisR.MaxMechanicalSpeed, test.ShouldEqual, 18.85)

	_, err = cfg.AxisConfigs()
	test.That(t, err, test.ShouldBeNil)
}
