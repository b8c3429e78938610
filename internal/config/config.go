// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/multierr"
)

// Config holds all application configuration values.
type Config struct {
	// MQTT
	MQTTBroker          string
	MQTTClientIDShaper  string
	MQTTClientIDInput   string
	MQTTClientIDWeb     string
	MQTTClientIDConsole string
	MQTTClientIDDisplay string

	// Topics
	TopicInput   string
	TopicCommand string
	TopicPose    string // published by the inertial computer, used for field relative drive
	TopicTune    string

	// Joystick serial link
	InputSerialPort string
	InputBaudRate   int
	InputTimeout    int // milliseconds without a sample before the sticks read as centered

	// Timing
	CycleInterval      int // milliseconds
	ConsoleLogInterval int // milliseconds

	// Control
	FieldRelative bool
	EnableGPIOPin string // deadman switch, empty = always enabled

	// Web Server
	WebServerPort int

	// Display
	DisplayI2CBus         string
	DisplayI2CAddr        uint16
	DisplayUpdateInterval int // milliseconds

	// Axes
	AxisX Axis
	AxisY Axis
	AxisR Axis
}

// Axis holds the shaping parameters of one drive axis. Keys are prefixed
// with X_, Y_ or R_ in the config file.
type Axis struct {
	MaxMechanicalSpeed float64
	AccelLimiting      bool
	VariableSpeed      bool
	ClampFactors       bool
	Acceleration       float64 // units per second
	Deadband           float64
	SpeedMode          string // single, dual, tri
	BlendMode          string // increase, decrease, both
	PrimarySpeed       float64
	SecondarySpeed     float64
	TertiarySpeed      float64
}

// See InitGlobal and Get.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Defaults returns the configuration used for every key the file leaves out.
// Drive speeds are in m/s, rotation speeds in rad/s.
func Defaults() *Config {
	drive := Axis{
		MaxMechanicalSpeed: 12.5,
		AccelLimiting:      true,
		VariableSpeed:      true,
		Acceleration:       3,
		Deadband:           0.05,
		SpeedMode:          "tri",
		BlendMode:          "both",
		PrimarySpeed:       7.5,
		SecondarySpeed:     12.0,
		TertiarySpeed:      4.5,
	}
	rotate := drive
	rotate.MaxMechanicalSpeed = 6 * math.Pi
	rotate.PrimarySpeed = 3 * math.Pi
	rotate.SecondarySpeed = 6 * math.Pi
	rotate.TertiarySpeed = 2 * math.Pi

	return &Config{
		MQTTClientIDShaper:  "motion-shaper",
		MQTTClientIDInput:   "motion-input",
		MQTTClientIDWeb:     "motion-web",
		MQTTClientIDConsole: "motion-console",
		MQTTClientIDDisplay: "motion-display",

		TopicInput:   "teleop/input",
		TopicCommand: "teleop/command",
		TopicPose:    "inertial/pose",
		TopicTune:    "teleop/tune",

		InputBaudRate: 115200,
		InputTimeout:  250,

		CycleInterval:      20,
		ConsoleLogInterval: 1000,

		WebServerPort: 8080,

		DisplayI2CBus:         "",
		DisplayI2CAddr:        0x3C,
		DisplayUpdateInterval: 200,

		AxisX: drive,
		AxisY: drive,
		AxisR: rotate,
	}
}

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads KEY=VALUE lines on top of Defaults and validates the result.
func Parse(r io.Reader) (*Config, error) {
	cfg := Defaults()
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	if axis, field, ok := c.axisKey(key); ok {
		return axis.setValue(key, field, value)
	}

	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_SHAPER":
		c.MQTTClientIDShaper = value
	case "MQTT_CLIENT_ID_INPUT":
		c.MQTTClientIDInput = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_DISPLAY":
		c.MQTTClientIDDisplay = value

	// Topics
	case "TOPIC_INPUT":
		c.TopicInput = value
	case "TOPIC_COMMAND":
		c.TopicCommand = value
	case "TOPIC_POSE":
		c.TopicPose = value
	case "TOPIC_TUNE":
		c.TopicTune = value

	// Joystick serial link
	case "INPUT_SERIAL_PORT":
		c.InputSerialPort = value
	case "INPUT_BAUD_RATE":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid INPUT_BAUD_RATE %q: %w", value, err)
		}
		c.InputBaudRate = rate
	case "INPUT_TIMEOUT":
		timeout, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid INPUT_TIMEOUT %q: %w", value, err)
		}
		c.InputTimeout = timeout

	// Timing
	case "CYCLE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid CYCLE_INTERVAL %q: %w", value, err)
		}
		c.CycleInterval = interval
	case "CONSOLE_LOG_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid CONSOLE_LOG_INTERVAL %q: %w", value, err)
		}
		c.ConsoleLogInterval = interval

	// Control
	case "FIELD_RELATIVE":
		on, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid FIELD_RELATIVE %q: %w", value, err)
		}
		c.FieldRelative = on
	case "ENABLE_GPIO_PIN":
		c.EnableGPIOPin = value

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		c.WebServerPort = port

	// Display
	case "DISPLAY_I2C_BUS":
		c.DisplayI2CBus = value
	case "DISPLAY_I2C_ADDR":
		addr, err := strconv.ParseUint(value, 0, 16)
		if err != nil {
			return fmt.Errorf("invalid DISPLAY_I2C_ADDR %q: %w", value, err)
		}
		c.DisplayI2CAddr = uint16(addr)
	case "DISPLAY_UPDATE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid DISPLAY_UPDATE_INTERVAL %q: %w", value, err)
		}
		c.DisplayUpdateInterval = interval

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

// axisKey splits "X_DEADBAND" into the X axis and "DEADBAND".
func (c *Config) axisKey(key string) (*Axis, string, bool) {
	prefix, field, ok := strings.Cut(key, "_")
	if !ok {
		return nil, "", false
	}
	switch prefix {
	case "X":
		return &c.AxisX, field, true
	case "Y":
		return &c.AxisY, field, true
	case "R":
		return &c.AxisR, field, true
	}
	return nil, "", false
}

func (a *Axis) setValue(key, field, value string) error {
	switch field {
	case "MAX_MECHANICAL_SPEED", "ACCELERATION", "DEADBAND",
		"PRIMARY_SPEED", "SECONDARY_SPEED", "TERTIARY_SPEED":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, value, err)
		}
		switch field {
		case "MAX_MECHANICAL_SPEED":
			a.MaxMechanicalSpeed = v
		case "ACCELERATION":
			a.Acceleration = v
		case "DEADBAND":
			a.Deadband = v
		case "PRIMARY_SPEED":
			a.PrimarySpeed = v
		case "SECONDARY_SPEED":
			a.SecondarySpeed = v
		case "TERTIARY_SPEED":
			a.TertiarySpeed = v
		}

	case "ACCEL_LIMITING", "VARIABLE_SPEED", "CLAMP_FACTORS":
		on, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, value, err)
		}
		switch field {
		case "ACCEL_LIMITING":
			a.AccelLimiting = on
		case "VARIABLE_SPEED":
			a.VariableSpeed = on
		case "CLAMP_FACTORS":
			a.ClampFactors = on
		}

	case "SPEED_MODE":
		a.SpeedMode = strings.ToLower(value)
	case "BLEND_MODE":
		a.BlendMode = strings.ToLower(value)

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}
	return nil
}

// validate checks every field and reports all problems together.
func (c *Config) validate() error {
	var err error
	if c.MQTTBroker == "" {
		err = multierr.Append(err, fmt.Errorf("MQTT_BROKER is required"))
	}
	if c.CycleInterval <= 0 {
		err = multierr.Append(err, fmt.Errorf("CYCLE_INTERVAL must be > 0, got %d", c.CycleInterval))
	}
	if c.InputTimeout < 0 {
		err = multierr.Append(err, fmt.Errorf("INPUT_TIMEOUT must be >= 0, got %d", c.InputTimeout))
	}
	if c.InputSerialPort != "" && c.InputBaudRate <= 0 {
		err = multierr.Append(err, fmt.Errorf("INPUT_BAUD_RATE must be > 0, got %d", c.InputBaudRate))
	}
	if c.WebServerPort < 1 || c.WebServerPort > 65535 {
		err = multierr.Append(err, fmt.Errorf("WEB_SERVER_PORT must be in 1..65535, got %d", c.WebServerPort))
	}
	if c.DisplayUpdateInterval <= 0 {
		err = multierr.Append(err, fmt.Errorf("DISPLAY_UPDATE_INTERVAL must be > 0, got %d", c.DisplayUpdateInterval))
	}
	if _, axisErr := c.AxisConfigs(); axisErr != nil {
		err = multierr.Append(err, axisErr)
	}
	return err
}

// InitGlobal initializes the global configuration from file. Only the first
// call loads anything.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance, or nil before InitGlobal.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
