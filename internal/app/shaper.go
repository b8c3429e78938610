// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/relabs-tech/motion_shaper/internal/bus"
	"github.com/relabs-tech/motion_shaper/internal/config"
	"github.com/relabs-tech/motion_shaper/internal/sensors"
	"github.com/relabs-tech/motion_shaper/internal/teleop"
)

// Shaper runs the control cycle: read the latest operator sample, shape it
// and publish the command. Tick is only ever called from one goroutine;
// SetHeading and QueueTuning may be called from MQTT callbacks.
type Shaper struct {
	controller *teleop.Controller
	source     teleop.Source
	enable     sensors.EnableSwitch
	pub        bus.Publisher
	topic      string
	cycle      time.Duration

	tunings chan teleop.Tuning

	headingMu sync.Mutex
	heading   float64

	lastTick time.Time
}

// NewShaper wires a controller to its input, enable switch and output topic.
func NewShaper(c *teleop.Controller, src teleop.Source, enable sensors.EnableSwitch, pub bus.Publisher, topic string, cycle time.Duration) *Shaper {
	return &Shaper{
		controller: c,
		source:     src,
		enable:     enable,
		pub:        pub,
		topic:      topic,
		cycle:      cycle,
		tunings:    make(chan teleop.Tuning, 16),
	}
}

// SetHeading records the robot yaw for field relative driving.
func (s *Shaper) SetHeading(p teleop.Pose) {
	s.headingMu.Lock()
	s.heading = p.Yaw
	s.headingMu.Unlock()
}

func (s *Shaper) currentHeading() float64 {
	s.headingMu.Lock()
	defer s.headingMu.Unlock()
	return s.heading
}

// QueueTuning hands a tuning to the control goroutine. It never blocks; a
// full queue drops the request.
func (s *Shaper) QueueTuning(t teleop.Tuning) bool {
	select {
	case s.tunings <- t:
		return true
	default:
		log.Printf("shaper: tuning queue full, dropping %s axis tuning", t.Axis)
		return false
	}
}

func (s *Shaper) applyTunings() {
	for {
		select {
		case t := <-s.tunings:
			if err := s.controller.Apply(t); err != nil {
				log.Printf("shaper: tuning rejected: %v", err)
				continue
			}
			log.Printf("shaper: applied tuning to %s axis", t.Axis)
		default:
			return
		}
	}
}

// Tick runs one control cycle at now. The elapsed time fed to the rate
// limiters is measured from the previous tick; the first tick assumes one
// nominal cycle.
func (s *Shaper) Tick(now time.Time) (teleop.Command, error) {
	elapsed := s.cycle
	if !s.lastTick.IsZero() {
		elapsed = now.Sub(s.lastTick)
	}
	s.lastTick = now

	s.applyTunings()

	sample, err := s.source.Next()
	if err != nil {
		return teleop.Command{}, fmt.Errorf("read input: %w", err)
	}

	cmd := s.controller.Step(sample, s.currentHeading(), s.enable.Enabled(), elapsed)
	cmd.Time = now.Format(time.RFC3339Nano)

	if err := bus.PublishJSON(s.pub, s.topic, false, cmd); err != nil {
		return cmd, err
	}
	return cmd, nil
}

// Run ticks every cycle until ctx is done, logging a status line every
// logEvery (zero disables it).
func (s *Shaper) Run(ctx context.Context, logEvery time.Duration) error {
	ticker := time.NewTicker(s.cycle)
	defer ticker.Stop()

	var lastLog time.Time
	errs := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			cmd, err := s.Tick(now)
			if err != nil {
				errs++
				log.Printf("shaper: cycle error: %v", err)
			}
			if logEvery > 0 && now.Sub(lastLog) >= logEvery {
				log.Printf("shaper: cmd x=%+.3f y=%+.3f r=%+.3f enabled=%t errors=%d",
					cmd.X, cmd.Y, cmd.R, cmd.Enabled, errs)
				lastLog = now
			}
		}
	}
}

// RunShaper connects to the broker and drives the control loop until
// SIGINT or SIGTERM.
func RunShaper() error {
	cfg := config.Get()
	if cfg == nil {
		return fmt.Errorf("shaper: configuration not loaded")
	}

	axes, err := cfg.AxisConfigs()
	if err != nil {
		return err
	}
	controller, err := teleop.NewController(axes.X, axes.Y, axes.R, cfg.FieldRelative)
	if err != nil {
		return err
	}

	enable, err := sensors.NewGPIOEnableSwitch(cfg.EnableGPIOPin)
	if err != nil {
		return err
	}

	client, err := bus.Connect(cfg.MQTTBroker, cfg.MQTTClientIDShaper)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	source := teleop.NewLatestSource(cfg.InputStaleAfter())
	shaper := NewShaper(controller, source, enable, client, cfg.TopicCommand, cfg.Cycle())

	if err := bus.SubscribeJSON(client, cfg.TopicInput, source.Update); err != nil {
		return err
	}
	if err := bus.SubscribeJSON(client, cfg.TopicTune, func(t teleop.Tuning) { shaper.QueueTuning(t) }); err != nil {
		return err
	}
	if cfg.FieldRelative {
		if err := bus.SubscribeJSON(client, cfg.TopicPose, shaper.SetHeading); err != nil {
			return err
		}
		log.Printf("shaper: field relative drive, heading from %s", cfg.TopicPose)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("shaper: publishing commands to %s every %s", cfg.TopicCommand, cfg.Cycle())
	err = shaper.Run(ctx, time.Duration(cfg.ConsoleLogInterval)*time.Millisecond)

	log.Println("shaper: shutting down, sending stop command")
	stopCmd := teleop.Command{Time: time.Now().Format(time.RFC3339Nano)}
	if perr := bus.PublishJSON(client, cfg.TopicCommand, false, stopCmd); perr != nil {
		log.Printf("shaper: stop command: %v", perr)
	}
	return err
}
