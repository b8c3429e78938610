// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Command producer publishes mock operator input and a slowly turning pose
// so the shaper can be exercised without a joystick or IMU attached.
package main

import (
	"flag"
	"log"
	"math"
	"time"

	"github.com/relabs-tech/motion_shaper/internal/bus"
	"github.com/relabs-tech/motion_shaper/internal/config"
	"github.com/relabs-tech/motion_shaper/internal/teleop"
)

func main() {
	configPath := flag.String("config", "shaper_config.txt", "Path to configuration file")
	period := flag.Duration("period", 50*time.Millisecond, "Publish period")
	flag.Parse()

	log.Println("starting motion-shaper MQTT producer (mock)")

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Get()

	client, err := bus.Connect(cfg.MQTTBroker, cfg.MQTTClientIDInput+"-mock")
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer client.Disconnect(250)

	src := teleop.NewMockSource()
	ticker := time.NewTicker(*period)
	defer ticker.Stop()

	start := time.Now()
	for t := range ticker.C {
		sample, err := src.Next()
		if err != nil {
			log.Printf("error from mock source: %v", err)
			continue
		}
		if err := bus.PublishJSON(client, cfg.TopicInput, false, sample); err != nil {
			log.Printf("%v", err)
			continue
		}

		// one full turn every minute
		yaw := math.Mod(t.Sub(start).Seconds()*6, 360)
		if err := bus.PublishJSON(client, cfg.TopicPose, true, teleop.Pose{Yaw: yaw}); err != nil {
			log.Printf("%v", err)
		}
	}
}
