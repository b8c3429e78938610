// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/motion_shaper/internal/app"
	"github.com/relabs-tech/motion_shaper/internal/config"
)

func main() {
	configPath := flag.String("config", "shaper_config.txt", "Path to configuration file")
	flag.Parse()

	log.Println("starting motion-shaper control loop (MQTT input -> command)")

	// Load configuration
	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunShaper(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
