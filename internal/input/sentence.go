// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package input reads operator samples from a joystick bridge on a serial
// port. The bridge speaks NMEA 0183 framing with one private sentence:
//
//	$JSAXS,<x>,<y>,<r>,<boost>,<trim>*<checksum>
//
// Axes are in [-1, 1], the two triggers in [0, 1].
package input

import (
	"fmt"
	"strconv"
	"sync"

	nmea "github.com/adrianmo/go-nmea"

	"github.com/relabs-tech/motion_shaper/internal/teleop"
)

const (
	// TypeAXS is the sentence type of an axis frame.
	TypeAXS = "AXS"
	// TalkerJoystick is the talker id used by the bridge.
	TalkerJoystick = "JS"
)

// AXS is one decoded axis frame.
type AXS struct {
	nmea.BaseSentence
	X     float64
	Y     float64
	R     float64
	Boost float64
	Trim  float64
}

var registerOnce sync.Once

// Register installs the AXS parser in go-nmea. It is safe to call more
// than once.
func Register() {
	registerOnce.Do(func() {
		nmea.MustRegisterParser(TypeAXS, func(s nmea.BaseSentence) (nmea.Sentence, error) {
			p := nmea.NewParser(s)
			return AXS{
				BaseSentence: s,
				X:            p.Float64(0, "x"),
				Y:            p.Float64(1, "y"),
				R:            p.Float64(2, "r"),
				Boost:        p.Float64(3, "boost"),
				Trim:         p.Float64(4, "trim"),
			}, p.Err()
		})
	})
}

// Sample converts the frame into an operator sample.
func (a AXS) Sample() teleop.Sample {
	return teleop.Sample{Source: "serial", X: a.X, Y: a.Y, R: a.R, Boost: a.Boost, Trim: a.Trim}
}

// Encode formats s as a checksummed AXS sentence, as the bridge sends it.
func Encode(s teleop.Sample) string {
	body := TalkerJoystick + TypeAXS + "," +
		format(s.X) + "," + format(s.Y) + "," + format(s.R) + "," +
		format(s.Boost) + "," + format(s.Trim)
	return fmt.Sprintf("$%s*%s", body, nmea.Checksum(body))
}

func format(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
