// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package input

import (
	"errors"
	"io"
	"strings"
	"testing"

	nmea "github.com/adrianmo/go-nmea"
	"go.viam.com/test"

	"github.com/relabs-tech/motion_shaper/internal/teleop"
)

func TestEncodeParseRoundTrip(t *testing.T) {
	Register()
	Register()

	line := Encode(teleop.Sample{X: 0.5, Y: -0.25, R: 1, Boost: 0.75, Trim: 0})
	test.That(t, line, test.ShouldStartWith, "$JSAXS,0.5000,-0.2500,1.0000,0.7500,0.0000*")

	s, err := nmea.Parse(line)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s.DataType(), test.ShouldEqual, TypeAXS)
	test.That(t, s.TalkerID(), test.ShouldEqual, TalkerJoystick)

	axs, ok := s.(AXS)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, axs.Sample(), test.ShouldResemble, teleop.Sample{
		Source: "serial", X: 0.5, Y: -0.25, R: 1, Boost: 0.75, Trim: 0,
	})
}

func TestReaderSkipsNoise(t *testing.T) {
	rmc := "GPRMC,220516,A,5133.82,N,00042.24,W,173.8,231.8,130694,004.2,W"
	good := Encode(teleop.Sample{X: -1, Boost: 1})
	bad := strings.Replace(Encode(teleop.Sample{X: 0.3}), "0.3000", "0.9000", 1)

	stream := strings.Join([]string{
		"bridge v1.2 booting",
		"",
		bad,
		"$" + rmc + "*" + nmea.Checksum(rmc),
		"$JSAXS,abc,0,0,0,0*" + nmea.Checksum("JSAXS,abc,0,0,0,0"),
		good,
	}, "\r\n")

	r := NewReader(strings.NewReader(stream))
	s, err := r.Next()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s.X, test.ShouldEqual, -1.0)
	test.That(t, s.Boost, test.ShouldEqual, 1.0)
	test.That(t, s.Source, test.ShouldEqual, "serial")
	test.That(t, s.Time, test.ShouldNotBeEmpty)
	// bad checksum and bad float
	test.That(t, r.Dropped(), test.ShouldEqual, 2)

	_, err = r.Next()
	test.That(t, errors.Is(err, io.EOF), test.ShouldBeTrue)
}
