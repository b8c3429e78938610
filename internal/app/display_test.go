// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"testing"

	"go.viam.com/test"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/relabs-tech/motion_shaper/internal/teleop"
)

func lit(img *image1bit.VerticalLSB, x, y int) bool {
	return img.BitAt(x, y) == image1bit.On
}

func TestRenderCommandBars(t *testing.T) {
	img := renderCommand(teleop.Command{X: 1, Y: -1, R: 0.5, Enabled: true}, true)
	test.That(t, img.Bounds().Dx(), test.ShouldEqual, displayWidth)

	// X row grows right to the edge of the bar
	test.That(t, lit(img, barOriginX+barHalfWidth, 17), test.ShouldBeTrue)
	test.That(t, lit(img, barOriginX-barHalfWidth, 17), test.ShouldBeFalse)

	// Y row grows left
	test.That(t, lit(img, barOriginX-barHalfWidth, 37), test.ShouldBeTrue)
	test.That(t, lit(img, barOriginX+barHalfWidth, 37), test.ShouldBeFalse)

	// R row stops halfway
	test.That(t, lit(img, barOriginX+barHalfWidth/2, 57), test.ShouldBeTrue)
	test.That(t, lit(img, barOriginX+barHalfWidth/2+1, 57), test.ShouldBeFalse)
}

func TestRenderCommandClipsBars(t *testing.T) {
	img := renderCommand(teleop.Command{X: 3, Enabled: true}, true)
	test.That(t, lit(img, barOriginX+barHalfWidth, 17), test.ShouldBeTrue)
	test.That(t, lit(img, barOriginX+barHalfWidth+1, 17), test.ShouldBeFalse)
}

func TestRenderCommandDisabled(t *testing.T) {
	img := renderCommand(teleop.Command{X: 1}, true)
	test.That(t, lit(img, barOriginX+barHalfWidth, 17), test.ShouldBeFalse)
}

func TestCommandView(t *testing.T) {
	v := &commandView{}
	_, have := v.get()
	test.That(t, have, test.ShouldBeFalse)

	v.set(teleop.Command{R: 0.2, Enabled: true})
	cmd, have := v.get()
	test.That(t, have, test.ShouldBeTrue)
	test.That(t, cmd.R, test.ShouldEqual, 0.2)
}

func TestFormatCommand(t *testing.T) {
	test.That(t, formatCommand(teleop.Command{X: 0.5, Y: -0.25, Enabled: true}), test.ShouldEqual,
		"[CMD]  x=+0.500 y=-0.250 r=+0.000  enabled")
	test.That(t, formatCommand(teleop.Command{}), test.ShouldContainSubstring, "DISABLED")
	test.That(t, formatSample(teleop.Sample{Source: "mock", Boost: 1}), test.ShouldEndWith, "(mock)")
}
