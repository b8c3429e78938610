// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package profile

import (
	"testing"

	"go.viam.com/test"
)

func TestDualSpeedBlender(t *testing.T) {
	b := DualSpeedBlender{Primary: 2, Secondary: 8}

	test.That(t, b.Calculate(Increase, 0), test.ShouldEqual, 2.0)
	test.That(t, b.Calculate(Increase, 0.5), test.ShouldEqual, 5.0)
	test.That(t, b.Calculate(Increase, 1), test.ShouldEqual, 8.0)
	test.That(t, b.Calculate(Decrease, 0), test.ShouldEqual, 2.0)
	test.That(t, b.Calculate(Decrease, 1), test.ShouldEqual, -4.0)

	t.Run("both and unknown fall back to primary", func(t *testing.T) {
		test.That(t, b.Calculate(Both, 0.7), test.ShouldEqual, 2.0)
		test.That(t, b.Calculate(BlendMode(42), 0.7), test.ShouldEqual, 2.0)
	})

	t.Run("difference is a magnitude", func(t *testing.T) {
		inv := DualSpeedBlender{Primary: 8, Secondary: 2}
		test.That(t, inv.Calculate(Increase, 1), test.ShouldEqual, 14.0)
		test.That(t, inv.Calculate(Decrease, 1), test.ShouldEqual, 2.0)
	})

	t.Run("factors are not clamped", func(t *testing.T) {
		test.That(t, b.Calculate(Increase, 2), test.ShouldEqual, 14.0)
		test.That(t, b.Calculate(Increase, -1), test.ShouldEqual, -4.0)
	})
}

func TestTriSpeedBlender(t *testing.T) {
	b := TriSpeedBlender{Primary: 7.5, Secondary: 12, Tertiary: 4.5}

	for _, mode := range []BlendMode{Increase, Decrease, Both, BlendMode(-1)} {
		test.That(t, b.Calculate(mode, 0, 0), test.ShouldEqual, 7.5)
	}

	test.That(t, b.Calculate(Increase, 1, 0), test.ShouldEqual, 12.0)
	test.That(t, b.Calculate(Increase, 1, 1), test.ShouldEqual, 19.5)
	test.That(t, b.Calculate(Decrease, 1, 0), test.ShouldEqual, 3.0)
	test.That(t, b.Calculate(Decrease, 1, 1), test.ShouldEqual, -4.5)

	t.Run("both pulls each factor from primary", func(t *testing.T) {
		test.That(t, b.Calculate(Both, 1, 0), test.ShouldEqual, 12.0)
		test.That(t, b.Calculate(Both, 0, 1), test.ShouldEqual, 4.5)
		test.That(t, b.Calculate(Both, 1, 1), test.ShouldEqual, 9.0)
		test.That(t, b.Calculate(Both, 0.5, 0.5), test.ShouldEqual, 8.25)
	})

	test.That(t, b.Calculate(BlendMode(9), 1, 1), test.ShouldEqual, 7.5)
}

func TestParseBlendMode(t *testing.T) {
	for s, want := range map[string]BlendMode{
		"increase": Increase,
		"DECREASE": Decrease,
		" Both ":   Both,
	} {
		got, err := ParseBlendMode(s)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, got, test.ShouldEqual, want)
		test.That(t, got.String(), test.ShouldEqual, want.String())
	}

	_, err := ParseBlendMode("sideways")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "sideways")
	test.That(t, BlendMode(7).String(), test.ShouldEqual, "BlendMode(7)")
}
