// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"image"
	"log"
	"math"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/motion_shaper/internal/bus"
	"github.com/relabs-tech/motion_shaper/internal/config"
	"github.com/relabs-tech/motion_shaper/internal/teleop"
)

const (
	displayWidth  = 128
	displayHeight = 64
	barOriginX    = 64
	barHalfWidth  = 60
)

// addrBus pins every transaction to a fixed address so the panel can live
// on 0x3D as well as the driver default.
type addrBus struct {
	i2c.Bus
	addr uint16
}

func (b *addrBus) Tx(_ uint16, w, r []byte) error {
	return b.Bus.Tx(b.addr, w, r)
}

// commandView holds the latest command for the render loop.
type commandView struct {
	mu   sync.RWMutex
	cmd  teleop.Command
	have bool
}

func (v *commandView) set(cmd teleop.Command) {
	v.mu.Lock()
	v.cmd = cmd
	v.have = true
	v.mu.Unlock()
}

func (v *commandView) get() (teleop.Command, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.cmd, v.have
}

// RunDisplay shows the shaped command on an SSD1306 panel.
func RunDisplay() error {
	cfg := config.Get()
	if cfg == nil {
		return fmt.Errorf("display: configuration not loaded")
	}

	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph: %w", err)
	}

	b, err := i2creg.Open(cfg.DisplayI2CBus)
	if err != nil {
		return fmt.Errorf("failed to open I2C bus: %w", err)
	}
	defer b.Close()

	dev, err := ssd1306.NewI2C(&addrBus{Bus: b, addr: cfg.DisplayI2CAddr}, &ssd1306.DefaultOpts)
	if err != nil {
		return fmt.Errorf("failed to initialize display: %w", err)
	}
	log.Printf("display: initialized at 0x%02X", cfg.DisplayI2CAddr)

	if err := dev.Draw(dev.Bounds(), renderSplash(), image.Point{}); err != nil {
		log.Printf("display: error showing splash: %v", err)
	}

	client, err := bus.Connect(cfg.MQTTBroker, cfg.MQTTClientIDDisplay)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	view := &commandView{}
	if err := bus.SubscribeJSON(client, cfg.TopicCommand, view.set); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(time.Duration(cfg.DisplayUpdateInterval) * time.Millisecond)
	defer ticker.Stop()

	log.Println("display: starting update loop")
	for {
		select {
		case <-sigCh:
			log.Println("display: shutting down")
			return dev.Halt()
		case <-ticker.C:
			cmd, have := view.get()
			if err := dev.Draw(dev.Bounds(), renderCommand(cmd, have), image.Point{}); err != nil {
				log.Printf("display: error updating display: %v", err)
			}
		}
	}
}

func newFrame() (*image1bit.VerticalLSB, *font.Drawer) {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, displayWidth, displayHeight))
	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}
	return img, drawer
}

func renderSplash() *image1bit.VerticalLSB {
	img, drawer := newFrame()
	drawer.Dot = fixed.P(10, 26)
	drawer.DrawString("Motion Shaper")
	drawer.Dot = fixed.P(20, 43)
	drawer.DrawString("Waiting...")
	return img
}

// renderCommand draws one labelled bar per axis, growing left or right of
// the centre line with the sign of the command.
func renderCommand(cmd teleop.Command, have bool) *image1bit.VerticalLSB {
	if !have {
		return renderSplash()
	}

	img, drawer := newFrame()
	if !cmd.Enabled {
		drawer.Dot = fixed.P(30, 36)
		drawer.DrawString("DISABLED")
		return img
	}

	rows := []struct {
		label string
		value float64
	}{
		{"X", cmd.X},
		{"Y", cmd.Y},
		{"R", cmd.R},
	}
	for i, row := range rows {
		base := 13 + i*20
		drawer.Dot = fixed.P(0, base)
		drawer.DrawString(fmt.Sprintf("%s %+5.2f", row.label, row.value))
		drawBar(img, base+3, row.value)
	}
	return img
}

func drawBar(img *image1bit.VerticalLSB, y int, value float64) {
	n := int(math.Round(math.Max(-1, math.Min(1, value)) * barHalfWidth))
	from, to := barOriginX, barOriginX+n
	if n < 0 {
		from, to = to, from
	}
	for x := from; x <= to; x++ {
		for dy := 0; dy < 3; dy++ {
			img.SetBit(x, y+dy, image1bit.On)
		}
	}
}
