// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	nmea "github.com/adrianmo/go-nmea"
	serial "github.com/jacobsa/go-serial/serial"

	"github.com/relabs-tech/motion_shaper/internal/teleop"
)

// OpenSerial opens the joystick bridge port (8N1, blocking reads).
func OpenSerial(port string, baud int) (io.ReadWriteCloser, error) {
	opts := serial.OpenOptions{
		PortName:              port,
		BaudRate:              uint(baud),
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}
	rwc, err := serial.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open joystick port %s: %w", port, err)
	}
	log.Printf("input: joystick port opened on %s at %d baud", port, baud)
	return rwc, nil
}

// Reader turns a stream of bridge sentences into samples.
type Reader struct {
	r       *bufio.Reader
	dropped int
}

// NewReader wraps r. Register is called on the caller's behalf.
func NewReader(r io.Reader) *Reader {
	Register()
	return &Reader{r: bufio.NewReader(r)}
}

// Next returns the next valid axis frame. Lines that are not sentences,
// fail their checksum, or carry another sentence type are skipped; the
// bridge shares the line with its boot messages.
func (r *Reader) Next() (teleop.Sample, error) {
	for {
		line, err := r.r.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return teleop.Sample{}, err
		}

		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "$") {
			continue
		}

		sentence, perr := nmea.Parse(line)
		if perr != nil {
			r.dropped++
			continue
		}
		axs, ok := sentence.(AXS)
		if !ok {
			continue
		}

		s := axs.Sample()
		s.Time = time.Now().Format(time.RFC3339Nano)
		return s, nil
	}
}

// Dropped returns how many malformed sentences were skipped.
func (r *Reader) Dropped() int { return r.dropped }
