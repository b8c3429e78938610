// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.viam.com/test"

	"github.com/relabs-tech/motion_shaper/internal/teleop"
)

type doneToken struct{ err error }

func (t doneToken) Wait() bool                     { return true }
func (t doneToken) WaitTimeout(time.Duration) bool { return true }
func (t doneToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t doneToken) Error() error { return t.err }

type fakePublisher struct {
	mu       sync.Mutex
	err      error
	topics   []string
	payloads [][]byte
}

func (f *fakePublisher) Publish(topic string, _ byte, _ bool, payload interface{}) mqtt.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.topics = append(f.topics, topic)
	f.payloads = append(f.payloads, payload.([]byte))
	return doneToken{err: f.err}
}

func (f *fakePublisher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.payloads)
}

func (f *fakePublisher) lastCommand(t *testing.T) teleop.Command {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	test.That(t, len(f.payloads), test.ShouldBeGreaterThan, 0)

	var cmd teleop.Command
	test.That(t, json.Unmarshal(f.payloads[len(f.payloads)-1], &cmd), test.ShouldBeNil)
	return cmd
}
