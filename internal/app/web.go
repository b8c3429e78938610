// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/relabs-tech/motion_shaper/internal/bus"
	"github.com/relabs-tech/motion_shaper/internal/config"
	"github.com/relabs-tech/motion_shaper/internal/teleop"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

const (
	wsWriteTimeout = 2 * time.Second
	maxTuneBody    = 1 << 12
)

// WebServer serves the latest command as JSON, streams commands over a
// websocket and forwards tuning requests to the shaper.
type WebServer struct {
	mu      sync.RWMutex
	last    teleop.Command
	have    bool
	clients map[chan teleop.Command]struct{}

	pub       bus.Publisher
	tuneTopic string
	staticDir string
}

// NewWebServer returns a server publishing tunings on tuneTopic. An empty
// staticDir disables the file server.
func NewWebServer(pub bus.Publisher, tuneTopic, staticDir string) *WebServer {
	return &WebServer{
		clients:   make(map[chan teleop.Command]struct{}),
		pub:       pub,
		tuneTopic: tuneTopic,
		staticDir: staticDir,
	}
}

// UpdateCommand stores cmd and fans it out to websocket clients. Slow
// clients miss updates rather than stall the broker callback.
func (s *WebServer) UpdateCommand(cmd teleop.Command) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.last = cmd
	s.have = true
	for ch := range s.clients {
		select {
		case ch <- cmd:
		default:
		}
	}
}

// Handler returns the HTTP routes.
func (s *WebServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/command", s.handleCommand)
	mux.HandleFunc("/api/tune", s.handleTune)
	mux.HandleFunc("/ws", s.handleWS)
	if s.staticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(s.staticDir)))
	}
	return mux
}

func (s *WebServer) handleCommand(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	cmd, have := s.last, s.have
	s.mu.RUnlock()

	if !have {
		http.Error(w, "no data yet", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(cmd); err != nil {
		log.Printf("web: json encode error: %v", err)
	}
}

func (s *WebServer) handleTune(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var t teleop.Tuning
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxTuneBody)).Decode(&t); err != nil {
		http.Error(w, fmt.Sprintf("invalid tuning: %v", err), http.StatusBadRequest)
		return
	}
	switch t.Axis {
	case "x", "y", "r":
	default:
		http.Error(w, fmt.Sprintf("unknown axis %q", t.Axis), http.StatusBadRequest)
		return
	}

	if err := bus.PublishJSON(s.pub, s.tuneTopic, false, t); err != nil {
		log.Printf("web: %v", err)
		http.Error(w, "broker unavailable", http.StatusBadGateway)
		return
	}
	log.Printf("web: forwarded tuning for %s axis", t.Axis)
	w.WriteHeader(http.StatusAccepted)
}

func (s *WebServer) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("web: websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	ch := make(chan teleop.Command, 8)
	s.mu.Lock()
	s.clients[ch] = struct{}{}
	last, have := s.last, s.have
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.clients, ch)
		s.mu.Unlock()
	}()

	// The reader only exists to notice the client going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("web: websocket error: %v", err)
				}
				return
			}
		}
	}()

	if have {
		if err := s.write(conn, last); err != nil {
			return
		}
	}
	for {
		select {
		case <-closed:
			return
		case cmd := <-ch:
			if err := s.write(conn, cmd); err != nil {
				return
			}
		}
	}
}

func (s *WebServer) write(conn *websocket.Conn, cmd teleop.Command) error {
	if err := conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(cmd)
}

// RunWeb subscribes to the command topic and serves the operator page.
func RunWeb() error {
	cfg := config.Get()
	if cfg == nil {
		return fmt.Errorf("web: configuration not loaded")
	}

	client, err := bus.Connect(cfg.MQTTBroker, cfg.MQTTClientIDWeb)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	srv := NewWebServer(client, cfg.TopicTune, "web")
	if err := bus.SubscribeJSON(client, cfg.TopicCommand, srv.UpdateCommand); err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	log.Printf("web: server listening on %s", addr)
	return http.ListenAndServe(addr, srv.Handler())
}
