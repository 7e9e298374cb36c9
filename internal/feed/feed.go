// Package feed broadcasts assistant events as JSON frames to websocket
// subscribers, so desktop widgets can mirror what the voice daemon hears
// and answers.
package feed

import (
	"context"
	"encoding/json"
	log "log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event is one assistant interaction as seen by subscribers.
type Event struct {
	Kind      string    `json:"kind"` // transcript | response | error
	Input     string    `json:"input,omitempty"`
	Response  string    `json:"response,omitempty"`
	Backend   string    `json:"backend,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// subscriber pairs a connection with its write lock; gorilla allows at
// most one concurrent writer per connection.
type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *subscriber) write(payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
	return s.conn.WriteMessage(websocket.TextMessage, payload)
}

type Server struct {
	addr     string
	upgrader websocket.Upgrader
	srv      *http.Server

	mu      sync.Mutex
	clients map[*websocket.Conn]*subscriber
}

func NewServer(addr string) *Server {
	return &Server{
		addr:    addr,
		clients: make(map[*websocket.Conn]*subscriber),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
}

// Start serves the /events endpoint until Shutdown.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/events", s.handleEvents)
	s.srv = &http.Server{Addr: s.addr, Handler: mux}

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("feed server failed", "err", err)
		}
	}()

	log.Info("event feed listening", "addr", s.addr)
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	for conn := range s.clients {
		conn.Close()
	}
	s.clients = make(map[*websocket.Conn]*subscriber)
	s.mu.Unlock()

	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("feed upgrade failed", "err", err)
		return
	}

	s.mu.Lock()
	s.clients[conn] = &subscriber{conn: conn}
	s.mu.Unlock()

	log.Debug("feed subscriber connected", "remote", conn.RemoteAddr())

	// Drain the connection so pings and closes are processed; drop the
	// client on any read error.
	go func() {
		defer s.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) drop(conn *websocket.Conn) {
	s.mu.Lock()
	delete(s.clients, conn)
	s.mu.Unlock()
	conn.Close()
}

// Publish fans the event out to every subscriber. Slow or dead clients
// are dropped rather than blocking the daemon.
func (s *Server) Publish(ev Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Error("feed marshal failed", "err", err)
		return
	}

	s.mu.Lock()
	subs := make([]*subscriber, 0, len(s.clients))
	for _, sub := range s.clients {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		if err := sub.write(payload); err != nil {
			log.Warn("feed write failed, dropping subscriber", "err", err)
			s.drop(sub.conn)
		}
	}
}
