// Package server is the roomd daemon: WebSocket clients request rooms and every
// connected client receives the anchors of each room generated.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/lawnchairsociety/roomforge/internal/anchors"
	"github.com/lawnchairsociety/roomforge/internal/config"
	"github.com/lawnchairsociety/roomforge/internal/generator"
	"github.com/lawnchairsociety/roomforge/internal/logger"
)

// Archiver stores generated rooms. *database.Database satisfies it.
type Archiver interface {
	SaveRoom(res *generator.Result) (int64, error)
}

type Server struct {
	cfg          *config.Config
	cache        *generator.Cache
	archive      Archiver
	publishers   []anchors.Publisher
	connLimiter  *ConnLimiter
	clients      map[Client]struct{}
	mu           sync.RWMutex
	httpServer   *http.Server
	shutdownOnce sync.Once
}

// anchorMessage is the broadcast envelope
type anchorMessage struct {
	Type    string      `json:"type"`
	Anchors anchors.Set `json:"anchors"`
}

// NewServer creates a daemon for cfg. Cache, archive and extra publishers are optional.
func NewServer(cfg *config.Config) *Server {
	return &Server{
		cfg:         cfg,
		connLimiter: NewConnLimiter(cfg.Server.Connections),
		clients:     make(map[Client]struct{}),
	}
}

// SetCache routes generation through a result cache
func (s *Server) SetCache(c *generator.Cache) {
	s.cache = c
}

// SetArchive stores every generated room
func (s *Server) SetArchive(a Archiver) {
	s.archive = a
}

// AddPublisher forwards every anchor set to p as well as to the connected clients
func (s *Server) AddPublisher(p anchors.Publisher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publishers = append(s.publishers, p)
}

// Handler returns the HTTP handler serving /ws
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocketUpgrade)
	return mux
}

// Start listens on the configured address until Shutdown.
func (s *Server) Start() error {
	srv := &http.Server{Addr: s.cfg.Server.Address, Handler: s.Handler()}
	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	logger.Info("WebSocket server listening", "address", s.cfg.Server.Address)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown stops accepting connections and disconnects every client.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		srv := s.httpServer
		clients := make([]Client, 0, len(s.clients))
		for c := range s.clients {
			clients = append(clients, c)
		}
		s.mu.Unlock()

		if srv != nil {
			err = srv.Shutdown(ctx)
		}
		// Hijacked connections are not closed by http.Server
		for _, c := range clients {
			c.Close()
		}
		logger.Info("Server shutdown complete", "clients", len(clients))
	})
	return err
}

// ClientCount returns the number of connected clients
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Publish sends the anchor set to every connected client and extra publisher.
// It makes Server an anchors.Publisher.
func (s *Server) Publish(set anchors.Set) error {
	data, err := json.Marshal(anchorMessage{Type: "anchors", Anchors: set})
	if err != nil {
		return fmt.Errorf("failed to encode anchors: %w", err)
	}

	s.mu.RLock()
	clients := make([]Client, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	pubs := append([]anchors.Publisher(nil), s.publishers...)
	s.mu.RUnlock()

	for _, c := range clients {
		if err := c.Write(data); err != nil {
			logger.Debug("Anchor broadcast failed", "remote_addr", c.RemoteAddr(), "error", err)
		}
	}
	return anchors.PublishAll(set, pubs...)
}

func (s *Server) handleWebSocketUpgrade(w http.ResponseWriter, r *http.Request) {
	clientIP := getRealIP(r)

	if !s.connLimiter.TryAcquire(clientIP) {
		logger.Warning("WebSocket connection rejected - limit exceeded",
			"remote_addr", r.RemoteAddr,
			"client_ip", clientIP)
		http.Error(w, "Too many connections. Please try again later.", http.StatusTooManyRequests)
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			allowed := s.cfg.Server.WebSocket.IsOriginAllowed(origin, r.Host)
			if !allowed {
				logger.Warning("WebSocket connection rejected - origin not allowed",
					"origin", origin,
					"host", r.Host,
					"remote_addr", r.RemoteAddr)
			}
			return allowed
		},
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error
		logger.Debug("WebSocket upgrade failed", "error", err)
		s.connLimiter.Release(clientIP)
		return
	}

	go func() {
		defer func() {
			s.connLimiter.Release(clientIP)
			wsConn.Close()
		}()
		s.handleClient(NewWebSocketClient(wsConn, s.cfg.Server.WebSocket.MaxMessageSize))
	}()
}

// handleClient subscribes the client to anchor broadcasts and runs its command loop.
func (s *Server) handleClient(client Client) {
	logger.Info("Client connected", "remote_addr", client.RemoteAddr())

	s.mu.Lock()
	s.clients[client] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.clients, client)
		s.mu.Unlock()
		logger.Info("Client disconnected", "remote_addr", client.RemoteAddr())
	}()

	for {
		line, err := client.ReadLine()
		if err != nil {
			return
		}
		if !s.handleCommand(client, line) {
			return
		}
	}
}
