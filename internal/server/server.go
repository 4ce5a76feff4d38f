// Package server implements the Promised Land game server: a WebSocket
// endpoint backed by the rules engine, with lobbies and persistence.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"golang.org/x/time/rate"

	"promised-land/internal/content"
	"promised-land/internal/database"
	"promised-land/internal/game"
	"promised-land/internal/protocol"
)

// ServerVersion is reported in the welcome message.
const ServerVersion = "0.1.0"

// Config holds server configuration.
type Config struct {
	Addr   string
	DBPath string
}

// Server is the main game server.
type Server struct {
	db      *database.DB
	content *content.Registry
	hub     *Hub
	addr    string
	log     *slog.Logger
	server  *http.Server

	// One engine per running game so each game keeps its own random stream.
	engines   map[string]*game.Engine
	enginesMu sync.Mutex
}

// New creates a new server.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := database.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	reg, err := content.Load()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load content tables: %w", err)
	}

	s := &Server{
		db:      db,
		content: reg,
		addr:    cfg.Addr,
		log:     logger,
		engines: make(map[string]*game.Engine),
	}
	s.hub = NewHub(s)

	return s, nil
}

// DB exposes the underlying database.
func (s *Server) DB() *database.DB { return s.db }

// engineFor returns the engine for a game, creating it on first use. The
// seed fixes the conversion-roll stream for the life of this process.
func (s *Server) engineFor(gameID string, seed int64, cfg game.Config) *game.Engine {
	s.enginesMu.Lock()
	defer s.enginesMu.Unlock()

	if e, ok := s.engines[gameID]; ok {
		return e
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	e := game.NewEngine(s.content, cfg, rand.New(rand.NewSource(seed)))
	s.engines[gameID] = e
	return e
}

// dropEngine releases the engine for a finished or deleted game.
func (s *Server) dropEngine(gameID string) {
	s.enginesMu.Lock()
	delete(s.engines, gameID)
	s.enginesMu.Unlock()
}

// Start starts the server and blocks until it stops.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/api/games", s.handleListGames)

	s.server = &http.Server{
		Addr:    s.addr,
		Handler: mux,
	}

	s.log.Info("server listening", "addr", s.addr, "ws", "/ws")

	go s.hub.Run()

	err := s.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			return err
		}
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// handleWebSocket accepts a WebSocket connection and hands it to the hub.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		// The desktop client connects from its own origin.
		InsecureSkipVerify: true,
	})
	if err != nil {
		s.log.Warn("websocket accept failed", "err", err)
		return
	}

	client := NewClient(s.hub, conn)
	s.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}

// handleListGames returns the public game list over plain HTTP.
func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	games, err := s.db.ListPublicGames()
	if err != nil {
		http.Error(w, "Failed to list games", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(games)
}

// Hub maintains the set of active clients and routes messages.
type Hub struct {
	server *Server

	clients       map[*Client]bool
	playerClients map[string]*Client
	gameClients   map[string]map[*Client]bool

	// Serializes action application per game.
	gameLocks map[string]*sync.Mutex

	register   chan *Client
	unregister chan *Client
	inbound    chan *ClientMessage

	mu sync.RWMutex
}

// ClientMessage wraps a message with its source client.
type ClientMessage struct {
	Client  *Client
	Message *protocol.Message
}

// NewHub creates a new Hub.
func NewHub(server *Server) *Hub {
	return &Hub{
		server:        server,
		clients:       make(map[*Client]bool),
		playerClients: make(map[string]*Client),
		gameClients:   make(map[string]map[*Client]bool),
		gameLocks:     make(map[string]*sync.Mutex),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		inbound:       make(chan *ClientMessage, 256),
	}
}

// Run starts the hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

			h.sendWelcome(client)

		case client := <-h.unregister:
			h.handleDisconnect(client)

		case msg := <-h.inbound:
			// Handled off the hub goroutine; per-game locks keep action
			// application serialized.
			go h.handleMessage(msg)
		}
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Dispatch queues an incoming message for handling.
func (h *Hub) Dispatch(client *Client, msg *protocol.Message) {
	h.inbound <- &ClientMessage{Client: client, Message: msg}
}

// lockGame returns the mutex serializing a game's actions.
func (h *Hub) lockGame(gameID string) *sync.Mutex {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.gameLocks[gameID] == nil {
		h.gameLocks[gameID] = &sync.Mutex{}
	}
	return h.gameLocks[gameID]
}

// sendWelcome sends a welcome message to a new client.
func (h *Hub) sendWelcome(client *Client) {
	payload := protocol.WelcomePayload{ServerVersion: ServerVersion}
	msg, _ := protocol.NewMessage(protocol.TypeWelcome, payload)
	client.Send(msg)
}

// handleDisconnect handles a client disconnecting.
func (h *Hub) handleDisconnect(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; !ok {
		h.mu.Unlock()
		return
	}

	delete(h.clients, client)

	var gameID string
	if client.PlayerID != "" {
		delete(h.playerClients, client.PlayerID)

		if client.GameID != "" {
			gameID = client.GameID
			if gameClients, ok := h.gameClients[gameID]; ok {
				delete(gameClients, client)
			}
		}
	}

	close(client.send)
	h.mu.Unlock()

	if gameID != "" {
		h.server.db.SetPlayerConnected(gameID, client.PlayerID, false)
		h.notifyGamePlayers(gameID, protocol.TypeDisconnect, protocol.DisconnectPayload{
			PlayerID: client.PlayerID,
			Reason:   "disconnected",
		})
	}
}

// handleMessage routes incoming messages.
func (h *Hub) handleMessage(cm *ClientMessage) {
	handlers := NewHandlers(h)
	handlers.Handle(cm.Client, cm.Message)
}

// notifyGamePlayers sends a message to all players in a game.
// Callers must not hold h.mu for writing.
func (h *Hub) notifyGamePlayers(gameID string, msgType protocol.MessageType, payload interface{}) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.gameClients[gameID]))
	for c := range h.gameClients[gameID] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	msg, err := protocol.NewMessage(msgType, payload)
	if err != nil {
		return
	}

	for _, client := range clients {
		client.Send(msg)
	}
}

// AddClientToGame adds a client to a game's client list.
func (h *Hub) AddClientToGame(client *Client, gameID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.gameClients[gameID] == nil {
		h.gameClients[gameID] = make(map[*Client]bool)
	}
	h.gameClients[gameID][client] = true
	client.GameID = gameID
}

// RemoveClientFromGame removes a client from a game.
func (h *Hub) RemoveClientFromGame(client *Client, gameID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.gameClients[gameID]; ok {
		delete(clients, client)
	}
	if client.GameID == gameID {
		client.GameID = ""
	}
}

// SetClientPlayer associates a client with a player ID. If the player was
// already connected elsewhere, the old connection is superseded.
func (h *Hub) SetClientPlayer(client *Client, playerID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client.PlayerID = playerID
	h.playerClients[playerID] = client
}

// Client message rate limit: sustained and burst.
const (
	clientMessageRate  = 20
	clientMessageBurst = 40
	maxMessageSize     = 65536
)

// Client represents a connected WebSocket client.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan *protocol.Message
	limiter *rate.Limiter

	PlayerID string
	GameID   string
	Name     string
}

// NewClient creates a new client.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:     hub,
		conn:    conn,
		send:    make(chan *protocol.Message, 256),
		limiter: rate.NewLimiter(rate.Limit(clientMessageRate), clientMessageBurst),
	}
}

// Send queues a message to be sent to the client.
func (c *Client) Send(msg *protocol.Message) {
	select {
	case c.send <- msg:
	default:
		// Channel full, client too slow.
		c.hub.Unregister(c)
	}
}

// ReadPump reads messages from the WebSocket and dispatches them.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	ctx := context.Background()

	for {
		msgType, data, err := c.conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway && status != -1 {
				c.hub.server.log.Debug("websocket read error", "err", err)
			}
			return
		}

		if msgType != websocket.MessageText {
			continue
		}

		var msg protocol.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.hub.server.log.Debug("invalid message", "err", err)
			continue
		}

		if !c.limiter.Allow() {
			payload := protocol.ErrorPayload{
				Code:    protocol.ErrCodeRateLimited,
				Message: "too many messages",
			}
			errMsg, _ := protocol.NewMessage(protocol.TypeError, payload)
			errMsg.ID = msg.ID
			c.Send(errMsg)
			continue
		}

		c.hub.Dispatch(c, &msg)
	}
}

// WritePump writes queued messages to the WebSocket and keeps it alive.
func (c *Client) WritePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	ctx := context.Background()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}

			data, err := json.Marshal(msg)
			if err != nil {
				c.hub.server.log.Warn("failed to marshal message", "err", err)
				continue
			}

			writeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			err = c.conn.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}
		}
	}
}
