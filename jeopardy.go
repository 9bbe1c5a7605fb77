/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Jeopardy web game
//
// Each game ID owns one board of random categories pulled from the trivia api.
// Clicking a cell shows its question, clicking again shows the answer.
//
// Features:
// - WebSockets per game ID: /path/:gameid and /path/:gameid/ws
// - One hub goroutine per game owns the board controller; loads run in the
//   background and are applied only if no newer board was requested since
// - Categories with too few clues are left off rather than padded
// - Every browser tab on the same game ID sees the same board
// - Games auto-reaped after configurable idle timeout
// - Random 8-char game IDs via crypto/rand, with server-side collision check
// - In-browser QR button to share the current board, backed by go-qrcode

package main

import (
	"context"
	"crypto/rand"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"

	"github.com/Seednode/jeopardy/internal/trivia"
)

// Messages coming from clients
type ClientMessage struct {
	Type string `json:"type"`           // "restart", "activate"
	Cell string `json:"cell,omitempty"` // activate: "<category>-<clue>"
}

// StateMessage tells clients where the board is in its load cycle.
type StateMessage struct {
	Type       string `json:"type"`              // "state"
	Phase      string `json:"phase"`             // "idle", "loading", "ready", "failed"
	Generation uint64 `json:"generation"`        // board generation this state belongs to
	CanRestart bool   `json:"can_restart"`       // whether the start/restart control is enabled
	Message    string `json:"message,omitempty"` // user-facing text
	Skipped    int    `json:"skipped,omitempty"` // categories left off the board
}

// BoardMessage carries the whole rendered grid.
type BoardMessage struct {
	Type       string `json:"type"` // "board"
	Generation uint64 `json:"generation"`
	trivia.Grid
}

// CellMessage carries one re-rendered cell.
type CellMessage struct {
	Type       string `json:"type"` // "cell"
	Generation uint64 `json:"generation"`
	trivia.Cell
}

type Client struct {
	conn     *websocket.Conn
	send     chan any
	clientID string
}

type activateRequest struct {
	client *Client
	cell   string
}

type Hub struct {
	id      string
	clients map[*Client]bool

	register    chan *Client
	unreg       chan *Client
	restarts    chan *Client
	activations chan activateRequest
	loaded      chan trivia.Result
	done        chan struct{}
	closeOnce   sync.Once

	mu sync.RWMutex

	createdAt  time.Time
	lastActive time.Time

	// game is only touched by run.
	game *trivia.Controller
}

func newHub(gameID string, game *trivia.Controller) *Hub {
	now := time.Now()
	return &Hub{
		id:          gameID,
		clients:     make(map[*Client]bool),
		register:    make(chan *Client),
		unreg:       make(chan *Client),
		restarts:    make(chan *Client),
		activations: make(chan activateRequest),
		loaded:      make(chan trivia.Result),
		done:        make(chan struct{}),
		createdAt:   now,
		lastActive:  now,
		game:        game,
	}
}

func (h *Hub) run(cfg *Config) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for {
		select {
		case <-h.done:
			h.game.Stop()
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
				_ = c.conn.Close()
			}
			return

		case c := <-h.register:
			h.touch()
			h.clients[c] = true

			c.send <- h.stateMessage()
			if h.game.Phase() == trivia.PhaseReady {
				c.send <- h.boardMessage()
			}

		case c := <-h.unreg:
			h.touch()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}

		case c := <-h.restarts:
			h.touch()
			h.handleRestart(ctx, cfg, c)

		case req := <-h.activations:
			h.touch()
			h.handleActivate(cfg, req)

		case res := <-h.loaded:
			h.handleLoaded(cfg, res)
		}
	}
}

func (h *Hub) touch() {
	h.mu.Lock()
	h.lastActive = time.Now()
	h.mu.Unlock()
}

func (h *Hub) idleSince() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lastActive
}

// handleRestart throws away the current board and starts loading a new one.
// Restarts are ignored while a load is already running.
func (h *Hub) handleRestart(ctx context.Context, cfg *Config, c *Client) {
	if !h.game.Phase().CanRestart() {
		logf(cfg, "GAMES: Ignored restart from %s in %s while loading", c.clientID, h.id)
		return
	}

	ticket := h.game.Begin(ctx)
	logf(cfg, "GAMES: Loading board %d for %s", ticket.Generation, h.id)

	h.broadcast(h.stateMessage())

	go func() {
		res := h.game.Fetch(ticket)

		select {
		case h.loaded <- res:
		case <-h.done:
		}
	}()
}

func (h *Hub) handleLoaded(cfg *Config, res trivia.Result) {
	if !h.game.Complete(res) {
		logf(cfg, "GAMES: Discarded stale board %d for %s", res.Generation, h.id)
		return
	}

	for _, s := range h.game.Skipped() {
		logf(cfg, "GAMES: Left category %s off board %d in %s: %v", s.ID, res.Generation, h.id, s.Err)
	}

	if err := h.game.Err(); err != nil {
		errorf("GAMES: Failed to load board %d for %s: %v", res.Generation, h.id, err)
	} else {
		logf(cfg, "GAMES: Board %d ready in %s (%d categories)", res.Generation, h.id, h.game.Board().Width())
	}

	h.broadcast(h.stateMessage())
	if h.game.Phase() == trivia.PhaseReady {
		h.broadcast(h.boardMessage())
	}
}

// handleActivate reveals one cell. Bad addresses and clicks on cells that
// already show their answer change nothing.
func (h *Hub) handleActivate(cfg *Config, req activateRequest) {
	view := h.game.View()
	if view == nil {
		return
	}

	cell, changed, err := view.Activate(req.cell)
	if err != nil {
		logf(cfg, "GAMES: Ignored activation from %s in %s: %v", req.client.clientID, h.id, err)
		return
	}
	if !changed {
		return
	}

	h.broadcast(CellMessage{
		Type:       "cell",
		Generation: h.game.Generation(),
		Cell:       cell,
	})
}

func (h *Hub) stateMessage() StateMessage {
	phase := h.game.Phase()

	msg := StateMessage{
		Type:       "state",
		Phase:      phase.String(),
		Generation: h.game.Generation(),
		CanRestart: phase.CanRestart(),
		Skipped:    len(h.game.Skipped()),
	}

	switch phase {
	case trivia.PhaseIdle:
		msg.Message = "Press start to load a board."
	case trivia.PhaseLoading:
		msg.Message = "Loading categories..."
	case trivia.PhaseFailed:
		msg.Message = "Could not load a board. Please try again."
		if errors.Is(h.game.Err(), trivia.ErrSourceUnavailable) {
			msg.Message = "The trivia service is unavailable right now. Please try again."
		}
	}

	return msg
}

func (h *Hub) boardMessage() BoardMessage {
	return BoardMessage{
		Type:       "board",
		Generation: h.game.Generation(),
		Grid:       h.game.View().Render(),
	}
}

// broadcast sends msg to every client, dropping clients that cannot keep up.
func (h *Hub) broadcast(msg any) {
	for client := range h.clients {
		select {
		case client.send <- msg:
		default:
			delete(h.clients, client)
			close(client.send)
		}
	}
}

// closeAll disconnects all clients of this hub and stops it (used by reaper).
func (h *Hub) closeAll() {
	h.closeOnce.Do(func() {
		close(h.done)
	})
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const clientCookieName = "jeopardy_id"

func getOrSetClientID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(clientCookieName); err == nil && c.Value != "" {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}

	id := uuid.NewString()

	http.SetCookie(w, &http.Cookie{
		Name:     clientCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return id
}

// GameManager holds a set of hubs keyed by game ID, so each $path/$gameid
// is its own isolated board.
type GameManager struct {
	mu          sync.Mutex
	hubs        map[string]*Hub
	idleTimeout time.Duration
	newGame     func() *trivia.Controller
	stop        chan struct{}
	stopOnce    sync.Once
}

func newGameManager(idleTimeout time.Duration, newGame func() *trivia.Controller) *GameManager {
	gm := &GameManager{
		hubs:        make(map[string]*Hub),
		idleTimeout: idleTimeout,
		newGame:     newGame,
		stop:        make(chan struct{}),
	}
	if idleTimeout > 0 {
		go gm.reaperLoop()
	}
	return gm
}

func (gm *GameManager) getHub(cfg *Config, gameID string) *Hub {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if hub, ok := gm.hubs[gameID]; ok {
		return hub
	}

	hub := newHub(gameID, gm.newGame())
	gm.hubs[gameID] = hub
	go hub.run(cfg)
	return hub
}

// newGameID generates a crypto-random game ID and ensures it doesn't
// collide with existing games.
func (gm *GameManager) newGameID() string {
	for {
		id := randomGameID()

		gm.mu.Lock()
		_, exists := gm.hubs[id]
		gm.mu.Unlock()

		if !exists {
			return id
		}
	}
}

const (
	gameIDLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	gameIDLength  = 8
)

func randomGameID() string {
	buf := make([]byte, gameIDLength)
	if _, err := rand.Read(buf); err != nil {
		panic("crypto/rand failure: " + err.Error())
	}
	out := make([]byte, gameIDLength)
	for i := range out {
		out[i] = gameIDLetters[int(buf[i])%len(gameIDLetters)]
	}
	return string(out)
}

func validGameID(id string) bool {
	if len(id) == 0 || len(id) > 32 {
		return false
	}
	for _, r := range id {
		if !strings.ContainsRune(gameIDLetters, r) {
			return false
		}
	}
	return true
}

// reaperLoop periodically removes hubs that have been idle longer than idleTimeout.
func (gm *GameManager) reaperLoop() {
	ticker := time.NewTicker(gm.idleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-gm.stop:
			return
		case <-ticker.C:
			gm.reap(time.Now().Add(-gm.idleTimeout))
		}
	}
}

// reap ends every game idle since before cutoff.
func (gm *GameManager) reap(cutoff time.Time) int {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	reaped := 0
	for id, hub := range gm.hubs {
		if hub.idleSince().Before(cutoff) {
			delete(gm.hubs, id)
			hub.closeAll()
			reaped++
		}
	}
	return reaped
}

// Close ends every game and stops the reaper.
func (gm *GameManager) Close() {
	gm.stopOnce.Do(func() {
		close(gm.stop)
	})

	gm.mu.Lock()
	defer gm.mu.Unlock()

	for id, hub := range gm.hubs {
		delete(gm.hubs, id)
		hub.closeAll()
	}
}

// WebSocket handler that picks the hub based on :gameid
func serveWSForManager(cfg *Config, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		gameID := ps.ByName("gameid")
		if !validGameID(gameID) {
			http.Error(w, "invalid game id", http.StatusBadRequest)
			return
		}

		clientID := getOrSetClientID(w, r)

		hub := gm.getHub(cfg, gameID)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logf(cfg, "ERROR: websocket upgrade for %s from %s: %v", gameID, realIP(r), err)
			return
		}

		client := &Client{
			conn:     conn,
			send:     make(chan any, 16),
			clientID: clientID,
		}

		select {
		case hub.register <- client:
		case <-hub.done:
			_ = conn.Close()
			return
		}

		logf(cfg, "GAMES: Client %s connected to %s from %s", clientID, gameID, realIP(r))

		go client.writePump()
		client.readPump(hub)
	}
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		select {
		case h.unreg <- c:
		case <-h.done:
		}
		_ = c.conn.Close()
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Type {
		case "restart":
			select {
			case h.restarts <- c:
			case <-h.done:
				return
			}
		case "activate":
			select {
			case h.activations <- activateRequest{client: c, cell: msg.Cell}:
			case <-h.done:
				return
			}
		default:
			// ignore unknown types
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// QR handler: generates a PNG QR code for the current game URL using go-qrcode.
func qrHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if !validGameID(ps.ByName("gameid")) {
		http.Error(w, "invalid game id", http.StatusBadRequest)
		return
	}

	png, err := qrcode.Encode(gameURL(r), qrcode.Medium, qrSize)
	if err != nil {
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

const qrSize = 320 // mobile-friendly size

// gameURL derives the shareable game URL from a request to .../:gameid/qr,
// respecting TLS and X-Forwarded-Proto if present.
func gameURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		scheme = proto
	}

	return scheme + "://" + r.Host + strings.TrimSuffix(r.URL.Path, "/qr")
}

func getIndexHandler(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if !validGameID(ps.ByName("gameid")) {
			http.NotFound(w, r)
			return
		}

		data, err := assets.ReadFile("assets/jeopardy/index.html")
		if err != nil {
			http.Error(w, "missing page", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		securityHeaders(cfg, w)

		_ = getOrSetClientID(w, r)

		_, _ = w.Write([]byte(strings.ReplaceAll(string(data), "{{prefix}}", cfg.prefix)))
	}
}

// redirectNewGame handles GET /path by generating a new random game ID
// (with server-side collision detection) and redirecting to /path/:gameid.
func redirectNewGame(cfg *Config, path string, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gameID := gm.newGameID()
		logf(cfg, "GAMES: Created game %s/%s", path, gameID)
		http.Redirect(w, r, cfg.prefix+path+"/"+gameID, http.StatusTemporaryRedirect)
	}
}

// registerJeopardyGame sets up routes so that:
//   - $path                  → redirects to new random game (8-char ID)
//   - $path/:gameid          → HTML client
//   - $path/:gameid/ws       → WebSocket for that game
//   - $path/:gameid/qr       → PNG QR code for that game URL
func registerJeopardyGame(cfg *Config, path string, mux *httprouter.Router, provider trivia.Provider) *GameManager {
	gm := newGameManager(cfg.sessionTimeout, func() *trivia.Controller {
		return newController(cfg, provider)
	})

	mux.GET(cfg.prefix+path, redirectNewGame(cfg, path, gm))

	mux.GET(cfg.prefix+path+"/:gameid", getIndexHandler(cfg))

	mux.GET(cfg.prefix+path+"/:gameid/ws", serveWSForManager(cfg, gm))

	mux.GET(cfg.prefix+path+"/:gameid/qr", qrHandler)

	return gm
}
