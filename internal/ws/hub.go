// Package ws exposes the pipeline over websockets: a control channel for
// commands, a frame stream for previews and a diagnostics stream. Nothing in
// here touches animation state directly; every mutation goes through the
// conductor's command queue.
package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/AndrewBunn00/Mega-Cube/internal/app"
	diag "github.com/AndrewBunn00/Mega-Cube/internal/diagnostics"
)

const writeDeadline = 200 * time.Millisecond

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// controlMsg is one inbound control-plane message. Absent fields are left
// untouched; "effect" selects by name, "select" by registry index.
type controlMsg struct {
	Select     *int     `json:"select,omitempty"`
	Effect     *string  `json:"effect,omitempty"`
	Reset      bool     `json:"reset,omitempty"`
	Playlist   *bool    `json:"playlist,omitempty"`
	Brightness *float64 `json:"brightness,omitempty"`
	MotionBlur *int     `json:"motion_blur,omitempty"`
}

type ack struct {
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
	Client string `json:"client"`
}

// Hub fans frames and diagnostics out to connected clients and feeds control
// messages into the conductor.
type Hub struct {
	cond *app.Conductor

	mu          sync.RWMutex
	clients     map[*websocket.Conn]string
	diagClients map[*websocket.Conn]string
	start       time.Time
}

func NewHub(c *app.Conductor) *Hub {
	h := &Hub{
		cond:        c,
		clients:     map[*websocket.Conn]string{},
		diagClients: map[*websocket.Conn]string{},
		start:       time.Now(),
	}
	c.SetObserver(h.BroadcastFrame)
	return h
}

// Routes registers the hub's endpoints on mux.
func (h *Hub) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/frames", h.HandleFramesWS)
	mux.HandleFunc("/control", h.HandleControlWS)
	mux.HandleFunc("/diag", h.HandleDiagWS)
	mux.HandleFunc("/health", h.HandleHealth)
}

func (h *Hub) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	id := uuid.NewString()
	h.mu.Lock()
	h.clients[conn] = id
	h.mu.Unlock()
	log.Debug().Str("client", id).Msg("frame client connected")

	go func() {
		defer func() {
			h.mu.Lock()
			delete(h.clients, conn)
			h.mu.Unlock()
			conn.Close()
			log.Debug().Str("client", id).Msg("frame client gone")
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) HandleDiagWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	h.mu.Lock()
	h.diagClients[conn] = uuid.NewString()
	h.mu.Unlock()

	go func() {
		defer func() {
			h.mu.Lock()
			delete(h.diagClients, conn)
			h.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) HandleControlWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	id := uuid.NewString()
	log.Info().Str("client", id).Msg("control client connected")

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg controlMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			h.reply(conn, ack{Error: "malformed message", Client: id})
			continue
		}
		if errMsg := h.applyControl(id, msg); errMsg != "" {
			h.reply(conn, ack{Error: errMsg, Client: id})
			continue
		}
		h.reply(conn, ack{OK: true, Client: id})
	}
}

// applyControl validates a message and enqueues the resulting command.
// Validation happens here so a bad selection can be refused synchronously
// instead of dying quietly inside the tick loop.
func (h *Hub) applyControl(client string, msg controlMsg) string {
	cmd := app.Command{
		Reset:      msg.Reset,
		Playlist:   msg.Playlist,
		Brightness: msg.Brightness,
		MotionBlur: msg.MotionBlur,
	}

	names := h.cond.Names()
	if msg.Effect != nil {
		found := -1
		for i, n := range names {
			if n == *msg.Effect {
				found = i
				break
			}
		}
		if found < 0 {
			return "unknown effect name: " + *msg.Effect
		}
		cmd.Select = &found
	}
	if msg.Select != nil {
		if *msg.Select < 0 || *msg.Select >= len(names) {
			return "effect index out of range"
		}
		cmd.Select = msg.Select
	}

	if !h.cond.Enqueue(cmd) {
		return "command queue full"
	}
	log.Debug().Str("client", client).Interface("cmd", msg).Msg("control applied")
	return ""
}

func (h *Hub) reply(conn *websocket.Conn, a ack) {
	conn.SetWriteDeadline(time.Now().Add(writeDeadline))
	_ = conn.WriteJSON(a)
}

// BroadcastFrame pushes one composited frame to every preview client. rgb is
// the hub's to keep; JSON encoding carries it base64.
func (h *Hub) BroadcastFrame(frameID uint64, rgb []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.clients) == 0 {
		return
	}
	type frame struct {
		T       int64  `json:"t"`
		FrameID uint64 `json:"frame_id"`
		RGB     []byte `json:"rgb"`
	}
	b, _ := json.Marshal(frame{T: time.Now().UnixNano(), FrameID: frameID, RGB: rgb})
	for c := range h.clients {
		c.SetWriteDeadline(time.Now().Add(writeDeadline))
		if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
			log.Debug().Err(err).Msg("write frame")
		}
	}
}

// PushDiag fans a diagnostic out to diagnostics clients. Wired as the serial
// engine's escalation hook.
func (h *Hub) PushDiag(d diag.Diagnostic) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	b, _ := json.Marshal(d)
	for c := range h.diagClients {
		c.SetWriteDeadline(time.Now().Add(writeDeadline))
		_ = c.WriteMessage(websocket.TextMessage, b)
	}
}

func (h *Hub) HandleHealth(w http.ResponseWriter, r *http.Request) {
	st := h.cond.Status()
	resp := map[string]any{
		"uptime_s": time.Since(h.start).Seconds(),
		"effects":  h.cond.Names(),
		"status":   st,
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
