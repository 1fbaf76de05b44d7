// Package preview streams strip frames to browsers over websockets and
// accepts remote trigger presses.
package preview

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const writeWait = 200 * time.Millisecond

// sendQueue is the number of frames buffered per client before new frames
// are dropped for it.
const sendQueue = 8

// MaxPress bounds the hold time a remote client may request.
const MaxPress = 5 * time.Second

// ErrClosed is returned by Write after Close.
var ErrClosed = errors.New("preview hub closed")

// Hub is an led.Driver that broadcasts every frame to connected clients.
type Hub struct {
	mu      sync.Mutex
	Count   int
	Driver  string
	rgb     []byte
	frameID uint64
	start   time.Time
	clients map[*websocket.Conn]chan []byte
	dropped uint64
	closed  bool

	until time.Time
	now   func() time.Time
}

func NewHub(count int, driver string) *Hub {
	return &Hub{
		Count:   count,
		Driver:  driver,
		rgb:     make([]byte, count*3),
		start:   time.Now(),
		clients: map[*websocket.Conn]chan []byte{},
		now:     time.Now,
	}
}

type frame struct {
	T       int64  `json:"t"`
	FrameID uint64 `json:"frame_id"`
	Count   int    `json:"count"`
	RGB     []byte `json:"rgb"`
}

func (h *Hub) Write(rgb []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrClosed
	}
	h.rgb = append(h.rgb[:0], rgb...)
	h.frameID++
	if len(h.clients) == 0 {
		return nil
	}
	b, err := json.Marshal(frame{T: h.now().UnixNano(), FrameID: h.frameID, Count: h.Count, RGB: h.rgb})
	if err != nil {
		return err
	}
	for _, send := range h.clients {
		select {
		case send <- b:
		default:
			h.dropped++
		}
	}
	return nil
}

// Dropped is the number of frames skipped for clients that fell behind.
func (h *Hub) Dropped() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dropped
}

// Frames is the number of frames written.
func (h *Hub) Frames() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frameID
}

func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c, send := range h.clients {
		close(send)
		delete(h.clients, c)
	}
	return nil
}

// Pressed reports the remote trigger state set through the control socket.
func (h *Hub) Pressed() (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.now().Before(h.until), nil
}

// Press holds the remote trigger down for d.
func (h *Hub) Press(d time.Duration) {
	if d > MaxPress {
		d = MaxPress
	}
	h.mu.Lock()
	h.until = h.now().Add(d)
	h.mu.Unlock()
}

// HandleFramesWS sends the strip description, then every frame.
func (h *Hub) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	send := make(chan []byte, sendQueue)
	hello, _ := json.Marshal(map[string]any{"count": h.Count, "driver": h.Driver})
	send <- hello
	h.clients[conn] = send
	h.mu.Unlock()

	go h.writeFrames(conn, send)
	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// writeFrames drains a client's queue until it is closed or a write fails.
func (h *Hub) writeFrames(conn *websocket.Conn, send <-chan []byte) {
	defer conn.Close()
	for b := range send {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
			log.Debug().Err(err).Msg("write frame")
			h.drop(conn)
			return
		}
	}
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if send, ok := h.clients[conn]; ok {
		close(send)
		delete(h.clients, conn)
	}
}

// control is a message on the control socket: {"press_ms": 120}.
type control struct {
	PressMs int `json:"press_ms"`
}

func (h *Hub) HandleControlWS(w http.ResponseWriter, r *http.Request) {
	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg control
		if err := json.Unmarshal(data, &msg); err != nil || msg.PressMs <= 0 {
			continue
		}
		log.Debug().Int("press_ms", msg.PressMs).Msg("remote trigger")
		h.Press(time.Duration(msg.PressMs) * time.Millisecond)
	}
}

func (h *Hub) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	resp := map[string]any{
		"frame_id": h.frameID,
		"uptime_s": time.Since(h.start).Seconds(),
		"count":    h.Count,
		"driver":   h.Driver,
		"clients":  len(h.clients),
		"dropped":  h.dropped,
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// Mux routes /ws, /control and /health.
func (h *Hub) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.HandleFramesWS)
	mux.HandleFunc("/control", h.HandleControlWS)
	mux.HandleFunc("/health", h.HandleHealth)
	return mux
}
