package hub

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/lxzan/gws"

	"github.com/soar/padnav/internal/gamepad"
	"github.com/soar/padnav/internal/nav"
)

// GamepadSink receives gamepad state read by the browser inside a page.
type GamepadSink interface {
	GamepadConnected(index int, id string)
	GamepadDisconnected(index int)
	ApplyGamepads(pads []gamepad.PageGamepad)
}

// Hub manages WebSocket clients. It is the gws event handler for /ws and
// acts as the host page for the navigation dispatcher: scroll and activate
// requests go to the page that reported most recently.
type Hub struct {
	clients map[*gws.Conn]*Client
	mu      sync.RWMutex

	sink       GamepadSink
	onObserver func(*Client)
	logger     *slog.Logger
	now        func() time.Time
}

var (
	_ gws.Event           = (*Hub)(nil)
	_ nav.Viewport        = (*Hub)(nil)
	_ nav.ChapterControls = (*Hub)(nil)
)

// NewHub creates a hub. sink may be nil when gamepads are read locally.
func NewHub(sink GamepadSink, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients: make(map[*gws.Conn]*Client),
		sink:    sink,
		logger:  logger,
		now:     time.Now,
	}
}

// Register adds a new client to the hub.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c.conn] = c
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Info("client connected", "total", n)
}

// Unregister removes a client from the hub and forgets the gamepads it forwarded.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c.conn]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c.conn)
	close(c.send)
	n := len(h.clients)
	h.mu.Unlock()

	if h.sink != nil {
		for _, index := range c.takePads() {
			// Another page may forward the same browser gamepad.
			if h.padTracked(index) {
				continue
			}
			h.sink.GamepadDisconnected(index)
		}
	}
	h.logger.Info("client disconnected", "total", n)
}

func (h *Hub) padTracked(index int) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		if c.tracksPad(index) {
			return true
		}
	}
	return false
}

func (h *Hub) client(socket *gws.Conn) *Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.clients[socket]
}

// Broadcast sends msg to every client with the given role.
func (h *Hub) Broadcast(msg []byte, role Role) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		if client.Role() == role {
			h.trySend(client, msg)
		}
	}
}

// Send queues msg for a single client.
func (h *Hub) Send(c *Client, msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[c.conn]; ok {
		h.trySend(c, msg)
	}
}

// trySend must be called with h.mu held.
func (h *Hub) trySend(c *Client, msg []byte) {
	select {
	case c.send <- msg:
	default:
		// Client send buffer full, disconnect
		go h.Unregister(c)
	}
}

// Pages returns the number of connected reading pages.
func (h *Hub) Pages() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, c := range h.clients {
		if c.Role() == RolePage {
			n++
		}
	}
	return n
}

// activePage returns the page client that reported most recently.
func (h *Hub) activePage() *Client {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var (
		active *Client
		latest time.Time
	)
	for _, c := range h.clients {
		if c.Role() != RolePage {
			continue
		}
		if _, _, at := c.page(); active == nil || at.After(latest) {
			active, latest = c, at
		}
	}
	return active
}

// ViewportHeight returns the active page's viewport height, 0 without a page.
func (h *Hub) ViewportHeight() float64 {
	if p := h.activePage(); p != nil {
		height, _, _ := p.page()
		return height
	}
	return 0
}

// ScrollBy asks the active page to smoothly scroll by dy pixels.
func (h *Hub) ScrollBy(dy float64) {
	if p := h.activePage(); p != nil {
		h.sendMessage(p, NewScrollMessage(dy))
	}
}

// NavigationControls returns the active page's toolbar controls in page order.
func (h *Hub) NavigationControls() []nav.Control {
	p := h.activePage()
	if p == nil {
		return nil
	}
	_, n, _ := p.page()
	controls := make([]nav.Control, min(max(n, 0), maxControls))
	for i := range controls {
		controls[i] = pageControl{hub: h, client: p, index: i}
	}
	return controls
}

type pageControl struct {
	hub    *Hub
	client *Client
	index  int
}

func (c pageControl) Activate() {
	c.hub.sendMessage(c.client, NewActivateMessage(c.index))
}

func (h *Hub) sendMessage(c *Client, msg *WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal message failed", "type", msg.Type, "error", err)
		return
	}
	h.Send(c, data)
}

// OnObserver registers fn to be called when a client announces itself as an observer.
func (h *Hub) OnObserver(fn func(*Client)) {
	h.onObserver = fn
}

func (h *Hub) OnOpen(socket *gws.Conn) {
	client := NewClient(h, socket)
	h.Register(client)
	go client.WritePump()
}

func (h *Hub) OnClose(socket *gws.Conn, err error) {
	if c := h.client(socket); c != nil {
		h.logger.Debug("websocket closed", "role", c.Role(), "error", err)
		h.Unregister(c)
	}
}

func (h *Hub) OnPing(socket *gws.Conn, payload []byte) {
	_ = socket.WritePong(payload)
}

func (h *Hub) OnPong(socket *gws.Conn, payload []byte) {}

func (h *Hub) OnMessage(socket *gws.Conn, message *gws.Message) {
	defer message.Close()

	c := h.client(socket)
	if c == nil {
		return
	}

	var msg ClientMessage
	if err := json.Unmarshal(message.Bytes(), &msg); err != nil {
		h.logger.Warn("error parsing client message", "error", err)
		return
	}
	h.handle(c, &msg)
}

func (h *Hub) handle(c *Client, msg *ClientMessage) {
	switch msg.Type {
	case TypeHello:
		role := Role(msg.Role)
		if role != RolePage && role != RoleObserver {
			h.logger.Warn("unknown client role", "role", msg.Role)
			return
		}
		c.setRole(role)
		if role == RoleObserver && h.onObserver != nil {
			h.onObserver(c)
		}
	case TypePage:
		c.report(msg.ViewportHeight, msg.Controls, h.now())
	case TypeGamepadConnected:
		if h.sink != nil && msg.Index >= 0 {
			c.trackPad(msg.Index, true)
			h.sink.GamepadConnected(msg.Index, msg.ID)
		}
	case TypeGamepadDisconnected:
		if h.sink != nil {
			c.trackPad(msg.Index, false)
			h.sink.GamepadDisconnected(msg.Index)
		}
	case TypeGamepads:
		if h.sink != nil {
			for _, pad := range msg.Gamepads {
				if pad.Index >= 0 {
					c.trackPad(pad.Index, true)
				}
			}
			h.sink.ApplyGamepads(msg.Gamepads)
		}
	default:
		h.logger.Debug("unhandled client message", "type", msg.Type)
	}
}
