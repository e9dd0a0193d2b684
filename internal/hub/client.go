package hub

import (
	"math"
	"sync"
	"time"

	"github.com/lxzan/gws"
)

// Role is declared by a client in its hello message.
type Role string

const (
	RoleUnknown  Role = ""
	RolePage     Role = "page"
	RoleObserver Role = "observer"
)

const sendBuffer = 256

// maxControls caps the chapter controls a page may report. The dispatcher
// only uses the first two.
const maxControls = 2

// Client represents a connected WebSocket client.
type Client struct {
	hub  *Hub
	conn *gws.Conn
	send chan []byte

	mu             sync.Mutex
	role           Role
	viewportHeight float64
	controls       int
	reportedAt     time.Time
	pads           map[int]struct{} // gamepad slots forwarded by this page
}

// NewClient creates a new Client attached to the hub.
func NewClient(hub *Hub, conn *gws.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBuffer),
		pads: make(map[int]struct{}),
	}
}

// Role returns the role the client announced, if any.
func (c *Client) Role() Role {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.role
}

func (c *Client) setRole(r Role) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.role = r
}

// report stores the page geometry sent by the bridge script.
func (c *Client) report(viewportHeight float64, controls int, at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.role = RolePage
	if viewportHeight < 0 || math.IsNaN(viewportHeight) || math.IsInf(viewportHeight, 0) {
		viewportHeight = 0
	}
	c.viewportHeight = viewportHeight
	c.controls = min(max(controls, 0), maxControls)
	c.reportedAt = at
}

func (c *Client) page() (height float64, controls int, at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewportHeight, c.controls, c.reportedAt
}

func (c *Client) trackPad(index int, present bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if present {
		c.pads[index] = struct{}{}
	} else {
		delete(c.pads, index)
	}
}

func (c *Client) tracksPad(index int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.pads[index]
	return ok
}

func (c *Client) takePads() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]int, 0, len(c.pads))
	for index := range c.pads {
		out = append(out, index)
	}
	clear(c.pads)
	return out
}

// WritePump sends messages from the send channel to the WebSocket connection.
func (c *Client) WritePump() {
	defer func() {
		c.conn.WriteClose(1000, nil)
	}()

	for msg := range c.send {
		if err := c.conn.WriteMessage(gws.OpcodeText, msg); err != nil {
			break
		}
	}
}
