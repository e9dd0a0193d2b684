package hub

import (
	"time"

	"github.com/soar/padnav/internal/gamepad"
)

// Server to client message types.
const (
	TypeScroll   = "scroll"
	TypeActivate = "activate"
	TypeCommand  = "command"
	TypeStatus   = "status"
)

// Client to server message types.
const (
	TypeHello               = "hello"
	TypePage                = "page"
	TypeGamepads            = "gamepads"
	TypeGamepadConnected    = "gamepad_connected"
	TypeGamepadDisconnected = "gamepad_disconnected"
)

// Status is the navigation state reported to observers and on /status.
type Status struct {
	Running bool `json:"running"`
	Paused  bool `json:"paused"`
	Devices int  `json:"devices"`
	Pages   int  `json:"pages"`
}

// WSMessage represents a WebSocket message sent from server to client.
type WSMessage struct {
	Type      string  `json:"type"`
	Seq       int64   `json:"seq,omitempty"`
	Timestamp int64   `json:"timestamp"`          // Unix timestamp in milliseconds
	Top       float64 `json:"top,omitempty"`      // scroll offset for "scroll"
	Behavior  string  `json:"behavior,omitempty"` // scroll behavior for "scroll"
	Index     *int    `json:"index,omitempty"`    // control index for "activate"
	Command   string  `json:"command,omitempty"`  // command name for "command"
	Status    *Status `json:"status,omitempty"`   // state for "status"
}

// NewScrollMessage asks the page to smoothly scroll by top pixels.
func NewScrollMessage(top float64) *WSMessage {
	return &WSMessage{
		Type:      TypeScroll,
		Timestamp: time.Now().UnixMilli(),
		Top:       top,
		Behavior:  "smooth",
	}
}

// NewActivateMessage asks the page to click toolbar control index.
func NewActivateMessage(index int) *WSMessage {
	return &WSMessage{
		Type:      TypeActivate,
		Timestamp: time.Now().UnixMilli(),
		Index:     &index,
	}
}

// NewCommandMessage tells observers that a command was dispatched.
func NewCommandMessage(seq int64, command string, at time.Time) *WSMessage {
	return &WSMessage{
		Type:      TypeCommand,
		Seq:       seq,
		Timestamp: at.UnixMilli(),
		Command:   command,
	}
}

// NewStatusMessage carries a full status sync.
func NewStatusMessage(seq int64, status Status) *WSMessage {
	return &WSMessage{
		Type:      TypeStatus,
		Seq:       seq,
		Timestamp: time.Now().UnixMilli(),
		Status:    &status,
	}
}

// ClientMessage represents a message sent from the client to the server.
type ClientMessage struct {
	Type           string                `json:"type"`
	Role           string                `json:"role,omitempty"`
	ViewportHeight float64               `json:"viewportHeight,omitempty"`
	Controls       int                   `json:"controls,omitempty"`
	Gamepads       []gamepad.PageGamepad `json:"gamepads,omitempty"`
	Index          int                   `json:"index"`
	ID             string                `json:"id,omitempty"`
}
