package gamepad

import "math"

// Snapshot is the state of one device slot as of a single poll.
// Buttons and axes are in the standard layout (see mapping.go).
type Snapshot struct {
	Slot      int       `json:"slot"`
	ID        string    `json:"id"`
	Connected bool      `json:"connected"`
	Axes      []float64 `json:"axes"`
	Buttons   []bool    `json:"buttons"`
}

// Axis returns the value of axis i, or 0 when the axis is missing or not a number.
func (s Snapshot) Axis(i int) float64 {
	if i < 0 || i >= len(s.Axes) {
		return 0
	}
	v := s.Axes[i]
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Pressed reports whether button i is held. Missing buttons read as released.
func (s Snapshot) Pressed(i int) bool {
	if i < 0 || i >= len(s.Buttons) {
		return false
	}
	return s.Buttons[i]
}

// Clone returns a deep copy so callers can keep a snapshot past the next poll.
func (s Snapshot) Clone() Snapshot {
	c := s
	if s.Axes != nil {
		c.Axes = append([]float64(nil), s.Axes...)
	}
	if s.Buttons != nil {
		c.Buttons = append([]bool(nil), s.Buttons...)
	}
	return c
}

// EventKind distinguishes attach from detach notifications.
type EventKind int

const (
	Attached EventKind = iota + 1
	Detached
)

func (k EventKind) String() string {
	switch k {
	case Attached:
		return "attached"
	case Detached:
		return "detached"
	default:
		return "unknown"
	}
}

// Event is a connection notification. ID is informational only.
type Event struct {
	Kind EventKind
	Slot int
	ID   string
}
