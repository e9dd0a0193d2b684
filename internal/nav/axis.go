package nav

import (
	"math"
	"time"
)

// Direction is the last triggered stick direction of a device.
type Direction int

const (
	Neutral Direction = iota
	Up
	Down
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "neutral"
	}
}

// DeviceState is the per-slot memory carried between poll ticks.
type DeviceState struct {
	LastAxisTrigger   time.Time
	LastAxisDirection Direction
	DpadPressed       [4]bool
}

// StepAxis feeds one vertical axis reading into the debouncer. A command
// fires when the stick is past the threshold and either the cooldown has
// elapsed or the direction differs from the last triggered one.
func StepAxis(st *DeviceState, value float64, now time.Time, cfg Config) (Command, bool) {
	if math.IsNaN(value) || math.Abs(value) <= cfg.AxisThreshold {
		st.LastAxisDirection = Neutral
		return 0, false
	}

	dir, cmd := Up, ScrollUp
	if value > 0 {
		dir, cmd = Down, ScrollDown
	}

	cooldownElapsed := now.Sub(st.LastAxisTrigger) > cfg.AxisCooldown
	if !cooldownElapsed && dir == st.LastAxisDirection {
		return 0, false
	}

	st.LastAxisTrigger = now
	st.LastAxisDirection = dir
	return cmd, true
}
