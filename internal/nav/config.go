package nav

import "time"

// ButtonMap selects the four directional buttons in a snapshot's button array.
type ButtonMap struct {
	Up    int
	Down  int
	Left  int
	Right int
}

// Config is fixed for the lifetime of a Controller.
type Config struct {
	AxisThreshold float64
	AxisCooldown  time.Duration
	AxisIndex     int
	Buttons       ButtonMap
	ScrollChrome  float64
	FrameInterval time.Duration
	StopWhenIdle  bool
	PurgeOnDetach bool
	Debug         bool
}

// DefaultConfig returns the standard controller layout: left stick Y for
// scrolling and the d-pad (12-15) for scrolling and chapters.
func DefaultConfig() Config {
	return Config{
		AxisThreshold: 0.7,
		AxisCooldown:  200 * time.Millisecond,
		AxisIndex:     1,
		Buttons:       ButtonMap{Up: 12, Down: 13, Left: 14, Right: 15},
		ScrollChrome:  80,
		FrameInterval: 16 * time.Millisecond,
	}
}
