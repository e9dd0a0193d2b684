package nav

import "github.com/soar/padnav/internal/gamepad"

// d-pad order used by DeviceState.DpadPressed.
const (
	dpadUp = iota
	dpadDown
	dpadLeft
	dpadRight
)

var dpadCommands = [4]Command{
	dpadUp:    ScrollUp,
	dpadDown:  ScrollDown,
	dpadLeft:  PreviousChapter,
	dpadRight: NextChapter,
}

// StepButtons returns one command per released->pressed transition and then
// stores current as the baseline for the next tick.
func StepButtons(st *DeviceState, current [4]bool) []Command {
	var cmds []Command
	for i, pressed := range current {
		if pressed && !st.DpadPressed[i] {
			cmds = append(cmds, dpadCommands[i])
		}
	}
	st.DpadPressed = current
	return cmds
}

// read extracts the four mapped buttons from a snapshot.
func (m ButtonMap) read(s gamepad.Snapshot) [4]bool {
	return [4]bool{
		dpadUp:    s.Pressed(m.Up),
		dpadDown:  s.Pressed(m.Down),
		dpadLeft:  s.Pressed(m.Left),
		dpadRight: s.Pressed(m.Right),
	}
}
