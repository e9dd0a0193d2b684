package gamepad

import (
	"context"
	"log/slog"
	"time"

	"github.com/0xcafed00d/joystick"
)

const joystickPollInterval = 4 * time.Millisecond

// JoystickReader polls a fixed range of joystick slots through the
// operating system's joystick API. Slots are probed periodically; opening
// or losing a slot produces an attach or detach event.
type JoystickReader struct {
	*Table
	slots        int
	scanInterval time.Duration
	pollInterval time.Duration
	open         map[int]joystick.Joystick
	openFn       func(id int) (joystick.Joystick, error)
}

func NewJoystickReader(slots int, scanInterval time.Duration, logger *slog.Logger) *JoystickReader {
	return &JoystickReader{
		Table:        NewTable(logger),
		slots:        slots,
		scanInterval: scanInterval,
		pollInterval: joystickPollInterval,
		open:         make(map[int]joystick.Joystick),
		openFn:       joystick.Open,
	}
}

// Run scans and reads slots until ctx is canceled.
func (r *JoystickReader) Run(ctx context.Context) error {
	scan := time.NewTicker(r.scanInterval)
	defer scan.Stop()
	poll := time.NewTicker(r.pollInterval)
	defer poll.Stop()

	r.scan()
	for {
		select {
		case <-ctx.Done():
			r.closeAll()
			return nil
		case <-scan.C:
			r.scan()
		case <-poll.C:
			r.pollState()
		}
	}
}

func (r *JoystickReader) scan() {
	for slot := 0; slot < r.slots; slot++ {
		if _, ok := r.open[slot]; ok {
			continue
		}
		js, err := r.openFn(slot)
		if err != nil {
			continue
		}
		r.open[slot] = js
		r.logger.Debug("joystick opened", "slot", slot, "name", js.Name(),
			"axes", js.AxisCount(), "buttons", js.ButtonCount())
		r.Attach(slot, js.Name())
	}
}

func (r *JoystickReader) pollState() {
	for slot, js := range r.open {
		state, err := js.Read()
		if err != nil {
			r.logger.Debug("joystick read failed", "slot", slot, "error", err)
			js.Close()
			delete(r.open, slot)
			r.Detach(slot)
			continue
		}

		raw := RawState{
			Axis: func(i int32) int16 {
				return clampRaw(state.AxisData[i])
			},
			Button: func(i int32) bool {
				return state.Buttons&(1<<uint32(i)) != 0
			},
			NumAxes:    int32(len(state.AxisData)),
			NumButtons: int32(min(js.ButtonCount(), 32)),
		}
		axes, buttons := linuxJoydevMapping.Apply(raw)
		r.Update(slot, axes, buttons)
	}
}

func (r *JoystickReader) closeAll() {
	for slot, js := range r.open {
		js.Close()
		delete(r.open, slot)
		r.Detach(slot)
	}
}
