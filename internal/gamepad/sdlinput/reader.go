// Package sdlinput reads gamepads through the SDL3 joystick API. Importing
// it registers the "sdl" source kind with the gamepad package.
package sdlinput

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/jupiterrider/purego-sdl3/sdl"

	"github.com/soar/padnav/internal/gamepad"
)

func init() {
	gamepad.Register(gamepad.KindSDL, func(opts gamepad.Options, logger *slog.Logger) gamepad.Reader {
		r := NewSDLReader(logger)
		r.AfterInit = opts.AfterInit
		return r
	})
}

const pollDelayNS = 4_000_000 // ~250Hz, faster than any frame the controller polls at

type joystickInfo struct {
	joystick *sdl.Joystick
	mapping  *gamepad.DeviceMapping
	name     string
	slot     int
}

// SDLReader reads gamepad input from the SDL3 Joystick API and keeps the
// latest standard-layout snapshot of every connected device.
type SDLReader struct {
	*gamepad.Table
	joysticks map[sdl.JoystickID]*joystickInfo
	logger    *slog.Logger

	// AfterInit, if set, runs once SDL is initialized, on the SDL thread.
	AfterInit func()
}

func NewSDLReader(logger *slog.Logger) *SDLReader {
	if logger == nil {
		logger = slog.Default()
	}
	return &SDLReader{
		Table:     gamepad.NewTable(logger),
		joysticks: make(map[sdl.JoystickID]*joystickInfo),
		logger:    logger,
	}
}

// Run initializes SDL and runs the event+polling loop on the current thread
// until ctx is canceled. A failed init means the host has no device support;
// the error is returned and the reader simply never reports a device.
func (r *SDLReader) Run(ctx context.Context) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if !sdl.Init(sdl.InitJoystick) {
		return fmt.Errorf("%w: sdl init: %s", gamepad.ErrUnavailable, sdl.GetError())
	}
	defer sdl.Quit()

	r.logger.Debug("SDL3 joystick subsystem initialized")
	if r.AfterInit != nil {
		r.AfterInit()
	}

	// Check for already-connected joysticks
	for _, id := range sdl.GetJoysticks() {
		r.openJoystick(id)
	}

	for {
		select {
		case <-ctx.Done():
			r.closeAll()
			return nil
		default:
		}

		r.processEvents()
		r.pollState()
		sdl.DelayNS(pollDelayNS)
	}
}

func (r *SDLReader) processEvents() {
	var event sdl.Event
	for sdl.PollEvent(&event) {
		switch event.Type() {
		case sdl.EventJoystickAdded:
			r.openJoystick(event.JDevice().Which)
		case sdl.EventJoystickRemoved:
			r.removeJoystick(event.JDevice().Which)
		}
	}
}

func (r *SDLReader) openJoystick(instanceID sdl.JoystickID) {
	if _, exists := r.joysticks[instanceID]; exists {
		return
	}

	js := sdl.OpenJoystick(instanceID)
	if js == nil {
		r.logger.Warn("failed to open joystick", "id", instanceID, "error", sdl.GetError())
		return
	}

	jsID := sdl.GetJoystickID(js)
	vendorID := sdl.GetJoystickVendor(js)
	productID := sdl.GetJoystickProduct(js)
	name := sdl.GetJoystickName(js)
	mapping := gamepad.GetMapping(vendorID, productID)

	info := &joystickInfo{
		joystick: js,
		mapping:  mapping,
		name:     name,
		slot:     r.FreeSlot(),
	}
	r.joysticks[jsID] = info

	r.logger.Debug("joystick opened",
		"name", name,
		"vid", fmt.Sprintf("%04X", vendorID),
		"pid", fmt.Sprintf("%04X", productID),
		"mapping", mapping.Name,
		"slot", info.slot,
		"axes", sdl.GetNumJoystickAxes(js),
		"buttons", sdl.GetNumJoystickButtons(js),
		"hats", sdl.GetNumJoystickHats(js))

	r.Attach(info.slot, name)
}

func (r *SDLReader) removeJoystick(instanceID sdl.JoystickID) {
	info, exists := r.joysticks[instanceID]
	if !exists {
		return
	}

	sdl.CloseJoystick(info.joystick)
	delete(r.joysticks, instanceID)
	r.Detach(info.slot)
}

func (r *SDLReader) closeAll() {
	for id, info := range r.joysticks {
		sdl.CloseJoystick(info.joystick)
		delete(r.joysticks, id)
		r.Detach(info.slot)
	}
}

func (r *SDLReader) pollState() {
	for _, info := range r.joysticks {
		js := info.joystick
		if !sdl.JoystickConnected(js) {
			continue
		}

		raw := gamepad.RawState{
			Axis:       func(i int32) int16 { return sdl.GetJoystickAxis(js, i) },
			Button:     func(i int32) bool { return sdl.GetJoystickButton(js, i) },
			NumAxes:    sdl.GetNumJoystickAxes(js),
			NumButtons: sdl.GetNumJoystickButtons(js),
		}
		if sdl.GetNumJoystickHats(js) > 0 {
			raw.Hat = func() uint8 { return sdl.GetJoystickHat(js, 0) }
		}

		axes, buttons := info.mapping.Apply(raw)
		r.Update(info.slot, axes, buttons)
	}
}
