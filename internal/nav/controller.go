// Package nav turns gamepad snapshots into page navigation commands.
package nav

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/soar/padnav/internal/gamepad"
)

// Source provides device snapshots and attach/detach notifications.
type Source interface {
	Snapshots() []gamepad.Snapshot
	Events() <-chan gamepad.Event
}

// Controller is the poll loop and connection lifecycle watcher. It is Idle
// until a device is seen, then Running: every frame it feeds each connected
// device through the debouncer and edge detector and dispatches the result.
//
// Run, Tick and HandleEvent must be called from a single goroutine. Start,
// Stop, Running and Devices are safe from any goroutine.
type Controller struct {
	cfg        Config
	src        Source
	dispatcher *Dispatcher
	logger     *slog.Logger

	devices map[int]*DeviceState
	running atomic.Bool
	paused  atomic.Bool
	wake    chan struct{}
}

func NewController(cfg Config, src Source, dispatcher *Dispatcher, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		cfg:        cfg,
		src:        src,
		dispatcher: dispatcher,
		logger:     logger,
		devices:    make(map[int]*DeviceState),
		wake:       make(chan struct{}, 1),
	}
}

// Run drives the controller until ctx is canceled.
func (c *Controller) Run(ctx context.Context) {
	if n := c.Devices(); n > 0 {
		c.trace("gamepads present at startup", "count", n)
		c.resume()
	}

	ticker := time.NewTicker(c.cfg.FrameInterval)
	defer ticker.Stop()

	events := c.src.Events()
	for {
		var frames <-chan time.Time
		if c.running.Load() {
			frames = ticker.C
		}

		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			c.HandleEvent(ev)
		case <-c.wake:
		case now := <-frames:
			c.Tick(now)
		}
	}
}

// Tick runs one poll over every connected device.
func (c *Controller) Tick(now time.Time) {
	for _, snap := range c.src.Snapshots() {
		if !snap.Connected {
			continue
		}
		st, ok := c.devices[snap.Slot]
		if !ok {
			st = &DeviceState{}
			c.devices[snap.Slot] = st
		}

		if cmd, fired := StepAxis(st, snap.Axis(c.cfg.AxisIndex), now, c.cfg); fired {
			c.dispatch(snap.Slot, cmd, "axis")
		}
		for _, cmd := range StepButtons(st, c.cfg.Buttons.read(snap)) {
			c.dispatch(snap.Slot, cmd, "button")
		}
	}
}

// HandleEvent reacts to a device attach or detach notification.
func (c *Controller) HandleEvent(ev gamepad.Event) {
	switch ev.Kind {
	case gamepad.Attached:
		c.trace("gamepad connected", "slot", ev.Slot, "id", ev.ID)
		if c.paused.Load() {
			return
		}
		c.resume()
	case gamepad.Detached:
		c.trace("gamepad disconnected", "slot", ev.Slot, "id", ev.ID)
		if c.cfg.PurgeOnDetach {
			delete(c.devices, ev.Slot)
		}
		if c.cfg.StopWhenIdle && c.Devices() == 0 && c.running.CompareAndSwap(true, false) {
			c.trace("no gamepads left, polling stopped")
		}
	}
}

// Start clears a previous Stop and resumes polling if a device is
// attached. With no devices the controller stays idle until one attaches.
func (c *Controller) Start() {
	c.paused.Store(false)
	if c.Devices() > 0 {
		c.resume()
	}
	c.notify()
}

// Stop halts polling; attach notifications no longer restart it until Start.
func (c *Controller) Stop() {
	c.paused.Store(true)
	if c.running.CompareAndSwap(true, false) {
		c.trace("polling stopped")
	}
	c.notify()
}

// Running reports whether the poll loop is active.
func (c *Controller) Running() bool {
	return c.running.Load()
}

// Paused reports whether polling was stopped through Stop.
func (c *Controller) Paused() bool {
	return c.paused.Load()
}

// Devices returns the number of currently connected devices.
func (c *Controller) Devices() int {
	n := 0
	for _, snap := range c.src.Snapshots() {
		if snap.Connected {
			n++
		}
	}
	return n
}

func (c *Controller) resume() {
	if c.running.CompareAndSwap(false, true) {
		c.trace("polling started")
	}
}

func (c *Controller) notify() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

func (c *Controller) dispatch(slot int, cmd Command, input string) {
	c.trace("command", "slot", slot, "input", input, "command", cmd)
	if c.dispatcher != nil {
		c.dispatcher.Dispatch(cmd)
	}
}

func (c *Controller) trace(msg string, args ...any) {
	if c.cfg.Debug {
		c.logger.Debug(msg, args...)
	}
}
