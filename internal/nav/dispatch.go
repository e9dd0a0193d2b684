package nav

import "log/slog"

// Viewport is the scrollable area of the host page.
type Viewport interface {
	ViewportHeight() float64
	ScrollBy(dy float64)
}

// Control is an activatable element of the host page.
type Control interface {
	Activate()
}

// ChapterControls returns the toolbar controls in page order: previous, next.
type ChapterControls interface {
	NavigationControls() []Control
}

// Dispatcher executes commands against the host page.
type Dispatcher struct {
	viewport  Viewport
	chapters  ChapterControls
	chrome    float64
	debug     bool
	logger    *slog.Logger
	listeners []func(Command)
}

func NewDispatcher(viewport Viewport, chapters ChapterControls, cfg Config, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		viewport: viewport,
		chapters: chapters,
		chrome:   cfg.ScrollChrome,
		debug:    cfg.Debug,
		logger:   logger,
	}
}

// OnDispatch registers fn to be called after every dispatched command.
// Register listeners before the controller starts running.
func (d *Dispatcher) OnDispatch(fn func(Command)) {
	d.listeners = append(d.listeners, fn)
}

// Dispatch executes cmd. Missing page targets make it a no-op.
func (d *Dispatcher) Dispatch(cmd Command) {
	switch cmd {
	case ScrollUp, ScrollDown:
		d.scroll(cmd)
	case PreviousChapter, NextChapter:
		d.activate(cmd)
	default:
		return
	}

	for _, fn := range d.listeners {
		fn(cmd)
	}
}

func (d *Dispatcher) scroll(cmd Command) {
	if d.viewport == nil {
		return
	}
	dy := d.viewport.ViewportHeight() - d.chrome
	if dy <= 0 {
		d.trace("scroll skipped, no viewport", "command", cmd)
		return
	}
	if cmd == ScrollUp {
		dy = -dy
	}
	d.viewport.ScrollBy(dy)
}

func (d *Dispatcher) activate(cmd Command) {
	var controls []Control
	if d.chapters != nil {
		controls = d.chapters.NavigationControls()
	}
	if len(controls) < 2 {
		d.trace("chapter controls not found", "command", cmd, "found", len(controls))
		return
	}
	if cmd == PreviousChapter {
		controls[0].Activate()
	} else {
		controls[1].Activate()
	}
}

func (d *Dispatcher) trace(msg string, args ...any) {
	if d.debug {
		d.logger.Debug(msg, args...)
	}
}
