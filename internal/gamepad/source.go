package gamepad

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

var (
	// ErrUnavailable means the host offers no device polling capability.
	ErrUnavailable = errors.New("gamepad support unavailable")
	// ErrUnknownSource is returned for an unsupported source kind.
	ErrUnknownSource = errors.New("unknown gamepad source")
)

// Source kinds accepted by NewReader.
const (
	KindSDL      = "sdl"
	KindJoystick = "joystick"
	KindPage     = "page"
)

// Reader is a device snapshot source with its own driving loop.
type Reader interface {
	Snapshots() []Snapshot
	Events() <-chan Event
	Run(ctx context.Context) error
}

// Options configures NewReader.
type Options struct {
	Slots        int
	ScanInterval time.Duration
	// AfterInit runs once a native back-end has initialized.
	AfterInit func()
}

// Factory builds a Reader for one source kind.
type Factory func(opts Options, logger *slog.Logger) Reader

var (
	factoriesMu sync.RWMutex
	factories   = map[string]Factory{
		KindJoystick: func(opts Options, logger *slog.Logger) Reader {
			return NewJoystickReader(opts.Slots, opts.ScanInterval, logger)
		},
		KindPage: func(_ Options, logger *slog.Logger) Reader {
			return NewPageSource(logger)
		},
	}
)

// Register makes a back-end available under kind. Back-ends that link
// native libraries register themselves from their package init.
func Register(kind string, f Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[kind] = f
}

// NewReader builds the reader for the given source kind. A known kind whose
// back-end was not linked into the binary yields ErrUnavailable.
func NewReader(kind string, opts Options, logger *slog.Logger) (Reader, error) {
	factoriesMu.RLock()
	f, ok := factories[kind]
	factoriesMu.RUnlock()
	if ok {
		return f(opts, logger), nil
	}
	if kind == KindSDL {
		return nil, fmt.Errorf("%w: %s back-end not built in", ErrUnavailable, kind)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSource, kind)
}
