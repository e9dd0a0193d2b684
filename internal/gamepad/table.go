package gamepad

import (
	"log/slog"
	"sort"
	"sync"
)

const eventBuffer = 16

// Table holds the latest snapshot of every occupied slot and the
// connection event stream. Readers embed it and feed it from their poll loop.
type Table struct {
	snaps  map[int]Snapshot
	events chan Event
	logger *slog.Logger
	mu     sync.RWMutex
}

func NewTable(logger *slog.Logger) *Table {
	if logger == nil {
		logger = slog.Default()
	}
	return &Table{
		snaps:  make(map[int]Snapshot),
		events: make(chan Event, eventBuffer),
		logger: logger,
	}
}

// Snapshots returns a copy of every occupied slot, ordered by slot.
func (t *Table) Snapshots() []Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Snapshot, 0, len(t.snaps))
	for _, s := range t.snaps {
		out = append(out, s.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slot < out[j].Slot })
	return out
}

// Events returns the channel on which attach/detach notifications are sent.
func (t *Table) Events() <-chan Event {
	return t.events
}

// FreeSlot returns the lowest slot not currently occupied.
func (t *Table) FreeSlot() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for slot := 0; ; slot++ {
		if _, used := t.snaps[slot]; !used {
			return slot
		}
	}
}

// Attach marks slot as connected with zeroed input and emits Attached.
// Attaching a connected slot does nothing.
func (t *Table) Attach(slot int, id string) {
	t.mu.Lock()
	if s, ok := t.snaps[slot]; ok && s.Connected {
		t.mu.Unlock()
		return
	}
	t.snaps[slot] = Snapshot{
		Slot:      slot,
		ID:        id,
		Connected: true,
		Axes:      make([]float64, StandardAxes),
		Buttons:   make([]bool, StandardButtons),
	}
	t.mu.Unlock()

	t.emit(Event{Kind: Attached, Slot: slot, ID: id})
}

// Detach forgets slot and emits Detached if it was connected.
func (t *Table) Detach(slot int) {
	t.mu.Lock()
	s, ok := t.snaps[slot]
	if ok {
		delete(t.snaps, slot)
	}
	t.mu.Unlock()

	if ok {
		t.emit(Event{Kind: Detached, Slot: slot, ID: s.ID})
	}
}

// Update replaces the stored state of an attached slot. Updates for
// unknown slots are ignored so a late poll cannot resurrect a removed device.
func (t *Table) Update(slot int, axes []float64, buttons []bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.snaps[slot]
	if !ok {
		return
	}
	s.Axes = axes
	s.Buttons = buttons
	t.snaps[slot] = s
}

func (t *Table) emit(ev Event) {
	select {
	case t.events <- ev:
	default:
		// Drop if channel is full to avoid blocking the device thread
		t.logger.Warn("gamepad event dropped", "kind", ev.Kind, "slot", ev.Slot)
	}
}
