package hub

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/soar/padnav/internal/nav"
)

const (
	fullSyncInterval = 5 * time.Second
	commandBuffer    = 64
)

// StatusSource reports the controller state.
type StatusSource interface {
	Running() bool
	Paused() bool
	Devices() int
}

type dispatched struct {
	cmd nav.Command
	at  time.Time
}

// Broadcaster fans dispatched commands out to observers and periodically
// syncs the full navigation status to them.
type Broadcaster struct {
	hub      *Hub
	status   StatusSource
	commands chan dispatched
	logger   *slog.Logger
	seq      int64
}

func NewBroadcaster(h *Hub, status StatusSource, logger *slog.Logger) *Broadcaster {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Broadcaster{
		hub:      h,
		status:   status,
		commands: make(chan dispatched, commandBuffer),
		logger:   logger,
	}
	h.OnObserver(b.SendInitialState)
	return b
}

// Publish queues cmd for observers. It never blocks the caller.
func (b *Broadcaster) Publish(cmd nav.Command) {
	select {
	case b.commands <- dispatched{cmd: cmd, at: time.Now()}:
	default:
		b.logger.Warn("command dropped, observers too slow", "command", cmd)
	}
}

// Status returns the current navigation status.
func (b *Broadcaster) Status() Status {
	s := Status{Pages: b.hub.Pages()}
	if b.status != nil {
		s.Running = b.status.Running()
		s.Paused = b.status.Paused()
		s.Devices = b.status.Devices()
	}
	return s
}

// Run starts the broadcaster loop until ctx is canceled.
func (b *Broadcaster) Run(ctx context.Context) {
	ticker := time.NewTicker(fullSyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case d := <-b.commands:
			b.seq++
			b.broadcast(NewCommandMessage(b.seq, d.cmd.String(), d.at))
		case <-ticker.C:
			b.seq++
			b.broadcast(NewStatusMessage(b.seq, b.Status()))
		}
	}
}

// SendInitialState sends the current status to a newly announced observer.
func (b *Broadcaster) SendInitialState(c *Client) {
	data, err := json.Marshal(NewStatusMessage(0, b.Status()))
	if err != nil {
		b.logger.Error("error marshaling initial state", "error", err)
		return
	}
	b.hub.Send(c, data)
}

func (b *Broadcaster) broadcast(msg *WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		b.logger.Error("error marshaling message", "type", msg.Type, "error", err)
		return
	}
	b.hub.Broadcast(data, RoleObserver)
}
