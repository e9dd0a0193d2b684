package gamepad

import (
	"context"
	"log/slog"
)

// PageGamepad is one entry of a browser Gamepad API snapshot, as forwarded
// by the page bridge script. Buttons and axes use the standard layout.
type PageGamepad struct {
	Index   int       `json:"index"`
	ID      string    `json:"id"`
	Axes    []float64 `json:"axes"`
	Buttons []bool    `json:"buttons"`
}

// PageSource is fed by the websocket hub with gamepad state read inside the
// reading page itself.
type PageSource struct {
	*Table
}

func NewPageSource(logger *slog.Logger) *PageSource {
	return &PageSource{Table: NewTable(logger)}
}

// Run blocks until ctx is canceled; the page pushes state on its own.
func (p *PageSource) Run(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

// GamepadConnected records a gamepadconnected notification from the page.
func (p *PageSource) GamepadConnected(index int, id string) {
	if index < 0 {
		return
	}
	p.Attach(index, id)
}

// GamepadDisconnected records a gamepaddisconnected notification from the page.
func (p *PageSource) GamepadDisconnected(index int) {
	p.Detach(index)
}

// ApplyGamepads stores a full navigator.getGamepads() snapshot. Slots that
// appear without a prior connect notification are attached first, matching
// browsers that only fire gamepadconnected once the page has focus.
func (p *PageSource) ApplyGamepads(pads []PageGamepad) {
	for _, pad := range pads {
		if pad.Index < 0 {
			continue
		}
		p.Attach(pad.Index, pad.ID)
		p.Update(pad.Index, append([]float64(nil), pad.Axes...), append([]bool(nil), pad.Buttons...))
	}
}
