package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeViewport struct {
	height  float64
	scrolls []float64
}

func (v *fakeViewport) ViewportHeight() float64 { return v.height }
func (v *fakeViewport) ScrollBy(dy float64)     { v.scrolls = append(v.scrolls, dy) }

type fakeControl struct{ clicks int }

func (c *fakeControl) Activate() { c.clicks++ }

type fakeToolbar struct{ controls []*fakeControl }

func (t *fakeToolbar) NavigationControls() []Control {
	out := make([]Control, len(t.controls))
	for i, c := range t.controls {
		out[i] = c
	}
	return out
}

func newToolbar(n int) *fakeToolbar {
	t := &fakeToolbar{}
	for range n {
		t.controls = append(t.controls, &fakeControl{})
	}
	return t
}

func TestDispatchScroll(t *testing.T) {
	vp := &fakeViewport{height: 800}
	d := NewDispatcher(vp, newToolbar(2), DefaultConfig(), nil)

	d.Dispatch(ScrollDown)
	d.Dispatch(ScrollUp)
	assert.Equal(t, []float64{720, -720}, vp.scrolls)
}

func TestDispatchScrollWithoutViewport(t *testing.T) {
	vp := &fakeViewport{height: 60}
	d := NewDispatcher(vp, nil, DefaultConfig(), nil)
	d.Dispatch(ScrollDown)
	assert.Empty(t, vp.scrolls)

	assert.NotPanics(t, func() {
		NewDispatcher(nil, nil, DefaultConfig(), nil).Dispatch(ScrollUp)
	})
}

func TestDispatchChapters(t *testing.T) {
	bar := newToolbar(2)
	d := NewDispatcher(&fakeViewport{}, bar, DefaultConfig(), nil)

	d.Dispatch(PreviousChapter)
	d.Dispatch(NextChapter)
	d.Dispatch(NextChapter)
	assert.Equal(t, 1, bar.controls[0].clicks)
	assert.Equal(t, 2, bar.controls[1].clicks)
}

func TestDispatchChaptersMissingControls(t *testing.T) {
	for _, n := range []int{0, 1} {
		bar := newToolbar(n)
		d := NewDispatcher(&fakeViewport{}, bar, DefaultConfig(), nil)
		assert.NotPanics(t, func() {
			d.Dispatch(PreviousChapter)
			d.Dispatch(NextChapter)
		})
		for _, c := range bar.controls {
			assert.Zero(t, c.clicks)
		}
	}
}

func TestOnDispatchListeners(t *testing.T) {
	d := NewDispatcher(&fakeViewport{height: 500}, newToolbar(0), DefaultConfig(), nil)

	var seen []Command
	d.OnDispatch(func(cmd Command) { seen = append(seen, cmd) })

	d.Dispatch(ScrollDown)
	d.Dispatch(NextChapter)
	d.Dispatch(Command(99))
	assert.Equal(t, []Command{ScrollDown, NextChapter}, seen)
}
