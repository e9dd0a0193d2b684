package tray

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeNav struct{ paused bool }

func (f *fakeNav) Start()       { f.paused = false }
func (f *fakeNav) Stop()        { f.paused = true }
func (f *fakeNav) Paused() bool { return f.paused }

func TestToggle(t *testing.T) {
	n := &fakeNav{}

	assert.True(t, toggle(n))
	title, _ := toggleLabel(true)
	assert.Equal(t, "Resume navigation", title)

	assert.False(t, toggle(n))
	title, _ = toggleLabel(false)
	assert.Equal(t, "Pause navigation", title)
}

func TestIconEmbedded(t *testing.T) {
	icon := GetIcon()
	assert.NotEmpty(t, icon)
	// ICO header: reserved 0, type 1
	assert.Equal(t, []byte{0, 0, 1, 0}, icon[:4])
}
