package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStepButtonsRisingEdgeOnly(t *testing.T) {
	st := &DeviceState{}

	var fired []Command
	for _, left := range []bool{false, true, true} {
		fired = append(fired, StepButtons(st, [4]bool{dpadLeft: left})...)
	}
	assert.Equal(t, []Command{PreviousChapter}, fired)
}

func TestStepButtonsPressHoldReleasePress(t *testing.T) {
	st := &DeviceState{}
	seq := []bool{true, true, true, false, false, true, true}

	n := 0
	for _, right := range seq {
		for _, cmd := range StepButtons(st, [4]bool{dpadRight: right}) {
			assert.Equal(t, NextChapter, cmd)
			n++
		}
	}
	assert.Equal(t, 2, n)
}

func TestStepButtonsIndependentChannels(t *testing.T) {
	st := &DeviceState{}

	cmds := StepButtons(st, [4]bool{true, true, true, true})
	assert.Equal(t, []Command{ScrollUp, ScrollDown, PreviousChapter, NextChapter}, cmds)
	assert.Equal(t, [4]bool{true, true, true, true}, st.DpadPressed)

	assert.Empty(t, StepButtons(st, [4]bool{true, false, true, true}))
	assert.Equal(t, []Command{ScrollDown}, StepButtons(st, [4]bool{true, true, true, true}))
}
