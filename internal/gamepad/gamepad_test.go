package gamepad

import (
	"errors"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/0xcafed00d/joystick"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotDefaultsOnAbsence(t *testing.T) {
	s := Snapshot{Axes: []float64{0.5, math.NaN()}, Buttons: []bool{true}}

	assert.Equal(t, 0.5, s.Axis(0))
	assert.Equal(t, 0.0, s.Axis(1), "NaN reads as neutral")
	assert.Equal(t, 0.0, s.Axis(7), "missing axis reads as neutral")
	assert.Equal(t, 0.0, s.Axis(-1))
	assert.True(t, s.Pressed(0))
	assert.False(t, s.Pressed(15), "missing button reads as released")
}

func TestSnapshotCloneIsIndependent(t *testing.T) {
	s := Snapshot{Axes: []float64{1}, Buttons: []bool{true}}
	c := s.Clone()
	c.Axes[0] = -1
	c.Buttons[0] = false
	assert.Equal(t, 1.0, s.Axes[0])
	assert.True(t, s.Buttons[0])
}

func TestDeviceMappingApply(t *testing.T) {
	tests := []struct {
		name    string
		mapping *DeviceMapping
		axes    map[int32]int16
		buttons map[int32]bool
		hat     uint8
		numAxes int32
		wantY   float64
		wantOn  []int
	}{
		{
			name:    "xbox hat down and A",
			mapping: xboxMapping,
			axes:    map[int32]int16{1: 32767, 4: -32768, 5: -32768},
			buttons: map[int32]bool{0: true},
			hat:     hatDown,
			numAxes: 6,
			wantY:   1,
			wantOn:  []int{ButtonA, ButtonDpadDown},
		},
		{
			name:    "playstation bumpers are remapped",
			mapping: playstationMapping,
			axes:    map[int32]int16{4: -32768, 5: -32768},
			buttons: map[int32]bool{9: true},
			hat:     hatLeft | hatUp,
			numAxes: 6,
			wantOn:  []int{ButtonLB, ButtonDpadUp, ButtonDpadLeft},
		},
		{
			name:    "joydev hat axes",
			mapping: linuxJoydevMapping,
			axes:    map[int32]int16{1: -32768, 2: -32768, 5: 32767, 6: 32767, 7: -32767},
			numAxes: 8,
			wantY:   -1,
			wantOn:  []int{ButtonRT, ButtonDpadUp, ButtonDpadRight},
		},
		{
			name:    "joydev without hat axes",
			mapping: linuxJoydevMapping,
			axes:    map[int32]int16{6: 32767},
			numAxes: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := RawState{
				Axis:       func(i int32) int16 { return tt.axes[i] },
				Button:     func(i int32) bool { return tt.buttons[i] },
				NumAxes:    tt.numAxes,
				NumButtons: 11,
			}
			if tt.mapping.HasHat {
				raw.Hat = func() uint8 { return tt.hat }
			}

			axes, buttons := tt.mapping.Apply(raw)
			require.Len(t, axes, StandardAxes)
			require.Len(t, buttons, StandardButtons)
			assert.InDelta(t, tt.wantY, axes[AxisLeftY], 1e-9)

			var on []int
			for i, pressed := range buttons {
				if pressed {
					on = append(on, i)
				}
			}
			assert.ElementsMatch(t, tt.wantOn, on)
		})
	}
}

func TestNormalizeTrigger(t *testing.T) {
	assert.Equal(t, 0.0, NormalizeTrigger(-32768, -32768, 32767))
	assert.Equal(t, 1.0, NormalizeTrigger(32767, -32768, 32767))
	assert.Equal(t, 0.0, NormalizeTrigger(5, 3, 3))
	assert.Equal(t, 1.0, NormalizeTrigger(32767, 0, 100))
}

func TestGetMappingFallsBackToGeneric(t *testing.T) {
	assert.Equal(t, "xbox", GetMapping(0x045E, 0x028E).Name)
	assert.Equal(t, "generic", GetMapping(0x1234, 0x5678).Name)
}

func receive(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for gamepad event")
		return Event{}
	}
}

func TestPageSourceLifecycle(t *testing.T) {
	p := NewPageSource(nil)

	p.GamepadConnected(1, "Xbox Wireless Controller")
	assert.Equal(t, Event{Kind: Attached, Slot: 1, ID: "Xbox Wireless Controller"}, receive(t, p.Events()))

	buttons := make([]bool, StandardButtons)
	buttons[ButtonDpadLeft] = true
	p.ApplyGamepads([]PageGamepad{
		{Index: 1, ID: "Xbox Wireless Controller", Axes: []float64{0, 0.9}, Buttons: buttons},
		{Index: 0, ID: "Pad", Axes: []float64{0, -0.2}},
	})
	// slot 0 arrived without a connect notification
	assert.Equal(t, Event{Kind: Attached, Slot: 0, ID: "Pad"}, receive(t, p.Events()))

	snaps := p.Snapshots()
	require.Len(t, snaps, 2)
	assert.Equal(t, 0, snaps[0].Slot)
	assert.Equal(t, 1, snaps[1].Slot)
	assert.Equal(t, 0.9, snaps[1].Axis(AxisLeftY))
	assert.True(t, snaps[1].Pressed(ButtonDpadLeft))
	assert.True(t, snaps[1].Connected)

	buttons[ButtonDpadLeft] = false
	assert.True(t, p.Snapshots()[1].Pressed(ButtonDpadLeft), "stored state is not aliased")

	p.GamepadDisconnected(1)
	assert.Equal(t, Event{Kind: Detached, Slot: 1, ID: "Xbox Wireless Controller"}, receive(t, p.Events()))
	require.Len(t, p.Snapshots(), 1)

	// unknown slot: no event, no panic
	p.GamepadDisconnected(9)
	select {
	case ev := <-p.Events():
		t.Fatalf("unexpected event %+v", ev)
	default:
	}
}

type fakeJoystick struct {
	name    string
	state   joystick.State
	err     error
	buttons int
	closed  bool
}

func (f *fakeJoystick) AxisCount() int                { return len(f.state.AxisData) }
func (f *fakeJoystick) ButtonCount() int              { return f.buttons }
func (f *fakeJoystick) Name() string                  { return f.name }
func (f *fakeJoystick) Read() (joystick.State, error) { return f.state, f.err }
func (f *fakeJoystick) Close()                        { f.closed = true }

func TestJoystickReaderScanAndPoll(t *testing.T) {
	pad := &fakeJoystick{
		name:    "Xbox 360 pad",
		buttons: 11,
		state: joystick.State{
			AxisData: []int{0, 30000, -32767, 0, 0, -32767, -32767, 0},
			Buttons:  1 << 0,
		},
	}
	r := NewJoystickReader(4, time.Second, nil)
	r.openFn = func(id int) (joystick.Joystick, error) {
		if id == 2 {
			return pad, nil
		}
		return nil, errors.New("no device")
	}

	r.scan()
	assert.Equal(t, Event{Kind: Attached, Slot: 2, ID: "Xbox 360 pad"}, receive(t, r.Events()))

	r.pollState()
	snaps := r.Snapshots()
	require.Len(t, snaps, 1)
	assert.Equal(t, 2, snaps[0].Slot)
	assert.InDelta(t, 30000.0/32767.0, snaps[0].Axis(AxisLeftY), 1e-9)
	assert.True(t, snaps[0].Pressed(ButtonA))
	assert.True(t, snaps[0].Pressed(ButtonDpadLeft))
	assert.False(t, snaps[0].Pressed(ButtonLT))

	// rescanning an open slot does not reattach
	r.scan()
	select {
	case ev := <-r.Events():
		t.Fatalf("unexpected event %+v", ev)
	default:
	}

	pad.err = errors.New("device gone")
	r.pollState()
	assert.Equal(t, Event{Kind: Detached, Slot: 2, ID: "Xbox 360 pad"}, receive(t, r.Events()))
	assert.True(t, pad.closed)
	assert.Empty(t, r.Snapshots())
}

func TestNewReader(t *testing.T) {
	r, err := NewReader(KindPage, Options{}, nil)
	require.NoError(t, err)
	assert.IsType(t, &PageSource{}, r)

	r, err = NewReader(KindJoystick, Options{Slots: 2, ScanInterval: time.Second}, nil)
	require.NoError(t, err)
	assert.IsType(t, &JoystickReader{}, r)

	_, err = NewReader("evdev", Options{}, nil)
	assert.ErrorIs(t, err, ErrUnknownSource)

	// the SDL back-end registers itself only when linked in
	_, err = NewReader(KindSDL, Options{}, nil)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestRegister(t *testing.T) {
	Register("test", func(opts Options, _ *slog.Logger) Reader {
		return NewJoystickReader(opts.Slots, time.Second, nil)
	})
	r, err := NewReader("test", Options{Slots: 3}, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, r.(*JoystickReader).slots)
}
