package gamepad

import "math"

// Standard layout button indices, the same order browsers use for
// gamepads reporting the "standard" mapping.
const (
	ButtonA = iota
	ButtonB
	ButtonX
	ButtonY
	ButtonLB
	ButtonRB
	ButtonLT
	ButtonRT
	ButtonSelect
	ButtonStart
	ButtonL3
	ButtonR3
	ButtonDpadUp
	ButtonDpadDown
	ButtonDpadLeft
	ButtonDpadRight
	ButtonHome

	StandardButtons
)

// Standard layout axis indices. Y axes are positive when pushed down.
const (
	AxisLeftX = iota
	AxisLeftY
	AxisRightX
	AxisRightY

	StandardAxes
)

// triggerPressed is the normalized trigger value at which LT/RT count as pressed.
const triggerPressed = 0.5

// Hat bitmask as reported by SDL.
const (
	hatUp    uint8 = 0x01
	hatRight uint8 = 0x02
	hatDown  uint8 = 0x04
	hatLeft  uint8 = 0x08
)

// AxisMapping defines how a raw axis index maps to a standard axis.
// Triggers map to the LT/RT buttons instead.
type AxisMapping struct {
	Index     int32
	Target    int
	IsTrigger bool
	// For triggers: raw range. Some devices use -32768..32767, others 0..32767.
	RawMin int16
	RawMax int16
}

// ButtonMapping defines how a raw button index maps to a standard button.
type ButtonMapping struct {
	Index  int32
	Target int
}

// DeviceMapping holds the complete mapping for a specific device type.
// HatAxisX/HatAxisY name the raw axes carrying the d-pad on drivers that
// report it as a pair of axes; -1 means none.
type DeviceMapping struct {
	Name     string
	Axes     []AxisMapping
	Buttons  []ButtonMapping
	HasHat   bool
	HatAxisX int32
	HatAxisY int32
}

// NormalizeAxis converts a raw axis value (-32768..32767) to -1.0..1.0.
func NormalizeAxis(raw int16) float64 {
	v := float64(raw) / math.MaxInt16
	if v < -1.0 {
		v = -1.0
	}
	return v
}

// NormalizeTrigger converts a raw trigger value to 0.0..1.0.
func NormalizeTrigger(raw int16, rawMin, rawMax int16) float64 {
	if rawMax == rawMin {
		return 0
	}
	v := (float64(raw) - float64(rawMin)) / (float64(rawMax) - float64(rawMin))
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return v
}

// clampRaw narrows a driver value to the int16 range.
func clampRaw(v int) int16 {
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}

// hatButtons sets the four d-pad buttons from a hat bitmask.
func hatButtons(buttons []bool, hat uint8) {
	buttons[ButtonDpadUp] = hat&hatUp != 0
	buttons[ButtonDpadRight] = hat&hatRight != 0
	buttons[ButtonDpadDown] = hat&hatDown != 0
	buttons[ButtonDpadLeft] = hat&hatLeft != 0
}

// hatFromAxes converts a two-axis d-pad into a hat bitmask.
func hatFromAxes(x, y int) uint8 {
	var hat uint8
	switch {
	case y < 0:
		hat |= hatUp
	case y > 0:
		hat |= hatDown
	}
	switch {
	case x < 0:
		hat |= hatLeft
	case x > 0:
		hat |= hatRight
	}
	return hat
}

// Built-in mappings for common controllers (SDL joystick indices).

var xboxMapping = &DeviceMapping{
	Name: "xbox",
	Axes: []AxisMapping{
		{Index: 0, Target: AxisLeftX},
		{Index: 1, Target: AxisLeftY},
		{Index: 2, Target: AxisRightX},
		{Index: 3, Target: AxisRightY},
		{Index: 4, Target: ButtonLT, IsTrigger: true, RawMin: -32768, RawMax: 32767},
		{Index: 5, Target: ButtonRT, IsTrigger: true, RawMin: -32768, RawMax: 32767},
	},
	Buttons: []ButtonMapping{
		{Index: 0, Target: ButtonA},
		{Index: 1, Target: ButtonB},
		{Index: 2, Target: ButtonX},
		{Index: 3, Target: ButtonY},
		{Index: 4, Target: ButtonLB},
		{Index: 5, Target: ButtonRB},
		{Index: 6, Target: ButtonSelect},
		{Index: 7, Target: ButtonStart},
		{Index: 8, Target: ButtonL3},
		{Index: 9, Target: ButtonR3},
		{Index: 10, Target: ButtonHome},
	},
	HasHat:   true,
	HatAxisX: -1,
	HatAxisY: -1,
}

var playstationMapping = &DeviceMapping{
	Name: "playstation",
	Axes: []AxisMapping{
		{Index: 0, Target: AxisLeftX},
		{Index: 1, Target: AxisLeftY},
		{Index: 2, Target: AxisRightX},
		{Index: 3, Target: AxisRightY},
		{Index: 4, Target: ButtonLT, IsTrigger: true, RawMin: -32768, RawMax: 32767},
		{Index: 5, Target: ButtonRT, IsTrigger: true, RawMin: -32768, RawMax: 32767},
	},
	Buttons: []ButtonMapping{
		{Index: 0, Target: ButtonA},      // Cross (×)
		{Index: 1, Target: ButtonB},      // Circle (○)
		{Index: 2, Target: ButtonX},      // Square (□)
		{Index: 3, Target: ButtonY},      // Triangle (△)
		{Index: 4, Target: ButtonSelect}, // Share / Create
		{Index: 5, Target: ButtonHome},   // PS button
		{Index: 6, Target: ButtonStart},  // Options
		{Index: 7, Target: ButtonL3},
		{Index: 8, Target: ButtonR3},
		{Index: 9, Target: ButtonLB},  // L1
		{Index: 10, Target: ButtonRB}, // R1
	},
	HasHat:   true,
	HatAxisX: -1,
	HatAxisY: -1,
}

var switchProMapping = &DeviceMapping{
	Name: "switch_pro",
	Axes: []AxisMapping{
		{Index: 0, Target: AxisLeftX},
		{Index: 1, Target: AxisLeftY},
		{Index: 2, Target: AxisRightX},
		{Index: 3, Target: AxisRightY},
	},
	Buttons: []ButtonMapping{
		{Index: 0, Target: ButtonA},
		{Index: 1, Target: ButtonB},
		{Index: 2, Target: ButtonX},
		{Index: 3, Target: ButtonY},
		{Index: 4, Target: ButtonLB},
		{Index: 5, Target: ButtonRB},
		{Index: 6, Target: ButtonSelect},
		{Index: 7, Target: ButtonStart},
		{Index: 8, Target: ButtonL3},
		{Index: 9, Target: ButtonR3},
		{Index: 10, Target: ButtonHome},
	},
	HasHat:   true,
	HatAxisX: -1,
	HatAxisY: -1,
}

var genericMapping = &DeviceMapping{
	Name: "generic",
	Axes: []AxisMapping{
		{Index: 0, Target: AxisLeftX},
		{Index: 1, Target: AxisLeftY},
		{Index: 2, Target: AxisRightX},
		{Index: 3, Target: AxisRightY},
		{Index: 4, Target: ButtonLT, IsTrigger: true, RawMin: -32768, RawMax: 32767},
		{Index: 5, Target: ButtonRT, IsTrigger: true, RawMin: -32768, RawMax: 32767},
	},
	Buttons: []ButtonMapping{
		{Index: 0, Target: ButtonA},
		{Index: 1, Target: ButtonB},
		{Index: 2, Target: ButtonX},
		{Index: 3, Target: ButtonY},
		{Index: 4, Target: ButtonLB},
		{Index: 5, Target: ButtonRB},
		{Index: 6, Target: ButtonSelect},
		{Index: 7, Target: ButtonStart},
		{Index: 8, Target: ButtonL3},
		{Index: 9, Target: ButtonR3},
		{Index: 10, Target: ButtonHome},
	},
	HasHat:   true,
	HatAxisX: -1,
	HatAxisY: -1,
}

// linuxJoydevMapping is the xpad layout seen through the classic joystick
// API: triggers on axes 2/5 and the d-pad on axes 6/7.
var linuxJoydevMapping = &DeviceMapping{
	Name: "joydev",
	Axes: []AxisMapping{
		{Index: 0, Target: AxisLeftX},
		{Index: 1, Target: AxisLeftY},
		{Index: 2, Target: ButtonLT, IsTrigger: true, RawMin: -32768, RawMax: 32767},
		{Index: 3, Target: AxisRightX},
		{Index: 4, Target: AxisRightY},
		{Index: 5, Target: ButtonRT, IsTrigger: true, RawMin: -32768, RawMax: 32767},
	},
	Buttons: []ButtonMapping{
		{Index: 0, Target: ButtonA},
		{Index: 1, Target: ButtonB},
		{Index: 2, Target: ButtonX},
		{Index: 3, Target: ButtonY},
		{Index: 4, Target: ButtonLB},
		{Index: 5, Target: ButtonRB},
		{Index: 6, Target: ButtonSelect},
		{Index: 7, Target: ButtonStart},
		{Index: 8, Target: ButtonHome},
		{Index: 9, Target: ButtonL3},
		{Index: 10, Target: ButtonR3},
	},
	HatAxisX: 6,
	HatAxisY: 7,
}

// Known vendor/product IDs.
type deviceKey struct {
	VendorID  uint16
	ProductID uint16
}

var knownDevices = map[deviceKey]*DeviceMapping{
	// Microsoft Xbox controllers
	{0x045E, 0x028E}: xboxMapping, // Xbox 360
	{0x045E, 0x02FF}: xboxMapping, // Xbox One
	{0x045E, 0x0B12}: xboxMapping, // Xbox Series X|S
	{0x045E, 0x0B13}: xboxMapping, // Xbox Series X|S (wireless)
	// Sony PlayStation controllers
	{0x054C, 0x0CE6}: playstationMapping, // DualSense
	{0x054C, 0x09CC}: playstationMapping, // DualShock 4 v2
	{0x054C, 0x05C4}: playstationMapping, // DualShock 4 v1
	// Nintendo Switch Pro Controller
	{0x057E, 0x2009}: switchProMapping,
}

// GetMapping returns the appropriate mapping for a device identified by vendor/product ID.
// Falls back to generic mapping if no specific mapping is found.
func GetMapping(vendorID, productID uint16) *DeviceMapping {
	key := deviceKey{VendorID: vendorID, ProductID: productID}
	if m, ok := knownDevices[key]; ok {
		return m
	}
	return genericMapping
}

// RawState is one device's unmapped input as read from a driver.
type RawState struct {
	Axis   func(i int32) int16
	Button func(i int32) bool
	Hat    func() uint8

	NumAxes    int32
	NumButtons int32
}

// Apply translates raw driver input into a standard-layout snapshot body.
func (m *DeviceMapping) Apply(raw RawState) (axes []float64, buttons []bool) {
	axes = make([]float64, StandardAxes)
	buttons = make([]bool, StandardButtons)

	for _, am := range m.Axes {
		if am.Index >= raw.NumAxes {
			continue
		}
		v := raw.Axis(am.Index)
		if am.IsTrigger {
			buttons[am.Target] = NormalizeTrigger(v, am.RawMin, am.RawMax) >= triggerPressed
			continue
		}
		axes[am.Target] = NormalizeAxis(v)
	}

	for _, bm := range m.Buttons {
		if bm.Index >= raw.NumButtons {
			continue
		}
		buttons[bm.Target] = raw.Button(bm.Index)
	}

	switch {
	case m.HasHat && raw.Hat != nil:
		hatButtons(buttons, raw.Hat())
	case m.HatAxisX >= 0 && m.HatAxisY >= 0 && m.HatAxisY < raw.NumAxes && m.HatAxisX < raw.NumAxes:
		hatButtons(buttons, hatFromAxes(int(raw.Axis(m.HatAxisX)), int(raw.Axis(m.HatAxisY))))
	}

	return axes, buttons
}
