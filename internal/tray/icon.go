package tray

import _ "embed"

//go:embed icon.ico
var iconData []byte

// GetIcon returns the 16x16 gamepad glyph shown in the tray.
func GetIcon() []byte {
	return iconData
}
