//go:build !nosdl

package main

// The SDL3 back-end loads the SDL3 shared library at startup. Build with
// -tags nosdl for hosts without it; source.kind=sdl then falls back to page.
import _ "github.com/soar/padnav/internal/gamepad/sdlinput"
