package tray

import (
	"log/slog"
	"os/exec"
	"runtime"
	"sync"
	"sync/atomic"

	"fyne.io/systray"
)

// ShutdownFunc is called when "Exit" is clicked
type ShutdownFunc func()

// Navigation is the part of the controller the tray can pause and resume.
type Navigation interface {
	Start()
	Stop()
	Paused() bool
}

// Tray manages the system tray icon and menu
type Tray struct {
	nav          Navigation
	url          string
	logger       *slog.Logger
	shutdownFunc ShutdownFunc
	once         sync.Once
	shuttingDown atomic.Bool
	menuToggle   *systray.MenuItem
	menuOpen     *systray.MenuItem
	menuExit     *systray.MenuItem
}

// New creates a new Tray instance. url is the local server address opened
// by "Open status page".
func New(nav Navigation, url string, shutdownFn ShutdownFunc, logger *slog.Logger) *Tray {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tray{
		nav:          nav,
		url:          url,
		logger:       logger,
		shutdownFunc: shutdownFn,
	}
}

// Run initializes and runs the system tray (blocks until Quit())
func (t *Tray) Run(iconData []byte) {
	systray.Run(func() {
		t.onReady(iconData)
	}, func() {
		t.onExit()
	})
}

func (t *Tray) onReady(iconData []byte) {
	if iconData != nil {
		systray.SetIcon(iconData)
	}
	systray.SetTitle("padnav")
	systray.SetTooltip("padnav - " + t.url)

	title, tip := toggleLabel(t.nav.Paused())
	t.menuToggle = systray.AddMenuItem(title, tip)
	t.menuOpen = systray.AddMenuItem("Open status page", "Show navigation status in the browser")
	systray.AddSeparator()
	t.menuExit = systray.AddMenuItem("Exit", "Quit application")

	// Handle menu clicks in separate goroutines to prevent blocking
	go t.handleMenuClicks()

	t.logger.Info("system tray initialized")
}

// handleMenuClicks processes menu item clicks without blocking
func (t *Tray) handleMenuClicks() {
	for {
		select {
		case <-t.menuToggle.ClickedCh:
			paused := toggle(t.nav)
			title, tip := toggleLabel(paused)
			t.menuToggle.SetTitle(title)
			t.menuToggle.SetTooltip(tip)
			t.logger.Info("navigation toggled from tray", "paused", paused)
		case <-t.menuOpen.ClickedCh:
			if !t.shuttingDown.Load() {
				t.openBrowser(t.url + "/status")
			}
		case <-t.menuExit.ClickedCh:
			if t.shuttingDown.CompareAndSwap(false, true) {
				t.once.Do(t.shutdownFunc)
				systray.Quit()
				return
			}
		}
	}
}

func (t *Tray) onExit() {
	t.shuttingDown.Store(true)
	t.logger.Info("system tray exiting")
}

// toggle pauses running navigation or resumes paused navigation and
// reports whether it is paused afterwards.
func toggle(n Navigation) bool {
	if n.Paused() {
		n.Start()
	} else {
		n.Stop()
	}
	return n.Paused()
}

func toggleLabel(paused bool) (title, tooltip string) {
	if paused {
		return "Resume navigation", "Start translating gamepad input again"
	}
	return "Pause navigation", "Ignore gamepad input until resumed"
}

// openBrowser opens the default web browser
func (t *Tray) openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}

	if err := cmd.Start(); err != nil {
		t.logger.Warn("failed to open browser", "url", url, "error", err)
	}
}
