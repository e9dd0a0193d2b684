// Command padnav-listen connects to a running padnav as an observer and
// prints every dispatched navigation command.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/pflag"

	"github.com/soar/padnav/internal/hub"
)

func main() {
	var (
		wsURL   = pflag.StringP("url", "u", "ws://127.0.0.1:8080/ws", "padnav websocket URL")
		status  = pflag.BoolP("status", "s", false, "also print periodic status syncs")
		rawJSON = pflag.Bool("json", false, "print messages as received")
	)
	pflag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	u, err := url.Parse(*wsURL)
	if err != nil {
		logger.Error("invalid websocket URL", "error", err)
		os.Exit(1)
	}

	// Handle shutdown
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	d := websocket.Dialer{
		HandshakeTimeout: 5 * time.Second,
	}

	logger.Info("connecting", "url", u.String())
	conn, _, err := d.Dial(u.String(), nil)
	if err != nil {
		logger.Error("failed to connect", "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	// Mutex to protect concurrent writes to websocket
	var writeMu sync.Mutex

	writeMu.Lock()
	err = conn.WriteJSON(hub.ClientMessage{Type: hub.TypeHello, Role: string(hub.RoleObserver)})
	writeMu.Unlock()
	if err != nil {
		logger.Error("failed to register as observer", "error", err)
		os.Exit(1)
	}
	logger.Info("connected (press Ctrl+C to exit)")

	// Keep the connection alive
	pingTicker := time.NewTicker(30 * time.Second)
	defer pingTicker.Stop()
	go func() {
		for range pingTicker.C {
			writeMu.Lock()
			err := conn.WriteMessage(websocket.PingMessage, nil)
			writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			messageType, message, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					logger.Warn("websocket error", "error", err)
				}
				return
			}
			if messageType != websocket.TextMessage {
				continue
			}
			if *rawJSON {
				fmt.Printf("%s\n", message)
				continue
			}
			printMessage(os.Stdout, message, *status)
		}
	}()

	// Wait for shutdown signal or connection close
	select {
	case <-sigc:
		logger.Info("shutting down")
		writeMu.Lock()
		err := conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		writeMu.Unlock()
		if err != nil {
			logger.Warn("error closing connection", "error", err)
		}
	case <-done:
		logger.Info("connection closed")
	}
}

// printMessage writes one human-readable line per command message, and per
// status message when withStatus is set.
func printMessage(w io.Writer, message []byte, withStatus bool) {
	var msg hub.WSMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		fmt.Fprintf(w, "[TEXT] %s\n", message)
		return
	}

	at := time.UnixMilli(msg.Timestamp).Format("15:04:05.000")
	switch msg.Type {
	case hub.TypeCommand:
		fmt.Fprintf(w, "%s [COMMAND] %s\n", at, msg.Command)
	case hub.TypeStatus:
		if withStatus && msg.Status != nil {
			s := msg.Status
			fmt.Fprintf(w, "%s [STATUS] running=%t paused=%t devices=%d pages=%d\n",
				at, s.Running, s.Paused, s.Devices, s.Pages)
		}
	}
}
