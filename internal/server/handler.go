package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/lxzan/gws"

	"github.com/soar/padnav/internal/hub"
)

func newUpgrader(h *hub.Hub) *gws.Upgrader {
	return gws.NewUpgrader(h, &gws.ServerOption{
		PermessageDeflate: gws.PermessageDeflate{Enabled: true},
		Recovery:          gws.Recovery,
	})
}

func handleWebSocket(upgrader *gws.Upgrader, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		socket, err := upgrader.Upgrade(w, r)
		if err != nil {
			logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
			return
		}
		go socket.ReadLoop()
	}
}

func handleScript(script []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		_, _ = w.Write(script)
	}
}

func handleStatus(b *hub.Broadcaster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(b.Status())
	}
}
