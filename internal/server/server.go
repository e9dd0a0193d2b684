package server

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/js"

	"github.com/soar/padnav/internal/hub"
)

const (
	scriptName = "padnav.js"
	scriptType = "application/javascript"
)

type Server struct {
	hub         *hub.Hub
	broadcaster *hub.Broadcaster
	webFS       fs.FS
	addr        string
	script      []byte
	logger      *slog.Logger
	httpServer  *http.Server
}

// New prepares the server. The bridge script is read from webFS once and
// minified when minifyScript is set.
func New(h *hub.Hub, b *hub.Broadcaster, webFS fs.FS, addr string, minifyScript bool, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	script, err := fs.ReadFile(webFS, scriptName)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", scriptName, err)
	}
	if minifyScript {
		m := minify.New()
		m.AddFunc(scriptType, js.Minify)
		if script, err = m.Bytes(scriptType, script); err != nil {
			return nil, fmt.Errorf("minify %s: %w", scriptName, err)
		}
	}

	s := &Server{
		hub:         h,
		broadcaster: b,
		webFS:       webFS,
		addr:        addr,
		script:      script,
		logger:      logger,
	}
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}
	return s, nil
}

// Handler returns the routes served by the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// WebSocket endpoint
	mux.HandleFunc("GET /ws", handleWebSocket(newUpgrader(s.hub), s.logger))
	mux.HandleFunc("GET /"+scriptName, handleScript(s.script))
	mux.HandleFunc("GET /status", handleStatus(s.broadcaster))

	// Static files (demo page)
	mux.Handle("/", http.FileServer(http.FS(s.webFS)))
	return mux
}

func (s *Server) ListenAndServe() error {
	s.logger.Info("HTTP server listening", "addr", s.addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// LocalURL turns a listen address into a URL a local browser can open.
func LocalURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}
