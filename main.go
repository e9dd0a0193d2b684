package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/soar/padnav/internal/config"
	"github.com/soar/padnav/internal/console"
	"github.com/soar/padnav/internal/gamepad"
	"github.com/soar/padnav/internal/hub"
	"github.com/soar/padnav/internal/nav"
	"github.com/soar/padnav/internal/server"
	"github.com/soar/padnav/internal/tray"
)

var version = "dev"

// Cross-platform signal handling: use os.Interrupt on all platforms
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

func main() {
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "padnav: %v\n", err)
		os.Exit(1)
	}
	if cfg.ShowVersion {
		fmt.Println("padnav", version)
		return
	}

	fromConsole := console.IsRunningFromConsole()

	logger := setupLogger(cfg.Log.Level, cfg.Debug)
	slog.SetDefault(logger)
	if cfg.File != "" {
		logger.Info("loaded config", "file", cfg.File)
	}

	// Create cancellable context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, shutdownSignals...)

	// Tray exit and console Ctrl+C both land here
	shutdownRequested := make(chan struct{})
	var shutdownOnce sync.Once
	requestShutdown := func() {
		shutdownOnce.Do(func() { close(shutdownRequested) })
	}
	reregisterConsole := console.SetupConsoleHandler(requestShutdown)

	// Create gamepad reader
	reader, err := gamepad.NewReader(cfg.Source.Kind, gamepad.Options{
		Slots:        cfg.Source.Slots,
		ScanInterval: cfg.Source.ScanInterval,
		// SDL installs its own console handler during init
		AfterInit: reregisterConsole,
	}, logger)
	if errors.Is(err, gamepad.ErrUnavailable) {
		logger.Warn("gamepad source unavailable, using gamepads forwarded by the page", "error", err)
		reader, err = gamepad.NewReader(gamepad.KindPage, gamepad.Options{}, logger)
	}
	if err != nil {
		logger.Error("create gamepad reader", "error", err)
		os.Exit(1)
	}
	var sink hub.GamepadSink
	if ps, ok := reader.(*gamepad.PageSource); ok {
		sink = ps
	}

	// The hub is the host page: it scrolls and clicks through the bridge script
	h := hub.NewHub(sink, logger)

	navCfg := cfg.ToNav()
	dispatcher := nav.NewDispatcher(h, h, navCfg, logger)
	controller := nav.NewController(navCfg, reader, dispatcher, logger)

	broadcaster := hub.NewBroadcaster(h, controller, logger)
	dispatcher.OnDispatch(broadcaster.Publish)
	go broadcaster.Run(ctx)

	// Create and start HTTP server
	srv, err := server.New(h, broadcaster, getWebFS(), cfg.Server.Addr, cfg.Server.Minify, logger)
	if err != nil {
		logger.Error("create HTTP server", "error", err)
		os.Exit(1)
	}
	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
	}()

	url := server.LocalURL(cfg.Server.Addr)
	logger.Info("padnav started", "url", url, "source", cfg.Source.Kind, "version", version)

	if runtime.GOOS == "windows" && cfg.Tray.Enabled {
		go func() {
			t := tray.New(controller, url, requestShutdown, logger)
			t.Run(tray.GetIcon())
		}()
	} else if fromConsole {
		logger.Info("press Ctrl+C to exit")
	}

	// reader.Run locks its OS thread for SDL; cancel makes it return
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		if err := reader.Run(ctx); err != nil {
			if errors.Is(err, gamepad.ErrUnavailable) {
				logger.Warn("gamepad input unavailable, no local devices will be seen", "error", err)
				return
			}
			logger.Error("gamepad reader stopped", "error", err)
		}
	}()

	controllerDone := make(chan struct{})
	go func() {
		defer close(controllerDone)
		controller.Run(ctx)
	}()

	// Wait for shutdown signal, tray request, or server error
	exitCode := 0
	select {
	case <-sigCh:
		logger.Info("shutting down")
	case <-shutdownRequested:
		logger.Info("shutdown requested")
	case err := <-serverErrCh:
		logger.Error("HTTP server error", "error", err)
		exitCode = 1
	}
	cancel()

	<-readerDone
	<-controllerDone

	// Shutdown the HTTP server gracefully
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP server shutdown error", "error", err)
	}

	logger.Info("padnav stopped")
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
