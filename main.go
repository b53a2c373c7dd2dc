package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/soar/touchjoy/internal/assets"
	"github.com/soar/touchjoy/internal/config"
	"github.com/soar/touchjoy/internal/gamepad"
	"github.com/soar/touchjoy/internal/hub"
	"github.com/soar/touchjoy/internal/server"
	"github.com/soar/touchjoy/internal/touch"
	"github.com/soar/touchjoy/internal/tray"
)

// Cross-platform signal handling: use os.Interrupt on all platforms
// On Windows: os.Interrupt is sent when Ctrl+C is pressed
// On Unix: os.Interrupt is equivalent to syscall.SIGINT
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

func main() {
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	if cfg.WriteConfig {
		if err := config.Write(os.Stdout, cfg); err != nil {
			log.Fatalf("%v", err)
		}
		return
	}

	if err := run(cfg); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(cfg *config.Config) error {
	// Create cancellable context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, shutdownSignals...)

	surfaceCfg, err := cfg.Surface()
	if err != nil {
		return err
	}
	layout, err := cfg.Layout()
	if err != nil {
		return err
	}
	frontend, err := assets.New(getFrontendFS())
	if err != nil {
		return errors.Wrap(err, "loading frontend")
	}

	// Every touch session reports into this channel
	changes := make(chan gamepad.PadState, 256)

	// Create and start hub
	h := hub.NewHub()
	go h.Run(ctx)

	// Create broadcaster
	broadcaster := hub.NewBroadcaster(h, changes)
	go broadcaster.Run(ctx)

	endpoint := touch.NewEndpoint(ctx, touch.Options{
		Surface:     surfaceCfg,
		Controls:    cfg.TouchControls(),
		Layout:      layout,
		MeterWindow: cfg.Meter.Window,
	}, changes)

	// Listen before announcing so a busy port fails at startup
	listener, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return errors.Wrapf(err, "listening on %s", cfg.Addr)
	}
	srv := server.New(h, broadcaster, endpoint, frontend, layout, cfg.Addr)
	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		}
	}()

	padURL := localURL(listener.Addr())
	viewerURL := padURL + "viewer.html"
	log.Printf("touchjoy started: touch pad %s, viewer %s", padURL, viewerURL)

	// Channel for tray-triggered shutdown
	shutdownRequested := make(chan struct{})

	var t *tray.Tray
	if cfg.Tray {
		t = tray.New(padURL, viewerURL, func() {
			close(shutdownRequested)
		})
		go t.Run(tray.GetIcon())
	} else {
		log.Println("Press Ctrl+C to exit")
	}

	// Wait for shutdown signal, tray request, or server error
	select {
	case <-sigCh:
		log.Println("Shutting down...")
	case <-shutdownRequested:
		log.Println("Shutdown requested from tray")
	case err := <-serverErrCh:
		log.Printf("HTTP server error: %v", err)
	}

	// Stops every touch surface, the broadcaster and the hub
	cancel()
	if t != nil {
		t.Quit()
	}

	// Shutdown the HTTP server gracefully
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("touchjoy stopped")
	return nil
}

// localURL returns the browser address for a listener, preferring localhost
// when it listens on every interface.
func localURL(addr net.Addr) string {
	host, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		return "http://" + addr.String() + "/"
	}
	if ip := net.ParseIP(host); host == "" || (ip != nil && ip.IsUnspecified()) {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port) + "/"
}
