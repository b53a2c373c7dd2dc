package server

import (
	"context"
	"encoding/json"
	"log"
	"net"
	"net/http"

	"github.com/soar/touchjoy/internal/hub"
)

type Server struct {
	hub         *hub.Hub
	broadcaster *hub.Broadcaster
	touch       http.Handler
	assets      http.Handler
	layout      json.RawMessage
	httpServer  *http.Server
}

func New(h *hub.Hub, b *hub.Broadcaster, touch http.Handler, assets http.Handler, layout json.RawMessage, addr string) *Server {
	s := &Server{
		hub:         h,
		broadcaster: b,
		touch:       touch,
		assets:      assets,
		layout:      layout,
	}
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}
	return s
}

// Handler returns the request router.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Touch page input
	mux.Handle("/touch", s.touch)

	// Viewer WebSocket endpoint
	mux.HandleFunc("/ws", handleWebSocket(s.hub, s.broadcaster))

	mux.HandleFunc("/api/layout", handleLayout(s.layout))

	// Static files (frontend)
	mux.Handle("/", s.assets)

	return mux
}

// Serve accepts connections on l.
func (s *Server) Serve(l net.Listener) error {
	log.Printf("HTTP server listening on %s", l.Addr())
	return s.httpServer.Serve(l)
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down HTTP server...")
	return s.httpServer.Shutdown(ctx)
}
