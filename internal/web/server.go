// Package web provides the HTTP status page and threshold console for the
// sound-and-vision daemon.
package web

import (
	"context"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sweeney/sound-and-vision/internal/status"
	"github.com/sweeney/sound-and-vision/internal/thresholds"
)

// Server serves the status page, metrics and threshold console over HTTP.
type Server struct {
	httpServer *http.Server
	tracker    *status.Tracker
	console    *thresholds.Console
	log        *zap.Logger
}

// New creates a Server that reads state from the given tracker and changes
// thresholds through console. A nil gatherer disables /metrics.
func New(addr string, tracker *status.Tracker, console *thresholds.Console, gatherer prometheus.Gatherer, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{tracker: tracker, console: console, log: log}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/index.html", s.handleIndex)
	mux.HandleFunc("/index.json", s.handleJSON)
	mux.HandleFunc("/thresholds/", s.handleThresholds)
	if gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return s
}

// ListenAndServe starts listening. It blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on the given listener. Useful for tests.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}
	snap := s.tracker.Snapshot()

	color, err := s.console.ThresholdsColor()
	if err != nil {
		s.log.Warn("read colour thresholds", zap.Error(err))
		color = "unavailable"
	}
	tone, err := s.console.ThresholdsTone()
	if err != nil {
		s.log.Warn("read tone thresholds", zap.Error(err))
		tone = "unavailable"
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := renderHTML(w, snap, color, tone); err != nil {
		s.log.Warn("render status page", zap.Error(err))
	}
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.Write(status.FormatJSON(snap))
}
