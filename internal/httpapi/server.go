package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-logr/logr"

	"textintel/internal/config"
	"textintel/internal/service"
)

// Server exposes the text service over HTTP.
type Server struct {
	svc    *service.TextService
	cfg    config.ServerConfig
	prefix string
	log    logr.Logger
}

// NewServer wires the routes for svc under cfg.PathPrefix.
func NewServer(svc *service.TextService, cfg config.ServerConfig, log logr.Logger) *Server {
	prefix := "/" + strings.Trim(cfg.PathPrefix, "/")
	if prefix == "/" {
		prefix = ""
	}
	return &Server{svc: svc, cfg: cfg, prefix: prefix, log: log}
}

// Handler returns the complete handler including middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("POST "+s.prefix+"/analyze", s.handleAnalyze)
	mux.HandleFunc("POST "+s.prefix+"/summarize", s.handleSummarize)
	mux.HandleFunc("POST "+s.prefix+"/semantic-search", s.handleSearch)
	mux.HandleFunc("POST "+s.prefix+"/add-document", s.handleAddDocument)
	mux.HandleFunc("GET "+s.prefix+"/index-stats", s.handleStats)
	mux.HandleFunc("DELETE "+s.prefix+"/clear-index", s.handleClear)
	mux.HandleFunc("GET "+s.prefix+"/health", s.handleHealth)
	return chain(mux, cors, requestLogger(s.log), recoverPanics)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       config.Seconds(s.cfg.ReadTimeoutSecs),
		WriteTimeout:      config.Seconds(s.cfg.WriteTimeoutSecs),
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", ln.Addr().String(), "prefix", s.prefix)
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := config.Seconds(s.cfg.ShutdownTimeoutSecs)
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	s.log.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
