package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httputil"

	"github.com/kidandcat/rallypoint/internal/config"
)

type server struct {
	cfg   config.Config
	log   *slog.Logger
	pwa   http.Handler
	proxy *httputil.ReverseProxy
}

func newServer(cfg config.Config, log *slog.Logger, pwa http.Handler) *server {
	s := &server{cfg: cfg, log: log, pwa: pwa}
	s.proxy = &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.SetURL(cfg.BackendURL)
			r.SetXForwarded()
		},
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			ResponseHeaderTimeout: cfg.RequestTimeout,
		},
		ErrorHandler: s.proxyError,
	}
	return s
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("/api/", s.proxy)
	mux.Handle("/", s.pwa)
	return withRequestID(logRequests(s.log, mux))
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// proxyError answers in the backend's own error shape so the client's
// normalizer can show the message.
func (s *server) proxyError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error("backend unreachable",
		"path", r.URL.Path,
		"request_id", r.Header.Get(requestIDHeader),
		"error", err,
	)
	writeJSON(w, http.StatusBadGateway, map[string]string{"detail": "The server is unreachable. Please try again later."})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
