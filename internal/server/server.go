// Package server is the HTTP front of the service: the player lookup routes,
// static frontend, health and metrics endpoints.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/profile-peek/profile-peek/pkg/logging"
	"github.com/profile-peek/profile-peek/pkg/metrics"
	"github.com/profile-peek/profile-peek/pkg/player"
	"github.com/profile-peek/profile-peek/pkg/steam"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

const (
	apiPlayerPrefix    = "/api/v1/player/"
	legacyPlayerPrefix = "/player/"

	readyTimeout = 2 * time.Second
)

// LookupService resolves a raw profile URL to a serialized player.
type LookupService interface {
	Lookup(ctx context.Context, rawURL string) (string, error)
}

// Pinger checks a backing store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server routes inbound requests.
type Server struct {
	lookup LookupService
	store  Pinger
	static http.Handler
	mux    *http.ServeMux
	logger zerolog.Logger
}

// New creates a server. staticDir holds the built frontend.
func New(lookup LookupService, store Pinger, staticDir string, logger zerolog.Logger) *Server {
	s := &Server{
		lookup: lookup,
		store:  store,
		static: NewSPAHandler(staticDir),
		mux:    http.NewServeMux(),
		logger: logger,
	}

	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /ready", s.handleReady)
	s.mux.Handle("GET /metrics", metrics.Handler())
	s.mux.Handle("/", s.static)

	return s
}

// Handler returns the full middleware chain.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})
	return RequestID(s.logger)(c.Handler(CacheControl(s)))
}

// ServeHTTP dispatches player lookups on the escaped path so an encoded
// profile URL reaches the handler intact. Everything else goes to the mux.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	path := r.URL.EscapedPath()
	for _, prefix := range []string{apiPlayerPrefix, legacyPlayerPrefix} {
		if rest, ok := strings.CutPrefix(path, prefix); ok {
			s.handlePlayer(w, r, rest)
			return
		}
	}

	s.mux.ServeHTTP(w, r)
}

func (s *Server) handlePlayer(w http.ResponseWriter, r *http.Request, escaped string) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD, OPTIONS")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rawURL, err := url.PathUnescape(escaped)
	if err != nil || rawURL == "" {
		writeError(w, r, http.StatusBadRequest, errorMessages[http.StatusBadRequest])
		return
	}

	payload, err := s.lookup.Lookup(r.Context(), rawURL)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			log := logging.FromContext(r.Context(), s.logger)
			log.Error().Err(err).Int("status", status).Msg("Player lookup error")
		}
		writeError(w, r, status, errorMessages[status])
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(payload))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		log := logging.FromContext(r.Context(), s.logger)
		log.Warn().Err(err).Msg("Readiness check failed")
		writeError(w, r, http.StatusServiceUnavailable, errorMessages[http.StatusServiceUnavailable])
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("READY"))
}

// errorMessages are the client-facing error texts. Lookup errors can carry
// upstream URLs and are only logged.
var errorMessages = map[int]string{
	http.StatusBadRequest:          "invalid steam profile url",
	http.StatusNotFound:            "could not resolve steam profile",
	http.StatusServiceUnavailable:  "cache unavailable",
	http.StatusInternalServerError: "internal error",
}

// statusFor maps lookup errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, steam.ErrInvalidURL):
		return http.StatusBadRequest
	case errors.Is(err, steam.ErrVanityResolutionFailed), errors.Is(err, steam.ErrMalformedDirectURL):
		return http.StatusNotFound
	case errors.Is(err, player.ErrCacheUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":      msg,
		"request_id": GetRequestID(r.Context()),
	})
}
