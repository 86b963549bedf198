// Package tracking reports analytics events to a Plausible-style event
// endpoint. Delivery is best-effort: Track never blocks the caller and
// failures are only logged and counted.
package tracking

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/profile-peek/profile-peek/pkg/client"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Event names.
const (
	EventSearchRequest = "search_request"
	EventCacheHit      = "cache_hit"
	EventError         = "error"
)

const (
	// DefaultDomain is the site the events are attributed to.
	DefaultDomain = "profile-peek.com"

	// DefaultPageURL is reported as the event's page.
	DefaultPageURL = "https://profile-peek.com/backend"

	// DefaultTimeout bounds one delivery attempt.
	DefaultTimeout = 5 * time.Second
)

var eventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "tracking_events_total",
	Help: "Total analytics events by name and delivery result",
}, []string{"event", "result"}) // result: "sent", "failed", "dropped"

// Event is the body POSTed to the endpoint.
type Event struct {
	Name   string            `json:"name"`
	URL    string            `json:"url"`
	Domain string            `json:"domain"`
	Props  map[string]string `json:"props"`
}

// Config holds sink configuration.
type Config struct {
	Domain  string
	PageURL string
	Timeout time.Duration
}

// DefaultConfig returns the default sink configuration.
func DefaultConfig() Config {
	return Config{
		Domain:  DefaultDomain,
		PageURL: DefaultPageURL,
		Timeout: DefaultTimeout,
	}
}

// Sink sends events in the background.
type Sink struct {
	api    *client.Client
	config Config
	logger zerolog.Logger

	mu       sync.Mutex
	closed   bool
	inflight sync.WaitGroup
}

// NewSink creates a sink that posts to the API client's base URL.
func NewSink(api *client.Client, cfg Config, logger zerolog.Logger) (*Sink, error) {
	if api == nil {
		return nil, fmt.Errorf("tracking api client is required")
	}
	if cfg.Domain == "" {
		cfg.Domain = DefaultDomain
	}
	if cfg.PageURL == "" {
		cfg.PageURL = DefaultPageURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Sink{api: api, config: cfg, logger: logger}, nil
}

// Track queues an event and returns immediately. Events tracked after Wait
// has been called are dropped.
func (s *Sink) Track(name string, props map[string]string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		eventsTotal.WithLabelValues(name, "dropped").Inc()
		s.logger.Debug().Str("event", name).Msg("Tracking sink closed, event dropped")
		return
	}
	s.inflight.Add(1)
	s.mu.Unlock()

	event := Event{
		Name:   name,
		URL:    s.config.PageURL,
		Domain: s.config.Domain,
		Props:  props,
	}

	go func() {
		defer s.inflight.Done()
		s.send(event)
	}()
}

// Wait stops accepting events and blocks until queued events are delivered
// or ctx is done.
func (s *Sink) Wait(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("tracking drain: %w", ctx.Err())
	}
}

func (s *Sink) send(event Event) {
	// detached from the inbound request so a finished response does not
	// cancel delivery
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Timeout)
	defer cancel()

	header := http.Header{}
	header.Set("X-Forwarded-For", "127.0.0.1")

	if err := s.api.PostJSON(ctx, "", event, header); err != nil {
		eventsTotal.WithLabelValues(event.Name, "failed").Inc()
		s.logger.Warn().Err(err).Str("event", event.Name).Msg("Failed to track event")
		return
	}

	eventsTotal.WithLabelValues(event.Name, "sent").Inc()
	s.logger.Debug().Str("event", event.Name).Interface("props", event.Props).Msg("Event tracked")
}
