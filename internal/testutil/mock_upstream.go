// Package testutil provides fake upstream servers for Steam, FACEIT and the
// tracking endpoint.
package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// RecordedRequest is a request the mock server received.
type RecordedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

// MockUpstream is a configurable mock upstream server for testing.
type MockUpstream struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)
	requests []RecordedRequest
}

// NewMockUpstream creates a new mock server. Paths without a handler answer 404.
func NewMockUpstream() *MockUpstream {
	mock := &MockUpstream{
		handlers: make(map[string]func(w http.ResponseWriter, r *http.Request)),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		mock.mu.Lock()
		mock.requests = append(mock.requests, RecordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Header: r.Header.Clone(),
			Body:   body,
		})
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.Unlock()

		if exists {
			handler(w, r)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"errors":[{"message":"not found"}]}`))
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockUpstream) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockUpstream) Close() {
	m.server.Close()
}

// Reset clears recorded requests.
func (m *MockUpstream) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = nil
}

// SetHandler sets a custom handler for a specific path.
func (m *MockUpstream) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a canned response for a path.
func (m *MockUpstream) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}

		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}

		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// SetVanityResponse answers the Steam ResolveVanityURL endpoint.
func (m *MockUpstream) SetVanityResponse(resp MockResponse) {
	m.SetResponse(SteamVanityPath, resp)
}

// SetFaceitProfileResponse answers the FACEIT player lookup endpoint.
func (m *MockUpstream) SetFaceitProfileResponse(resp MockResponse) {
	m.SetResponse("/players", resp)
}

// SetFaceitHistoryResponse answers the FACEIT cs2 stats endpoint for playerID.
func (m *MockUpstream) SetFaceitHistoryResponse(playerID string, resp MockResponse) {
	m.SetResponse(fmt.Sprintf("/players/%s/games/cs2/stats", playerID), resp)
}

// Requests returns a copy of all recorded requests.
func (m *MockUpstream) Requests() []RecordedRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]RecordedRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// RequestCount returns the number of requests made to the server.
func (m *MockUpstream) RequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.requests)
}

// RequestCountFor returns the number of requests made to path.
func (m *MockUpstream) RequestCountFor(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, r := range m.requests {
		if r.Path == path {
			n++
		}
	}
	return n
}

// SteamVanityPath is the ResolveVanityURL endpoint path.
const SteamVanityPath = "/ISteamUser/ResolveVanityURL/v0001/"

// NewJSONResponse creates a 200 OK response with body v encoded as JSON.
// A string v is used verbatim.
func NewJSONResponse(v any) MockResponse {
	body, ok := v.(string)
	if !ok {
		raw, err := json.Marshal(v)
		if err != nil {
			panic(fmt.Sprintf("testutil: marshal response: %v", err))
		}
		body = string(raw)
	}
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       body,
		Headers:    map[string]string{"Content-Type": "application/json; charset=utf-8"},
	}
}

// NewVanityResponse creates a successful ResolveVanityURL response.
func NewVanityResponse(steamID string) MockResponse {
	return NewJSONResponse(fmt.Sprintf(`{"response":{"steamid":%q,"success":1}}`, steamID))
}

// NewVanityNoMatchResponse creates the ResolveVanityURL "no match" response.
func NewVanityNoMatchResponse() MockResponse {
	return NewJSONResponse(`{"response":{"success":42,"message":"No match"}}`)
}

// NewNotFoundResponse creates a 404 Not Found response.
func NewNotFoundResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusNotFound,
		Body:       `{"errors":[{"message":"The resource was not found."}]}`,
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

// NewRateLimitResponse creates a 429 Too Many Requests response.
func NewRateLimitResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusTooManyRequests,
		Body:       `{"error": "Rate limit exceeded"}`,
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error": "Internal server error"}`,
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

// FaceitActivatedAt is the activated_at value of NewFaceitProfileResponse.
const FaceitActivatedAt = "2020-01-02T03:04:05Z"

// NewFaceitProfileResponse creates a FACEIT player details response with a
// cs2 entry at level 10, 2500 elo.
func NewFaceitProfileResponse(playerID, nickname string) MockResponse {
	return NewJSONResponse(map[string]any{
		"player_id":    playerID,
		"nickname":     nickname,
		"avatar":       "https://assets.faceit-cdn.net/avatars/" + playerID + ".jpg",
		"country":      "de",
		"faceit_url":   "https://www.faceit.com/{lang}/players/" + nickname,
		"steam_id_64":  "76561198000000000",
		"activated_at": FaceitActivatedAt,
		"verified":     true,
		"games": map[string]any{
			"cs2": map[string]any{
				"region":           "EU",
				"game_player_id":   "76561198000000000",
				"skill_level":      10,
				"faceit_elo":       2500,
				"game_player_name": nickname,
			},
		},
	})
}

// NewFaceitHistoryResponse creates a cs2 stats page holding one item per
// stats map, keyed by FACEIT field name ("Kills", "K/R Ratio", ...).
func NewFaceitHistoryResponse(matches ...map[string]string) MockResponse {
	items := make([]map[string]any, 0, len(matches))
	for _, stats := range matches {
		items = append(items, map[string]any{"stats": stats})
	}
	return NewJSONResponse(map[string]any{
		"start": 0,
		"end":   len(items),
		"items": items,
	})
}
