package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/profile-peek/profile-peek/internal/testutil"
	"github.com/profile-peek/profile-peek/pkg/cache"
	"github.com/profile-peek/profile-peek/pkg/client"
	"github.com/profile-peek/profile-peek/pkg/player"
	"github.com/profile-peek/profile-peek/pkg/steam"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLookup struct {
	mu      sync.Mutex
	payload string
	err     error
	urls    []string
}

func (f *fakeLookup) Lookup(_ context.Context, rawURL string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.urls = append(f.urls, rawURL)
	return f.payload, f.err
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

type missCache struct{}

func (missCache) Get(context.Context, string) (string, error) { return "", cache.ErrCacheMiss }

func (missCache) Set(context.Context, string, string, time.Duration) error { return nil }

type recordingNotifier struct {
	mu    sync.Mutex
	props []map[string]string
}

func (n *recordingNotifier) Track(_ string, props map[string]string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.props = append(n.props, props)
}

func newTestServer(t *testing.T, lookup LookupService, pinger Pinger) http.Handler {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>app</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o644))

	return New(lookup, pinger, dir, zerolog.Nop()).Handler()
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestPlayerRoutes(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   string
	}{
		{
			name:   "encoded api route",
			target: "/api/v1/player/https%3A%2F%2Fsteamcommunity.com%2Fid%2Fsomeplayer",
			want:   "https://steamcommunity.com/id/someplayer",
		},
		{
			name:   "raw legacy route",
			target: "/player/https://steamcommunity.com/profiles/76561198000000000",
			want:   "https://steamcommunity.com/profiles/76561198000000000",
		},
		{
			name:   "encoded query survives",
			target: "/player/https%3A%2F%2Fsteamcommunity.com%2Fid%2Fx%3Fa%3D1",
			want:   "https://steamcommunity.com/id/x?a=1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookup := &fakeLookup{payload: `{"steam_id":"1"}`}
			h := newTestServer(t, lookup, fakePinger{})

			rec := serve(h, http.MethodGet, tt.target)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, `{"steam_id":"1"}`, rec.Body.String())
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Empty(t, rec.Header().Get("Cache-Control"))
			assert.Equal(t, []string{tt.want}, lookup.urls)
		})
	}
}

func TestPlayerRoute_ErrorStatus(t *testing.T) {
	tests := []struct {
		err     error
		want    int
		message string
	}{
		{fmt.Errorf("%w: bad", steam.ErrInvalidURL), http.StatusBadRequest, "invalid steam profile url"},
		{fmt.Errorf("%w: nobody", steam.ErrVanityResolutionFailed), http.StatusNotFound, "could not resolve steam profile"},
		{fmt.Errorf("%w: x", steam.ErrMalformedDirectURL), http.StatusNotFound, "could not resolve steam profile"},
		{fmt.Errorf("%w: down", player.ErrCacheUnavailable), http.StatusServiceUnavailable, "cache unavailable"},
		{fmt.Errorf("%w: NaN", player.ErrSerializationFailed), http.StatusInternalServerError, "internal error"},
		{errors.New("unexpected"), http.StatusInternalServerError, "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			h := newTestServer(t, &fakeLookup{err: tt.err}, fakePinger{})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/player/x", nil)
			req.Header.Set("X-Request-ID", "req-42")
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.message, body["error"])
			assert.Equal(t, "req-42", body["request_id"])
		})
	}
}

func TestPlayerRoute_UnreachableSteamKeepsKeyPrivate(t *testing.T) {
	const apiKey = "steam-secret-key"

	steamMock := testutil.NewMockUpstream()
	steamURL := steamMock.URL()
	steamMock.Close()

	api, err := client.New(client.DefaultConfig("steam", steamURL))
	require.NoError(t, err)
	resolver, err := steam.NewResolver(api, apiKey, zerolog.Nop())
	require.NoError(t, err)

	notifier := &recordingNotifier{}
	svc := player.NewService(missCache{}, resolver, notifier, player.Config{}, zerolog.Nop())
	h := newTestServer(t, svc, fakePinger{})

	rec := serve(h, http.MethodGet, "/api/v1/player/https:%2F%2Fsteamcommunity.com%2Fid%2Fsomeplayer")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotContains(t, rec.Body.String(), apiKey)

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	require.NotEmpty(t, notifier.props)
	for _, props := range notifier.props {
		for k, v := range props {
			assert.False(t, strings.Contains(v, apiKey), "tracked %s leaks key: %s", k, v)
		}
	}
}

func TestPlayerRoute_Empty(t *testing.T) {
	lookup := &fakeLookup{}
	h := newTestServer(t, lookup, fakePinger{})

	rec := serve(h, http.MethodGet, "/api/v1/player/")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, lookup.urls)
}

func TestPlayerRoute_MethodNotAllowed(t *testing.T) {
	h := newTestServer(t, &fakeLookup{}, fakePinger{})

	rec := serve(h, http.MethodPost, "/api/v1/player/x")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestOptions(t *testing.T) {
	h := newTestServer(t, &fakeLookup{}, fakePinger{})

	rec := serve(h, http.MethodOptions, "/anything/at/all")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/player/x", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_SimpleRequest(t *testing.T) {
	h := newTestServer(t, &fakeLookup{payload: "{}"}, fakePinger{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/player/x", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestStatic(t *testing.T) {
	h := newTestServer(t, &fakeLookup{}, fakePinger{})

	rec := serve(h, http.MethodGet, "/app.js")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "console.log(1)", rec.Body.String())
	assert.Equal(t, "public, max-age=31536000", rec.Header().Get("Cache-Control"))

	rec = serve(h, http.MethodGet, "/some/client/route")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<html>app</html>", rec.Body.String())

	rec = serve(h, http.MethodGet, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<html>app</html>", rec.Body.String())
}

func TestHealthAndReady(t *testing.T) {
	h := newTestServer(t, &fakeLookup{}, fakePinger{})

	rec := serve(h, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	assert.Empty(t, rec.Header().Get("Cache-Control"))

	rec = serve(h, http.MethodGet, "/ready")
	assert.Equal(t, http.StatusOK, rec.Code)

	h = newTestServer(t, &fakeLookup{}, fakePinger{err: errors.New("connection refused")})
	rec = serve(h, http.MethodGet, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestServer(t, &fakeLookup{}, fakePinger{})

	rec := serve(h, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestRequestID(t *testing.T) {
	h := newTestServer(t, &fakeLookup{}, fakePinger{})

	rec := serve(h, http.MethodGet, "/health")
	assert.Len(t, rec.Header().Get("X-Request-ID"), 36)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestRequestID_Context(t *testing.T) {
	var seen string
	h := RequestID(zerolog.Nop())(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "req-1", seen)
	assert.Empty(t, GetRequestID(context.Background()))
}
