package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lysyi3m/rss-snap/app/feed"
	"github.com/lysyi3m/rss-snap/app/snapshot"
)

type fakeRunner struct {
	store  *snapshot.Store
	result *feed.Feed
	err    error
	calls  int
}

func (r *fakeRunner) Run(ctx context.Context) (*feed.Feed, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	if err := r.store.Write(r.result); err != nil {
		return nil, err
	}
	return r.result, nil
}

func sampleFeed() *feed.Feed {
	return &feed.Feed{
		Title:     "Sample",
		Link:      "https://example.com/",
		Items:     []feed.Item{{Title: "a", GUID: "a"}, {Title: "b", GUID: "b"}},
		FetchedAt: time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC),
		Source:    "https://example.com/rss.xml",
	}
}

func setupServer(t *testing.T, apiKey string, runnerErr error) (*gin.Engine, *snapshot.Store, *fakeRunner) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := snapshot.NewStore(filepath.Join(t.TempDir(), "feed.json"))
	runner := &fakeRunner{store: store, result: sampleFeed(), err: runnerErr}
	server := NewServer(NewHandler(store, runner, "test"), apiKey)
	return server, store, runner
}

func perform(server http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	return w
}

func TestGetFeed(t *testing.T) {
	server, store, _ := setupServer(t, "", nil)

	w := perform(server, http.MethodGet, "/feed.json", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	require.NoError(t, store.Write(sampleFeed()))

	w = perform(server, http.MethodGet, "/feed.json", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-Feed-Items"))
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	var got feed.Feed
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, *sampleFeed(), got)
}

func TestHealth(t *testing.T) {
	server, store, _ := setupServer(t, "", nil)

	w := perform(server, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), `"snapshot"`)

	require.NoError(t, store.Write(sampleFeed()))

	w = perform(server, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Version  string `json:"version"`
		Snapshot struct {
			Items  int    `json:"items"`
			Source string `json:"source"`
		} `json:"snapshot"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "test", body.Version)
	assert.Equal(t, 2, body.Snapshot.Items)
	assert.Equal(t, "https://example.com/rss.xml", body.Snapshot.Source)
}

func TestRefreshDisabledWithoutKey(t *testing.T) {
	server, _, runner := setupServer(t, "", nil)

	w := perform(server, http.MethodPost, "/api/refresh", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Zero(t, runner.calls)
}

func TestRefreshAuth(t *testing.T) {
	server, _, runner := setupServer(t, "secret", nil)

	tests := []struct {
		name    string
		headers map[string]string
		want    int
	}{
		{"missing key", nil, http.StatusUnauthorized},
		{"wrong key", map[string]string{"X-API-Key": "nope"}, http.StatusUnauthorized},
		{"header key", map[string]string{"X-API-Key": "secret"}, http.StatusOK},
		{"bearer key", map[string]string{"Authorization": "Bearer secret"}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := perform(server, http.MethodPost, "/api/refresh", tt.headers)
			assert.Equal(t, tt.want, w.Code)
		})
	}

	assert.Equal(t, 2, runner.calls)
}

func TestRefreshWritesSnapshot(t *testing.T) {
	server, store, _ := setupServer(t, "secret", nil)

	w := perform(server, http.MethodPost, "/api/refresh", map[string]string{"X-API-Key": "secret"})
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool `json:"success"`
		Items   int  `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, 2, body.Items)

	stored, err := store.Read()
	require.NoError(t, err)
	assert.Equal(t, "Sample", stored.Title)
}

func TestRefreshErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"format error", &feed.FormatError{Reason: "missing rss.channel"}, http.StatusUnprocessableEntity},
		{"fetch error", errors.New("failed to fetch feed: HTTP error: 500"), http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _, _ := setupServer(t, "secret", tt.err)
			w := perform(server, http.MethodPost, "/api/refresh", map[string]string{"X-API-Key": "secret"})
			assert.Equal(t, tt.want, w.Code)
			assert.Contains(t, w.Body.String(), tt.err.Error())
		})
	}
}

func TestRootAndOptions(t *testing.T) {
	server, _, _ := setupServer(t, "", nil)

	w := perform(server, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/feed.json")

	w = perform(server, http.MethodOptions, "/feed.json", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRefreshFailureIsLogged(t *testing.T) {
	var logs bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, nil)))
	t.Cleanup(func() { slog.SetDefault(previous) })

	server, _, _ := setupServer(t, "secret", errors.New("failed to fetch feed: HTTP error: 500"))
	w := perform(server, http.MethodPost, "/api/refresh", map[string]string{"X-API-Key": "secret"})
	require.Equal(t, http.StatusBadGateway, w.Code)

	assert.Equal(t, 1, strings.Count(logs.String(), "HTTP error: 500"))
}
