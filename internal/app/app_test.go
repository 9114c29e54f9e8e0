package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athena-eo/observatory/internal/config"
)

const testAdminToken = "admin-token"

// fakeBackend stands in for the hosted backend; healthy controls whether it answers
type fakeBackend struct {
	*httptest.Server
	healthy  atomic.Bool
	cleanups atomic.Int32
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()

	fb := &fakeBackend{}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		fb.reply(w, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /blog", func(w http.ResponseWriter, r *http.Request) {
		fb.reply(w, []interface{}{})
	})
	mux.HandleFunc("POST /analytics/cleanup", func(w http.ResponseWriter, r *http.Request) {
		fb.cleanups.Add(1)
		fb.reply(w, map[string]int{"deleted": 0})
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"maintenance"}`))
	})

	fb.Server = httptest.NewServer(mux)
	t.Cleanup(fb.Close)
	return fb
}

func (fb *fakeBackend) reply(w http.ResponseWriter, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if !fb.healthy.Load() {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"maintenance"}`))
		return
	}
	_ = json.NewEncoder(w).Encode(body)
}

func testConfig(backendURL string) config.Config {
	return config.Config{
		Server: config.Server{Host: "127.0.0.1", Port: "0"},
		Backend: config.Backend{
			Driver:        config.DriverUpstream,
			BaseURL:       backendURL,
			Timeout:       2 * time.Second,
			HealthTimeout: time.Second,
		},
		Admin:     config.Admin{Token: testAdminToken},
		Analytics: config.Analytics{RetentionDays: 90, CleanupInterval: time.Hour},
		Site:      config.Site{Name: "Athena Election Observatory", ConsentWindow: 24 * time.Hour},
	}
}

func newTestApp(t *testing.T, cfg config.Config) *App {
	t.Helper()

	a, err := NewApp(context.Background(), cfg, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func serve(a *App, method, path string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, req)
	return rec
}

type readyBody struct {
	Status string        `json:"status"`
	Checks []CheckResult `json:"checks"`
}

func decodeReady(t *testing.T, rec *httptest.ResponseRecorder) readyBody {
	t.Helper()
	var body readyBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestAppServesFallbackWhenBackendIsDown(t *testing.T) {
	backend := newFakeBackend(t)
	a := newTestApp(t, testConfig(backend.URL))

	rec := serve(a, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(a, http.MethodGet, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "starting", decodeReady(t, rec).Status)

	require.Error(t, a.Check(context.Background()))

	rec = serve(a, http.MethodGet, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	ready := decodeReady(t, rec)
	assert.Equal(t, "degraded", ready.Status)
	require.Len(t, ready.Checks, 2)
	for _, c := range ready.Checks {
		assert.False(t, c.OK, c.Name)
		assert.NotEmpty(t, c.Error, c.Name)
	}

	rec = serve(a, http.MethodGet, "/api/v1/states")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"slug":"anambra"`)

	rec = serve(a, http.MethodGet, "/api/v1/blog")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(a, http.MethodGet, "/aeo/dashboard/anambra")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Anambra")
}

func TestAppReadyWithHealthyBackend(t *testing.T) {
	backend := newFakeBackend(t)
	backend.healthy.Store(true)
	a := newTestApp(t, testConfig(backend.URL))

	require.NoError(t, a.Check(context.Background()))

	rec := serve(a, http.MethodGet, "/readyz")
	require.Equal(t, http.StatusOK, rec.Code)
	ready := decodeReady(t, rec)
	assert.Equal(t, "ready", ready.Status)
	assert.Equal(t, "backend", ready.Checks[0].Name)
	assert.Equal(t, "blog", ready.Checks[1].Name)
}

func TestAppAdminRoutes(t *testing.T) {
	backend := newFakeBackend(t)
	a := newTestApp(t, testConfig(backend.URL))

	rec := serve(a, http.MethodGet, "/api/v1/admin/states")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(a, http.MethodGet, "/api/v1/admin/states", "Authorization", "Bearer "+testAdminToken)
	assert.Equal(t, http.StatusBadGateway, rec.Code, "admin reads surface backend errors")

	rec = serve(a, http.MethodPost, "/api/v1/admin/resources/upload", "Authorization", "Bearer "+testAdminToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAppDocs(t *testing.T) {
	backend := newFakeBackend(t)
	a := newTestApp(t, testConfig(backend.URL))

	rec := serve(a, http.MethodGet, "/docs/openapi.json")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, json.Valid(rec.Body.Bytes()))

	rec = serve(a, http.MethodGet, "/static/site.js")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAppRunStopsOnContextCancel(t *testing.T) {
	backend := newFakeBackend(t)
	backend.healthy.Store(true)

	cfg := testConfig(backend.URL)
	cfg.Analytics.CleanupEnabled = true
	a := newTestApp(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	assert.Eventually(t, func() bool { return backend.cleanups.Load() > 0 }, 2*time.Second, 10*time.Millisecond,
		"scheduler runs a cleanup on start")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestAppRunShutsDownWhenListenFails(t *testing.T) {
	backend := newFakeBackend(t)
	backend.healthy.Store(true)

	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = busy.Close() })
	_, port, err := net.SplitHostPort(busy.Addr().String())
	require.NoError(t, err)

	cfg := testConfig(backend.URL)
	cfg.Server.Port = port
	cfg.Analytics.CleanupEnabled = true

	var logs bytes.Buffer
	a, err := NewApp(context.Background(), cfg, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	require.NoError(t, err)
	t.Cleanup(a.Close)

	done := make(chan error, 1)
	go func() { done <- a.Run(context.Background()) }()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "server error")
	case <-time.After(15 * time.Second):
		t.Fatal("Run did not return after the listener failed")
	}

	assert.Contains(t, logs.String(), "analytics cleanup scheduler stopped")
	assert.Contains(t, logs.String(), "shutdown complete")
	checked, _ := a.readiness.Snapshot()
	assert.True(t, checked, "startup checks finish before Run returns")
}
