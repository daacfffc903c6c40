package api

import (
	"encoding/json/v2"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sacredrosary/rosary-server/internal/catalog"
	"github.com/sacredrosary/rosary-server/internal/service"
	"github.com/sacredrosary/rosary-server/internal/store/sqlstore"
	"github.com/sacredrosary/rosary-server/internal/validation"
)

const (
	alice = "8a1f7c2e-5d3b-4b9a-9e61-2f4c8d0a7b13"
	bob   = "1c0e5f9a-3b7d-4e21-8f6a-9d2b4c7e0a55"
)

type testServer struct {
	*Server
	api      humatest.TestAPI
	audioDir string
}

// setupTestServer creates a server over a temporary SQLite store and the
// built-in catalog.
func setupTestServer(t *testing.T, opts Options) *testServer {
	t.Helper()

	dir := t.TempDir()
	st, err := sqlstore.OpenSQLite(filepath.Join(dir, "rosary.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	v := validation.New()
	services := &Services{
		Prayers:       service.NewPrayerService(st, v, nil),
		Intentions:    service.NewIntentionService(st, v, nil),
		CustomPrayers: service.NewCustomPrayerService(st, v, nil),
		Profiles:      service.NewProfileService(st, v, nil),
	}

	songs := catalog.Default()
	index, err := catalog.NewIndex(songs)
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	audioDir := filepath.Join(dir, "audio")
	require.NoError(t, os.MkdirAll(audioDir, 0o750))
	if opts.AudioDir == "" {
		opts.AudioDir = audioDir
	}

	s := NewServer(st, services, &Songs{Catalog: songs, Index: index}, opts, nil)
	t.Cleanup(s.Close)

	return &testServer{Server: s, api: humatest.Wrap(t, s.api), audioDir: audioDir}
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &v), resp.Body.String())
	return v
}

type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details"`
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t, Options{Version: "1.2.3"})

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	health := decode[HealthResponse](t, resp)
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "1.2.3", health.Version)
	assert.Equal(t, "healthy", health.Components["database"].Status)
	assert.Equal(t, "healthy", health.Components["catalog"].Status)
}

func TestHealthCheck_DatabaseDown(t *testing.T) {
	ts := setupTestServer(t, Options{})
	require.NoError(t, ts.store.Close())

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "unhealthy", decode[HealthResponse](t, resp).Status)
}

func TestRequestIDHeader(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Get("/health")
	assert.Regexp(t, `^req-[A-Za-z0-9_-]{21}$`, resp.Header().Get(requestIDHeader))

	resp = ts.api.Get("/health", requestIDHeader+": client-supplied")
	assert.Equal(t, "client-supplied", resp.Header().Get(requestIDHeader))
}

func TestUnknownRoute(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Get("/api/rosaries")
	require.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "NOT_FOUND", decode[errorBody](t, resp).Code)
}

func TestRateLimit(t *testing.T) {
	ts := setupTestServer(t, Options{RateLimitRPS: 0.001, RateBurst: 2})

	for range 2 {
		resp := ts.api.Get("/api/songs")
		require.Equal(t, http.StatusOK, resp.Code)
	}

	resp := ts.api.Get("/api/songs")
	require.Equal(t, http.StatusTooManyRequests, resp.Code)
	assert.Equal(t, "RATE_LIMITED", decode[errorBody](t, resp).Code)
	assert.Equal(t, "1", resp.Header().Get("Retry-After"))

	// Health checks are not limited.
	assert.Equal(t, http.StatusOK, ts.api.Get("/health").Code)
}

func TestCORS(t *testing.T) {
	ts := setupTestServer(t, Options{CORSOrigins: []string{"https://rosary.example"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/songs", nil)
	req.Header.Set("Origin", "https://rosary.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	ts.ServeHTTP(w, req)

	assert.Equal(t, "https://rosary.example", w.Header().Get("Access-Control-Allow-Origin"))
}
