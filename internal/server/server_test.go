package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/job-match/internal/config"
	"github.com/jonathan/job-match/internal/ranking"
	"github.com/jonathan/job-match/internal/schemas"
	"github.com/jonathan/job-match/internal/server/ratelimit"
	"github.com/jonathan/job-match/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEmployerEmail = "hr@example.com"

// fakeStore is an in-memory ProfileStore. Its list methods page by ID like
// the Postgres store does.
type fakeStore struct {
	candidates map[string]types.Candidate
	jobs       map[string]types.Job
	saved      map[string][]types.MatchResult
	history    map[string][]types.StoredMatch
	listCalls  int
	saveErr    error
	historyErr error
	pingErr    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		candidates: make(map[string]types.Candidate),
		jobs:       make(map[string]types.Job),
		saved:      make(map[string][]types.MatchResult),
		history:    make(map[string][]types.StoredMatch),
	}
}

// pageByKey returns up to limit values whose keys sort after the cursor.
func pageByKey[T any](rows map[string]T, after string, limit int) []T {
	keys := make([]string, 0, len(rows))
	for k := range rows {
		if k > after {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	if len(keys) > limit {
		keys = keys[:limit]
	}

	out := make([]T, 0, len(keys))
	for _, k := range keys {
		out = append(out, rows[k])
	}
	return out
}

func (f *fakeStore) GetCandidate(_ context.Context, id string) (*types.Candidate, error) {
	c, ok := f.candidates[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (f *fakeStore) ListCandidates(_ context.Context, after string, limit int) ([]types.Candidate, error) {
	f.listCalls++
	return pageByKey(f.candidates, after, limit), nil
}

func (f *fakeStore) GetJob(_ context.Context, jobID string) (*types.Job, error) {
	j, ok := f.jobs[jobID]
	if !ok {
		return nil, nil
	}
	return &j, nil
}

func (f *fakeStore) ListOpenJobs(_ context.Context, after string, limit int) ([]types.Job, error) {
	f.listCalls++
	return pageByKey(f.jobs, after, limit), nil
}

func (f *fakeStore) SaveMatchResults(_ context.Context, candidateID string, results []types.MatchResult) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved[candidateID] = results
	return nil
}

func (f *fakeStore) ListMatchResults(_ context.Context, candidateID string) ([]types.StoredMatch, error) {
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	matches, ok := f.history[candidateID]
	if !ok {
		return []types.StoredMatch{}, nil
	}
	return matches, nil
}

func (f *fakeStore) Ping(_ context.Context) error {
	return f.pingErr
}

type testServer struct {
	*Server
	store *fakeStore
	jwt   *config.JWTConfig
}

type testOption func(*Config)

func newTestServer(t *testing.T, opts ...testOption) *testServer {
	t.Helper()

	store := newFakeStore()
	jwtCfg := &config.JWTConfig{Secret: "test-secret", ExpirationHours: 1}
	cfg := Config{
		Ranker:         ranking.NewRanker(ranking.WithWorkers(4)),
		Store:          store,
		Schemas:        schemas.NewRegistry(filepath.Join("..", "..", "schemas")),
		RateLimit:      &ratelimit.Config{Enabled: false},
		JWT:            jwtCfg,
		EmployerEmails: []string{testEmployerEmail},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	s, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(s.rateLimiter.Stop)

	return &testServer{Server: s, store: store, jwt: jwtCfg}
}

func (ts *testServer) do(t *testing.T, method, path string, body string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	ts.Handler().ServeHTTP(w, req)
	return w
}

func (ts *testServer) bearer(t *testing.T, email string) http.Header {
	t.Helper()
	token, err := NewJWTService(ts.jwt).GenerateToken(uuid.New(), email)
	require.NoError(t, err)
	return http.Header{"Authorization": []string{"Bearer " + token}}
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), "body: %s", w.Body.String())
	return v
}

func TestNew_RequiresRanker(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[map[string]string](t, w)
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, "ok", resp["store"])

	ts.store.pingErr = errors.New("connection refused")
	resp = decode[map[string]string](t, ts.do(t, http.MethodGet, "/health", "", nil))
	assert.Equal(t, "degraded", resp["status"])
}

func TestHealthEndpoint_NoStore(t *testing.T) {
	ts := newTestServer(t, func(c *Config) { c.Store = nil })

	resp := decode[map[string]string](t, ts.do(t, http.MethodGet, "/health", "", nil))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, "disabled", resp["store"])
}

func TestCORS_Preflight(t *testing.T) {
	ts := newTestServer(t, func(c *Config) { c.CORSOrigin = "https://app.example.com" })

	w := ts.do(t, http.MethodOptions, "/api/match/candidate-to-jobs", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestRateLimit_Returns429(t *testing.T) {
	ts := newTestServer(t, func(c *Config) {
		c.RateLimit = &ratelimit.Config{
			Enabled:       true,
			DefaultLimit:  100,
			DefaultWindow: time.Minute,
			EndpointConfigs: []ratelimit.EndpointConfig{
				{Path: "/api/match/engine/weights", Method: "GET", Limit: 1, Window: time.Hour, Burst: 1},
			},
		}
	})

	first := ts.do(t, http.MethodGet, "/api/match/engine/weights", "", nil)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))

	second := ts.do(t, http.MethodGet, "/api/match/engine/weights", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
	resp := decode[map[string]any](t, second)
	assert.Equal(t, "rate_limit_exceeded", resp["error"])
}
