package mock

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studiowebux/shopdemo/internal/gateway"
	"github.com/studiowebux/shopdemo/internal/types"
)

func newTestOrigin(t *testing.T, cfg *Config) (*Server, *httptest.Server) {
	t.Helper()
	fixtures, err := LoadFixtures()
	require.NoError(t, err)

	s := NewServer(cfg, fixtures, nil)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func TestLoadFixtures(t *testing.T) {
	f, err := LoadFixtures()
	require.NoError(t, err)

	assert.Len(t, f.Products, 12)
	assert.Len(t, f.Users, 8)
	assert.Len(t, f.Todos, 12)
	assert.Equal(t, "Emily Johnson", f.Users[0].FullName())
}

func TestProductsPaging(t *testing.T) {
	_, ts := newTestOrigin(t, DefaultConfig())
	c := gateway.New(ts.URL, time.Second)

	page, err := c.FetchProducts(context.Background(), 5, 0)
	require.NoError(t, err)
	assert.Len(t, page.Products, 5)
	assert.Equal(t, 12, page.Total)
	assert.Equal(t, 1, page.Products[0].ID)

	page, err = c.FetchProducts(context.Background(), 5, 10)
	require.NoError(t, err)
	assert.Len(t, page.Products, 2)
	assert.Equal(t, 11, page.Products[0].ID)

	page, err = c.FetchProducts(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Len(t, page.Products, 12, "limit 0 returns everything")

	page, err = c.FetchProducts(context.Background(), 5, 50)
	require.NoError(t, err)
	assert.Empty(t, page.Products)
}

func TestUsersAndTodos(t *testing.T) {
	_, ts := newTestOrigin(t, DefaultConfig())
	c := gateway.New(ts.URL, time.Second)

	users, err := c.FetchUsers(context.Background(), 6, 0)
	require.NoError(t, err)
	assert.Len(t, users.Users, 6)
	assert.Equal(t, 8, users.Total)

	todos, err := c.FetchTodos(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Len(t, todos.Todos, 10)
}

func TestDefaultLimit(t *testing.T) {
	_, ts := newTestOrigin(t, DefaultConfig())

	resp, err := http.Get(ts.URL + "/todos")
	require.NoError(t, err)
	defer resp.Body.Close()

	var page types.TodoPage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	assert.Len(t, page.Todos, 12)
}

func TestInvalidPagingIsBadRequest(t *testing.T) {
	_, ts := newTestOrigin(t, DefaultConfig())

	for _, q := range []string{"limit=abc", "limit=-1", "skip=x", "skip=-3"} {
		resp, err := http.Get(ts.URL + "/products?" + q)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, q)
	}
}

func TestProbeEndpoint(t *testing.T) {
	_, ts := newTestOrigin(t, DefaultConfig())

	payload, err := gateway.New(ts.URL, time.Second).Probe(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok","method":"GET"}`, string(payload))
}

func TestFailProbe(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FailProbe = true
	_, ts := newTestOrigin(t, cfg)

	_, err := gateway.New(ts.URL, time.Second).Probe(context.Background())
	assert.ErrorIs(t, err, gateway.ErrTransport)
}

func TestDelayTriggersClientTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Delay = 500
	_, ts := newTestOrigin(t, cfg)

	_, err := gateway.New(ts.URL, 50*time.Millisecond).Probe(context.Background())
	assert.ErrorIs(t, err, gateway.ErrTransport)
}

func TestRequestLog(t *testing.T) {
	s, ts := newTestOrigin(t, DefaultConfig())
	c := gateway.New(ts.URL, time.Second)

	_, err := c.FetchUsers(context.Background(), 2, 1)
	require.NoError(t, err)

	select {
	case <-s.NotifyChannel():
	case <-time.After(time.Second):
		t.Fatal("expected a log notification")
	}

	logs := s.DrainLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, http.MethodGet, logs[0].Method)
	assert.Equal(t, "/users", logs[0].Path)
	assert.Equal(t, "limit=2&skip=1", logs[0].Query)
	assert.Equal(t, http.StatusOK, logs[0].Status)
	assert.NotEmpty(t, logs[0].RequestID)

	assert.Empty(t, s.DrainLogs())
}

func TestRequestLogBounded(t *testing.T) {
	s := NewServer(DefaultConfig(), &Fixtures{}, nil)
	for i := 0; i < maxLogs+10; i++ {
		s.logRequest(RequestLog{Status: i})
	}

	logs := s.DrainLogs()
	assert.Len(t, logs, maxLogs)
	assert.Equal(t, 10, logs[0].Status)
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	page, total := paginate(items, 2, 1)
	assert.Equal(t, []int{2, 3}, page)
	assert.Equal(t, 5, total)

	page, _ = paginate(items, 0, 3)
	assert.Equal(t, []int{4, 5}, page)

	page, _ = paginate(items, 2, 9)
	assert.Empty(t, page)

	page, _ = paginate(items, math.MaxInt, 2)
	assert.Equal(t, []int{3, 4, 5}, page)
}

func TestHugeLimitReturnsRemainder(t *testing.T) {
	_, ts := newTestOrigin(t, DefaultConfig())

	resp, err := http.Get(ts.URL + "/products?limit=" + strconv.Itoa(math.MaxInt) + "&skip=1")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page types.ProductPage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	assert.Len(t, page.Products, page.Total-1)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "mock.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("port: 9099\ndelay: 20\nfailProbe: true\n"), 0o644))
	cfg, err := LoadConfig(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, 9099, cfg.Port)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 20, cfg.Delay)
	assert.True(t, cfg.FailProbe)
	assert.True(t, cfg.Logging)

	jsonPath := filepath.Join(dir, "mock.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"port": 70000}`), 0o644))
	_, err = LoadConfig(jsonPath)
	assert.Error(t, err)

	txtPath := filepath.Join(dir, "mock.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("port: 1"), 0o644))
	_, err = LoadConfig(txtPath)
	assert.Error(t, err)
}

func TestGetAddress(t *testing.T) {
	s := NewServer(&Config{}, &Fixtures{}, nil)
	assert.Equal(t, "http://localhost:8080", s.GetAddress())
}
