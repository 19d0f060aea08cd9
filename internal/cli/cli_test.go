package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studiowebux/shopdemo/internal/analytics"
	"github.com/studiowebux/shopdemo/internal/filter"
	"github.com/studiowebux/shopdemo/internal/mock"
	"github.com/studiowebux/shopdemo/internal/types"
	"gopkg.in/yaml.v3"
)

func newOrigin(t *testing.T, cfg *mock.Config) string {
	t.Helper()
	fixtures, err := mock.LoadFixtures()
	require.NoError(t, err)

	ts := httptest.NewServer(mock.NewServer(cfg, fixtures, nil).Handler())
	t.Cleanup(ts.Close)
	return ts.URL
}

func testOptions(t *testing.T, format string) (Options, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return Options{
		BaseURL:      newOrigin(t, mock.DefaultConfig()),
		Timeout:      time.Second,
		OutputFormat: format,
		Out:          &buf,
	}, &buf
}

func TestRunProducts_LocalCartJSON(t *testing.T) {
	opts, buf := testOptions(t, FormatJSON)

	err := RunProducts(context.Background(), opts, ProductsOptions{Cart: []int{1, 2, 2, 3, 1}}, 5)
	require.NoError(t, err)

	var report ProductReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	assert.Equal(t, types.SourceLocal, report.Source)
	assert.Equal(t, []int{3}, report.Cart, "toggling twice removes")
	assert.InDelta(t, 899.0, report.Total, 1e-9)
	require.Len(t, report.Products, 3)
	assert.True(t, report.Products[2].InCart)
	assert.Equal(t, "Samsung Galaxy S24", report.Products[2].Title)
}

func TestRunProducts_RemoteYAML(t *testing.T) {
	opts, buf := testOptions(t, FormatYAML)

	err := RunProducts(context.Background(), opts, ProductsOptions{Source: "remote", Cart: []int{1}}, 5)
	require.NoError(t, err)

	var report ProductReport
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &report))
	assert.Equal(t, types.SourceRemote, report.Source)
	assert.Len(t, report.Products, 5)
	assert.Equal(t, "Essence Mascara Lash Princess", report.Products[0].Title)
	assert.InDelta(t, 9.99, report.Total, 1e-9)
}

func TestRunProducts_Query(t *testing.T) {
	opts, buf := testOptions(t, "")
	opts.Query = "products[?inCart].title"

	err := RunProducts(context.Background(), opts, ProductsOptions{Cart: []int{2}}, 5)
	require.NoError(t, err)
	assert.JSONEq(t, `["MacBook Pro 14"]`, buf.String())
}

func TestRunProducts_Text(t *testing.T) {
	opts, buf := testOptions(t, FormatText)

	require.NoError(t, RunProducts(context.Background(), opts, ProductsOptions{Cart: []int{1}}, 5))
	assert.Contains(t, buf.String(), "Cart: 1 | Total: R$ 999.00")
	assert.Contains(t, buf.String(), "iPhone 15 Pro")
}

func TestRunProducts_BadSource(t *testing.T) {
	opts, _ := testOptions(t, FormatJSON)
	assert.Error(t, RunProducts(context.Background(), opts, ProductsOptions{Source: "cloud"}, 5))
}

func TestRunProducts_RemoteFailure(t *testing.T) {
	opts, _ := testOptions(t, FormatJSON)
	opts.BaseURL = "http://127.0.0.1:1"

	assert.Error(t, RunProducts(context.Background(), opts, ProductsOptions{Source: "remote"}, 5))
}

func TestRunUsers_FilterAndEdit(t *testing.T) {
	opts, buf := testOptions(t, FormatJSON)

	err := RunUsers(context.Background(), opts, UsersOptions{
		Gender: "female",
		Add:    "Ana, Lima, ana@x.com",
		Remove: 1,
	}, 6)
	require.NoError(t, err)

	var report UserReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	assert.Equal(t, 2, report.Total)
	require.Len(t, report.Visible, 1)
	assert.Equal(t, "Maria Santos", report.Visible[0].FullName())
}

func TestRunUsers_Search(t *testing.T) {
	opts, buf := testOptions(t, FormatJSON)
	opts.Query = "visible[].email"

	require.NoError(t, RunUsers(context.Background(), opts, UsersOptions{Search: "SILVA"}, 6))
	assert.JSONEq(t, `["joao.silva@email.com"]`, buf.String())
}

func TestRunUsers_RemoteRejectsEdits(t *testing.T) {
	opts, _ := testOptions(t, FormatJSON)

	err := RunUsers(context.Background(), opts, UsersOptions{Source: "remote", Add: "Ana,Lima,ana@x.com"}, 6)
	assert.Error(t, err)

	err = RunUsers(context.Background(), opts, UsersOptions{Source: "remote", Remove: 1}, 6)
	assert.Error(t, err)
}

func TestRunUsers_RemotePageSize(t *testing.T) {
	opts, buf := testOptions(t, FormatJSON)

	require.NoError(t, RunUsers(context.Background(), opts, UsersOptions{Source: "api"}, 6))

	var report UserReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	assert.Equal(t, 6, report.Total)
	assert.Equal(t, "all", report.Gender)
}

func TestRunTodos(t *testing.T) {
	opts, buf := testOptions(t, FormatJSON)

	require.NoError(t, RunTodos(context.Background(), opts, 3, 2))

	var page types.TodoPage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &page))
	require.Len(t, page.Todos, 3)
	assert.Equal(t, 3, page.Todos[0].ID)
}

func TestRunProbe(t *testing.T) {
	opts, buf := testOptions(t, FormatJSON)

	require.NoError(t, RunProbe(context.Background(), opts))

	var report ProbeReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	assert.Equal(t, "reachable", report.State)
	assert.Equal(t, "Connection established!", report.Label)
	assert.Equal(t, map[string]any{"status": "ok", "method": "GET"}, report.Payload)
}

func TestRunProbe_Unreachable(t *testing.T) {
	cfg := mock.DefaultConfig()
	cfg.FailProbe = true
	var buf bytes.Buffer
	opts := Options{BaseURL: newOrigin(t, cfg), Timeout: time.Second, OutputFormat: FormatText, Out: &buf}

	err := RunProbe(context.Background(), opts)
	assert.ErrorIs(t, err, ErrUnreachable)
	assert.Contains(t, buf.String(), "Connection failed")
}

func TestTakeSnapshot(t *testing.T) {
	opts, _ := testOptions(t, FormatJSON)

	snap, err := TakeSnapshot(context.Background(), opts.client(), PageSizes{Products: 5, Users: 6, Todos: 10})
	require.NoError(t, err)
	assert.Len(t, snap.Products.Products, 5)
	assert.Len(t, snap.Users.Users, 6)
	assert.Len(t, snap.Todos.Todos, 10)
}

func TestTakeSnapshot_FailureCancels(t *testing.T) {
	opts, _ := testOptions(t, FormatJSON)
	opts.BaseURL = "http://127.0.0.1:1"

	_, err := TakeSnapshot(context.Background(), opts.client(), PageSizes{Products: 5, Users: 6, Todos: 10})
	assert.Error(t, err)
}

func TestRunStats_RecordsCalls(t *testing.T) {
	mgr, err := analytics.NewManager(filepath.Join(t.TempDir(), "calls.db"), nil)
	require.NoError(t, err)
	defer mgr.Close()

	opts, buf := testOptions(t, FormatJSON)
	opts.Recorder = mgr
	require.NoError(t, RunTodos(context.Background(), opts, 1, 0))
	require.NoError(t, RunProbe(context.Background(), opts))

	buf.Reset()
	require.NoError(t, RunStats(opts, mgr, false))

	var stats []analytics.Stats
	require.NoError(t, json.Unmarshal(buf.Bytes(), &stats))
	assert.Len(t, stats, 2)

	buf.Reset()
	require.NoError(t, RunStats(opts, mgr, true))
	assert.Contains(t, buf.String(), "cleared")

	buf.Reset()
	opts.OutputFormat = FormatText
	require.NoError(t, RunStats(opts, mgr, false))
	assert.Contains(t, buf.String(), "No calls recorded")
}

func TestPickerToggles(t *testing.T) {
	items := []list.Item{
		item{product: types.Product{ID: 1, Title: "A"}},
		item{product: types.Product{ID: 2, Title: "B"}, inCart: true},
	}
	m := pickerModel{list: list.New(items, itemDelegate{}, 80, 14)}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = next.(pickerModel)
	assert.Equal(t, []int{1, 2}, m.selected())

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(pickerModel)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	m = next.(pickerModel)
	assert.Equal(t, []int{1}, m.selected())

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(pickerModel)
	assert.True(t, m.confirmed)
	assert.NotNil(t, cmd)
}

func TestParseDraft(t *testing.T) {
	first, last, email, err := ParseDraft(" Ana ,Lima, ana@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Ana", first)
	assert.Equal(t, "Lima", last)
	assert.Equal(t, "ana@x.com", email)

	_, _, _, err = ParseDraft("Ana,Lima")
	assert.Error(t, err)
}

func TestValidateFormat(t *testing.T) {
	for _, f := range []string{"", "text", "json", "yaml"} {
		assert.NoError(t, ValidateFormat(f))
	}
	assert.Error(t, ValidateFormat("xml"))
}

func TestRunKeybinds_ExportThenList(t *testing.T) {
	opts, buf := testOptions(t, FormatJSON)
	path := filepath.Join(t.TempDir(), "keybinds.json")

	require.NoError(t, RunKeybinds(opts, path, true))
	assert.Contains(t, buf.String(), "Wrote default keybindings")
	assert.Error(t, RunKeybinds(opts, path, true), "export must not overwrite")

	buf.Reset()
	require.NoError(t, RunKeybinds(opts, path, false))

	var rows []KeybindRow
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	assert.Contains(t, rows, KeybindRow{Context: "products", Key: "enter", Action: "toggle_cart"})
	assert.Contains(t, rows, KeybindRow{Context: "global", Key: "tab", Action: "next_panel"})
}

func TestRunKeybinds_Overrides(t *testing.T) {
	opts, buf := testOptions(t, FormatJSON)
	path := filepath.Join(t.TempDir(), "keybinds.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
  // move the cart toggle off enter
  "products": {"enter": "", "c": "toggle_cart"}
}`), 0644))

	require.NoError(t, RunKeybinds(opts, path, false))

	var rows []KeybindRow
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	assert.Contains(t, rows, KeybindRow{Context: "products", Key: "c", Action: "toggle_cart"})
	assert.NotContains(t, rows, KeybindRow{Context: "products", Key: "enter", Action: "toggle_cart"})
}

func TestRunKeybinds_UnknownAction(t *testing.T) {
	opts, _ := testOptions(t, FormatJSON)
	path := filepath.Join(t.TempDir(), "keybinds.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"global": {"x": "explode"}}`), 0644))

	assert.Error(t, RunKeybinds(opts, path, false))
}

func TestSavedQueries(t *testing.T) {
	store, err := filter.OpenSaved(filepath.Join(t.TempDir(), "shopdemo.db"))
	require.NoError(t, err)
	defer store.Close()

	opts, buf := testOptions(t, FormatText)

	require.NoError(t, RunSaveQuery(opts, store, "titles", "products[].title"))
	assert.Contains(t, buf.String(), "Saved @titles")

	buf.Reset()
	require.NoError(t, RunSaveQuery(opts, store, "titles", "products[?inCart].title"))
	assert.Contains(t, buf.String(), "Updated @titles")

	buf.Reset()
	require.NoError(t, RunQueries(opts, store, ""))
	assert.Contains(t, buf.String(), "products[?inCart].title")

	// a resolved query drives the product output
	expr, err := store.Resolve("@titles")
	require.NoError(t, err)
	opts.Query = expr
	buf.Reset()
	require.NoError(t, RunProducts(context.Background(), opts, ProductsOptions{Cart: []int{2}}, 5))

	var titles []string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &titles))
	assert.Equal(t, []string{"MacBook Pro 14"}, titles)

	opts.Query = ""
	require.NoError(t, RunDeleteQuery(opts, store, "titles"))
	assert.ErrorIs(t, RunDeleteQuery(opts, store, "titles"), filter.ErrNotSaved)
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestStreamRequests(t *testing.T) {
	fixtures, err := mock.LoadFixtures()
	require.NoError(t, err)
	server := mock.NewServer(mock.DefaultConfig(), fixtures, nil)
	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)

	ctx, cancel := context.WithCancel(context.Background())
	var out lockedBuffer
	done := make(chan int, 1)
	go func() { done <- streamRequests(ctx, &out, server) }()

	opts := Options{BaseURL: ts.URL, Timeout: time.Second, Out: &bytes.Buffer{}}
	require.NoError(t, RunTodos(context.Background(), opts, 3, 2))

	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "/todos?limit=3&skip=2")
	}, time.Second, 10*time.Millisecond)

	cancel()
	assert.Equal(t, 1, <-done)
	assert.Contains(t, out.String(), "GET")
	assert.Contains(t, out.String(), " 200 ")
}
