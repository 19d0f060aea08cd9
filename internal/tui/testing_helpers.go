package tui

import (
	"context"
	"encoding/json"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/shopdemo/internal/config"
	"github.com/studiowebux/shopdemo/internal/types"
)

// fakeGateway serves canned pages without a network
type fakeGateway struct {
	products []types.Product
	users    []types.User
	payload  json.RawMessage
	err      error
}

func (g *fakeGateway) FetchProducts(ctx context.Context, limit, skip int) (*types.ProductPage, error) {
	if g.err != nil {
		return nil, g.err
	}
	return &types.ProductPage{Products: g.products, Total: len(g.products), Limit: limit}, nil
}

func (g *fakeGateway) FetchUsers(ctx context.Context, limit, skip int) (*types.UserPage, error) {
	if g.err != nil {
		return nil, g.err
	}
	return &types.UserPage{Users: g.users, Total: len(g.users), Limit: limit}, nil
}

func (g *fakeGateway) Probe(ctx context.Context) (json.RawMessage, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.payload, nil
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		products: []types.Product{
			{ID: 1, Title: "Essence Mascara Lash Princess", Price: 9.99, Stock: 5},
			{ID: 2, Title: "Eyeshadow Palette with Mirror", Price: 19.99, Stock: 44},
		},
		users: []types.User{
			{ID: 1, FirstName: "Emily", LastName: "Johnson", Gender: types.GenderFemale, Email: "emily.johnson@x.dummyjson.com"},
		},
		payload: json.RawMessage(`{"status":"ok","method":"GET"}`),
	}
}

// CreateTestModel creates a Model instance for testing with minimal dependencies
func CreateTestModel(t *testing.T, gw *fakeGateway) *Model {
	t.Helper()

	if gw == nil {
		gw = newFakeGateway()
	}

	m := New(Options{Gateway: gw, Settings: config.DefaultSettings()})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	t.Cleanup(m.Cleanup)

	return &m
}

// keyMsg builds the key message for a key name as the registry spells it
func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "home":
		return tea.KeyMsg{Type: tea.KeyHome}
	case "end":
		return tea.KeyMsg{Type: tea.KeyEnd}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
}

// press sends keys one by one and returns the last command
func press(m *Model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(keyMsg(k))
	}
	return cmd
}

// typeText sends each rune of s as a key press
func typeText(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// run executes a command and feeds its message back into the model
func run(t *testing.T, m *Model, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("Expected a command, got nil")
	}
	msg := cmd()
	m.Update(msg)
	return msg
}

// AssertModelField is a generic helper for checking model field values
func AssertModelField[T comparable](t *testing.T, fieldName string, got, want T) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %v, want %v", fieldName, got, want)
	}
}
