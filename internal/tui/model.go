package tui

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/studiowebux/shopdemo/internal/analytics"
	"github.com/studiowebux/shopdemo/internal/catalog"
	"github.com/studiowebux/shopdemo/internal/directory"
	"github.com/studiowebux/shopdemo/internal/keybinds"
	"github.com/studiowebux/shopdemo/internal/probe"
	"github.com/studiowebux/shopdemo/internal/source"
)

// Panel identifies one of the three panels
type Panel int

const (
	PanelProducts Panel = iota
	PanelUsers
	PanelStatus
)

const panelCount = 3

func (p Panel) String() string {
	switch p {
	case PanelProducts:
		return "Products"
	case PanelUsers:
		return "Users"
	default:
		return "API Status"
	}
}

// context returns the keybinding context of the panel
func (p Panel) context() keybinds.Context {
	switch p {
	case PanelProducts:
		return keybinds.ContextProducts
	case PanelUsers:
		return keybinds.ContextUsers
	default:
		return keybinds.ContextStatus
	}
}

// Mode represents the current input mode
type Mode int

const (
	ModeNormal  Mode = iota
	ModeJump         // fuzzy jump to a product title
	ModeSearch       // editing the user search term
	ModeAddUser      // add-user form
	ModeStats        // call log overlay
)

// Form field indices
const (
	fieldFirstName = iota
	fieldLastName
	fieldEmail
	fieldCount
)

// Model represents the TUI state
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	// Controllers
	catalog    *catalog.Controller
	people     *directory.Controller
	probe      *probe.Widget
	prober     probe.Prober
	statsState *StatsState
	keybinds   *keybinds.Registry
	logger     *slog.Logger

	mode  Mode
	focus Panel

	// Selection
	productIndex  int
	userIndex     int
	productAnchor int // product id the cursor follows across a source switch

	// Fuzzy jump
	jumpInput   textinput.Model
	jumpMatches []int // product indices, best match first
	jumpCursor  int
	jumpOrigin  int // restored when the jump is cancelled

	// User search
	searchInput  textinput.Model
	searchOrigin string // restored when the search is cancelled

	// Add-user form
	formInputs []textinput.Model
	formFocus  int

	payloadView viewport.Model

	// UI state
	width     int
	height    int
	statusMsg string
	errorMsg  string
	showHelp  bool
}

// Messages produced by commands

type productsLoadedMsg struct {
	ticket source.Ticket
	err    error
}

type usersLoadedMsg struct {
	ticket source.Ticket
	err    error
}

type probeDoneMsg struct {
	payload json.RawMessage
	err     error
}

type clipboardMsg struct {
	what string
	err  error
}

type statsLoadedMsg struct {
	stats []analytics.Stats
	err   error
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateViewport()

	case productsLoadedMsg:
		// A newer switch owns the collection now
		if !m.catalog.Current(msg.ticket) {
			return m, nil
		}
		// Failures are logged by the collection; the previous list stays on screen
		if msg.err != nil {
			m.statusMsg = ""
		} else {
			m.followProduct()
			m.setStatus(pluralize(m.catalog.Len(), "product") + " loaded from remote")
		}
		m.clampSelection()

	case usersLoadedMsg:
		if !m.people.Current(msg.ticket) {
			return m, nil
		}
		if msg.err != nil {
			m.statusMsg = ""
		} else {
			m.setStatus(pluralize(m.people.Len(), "user") + " loaded from remote")
		}
		m.clampSelection()

	case probeDoneMsg:
		m.probe.Complete(msg.payload, msg.err)
		// The offline badge is the only failure signal
		if msg.err != nil {
			m.statusMsg = ""
		} else {
			m.setStatus("Connection established")
		}
		m.updatePayloadView()

	case clipboardMsg:
		if msg.err != nil {
			m.setError("Failed to copy to clipboard: " + msg.err.Error())
		} else {
			m.setStatus(msg.what + " copied to clipboard")
		}

	case statsLoadedMsg:
		if msg.err != nil {
			m.setError("Failed to load call log: " + msg.err.Error())
			m.mode = ModeNormal
			return m, nil
		}
		m.statsState.SetStats(msg.stats)

	default:
		return m, m.updateInputs(msg)
	}

	return m, nil
}

// View renders the model
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.mode == ModeStats {
		return m.renderStats()
	}
	return m.renderMain()
}

// Cleanup cancels in-flight requests
func (m *Model) Cleanup() {
	if m.cancel != nil {
		m.cancel()
	}
}

// updateInputs forwards non-key messages (cursor blink) to the active input
func (m *Model) updateInputs(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.mode {
	case ModeJump:
		m.jumpInput, cmd = m.jumpInput.Update(msg)
	case ModeSearch:
		m.searchInput, cmd = m.searchInput.Update(msg)
	case ModeAddUser:
		m.formInputs[m.formFocus], cmd = m.formInputs[m.formFocus].Update(msg)
	}
	return cmd
}

func (m *Model) setStatus(msg string) {
	m.errorMsg = ""
	m.statusMsg = truncate(msg, MaxStatusLength)
}

func (m *Model) setError(msg string) {
	m.logger.Debug("status error", "message", msg)
	m.statusMsg = ""
	m.errorMsg = truncate(msg, MaxStatusLength)
}

// followProduct moves the cursor to the anchored product, or to the top when the
// current list does not carry it
func (m *Model) followProduct() {
	m.productIndex = max(m.catalog.IndexOf(m.productAnchor), 0)
}

// clampSelection keeps both cursors inside their lists
func (m *Model) clampSelection() {
	m.productIndex = clamp(m.productIndex, m.catalog.Len())
	m.userIndex = clamp(m.userIndex, len(m.people.Visible()))
}

func clamp(index, length int) int {
	if length == 0 || index < 0 {
		return 0
	}
	if index >= length {
		return length - 1
	}
	return index
}

func truncate(s string, max int) string {
	return ansi.Truncate(s, max, "...")
}
