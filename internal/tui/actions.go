package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/shopdemo/internal/analytics"
	"github.com/studiowebux/shopdemo/internal/catalog"
	"github.com/studiowebux/shopdemo/internal/directory"
	"github.com/studiowebux/shopdemo/internal/probe"
	"github.com/studiowebux/shopdemo/internal/source"
	"github.com/studiowebux/shopdemo/internal/types"
)

// clipboardWrite is swapped in tests
var clipboardWrite = clipboard.WriteAll

// switchSource switches the focused panel's collection. Local applies at once;
// remote returns the fetch command. A second remote switch is refused while the
// first is in flight, but switching back to local always wins.
func (m *Model) switchSource(mode types.SourceMode) tea.Cmd {
	switch m.focus {
	case PanelProducts:
		if mode == types.SourceRemote && m.catalog.Busy() {
			m.setStatus("Products are already loading")
			return nil
		}
		m.productAnchor = m.selectedProductID()
		ticket, remote := m.catalog.SetSourceMode(mode)
		m.followProduct()
		if !remote {
			m.setStatus("Products: local sample")
			return nil
		}
		m.setStatus("Products: loading from remote...")
		return fetchProductsCmd(m.ctx, m.catalog, ticket)

	case PanelUsers:
		if mode == types.SourceRemote && m.people.Busy() {
			m.setStatus("Users are already loading")
			return nil
		}
		ticket, remote := m.people.SetSourceMode(mode)
		m.userIndex = 0
		if !remote {
			m.setStatus("Users: local sample")
			return nil
		}
		m.setStatus("Users: loading from remote...")
		return fetchUsersCmd(m.ctx, m.people, ticket)
	}
	return nil
}

func fetchProductsCmd(ctx context.Context, c *catalog.Controller, t source.Ticket) tea.Cmd {
	return func() tea.Msg {
		return productsLoadedMsg{ticket: t, err: c.Fetch(ctx, t)}
	}
}

func fetchUsersCmd(ctx context.Context, c *directory.Controller, t source.Ticket) tea.Cmd {
	return func() tea.Msg {
		return usersLoadedMsg{ticket: t, err: c.Fetch(ctx, t)}
	}
}

// selectedProductID returns the id under the cursor, or 0 for an empty list
func (m *Model) selectedProductID() int {
	products := m.catalog.Items()
	if len(products) == 0 {
		return 0
	}
	return products[clamp(m.productIndex, len(products))].ID
}

// toggleSelectedCart toggles cart membership of the product under the cursor
func (m *Model) toggleSelectedCart() {
	products := m.catalog.Items()
	if len(products) == 0 {
		return
	}
	p := products[clamp(m.productIndex, len(products))]
	if m.catalog.ToggleCart(p.ID) {
		m.setStatus(fmt.Sprintf("Added %s to cart", p.Title))
	} else {
		m.setStatus(fmt.Sprintf("Removed %s from cart", p.Title))
	}
}

// startAddUser opens the form; remote collections are read-only
func (m *Model) startAddUser() tea.Cmd {
	if m.people.Mode() != types.SourceLocal {
		m.setError("Users from the remote source are read-only")
		return nil
	}
	m.mode = ModeAddUser
	m.formFocus = 0
	return m.formInputs[fieldFirstName].Focus()
}

// submitAddUser appends the form's user; the form stays open when a field is missing
func (m *Model) submitAddUser() {
	draft := directory.Draft{
		FirstName: m.formInputs[fieldFirstName].Value(),
		LastName:  m.formInputs[fieldLastName].Value(),
		Email:     m.formInputs[fieldEmail].Value(),
	}

	u, ok := m.people.AddUser(draft)
	if !ok {
		if m.people.Mode() != types.SourceLocal {
			m.closeForm()
			m.setError("Users from the remote source are read-only")
			return
		}
		m.setError("First name, last name and email are required")
		return
	}

	m.closeForm()
	m.clampSelection()
	m.setStatus(fmt.Sprintf("Added user #%d %s", u.ID, u.FullName()))
}

// removeSelectedUser removes the visible user under the cursor
func (m *Model) removeSelectedUser() {
	visible := m.people.Visible()
	if len(visible) == 0 {
		return
	}
	u := visible[clamp(m.userIndex, len(visible))]
	if !m.people.RemoveUser(u.ID) {
		m.setError("Users from the remote source are read-only")
		return
	}
	m.clampSelection()
	m.setStatus(fmt.Sprintf("Removed user #%d %s", u.ID, u.FullName()))
}

// startProbe triggers the connectivity probe unless one is running
func (m *Model) startProbe() tea.Cmd {
	if !m.probe.Begin() {
		m.setStatus("Probe already running")
		return nil
	}
	m.setStatus(probe.Probing.Label())
	return probeCmd(m.ctx, m.prober)
}

func probeCmd(ctx context.Context, p probe.Prober) tea.Cmd {
	return func() tea.Msg {
		payload, err := p.Probe(ctx)
		return probeDoneMsg{payload: payload, err: err}
	}
}

// summary describes the focused panel as plain text
func (m *Model) summary() (string, string) {
	var sb strings.Builder

	switch m.focus {
	case PanelProducts:
		fmt.Fprintf(&sb, "Cart: %s, total R$ %.2f\n", pluralize(m.catalog.CartSize(), "item"), m.catalog.Total())
		for _, p := range m.catalog.InCartProducts() {
			fmt.Fprintf(&sb, "- %s (R$ %.2f)\n", p.Title, p.Price)
		}
		return "Cart", sb.String()

	case PanelUsers:
		for _, u := range m.people.Visible() {
			fmt.Fprintf(&sb, "%s <%s>\n", u.FullName(), u.Email)
		}
		return "User list", sb.String()

	default:
		state := m.probe.State()
		fmt.Fprintf(&sb, "%s\n", state.Label())
		if payload := m.probe.Payload(); len(payload) > 0 {
			sb.Write(payload)
			sb.WriteString("\n")
		}
		return "API status", sb.String()
	}
}

// copySummary copies the focused panel's summary to the clipboard
func (m *Model) copySummary() tea.Cmd {
	what, text := m.summary()
	return func() tea.Msg {
		return clipboardMsg{what: what, err: clipboardWrite(text)}
	}
}

// openStats shows the call log overlay
func (m *Model) openStats() tea.Cmd {
	mgr := m.statsState.GetManager()
	if mgr == nil {
		m.setError("Call log disabled (set analytics: true in config)")
		return nil
	}
	m.mode = ModeStats
	m.statsState.SetIndex(0)
	return loadStatsCmd(mgr)
}

func loadStatsCmd(mgr *analytics.Manager) tea.Cmd {
	return func() tea.Msg {
		stats, err := mgr.Stats()
		return statsLoadedMsg{stats: stats, err: err}
	}
}

func (m *Model) clearStats() tea.Cmd {
	mgr := m.statsState.GetManager()
	if mgr == nil {
		return nil
	}
	if err := mgr.Clear(); err != nil {
		m.setError("Failed to clear call log: " + err.Error())
		return nil
	}
	m.setStatus("Call log cleared")
	return loadStatsCmd(mgr)
}

// updateViewport sizes the payload viewport to the status panel
func (m *Model) updateViewport() {
	m.payloadView.Width = max(10, m.width-PanelBorderWidth-2)
	m.payloadView.Height = StatusPanelHeight - 2
	m.updatePayloadView()
}

// updatePayloadView renders the last probe payload into the viewport
func (m *Model) updatePayloadView() {
	payload := m.probe.Payload()
	if len(payload) == 0 {
		m.payloadView.SetContent(styleSubtle.Render("No payload yet"))
		return
	}
	m.payloadView.SetContent(highlightJSON(payload))
}
