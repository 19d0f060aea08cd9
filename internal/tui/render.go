package tui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/studiowebux/shopdemo/internal/catalog"
	"github.com/studiowebux/shopdemo/internal/keybinds"
	"github.com/studiowebux/shopdemo/internal/probe"
	"github.com/studiowebux/shopdemo/internal/types"
)

// Adaptive color definitions for light/dark terminal support
var (
	colorGreen  = lipgloss.AdaptiveColor{Light: "#006400", Dark: "#00ff00"}
	colorRed    = lipgloss.AdaptiveColor{Light: "#8b0000", Dark: "#ff0000"}
	colorYellow = lipgloss.AdaptiveColor{Light: "#b8860b", Dark: "#ffff00"}
	colorGray   = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "#008b8b", Dark: "#00ffff"}
)

// Style definitions
var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	styleSelected = lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#d3d3d3", Dark: "#3a3a3a"}).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"})

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorGreen)

	styleError = lipgloss.NewStyle().
			Foreground(colorRed)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorYellow)

	styleSubtle = lipgloss.NewStyle().
			Foreground(colorGray)
)

// renderMain renders products and users side by side with the status panel below
func (m *Model) renderMain() string {
	leftWidth := max(MinPanelWidth, (m.width-2*PanelBorderWidth)/2)
	rightWidth := max(MinPanelWidth, m.width-2*PanelBorderWidth-leftWidth)
	if m.width < 2*(MinPanelWidth+PanelBorderWidth) {
		leftWidth = max(10, m.width-PanelBorderWidth)
		rightWidth = leftWidth
	}

	topHeight := max(PanelHeaderLines+3, m.height-StatusPanelHeight-StatusBarHeight-2*PanelBorderWidth)

	products := m.panelBox(PanelProducts, leftWidth, topHeight, m.renderProducts(leftWidth, topHeight))
	users := m.panelBox(PanelUsers, rightWidth, topHeight, m.renderUsers(rightWidth, topHeight))

	var top string
	if m.width < 2*(MinPanelWidth+PanelBorderWidth) {
		top = lipgloss.JoinVertical(lipgloss.Left, products, users)
	} else {
		top = lipgloss.JoinHorizontal(lipgloss.Top, products, users)
	}

	statusWidth := max(10, m.width-PanelBorderWidth)
	status := m.panelBox(PanelStatus, statusWidth, StatusPanelHeight, m.renderStatusPanel())

	return lipgloss.JoinVertical(lipgloss.Left, top, status, m.renderStatusBar())
}

// panelBox draws a bordered panel; the focused one is highlighted
func (m *Model) panelBox(p Panel, width, height int, content string) string {
	border := colorGray
	if m.focus == p {
		border = colorGreen
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(width).
		Height(height).
		MaxHeight(height + PanelBorderWidth).
		Render(content)
}

func (m *Model) renderProducts(width, height int) string {
	var sb strings.Builder

	sb.WriteString(styleTitle.Render("Products"))
	sb.WriteString(styleSubtle.Render(fmt.Sprintf("  [%s]", m.catalog.Mode())))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Cart: %s | Total: R$ %.2f\n", pluralize(m.catalog.CartSize(), "item"), m.catalog.Total()))

	if m.mode == ModeJump {
		sb.WriteString(styleWarning.Render("Jump: ") + m.jumpInput.View())
		if m.jumpInput.Value() != "" && len(m.jumpMatches) == 0 {
			sb.WriteString(styleSubtle.Render("  no match"))
		}
		sb.WriteString("\n")
	}

	if m.catalog.Busy() {
		sb.WriteString(styleWarning.Render("Loading products...") + "\n")
	}

	products := m.catalog.Items()
	if len(products) == 0 {
		sb.WriteString(styleSubtle.Render("No products"))
		return sb.String()
	}

	rows := height - PanelHeaderLines - 1
	start, end := window(m.productIndex, len(products), rows)
	for i := start; i < end; i++ {
		line := m.productLine(products[i], width)
		if i == m.productIndex && m.focus == PanelProducts {
			line = styleSelected.Render(line)
		}
		sb.WriteString(line + "\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

func (m *Model) productLine(p types.Product, width int) string {
	box := "[ ]"
	if m.catalog.InCart(p.ID) {
		box = styleSuccess.Render("[x]")
	}

	stock := styleSuccess.Render(fmt.Sprintf("stock %d", p.Stock))
	if catalog.LowStock(p) {
		stock = styleWarning.Render(fmt.Sprintf("stock %d", p.Stock))
	}

	line := fmt.Sprintf("%s %s R$ %.2f %s ★%.1f %s/%s -%.1f%%",
		box, p.Title, p.Price, stock, p.Rating, p.Category, p.Brand, p.DiscountPercentage)
	return lipgloss.NewStyle().MaxWidth(width).Render(line)
}

func (m *Model) renderUsers(width, height int) string {
	var sb strings.Builder

	term, gender := m.people.Filter()
	visible := m.people.Visible()

	sb.WriteString(styleTitle.Render("Users"))
	sb.WriteString(styleSubtle.Render(fmt.Sprintf("  [%s]", m.people.Mode())))
	sb.WriteString("\n")

	if m.mode == ModeSearch {
		sb.WriteString(styleWarning.Render("Search: ") + m.searchInput.View())
	} else {
		sb.WriteString(fmt.Sprintf("Search: %q", term))
	}
	sb.WriteString(fmt.Sprintf(" | Gender: %s | %d of %d\n", gender, len(visible), m.people.Len()))

	if m.mode == ModeAddUser {
		sb.WriteString(m.renderForm())
		return sb.String()
	}

	if m.people.Busy() {
		sb.WriteString(styleWarning.Render("Loading users...") + "\n")
	}

	if len(visible) == 0 {
		sb.WriteString(styleSubtle.Render("No users match"))
		return sb.String()
	}

	rows := height - PanelHeaderLines - 1
	start, end := window(m.userIndex, len(visible), rows)
	for i := start; i < end; i++ {
		u := visible[i]
		line := fmt.Sprintf("#%d %s (%s, %d) %s %s/%s",
			u.ID, u.FullName(), u.Gender, u.Age, u.Email, u.Address.City, u.Address.State)
		line = lipgloss.NewStyle().MaxWidth(width).Render(line)
		if i == m.userIndex && m.focus == PanelUsers {
			line = styleSelected.Render(line)
		}
		sb.WriteString(line + "\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

func (m *Model) renderForm() string {
	labels := [fieldCount]string{"First name", "Last name", "Email"}

	var sb strings.Builder
	sb.WriteString("\n" + styleTitle.Render("New user") + "\n")
	for i, label := range labels {
		marker := "  "
		if i == m.formFocus {
			marker = "> "
		}
		sb.WriteString(fmt.Sprintf("%s%-11s %s\n", marker, label+":", m.formInputs[i].View()))
	}
	sb.WriteString(styleSubtle.Render(fmt.Sprintf("\n%s: next field | %s: add | %s: cancel",
		m.keybinds.GetBindingString(keybinds.ContextForm, keybinds.ActionNextField),
		m.keybinds.GetBindingString(keybinds.ContextForm, keybinds.ActionConfirm),
		m.keybinds.GetBindingString(keybinds.ContextForm, keybinds.ActionCancel))))
	return sb.String()
}

func (m *Model) renderStatusPanel() string {
	state := m.probe.State()

	badge := styleSubtle.Render("[" + state.Badge() + "]")
	switch state {
	case probe.Reachable:
		badge = styleSuccess.Render("[" + state.Badge() + "]")
	case probe.Unreachable:
		badge = styleError.Render("[" + state.Badge() + "]")
	case probe.Probing:
		badge = styleWarning.Render("[" + state.Badge() + "]")
	}

	header := fmt.Sprintf("%s %s %s", styleTitle.Render("API Status"), badge, state.Label())
	if state == probe.Idle {
		header += styleSubtle.Render(" (press " + m.keybinds.GetBindingString(keybinds.ContextStatus, keybinds.ActionProbe) + ")")
	}

	return header + "\n" + m.payloadView.View()
}

// renderStatusBar renders the status line and the key help line
func (m *Model) renderStatusBar() string {
	var status string
	switch {
	case m.errorMsg != "":
		status = styleError.Render(m.errorMsg)
	default:
		status = m.statusMsg
	}

	help := fmt.Sprintf("%s: focus | %s: help | %s: quit",
		m.keybinds.GetBindingString(keybinds.ContextGlobal, keybinds.ActionNextPanel),
		m.keybinds.GetBindingString(keybinds.ContextGlobal, keybinds.ActionHelp),
		m.keybinds.GetBindingString(keybinds.ContextGlobal, keybinds.ActionQuit))
	if m.showHelp {
		help = m.panelHelp()
	}

	return status + "\n" + styleSubtle.Render(help)
}

// panelHelp lists the bindings of the focused panel
func (m *Model) panelHelp() string {
	ctx := m.focus.context()
	var actions []keybinds.Action
	switch m.focus {
	case PanelProducts:
		actions = []keybinds.Action{keybinds.ActionSourceLocal, keybinds.ActionSourceRemote, keybinds.ActionToggleCart, keybinds.ActionJump}
	case PanelUsers:
		actions = []keybinds.Action{keybinds.ActionSourceLocal, keybinds.ActionSourceRemote, keybinds.ActionSearch, keybinds.ActionCycleGender, keybinds.ActionAddUser, keybinds.ActionRemoveUser}
	default:
		actions = []keybinds.Action{keybinds.ActionProbe}
	}
	actions = append(actions, keybinds.ActionCopy, keybinds.ActionShowStats)

	parts := make([]string, 0, len(actions))
	for _, a := range actions {
		parts = append(parts, fmt.Sprintf("%s: %s", m.keybinds.GetBindingString(ctx, a), strings.ReplaceAll(string(a), "_", " ")))
	}
	return strings.Join(parts, " | ")
}

// window returns the visible [start, end) slice bounds keeping index in view
func window(index, length, rows int) (int, int) {
	if rows <= 0 || length <= rows {
		return 0, length
	}
	start := index - rows/2
	if start < 0 {
		start = 0
	}
	if start+rows > length {
		start = length - rows
	}
	return start, start + rows
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// highlightJSON pretty-prints and colors a JSON payload for the terminal
func highlightJSON(raw json.RawMessage) string {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		return string(raw)
	}

	var out strings.Builder
	if err := quick.Highlight(&out, pretty.String(), "json", "terminal256", "monokai"); err != nil {
		return pretty.String()
	}
	return out.String()
}
