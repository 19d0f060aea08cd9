package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"
	"github.com/studiowebux/shopdemo/internal/directory"
	"github.com/studiowebux/shopdemo/internal/keybinds"
	"github.com/studiowebux/shopdemo/internal/types"
)

// handleKeyPress routes key presses based on current mode
func (m *Model) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	switch m.mode {
	case ModeJump:
		return m.handleJumpKeys(msg)
	case ModeSearch:
		return m.handleSearchKeys(msg)
	case ModeAddUser:
		return m.handleFormKeys(msg)
	case ModeStats:
		return m.handleStatsKeys(msg)
	default:
		return m.handleNormalKeys(msg)
	}
}

// handleNormalKeys handles keys while a panel is focused
func (m *Model) handleNormalKeys(msg tea.KeyMsg) tea.Cmd {
	action, ok := m.keybinds.Match(m.focus.context(), msg.String())
	if !ok {
		return nil
	}

	switch action {
	case keybinds.ActionQuit, keybinds.ActionQuitForce:
		m.Cleanup()
		return tea.Quit

	case keybinds.ActionNextPanel:
		m.focus = (m.focus + 1) % panelCount
	case keybinds.ActionPrevPanel:
		m.focus = (m.focus + panelCount - 1) % panelCount

	case keybinds.ActionHelp:
		m.showHelp = !m.showHelp
	case keybinds.ActionCopy:
		return m.copySummary()
	case keybinds.ActionShowStats:
		return m.openStats()

	case keybinds.ActionNavigateUp:
		m.moveSelection(-1)
	case keybinds.ActionNavigateDown:
		m.moveSelection(1)
	case keybinds.ActionGoToTop:
		m.moveSelection(-1 << 20)
	case keybinds.ActionGoToBottom:
		m.moveSelection(1 << 20)

	case keybinds.ActionSourceLocal:
		return m.switchSource(types.SourceLocal)
	case keybinds.ActionSourceRemote:
		return m.switchSource(types.SourceRemote)

	case keybinds.ActionToggleCart:
		m.toggleSelectedCart()
	case keybinds.ActionJump:
		return m.startJump()

	case keybinds.ActionSearch:
		return m.startSearch()
	case keybinds.ActionCycleGender:
		m.cycleGender()
	case keybinds.ActionAddUser:
		return m.startAddUser()
	case keybinds.ActionRemoveUser:
		m.removeSelectedUser()

	case keybinds.ActionProbe:
		return m.startProbe()
	}

	return nil
}

// moveSelection moves the cursor of the focused panel by delta, clamped
func (m *Model) moveSelection(delta int) {
	switch m.focus {
	case PanelProducts:
		m.productIndex = clamp(m.productIndex+delta, m.catalog.Len())
	case PanelUsers:
		m.userIndex = clamp(m.userIndex+delta, len(m.people.Visible()))
	case PanelStatus:
		switch {
		case delta <= -1<<20:
			m.payloadView.GotoTop()
		case delta >= 1<<20:
			m.payloadView.GotoBottom()
		case delta < 0:
			m.payloadView.LineUp(-delta)
		default:
			m.payloadView.LineDown(delta)
		}
	}
}

// handleJumpKeys handles the fuzzy product jump
func (m *Model) handleJumpKeys(msg tea.KeyMsg) tea.Cmd {
	if action, ok := m.keybinds.Match(keybinds.ContextInput, msg.String()); ok {
		switch action {
		case keybinds.ActionQuitForce:
			m.Cleanup()
			return tea.Quit
		case keybinds.ActionConfirm:
			m.endJump(true)
			return nil
		case keybinds.ActionCancel:
			m.endJump(false)
			return nil
		case keybinds.ActionNavigateUp:
			m.cycleJump(-1)
			return nil
		case keybinds.ActionNavigateDown:
			m.cycleJump(1)
			return nil
		}
	}

	var cmd tea.Cmd
	m.jumpInput, cmd = m.jumpInput.Update(msg)
	m.updateJumpMatches()
	return cmd
}

func (m *Model) startJump() tea.Cmd {
	m.mode = ModeJump
	m.jumpOrigin = m.productIndex
	m.jumpMatches = nil
	m.jumpCursor = 0
	m.jumpInput.SetValue("")
	return m.jumpInput.Focus()
}

// updateJumpMatches ranks product titles against the typed pattern and
// selects the best match
func (m *Model) updateJumpMatches() {
	pattern := m.jumpInput.Value()
	m.jumpMatches = nil
	m.jumpCursor = 0
	if pattern == "" {
		m.productIndex = m.jumpOrigin
		return
	}

	products := m.catalog.Items()
	titles := make([]string, len(products))
	for i, p := range products {
		titles[i] = p.Title
	}

	for _, match := range fuzzy.Find(pattern, titles) {
		m.jumpMatches = append(m.jumpMatches, match.Index)
	}
	if len(m.jumpMatches) > 0 {
		m.productIndex = m.jumpMatches[0]
	}
}

func (m *Model) cycleJump(delta int) {
	if len(m.jumpMatches) == 0 {
		return
	}
	m.jumpCursor = (m.jumpCursor + delta + len(m.jumpMatches)) % len(m.jumpMatches)
	m.productIndex = m.jumpMatches[m.jumpCursor]
}

func (m *Model) endJump(keep bool) {
	if !keep {
		m.productIndex = m.jumpOrigin
	}
	m.jumpInput.Blur()
	m.jumpMatches = nil
	m.mode = ModeNormal
	m.clampSelection()
}

// handleSearchKeys edits the user search term; the list recomputes per keystroke
func (m *Model) handleSearchKeys(msg tea.KeyMsg) tea.Cmd {
	if action, ok := m.keybinds.Match(keybinds.ContextInput, msg.String()); ok {
		switch action {
		case keybinds.ActionQuitForce:
			m.Cleanup()
			return tea.Quit
		case keybinds.ActionConfirm:
			m.endSearch(true)
			return nil
		case keybinds.ActionCancel:
			m.endSearch(false)
			return nil
		}
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.people.SetSearch(m.searchInput.Value())
	m.userIndex = 0
	return cmd
}

func (m *Model) startSearch() tea.Cmd {
	term, _ := m.people.Filter()
	m.mode = ModeSearch
	m.searchOrigin = term
	m.searchInput.SetValue(term)
	m.searchInput.CursorEnd()
	return m.searchInput.Focus()
}

func (m *Model) endSearch(keep bool) {
	if !keep {
		m.people.SetSearch(m.searchOrigin)
		m.searchInput.SetValue(m.searchOrigin)
	}
	m.searchInput.Blur()
	m.mode = ModeNormal
	m.clampSelection()
}

func (m *Model) cycleGender() {
	_, gender := m.people.Filter()
	next := directory.NextGender(gender)
	m.people.SetGender(next)
	m.clampSelection()
	m.setStatus("Gender filter: " + next)
}

// handleFormKeys handles the add-user form
func (m *Model) handleFormKeys(msg tea.KeyMsg) tea.Cmd {
	if action, ok := m.keybinds.Match(keybinds.ContextForm, msg.String()); ok {
		switch action {
		case keybinds.ActionQuitForce:
			m.Cleanup()
			return tea.Quit
		case keybinds.ActionConfirm:
			m.submitAddUser()
			return nil
		case keybinds.ActionCancel:
			m.closeForm()
			m.setStatus("Add user cancelled")
			return nil
		case keybinds.ActionNextField:
			return m.focusField(m.formFocus + 1)
		case keybinds.ActionPrevField:
			return m.focusField(m.formFocus - 1)
		}
	}

	var cmd tea.Cmd
	m.formInputs[m.formFocus], cmd = m.formInputs[m.formFocus].Update(msg)
	return cmd
}

func (m *Model) focusField(index int) tea.Cmd {
	m.formInputs[m.formFocus].Blur()
	m.formFocus = (index + fieldCount) % fieldCount
	return m.formInputs[m.formFocus].Focus()
}

func (m *Model) closeForm() {
	for i := range m.formInputs {
		m.formInputs[i].Blur()
		m.formInputs[i].SetValue("")
	}
	m.formFocus = 0
	m.mode = ModeNormal
}

// handleStatsKeys handles the call log overlay
func (m *Model) handleStatsKeys(msg tea.KeyMsg) tea.Cmd {
	action, ok := m.keybinds.Match(keybinds.ContextStats, msg.String())
	if !ok {
		return nil
	}

	switch action {
	case keybinds.ActionQuitForce:
		m.Cleanup()
		return tea.Quit
	case keybinds.ActionCancel:
		m.mode = ModeNormal
	case keybinds.ActionNavigateUp:
		m.statsState.Move(-1)
	case keybinds.ActionNavigateDown:
		m.statsState.Move(1)
	case keybinds.ActionClearStats:
		return m.clearStats()
	}
	return nil
}
