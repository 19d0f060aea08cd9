package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/studiowebux/shopdemo/internal/gateway"
	"github.com/studiowebux/shopdemo/internal/keybinds"
)

// renderStats renders the call log overlay: operations on the left, details on the right
func (m *Model) renderStats() string {
	modalWidth := max(20, m.width-ModalWidthMargin)
	modalHeight := max(6, m.height-ModalHeightMargin)
	listWidth := modalWidth / 3

	stats := m.statsState.GetStats()
	index := m.statsState.GetIndex()

	var list strings.Builder
	list.WriteString(styleTitle.Render("Operations") + "\n\n")
	if len(stats) == 0 {
		list.WriteString(styleSubtle.Render("No calls recorded"))
	}
	for i, s := range stats {
		line := fmt.Sprintf("%-10s %4d", s.Operation, s.TotalCalls)
		if i == index {
			line = styleSelected.Render(line)
		}
		list.WriteString(line + "\n")
	}

	var detail strings.Builder
	if stat := m.statsState.GetCurrentStats(); stat != nil {
		detail.WriteString(styleTitle.Render(stat.Operation) + "\n\n")

		detail.WriteString(styleTitle.Render("Summary") + "\n")
		detail.WriteString(fmt.Sprintf("  Calls:          %d\n", stat.TotalCalls))
		detail.WriteString(fmt.Sprintf("  Succeeded:      %s\n", styleSuccess.Render(fmt.Sprint(stat.SuccessCount))))
		detail.WriteString(fmt.Sprintf("  Failed:         %s\n", styleError.Render(fmt.Sprint(stat.ErrorCount))))
		detail.WriteString(fmt.Sprintf("  Network errors: %s\n\n", styleWarning.Render(fmt.Sprint(stat.NetworkErrors))))

		detail.WriteString(styleTitle.Render("Timing") + "\n")
		detail.WriteString(fmt.Sprintf("  Avg: %s  Min: %s  Max: %s\n\n",
			gateway.FormatDuration(int64(stat.AvgDurationMs)),
			gateway.FormatDuration(stat.MinDurationMs),
			gateway.FormatDuration(stat.MaxDurationMs)))

		detail.WriteString(styleTitle.Render("Data Transfer") + "\n")
		detail.WriteString(fmt.Sprintf("  Total: %d bytes\n\n", stat.TotalRespSize))

		detail.WriteString(styleTitle.Render("Last Called") + "\n")
		detail.WriteString("  " + stat.LastCalled.Format("2006-01-02 15:04:05") + "\n")
	}

	left := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorCyan).
		Width(listWidth).
		Height(modalHeight - 4).
		Render(list.String())

	right := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorGray).
		Width(modalWidth - listWidth - 4).
		Height(modalHeight - 4).
		Render(detail.String())

	footer := styleSubtle.Render(fmt.Sprintf("↑/↓: Nav | %s: Clear | %s: Close",
		m.keybinds.GetBindingString(keybinds.ContextStats, keybinds.ActionClearStats),
		m.keybinds.GetBindingString(keybinds.ContextStats, keybinds.ActionCancel)))

	return lipgloss.JoinVertical(lipgloss.Left,
		styleTitle.Render("Call Log"),
		lipgloss.JoinHorizontal(lipgloss.Top, left, right),
		footer,
		m.renderStatusBar(),
	)
}
