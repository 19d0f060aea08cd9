package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/studiowebux/shopdemo/internal/types"
)

var (
	titleStyle        = lipgloss.NewStyle().MarginLeft(2).Bold(true)
	itemStyle         = lipgloss.NewStyle().PaddingLeft(4)
	selectedItemStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("170"))
	helpStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1).MarginLeft(2)
)

type item struct {
	product types.Product
	inCart  bool
}

func (i item) FilterValue() string {
	return i.product.Title + " " + i.product.Brand
}

func (i item) Title() string {
	box := "[ ]"
	if i.inCart {
		box = "[x]"
	}
	return fmt.Sprintf("%s %s  R$ %.2f", box, i.product.Title, i.product.Price)
}

func (i item) Description() string { return "" }

type pickerModel struct {
	list      list.Model
	confirmed bool
	quitting  bool
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		return m, nil

	case tea.KeyMsg:
		// Let the list own the keyboard while its filter is being typed
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			m.confirmed = true
			m.quitting = true
			return m, tea.Quit

		case " ", "x":
			idx := m.list.GlobalIndex()
			if i, ok := m.list.SelectedItem().(item); ok {
				i.inCart = !i.inCart
				return m, m.list.SetItem(idx, i)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m pickerModel) View() string {
	if m.quitting {
		return ""
	}

	help := helpStyle.Render("↑/↓: navigate • space: toggle cart • /: filter • enter: done • q/ctrl+c: cancel")
	return fmt.Sprintf("%s\n\n%s", m.list.View(), help)
}

// selected returns the ids marked in the picker, in list order
func (m pickerModel) selected() []int {
	var ids []int
	for _, li := range m.list.Items() {
		if i, ok := li.(item); ok && i.inCart {
			ids = append(ids, i.product.ID)
		}
	}
	return ids
}

// pickProducts shows an interactive list to choose the cart contents
func pickProducts(products []types.Product, cart []int) ([]int, error) {
	inCart := make(map[int]bool, len(cart))
	for _, id := range cart {
		inCart[id] = true
	}

	items := make([]list.Item, 0, len(products))
	for _, p := range products {
		items = append(items, item{product: p, inCart: inCart[p.ID]})
	}

	const defaultWidth = 80
	const listHeight = 14

	l := list.New(items, itemDelegate{}, defaultWidth, listHeight)
	l.Title = "Select products for the cart"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle

	p := tea.NewProgram(pickerModel{list: l})
	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("error running picker: %w", err)
	}

	result := finalModel.(pickerModel)
	if !result.confirmed {
		return nil, fmt.Errorf("selection cancelled")
	}

	return result.selected(), nil
}

// itemDelegate is a custom list item delegate
type itemDelegate struct{}

func (d itemDelegate) Height() int                             { return 1 }
func (d itemDelegate) Spacing() int                            { return 0 }
func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(item)
	if !ok {
		return
	}

	str := fmt.Sprintf("%d. %s", index+1, i.Title())

	fn := itemStyle.Render
	if index == m.Index() {
		fn = func(s ...string) string {
			return selectedItemStyle.Render("> " + strings.Join(s, " "))
		}
	}

	fmt.Fprint(w, fn(str))
}
