package tui

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/shopdemo/internal/analytics"
	"github.com/studiowebux/shopdemo/internal/catalog"
	"github.com/studiowebux/shopdemo/internal/config"
	"github.com/studiowebux/shopdemo/internal/directory"
	"github.com/studiowebux/shopdemo/internal/keybinds"
	"github.com/studiowebux/shopdemo/internal/logging"
	"github.com/studiowebux/shopdemo/internal/probe"
)

// Gateway is the slice of the remote gateway the view needs
type Gateway interface {
	catalog.ProductFetcher
	directory.UserFetcher
	probe.Prober
}

// Options configure a view session
type Options struct {
	Gateway   Gateway
	Settings  config.Settings
	Logger    *slog.Logger
	Keybinds  *keybinds.Registry // defaults when nil
	Analytics *analytics.Manager // nil when the call log is disabled
}

// New creates a new TUI model with both collections on their local samples
func New(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	registry := opts.Keybinds
	if registry == nil {
		registry = keybinds.NewDefaultRegistry()
	}

	ctx, cancel := context.WithCancel(context.Background())

	m := Model{
		ctx:         ctx,
		cancel:      cancel,
		catalog:     catalog.New(opts.Gateway, opts.Settings.ProductPageSize, logger),
		people:      directory.New(opts.Gateway, opts.Settings.UserPageSize, logger),
		prober:      opts.Gateway,
		statsState:  NewStatsState(opts.Analytics),
		keybinds:    registry,
		logger:      logger,
		mode:        ModeNormal,
		focus:       PanelProducts,
		jumpInput:   newInput("title", 64),
		searchInput: newInput("name or email", 64),
		payloadView: viewport.New(80, StatusPanelHeight-2),
	}

	m.probe = probe.New(logger, func(from, to probe.State) {
		logger.Debug("probe transition", "from", from.String(), "to", to.String())
	})

	m.formInputs = make([]textinput.Model, fieldCount)
	m.formInputs[fieldFirstName] = newInput("First name", 40)
	m.formInputs[fieldLastName] = newInput("Last name", 40)
	m.formInputs[fieldEmail] = newInput("Email", 80)

	m.setStatus("Press ? for keys")
	return m
}

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Prompt = ""
	return ti
}

// Run starts the TUI
func Run(opts Options) error {
	m := New(opts)
	defer m.Cleanup()

	// Pass pointer since Update uses pointer receiver
	p := tea.NewProgram(&m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}

	return nil
}
