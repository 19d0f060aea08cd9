package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/studiowebux/shopdemo/internal/keybinds"
)

var keybindContexts = []keybinds.Context{
	keybinds.ContextGlobal,
	keybinds.ContextProducts,
	keybinds.ContextUsers,
	keybinds.ContextStatus,
	keybinds.ContextInput,
	keybinds.ContextForm,
	keybinds.ContextStats,
}

// KeybindRow is one binding of the effective key map
type KeybindRow struct {
	Context string `json:"context" yaml:"context"`
	Key     string `json:"key" yaml:"key"`
	Action  string `json:"action" yaml:"action"`
}

// RunKeybinds prints the effective key map (defaults plus the overrides at path) and
// fails when it does not validate. With export it writes the defaults to path instead.
func RunKeybinds(opts Options, path string, export bool) error {
	if export {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to check %s: %w", path, err)
		}
		if err := keybinds.SaveConfig(keybinds.ExportDefaults(), path); err != nil {
			return fmt.Errorf("failed to write keybindings: %w", err)
		}
		fmt.Fprintf(opts.out(), "Wrote default keybindings to %s\n", path)
		return nil
	}

	registry, err := keybinds.LoadOrDefault(path)
	if err != nil {
		return err
	}

	result := keybinds.NewValidator().ValidateRegistry(registry)
	if result.HasErrors() {
		return fmt.Errorf("invalid keybindings:\n%s", result.String())
	}
	for _, w := range result.Warnings {
		opts.logger().Warn("keybinding warning", "context", w.Context, "key", w.Key, "message", w.Message)
	}

	var rows []KeybindRow
	for _, ctx := range keybindContexts {
		for _, b := range registry.ListBindings(ctx) {
			if b.Context != ctx {
				continue
			}
			rows = append(rows, KeybindRow{Context: string(ctx), Key: b.Key, Action: string(b.Action)})
		}
	}

	return opts.render(rows, func(w io.Writer) {
		t := table.New().Headers("Context", "Key", "Action")
		for _, r := range rows {
			t.Row(r.Context, r.Key, r.Action)
		}
		fmt.Fprintln(w, t.Render())
	})
}
