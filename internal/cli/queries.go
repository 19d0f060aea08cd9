package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/studiowebux/shopdemo/internal/filter"
)

// RunQueries lists saved --query expressions matching term
func RunQueries(opts Options, store *filter.SavedStore, term string) error {
	saved, err := store.List(term)
	if err != nil {
		return err
	}

	return opts.render(saved, func(w io.Writer) {
		if len(saved) == 0 {
			fmt.Fprintln(w, "No saved queries")
			return
		}
		t := table.New().Headers("Name", "Expression", "Saved")
		for _, q := range saved {
			t.Row(q.Name, q.Expression, q.CreatedAt.Format("2006-01-02 15:04"))
		}
		fmt.Fprintln(w, t.Render())
	})
}

// RunSaveQuery stores an expression usable as --query @name
func RunSaveQuery(opts Options, store *filter.SavedStore, name, expression string) error {
	created, err := store.Save(name, expression)
	if err != nil {
		return err
	}

	verb := "Updated"
	if created {
		verb = "Saved"
	}
	fmt.Fprintf(opts.out(), "%s %s%s\n", verb, filter.SavedPrefix, name)
	return nil
}

// RunDeleteQuery removes a saved expression
func RunDeleteQuery(opts Options, store *filter.SavedStore, name string) error {
	if err := store.Delete(name); err != nil {
		return err
	}
	fmt.Fprintf(opts.out(), "Deleted %s%s\n", filter.SavedPrefix, name)
	return nil
}
