package filter

import (
	"errors"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *SavedStore {
	t.Helper()
	store, err := OpenSaved(filepath.Join(t.TempDir(), "nested", "shopdemo.db"))
	if err != nil {
		t.Fatalf("OpenSaved failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSavedStore_SaveAndResolve(t *testing.T) {
	store := openTestStore(t)

	created, err := store.Save("low", "products[?stock < `30`].title")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !created {
		t.Error("Expected new name to be created")
	}

	got, err := store.Resolve("@low")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != "products[?stock < `30`].title" {
		t.Errorf("Unexpected expression '%s'", got)
	}

	plain, err := store.Resolve("visible[].email")
	if err != nil || plain != "visible[].email" {
		t.Errorf("Expected plain expression unchanged, got '%s' (%v)", plain, err)
	}
}

func TestSavedStore_SaveReplaces(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.Save("emails", "users[].email"); err != nil {
		t.Fatal(err)
	}
	created, err := store.Save("emails", "visible[].email")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if created {
		t.Error("Expected existing name to be replaced, not created")
	}

	got, _ := store.Get("emails")
	if got != "visible[].email" {
		t.Errorf("Expected replaced expression, got '%s'", got)
	}

	all, err := store.List("")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Errorf("Expected 1 saved query, got %d", len(all))
	}
}

func TestSavedStore_Rejects(t *testing.T) {
	store := openTestStore(t)

	cases := []struct{ name, expression string }{
		{"", "total"},
		{"two words", "total"},
		{"empty", "  "},
		{"broken", "products[?"},
	}
	for _, tc := range cases {
		if _, err := store.Save(tc.name, tc.expression); err == nil {
			t.Errorf("Expected error for name '%s' expression '%s'", tc.name, tc.expression)
		}
	}
}

func TestSavedStore_ListAndDelete(t *testing.T) {
	store := openTestStore(t)

	for name, expr := range map[string]string{
		"titles": "products[].title",
		"emails": "visible[].email",
		"total":  "total",
	} {
		if _, err := store.Save(name, expr); err != nil {
			t.Fatal(err)
		}
	}

	all, err := store.List("")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 || all[0].Name != "emails" || all[2].Name != "total" {
		t.Errorf("Expected 3 queries sorted by name, got %+v", all)
	}

	matched, err := store.List("PRODUCTS")
	if err != nil {
		t.Fatal(err)
	}
	if len(matched) != 1 || matched[0].Name != "titles" {
		t.Errorf("Expected titles only, got %+v", matched)
	}

	if err := store.Delete("titles"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := store.Delete("titles"); !errors.Is(err, ErrNotSaved) {
		t.Errorf("Expected ErrNotSaved, got %v", err)
	}
	if _, err := store.Resolve("@titles"); !errors.Is(err, ErrNotSaved) {
		t.Errorf("Expected ErrNotSaved, got %v", err)
	}
}
