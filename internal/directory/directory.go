// Package directory is the person controller: a user collection that can be
// sourced locally or remotely, with a search/gender derived view and local
// add/remove.
package directory

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/studiowebux/shopdemo/internal/source"
	"github.com/studiowebux/shopdemo/internal/types"
	"golang.org/x/text/cases"
)

// UserFetcher is the slice of the gateway the directory needs
type UserFetcher interface {
	FetchUsers(ctx context.Context, limit, skip int) (*types.UserPage, error)
}

// Draft is the input of AddUser
type Draft struct {
	FirstName string
	LastName  string
	Email     string
}

// Controller owns the person collection and the filter inputs of one view session
type Controller struct {
	*source.Collection[types.User]

	mu     sync.RWMutex
	search string
	gender string
}

// New creates a directory in local mode with an empty search and gender "all"
func New(fetcher UserFetcher, pageSize int, logger *slog.Logger) *Controller {
	load := func(ctx context.Context, limit int) ([]types.User, error) {
		page, err := fetcher.FetchUsers(ctx, limit, 0)
		if err != nil {
			return nil, err
		}
		return page.Users, nil
	}

	return &Controller{
		Collection: source.New("users", Sample, pageSize, load, logger),
		gender:     types.GenderAll,
	}
}

// ComputeVisible derives the visible list: a case-insensitive substring match of term
// against "first last" or email, ANDed with an exact gender match unless gender is
// "all" (or empty). It does not modify users.
func ComputeVisible(users []types.User, term, gender string) []types.User {
	fold := cases.Fold()
	needle := fold.String(term)
	anyGender := gender == "" || gender == types.GenderAll
	if needle == "" && anyGender {
		return slices.Clone(users)
	}

	visible := make([]types.User, 0, len(users))
	for _, u := range users {
		if needle != "" &&
			!strings.Contains(fold.String(u.FullName()), needle) &&
			!strings.Contains(fold.String(u.Email), needle) {
			continue
		}
		if !anyGender && string(u.Gender) != gender {
			continue
		}
		visible = append(visible, u)
	}
	return visible
}

// ApplyFilter stores both filter inputs and returns the recomputed visible list
func (c *Controller) ApplyFilter(term, gender string) []types.User {
	c.mu.Lock()
	c.search = term
	c.gender = gender
	c.mu.Unlock()
	return c.Visible()
}

// SetSearch updates the search term
func (c *Controller) SetSearch(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.search = term
}

// SetGender updates the gender filter
func (c *Controller) SetGender(gender string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gender = gender
}

// Filter returns the current search term and gender filter
func (c *Controller) Filter() (string, string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.search, c.gender
}

// Visible recomputes the derived list from the current collection and filter inputs
func (c *Controller) Visible() []types.User {
	term, gender := c.Filter()
	var visible []types.User
	c.View(func(users []types.User) {
		visible = ComputeVisible(users, term, gender)
	})
	return visible
}

// AddUser appends a record built from draft with placeholder defaults. It is a no-op
// when a required field is blank or the collection is remote. The id is the current
// count plus one and may collide after removals.
func (c *Controller) AddUser(d Draft) (types.User, bool) {
	first, last, email := d.FirstName, d.LastName, d.Email
	if first == "" || last == "" || email == "" {
		return types.User{}, false
	}

	var created types.User
	ok := c.Mutate(func(users []types.User) ([]types.User, bool) {
		created = types.User{
			ID:        len(users) + 1,
			FirstName: first,
			LastName:  last,
			Age:       DefaultAge,
			Gender:    types.GenderMale,
			Email:     email,
			Phone:     "",
			Username:  strings.ToLower(first),
			BirthDate: DefaultBirthDate,
			Image:     DefaultImage,
			Address:   DefaultAddress,
		}
		return append(users, created), true
	})
	if !ok {
		return types.User{}, false
	}
	return created, true
}

// RemoveUser removes every record with id. Reports whether anything was removed.
func (c *Controller) RemoveUser(id int) bool {
	return c.Mutate(func(users []types.User) ([]types.User, bool) {
		kept := slices.DeleteFunc(slices.Clone(users), func(u types.User) bool { return u.ID == id })
		return kept, len(kept) != len(users)
	})
}

// NextGender cycles the gender filter all -> male -> female -> all
func NextGender(gender string) string {
	switch gender {
	case types.GenderAll, "":
		return string(types.GenderMale)
	case string(types.GenderMale):
		return string(types.GenderFemale)
	default:
		return types.GenderAll
	}
}
