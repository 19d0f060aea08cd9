package filter

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/studiowebux/shopdemo/internal/migrations"
)

// SavedPrefix marks a --query value as the name of a saved expression
const SavedPrefix = "@"

// ErrNotSaved is returned when no expression is saved under a name
var ErrNotSaved = errors.New("saved query not found")

// Saved is a named JMESPath expression
type Saved struct {
	ID         int       `json:"id" yaml:"id"`
	Name       string    `json:"name" yaml:"name"`
	Expression string    `json:"expression" yaml:"expression"`
	CreatedAt  time.Time `json:"createdAt" yaml:"createdAt"`
}

// SavedStore persists named expressions next to the call log
type SavedStore struct {
	db *sql.DB
}

// OpenSaved opens the store in the SQLite database at dbPath
func OpenSaved(dbPath string) (*SavedStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SavedStore{db: db}, nil
}

// Save stores expression under name, replacing any previous one. It reports whether
// the name is new.
func (s *SavedStore) Save(name, expression string) (bool, error) {
	name = strings.TrimSpace(name)
	expression = strings.TrimSpace(expression)
	if name == "" || strings.ContainsAny(name, " \t") {
		return false, fmt.Errorf("invalid query name %q", name)
	}
	if expression == "" {
		return false, fmt.Errorf("expression cannot be empty")
	}
	if !IsValidJMESPath(expression) {
		return false, fmt.Errorf("invalid JMESPath expression '%s'", expression)
	}

	var exists bool
	err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM saved_queries WHERE name = ?)", name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check saved query: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO saved_queries (name, expression, created_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET expression = excluded.expression
	`, name, expression)
	if err != nil {
		return false, fmt.Errorf("failed to save query: %w", err)
	}

	return !exists, nil
}

// Get returns the expression saved under name
func (s *SavedStore) Get(name string) (string, error) {
	var expression string
	err := s.db.QueryRow("SELECT expression FROM saved_queries WHERE name = ?", name).Scan(&expression)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", ErrNotSaved, name)
	}
	if err != nil {
		return "", fmt.Errorf("failed to load saved query: %w", err)
	}
	return expression, nil
}

// Resolve expands "@name" to the saved expression; other values are returned as is
func (s *SavedStore) Resolve(query string) (string, error) {
	if !strings.HasPrefix(query, SavedPrefix) {
		return query, nil
	}
	return s.Get(strings.TrimPrefix(query, SavedPrefix))
}

// Delete removes the expression saved under name
func (s *SavedStore) Delete(name string) error {
	result, err := s.db.Exec("DELETE FROM saved_queries WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("failed to delete saved query: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrNotSaved, name)
	}

	return nil
}

// List returns saved expressions whose name or expression contains term
// (case-insensitive), sorted by name. An empty term lists everything.
func (s *SavedStore) List(term string) ([]Saved, error) {
	pattern := "%" + strings.TrimSpace(term) + "%"
	rows, err := s.db.Query(`
		SELECT id, name, expression, created_at
		FROM saved_queries
		WHERE name LIKE ? OR expression LIKE ?
		ORDER BY name
	`, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to query saved queries: %w", err)
	}
	defer rows.Close()

	saved := []Saved{}
	for rows.Next() {
		var q Saved
		if err := rows.Scan(&q.ID, &q.Name, &q.Expression, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan saved query: %w", err)
		}
		saved = append(saved, q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating saved queries: %w", err)
	}

	return saved, nil
}

// Close closes the database connection
func (s *SavedStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
