package analytics

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/studiowebux/shopdemo/internal/config"
	"github.com/studiowebux/shopdemo/internal/gateway"
	"github.com/studiowebux/shopdemo/internal/logging"
	"github.com/studiowebux/shopdemo/internal/migrations"
)

const timestampLayout = "2006-01-02 15:04:05"

// statsTTL bounds how long aggregated stats are served from memory
const statsTTL = 5 * time.Second

type Entry struct {
	ID           int64
	Operation    string
	URL          string
	StatusCode   int // 0 when no response was received
	ResponseSize int64
	DurationMs   int64
	RequestID    string
	ErrorMessage string
	Timestamp    time.Time
}

type Stats struct {
	Operation     string
	TotalCalls    int
	SuccessCount  int
	ErrorCount    int // non-2xx or undecodable responses
	NetworkErrors int // no response at all (status 0)
	AvgDurationMs float64
	MinDurationMs int64
	MaxDurationMs int64
	TotalRespSize int64
	LastCalled    time.Time
}

// Manager is the SQLite call log. It implements gateway.Recorder.
type Manager struct {
	db     *sql.DB
	cache  *statsCache
	logger *slog.Logger
}

func NewManager(dbPath string, logger *slog.Logger) (*Manager, error) {
	if logger == nil {
		logger = logging.Discard()
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, config.DirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create analytics directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open analytics database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to analytics database: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Manager{db: db, cache: newStatsCache(statsTTL), logger: logger}, nil
}

func (m *Manager) Close() error {
	return m.db.Close()
}

// Record saves a finished gateway call. Failures are logged, never returned, so the
// call log cannot affect the caller.
func (m *Manager) Record(call gateway.Call) {
	entry := Entry{
		Operation:    call.Operation,
		URL:          call.URL,
		ResponseSize: int64(call.ResponseSize),
		DurationMs:   call.Duration.Milliseconds(),
		RequestID:    call.RequestID,
		Timestamp:    time.Now(),
	}

	var te *gateway.TransportError
	switch {
	case call.Err == nil:
		entry.StatusCode = call.Status
	case errors.As(call.Err, &te):
		entry.StatusCode = te.Status
		entry.ErrorMessage = call.Err.Error()
	default:
		entry.StatusCode = call.Status
		entry.ErrorMessage = call.Err.Error()
	}

	if err := m.Save(entry); err != nil {
		m.logger.Warn("failed to record gateway call", "op", call.Operation, "error", err)
	}
}

func (m *Manager) Save(entry Entry) error {
	query := `
		INSERT INTO gateway_calls (operation, url, status_code, response_size, duration_ms, request_id, error_message, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	// Format timestamp for SQLite in local time (YYYY-MM-DD HH:MM:SS)
	timestampStr := entry.Timestamp.Local().Format(timestampLayout)

	var errMsg sql.NullString
	if entry.ErrorMessage != "" {
		errMsg = sql.NullString{String: entry.ErrorMessage, Valid: true}
	}

	_, err := m.db.Exec(query,
		entry.Operation,
		entry.URL,
		entry.StatusCode,
		entry.ResponseSize,
		entry.DurationMs,
		entry.RequestID,
		errMsg,
		timestampStr,
	)
	if err != nil {
		return fmt.Errorf("failed to save analytics entry: %w", err)
	}

	m.cache.invalidate()
	return nil
}

// LoadRecent returns the latest entries, newest first
func (m *Manager) LoadRecent(limit int) ([]Entry, error) {
	query := `
		SELECT id, operation, url, status_code, response_size, duration_ms, COALESCE(request_id, ''), error_message, timestamp
		FROM gateway_calls
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`

	rows, err := m.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load analytics entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var timestamp string
		var errorMsg sql.NullString

		err := rows.Scan(
			&e.ID,
			&e.Operation,
			&e.URL,
			&e.StatusCode,
			&e.ResponseSize,
			&e.DurationMs,
			&e.RequestID,
			&errorMsg,
			&timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analytics entry: %w", err)
		}

		if errorMsg.Valid {
			e.ErrorMessage = errorMsg.String
		}
		e.Timestamp = parseTimestamp(timestamp)

		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Stats aggregates the log per operation, most recently called first
func (m *Manager) Stats() ([]Stats, error) {
	if cached, ok := m.cache.get(); ok {
		return cached, nil
	}

	query := `
		SELECT
			operation,
			COUNT(*) as total_calls,
			SUM(CASE WHEN status_code >= 200 AND status_code < 300 AND error_message IS NULL THEN 1 ELSE 0 END) as success_count,
			SUM(CASE WHEN status_code != 0 AND (status_code < 200 OR status_code >= 300 OR error_message IS NOT NULL) THEN 1 ELSE 0 END) as error_count,
			SUM(CASE WHEN status_code = 0 THEN 1 ELSE 0 END) as network_errors,
			AVG(duration_ms) as avg_duration,
			MIN(duration_ms) as min_duration,
			MAX(duration_ms) as max_duration,
			SUM(response_size) as total_resp_size,
			MAX(timestamp) as last_called
		FROM gateway_calls
		GROUP BY operation
		ORDER BY last_called DESC, operation ASC
	`

	rows, err := m.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats per operation: %w", err)
	}
	defer rows.Close()

	var statsList []Stats
	for rows.Next() {
		var s Stats
		var lastCalled sql.NullString

		err := rows.Scan(
			&s.Operation,
			&s.TotalCalls,
			&s.SuccessCount,
			&s.ErrorCount,
			&s.NetworkErrors,
			&s.AvgDurationMs,
			&s.MinDurationMs,
			&s.MaxDurationMs,
			&s.TotalRespSize,
			&lastCalled,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stats: %w", err)
		}

		if lastCalled.Valid && lastCalled.String != "" {
			s.LastCalled = parseTimestamp(lastCalled.String)
		}

		statsList = append(statsList, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	m.cache.set(statsList)
	return statsList, nil
}

// Clear deletes every entry
func (m *Manager) Clear() error {
	if _, err := m.db.Exec("DELETE FROM gateway_calls"); err != nil {
		return fmt.Errorf("failed to clear analytics: %w", err)
	}
	m.cache.invalidate()
	return nil
}

// parseTimestamp reads SQLite's local-time layout, falling back to RFC3339
func parseTimestamp(s string) time.Time {
	if t, err := time.ParseInLocation(timestampLayout, s, time.Local); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}
