package mock

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/studiowebux/shopdemo/internal/logging"
	"github.com/studiowebux/shopdemo/internal/types"
)

// defaultLimit matches the origin's page size when no limit is given
const defaultLimit = 30

// maxLogs bounds the in-memory request log
const maxLogs = 1000

var (
	//go:embed fixtures/products.json
	productsJSON []byte
	//go:embed fixtures/users.json
	usersJSON []byte
	//go:embed fixtures/todos.json
	todosJSON []byte
)

// Fixtures is the data served by the origin
type Fixtures struct {
	Products []types.Product
	Users    []types.User
	Todos    []types.Todo
}

// LoadFixtures decodes the embedded fixture set
func LoadFixtures() (*Fixtures, error) {
	f := &Fixtures{}
	if err := json.Unmarshal(productsJSON, &f.Products); err != nil {
		return nil, fmt.Errorf("failed to decode product fixtures: %w", err)
	}
	if err := json.Unmarshal(usersJSON, &f.Users); err != nil {
		return nil, fmt.Errorf("failed to decode user fixtures: %w", err)
	}
	if err := json.Unmarshal(todosJSON, &f.Todos); err != nil {
		return nil, fmt.Errorf("failed to decode todo fixtures: %w", err)
	}
	return f, nil
}

// Server is an offline stand-in for the catalog origin
type Server struct {
	config     *Config
	fixtures   *Fixtures
	httpServer *http.Server
	logger     *slog.Logger
	logs       []RequestLog
	logsMutex  sync.RWMutex
	notifyCh   chan struct{} // Channel to notify when new log arrives
}

// NewServer creates a fixture origin
func NewServer(config *Config, fixtures *Fixtures, logger *slog.Logger) *Server {
	if config.Port == 0 {
		config.Port = 8080
	}
	if config.Host == "" {
		config.Host = "localhost"
	}
	if logger == nil {
		logger = logging.Discard()
	}

	return &Server{
		config:   config,
		fixtures: fixtures,
		logger:   logger,
		logs:     make([]RequestLog, 0),
		notifyCh: make(chan struct{}, 100),
	}
}

// Handler returns the router serving the four endpoints
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logMiddleware)
	if s.config.Delay > 0 {
		r.Use(s.delayMiddleware)
	}

	r.Get("/products", func(w http.ResponseWriter, r *http.Request) {
		limit, skip, ok := pageParams(w, r)
		if !ok {
			return
		}
		items, total := paginate(s.fixtures.Products, limit, skip)
		respondJSON(w, http.StatusOK, types.ProductPage{Products: items, Total: total, Skip: skip, Limit: len(items)})
	})
	r.Get("/users", func(w http.ResponseWriter, r *http.Request) {
		limit, skip, ok := pageParams(w, r)
		if !ok {
			return
		}
		items, total := paginate(s.fixtures.Users, limit, skip)
		respondJSON(w, http.StatusOK, types.UserPage{Users: items, Total: total, Skip: skip, Limit: len(items)})
	})
	r.Get("/todos", func(w http.ResponseWriter, r *http.Request) {
		limit, skip, ok := pageParams(w, r)
		if !ok {
			return
		}
		items, total := paginate(s.fixtures.Todos, limit, skip)
		respondJSON(w, http.StatusOK, types.TodoPage{Todos: items, Total: total, Skip: skip, Limit: len(items)})
	})
	r.Get("/test", func(w http.ResponseWriter, r *http.Request) {
		if s.config.FailProbe {
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{"message": "probe disabled"})
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok", "method": r.Method})
	})

	return r
}

// Start starts serving in the background
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.config.Host, s.config.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("fixture origin stopped", "error", err)
		}
	}()

	return nil
}

// Stop stops the server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}

// GetAddress returns the server base URL
func (s *Server) GetAddress() string {
	return fmt.Sprintf("http://%s:%d", s.config.Host, s.config.Port)
}

func (s *Server) delayMiddleware(next http.Handler) http.Handler {
	delay := time.Duration(s.config.Delay) * time.Millisecond
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		entry := RequestLog{
			Timestamp: start,
			Method:    r.Method,
			Path:      r.URL.Path,
			Query:     r.URL.RawQuery,
			RequestID: r.Header.Get("X-Request-ID"),
			Status:    ww.Status(),
			Duration:  time.Since(start),
		}
		if entry.RequestID == "" {
			entry.RequestID = middleware.GetReqID(r.Context())
		}

		s.logger.Debug("fixture request", "method", entry.Method, "path", entry.Path, "status", entry.Status)
		if s.config.Logging {
			s.logRequest(entry)
		}
	})
}

// logRequest adds a request to the log
func (s *Server) logRequest(log RequestLog) {
	s.logsMutex.Lock()
	defer s.logsMutex.Unlock()

	s.logs = append(s.logs, log)

	if len(s.logs) > maxLogs {
		s.logs = s.logs[len(s.logs)-maxLogs:]
	}

	// Notify listeners (non-blocking)
	select {
	case s.notifyCh <- struct{}{}:
	default:
	}
}

// NotifyChannel returns the notification channel
func (s *Server) NotifyChannel() <-chan struct{} {
	return s.notifyCh
}

// DrainLogs returns the logged requests and empties the log
func (s *Server) DrainLogs() []RequestLog {
	s.logsMutex.Lock()
	defer s.logsMutex.Unlock()

	logs := s.logs
	s.logs = make([]RequestLog, 0)
	return logs
}

// pageParams reads limit and skip; limit 0 means everything
func pageParams(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	limit, skip := defaultLimit, 0
	var err error

	if v := r.URL.Query().Get("limit"); v != "" {
		if limit, err = strconv.Atoi(v); err != nil || limit < 0 {
			respondJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid limit"})
			return 0, 0, false
		}
	}
	if v := r.URL.Query().Get("skip"); v != "" {
		if skip, err = strconv.Atoi(v); err != nil || skip < 0 {
			respondJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid skip"})
			return 0, 0, false
		}
	}
	return limit, skip, true
}

func paginate[T any](items []T, limit, skip int) ([]T, int) {
	total := len(items)
	if skip >= total {
		return []T{}, total
	}
	end := total
	if limit > 0 && limit < total-skip {
		end = skip + limit
	}
	page := make([]T, end-skip)
	copy(page, items[skip:end])
	return page, total
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
