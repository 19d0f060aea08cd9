package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/studiowebux/shopdemo/internal/logging"
	"github.com/studiowebux/shopdemo/internal/types"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Operation names reported in errors, logs and the call log
const (
	OpProducts = "products"
	OpUsers    = "users"
	OpTodos    = "todos"
	OpProbe    = "probe"
)

// maxBodySize caps how much of a response body is read
const maxBodySize = 8 << 20

// ErrTransport is the single failure kind of the gateway: network error, timeout,
// non-2xx status or an undecodable body
var ErrTransport = errors.New("transport failure")

// TransportError carries the context of a failed call
type TransportError struct {
	Op     string
	URL    string
	Status int // 0 when no response was received
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: GET %s: unexpected status %d", e.Op, e.URL, e.Status)
	}
	return fmt.Sprintf("%s: GET %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Is reports ErrTransport for every TransportError
func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// Call describes one finished gateway call
type Call struct {
	Operation    string
	URL          string
	Status       int
	Duration     time.Duration
	ResponseSize int
	RequestID    string
	Err          error
}

// Recorder receives every finished call
type Recorder interface {
	Record(call Call)
}

// Client wraps the read-only endpoints of one origin. It keeps no state between calls.
type Client struct {
	baseURL  string
	http     *http.Client
	logger   *slog.Logger
	recorder Recorder
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (its timeout is kept as is)
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the diagnostic logger
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithRecorder reports every call to r
func WithRecorder(r Recorder) Option {
	return func(c *Client) { c.recorder = r }
}

// New creates a client for baseURL with a fixed per-request timeout
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the origin the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchProducts lists a page of products
func (c *Client) FetchProducts(ctx context.Context, limit, skip int) (*types.ProductPage, error) {
	var page types.ProductPage
	if err := c.getJSON(ctx, OpProducts, "/products", pageQuery(limit, skip), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// FetchUsers lists a page of users
func (c *Client) FetchUsers(ctx context.Context, limit, skip int) (*types.UserPage, error) {
	var page types.UserPage
	if err := c.getJSON(ctx, OpUsers, "/users", pageQuery(limit, skip), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// FetchTodos lists a page of todos
func (c *Client) FetchTodos(ctx context.Context, limit, skip int) (*types.TodoPage, error) {
	var page types.TodoPage
	if err := c.getJSON(ctx, OpTodos, "/todos", pageQuery(limit, skip), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Probe calls the test endpoint and returns its raw JSON payload
func (c *Client) Probe(ctx context.Context) (json.RawMessage, error) {
	body, target, err := c.get(ctx, OpProbe, "/test", nil)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, &TransportError{Op: OpProbe, URL: target, Err: errors.New("response is not valid JSON")}
	}
	return json.RawMessage(body), nil
}

func pageQuery(limit, skip int) url.Values {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("skip", strconv.Itoa(skip))
	return q
}

func (c *Client) getJSON(ctx context.Context, op, path string, query url.Values, out any) error {
	body, target, err := c.get(ctx, op, path, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &TransportError{Op: op, URL: target, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

// get performs a single GET attempt. Every failure is returned as a *TransportError.
func (c *Client) get(ctx context.Context, op, path string, query url.Values) ([]byte, string, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	requestID := uuid.New().String()
	start := time.Now()
	call := Call{Operation: op, URL: target, RequestID: requestID}
	defer func() {
		call.Duration = time.Since(start)
		c.logger.Debug("gateway call",
			"op", op,
			"url", target,
			"status", call.Status,
			"duration", call.Duration,
			"request_id", requestID,
			"error", call.Err,
		)
		if c.recorder != nil {
			c.recorder.Record(call)
		}
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		call.Err = &TransportError{Op: op, URL: target, Err: fmt.Errorf("failed to create request: %w", err)}
		return nil, target, call.Err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		call.Err = &TransportError{Op: op, URL: target, Err: err}
		return nil, target, call.Err
	}
	defer resp.Body.Close()
	call.Status = resp.StatusCode

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	call.ResponseSize = len(body)
	if err != nil {
		call.Err = &TransportError{Op: op, URL: target, Err: fmt.Errorf("failed to read response body: %w", err)}
		return nil, target, call.Err
	}

	if !IsSuccessStatus(resp.StatusCode) {
		call.Err = &TransportError{Op: op, URL: target, Status: resp.StatusCode, Err: fmt.Errorf("status %s", resp.Status)}
		return nil, target, call.Err
	}

	return body, target, nil
}

// IsSuccessStatus returns true if status code is 2xx
func IsSuccessStatus(status int) bool {
	return status >= 200 && status < 300
}

// FormatDuration formats a duration in milliseconds to a human-readable string
func FormatDuration(ms int64) string {
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	return fmt.Sprintf("%.2fs", float64(ms)/1000.0)
}
