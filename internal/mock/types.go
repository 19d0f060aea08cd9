package mock

import "time"

// Config represents the fixture origin configuration
type Config struct {
	Port      int    `json:"port" yaml:"port"`                               // Server port (default: 8080)
	Host      string `json:"host" yaml:"host"`                               // Server host (default: localhost)
	Delay     int    `json:"delay,omitempty" yaml:"delay,omitempty"`         // Response delay in milliseconds
	FailProbe bool   `json:"failProbe,omitempty" yaml:"failProbe,omitempty"` // Answer /test with 503
	Logging   bool   `json:"logging" yaml:"logging"`                         // Keep an in-memory request log
}

// RequestLog represents a logged request
type RequestLog struct {
	Timestamp time.Time     `json:"timestamp"`
	Method    string        `json:"method"`
	Path      string        `json:"path"`
	Query     string        `json:"query"`
	RequestID string        `json:"requestId"`
	Status    int           `json:"status"`
	Duration  time.Duration `json:"duration"`
}
