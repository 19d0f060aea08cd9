package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/studiowebux/shopdemo/internal/catalog"
	"github.com/studiowebux/shopdemo/internal/filter"
	"github.com/studiowebux/shopdemo/internal/gateway"
	"github.com/studiowebux/shopdemo/internal/logging"
	"github.com/studiowebux/shopdemo/internal/types"
	"gopkg.in/yaml.v3"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Options are the global flags shared by every command
type Options struct {
	BaseURL      string
	Timeout      time.Duration
	OutputFormat string // text, json, yaml
	Query        string // JMESPath expression applied to json/yaml output
	Out          io.Writer
	Logger       *slog.Logger
	Recorder     gateway.Recorder // optional call log
}

// ValidateFormat rejects unknown output formats
func ValidateFormat(format string) error {
	switch format {
	case "", FormatText, FormatJSON, FormatYAML:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (use text, json or yaml)", format)
	}
}

func (o Options) client() *gateway.Client {
	opts := []gateway.Option{gateway.WithLogger(o.logger())}
	if o.Recorder != nil {
		opts = append(opts, gateway.WithRecorder(o.Recorder))
	}
	return gateway.New(o.BaseURL, o.Timeout, opts...)
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return logging.Discard()
	}
	return o.Logger
}

func (o Options) out() io.Writer {
	if o.Out == nil {
		return os.Stdout
	}
	return o.Out
}

// format resolves the effective output format; a query implies json
func (o Options) format() string {
	if o.OutputFormat == "" || o.OutputFormat == FormatText {
		if o.Query != "" {
			return FormatJSON
		}
		return FormatText
	}
	return o.OutputFormat
}

// render writes data in the selected format. text renders the human view.
func (o Options) render(data any, text func(w io.Writer)) error {
	format := o.format()
	if format == FormatText {
		text(o.out())
		return nil
	}

	result, err := filter.Apply(data, o.Query)
	if err != nil {
		return fmt.Errorf("failed to apply query: %w", err)
	}

	output, err := formatOutput(result, format)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(o.out(), output)
	return err
}

// formatOutput encodes a value as json or yaml
func formatOutput(data any, format string) (string, error) {
	switch format {
	case FormatYAML:
		out, err := yaml.Marshal(data)
		if err != nil {
			return "", fmt.Errorf("failed to encode YAML: %w", err)
		}
		return string(out), nil

	default:
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to encode JSON: %w", err)
		}
		return string(out) + "\n", nil
	}
}

// ANSI color codes
const (
	colorReset  = "\x1b[0m"
	colorRed    = "\x1b[31m"
	colorGreen  = "\x1b[32m"
	colorYellow = "\x1b[33m"
)

func getStockColor(p types.Product) string {
	if catalog.LowStock(p) {
		return colorYellow
	}
	return colorGreen
}

// ParseDraft parses "first,last,email" as given to --add
func ParseDraft(s string) (first, last, email string, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return "", "", "", fmt.Errorf("expected first,last,email, got %q", s)
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), strings.TrimSpace(parts[2]), nil
}
