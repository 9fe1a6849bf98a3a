package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/cargofree/cargo-free/internal/core"
)

// Format represents an output format.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatTable    Format = "table"
	FormatMarkdown Format = "markdown"
)

// Structured reports whether the format is machine-readable.
func (f Format) Structured() bool {
	return f == FormatJSON || f == FormatYAML
}

// ParseFormat validates and normalizes a format string.
func ParseFormat(value string) (Format, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "", string(FormatText):
		return FormatText, nil
	case string(FormatJSON):
		return FormatJSON, nil
	case "yml", string(FormatYAML):
		return FormatYAML, nil
	case string(FormatTable):
		return FormatTable, nil
	case "md", string(FormatMarkdown):
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", value)
	}
}

// Options control how a batch is rendered.
type Options struct {
	Format Format
	Style  Style
	// ShowErrors renders failed lookups instead of omitting them.
	ShowErrors bool
	// Indent pretty-prints JSON output.
	Indent bool
}

// Formatter renders a batch result.
type Formatter interface {
	FormatBatch(batch *core.BatchResult) (string, error)
}

// NewFormatter returns a formatter for the requested options.
func NewFormatter(opts Options) Formatter {
	switch opts.Format {
	case FormatJSON:
		return &JSONFormatter{Indent: opts.Indent, ShowErrors: opts.ShowErrors}
	case FormatYAML:
		return &YAMLFormatter{ShowErrors: opts.ShowErrors}
	case FormatTable:
		return &TableFormatter{Style: opts.Style, ShowErrors: opts.ShowErrors}
	case FormatMarkdown:
		return &MarkdownFormatter{ShowErrors: opts.ShowErrors}
	default:
		return &TextFormatter{Style: opts.Style, ShowErrors: opts.ShowErrors}
	}
}

// Render writes the formatted batch to w. Nothing is written when the
// rendering is empty.
func Render(w io.Writer, batch *core.BatchResult, opts Options) error {
	rendered, err := NewFormatter(opts).FormatBatch(batch)
	if err != nil {
		return err
	}
	if rendered == "" {
		return nil
	}
	if !strings.HasSuffix(rendered, "\n") {
		rendered += "\n"
	}
	_, err = io.WriteString(w, rendered)
	return err
}

// visible returns the lookups a formatter should render.
func visible(batch *core.BatchResult, showErrors bool) []core.LookupResult {
	if batch == nil {
		return nil
	}
	if showErrors {
		return batch.Results
	}
	return batch.Succeeded()
}

func errorText(err error) string {
	return "error: " + err.Error()
}
