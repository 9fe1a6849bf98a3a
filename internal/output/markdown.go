package output

import (
	"fmt"
	"strings"

	"github.com/cargofree/cargo-free/internal/core"
)

// MarkdownFormatter renders results as a markdown table.
type MarkdownFormatter struct {
	ShowErrors bool
}

// FormatBatch renders a batch result as Markdown.
func (f *MarkdownFormatter) FormatBatch(batch *core.BatchResult) (string, error) {
	if batch == nil || batch.Len() == 0 {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString("| Crate | Availability |\n")
	sb.WriteString("|-------|--------------|\n")

	for _, result := range visible(batch, f.ShowErrors) {
		status := result.Availability.Label()
		if !result.OK() {
			status = errorText(result.Err)
		}
		sb.WriteString(fmt.Sprintf("| %s | %s |\n",
			escapeMarkdownCell(result.Name),
			escapeMarkdownCell(status),
		))
	}

	return sb.String(), nil
}

func escapeMarkdownCell(value string) string {
	return strings.ReplaceAll(value, "|", "\\|")
}
