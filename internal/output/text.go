package output

import (
	"fmt"
	"strings"

	"github.com/cargofree/cargo-free/internal/core"
)

// TextFormatter renders the human-readable modes: a bare verdict for a
// single name, or one aligned line per name otherwise.
type TextFormatter struct {
	Style      Style
	ShowErrors bool
}

// FormatBatch renders a batch as plain text.
func (f *TextFormatter) FormatBatch(batch *core.BatchResult) (string, error) {
	if batch == nil || batch.Len() == 0 {
		return "", nil
	}

	if batch.Len() == 1 {
		result := batch.Results[0]
		switch {
		case result.OK():
			return f.Style.Decorate(result.Availability), nil
		case f.ShowErrors:
			return f.Style.DecorateError(errorText(result.Err)), nil
		default:
			return "", nil
		}
	}

	var sb strings.Builder
	for _, result := range visible(batch, f.ShowErrors) {
		cell := f.Style.Decorate(result.Availability)
		if !result.OK() {
			cell = f.Style.DecorateError(errorText(result.Err))
		}
		fmt.Fprintf(&sb, "%-*s %s\n", batch.Width, result.Name, cell)
	}
	return strings.TrimSuffix(sb.String(), "\n"), nil
}
