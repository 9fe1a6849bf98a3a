package output

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/cargofree/cargo-free/internal/core"
)

// TableFormatter renders results as an ASCII table.
type TableFormatter struct {
	Style      Style
	ShowErrors bool
}

// FormatBatch renders a batch result as a table.
func (f *TableFormatter) FormatBatch(batch *core.BatchResult) (string, error) {
	if batch == nil || batch.Len() == 0 {
		return "", nil
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Footer = text.FormatDefault
	t.AppendHeader(table.Row{"Crate", "Availability"})

	rows := visible(batch, f.ShowErrors)
	for _, result := range rows {
		status := f.Style.Decorate(result.Availability)
		if !result.OK() {
			status = f.Style.DecorateError(errorText(result.Err))
		}
		t.AppendRow(table.Row{result.Name, status})
	}

	if failed := len(batch.Failed()); failed > 0 && !f.ShowErrors {
		t.AppendFooter(table.Row{"", fmt.Sprintf("%d failed, not shown", failed)})
	}

	return t.Render(), nil
}
