package output

import (
	"encoding/json"

	"github.com/cargofree/cargo-free/internal/core"
)

// Record is the structured shape of one lookup.
type Record struct {
	Name         string `json:"name" yaml:"name"`
	Availability string `json:"availability,omitempty" yaml:"availability,omitempty"`
	Error        string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Records converts a batch into structured records in input order. Failed
// lookups are omitted unless showErrors is set.
func Records(batch *core.BatchResult, showErrors bool) []Record {
	results := visible(batch, showErrors)
	records := make([]Record, 0, len(results))
	for _, result := range results {
		record := Record{Name: result.Name}
		if result.OK() {
			record.Availability = result.Availability.String()
		} else {
			record.Error = result.Err.Error()
		}
		records = append(records, record)
	}
	return records
}

// JSONFormatter renders results as a JSON array.
type JSONFormatter struct {
	Indent     bool
	ShowErrors bool
}

// FormatBatch renders a batch result as JSON.
func (f *JSONFormatter) FormatBatch(batch *core.BatchResult) (string, error) {
	records := Records(batch, f.ShowErrors)

	var (
		data []byte
		err  error
	)

	if f.Indent {
		data, err = json.MarshalIndent(records, "", "  ")
	} else {
		data, err = json.Marshal(records)
	}
	if err != nil {
		return "", err
	}

	return string(data), nil
}
