package output

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cargofree/cargo-free/internal/core"
)

// YAMLFormatter renders results as a YAML sequence.
type YAMLFormatter struct {
	ShowErrors bool
}

// FormatBatch renders a batch result as YAML.
func (f *YAMLFormatter) FormatBatch(batch *core.BatchResult) (string, error) {
	data, err := yaml.Marshal(Records(batch, f.ShowErrors))
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(string(data), "\n"), nil
}
