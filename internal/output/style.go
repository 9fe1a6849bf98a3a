package output

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/cargofree/cargo-free/internal/core"
)

// Color modes accepted by ResolveColor.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Style controls decoration of verdicts in human-readable formats.
type Style struct {
	Color bool
	Emoji bool
}

// Decorate returns the display label for a verdict.
func (s Style) Decorate(a core.Availability) string {
	label := a.Label()
	if s.Emoji {
		label = emojiFor(a) + " " + label
	}
	if !s.Color {
		return label
	}
	return colorsFor(a).Sprint(label)
}

// DecorateError renders an error cell.
func (s Style) DecorateError(message string) string {
	if !s.Color {
		return message
	}
	return text.Colors{text.FgYellow}.Sprint(message)
}

// ValidColorMode reports whether mode is auto, always or never.
func ValidColorMode(mode string) bool {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case ColorAuto, ColorAlways, ColorNever, "":
		return true
	default:
		return false
	}
}

// ResolveColor decides whether to colorize output. In auto mode colors are
// used only when the output is a terminal and NO_COLOR is unset.
func ResolveColor(mode string, isTerminal bool) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case ColorAlways:
		return true, nil
	case ColorNever:
		return false, nil
	case ColorAuto, "":
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			return false, nil
		}
		return isTerminal, nil
	default:
		return false, fmt.Errorf("unsupported color mode: %s", mode)
	}
}

func colorsFor(a core.Availability) text.Colors {
	switch a {
	case core.AvailabilityAvailable:
		return text.Colors{text.FgGreen}
	case core.AvailabilityUnavailable:
		return text.Colors{text.FgRed}
	default:
		return text.Colors{text.FgHiBlack}
	}
}

func emojiFor(a core.Availability) string {
	switch a {
	case core.AvailabilityAvailable:
		return "✅"
	case core.AvailabilityUnavailable:
		return "❌"
	default:
		return "❔"
	}
}
