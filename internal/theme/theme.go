// Package theme holds the day and night colour schemes.
package theme

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme is a colour scheme.
type Theme string

const (
	Day   Theme = "day"
	Night Theme = "night"

	// System defers to the terminal background.
	System = "system"
)

// ErrUnknownTheme is returned by Parse for unrecognised names.
var ErrUnknownTheme = errors.New("unknown theme")

// hasDarkBackground is swapped in tests.
var hasDarkBackground = lipgloss.HasDarkBackground

// Colors are the two RGB triplets every surface is drawn from, written as
// "r, g, b" strings.
type Colors struct {
	Dark  string
	Light string
}

const (
	darkRGB  = "10, 10, 20"
	lightRGB = "255, 255, 255"
)

// Parse maps a setting to a theme. An empty value and "system" detect the
// terminal preference.
func Parse(name string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case string(Day):
		return Day, nil
	case string(Night):
		return Night, nil
	case "", System:
		return Detect(), nil
	default:
		return "", fmt.Errorf("%w: %q (want day, night or system)", ErrUnknownTheme, name)
	}
}

// Detect picks night on dark terminals and day otherwise.
func Detect() Theme {
	if hasDarkBackground() {
		return Night
	}
	return Day
}

// Toggle flips between day and night.
func (t Theme) Toggle() Theme {
	if t == Night {
		return Day
	}
	return Night
}

// Colors returns the scheme's triplets. Night swaps the day values.
func (t Theme) Colors() Colors {
	if t == Night {
		return Colors{Dark: lightRGB, Light: darkRGB}
	}
	return Colors{Dark: darkRGB, Light: lightRGB}
}

// Palette is the set of terminal colours used by the browser.
type Palette struct {
	Foreground lipgloss.Color
	Background lipgloss.Color
	Muted      lipgloss.Color
	Accent     lipgloss.Color
	Error      lipgloss.Color
}

// Palette derives terminal colours from Colors.
func (t Theme) Palette() Palette {
	c := t.Colors()
	p := Palette{
		Foreground: hexColor(c.Dark),
		Background: hexColor(c.Light),
		Muted:      lipgloss.Color("#666666"),
		Accent:     lipgloss.Color("#5B3CC4"),
		Error:      lipgloss.Color("#C62828"),
	}
	if t == Night {
		p.Muted = lipgloss.Color("#9E9EA8")
		p.Accent = lipgloss.Color("#B39DFF")
		p.Error = lipgloss.Color("#FF6B6B")
	}
	return p
}

func (t Theme) String() string {
	return string(t)
}

// hexColor turns "r, g, b" into "#rrggbb". Malformed input yields black.
func hexColor(rgb string) lipgloss.Color {
	parts := strings.Split(rgb, ",")
	if len(parts) != 3 {
		return lipgloss.Color("#000000")
	}
	var out [3]int
	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || v < 0 || v > 255 {
			return lipgloss.Color("#000000")
		}
		out[i] = v
	}
	return lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", out[0], out[1], out[2]))
}
