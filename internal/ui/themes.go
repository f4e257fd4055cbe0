// Package ui holds the terminal presentation primitives shared by the CLI
// and the usage printer: colour themes and the density ramps used to draw
// tiles as text.
package ui

import (
	"os"
	"sort"
	"sync"
)

// Theme is a set of ANSI escape codes, one per semantic role.
type Theme struct {
	Name      string
	Primary   string
	Secondary string
	Success   string
	Warning   string
	Error     string
	Info      string
	Bold      string
	Underline string
	Reset     string
	// Shades colours the density ramp from outside the set (first) to deep
	// inside the escape band (last). Empty in NoColorTheme.
	Shades []string
}

const (
	bold      = "\033[1m"
	underline = "\033[4m"
	reset     = "\033[0m"
)

func fg(code string) string { return "\033[38;5;" + code + "m" }

var (
	// DarkTheme suits dark terminal backgrounds.
	DarkTheme = Theme{
		Name:      "dark",
		Primary:   fg("39"),
		Secondary: fg("245"),
		Success:   fg("82"),
		Warning:   fg("220"),
		Error:     fg("196"),
		Info:      fg("141"),
		Bold:      bold,
		Underline: underline,
		Reset:     reset,
		Shades:    []string{fg("17"), fg("19"), fg("27"), fg("33"), fg("45"), fg("51"), fg("229"), fg("226"), fg("214"), fg("208")},
	}

	// LightTheme suits light backgrounds.
	LightTheme = Theme{
		Name:      "light",
		Primary:   fg("27"),
		Secondary: fg("240"),
		Success:   fg("28"),
		Warning:   fg("130"),
		Error:     fg("124"),
		Info:      fg("54"),
		Bold:      bold,
		Underline: underline,
		Reset:     reset,
		Shades:    []string{fg("253"), fg("250"), fg("110"), fg("68"), fg("25"), fg("19"), fg("94"), fg("130"), fg("166"), fg("160")},
	}

	// NoColorTheme emits no escape codes at all.
	NoColorTheme = Theme{Name: "none"}

	themes = map[string]Theme{
		DarkTheme.Name:    DarkTheme,
		LightTheme.Name:   LightTheme,
		NoColorTheme.Name: NoColorTheme,
	}

	themeMu      sync.RWMutex
	currentTheme = DarkTheme
)

// ThemeNames lists the names SetTheme accepts, sorted.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetCurrentTheme returns the active theme.
func GetCurrentTheme() Theme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTheme
}

// SetCurrentTheme replaces the active theme; tests use it to restore state.
func SetCurrentTheme(t Theme) {
	themeMu.Lock()
	defer themeMu.Unlock()
	currentTheme = t
}

// SetTheme activates a theme by name. Unknown names select DarkTheme.
func SetTheme(name string) {
	t, ok := themes[name]
	if !ok {
		t = DarkTheme
	}
	SetCurrentTheme(t)
}

// InitTheme disables colours when noColor is set or NO_COLOR is present in
// the environment (https://no-color.org/), and selects DarkTheme otherwise.
func InitTheme(noColor bool) {
	if _, set := os.LookupEnv("NO_COLOR"); noColor || set {
		SetCurrentTheme(NoColorTheme)
		return
	}
	SetCurrentTheme(DarkTheme)
}
