package ui

import (
	"strings"
	"testing"
)

func TestDensity(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		value   float32
		maxIter int
		levels  int
		want    int
	}{
		{"inside the set", 100, 100, 10, 9},
		{"fast escape", 0.5, 100, 10, 0},
		{"quarter budget", 25, 100, 10, 4},
		{"just below budget", 99.9, 100, 10, 8},
		{"negative smooth value", -0.3, 100, 10, 0},
		{"degenerate ramp", 5, 100, 1, 0},
		{"zero budget", 0, 0, 10, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Density(tt.value, tt.maxIter, tt.levels); got != tt.want {
				t.Errorf("Density(%v, %d, %d) = %d, want %d", tt.value, tt.maxIter, tt.levels, got, tt.want)
			}
		})
	}
}

func TestGlyph(t *testing.T) {
	t.Parallel()
	if g := Glyph(500, 500); g != '@' {
		t.Errorf("inside glyph = %q, want '@'", g)
	}
	if g := Glyph(1, 500); g != ' ' {
		t.Errorf("fast escape glyph = %q, want ' '", g)
	}
}

func TestShade(t *testing.T) {
	t.Parallel()
	if s := NoColorTheme.Shade(3, 10); s != "" {
		t.Errorf("NoColorTheme shade = %q", s)
	}
	if s := DarkTheme.Shade(10, 10); s != "" {
		t.Errorf("inside shade = %q, want none", s)
	}
	if s := DarkTheme.Shade(0, 10); s != DarkTheme.Shades[0] {
		t.Errorf("outer shade = %q, want first", s)
	}
	if s := DarkTheme.Shade(9.99, 10); s != DarkTheme.Shades[len(DarkTheme.Shades)-1] {
		t.Errorf("boundary shade = %q, want last", s)
	}
}

// Tests below mutate the global theme and do not run in parallel.

func TestSetTheme(t *testing.T) {
	orig := GetCurrentTheme()
	defer SetCurrentTheme(orig)

	for _, name := range ThemeNames() {
		SetTheme(name)
		if got := GetCurrentTheme().Name; got != name {
			t.Errorf("SetTheme(%q) selected %q", name, got)
		}
	}
	SetTheme("solarized")
	if got := GetCurrentTheme().Name; got != "dark" {
		t.Errorf("unknown theme selected %q, want dark", got)
	}
}

func TestInitTheme(t *testing.T) {
	orig := GetCurrentTheme()
	defer SetCurrentTheme(orig)

	InitTheme(true)
	if GetCurrentTheme().Name != "none" {
		t.Error("--no-color did not disable colours")
	}
	if ColorRed() != "" || ColorReset() != "" {
		t.Error("colour accessors not empty under NoColorTheme")
	}

	t.Setenv("NO_COLOR", "1")
	InitTheme(false)
	if GetCurrentTheme().Name != "none" {
		t.Error("NO_COLOR did not disable colours")
	}
}

func TestColorProvider(t *testing.T) {
	orig := GetCurrentTheme()
	defer SetCurrentTheme(orig)

	SetCurrentTheme(DarkTheme)
	var p ColorProvider
	if !strings.HasPrefix(p.Yellow(), "\033[") || p.Reset() != "\033[0m" || p.Red() != DarkTheme.Error {
		t.Errorf("provider codes = %q %q %q", p.Yellow(), p.Red(), p.Reset())
	}
}
