package config

import (
	"bytes"
	"errors"
	"flag"
	"io"
	"slices"
	"strings"
	"testing"
	"time"

	apperrors "github.com/agbru/deepzoom/internal/errors"
)

func TestParseConfigDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := ParseConfig("deepzoom", nil, io.Discard)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	want := AppConfig{
		Mode:         DefaultMode,
		Real:         DefaultReal,
		Imag:         DefaultImag,
		Scale:        DefaultScale,
		MaxIter:      DefaultMaxIter,
		Precision:    DefaultPrecision,
		TileSize:     DefaultTileSize,
		Mosaic:       DefaultMosaic,
		Timeout:      DefaultTimeout,
		Port:         DefaultPort,
		MaxTileSize:  DefaultMaxTileSize,
		MaxIterLimit: DefaultMaxIterLimit,
	}
	if cfg != want {
		t.Errorf("defaults = %+v\nwant %+v", cfg, want)
	}
}

func TestParseConfigFlags(t *testing.T) {
	t.Parallel()
	args := []string{
		"-mode", "TILE",
		"-re", "-1.7490234375",
		"-im", "0",
		"-scale", "1e-3",
		"-max-iter", "2000",
		"-precision", "12",
		"-size", "32",
		"-karatsuba-threshold", "24",
		"-timeout", "10s",
		"-q",
		"-o", "tile.json",
		"-json",
	}
	cfg, err := ParseConfig("deepzoom", args, io.Discard)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	checks := []struct {
		name      string
		got, want any
	}{
		{"mode lower-cased", cfg.Mode, ModeTile},
		{"re", cfg.Real, "-1.7490234375"},
		{"scale", cfg.Scale, "1e-3"},
		{"max-iter", cfg.MaxIter, 2000},
		{"precision", cfg.Precision, 12},
		{"size", cfg.TileSize, 32},
		{"threshold", cfg.KaratsubaThreshold, 24},
		{"timeout", cfg.Timeout, 10 * time.Second},
		{"quiet shorthand", cfg.Quiet, true},
		{"output shorthand", cfg.OutputFile, "tile.json"},
		{"json", cfg.JSONOutput, true},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestParseConfigInvalid(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{"unknown mode", []string{"-mode", "render"}, "unrecognized mode"},
		{"zero precision", []string{"-precision", "0"}, "invalid precision"},
		{"precision over capacity", []string{"-precision", "129"}, "invalid precision"},
		{"negative max-iter", []string{"-max-iter", "-1"}, "max iterations"},
		{"zero tile", []string{"-size", "0"}, "tile size"},
		{"zero mosaic", []string{"-mosaic", "0"}, "mosaic"},
		{"threshold below minimum", []string{"-karatsuba-threshold", "2"}, "karatsuba threshold"},
		{"zero timeout", []string{"-timeout", "0s"}, "timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var out bytes.Buffer
			if _, err := ParseConfig("deepzoom", tt.args, &out); err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(out.String(), tt.msg) {
				t.Errorf("output %q does not mention %q", out.String(), tt.msg)
			}
			if !strings.Contains(out.String(), "Usage:") {
				t.Error("usage not printed")
			}
		})
	}
}

func TestParseConfigUnknownFlag(t *testing.T) {
	t.Parallel()
	if _, err := ParseConfig("deepzoom", []string{"-zoom"}, io.Discard); err == nil {
		t.Error("expected a parse error")
	}
	if _, err := ParseConfig("deepzoom", []string{"-h"}, io.Discard); !errors.Is(err, flag.ErrHelp) {
		t.Errorf("-h error = %v, want flag.ErrHelp", err)
	}
}

func TestValidateReturnsConfigError(t *testing.T) {
	t.Parallel()
	cfg := AppConfig{Mode: "orbit", Timeout: time.Second, TileSize: 1, Mosaic: 1, Precision: 2, KaratsubaThreshold: 3}
	var cerr apperrors.ConfigError
	if err := cfg.Validate(); !errors.As(err, &cerr) {
		t.Fatalf("Validate() = %v, want ConfigError", err)
	}
	cfg.KaratsubaThreshold = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

// Environment tests cannot run in parallel.

func TestParseConfigEnvOverrides(t *testing.T) {
	env := map[string]string{
		"DEEPZOOM_MODE":                "orbit",
		"DEEPZOOM_RE":                  "-1",
		"DEEPZOOM_MAX_ITER":            "50",
		"DEEPZOOM_PRECISION":           "8",
		"DEEPZOOM_EXTENDED":            "yes",
		"DEEPZOOM_TIMEOUT":             "2m",
		"DEEPZOOM_SERVER":              "1",
		"DEEPZOOM_PORT":                "3000",
		"DEEPZOOM_QUIET":               "true",
		"DEEPZOOM_CALIBRATION_PROFILE": "/tmp/p.json",
	}
	for k, v := range env {
		t.Setenv(k, v)
	}

	cfg, err := ParseConfig("deepzoom", []string{"-port", "9090"}, io.Discard)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Mode != ModeOrbit || cfg.Real != "-1" || cfg.MaxIter != 50 || cfg.Precision != 8 {
		t.Errorf("env values not applied: %+v", cfg)
	}
	if !cfg.Extended || !cfg.ServerMode || !cfg.Quiet {
		t.Errorf("boolean env values not applied: %+v", cfg)
	}
	if cfg.Timeout != 2*time.Minute {
		t.Errorf("Timeout = %v, want 2m", cfg.Timeout)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %q, the flag must win over the environment", cfg.Port)
	}
	if cfg.CalibrationProfile != "/tmp/p.json" {
		t.Errorf("CalibrationProfile = %q", cfg.CalibrationProfile)
	}
}

func TestParseConfigEnvShorthandWins(t *testing.T) {
	t.Setenv("DEEPZOOM_OUTPUT", "env.json")
	cfg, err := ParseConfig("deepzoom", []string{"-o", "flag.json"}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.OutputFile != "flag.json" {
		t.Errorf("OutputFile = %q, want flag.json", cfg.OutputFile)
	}
}

func TestParseConfigEnvIgnoresGarbage(t *testing.T) {
	t.Setenv("DEEPZOOM_MAX_ITER", "many")
	t.Setenv("DEEPZOOM_JSON", "perhaps")
	t.Setenv("DEEPZOOM_TIMEOUT", "soon")
	cfg, err := ParseConfig("deepzoom", nil, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MaxIter != DefaultMaxIter || cfg.JSONOutput || cfg.Timeout != DefaultTimeout {
		t.Errorf("unparseable env values changed the config: %+v", cfg)
	}
}

func TestUsageHonoursNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var out bytes.Buffer
	_, _ = ParseConfig("deepzoom", []string{"-h"}, &out)
	if strings.Contains(out.String(), "\033[") {
		t.Error("usage contains escape codes under NO_COLOR")
	}
	for _, want := range []string{"-mode", "-precision", EnvPrefix} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("usage missing %q", want)
		}
	}
}

func TestFlagNames(t *testing.T) {
	t.Parallel()
	names := FlagNames()
	for _, want := range []string{"mode", "precision", "completion", "q"} {
		if !slices.Contains(names, want) {
			t.Errorf("FlagNames() lacks %q", want)
		}
	}
	if !slices.IsSorted(names) {
		t.Error("FlagNames() not sorted")
	}
}
