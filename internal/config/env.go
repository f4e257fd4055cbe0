package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Environment Variable Utilities
// ─────────────────────────────────────────────────────────────────────────────

// lookupEnv returns DEEPZOOM_<key> when it is set and non-empty.
func lookupEnv(key string) (string, bool) {
	val := os.Getenv(EnvPrefix + key)
	return val, val != ""
}

func getEnvString(key, defaultVal string) string {
	if val, ok := lookupEnv(key); ok {
		return val
	}
	return defaultVal
}

// getEnvInt ignores values that do not parse.
func getEnvInt(key string, defaultVal int) int {
	if val, ok := lookupEnv(key); ok {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// getEnvBool accepts true/1/yes and false/0/no, case-insensitively.
func getEnvBool(key string, defaultVal bool) bool {
	if val, ok := lookupEnv(key); ok {
		switch strings.ToLower(val) {
		case "true", "1", "yes":
			return true
		case "false", "0", "no":
			return false
		}
	}
	return defaultVal
}

// getEnvDuration accepts time.ParseDuration syntax ("30s", "2m").
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val, ok := lookupEnv(key); ok {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// setFlags returns the names of the flags given on the command line.
func setFlags(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// envOverride binds one environment key to the flags that can set the same
// field; the override applies only when none of them was given.
type envOverride struct {
	key   string
	flags []string
	apply func(c *AppConfig, key string)
}

func stringOverride(field func(*AppConfig) *string) func(*AppConfig, string) {
	return func(c *AppConfig, key string) { p := field(c); *p = getEnvString(key, *p) }
}

func intOverride(field func(*AppConfig) *int) func(*AppConfig, string) {
	return func(c *AppConfig, key string) { p := field(c); *p = getEnvInt(key, *p) }
}

func boolOverride(field func(*AppConfig) *bool) func(*AppConfig, string) {
	return func(c *AppConfig, key string) { p := field(c); *p = getEnvBool(key, *p) }
}

// envOverrides lists every supported variable, without the DEEPZOOM_ prefix.
var envOverrides = []envOverride{
	{"MODE", []string{"mode"}, stringOverride(func(c *AppConfig) *string { return &c.Mode })},
	{"RE", []string{"re"}, stringOverride(func(c *AppConfig) *string { return &c.Real })},
	{"IM", []string{"im"}, stringOverride(func(c *AppConfig) *string { return &c.Imag })},
	{"SCALE", []string{"scale"}, stringOverride(func(c *AppConfig) *string { return &c.Scale })},
	{"MAX_ITER", []string{"max-iter"}, intOverride(func(c *AppConfig) *int { return &c.MaxIter })},
	{"PRECISION", []string{"precision"}, intOverride(func(c *AppConfig) *int { return &c.Precision })},
	{"SIZE", []string{"size"}, intOverride(func(c *AppConfig) *int { return &c.TileSize })},
	{"MOSAIC", []string{"mosaic"}, intOverride(func(c *AppConfig) *int { return &c.Mosaic })},
	{"EXTENDED", []string{"extended"}, boolOverride(func(c *AppConfig) *bool { return &c.Extended })},
	{"KARATSUBA_THRESHOLD", []string{"karatsuba-threshold"}, intOverride(func(c *AppConfig) *int { return &c.KaratsubaThreshold })},
	{"TIMEOUT", []string{"timeout"}, func(c *AppConfig, key string) { c.Timeout = getEnvDuration(key, c.Timeout) }},
	{"SERVER", []string{"server"}, boolOverride(func(c *AppConfig) *bool { return &c.ServerMode })},
	{"PORT", []string{"port"}, stringOverride(func(c *AppConfig) *string { return &c.Port })},
	{"MAX_TILE_SIZE", []string{"max-tile-size"}, intOverride(func(c *AppConfig) *int { return &c.MaxTileSize })},
	{"MAX_ITER_LIMIT", []string{"max-iter-limit"}, intOverride(func(c *AppConfig) *int { return &c.MaxIterLimit })},
	{"JSON", []string{"json"}, boolOverride(func(c *AppConfig) *bool { return &c.JSONOutput })},
	{"QUIET", []string{"quiet", "q"}, boolOverride(func(c *AppConfig) *bool { return &c.Quiet })},
	{"NO_COLOR", []string{"no-color"}, boolOverride(func(c *AppConfig) *bool { return &c.NoColor })},
	{"OUTPUT", []string{"output", "o"}, stringOverride(func(c *AppConfig) *string { return &c.OutputFile })},
	{"CALIBRATE", []string{"calibrate"}, boolOverride(func(c *AppConfig) *bool { return &c.Calibrate })},
	{"CALIBRATION_PROFILE", []string{"calibration-profile"}, stringOverride(func(c *AppConfig) *string { return &c.CalibrationProfile })},
}

// applyEnvOverrides implements the priority CLI flags > environment >
// defaults.
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) {
	set := setFlags(fs)
	for _, o := range envOverrides {
		explicit := false
		for _, name := range o.flags {
			explicit = explicit || set[name]
		}
		if !explicit {
			o.apply(config, o.key)
		}
	}
}
