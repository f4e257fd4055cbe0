// Package config builds the deepzoom configuration from command-line flags,
// DEEPZOOM_* environment variables and defaults, in that order of priority.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/agbru/deepzoom/internal/bigfixed"
	apperrors "github.com/agbru/deepzoom/internal/errors"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "DEEPZOOM_"

// Modes.
const (
	ModeIterate = "iterate"
	ModeTile    = "tile"
	ModeOrbit   = "orbit"
	ModeMosaic  = "mosaic"
)

// Modes lists the accepted values of -mode.
var Modes = []string{ModeIterate, ModeTile, ModeOrbit, ModeMosaic}

// Defaults.
const (
	DefaultMode      = ModeIterate
	DefaultReal      = "-0.75"
	DefaultImag      = "0.1"
	DefaultScale     = "3"
	DefaultMaxIter   = 500
	DefaultPrecision = 4
	DefaultTileSize  = 64
	DefaultMosaic    = 2
	DefaultTimeout   = time.Minute
	DefaultPort      = "8080"

	DefaultMaxTileSize  = 512
	DefaultMaxIterLimit = 100_000
)

// AppConfig holds every setting of a deepzoom run.
type AppConfig struct {
	// Mode selects the CLI computation.
	Mode string
	// Real and Imag are the point (iterate, orbit) or centre (tile, mosaic).
	Real, Imag string
	// Scale is the width of a tile in the complex plane.
	Scale     string
	MaxIter   int
	Precision int
	TileSize  int
	// Mosaic is the number of tiles per side in mosaic mode.
	Mosaic int
	// Extended requests z² terms in orbit mode.
	Extended bool
	// KaratsubaThreshold is the limb count above which Karatsuba is used.
	// Zero keeps the calibrated or built-in value.
	KaratsubaThreshold int
	Timeout            time.Duration

	ServerMode bool
	Port       string
	// MaxTileSize and MaxIterLimit bound server requests.
	MaxTileSize  int
	MaxIterLimit int

	JSONOutput bool
	Quiet      bool
	NoColor    bool
	OutputFile string

	// Calibrate runs the Karatsuba threshold calibration and exits.
	Calibrate bool
	// CalibrationProfile overrides the profile path
	// (default ~/.deepzoom_calibration.json).
	CalibrationProfile string

	// Completion names a shell to print a completion script for.
	Completion string
}

// Validate checks that the values are usable.
//
// Returns:
//   - error: A ConfigError describing the first invalid value, nil otherwise.
func (c AppConfig) Validate() error {
	switch {
	case !slices.Contains(Modes, c.Mode):
		return apperrors.NewConfigError("unrecognized mode: '%s'. Valid modes are: [%s]", c.Mode, strings.Join(Modes, ", "))
	case c.Timeout <= 0:
		return apperrors.NewConfigError("timeout value must be strictly positive")
	case c.MaxIter < 0:
		return apperrors.NewConfigError("max iterations cannot be negative: %d", c.MaxIter)
	case c.TileSize <= 0:
		return apperrors.NewConfigError("tile size must be positive: %d", c.TileSize)
	case c.Mosaic <= 0:
		return apperrors.NewConfigError("mosaic side must be positive: %d", c.Mosaic)
	case c.KaratsubaThreshold != 0 && c.KaratsubaThreshold < bigfixed.MinKaratsubaThreshold:
		return apperrors.NewConfigError("karatsuba threshold must be 0 or at least %d: %d", bigfixed.MinKaratsubaThreshold, c.KaratsubaThreshold)
	case c.MaxTileSize < 0 || c.MaxIterLimit < 0:
		return apperrors.NewConfigError("server limits cannot be negative")
	}
	if err := bigfixed.CheckPrecision(c.Precision); err != nil {
		return apperrors.NewConfigError("invalid precision: %v", err)
	}
	return nil
}

// ParseConfig parses args into an AppConfig, applies environment overrides
// for flags not given explicitly, and validates the result.
//
// Parameters:
//   - programName: Name shown in the usage message.
//   - args: Arguments without the program name (typically os.Args[1:]).
//   - errorWriter: Destination of usage and parse errors.
//
// Returns:
//   - AppConfig: The configuration.
//   - error: The flag parse error, or a generic error after printing the
//     validation failure and usage.
func ParseConfig(programName string, args []string, errorWriter io.Writer) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)

	config := AppConfig{}
	defineFlags(fs, &config)

	setCustomUsage(fs)

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	applyEnvOverrides(&config, fs)

	config.Mode = strings.ToLower(config.Mode)
	if err := config.Validate(); err != nil {
		fmt.Fprintln(errorWriter, "Configuration error:", err)
		fs.Usage()
		return AppConfig{}, errors.New("invalid configuration")
	}
	return config, nil
}

// defineFlags binds every command-line flag to a field of config.
func defineFlags(fs *flag.FlagSet, config *AppConfig) {
	fs.StringVar(&config.Mode, "mode", DefaultMode, fmt.Sprintf("Computation: one of [%s].", strings.Join(Modes, ", ")))
	fs.StringVar(&config.Real, "re", DefaultReal, "Real part of the point or tile centre.")
	fs.StringVar(&config.Imag, "im", DefaultImag, "Imaginary part of the point or tile centre.")
	fs.StringVar(&config.Scale, "scale", DefaultScale, "Width of a tile in the complex plane.")
	fs.IntVar(&config.MaxIter, "max-iter", DefaultMaxIter, "Iteration budget per point.")
	fs.IntVar(&config.Precision, "precision", DefaultPrecision, fmt.Sprintf("Number of 32-bit limbs (1 to %d).", bigfixed.MaxLimbs))
	fs.IntVar(&config.TileSize, "size", DefaultTileSize, "Tile side in pixels.")
	fs.IntVar(&config.Mosaic, "mosaic", DefaultMosaic, "Tiles per side in mosaic mode.")
	fs.BoolVar(&config.Extended, "extended", false, "Include z² terms in orbit mode.")
	fs.IntVar(&config.KaratsubaThreshold, "karatsuba-threshold", 0, "Limb count above which Karatsuba multiplication is used (0 keeps the calibrated value).")
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum execution time.")
	fs.BoolVar(&config.ServerMode, "server", false, "Start in HTTP server mode.")
	fs.StringVar(&config.Port, "port", DefaultPort, "Port to listen on in server mode.")
	fs.IntVar(&config.MaxTileSize, "max-tile-size", DefaultMaxTileSize, "Largest tile the server accepts (0 for no limit).")
	fs.IntVar(&config.MaxIterLimit, "max-iter-limit", DefaultMaxIterLimit, "Largest iteration budget the server accepts (0 for no limit).")
	fs.BoolVar(&config.JSONOutput, "json", false, "Output results in JSON format.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Minimal output for scripts.")
	fs.BoolVar(&config.Quiet, "q", false, "Quiet mode (shorthand).")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output (also respects NO_COLOR env var).")
	fs.StringVar(&config.OutputFile, "output", "", "Write the result to this file.")
	fs.StringVar(&config.OutputFile, "o", "", "Output file path (shorthand).")
	fs.BoolVar(&config.Calibrate, "calibrate", false, "Calibrate the Karatsuba threshold for this machine and exit.")
	fs.StringVar(&config.CalibrationProfile, "calibration-profile", "", "Path to the calibration profile (default: ~/.deepzoom_calibration.json).")
	fs.StringVar(&config.Completion, "completion", "", "Print a shell completion script (bash, zsh, fish) and exit.")
}

// FlagNames lists the names of all command-line flags, sorted.
func FlagNames() []string {
	fs := flag.NewFlagSet("", flag.ContinueOnError)
	defineFlags(fs, &AppConfig{})
	var names []string
	fs.VisitAll(func(f *flag.Flag) { names = append(names, f.Name) })
	return names
}
