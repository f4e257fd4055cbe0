package calibration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/agbru/deepzoom/internal/bigfixed"
	"github.com/agbru/deepzoom/internal/config"
	apperrors "github.com/agbru/deepzoom/internal/errors"
	"github.com/agbru/deepzoom/internal/logging"
	"github.com/agbru/deepzoom/internal/ui"
)

// DefaultCalibrationTimeout bounds the timed trials of RunCalibration.
const DefaultCalibrationTimeout = 30 * time.Second

// Options configures RunCalibration.
type Options struct {
	// ProfilePath is where the profile is written. Empty selects
	// GetDefaultProfilePath.
	ProfilePath string
	// SaveProfile writes the result to ProfilePath.
	SaveProfile bool
	// Timeout bounds the trials; zero selects DefaultCalibrationTimeout.
	Timeout time.Duration
	// Candidates overrides GenerateThresholdCandidates.
	Candidates []int
	// Logger receives structured progress. nil discards it.
	Logger logging.Logger
}

// RunCalibration finds the fastest Karatsuba threshold for this machine.
//
// A micro-benchmark of isolated products gives a first estimate, then every
// candidate threshold (plus the estimate) is timed on the escape-time loop
// at each of WorkloadPrecisions. The fastest candidate is installed with
// bigfixed.SetKaratsubaThreshold and optionally saved as a Profile.
//
// Parameters:
//   - ctx: Cancels the run.
//   - out: Destination of the human-readable report.
//   - opts: Profile and timing options.
//
// Returns:
//   - int: The exit code (0 for success).
func RunCalibration(ctx context.Context, out io.Writer, opts Options) int {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultCalibrationTimeout
	}

	fmt.Fprintf(out, "--- Calibration Mode: Finding the Optimal Karatsuba Threshold ---\n")
	features := DetectCPUFeatures()
	fmt.Fprintf(out, "%sCPU features: %s%s\n", ui.ColorCyan(), features, ui.ColorReset())
	start := time.Now()

	crossovers, err := NewMicroBenchmark().Run(ctx)
	if err != nil {
		return apperrors.HandleComputationError(err, time.Since(start), out, ui.ColorProvider{})
	}
	estimate := EstimateThreshold(crossovers)
	logger.Info("micro-benchmark finished",
		logging.Int("sizes", len(crossovers)),
		logging.Int("estimate", estimate),
		logging.Duration("duration", time.Since(start)))

	candidates := opts.Candidates
	if len(candidates) == 0 {
		candidates = GenerateThresholdCandidates()
	}
	candidates = slices.Clone(candidates)
	if !slices.Contains(candidates, estimate) {
		candidates = append(candidates, estimate)
	}
	slices.Sort(candidates)

	runner := newTrialRunner(timeout, len(candidates))
	results, best, bestDur := runner.findBest(ctx, candidates, estimate)
	for _, r := range results {
		if r.Err != nil {
			logger.Error("calibration trial failed", r.Err, logging.Int("threshold", r.Threshold))
			continue
		}
		logger.Debug("calibration trial", logging.Int("threshold", r.Threshold), logging.Duration("duration", r.Duration))
	}

	if err := ctx.Err(); err != nil {
		fmt.Fprintf(out, "\n%sCalibration interrupted.%s\n", ui.ColorYellow(), ui.ColorReset())
		return apperrors.HandleComputationError(err, time.Since(start), out, ui.ColorProvider{})
	}
	if bestDur == time.Duration(1<<63-1) {
		fmt.Fprintf(out, "\n%sCalibration failed: no valid results obtained.%s\n", ui.ColorRed(), ui.ColorReset())
		return apperrors.ExitErrorGeneric
	}

	printCrossovers(out, crossovers, estimate)
	printCalibrationResults(out, results, best)
	bigfixed.SetKaratsubaThreshold(best)
	elapsed := time.Since(start)
	logger.Info("calibration finished", logging.Int("threshold", best), logging.Duration("duration", elapsed))

	fmt.Fprintf(out, "\n%s✅ Recommendation for this machine: %s-karatsuba-threshold %d%s\n",
		ui.ColorGreen(), ui.ColorYellow(), best, ui.ColorReset())

	if opts.SaveProfile {
		profile := NewProfile()
		profile.KaratsubaThreshold = best
		profile.Crossovers = crossovers
		profile.CalibrationTime = elapsed.String()
		path := resolvePath(opts.ProfilePath)
		if err := profile.Save(path); err != nil {
			logger.Error("failed to save calibration profile", err, logging.String("path", path))
			fmt.Fprintf(out, "%sWarning: failed to save profile: %v%s\n", ui.ColorYellow(), err, ui.ColorReset())
		} else {
			fmt.Fprintf(out, "%sCalibration profile saved to %s%s\n", ui.ColorGreen(), path, ui.ColorReset())
		}
	}
	return apperrors.ExitSuccess
}

// AutoCalibrate installs the Karatsuba threshold for a run: an explicit
// cfg.KaratsubaThreshold wins, then a valid profile at
// cfg.CalibrationProfile (or the default path). Otherwise the built-in
// default stays in place.
//
// Parameters:
//   - cfg: The application configuration.
//   - out: Receives a one-line note when a profile is applied.
//
// Returns:
//   - int: The threshold in effect.
//   - bool: True if the threshold came from cfg or a profile.
func AutoCalibrate(cfg config.AppConfig, out io.Writer) (int, bool) {
	if cfg.KaratsubaThreshold != 0 {
		bigfixed.SetKaratsubaThreshold(cfg.KaratsubaThreshold)
		return bigfixed.KaratsubaThreshold(), true
	}
	profile, err := LoadProfile(cfg.CalibrationProfile)
	if err != nil {
		return bigfixed.KaratsubaThreshold(), false
	}
	if err := profile.Apply(); err != nil {
		if errors.Is(err, ErrInvalidProfile) {
			fmt.Fprintf(out, "%sIgnoring calibration profile measured on different hardware.%s\n", ui.ColorYellow(), ui.ColorReset())
		}
		return bigfixed.KaratsubaThreshold(), false
	}
	printCalibrationOutput(out, profile)
	return bigfixed.KaratsubaThreshold(), true
}

// QuickCalibrate runs only the micro-benchmark and installs its estimate.
// It returns the threshold in effect afterwards.
func QuickCalibrate(ctx context.Context) (int, error) {
	crossovers, err := NewMicroBenchmark().Run(ctx)
	if err != nil {
		return bigfixed.KaratsubaThreshold(), err
	}
	bigfixed.SetKaratsubaThreshold(EstimateThreshold(crossovers))
	return bigfixed.KaratsubaThreshold(), nil
}
