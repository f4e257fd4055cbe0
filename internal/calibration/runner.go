package calibration

import (
	"context"
	"fmt"
	"time"

	"github.com/agbru/deepzoom/internal/bigfixed"
	"github.com/agbru/deepzoom/internal/mandelbrot"
)

// Trial point inside the main cardioid: it never escapes, so every trial
// runs its full iteration budget.
const (
	trialRe = "-0.1"
	trialIm = "0.1"
)

// DefaultTrialIterations is the iteration budget per precision in a trial.
const DefaultTrialIterations = 200

// thresholdResult is the timing of one candidate threshold.
type thresholdResult struct {
	Threshold int
	Duration  time.Duration
	Err       error
}

// trialRunner times the escape-time loop of mandelbrot.Workspace at each
// workload precision under a given threshold.
type trialRunner struct {
	ws         *mandelbrot.Workspace
	precisions []int
	iterations int
	perTrial   time.Duration
}

func newTrialRunner(timeout time.Duration, candidates int) *trialRunner {
	perTrial := timeout / time.Duration(max(candidates, 1))
	return &trialRunner{
		ws:         mandelbrot.NewWorkspace(),
		precisions: WorkloadPrecisions,
		iterations: DefaultTrialIterations,
		perTrial:   max(perTrial, 100*time.Millisecond),
	}
}

// runTrial measures threshold. The caller holds thresholdMu.
//
// Returns:
//   - time.Duration: Total time over all workload precisions.
//   - error: The engine error, or the context error when the trial ran out
//     of time.
func (r *trialRunner) runTrial(ctx context.Context, threshold int) (time.Duration, error) {
	ctx, cancel := context.WithTimeout(ctx, r.perTrial)
	defer cancel()

	bigfixed.SetKaratsubaThreshold(threshold)
	start := time.Now()
	for _, n := range r.precisions {
		if err := ctx.Err(); err != nil {
			return time.Since(start), err
		}
		iter, err := r.ws.Iterate(trialRe, trialIm, r.iterations, n)
		if err != nil {
			return time.Since(start), fmt.Errorf("precision %d: %w", n, err)
		}
		if iter != r.iterations {
			return time.Since(start), fmt.Errorf("precision %d: trial point escaped at %d", n, iter)
		}
	}
	return time.Since(start), nil
}

// findBest runs every candidate and returns all timings and the fastest
// successful threshold, or fallback if none succeeded. It stops early when
// ctx is done.
func (r *trialRunner) findBest(ctx context.Context, candidates []int, fallback int) ([]thresholdResult, int, time.Duration) {
	thresholdMu.Lock()
	defer thresholdMu.Unlock()
	saved := bigfixed.KaratsubaThreshold()
	defer bigfixed.SetKaratsubaThreshold(saved)

	results := make([]thresholdResult, 0, len(candidates))
	best, bestDur := fallback, time.Duration(1<<63-1)
	for _, t := range candidates {
		if ctx.Err() != nil {
			break
		}
		dur, err := r.runTrial(ctx, t)
		results = append(results, thresholdResult{Threshold: t, Duration: dur, Err: err})
		if err == nil && dur < bestDur {
			best, bestDur = t, dur
		}
	}
	return results, best, bestDur
}
