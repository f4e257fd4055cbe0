package calibration

import (
	"slices"

	"github.com/agbru/deepzoom/internal/bigfixed"
)

// ─────────────────────────────────────────────────────────────────────────────
// Candidate generation
// ─────────────────────────────────────────────────────────────────────────────

// MicroBenchSizes are the limb counts at which schoolbook and one-level
// Karatsuba products are compared. All exceed MinKaratsubaThreshold so a
// split is always possible.
var MicroBenchSizes = []int{6, 8, 12, 16, 24, 32, 48, 64, 96, 128}

// WorkloadPrecisions are the precisions of the full-iteration trials. They
// span shallow (8 limbs) to maximal (MaxLimbs) zooms.
var WorkloadPrecisions = []int{8, 16, 32, 64, bigfixed.MaxLimbs}

// GenerateThresholdCandidates returns every threshold tried by a full
// calibration. MaxLimbs disables Karatsuba altogether.
func GenerateThresholdCandidates() []int {
	return []int{
		bigfixed.MinKaratsubaThreshold, 6, 8, 12, 16, 24, 32, 48, 64, 96,
		bigfixed.MaxLimbs,
	}
}

// GenerateQuickCandidates returns a small, sorted set of thresholds around
// estimate: half, the estimate itself and double, clamped to the accepted
// range.
func GenerateQuickCandidates(estimate int) []int {
	c := []int{clampThreshold(estimate / 2), clampThreshold(estimate), clampThreshold(estimate * 2)}
	slices.Sort(c)
	return slices.Compact(c)
}

func clampThreshold(t int) int {
	return min(max(t, bigfixed.MinKaratsubaThreshold), bigfixed.MaxLimbs)
}
