package calibration

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/agbru/deepzoom/internal/bigfixed"
)

// ─────────────────────────────────────────────────────────────────────────────
// Micro-benchmark configuration
// ─────────────────────────────────────────────────────────────────────────────

const (
	// MicroBenchIterations is the number of timed batches per measurement;
	// the fastest batch is kept.
	MicroBenchIterations = 3

	// MicroBenchBatch is the number of products per batch.
	MicroBenchBatch = 64

	// MicroBenchTimeout bounds the whole micro-benchmark.
	MicroBenchTimeout = 250 * time.Millisecond
)

// thresholdMu serialises everything in this package that changes the
// process-wide Karatsuba threshold. Products computed concurrently elsewhere
// stay exact; only their speed changes.
var thresholdMu sync.Mutex

// Crossover compares both multiplication paths at one limb count.
type Crossover struct {
	Limbs      int           `json:"limbs"`
	Schoolbook time.Duration `json:"schoolbook_ns"`
	Karatsuba  time.Duration `json:"karatsuba_ns"`
}

// KaratsubaWins reports whether the split product was strictly faster.
func (c Crossover) KaratsubaWins() bool { return c.Karatsuba < c.Schoolbook }

// MicroBenchmark estimates the threshold from isolated products.
type MicroBenchmark struct {
	// Sizes are the limb counts to measure (default MicroBenchSizes).
	Sizes []int
	// Iterations is the number of batches per measurement.
	Iterations int
	// Timeout bounds the whole run.
	Timeout time.Duration
	// Seed makes the operands reproducible.
	Seed uint64
}

// NewMicroBenchmark returns a MicroBenchmark with the default settings.
func NewMicroBenchmark() *MicroBenchmark {
	return &MicroBenchmark{
		Sizes:      MicroBenchSizes,
		Iterations: MicroBenchIterations,
		Timeout:    MicroBenchTimeout,
		Seed:       1,
	}
}

// Run measures every size until done or out of time. Sizes that could not be
// measured are left out.
//
// The process-wide threshold is restored before Run returns.
//
// Returns:
//   - []Crossover: One entry per measured size, in the order of Sizes.
//   - error: The context error if nothing at all could be measured.
func (mb *MicroBenchmark) Run(ctx context.Context) ([]Crossover, error) {
	ctx, cancel := context.WithTimeout(ctx, mb.Timeout)
	defer cancel()

	thresholdMu.Lock()
	defer thresholdMu.Unlock()
	saved := bigfixed.KaratsubaThreshold()
	defer bigfixed.SetKaratsubaThreshold(saved)

	rng := rand.New(rand.NewPCG(mb.Seed, mb.Seed^0x9e3779b97f4a7c15))
	scratch := bigfixed.NewScratch()
	var out []Crossover
	for _, n := range mb.Sizes {
		if n <= bigfixed.MinKaratsubaThreshold || n > bigfixed.MaxLimbs {
			continue
		}
		if ctx.Err() != nil {
			break
		}
		x, y, z, err := randomOperands(rng, n)
		if err != nil {
			return nil, err
		}
		// n <= threshold takes the schoolbook path; n-1 splits exactly once.
		school := mb.measure(ctx, bigfixed.MaxLimbs, x, y, z, scratch)
		kara := mb.measure(ctx, max(n-1, bigfixed.MinKaratsubaThreshold), x, y, z, scratch)
		if ctx.Err() != nil {
			break
		}
		out = append(out, Crossover{Limbs: n, Schoolbook: school, Karatsuba: kara})
	}
	if len(out) == 0 && ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return out, nil
}

func (mb *MicroBenchmark) measure(ctx context.Context, threshold int, x, y, z *bigfixed.Number, s *bigfixed.Scratch) time.Duration {
	bigfixed.SetKaratsubaThreshold(threshold)
	best := time.Duration(1<<63 - 1)
	for range max(mb.Iterations, 1) {
		if ctx.Err() != nil {
			break
		}
		start := time.Now()
		for range MicroBenchBatch {
			_ = z.Mul(x, y, s)
			_ = z.Sqr(x, s)
		}
		best = min(best, time.Since(start))
	}
	return best
}

func randomOperands(rng *rand.Rand, n int) (x, y, z *bigfixed.Number, err error) {
	limbs := make([]bigfixed.Limb, n)
	x, y, z = new(bigfixed.Number), new(bigfixed.Number), new(bigfixed.Number)
	for _, v := range []*bigfixed.Number{x, y} {
		for i := range limbs {
			limbs[i] = rng.Uint32()
		}
		if err = v.SetLimbs(limbs, rng.IntN(2) == 0); err != nil {
			return nil, nil, nil, err
		}
	}
	if err = z.SetZero(n); err != nil {
		return nil, nil, nil, err
	}
	return x, y, z, nil
}

// EstimateThreshold turns crossovers into a threshold: the largest measured
// limb count at which schoolbook was at least as fast, so that Karatsuba is
// used only above it. With no such size the minimum is returned; with no
// measurements the built-in default.
func EstimateThreshold(crossovers []Crossover) int {
	if len(crossovers) == 0 {
		return bigfixed.DefaultKaratsubaThreshold
	}
	best := bigfixed.MinKaratsubaThreshold
	for _, c := range crossovers {
		if !c.KaratsubaWins() && c.Limbs > best {
			best = c.Limbs
		}
	}
	return best
}
