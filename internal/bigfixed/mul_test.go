package bigfixed

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// ─────────────────────────────────────────────────────────────────────────────
// Precision/Correctness Tests
// ─────────────────────────────────────────────────────────────────────────────

func TestMulSmall(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		x, y, want float64
	}{
		{0, 0, 0},
		{1, 1, 1},
		{1.5, 1.5, 2.25},
		{0.5, -0.5, -0.25},
		{-3, -3, 9},
		{2, 7.5, 15},
		{0.125, 0, 0},
		{4, 4, 0}, // 16 needs a fifth integer bit and wraps
		{-4, 4.5, -2},
	}

	for _, n := range []int{1, 2, 5, 40} {
		for _, tc := range testCases {
			x, y := mustFloat(t, tc.x, n), mustFloat(t, tc.y, n)
			var z Number
			if err := z.Mul(x, y, nil); err != nil {
				t.Fatal(err)
			}
			if got := z.Float64(); got != tc.want {
				t.Errorf("n=%d: %v × %v = %v, want %v", n, tc.x, tc.y, got, tc.want)
			}
			if tc.want == 0 && !z.IsZero() {
				t.Errorf("n=%d: %v × %v sign = %v, want 0", n, tc.x, tc.y, z.Sign())
			}
		}
	}
}

func TestMulSignRule(t *testing.T) {
	t.Parallel()
	pos, neg := mustFloat(t, 0.75, 3), mustFloat(t, -0.75, 3)
	var z Number
	for _, tc := range []struct {
		x, y *Number
		want Sign
	}{
		{pos, pos, Positive},
		{pos, neg, Negative},
		{neg, pos, Negative},
		{neg, neg, Positive},
	} {
		if err := z.Mul(tc.x, tc.y, nil); err != nil {
			t.Fatal(err)
		}
		if z.Sign() != tc.want {
			t.Errorf("%v × %v sign = %v, want %v", tc.x.Sign(), tc.y.Sign(), z.Sign(), tc.want)
		}
	}
}

func TestMulPrecisionMismatch(t *testing.T) {
	t.Parallel()
	var z Number
	err := z.Mul(mustFloat(t, 1, 4), mustFloat(t, 1, 5), nil)
	if !errors.Is(err, ErrPrecisionMismatch) {
		t.Errorf("Mul error = %v, want ErrPrecisionMismatch", err)
	}
	var uninit Number
	if err := z.Sqr(&uninit, nil); !errors.Is(err, ErrInvalidPrecision) {
		t.Errorf("Sqr(uninitialised) error = %v, want ErrInvalidPrecision", err)
	}
}

func TestMulAliasing(t *testing.T) {
	t.Parallel()
	x := mustFloat(t, 1.5, 6)
	if err := x.Mul(x, x, nil); err != nil {
		t.Fatal(err)
	}
	if x.Float64() != 2.25 {
		t.Errorf("x *= x = %v", x.Float64())
	}
	if err := x.Sqr(x, nil); err != nil {
		t.Fatal(err)
	}
	if x.Float64() != 5.0625 {
		t.Errorf("x = x² = %v, want 5.0625", x.Float64())
	}
}

// TestMulMatchesOracle_PropertyBased compares Mul and Sqr with the math/big
// truncated product at every precision, through whichever engine the default
// threshold selects.
func TestMulMatchesOracle_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	properties.Property("Mul equals the truncated big.Int product", prop.ForAll(
		func(seed int64, n int) bool {
			r := rand.New(rand.NewSource(seed))
			x, y := randomNumber(r, n), randomNumber(r, n)
			var z Number
			if err := z.Mul(x, y, nil); err != nil {
				return false
			}
			return checkMantissa(t, fmt.Sprintf("Mul n=%d", n), &z, oracleMul(x, y))
		},
		gen.Int64(), gen.IntRange(1, MaxLimbs),
	))

	properties.Property("Sqr is bit-identical to Mul(x, x)", prop.ForAll(
		func(seed int64, n int) bool {
			x := randomNumber(rand.New(rand.NewSource(seed)), n)
			s := NewScratch()
			var sq, mul Number
			if err := sq.Sqr(x, s); err != nil {
				return false
			}
			if err := mul.Mul(x, x, s); err != nil {
				return false
			}
			c, _ := sq.Cmp(&mul)
			return c == 0 && sq.Sign() == mul.Sign()
		},
		gen.Int64(), gen.IntRange(1, MaxLimbs),
	))

	properties.TestingRun(t)
}

// ─────────────────────────────────────────────────────────────────────────────
// Engine Agreement Tests
// ─────────────────────────────────────────────────────────────────────────────

// TestKaratsubaMatchesSchoolbook drives the limb engines directly with
// explicit thresholds so both sides of the dispatch are covered without
// touching the global setting.
func TestKaratsubaMatchesSchoolbook(t *testing.T) {
	t.Parallel()
	r := rand.New(rand.NewSource(42))
	sizes := []int{5, 6, 7, 8, 9, 16, 17, 31, 32, 33, 63, 64, 65, 100, 127, MaxLimbs}
	thresholds := []int{MinKaratsubaThreshold, 8, DefaultKaratsubaThreshold}

	for _, n := range sizes {
		for _, threshold := range thresholds {
			for trial := 0; trial < 4; trial++ {
				var a, b []Limb
				if trial == 0 {
					a, b = saturated(n).Limbs(), saturated(n).Limbs()
				} else {
					a, b = randomNumber(r, n).Limbs(), randomNumber(r, n).Limbs()
				}

				want := make([]Limb, 2*n)
				mulSchoolbook(want, a, b)
				got := make([]Limb, 2*n)
				karatsubaMul(got, a, b, NewScratch(), threshold)
				if !slices.Equal(got, want) {
					t.Fatalf("karatsubaMul n=%d threshold=%d trial=%d differs from schoolbook", n, threshold, trial)
				}

				wantSq := make([]Limb, 2*n)
				mulSchoolbook(wantSq, a, a)
				gotSq := make([]Limb, 2*n)
				sqrSchoolbook(gotSq, a)
				if !slices.Equal(gotSq, wantSq) {
					t.Fatalf("sqrSchoolbook n=%d trial=%d differs from schoolbook", n, trial)
				}
				karatsubaSqr(gotSq, a, NewScratch(), threshold)
				if !slices.Equal(gotSq, wantSq) {
					t.Fatalf("karatsubaSqr n=%d threshold=%d trial=%d differs from schoolbook", n, threshold, trial)
				}
			}
		}
	}
}

func TestSqrSaturatedCarries(t *testing.T) {
	t.Parallel()
	for _, n := range []int{1, 2, 3, 16, 17, MaxLimbs} {
		x := saturated(n)
		var sq, mul Number
		if err := sq.Sqr(x, nil); err != nil {
			t.Fatal(err)
		}
		if err := mul.Mul(x, x, nil); err != nil {
			t.Fatal(err)
		}
		if c, _ := sq.Cmp(&mul); c != 0 {
			t.Errorf("n=%d: Sqr(max) != Mul(max, max)", n)
		}
		checkMantissa(t, fmt.Sprintf("Sqr(max) n=%d", n), &sq, oracleMul(x, x))
	}
}

func TestKaratsubaThresholdClamp(t *testing.T) {
	old := KaratsubaThreshold()
	t.Cleanup(func() { SetKaratsubaThreshold(old) })

	SetKaratsubaThreshold(1)
	if got := KaratsubaThreshold(); got != MinKaratsubaThreshold {
		t.Errorf("threshold after Set(1) = %d, want %d", got, MinKaratsubaThreshold)
	}
	SetKaratsubaThreshold(48)
	if got := KaratsubaThreshold(); got != 48 {
		t.Errorf("threshold = %d, want 48", got)
	}
}

func TestMulIdenticalAcrossThresholds(t *testing.T) {
	old := KaratsubaThreshold()
	t.Cleanup(func() { SetKaratsubaThreshold(old) })

	r := rand.New(rand.NewSource(7))
	x, y := randomNumber(r, 96), randomNumber(r, 96)

	var results []*Number
	for _, threshold := range []int{MinKaratsubaThreshold, 16, 48, MaxLimbs} {
		SetKaratsubaThreshold(threshold)
		var z Number
		if err := z.Mul(x, y, nil); err != nil {
			t.Fatal(err)
		}
		results = append(results, &z)
	}
	for i := 1; i < len(results); i++ {
		if c, _ := results[i].Cmp(results[0]); c != 0 {
			t.Errorf("result %d differs across thresholds", i)
		}
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Benchmarks
// ─────────────────────────────────────────────────────────────────────────────

func BenchmarkMul(b *testing.B) {
	for _, n := range []int{4, 16, 32, 64, MaxLimbs} {
		r := rand.New(rand.NewSource(1))
		x, y := randomNumber(r, n), randomNumber(r, n)
		s := NewScratch()
		b.Run(fmt.Sprintf("limbs=%d", n), func(b *testing.B) {
			var z Number
			for i := 0; i < b.N; i++ {
				_ = z.Mul(x, y, s)
			}
		})
	}
}

func BenchmarkSqr(b *testing.B) {
	for _, n := range []int{4, 16, 32, 64, MaxLimbs} {
		x := randomNumber(rand.New(rand.NewSource(1)), n)
		s := NewScratch()
		b.Run(fmt.Sprintf("limbs=%d", n), func(b *testing.B) {
			var z Number
			for i := 0; i < b.N; i++ {
				_ = z.Sqr(x, s)
			}
		})
	}
}
