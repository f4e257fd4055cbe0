package mandelbrot

import (
	"errors"
	"math"
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/agbru/deepzoom/internal/bigfixed"
)

func number(t *testing.T, d float64, n int) *bigfixed.Number {
	t.Helper()
	var x bigfixed.Number
	if err := x.SetFloat64(d, n); err != nil {
		t.Fatalf("SetFloat64(%v, %d): %v", d, n, err)
	}
	return &x
}

func TestStep(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name           string
		zr, zi, cr, ci float64
		wantR, wantI   float64
	}{
		{"origin maps to c", 0, 0, -0.75, 0.125, -0.75, 0.125},
		{"real square", 1.5, 0, 0, 0, 2.25, 0},
		{"imaginary square", 0, 1, 0, 0, -1, 0},
		{"full complex", 1, 2, 0.5, -0.25, -2.5, 3.75},
		{"negative parts", -0.5, -0.5, 0, 0, 0, 0.5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			const n = 3
			zr, zi := number(t, tc.zr, n), number(t, tc.zi, n)
			cr, ci := number(t, tc.cr, n), number(t, tc.ci, n)
			var tmp1, tmp2 bigfixed.Number
			if err := Step(zr, zi, cr, ci, &tmp1, &tmp2, nil); err != nil {
				t.Fatal(err)
			}
			if zr.Float64() != tc.wantR || zi.Float64() != tc.wantI {
				t.Errorf("step = (%v, %v), want (%v, %v)", zr.Float64(), zi.Float64(), tc.wantR, tc.wantI)
			}
		})
	}
}

func TestStepPrecisionMismatch(t *testing.T) {
	t.Parallel()
	var tmp1, tmp2 bigfixed.Number
	err := Step(number(t, 0, 2), number(t, 0, 2), number(t, 1, 3), number(t, 0, 3), &tmp1, &tmp2, nil)
	if !errors.Is(err, bigfixed.ErrPrecisionMismatch) {
		t.Errorf("Step error = %v, want ErrPrecisionMismatch", err)
	}
}

func TestEscaped(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		re, im    float64
		threshold float64
		want      bool
	}{
		{2, 0, 4, false}, // strict comparison
		{2, 0.001, 4, true},
		{1.5, 1.5, 4, true},
		{0, 0, 0, false},
		{-1, -1, 1.99, true},
	}
	for _, tc := range testCases {
		if got := Escaped(number(t, tc.re, 2), number(t, tc.im, 2), tc.threshold); got != tc.want {
			t.Errorf("Escaped(%v, %v, %v) = %v, want %v", tc.re, tc.im, tc.threshold, got, tc.want)
		}
	}
	var uninit bigfixed.Number
	if Escaped(&uninit, &uninit, -1) {
		t.Error("uninitialised operands reported as escaped")
	}
}

func TestIterateKnownPoints(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name    string
		cr, ci  string
		maxIter int
		want    int
	}{
		{"origin never escapes", "0", "0", 1000, 1000},
		{"zero budget", "3", "3", 0, 0},
		// z1 = 2 sits on the radius (not beyond it); z2 = 6 escapes.
		{"real axis tip", "2", "0", 10, 2},
		{"outside after one step", "2.5", "0", 10, 1},
		{"period two", "-1", "0", 500, 500},
		{"cusp", "0.25", "0", 300, 300},
		{"just outside the cusp", "0.26", "0", 1000, 30},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			for _, n := range []int{1, 2, 4, 17} {
				got, err := Iterate(tc.cr, tc.ci, tc.maxIter, n)
				if err != nil {
					t.Fatal(err)
				}
				if got != tc.want {
					t.Errorf("Iterate(%s, %s, %d, n=%d) = %d, want %d", tc.cr, tc.ci, tc.maxIter, n, got, tc.want)
				}
			}
		})
	}
}

func TestIterateErrors(t *testing.T) {
	t.Parallel()
	if _, err := Iterate("0", "0", -1, 2); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("negative maxIter error = %v", err)
	}
	if _, err := Iterate("0", "0", 10, 0); !errors.Is(err, bigfixed.ErrInvalidPrecision) {
		t.Errorf("precision 0 error = %v", err)
	}
	if _, err := Iterate("0", "0", 10, bigfixed.MaxLimbs+1); !errors.Is(err, bigfixed.ErrCapacityExceeded) {
		t.Errorf("precision over capacity error = %v", err)
	}
	if _, err := Iterate("20", "0", 10, 2); !errors.Is(err, bigfixed.ErrOutOfRange) {
		t.Errorf("coordinate 20 error = %v", err)
	}
}

func TestSmoothIteration(t *testing.T) {
	t.Parallel()
	// |z|² = 2^(2^k·2) makes log2(log2(|z|²)/2) = k exactly.
	for k := 0; k < 4; k++ {
		magSq := math.Pow(2, 2*math.Pow(2, float64(k)))
		got := SmoothIteration(10, magSq)
		want := 11 - float64(k)
		if math.Abs(got-want) > 1e-12 {
			t.Errorf("SmoothIteration(10, %v) = %v, want %v", magSq, got, want)
		}
	}
}

// TestMandelbrotProperties_PropertyBased checks invariants that must hold for
// any input.
func TestMandelbrotProperties_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("Escaped is monotonic in the threshold", prop.ForAll(
		func(re, im, t1, t2 float64) bool {
			lo, hi := math.Min(t1, t2), math.Max(t1, t2)
			var x, y bigfixed.Number
			_ = x.SetFloat64(re, 3)
			_ = y.SetFloat64(im, 3)
			return !Escaped(&x, &y, hi) || Escaped(&x, &y, lo)
		},
		gen.Float64Range(-4, 4), gen.Float64Range(-4, 4),
		gen.Float64Range(0, 40), gen.Float64Range(0, 40),
	))

	properties.Property("Iterate of the origin returns maxIter", prop.ForAll(
		func(maxIter, n int) bool {
			got, err := Iterate("0", "0", maxIter, n)
			return err == nil && got == maxIter
		},
		gen.IntRange(0, 300), gen.IntRange(1, bigfixed.MaxLimbs),
	))

	properties.Property("Iterate stays within [0, maxIter]", prop.ForAll(
		func(cr, ci float64, maxIter int) bool {
			w := NewWorkspace()
			got, err := w.Iterate(formatCoord(cr), formatCoord(ci), maxIter, 3)
			return err == nil && got >= 0 && got <= maxIter
		},
		gen.Float64Range(-2.5, 1.5), gen.Float64Range(-1.5, 1.5), gen.IntRange(0, 200),
	))

	properties.TestingRun(t)
}

func formatCoord(d float64) string {
	return strconv.FormatFloat(d, 'f', 12, 64)
}
