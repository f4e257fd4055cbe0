package bigfixed

import (
	"errors"
	"math/big"
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestAddSubSmall(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		x, y     float64
		sum, dif float64
	}{
		{1.5, 2.25, 3.75, -0.75},
		{1, -1, 0, 2},
		{-0.5, 0.25, -0.25, -0.75},
		{0, 3.125, 3.125, -3.125},
		{-7, -8, -15, 1},
		{0, 0, 0, 0},
	}

	for _, tc := range testCases {
		x, y := mustFloat(t, tc.x, 3), mustFloat(t, tc.y, 3)
		var z Number
		if err := z.Add(x, y); err != nil {
			t.Fatal(err)
		}
		if got := z.Float64(); got != tc.sum {
			t.Errorf("%v + %v = %v, want %v", tc.x, tc.y, got, tc.sum)
		}
		if tc.sum == 0 && z.Sign() != Zero {
			t.Errorf("%v + %v: sign = %v, want 0", tc.x, tc.y, z.Sign())
		}
		if err := z.Sub(x, y); err != nil {
			t.Fatal(err)
		}
		if got := z.Float64(); got != tc.dif {
			t.Errorf("%v - %v = %v, want %v", tc.x, tc.y, got, tc.dif)
		}
	}
}

func TestAddAliasing(t *testing.T) {
	t.Parallel()
	x := mustFloat(t, 1.25, 4)
	if err := x.Add(x, x); err != nil {
		t.Fatal(err)
	}
	if x.Float64() != 2.5 {
		t.Errorf("x += x = %v, want 2.5", x.Float64())
	}
	if err := x.Sub(x, x); err != nil {
		t.Fatal(err)
	}
	if !x.IsZero() {
		t.Errorf("x -= x = %v, want 0", x.Float64())
	}
}

func TestAddWrapsPastIntegerNibble(t *testing.T) {
	t.Parallel()
	x, y := mustFloat(t, 9, 2), mustFloat(t, 8, 2)
	var z Number
	if err := z.Add(x, y); err != nil {
		t.Fatal(err)
	}
	if z.Float64() != 1 {
		t.Errorf("9 + 8 = %v, want wrap to 1", z.Float64())
	}
}

func TestAddPrecisionMismatch(t *testing.T) {
	t.Parallel()
	var z Number
	x, y := mustFloat(t, 1, 2), mustFloat(t, 1, 3)
	if err := z.Add(x, y); !errors.Is(err, ErrPrecisionMismatch) {
		t.Errorf("Add error = %v, want ErrPrecisionMismatch", err)
	}
	if err := z.Sub(x, y); !errors.Is(err, ErrPrecisionMismatch) {
		t.Errorf("Sub error = %v, want ErrPrecisionMismatch", err)
	}
}

// TestAddSub_PropertyBased checks Add and Sub against signed math/big sums
// reduced to the limb range.
func TestAddSub_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	properties.Property("Add matches the signed big.Int sum", prop.ForAll(
		func(seed int64, n int) bool {
			r := rand.New(rand.NewSource(seed))
			x, y := randomNumber(r, n), randomNumber(r, n)
			var z Number
			if err := z.Add(x, y); err != nil {
				return false
			}
			want := wrap(new(big.Int).Add(x.Mantissa(), y.Mantissa()), n)
			return checkMantissa(t, "Add", &z, want)
		},
		gen.Int64(), gen.IntRange(1, MaxLimbs),
	))

	properties.Property("Sub matches the signed big.Int difference", prop.ForAll(
		func(seed int64, n int) bool {
			r := rand.New(rand.NewSource(seed))
			x, y := randomNumber(r, n), randomNumber(r, n)
			var z Number
			if err := z.Sub(x, y); err != nil {
				return false
			}
			want := wrap(new(big.Int).Sub(x.Mantissa(), y.Mantissa()), n)
			return checkMantissa(t, "Sub", &z, want)
		},
		gen.Int64(), gen.IntRange(1, MaxLimbs),
	))

	properties.Property("x - x is zero", prop.ForAll(
		func(seed int64, n int) bool {
			x := randomNumber(rand.New(rand.NewSource(seed)), n)
			var z Number
			_ = z.Sub(x, x)
			return z.IsZero() && z.Precision() == n
		},
		gen.Int64(), gen.IntRange(1, MaxLimbs),
	))

	properties.TestingRun(t)
}
