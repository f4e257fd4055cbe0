package bigfixed

import (
	"fmt"
	"math"
)

const (
	topFracScale = 1 << fracShift // 2^28
	limbScale    = 1 << LimbBits  // 2^32
)

// SetFloat64 sets z to d at precision n.
//
// The integer part goes to the top nibble of the most significant limb, the
// next 28 fractional bits fill the rest of that limb, and each lower limb
// takes the following 32 bits, stopping once the residual is exhausted. Every
// step scales by a power of two, so a double whose bits fit in 32n-4
// fractional bits converts exactly. Negative zero becomes Zero.
//
// Parameters:
//   - d: The value; must be finite with |d| < 16.
//   - n: The target precision.
//
// Returns:
//   - error: ErrOutOfRange, ErrInvalidPrecision or ErrCapacityExceeded.
func (z *Number) SetFloat64(d float64, n int) error {
	if err := CheckPrecision(n); err != nil {
		return err
	}
	if math.IsNaN(d) || math.IsInf(d, 0) || math.Abs(d) >= 1<<IntBits {
		return fmt.Errorf("%w: %v", ErrOutOfRange, d)
	}

	z.clear(n)
	if d == 0 {
		return nil
	}
	sign := Positive
	if d < 0 {
		sign = Negative
		d = -d
	}

	whole := math.Floor(d)
	d -= whole
	d *= topFracScale
	frac := math.Floor(d)
	d -= frac
	z.limbs[n-1] = Limb(whole)<<fracShift | Limb(frac)

	for i := n - 2; i >= 0 && d > 0; i-- {
		d *= limbScale
		l := math.Floor(d)
		d -= l
		z.limbs[i] = Limb(l)
	}

	z.sign = sign
	z.normalize()
	return nil
}

// Float64 approximates x by summing limb·2^(32i−(32n−4)) from the most
// significant limb down. It is exact whenever x fits in a double. Limbs whose
// weight underflows are skipped.
func (x *Number) Float64() float64 {
	if x.sign == Zero || x.n == 0 {
		return 0
	}
	n := x.n
	top := x.limbs[n-1]
	v := float64(top>>fracShift) + float64(top&fracMask)/topFracScale

	exp := -fracShift
	for i := n - 2; i >= 0; i-- {
		exp -= LimbBits
		if exp < -1074-LimbBits {
			break
		}
		if l := x.limbs[i]; l != 0 {
			v += math.Ldexp(float64(l), exp)
		}
	}
	if x.sign == Negative {
		v = -v
	}
	return v
}
