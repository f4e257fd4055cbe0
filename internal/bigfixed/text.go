package bigfixed

import (
	"fmt"
	"math/big"
	"math/bits"
)

// limbsPerWord is the number of limbs packed into one big.Word.
const limbsPerWord = bits.UintSize / LimbBits

// Mantissa returns x as a signed integer scaled by 2^(32n−4).
func (x *Number) Mantissa() *big.Int {
	words := make([]big.Word, (x.n+limbsPerWord-1)/limbsPerWord)
	for i, l := range x.limbs[:x.n] {
		words[i/limbsPerWord] |= big.Word(l) << (LimbBits * (i % limbsPerWord))
	}
	m := new(big.Int).SetBits(words)
	if x.sign == Negative {
		m.Neg(m)
	}
	return m
}

// FracBits returns the number of fractional bits at precision n.
func FracBits(n int) int { return LimbBits*n - IntBits }

// BigFloat returns x as an exact *big.Float.
func (x *Number) BigFloat() *big.Float {
	f := new(big.Float).SetPrec(uint(LimbBits * max(x.n, 1)))
	f.SetInt(x.Mantissa())
	return f.SetMantExp(f, -FracBits(x.n))
}

// SetBigFloat sets z to f truncated toward zero at precision n.
func (z *Number) SetBigFloat(f *big.Float, n int) error {
	if err := CheckPrecision(n); err != nil {
		return err
	}
	if f.IsInf() {
		return fmt.Errorf("%w: %v", ErrOutOfRange, f)
	}
	scaled := new(big.Float).SetMantExp(f, FracBits(n))
	m, _ := scaled.Int(nil)
	neg := m.Sign() < 0
	m.Abs(m)
	if m.BitLen() > LimbBits*n {
		return fmt.Errorf("%w: %s", ErrOutOfRange, f.Text('g', 10))
	}

	z.clear(n)
	for i, w := range m.Bits() {
		for j := 0; j < limbsPerWord; j++ {
			if k := i*limbsPerWord + j; k < n {
				z.limbs[k] = Limb(w >> (LimbBits * j))
			}
		}
	}
	z.sign = Positive
	if neg {
		z.sign = Negative
	}
	z.normalize()
	return nil
}

// Text formats x in decimal with the given number of fraction digits. A
// negative digits selects the shortest decimal that reads back to the same
// value at 32n bits of precision.
func (x *Number) Text(digits int) string {
	return x.BigFloat().Text('f', digits)
}

// String formats x with Text(-1).
func (x *Number) String() string {
	return x.Text(-1)
}
