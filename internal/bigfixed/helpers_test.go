package bigfixed

import (
	"math/big"
	"math/rand"
	"testing"
)

// randomNumber draws every active limb uniformly, so the integer nibble spans
// 0..15 and both the wrap-around and the carry paths get exercised.
func randomNumber(r *rand.Rand, n int) *Number {
	limbs := make([]Limb, n)
	for i := range limbs {
		limbs[i] = r.Uint32()
	}
	var x Number
	if err := x.SetLimbs(limbs, r.Intn(2) == 0); err != nil {
		panic(err)
	}
	return &x
}

// saturated returns a Number with every limb set to 0xFFFFFFFF.
func saturated(n int) *Number {
	limbs := make([]Limb, n)
	for i := range limbs {
		limbs[i] = ^Limb(0)
	}
	var x Number
	if err := x.SetLimbs(limbs, false); err != nil {
		panic(err)
	}
	return &x
}

// wrap reduces a signed mantissa to the magnitude range of n limbs, keeping
// the sign, which is how every Number operation treats overflow.
func wrap(m *big.Int, n int) *big.Int {
	mask := new(big.Int).Lsh(big.NewInt(1), uint(LimbBits*n))
	mask.Sub(mask, big.NewInt(1))
	out := new(big.Int).Abs(m)
	out.And(out, mask)
	if m.Sign() < 0 {
		out.Neg(out)
	}
	return out
}

// oracleMul is the reference truncated product computed with math/big.
func oracleMul(x, y *Number) *big.Int {
	n := x.Precision()
	p := new(big.Int).Mul(x.Mantissa(), y.Mantissa())
	neg := p.Sign() < 0
	p.Abs(p)
	p.Rsh(p, uint(FracBits(n)))
	if neg {
		p.Neg(p)
	}
	return wrap(p, n)
}

func mustFloat(t *testing.T, d float64, n int) *Number {
	t.Helper()
	var x Number
	if err := x.SetFloat64(d, n); err != nil {
		t.Fatalf("SetFloat64(%v, %d): %v", d, n, err)
	}
	return &x
}

// checkMantissa compares z with an oracle mantissa, including the sign tag.
func checkMantissa(t *testing.T, name string, z *Number, want *big.Int) bool {
	t.Helper()
	got := z.Mantissa()
	if got.Cmp(want) != 0 {
		t.Errorf("%s: mantissa = %s, want %s", name, got, want)
		return false
	}
	if Sign(want.Sign()) != z.Sign() {
		t.Errorf("%s: sign = %v, want %v", name, z.Sign(), Sign(want.Sign()))
		return false
	}
	return true
}
