package bigfixed

// Mul sets z = x · y, truncated to the precision of the operands.
//
// The full 2n-limb product is formed first (schoolbook or Karatsuba depending
// on KaratsubaThreshold), then rescaled by dropping 32n-4 fractional bits:
// result limb i is product[n+i]<<4 | product[n+i-1]>>28. Integer bits that do
// not fit in the top nibble are discarded.
//
// Parameters:
//   - x, y: The factors. They must share the same precision.
//   - s: Temporary storage. nil borrows one from an internal pool.
//
// Returns:
//   - error: An error wrapping ErrPrecisionMismatch if the precisions differ.
func (z *Number) Mul(x, y *Number, s *Scratch) error {
	if err := samePrecision(x, y); err != nil {
		return err
	}
	n := x.n
	sign := x.sign * y.sign
	if sign == Zero {
		z.clear(n)
		return nil
	}
	if s == nil {
		s = AcquireScratch()
		defer ReleaseScratch(s)
	}

	p := s.product(n)
	if t := KaratsubaThreshold(); n <= t {
		mulSchoolbook(p, x.limbs[:n], y.limbs[:n])
	} else {
		karatsubaMul(p, x.limbs[:n], y.limbs[:n], s, t)
	}
	z.rescale(p, n)
	z.sign = sign
	z.normalize()
	return nil
}

// Sqr sets z = x², bit-identical to Mul(x, x, s) at every precision.
// The result is never negative.
func (z *Number) Sqr(x *Number, s *Scratch) error {
	n := x.n
	if err := CheckPrecision(n); err != nil {
		return err
	}
	if x.sign == Zero {
		z.clear(n)
		return nil
	}
	if s == nil {
		s = AcquireScratch()
		defer ReleaseScratch(s)
	}

	p := s.product(n)
	if t := KaratsubaThreshold(); n <= t {
		sqrSchoolbook(p, x.limbs[:n])
	} else {
		karatsubaSqr(p, x.limbs[:n], s, t)
	}
	z.rescale(p, n)
	z.sign = Positive
	z.normalize()
	return nil
}

// rescale shifts the 2n-limb product p right by 32n-4 bits into z.
func (z *Number) rescale(p []Limb, n int) {
	for i := 0; i < n; i++ {
		z.limbs[i] = p[n+i]<<IntBits | p[n+i-1]>>fracShift
	}
	z.n = n
}

// mulSchoolbook sets p = a · b. len(p) must be len(a)+len(b).
func mulSchoolbook(p, a, b []Limb) {
	clear(p)
	for i, ai := range a {
		if ai == 0 {
			continue
		}
		var carry uint64
		for j, bj := range b {
			t := uint64(ai)*uint64(bj) + uint64(p[i+j]) + carry
			p[i+j] = Limb(t)
			carry = t >> LimbBits
		}
		p[i+len(b)] = Limb(carry)
	}
}

// sqrSchoolbook sets p = a². len(p) must be 2·len(a).
//
// Each off-diagonal product a[i]·a[j] (i < j) is accumulated once, the sum is
// doubled by a one-bit shift, and the diagonal squares are added with a
// carry that ripples across the whole vector.
func sqrSchoolbook(p, a []Limb) {
	n := len(a)
	clear(p)
	for i := 0; i < n; i++ {
		ai := uint64(a[i])
		var carry uint64
		for j := i + 1; j < n; j++ {
			t := ai*uint64(a[j]) + uint64(p[i+j]) + carry
			p[i+j] = Limb(t)
			carry = t >> LimbBits
		}
		p[i+n] = Limb(carry)
	}

	shl1(p, p)

	var carry uint64
	for i := 0; i < n; i++ {
		d := uint64(a[i]) * uint64(a[i])
		lo := uint64(p[2*i]) + uint64(Limb(d)) + carry
		p[2*i] = Limb(lo)
		hi := uint64(p[2*i+1]) + d>>LimbBits + lo>>LimbBits
		p[2*i+1] = Limb(hi)
		carry = hi >> LimbBits
	}
}
