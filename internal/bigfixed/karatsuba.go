package bigfixed

import "sync/atomic"

// ─────────────────────────────────────────────────────────────────────────────
// Configuration
// ─────────────────────────────────────────────────────────────────────────────

// DefaultKaratsubaThreshold is the limb count at or below which Mul and Sqr
// use the schoolbook convolution.
const DefaultKaratsubaThreshold = 16

// MinKaratsubaThreshold is the smallest accepted threshold. Below it the
// half-size operands stop shrinking.
const MinKaratsubaThreshold = 4

var karatsubaThreshold atomic.Int64

func init() {
	karatsubaThreshold.Store(DefaultKaratsubaThreshold)
}

// SetKaratsubaThreshold sets the schoolbook/Karatsuba dispatch point.
// Values below MinKaratsubaThreshold are raised to it. Safe for concurrent
// use; multiplications already in flight keep the value they started with.
func SetKaratsubaThreshold(limbs int) {
	if limbs < MinKaratsubaThreshold {
		limbs = MinKaratsubaThreshold
	}
	karatsubaThreshold.Store(int64(limbs))
}

// KaratsubaThreshold returns the current dispatch point in limbs.
func KaratsubaThreshold() int {
	return int(karatsubaThreshold.Load())
}

// ─────────────────────────────────────────────────────────────────────────────
// Core Karatsuba on limb slices
// ─────────────────────────────────────────────────────────────────────────────

// karatsubaMul sets p = a · b for len(a) == len(b) == m and len(p) == 2m.
//
//	z0 = a0·b0 → p[:2k]
//	z2 = a1·b1 → p[2k:]
//	z1 = (a0+a1)(b0+b1) − z0 − z2, added at limb offset k
func karatsubaMul(p, a, b []Limb, s *Scratch, threshold int) {
	m := len(a)
	if m <= threshold {
		mulSchoolbook(p, a, b)
		return
	}

	k := m / 2
	h := m - k
	a0, a1 := a[:k], a[k:]
	b0, b1 := b[:k], b[k:]

	karatsubaMul(p[:2*k], a0, b0, s, threshold)
	karatsubaMul(p[2*k:], a1, b1, s, threshold)

	mark := s.mark()
	defer s.release(mark)

	sa := s.alloc(h + 1)
	copy(sa, a1)
	addTo(sa, a0)
	sb := s.alloc(h + 1)
	copy(sb, b1)
	addTo(sb, b0)

	z1 := s.alloc(2 * (h + 1))
	karatsubaMul(z1, sa, sb, s, threshold)
	subFrom(z1, p[:2*k])
	subFrom(z1, p[2*k:])
	addTo(p[k:], z1)
}

// karatsubaSqr sets p = a² for len(p) == 2·len(a).
func karatsubaSqr(p, a []Limb, s *Scratch, threshold int) {
	m := len(a)
	if m <= threshold {
		sqrSchoolbook(p, a)
		return
	}

	k := m / 2
	h := m - k
	a0, a1 := a[:k], a[k:]

	karatsubaSqr(p[:2*k], a0, s, threshold)
	karatsubaSqr(p[2*k:], a1, s, threshold)

	mark := s.mark()
	defer s.release(mark)

	sa := s.alloc(h + 1)
	copy(sa, a1)
	addTo(sa, a0)

	z1 := s.alloc(2 * (h + 1))
	karatsubaSqr(z1, sa, s, threshold)
	subFrom(z1, p[:2*k])
	subFrom(z1, p[2*k:])
	addTo(p[k:], z1)
}
