//go:build gmp

// This file provides a libgmp-backed multiplication, compiled only with the
// "gmp" build tag (go build -tags=gmp, libgmp-dev required). It produces the
// same truncated result as Mul and serves as an independent cross-check of
// the schoolbook and Karatsuba limb engines.

package bigfixed

import (
	"encoding/binary"

	"github.com/ncw/gmp"
)

// MulGMP sets z = x · y using libgmp for the full product.
func (z *Number) MulGMP(x, y *Number) error {
	if err := samePrecision(x, y); err != nil {
		return err
	}
	n := x.n
	sign := x.sign * y.sign
	if sign == Zero {
		z.clear(n)
		return nil
	}

	a := new(gmp.Int).SetBytes(limbsToBytes(x.limbs[:n]))
	b := new(gmp.Int).SetBytes(limbsToBytes(y.limbs[:n]))
	a.Mul(a, b)

	var p [productLimbs]Limb
	bytesToLimbs(p[:2*n], a.Bytes())
	z.rescale(p[:2*n], n)
	z.sign = sign
	z.normalize()
	return nil
}

// limbsToBytes encodes little-endian limbs as a big-endian byte string.
func limbsToBytes(limbs []Limb) []byte {
	buf := make([]byte, 4*len(limbs))
	for i, l := range limbs {
		binary.BigEndian.PutUint32(buf[len(buf)-4*(i+1):], l)
	}
	return buf
}

// bytesToLimbs decodes a big-endian byte string into little-endian limbs,
// dropping anything that does not fit.
func bytesToLimbs(dst []Limb, b []byte) {
	clear(dst)
	for i := range dst {
		end := len(b) - 4*i
		if end <= 0 {
			return
		}
		var word [4]byte
		start := max(end-4, 0)
		copy(word[4-(end-start):], b[start:end])
		dst[i] = binary.BigEndian.Uint32(word[:])
	}
}
