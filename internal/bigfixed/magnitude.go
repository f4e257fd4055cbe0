package bigfixed

import "math/bits"

// Unsigned limb-vector primitives. Every routine reads its inputs one limb at
// a time before writing the matching output limb, so z may alias x or y.

func isZeroMag(x []Limb) bool {
	for _, l := range x {
		if l != 0 {
			return false
		}
	}
	return true
}

// cmpMag compares two equal-length magnitudes from the most significant limb.
func cmpMag(x, y []Limb) int {
	for i := len(x) - 1; i >= 0; i-- {
		switch {
		case x[i] > y[i]:
			return 1
		case x[i] < y[i]:
			return -1
		}
	}
	return 0
}

// addVV sets z = x + y over len(z) limbs and returns the carry out.
func addVV(z, x, y []Limb) Limb {
	var c uint32
	for i := range z {
		z[i], c = bits.Add32(x[i], y[i], c)
	}
	return c
}

// subVV sets z = x - y over len(z) limbs and returns the borrow out.
func subVV(z, x, y []Limb) Limb {
	var b uint32
	for i := range z {
		z[i], b = bits.Sub32(x[i], y[i], b)
	}
	return b
}

// addTo adds x into the low limbs of z and ripples the carry through the rest
// of z. len(x) must not exceed len(z).
func addTo(z, x []Limb) Limb {
	c := addVV(z[:len(x)], z[:len(x)], x)
	for i := len(x); c != 0 && i < len(z); i++ {
		z[i], c = bits.Add32(z[i], 0, c)
	}
	return c
}

// subFrom subtracts x from the low limbs of z and ripples the borrow through
// the rest of z. len(x) must not exceed len(z).
func subFrom(z, x []Limb) Limb {
	b := subVV(z[:len(x)], z[:len(x)], x)
	for i := len(x); b != 0 && i < len(z); i++ {
		z[i], b = bits.Sub32(z[i], 0, b)
	}
	return b
}

// shl1 sets z = x << 1 and returns the bit shifted out of the top limb.
func shl1(z, x []Limb) Limb {
	var c Limb
	for i := range z {
		next := x[i] >> (LimbBits - 1)
		z[i] = x[i]<<1 | c
		c = next
	}
	return c
}
