package bigfixed

// Limb is one 32-bit digit of a Number.
type Limb = uint32

const (
	// LimbBits is the width of a limb in bits.
	LimbBits = 32
	// MaxLimbs is the storage capacity of a Number (4096 bits).
	MaxLimbs = 128
	// IntBits is the width of the integer part held in the top limb.
	IntBits = 4

	fracShift = LimbBits - IntBits // fractional bits in the top limb
	fracMask  = Limb(1)<<fracShift - 1
)

// Sign is the sign tag of a Number.
type Sign int8

const (
	Negative Sign = -1
	Zero     Sign = 0
	Positive Sign = 1
)

// String returns "-", "0" or "+".
func (s Sign) String() string {
	switch s {
	case Negative:
		return "-"
	case Positive:
		return "+"
	default:
		return "0"
	}
}

// Number is a fixed-point value with a 4-bit integer part and 32n-4
// fractional bits, where n is the value's active limb count.
//
// The zero value has precision 0 and must be initialised with SetZero,
// SetFloat64, SetString, SetLimbs or Set before use as an operand.
// Limbs at index n and above are ignored.
type Number struct {
	limbs [MaxLimbs]Limb
	n     int
	sign  Sign
}

// New returns a zero Number with precision n.
//
// Parameters:
//   - n: The number of active limbs (1..MaxLimbs).
//
// Returns:
//   - *Number: The zero value.
//   - error: An error if n is not a valid precision.
func New(n int) (*Number, error) {
	z := new(Number)
	if err := z.SetZero(n); err != nil {
		return nil, err
	}
	return z, nil
}

// SetZero clears the first n limbs, sets the sign to Zero and fixes the
// precision of z to n.
func (z *Number) SetZero(n int) error {
	if err := CheckPrecision(n); err != nil {
		return err
	}
	z.clear(n)
	return nil
}

func (z *Number) clear(n int) {
	clear(z.limbs[:n])
	z.n = n
	z.sign = Zero
}

// Set copies the limbs, precision and sign of x into z and returns z.
func (z *Number) Set(x *Number) *Number {
	if z != x {
		copy(z.limbs[:x.n], x.limbs[:x.n])
		z.n = x.n
		z.sign = x.sign
	}
	return z
}

// SetLimbs sets z from a little-endian limb slice. Its length becomes the
// precision. The sign is Zero when every limb is zero, otherwise Negative or
// Positive according to negative.
func (z *Number) SetLimbs(limbs []Limb, negative bool) error {
	if err := CheckPrecision(len(limbs)); err != nil {
		return err
	}
	z.n = copy(z.limbs[:], limbs)
	z.sign = Positive
	if negative {
		z.sign = Negative
	}
	z.normalize()
	return nil
}

// Limbs returns a copy of the active limbs, least significant first.
func (x *Number) Limbs() []Limb {
	out := make([]Limb, x.n)
	copy(out, x.limbs[:x.n])
	return out
}

// Precision returns the active limb count.
func (x *Number) Precision() int { return x.n }

// Sign returns the sign tag.
func (x *Number) Sign() Sign { return x.sign }

// IsZero reports whether x is zero.
func (x *Number) IsZero() bool { return x.sign == Zero }

// Neg sets z to -x and returns z.
func (z *Number) Neg(x *Number) *Number {
	z.Set(x)
	z.sign = -z.sign
	return z
}

// Abs sets z to |x| and returns z.
func (z *Number) Abs(x *Number) *Number {
	z.Set(x)
	if z.sign == Negative {
		z.sign = Positive
	}
	return z
}

// Double sets z to 2·x by shifting the limbs left one bit. A carry out of the
// top limb is dropped.
func (z *Number) Double(x *Number) *Number {
	n := x.n
	shl1(z.limbs[:n], x.limbs[:n])
	z.n = n
	z.sign = x.sign
	z.normalize()
	return z
}

// CmpAbs compares |x| and |y| and returns -1, 0 or +1.
func (x *Number) CmpAbs(y *Number) (int, error) {
	if err := samePrecision(x, y); err != nil {
		return 0, err
	}
	return cmpMag(x.limbs[:x.n], y.limbs[:y.n]), nil
}

// Cmp compares x and y and returns -1, 0 or +1.
func (x *Number) Cmp(y *Number) (int, error) {
	if err := samePrecision(x, y); err != nil {
		return 0, err
	}
	switch {
	case x.sign < y.sign:
		return -1, nil
	case x.sign > y.sign:
		return 1, nil
	case x.sign == Zero:
		return 0, nil
	}
	c := cmpMag(x.limbs[:x.n], y.limbs[:y.n])
	if x.sign == Negative {
		c = -c
	}
	return c, nil
}

// normalize forces the sign to Zero when the magnitude is all zero.
func (z *Number) normalize() {
	if isZeroMag(z.limbs[:z.n]) {
		z.sign = Zero
	}
}
