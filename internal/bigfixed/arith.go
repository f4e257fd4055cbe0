package bigfixed

// Add sets z = x + y. Both operands must share the same precision, which z
// takes on. z may alias x or y. Overflow past the 4-bit integer part wraps.
//
// Parameters:
//   - x: The first addend.
//   - y: The second addend.
//
// Returns:
//   - error: An error wrapping ErrPrecisionMismatch if x and y differ in
//     precision.
func (z *Number) Add(x, y *Number) error {
	if err := samePrecision(x, y); err != nil {
		return err
	}
	z.add(x, y, y.sign)
	return nil
}

// Sub sets z = x - y. It behaves as Add with the sign of y flipped.
func (z *Number) Sub(x, y *Number) error {
	if err := samePrecision(x, y); err != nil {
		return err
	}
	z.add(x, y, -y.sign)
	return nil
}

// add computes x + (ysign·|y|) into z.
func (z *Number) add(x, y *Number, ysign Sign) {
	n, xsign := x.n, x.sign
	switch {
	case xsign == Zero:
		z.Set(y)
		z.sign = ysign
		return
	case ysign == Zero:
		z.Set(x)
		return
	}

	xm, ym, zm := x.limbs[:n], y.limbs[:n], z.limbs[:n]
	if xsign == ysign {
		addVV(zm, xm, ym)
		z.n, z.sign = n, xsign
		z.normalize()
		return
	}

	switch cmpMag(xm, ym) {
	case 0:
		z.clear(n)
	case 1:
		subVV(zm, xm, ym)
		z.n, z.sign = n, xsign
	default:
		subVV(zm, ym, xm)
		z.n, z.sign = n, ysign
	}
}
