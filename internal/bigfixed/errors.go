package bigfixed

import (
	"errors"
	"fmt"
)

var (
	// ErrPrecisionMismatch is returned when the operands of a binary operation
	// do not share the same limb count.
	ErrPrecisionMismatch = errors.New("bigfixed: precision mismatch")

	// ErrCapacityExceeded is returned when a requested limb count is larger
	// than MaxLimbs.
	ErrCapacityExceeded = errors.New("bigfixed: capacity exceeded")

	// ErrInvalidPrecision is returned for limb counts below one.
	ErrInvalidPrecision = errors.New("bigfixed: invalid precision")

	// ErrOutOfRange is returned when a value cannot be represented with a
	// 4-bit integer part (non-finite, or magnitude of 16 or more).
	ErrOutOfRange = errors.New("bigfixed: value out of range")
)

// CheckPrecision reports whether n is a usable limb count.
//
// Parameters:
//   - n: The requested number of active limbs.
//
// Returns:
//   - error: nil, or an error wrapping ErrInvalidPrecision or ErrCapacityExceeded.
func CheckPrecision(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: %d limbs", ErrInvalidPrecision, n)
	}
	if n > MaxLimbs {
		return fmt.Errorf("%w: %d limbs (max %d)", ErrCapacityExceeded, n, MaxLimbs)
	}
	return nil
}

func samePrecision(x, y *Number) error {
	if x.n != y.n {
		return fmt.Errorf("%w: %d vs %d limbs", ErrPrecisionMismatch, x.n, y.n)
	}
	return CheckPrecision(x.n)
}
