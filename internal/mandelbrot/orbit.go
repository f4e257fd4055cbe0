package mandelbrot

import (
	"fmt"
)

// Orbit is a reference orbit downconverted to double precision.
type Orbit struct {
	// Re and Im hold z₀ … z_Steps; z₀ is always the origin.
	Re, Im []float64
	// Steps is the number of iterations actually computed.
	Steps int
	// EscapeIter is the orbit index at which |z|² first exceeded
	// OrbitEscapeRadiusSq, or -1 if it never did.
	EscapeIter int
}

// ExtendedOrbit is an Orbit plus the per-step z² terms used by series
// approximation.
type ExtendedOrbit struct {
	Orbit
	// Z2Re[i+1] is zr² − zi² of the iterate that step i squared, taken from
	// the fixed-point squares. Z2Im[i+1] is 2·Re[i]·Im[i] from the
	// downconverted orbit. Index 0 is zero.
	Z2Re, Z2Im []float64
}

// OrbitLen returns the buffer length a reference orbit of maxIter needs.
func OrbitLen(maxIter int) int { return maxIter + 1 }

func checkOrbitBuffers(maxIter int, bufs ...[]float64) error {
	if maxIter < 0 {
		return fmt.Errorf("%w: max iterations %d", ErrInvalidArgument, maxIter)
	}
	for _, b := range bufs {
		if len(b) < OrbitLen(maxIter) {
			return fmt.Errorf("%w: orbit needs %d values, buffer holds %d", ErrBufferTooSmall, OrbitLen(maxIter), len(b))
		}
	}
	return nil
}

// ReferenceOrbit computes the orbit of c = cr + i·ci for up to maxIter steps.
// The returned slices are trimmed to Steps+1 points.
func ReferenceOrbit(crText, ciText string, maxIter, precision int) (*Orbit, error) {
	if maxIter < 0 {
		return nil, fmt.Errorf("%w: max iterations %d", ErrInvalidArgument, maxIter)
	}
	re := make([]float64, OrbitLen(maxIter))
	im := make([]float64, OrbitLen(maxIter))

	w := acquireWorkspace()
	defer releaseWorkspace(w)
	steps, escape, err := w.ReferenceOrbitInto(re, im, crText, ciText, maxIter, precision)
	if err != nil {
		return nil, err
	}
	return &Orbit{Re: re[:steps+1], Im: im[:steps+1], Steps: steps, EscapeIter: escape}, nil
}

// ReferenceOrbitInto records the orbit of c into caller-provided buffers of
// at least maxIter+1 values each.
//
// Each step is z ← z² + c followed by a downconversion of z into re[i+1],
// im[i+1]. The loop stops after the step where |z|² first exceeds
// OrbitEscapeRadiusSq.
//
// Returns:
//   - steps: The number of iterations computed (maxIter when not escaped).
//   - escapeIter: The 1-based escape index, or -1.
//   - err: ErrBufferTooSmall, ErrInvalidArgument or a bigfixed error.
func (w *Workspace) ReferenceOrbitInto(re, im []float64, crText, ciText string, maxIter, precision int) (steps, escapeIter int, err error) {
	if err := checkOrbitBuffers(maxIter, re, im); err != nil {
		return 0, -1, err
	}
	if err := w.setPoint(crText, ciText, precision); err != nil {
		return 0, -1, err
	}

	re[0], im[0] = 0, 0
	for i := 0; i < maxIter; i++ {
		if err := w.step(); err != nil {
			return 0, -1, err
		}
		zr, zi := w.zr.Float64(), w.zi.Float64()
		re[i+1], im[i+1] = zr, zi
		if zr*zr+zi*zi > OrbitEscapeRadiusSq {
			return i + 1, i + 1, nil
		}
	}
	return maxIter, -1, nil
}

// ReferenceOrbitExtended computes the orbit of c together with its z² terms.
func ReferenceOrbitExtended(crText, ciText string, maxIter, precision int) (*ExtendedOrbit, error) {
	if maxIter < 0 {
		return nil, fmt.Errorf("%w: max iterations %d", ErrInvalidArgument, maxIter)
	}
	size := OrbitLen(maxIter)
	re, im := make([]float64, size), make([]float64, size)
	z2re, z2im := make([]float64, size), make([]float64, size)

	w := acquireWorkspace()
	defer releaseWorkspace(w)
	steps, escape, err := w.ReferenceOrbitExtendedInto(re, im, z2re, z2im, crText, ciText, maxIter, precision)
	if err != nil {
		return nil, err
	}
	return &ExtendedOrbit{
		Orbit: Orbit{Re: re[:steps+1], Im: im[:steps+1], Steps: steps, EscapeIter: escape},
		Z2Re:  z2re[:steps+1],
		Z2Im:  z2im[:steps+1],
	}, nil
}

// ReferenceOrbitExtendedInto is ReferenceOrbitInto that also fills z2re and
// z2im. Before each step zr² and zi² are squared in fixed point; after it
// z2re[i+1] = zr² − zi² (downconverted) and z2im[i+1] = 2·re[i]·im[i].
func (w *Workspace) ReferenceOrbitExtendedInto(re, im, z2re, z2im []float64, crText, ciText string, maxIter, precision int) (steps, escapeIter int, err error) {
	if err := checkOrbitBuffers(maxIter, re, im, z2re, z2im); err != nil {
		return 0, -1, err
	}
	if err := w.setPoint(crText, ciText, precision); err != nil {
		return 0, -1, err
	}

	re[0], im[0], z2re[0], z2im[0] = 0, 0, 0, 0
	for i := 0; i < maxIter; i++ {
		if err := w.z2r.Sqr(&w.zr, w.scratch); err != nil {
			return 0, -1, err
		}
		if err := w.z2i.Sqr(&w.zi, w.scratch); err != nil {
			return 0, -1, err
		}
		if err := w.step(); err != nil {
			return 0, -1, err
		}

		zr, zi := w.zr.Float64(), w.zi.Float64()
		re[i+1], im[i+1] = zr, zi
		z2re[i+1] = w.z2r.Float64() - w.z2i.Float64()
		z2im[i+1] = 2 * re[i] * im[i]

		if zr*zr+zi*zi > OrbitEscapeRadiusSq {
			return i + 1, i + 1, nil
		}
	}
	return maxIter, -1, nil
}
