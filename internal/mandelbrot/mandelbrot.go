// Package mandelbrot implements escape-time iteration of the Mandelbrot set
// on bigfixed numbers: the single complex step, the escape loop, tile
// evaluation with smooth colouring, and reference orbits for
// perturbation rendering.
package mandelbrot

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/agbru/deepzoom/internal/bigfixed"
)

const (
	// EscapeRadiusSq is the |z|² bound of the escape-time loop.
	EscapeRadiusSq = 4.0

	// OrbitEscapeRadiusSq is the loose |z|² bound used when recording
	// reference orbits, which must run well past the escape radius.
	OrbitEscapeRadiusSq = 1e16
)

var (
	// ErrInvalidArgument is returned for negative iteration bounds or
	// non-positive tile sizes.
	ErrInvalidArgument = errors.New("mandelbrot: invalid argument")

	// ErrBufferTooSmall is returned when a caller-provided output buffer
	// cannot hold the result.
	ErrBufferTooSmall = errors.New("mandelbrot: buffer too small")
)

// Escaped reports whether re² + im² > threshold, evaluated on the double
// approximations of both parts. Uninitialised operands never escape.
func Escaped(re, im *bigfixed.Number, threshold float64) bool {
	if re.Precision() == 0 {
		return false
	}
	r, i := re.Float64(), im.Float64()
	return r*r+i*i > threshold
}

// Step advances z ← z² + c in place, where z = zr + i·zi.
//
// zr², zi² and zr·zi are all formed from the old z before either part is
// overwritten. tmp1 and tmp2 are clobbered and must not alias any other
// argument. All operands must share one precision.
func Step(zr, zi, cr, ci, tmp1, tmp2 *bigfixed.Number, s *bigfixed.Scratch) error {
	if err := tmp1.Sqr(zr, s); err != nil {
		return err
	}
	if err := tmp2.Sqr(zi, s); err != nil {
		return err
	}
	if err := tmp2.Sub(tmp1, tmp2); err != nil {
		return err
	}
	if err := tmp1.Mul(zr, zi, s); err != nil {
		return err
	}
	tmp1.Double(tmp1)
	if err := zi.Add(tmp1, ci); err != nil {
		return err
	}
	return zr.Add(tmp2, cr)
}

// SmoothIteration returns the continuous escape count
// iter + 1 − log₂(log₂(|z|²)/2) for an orbit that escaped at iter with
// final squared magnitude magSq.
func SmoothIteration(iter int, magSq float64) float64 {
	logZn := 0.5 * math.Log(magSq)
	nu := math.Log(logZn/math.Ln2) / math.Ln2
	return float64(iter) + 1 - nu
}

// ─────────────────────────────────────────────────────────────────────────────
// Workspace
// ─────────────────────────────────────────────────────────────────────────────

// Workspace holds every temporary a Mandelbrot computation needs, including
// its own multiplication scratch. A Workspace is not safe for concurrent use;
// give each goroutine its own.
type Workspace struct {
	zr, zi     bigfixed.Number
	cr, ci     bigfixed.Number
	tmp1, tmp2 bigfixed.Number
	z2r, z2i   bigfixed.Number

	centerRe, centerIm, scale bigfixed.Number
	offset, product           bigfixed.Number

	scratch *bigfixed.Scratch
}

// NewWorkspace returns a Workspace with a private scratch buffer.
func NewWorkspace() *Workspace {
	return &Workspace{scratch: bigfixed.NewScratch()}
}

var workspacePool = sync.Pool{
	New: func() any {
		return NewWorkspace()
	},
}

func acquireWorkspace() *Workspace {
	return workspacePool.Get().(*Workspace)
}

func releaseWorkspace(w *Workspace) {
	workspacePool.Put(w)
}

// setPoint parses c and resets z to the origin.
func (w *Workspace) setPoint(crText, ciText string, precision int) error {
	if err := w.cr.SetString(crText, precision); err != nil {
		return err
	}
	if err := w.ci.SetString(ciText, precision); err != nil {
		return err
	}
	return w.resetZ(precision)
}

func (w *Workspace) resetZ(precision int) error {
	if err := w.zr.SetZero(precision); err != nil {
		return err
	}
	return w.zi.SetZero(precision)
}

func (w *Workspace) step() error {
	return Step(&w.zr, &w.zi, &w.cr, &w.ci, &w.tmp1, &w.tmp2, w.scratch)
}

// escapeTime runs the escape loop from the current z and returns the first
// index at which |z|² > EscapeRadiusSq, or maxIter.
func (w *Workspace) escapeTime(maxIter int) (int, error) {
	for i := 0; i < maxIter; i++ {
		if Escaped(&w.zr, &w.zi, EscapeRadiusSq) {
			return i, nil
		}
		if err := w.step(); err != nil {
			return 0, err
		}
	}
	return maxIter, nil
}

// Iterate parses c = cr + i·ci at the given precision (see
// bigfixed.Number.SetString for the accepted syntax), starts from z = 0 and
// returns the number of steps taken before |z|² exceeded 4, or maxIter if it
// never did. The escape test runs before each step.
func (w *Workspace) Iterate(crText, ciText string, maxIter, precision int) (int, error) {
	if maxIter < 0 {
		return 0, fmt.Errorf("%w: max iterations %d", ErrInvalidArgument, maxIter)
	}
	if err := w.setPoint(crText, ciText, precision); err != nil {
		return 0, err
	}
	return w.escapeTime(maxIter)
}

// Iterate runs Workspace.Iterate on a pooled Workspace.
func Iterate(crText, ciText string, maxIter, precision int) (int, error) {
	w := acquireWorkspace()
	defer releaseWorkspace(w)
	return w.Iterate(crText, ciText, maxIter, precision)
}
