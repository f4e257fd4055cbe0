package mandelbrot

import (
	"context"
	"fmt"

	"github.com/agbru/deepzoom/internal/bigfixed"
)

// TileParams describes one square tile of the complex plane.
type TileParams struct {
	// CenterRe and CenterIm locate the tile centre, in decimal.
	CenterRe, CenterIm string
	// Scale is the width of the tile in the complex plane, in decimal.
	Scale string
	// Size is the number of pixels per side.
	Size int
	// MaxIter bounds the escape loop of each pixel.
	MaxIter int
	// Precision is the limb count of every fixed-point operand.
	Precision int
}

// Pixels returns Size², the length of the output buffer.
func (p TileParams) Pixels() int { return p.Size * p.Size }

// Validate checks the integer bounds of p. String fields are parsed leniently
// and never fail here.
func (p TileParams) Validate() error {
	if p.Size < 1 {
		return fmt.Errorf("%w: tile size %d", ErrInvalidArgument, p.Size)
	}
	if p.MaxIter < 0 {
		return fmt.Errorf("%w: max iterations %d", ErrInvalidArgument, p.MaxIter)
	}
	return bigfixed.CheckPrecision(p.Precision)
}

// Tile evaluates every pixel of the tile and returns Size² smooth iteration
// values in row-major order (index py·Size + px).
func Tile(p TileParams) ([]float32, error) {
	return TileContext(context.Background(), p, nil)
}

// TileContext is Tile with cancellation and per-row progress reporting.
func TileContext(ctx context.Context, p TileParams, reporter ProgressReporter) ([]float32, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	out := make([]float32, p.Pixels())
	w := acquireWorkspace()
	defer releaseWorkspace(w)
	if err := w.TileInto(ctx, out, p, reporter); err != nil {
		return nil, err
	}
	return out, nil
}

// TileInto evaluates the tile described by p into dst.
//
// The pixel at (px, py) maps to c = center + off·scale, where
// off = (px − Size/2)/Size is computed in double and converted to fixed
// point; only the product with scale and the sum with the centre run at full
// precision. Escaped pixels store SmoothIteration of the final z; the rest
// store MaxIter.
//
// Parameters:
//   - ctx: Checked once per row.
//   - dst: Output buffer of at least p.Pixels() values.
//   - p: The tile to evaluate.
//   - reporter: Receives the completed fraction after each row. May be nil.
//
// Returns:
//   - error: ErrBufferTooSmall, ErrInvalidArgument, a bigfixed error, or the
//     context error.
func (w *Workspace) TileInto(ctx context.Context, dst []float32, p TileParams, reporter ProgressReporter) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if len(dst) < p.Pixels() {
		return fmt.Errorf("%w: tile needs %d values, buffer holds %d", ErrBufferTooSmall, p.Pixels(), len(dst))
	}
	if reporter == nil {
		reporter = func(float64) {}
	}

	n := p.Precision
	if err := w.centerRe.SetString(p.CenterRe, n); err != nil {
		return err
	}
	if err := w.centerIm.SetString(p.CenterIm, n); err != nil {
		return err
	}
	if err := w.scale.SetString(p.Scale, n); err != nil {
		return err
	}

	size := float64(p.Size)
	for py := 0; py < p.Size; py++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		pyNorm := (float64(py) - size*0.5) / size
		if err := w.pixelCoordinate(&w.ci, &w.centerIm, pyNorm, n); err != nil {
			return err
		}

		for px := 0; px < p.Size; px++ {
			pxNorm := (float64(px) - size*0.5) / size
			if err := w.pixelCoordinate(&w.cr, &w.centerRe, pxNorm, n); err != nil {
				return err
			}
			if err := w.resetZ(n); err != nil {
				return err
			}
			iter, err := w.escapeTime(p.MaxIter)
			if err != nil {
				return err
			}
			dst[py*p.Size+px] = w.pixelValue(iter, p.MaxIter)
		}
		reporter(float64(py+1) / size)
	}
	return nil
}

// pixelCoordinate sets c = center + norm·scale.
func (w *Workspace) pixelCoordinate(c, center *bigfixed.Number, norm float64, n int) error {
	if err := w.offset.SetFloat64(norm, n); err != nil {
		return err
	}
	if err := w.product.Mul(&w.offset, &w.scale, w.scratch); err != nil {
		return err
	}
	return c.Add(center, &w.product)
}

func (w *Workspace) pixelValue(iter, maxIter int) float32 {
	if iter >= maxIter {
		return float32(maxIter)
	}
	zr, zi := w.zr.Float64(), w.zi.Float64()
	return float32(SmoothIteration(iter, zr*zr+zi*zi))
}
