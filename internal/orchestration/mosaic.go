// Package orchestration renders mosaics: square grids of tiles evaluated
// concurrently by a bounded set of workers, each owning one
// mandelbrot.Workspace.
package orchestration

import (
	"context"
	"fmt"
	"math/big"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/deepzoom/internal/bigfixed"
	"github.com/agbru/deepzoom/internal/mandelbrot"
	"github.com/agbru/deepzoom/pkg/models"
)

// MosaicParams describes a Side×Side grid of tiles that together cover a
// square of width Scale centred on (CenterRe, CenterIm).
type MosaicParams struct {
	CenterRe, CenterIm string
	Scale              string
	// Side is the number of tiles per side.
	Side      int
	TileSize  int
	MaxIter   int
	Precision int
	// Workers bounds the number of tiles evaluated at once. Values <= 0
	// select runtime.GOMAXPROCS(0).
	Workers int
}

// TileResult is one evaluated tile of a mosaic.
type TileResult struct {
	// Index is Row·Side + Col, the tile index used in progress updates.
	Index    int
	Row, Col int
	Params   mandelbrot.TileParams
	Values   []float32
	Duration time.Duration
}

// Mosaic is a rendered grid. Row 0 holds the tiles with the smallest
// imaginary part, matching the row order inside a tile.
type Mosaic struct {
	Side     int
	TileSize int
	MaxIter  int
	Tiles    []TileResult
	Duration time.Duration
}

// ImageSide is the number of pixels per side of the stitched image.
func (m *Mosaic) ImageSide() int { return m.Side * m.TileSize }

// Stitch assembles the tiles into one row-major image of ImageSide²
// values. The result equals a single tile of the whole area up to the
// rounding of the tile centres.
func (m *Mosaic) Stitch() []float32 {
	side := m.ImageSide()
	img := make([]float32, side*side)
	for _, t := range m.Tiles {
		for py := range m.TileSize {
			src := t.Values[py*m.TileSize : (py+1)*m.TileSize]
			dst := (t.Row*m.TileSize+py)*side + t.Col*m.TileSize
			copy(img[dst:dst+m.TileSize], src)
		}
	}
	return img
}

// Response summarises the mosaic for JSON output.
func (m *Mosaic) Response() models.MosaicResponse {
	resp := models.MosaicResponse{
		Tiles:    len(m.Tiles),
		Side:     m.Side,
		TileSize: m.TileSize,
		Duration: m.Duration.String(),
	}
	for _, t := range m.Tiles {
		resp.Pixels += len(t.Values)
		for _, v := range t.Values {
			if float64(v) < float64(m.MaxIter) {
				resp.Escaped++
			}
		}
	}
	return resp
}

// decimalDigits is enough fraction digits to carry every fractional bit at
// precision n.
func decimalDigits(n int) int {
	return bigfixed.FracBits(n)*30103/100000 + 2
}

func parseDecimal(name, s string) (*big.Rat, error) {
	r, ok := new(big.Rat).SetString(strings.TrimSpace(s))
	if !ok {
		return nil, fmt.Errorf("%w: %s %q is not a decimal number", mandelbrot.ErrInvalidArgument, name, s)
	}
	return r, nil
}

// Grid returns the parameters of every tile in row-major order. Tile
// centres and the tile scale are computed exactly with big.Rat and
// rendered with enough digits for p.Precision.
//
// Returns:
//   - []mandelbrot.TileParams: Side² tile descriptions.
//   - error: ErrInvalidArgument for a bad side or a non-decimal coordinate,
//     or the tile validation error.
func Grid(p MosaicParams) ([]mandelbrot.TileParams, error) {
	if p.Side < 1 {
		return nil, fmt.Errorf("%w: mosaic side %d", mandelbrot.ErrInvalidArgument, p.Side)
	}
	if err := bigfixed.CheckPrecision(p.Precision); err != nil {
		return nil, err
	}
	cr, err := parseDecimal("center_re", p.CenterRe)
	if err != nil {
		return nil, err
	}
	ci, err := parseDecimal("center_im", p.CenterIm)
	if err != nil {
		return nil, err
	}
	scale, err := parseDecimal("scale", p.Scale)
	if err != nil {
		return nil, err
	}

	digits := decimalDigits(p.Precision)
	tileScale := new(big.Rat).Quo(scale, big.NewRat(int64(p.Side), 1)).FloatString(digits)

	// offset(k) = (2k + 1 - Side) / (2·Side) · scale
	offsets := make([]*big.Rat, p.Side)
	for k := range p.Side {
		offsets[k] = new(big.Rat).Mul(big.NewRat(int64(2*k+1-p.Side), int64(2*p.Side)), scale)
	}

	tiles := make([]mandelbrot.TileParams, 0, p.Side*p.Side)
	for row := range p.Side {
		im := new(big.Rat).Add(ci, offsets[row]).FloatString(digits)
		for col := range p.Side {
			tp := mandelbrot.TileParams{
				CenterRe:  new(big.Rat).Add(cr, offsets[col]).FloatString(digits),
				CenterIm:  im,
				Scale:     tileScale,
				Size:      p.TileSize,
				MaxIter:   p.MaxIter,
				Precision: p.Precision,
			}
			if err := tp.Validate(); err != nil {
				return nil, err
			}
			tiles = append(tiles, tp)
		}
	}
	return tiles, nil
}

// Render evaluates the mosaic. Progress of tile i is reported to subject
// under index i; subject may be nil. The first failing tile cancels the
// others.
//
// Parameters:
//   - ctx: Cancels the evaluation between rows.
//   - p: The mosaic.
//   - subject: Receives per-tile progress. May be nil.
//
// Returns:
//   - *Mosaic: The tiles in row-major order.
//   - error: A Grid error, an engine error or the context error.
func Render(ctx context.Context, p MosaicParams, subject *mandelbrot.ProgressSubject) (*Mosaic, error) {
	grid, err := Grid(p)
	if err != nil {
		return nil, err
	}

	workers := p.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, len(grid))

	start := time.Now()
	results := make([]TileResult, len(grid))
	next := make(chan int, len(grid))
	for i := range grid {
		next <- i
	}
	close(next)

	g, ctx := errgroup.WithContext(ctx)
	for range workers {
		g.Go(func() error {
			ws := mandelbrot.NewWorkspace()
			for i := range next {
				var reporter mandelbrot.ProgressReporter
				if subject != nil {
					reporter = subject.AsProgressReporter(i)
				}
				tileStart := time.Now()
				values := make([]float32, grid[i].Pixels())
				if err := ws.TileInto(ctx, values, grid[i], reporter); err != nil {
					return fmt.Errorf("tile %d: %w", i, err)
				}
				results[i] = TileResult{
					Index:    i,
					Row:      i / p.Side,
					Col:      i % p.Side,
					Params:   grid[i],
					Values:   values,
					Duration: time.Since(tileStart),
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Mosaic{
		Side:     p.Side,
		TileSize: p.TileSize,
		MaxIter:  p.MaxIter,
		Tiles:    results,
		Duration: time.Since(start),
	}, nil
}
