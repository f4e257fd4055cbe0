package mandelbrot

import (
	"context"
	"errors"
	"testing"

	"github.com/agbru/deepzoom/internal/bigfixed"
)

func TestTileRowMajorLayout(t *testing.T) {
	t.Parallel()
	const n = 2
	p := TileParams{CenterRe: "-0.5", CenterIm: "0.25", Scale: "3", Size: 6, MaxIter: 60, Precision: n}
	got, err := Tile(p)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != p.Pixels() {
		t.Fatalf("len = %d, want %d", len(got), p.Pixels())
	}

	// Recompute each pixel independently: c = center + ((px − size/2)/size)·scale,
	// then the escape loop and the smooth value.
	w := NewWorkspace()
	for py := 0; py < p.Size; py++ {
		for px := 0; px < p.Size; px++ {
			w.cr.Set(coordinate(t, -0.5, (float64(px)-3)/6, 3, n))
			w.ci.Set(coordinate(t, 0.25, (float64(py)-3)/6, 3, n))
			if err := w.resetZ(n); err != nil {
				t.Fatal(err)
			}
			iter, err := w.escapeTime(p.MaxIter)
			if err != nil {
				t.Fatal(err)
			}

			want := float32(p.MaxIter)
			if iter < p.MaxIter {
				zr, zi := w.zr.Float64(), w.zi.Float64()
				want = float32(SmoothIteration(iter, zr*zr+zi*zi))
			}
			if v := got[py*p.Size+px]; v != want {
				t.Errorf("pixel (%d,%d) = %v, want %v", px, py, v, want)
			}
		}
	}
}

// coordinate computes center + norm·scale in fixed point.
func coordinate(t *testing.T, center, norm, scale float64, n int) *bigfixed.Number {
	t.Helper()
	c, off, s, prod := number(t, center, n), number(t, norm, n), number(t, scale, n), new(bigfixed.Number)
	if err := prod.Mul(off, s, nil); err != nil {
		t.Fatal(err)
	}
	if err := c.Add(c, prod); err != nil {
		t.Fatal(err)
	}
	return c
}

func TestTileCentrePixelInsideSet(t *testing.T) {
	t.Parallel()
	// The pixel at (size/2, size/2) has offset zero and lands on the centre.
	p := TileParams{CenterRe: "-0.1", CenterIm: "0.1", Scale: "0.5", Size: 4, MaxIter: 200, Precision: 3}
	got, err := Tile(p)
	if err != nil {
		t.Fatal(err)
	}
	if v := got[2*4+2]; v != 200 {
		t.Errorf("centre pixel = %v, want 200", v)
	}
}

func TestTileIntoValidation(t *testing.T) {
	t.Parallel()
	w := NewWorkspace()
	p := TileParams{CenterRe: "0", CenterIm: "0", Scale: "1", Size: 4, MaxIter: 10, Precision: 2}

	if err := w.TileInto(context.Background(), make([]float32, 15), p, nil); !errors.Is(err, ErrBufferTooSmall) {
		t.Errorf("short buffer error = %v", err)
	}
	bad := p
	bad.Size = 0
	if err := w.TileInto(context.Background(), nil, bad, nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("size 0 error = %v", err)
	}
	bad = p
	bad.Precision = 0
	if _, err := Tile(bad); !errors.Is(err, bigfixed.ErrInvalidPrecision) {
		t.Errorf("precision 0 error = %v", err)
	}
	bad = p
	bad.Scale = "99"
	if _, err := Tile(bad); !errors.Is(err, bigfixed.ErrOutOfRange) {
		t.Errorf("scale 99 error = %v", err)
	}
}

func TestTileIntoProgressAndCancellation(t *testing.T) {
	t.Parallel()
	w := NewWorkspace()
	p := TileParams{CenterRe: "-0.5", CenterIm: "0", Scale: "3", Size: 5, MaxIter: 20, Precision: 2}

	var reports []float64
	err := w.TileInto(context.Background(), make([]float32, p.Pixels()), p, func(progress float64) {
		reports = append(reports, progress)
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(reports) != p.Size {
		t.Fatalf("got %d progress reports, want one per row (%d)", len(reports), p.Size)
	}
	for i := 1; i < len(reports); i++ {
		if reports[i] <= reports[i-1] {
			t.Errorf("progress not increasing: %v", reports)
		}
	}
	if reports[len(reports)-1] != 1.0 {
		t.Errorf("final progress = %v, want 1.0", reports[len(reports)-1])
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := w.TileInto(ctx, make([]float32, p.Pixels()), p, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled tile error = %v", err)
	}
}
