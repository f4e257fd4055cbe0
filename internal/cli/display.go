package cli

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/agbru/deepzoom/internal/bigfixed"
	"github.com/agbru/deepzoom/internal/config"
	"github.com/agbru/deepzoom/internal/ui"
	"github.com/agbru/deepzoom/pkg/models"
)

// OrbitTableRows is the number of orbit steps shown at each end of the
// table before the middle is elided.
const OrbitTableRows = 8

// PrintExecutionConfig prints the parameters of a CLI run.
func PrintExecutionConfig(cfg config.AppConfig, out io.Writer) {
	fmt.Fprintf(out, "%s--- Execution configuration ---%s\n", ui.ColorBlue(), ui.ColorReset())
	fmt.Fprintf(out, "Mode %s%s%s at (%s%s%s, %s%s%s)\n",
		ui.ColorMagenta(), cfg.Mode, ui.ColorReset(),
		ui.ColorCyan(), cfg.Real, ui.ColorReset(),
		ui.ColorCyan(), cfg.Imag, ui.ColorReset())
	fmt.Fprintf(out, "Precision: %s%d limbs%s (%d fractional bits), max iterations: %s%d%s\n",
		ui.ColorCyan(), cfg.Precision, ui.ColorReset(), bigfixed.FracBits(cfg.Precision),
		ui.ColorCyan(), cfg.MaxIter, ui.ColorReset())
	switch cfg.Mode {
	case config.ModeTile:
		fmt.Fprintf(out, "Tile: %d×%d pixels, scale %s\n", cfg.TileSize, cfg.TileSize, cfg.Scale)
	case config.ModeMosaic:
		fmt.Fprintf(out, "Mosaic: %d×%d tiles of %d×%d pixels, scale %s\n", cfg.Mosaic, cfg.Mosaic, cfg.TileSize, cfg.TileSize, cfg.Scale)
	}
	fmt.Fprintf(out, "Karatsuba threshold: %d limbs, timeout: %s\n", bigfixed.KaratsubaThreshold(), cfg.Timeout)
}

// DisplayIterate prints the escape iteration of a point.
func DisplayIterate(out io.Writer, r models.IterateResponse) {
	status := fmt.Sprintf("%sescaped%s", ui.ColorGreen(), ui.ColorReset())
	if !r.Escaped {
		status = fmt.Sprintf("%sbounded (budget exhausted)%s", ui.ColorYellow(), ui.ColorReset())
	}
	fmt.Fprintf(out, "\nc = %s%s%s + %s%s%s·i\n", ui.ColorCyan(), r.Cr, ui.ColorReset(), ui.ColorCyan(), r.Ci, ui.ColorReset())
	fmt.Fprintf(out, "Iterations: %s%d%s / %d, %s\n", ui.ColorBold(), r.Iterations, ui.ColorReset(), r.MaxIter, status)
	fmt.Fprintf(out, "Time: %s\n", r.Duration)
}

// TileStats summarises a tile.
type TileStats struct {
	Pixels  int
	Escaped int
	// MinSmooth and MaxSmooth range over escaped pixels; both are NaN when
	// none escaped.
	MinSmooth, MaxSmooth float64
}

// ComputeTileStats counts escaped pixels (values below maxIter).
func ComputeTileStats(values []float32, maxIter int) TileStats {
	st := TileStats{Pixels: len(values), MinSmooth: math.NaN(), MaxSmooth: math.NaN()}
	for _, v := range values {
		if float64(v) >= float64(maxIter) {
			continue
		}
		f := float64(v)
		if st.Escaped == 0 || f < st.MinSmooth {
			st.MinSmooth = f
		}
		if st.Escaped == 0 || f > st.MaxSmooth {
			st.MaxSmooth = f
		}
		st.Escaped++
	}
	return st
}

// DisplayTile prints the statistics and a preview of a tile.
func DisplayTile(out io.Writer, r models.TileResponse, theme ui.Theme) {
	st := ComputeTileStats(r.Values, r.MaxIter)
	fmt.Fprintf(out, "\nTile %d×%d centred on (%s, %s), scale %s\n", r.Size, r.Size, r.CenterRe, r.CenterIm, r.Scale)
	printStats(out, st)
	fmt.Fprintf(out, "Time: %s\n\n", r.Duration)
	RenderPreview(out, r.Values, r.Size, r.MaxIter, theme, DefaultPreviewWidth)
}

func printStats(out io.Writer, st TileStats) {
	pct := 0.0
	if st.Pixels > 0 {
		pct = 100 * float64(st.Escaped) / float64(st.Pixels)
	}
	fmt.Fprintf(out, "Escaped pixels: %s%d%s / %d (%.1f%%)", ui.ColorCyan(), st.Escaped, ui.ColorReset(), st.Pixels, pct)
	if st.Escaped > 0 {
		fmt.Fprintf(out, ", smooth range [%.3f, %.3f]", st.MinSmooth, st.MaxSmooth)
	}
	fmt.Fprintln(out)
}

// DisplayMosaic prints the statistics and a preview of a stitched mosaic.
func DisplayMosaic(out io.Writer, r models.MosaicResponse, image []float32, maxIter int, theme ui.Theme) {
	side := r.Side * r.TileSize
	fmt.Fprintf(out, "\nMosaic of %d×%d tiles (%d×%d pixels)\n", r.Side, r.Side, side, side)
	printStats(out, ComputeTileStats(image, maxIter))
	fmt.Fprintf(out, "Time: %s\n\n", r.Duration)
	RenderPreview(out, image, side, maxIter, theme, DefaultPreviewWidth)
}

// DisplayOrbit prints the orbit as a table, eliding the middle of long
// orbits.
func DisplayOrbit(out io.Writer, r models.OrbitResponse) {
	escape := "never"
	if r.EscapeIter >= 0 {
		escape = fmt.Sprintf("at step %d", r.EscapeIter)
	}
	fmt.Fprintf(out, "\nReference orbit of %s + %s·i: %s%d steps%s, escape %s\n\n",
		r.Cr, r.Ci, ui.ColorBold(), r.Steps, ui.ColorReset(), escape)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	header := "step\tRe z\tIm z\t"
	if r.Z2Re != nil {
		header += "Re z²\tIm z²\t"
	}
	fmt.Fprintln(tw, header)

	row := func(i int) {
		fmt.Fprintf(tw, "%d\t%.15g\t%.15g\t", i, r.Re[i], r.Im[i])
		if r.Z2Re != nil {
			fmt.Fprintf(tw, "%.15g\t%.15g\t", r.Z2Re[i], r.Z2Im[i])
		}
		fmt.Fprintln(tw)
	}

	n := len(r.Re)
	if n <= 2*OrbitTableRows {
		for i := range n {
			row(i)
		}
	} else {
		for i := range OrbitTableRows {
			row(i)
		}
		fmt.Fprintf(tw, "…\t\t\t\n")
		for i := n - OrbitTableRows; i < n; i++ {
			row(i)
		}
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(out, "Warning: failed to flush table: %v\n", err)
	}
	fmt.Fprintf(out, "\nTime: %s\n", r.Duration)
}

