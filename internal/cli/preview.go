package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/agbru/deepzoom/internal/ui"
)

// DefaultPreviewWidth is the preview width in columns when the tile is
// wider.
const DefaultPreviewWidth = 72

// RenderPreview draws a size×size row-major tile as ASCII art, at most
// width columns wide. Terminal cells are about twice as tall as wide, so
// every output row covers two columns' worth of pixels. The tile's last row
// (largest imaginary part) is printed first.
//
// Parameters:
//   - out: Destination.
//   - values: Smooth iteration values, len size².
//   - size: Pixels per side.
//   - maxIter: Budget used to compute values; marks points inside the set.
//   - theme: Colours; NoColorTheme prints plain glyphs.
//   - width: Maximum number of columns; <= 0 selects DefaultPreviewWidth.
func RenderPreview(out io.Writer, values []float32, size, maxIter int, theme ui.Theme, width int) {
	if size <= 0 || len(values) < size*size {
		return
	}
	if width <= 0 {
		width = DefaultPreviewWidth
	}
	cols := min(size, width)
	rows := max(1, cols/2)
	colStep := float64(size) / float64(cols)
	rowStep := float64(size) / float64(rows)

	var b strings.Builder
	for r := range rows {
		py := size - 1 - int((float64(r)+0.5)*rowStep)
		for c := range cols {
			px := int((float64(c) + 0.5) * colStep)
			v := values[py*size+px]
			if shade := theme.Shade(v, maxIter); shade != "" {
				b.WriteString(shade)
				b.WriteByte(ui.Glyph(v, maxIter))
				b.WriteString(theme.Reset)
			} else {
				b.WriteByte(ui.Glyph(v, maxIter))
			}
		}
		b.WriteByte('\n')
	}
	fmt.Fprint(out, b.String())
}
