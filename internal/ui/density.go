package ui

import "math"

// DensityRamp orders glyphs from sparse to dense. The last glyph marks points
// that never escaped.
const DensityRamp = " .:-=+*#%@"

// Density maps a smooth iteration value to an index into a ramp of the
// given number of levels. Values at or above maxIter (inside the set) map
// to levels-1; escaped values spread over [0, levels-2] on a square-root
// scale so that the slow-escaping band near the boundary stays visible.
func Density(value float32, maxIter, levels int) int {
	if levels < 2 {
		return 0
	}
	if maxIter <= 0 || float64(value) >= float64(maxIter) {
		return levels - 1
	}
	v := math.Max(float64(value), 0) / float64(maxIter)
	idx := int(math.Sqrt(v) * float64(levels-1))
	if idx > levels-2 {
		idx = levels - 2
	}
	return idx
}

// Glyph returns the ramp character for value.
func Glyph(value float32, maxIter int) byte {
	return DensityRamp[Density(value, maxIter, len(DensityRamp))]
}

// Shade returns the theme colour for value, or "" when the theme has no
// shades or the point is inside the set.
func (t Theme) Shade(value float32, maxIter int) string {
	if len(t.Shades) == 0 || float64(value) >= float64(maxIter) {
		return ""
	}
	return t.Shades[Density(value, maxIter, len(t.Shades)+1)]
}
