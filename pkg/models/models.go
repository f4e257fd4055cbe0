// Package models defines the JSON documents exchanged by the HTTP API and
// written by the CLI's --json output.
//
// Coordinates travel as decimal strings so that callers keep every digit
// they typed; the engine decides how many of them it can use.
package models

import (
	"github.com/agbru/deepzoom/internal/mandelbrot"
)

// IterateRequest asks for the escape iteration of one point.
type IterateRequest struct {
	Cr        string `json:"cr"`
	Ci        string `json:"ci"`
	MaxIter   int    `json:"max_iter"`
	Precision int    `json:"precision"`
}

// IterateResponse is the answer to an IterateRequest.
type IterateResponse struct {
	Cr         string `json:"cr"`
	Ci         string `json:"ci"`
	MaxIter    int    `json:"max_iter"`
	Precision  int    `json:"precision"`
	Iterations int    `json:"iterations"`
	// Escaped is false when the budget ran out.
	Escaped  bool   `json:"escaped"`
	Duration string `json:"duration"`
}

// TileRequest asks for one square tile.
type TileRequest struct {
	CenterRe  string `json:"center_re"`
	CenterIm  string `json:"center_im"`
	Scale     string `json:"scale"`
	Size      int    `json:"size"`
	MaxIter   int    `json:"max_iter"`
	Precision int    `json:"precision"`
}

// Params converts the request to engine parameters.
func (r TileRequest) Params() mandelbrot.TileParams {
	return mandelbrot.TileParams{
		CenterRe:  r.CenterRe,
		CenterIm:  r.CenterIm,
		Scale:     r.Scale,
		Size:      r.Size,
		MaxIter:   r.MaxIter,
		Precision: r.Precision,
	}
}

// TileResponse carries Size² row-major smooth iteration values.
type TileResponse struct {
	TileRequest
	Values   []float32 `json:"values"`
	Duration string    `json:"duration"`
}

// OrbitRequest asks for a reference orbit.
type OrbitRequest struct {
	Cr        string `json:"cr"`
	Ci        string `json:"ci"`
	MaxIter   int    `json:"max_iter"`
	Precision int    `json:"precision"`
	Extended  bool   `json:"extended,omitempty"`
}

// OrbitResponse carries the downconverted orbit.
type OrbitResponse struct {
	Cr         string    `json:"cr"`
	Ci         string    `json:"ci"`
	Steps      int       `json:"steps"`
	EscapeIter int       `json:"escape_iter"`
	Re         []float64 `json:"re"`
	Im         []float64 `json:"im"`
	Z2Re       []float64 `json:"z2_re,omitempty"`
	Z2Im       []float64 `json:"z2_im,omitempty"`
	Duration   string    `json:"duration"`
}

// NewOrbitResponse trims the orbit to the computed steps.
func NewOrbitResponse(cr, ci string, o *mandelbrot.ExtendedOrbit) OrbitResponse {
	n := o.Steps + 1
	resp := OrbitResponse{
		Cr:         cr,
		Ci:         ci,
		Steps:      o.Steps,
		EscapeIter: o.EscapeIter,
		Re:         o.Re[:n],
		Im:         o.Im[:n],
	}
	if o.Z2Re != nil {
		resp.Z2Re, resp.Z2Im = o.Z2Re[:n], o.Z2Im[:n]
	}
	return resp
}

// MosaicResponse is the CLI's JSON report of a mosaic run.
type MosaicResponse struct {
	Tiles    int    `json:"tiles"`
	// Side is the number of tiles per side.
	Side     int    `json:"side"`
	TileSize int    `json:"tile_size"`
	Escaped  int    `json:"escaped_pixels"`
	Pixels   int    `json:"pixels"`
	Duration string `json:"duration"`
}

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HealthResponse is the body of /health.
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version,omitempty"`
	Timestamp int64  `json:"timestamp"`
}
