package boundary

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/calebcase/oops"

	"github.com/agbru/deepzoom/internal/mandelbrot"
)

// Engine runs engine operations whose inputs and outputs live in a Heap.
type Engine struct {
	heap *Heap

	mu sync.Mutex
	ws *mandelbrot.Workspace
}

// NewEngine binds an engine to heap.
func NewEngine(heap *Heap) *Engine {
	return &Engine{heap: heap, ws: mandelbrot.NewWorkspace()}
}

// Heap returns the heap the engine reads and writes.
func (e *Engine) Heap() *Heap { return e.heap }

func (e *Engine) strings(handles ...Handle) ([]string, error) {
	out := make([]string, len(handles))
	for i, h := range handles {
		s, err := e.heap.String(h)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// engineError classifies an engine failure so that Error.Has reports it
// while errors.Is still reaches the engine sentinel.
func engineError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mandelbrot.ErrBufferTooSmall) {
		return Error.Wrap(oops.Trace(fmt.Errorf("%w: %w", ErrBufferTooSmall, err)))
	}
	return Error.Wrap(oops.Trace(err))
}

// Iterate evaluates the escape iteration of the point whose coordinates are
// held in the string buffers cr and ci.
func (e *Engine) Iterate(cr, ci Handle, maxIter, precision int) (int, error) {
	coords, err := e.strings(cr, ci)
	if err != nil {
		return 0, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	n, err := e.ws.Iterate(coords[0], coords[1], maxIter, precision)
	return n, engineError(err)
}

// ReferenceOrbit fills the orbit buffers re and im and stores the escape
// index in the int cell escape.
//
// Returns:
//   - int: The number of iterations actually computed.
//   - error: A boundary error; the buffers are untouched when the handles
//     cannot be resolved.
func (e *Engine) ReferenceOrbit(cr, ci Handle, maxIter, precision int, re, im, escape Handle) (int, error) {
	coords, err := e.strings(cr, ci)
	if err != nil {
		return 0, err
	}
	reBuf, imBuf, err := e.orbitPair(re, im)
	if err != nil {
		return 0, err
	}
	if _, err := e.heap.Int(escape); err != nil {
		return 0, err
	}

	e.mu.Lock()
	steps, escapeIter, err := e.ws.ReferenceOrbitInto(reBuf, imBuf, coords[0], coords[1], maxIter, precision)
	e.mu.Unlock()
	if err != nil {
		return 0, engineError(err)
	}
	return steps, e.heap.SetInt(escape, int32(escapeIter))
}

// ReferenceOrbitExtended is ReferenceOrbit that also fills the z² buffers.
func (e *Engine) ReferenceOrbitExtended(cr, ci Handle, maxIter, precision int, re, im, z2re, z2im, escape Handle) (int, error) {
	coords, err := e.strings(cr, ci)
	if err != nil {
		return 0, err
	}
	reBuf, imBuf, err := e.orbitPair(re, im)
	if err != nil {
		return 0, err
	}
	z2reBuf, z2imBuf, err := e.orbitPair(z2re, z2im)
	if err != nil {
		return 0, err
	}
	if _, err := e.heap.Int(escape); err != nil {
		return 0, err
	}

	e.mu.Lock()
	steps, escapeIter, err := e.ws.ReferenceOrbitExtendedInto(reBuf, imBuf, z2reBuf, z2imBuf, coords[0], coords[1], maxIter, precision)
	e.mu.Unlock()
	if err != nil {
		return 0, engineError(err)
	}
	return steps, e.heap.SetInt(escape, int32(escapeIter))
}

func (e *Engine) orbitPair(a, b Handle) ([]float64, []float64, error) {
	x, err := e.heap.Orbit(a)
	if err != nil {
		return nil, nil, err
	}
	y, err := e.heap.Orbit(b)
	if err != nil {
		return nil, nil, err
	}
	return x, y, nil
}

// Tile renders the tile described by the string buffers centerRe, centerIm
// and scale into the tile buffer out.
func (e *Engine) Tile(centerRe, centerIm, scale Handle, size, maxIter, precision int, out Handle) error {
	params, err := e.strings(centerRe, centerIm, scale)
	if err != nil {
		return err
	}
	dst, err := e.heap.Tile(out)
	if err != nil {
		return err
	}
	p := mandelbrot.TileParams{
		CenterRe:  params[0],
		CenterIm:  params[1],
		Scale:     params[2],
		Size:      size,
		MaxIter:   maxIter,
		Precision: precision,
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return engineError(e.ws.TileInto(context.Background(), dst, p, nil))
}
