//go:build js && wasm

// Command deepzoom-wasm registers the boundary entry points on the JS global
// object "deepzoom". Buffers are addressed by integer handles; the host pairs
// every alloc* call with the matching free* call.
package main

import (
	"encoding/binary"
	"math"
	"syscall/js"

	"github.com/agbru/deepzoom/internal/boundary"
)

var (
	heap   = boundary.NewHeap()
	engine = boundary.NewEngine(heap)
)

func main() {
	api := js.Global().Get("Object").New()
	exports := map[string]func(args []js.Value) (any, error){
		"allocOrbit":  func(a []js.Value) (any, error) { return wrapHandle(heap.AllocOrbit(a[0].Int())) },
		"freeOrbit":   func(a []js.Value) (any, error) { return nil, heap.FreeOrbit(handle(a[0])) },
		"allocInt":    func([]js.Value) (any, error) { return uint32(heap.AllocInt()), nil },
		"freeInt":     func(a []js.Value) (any, error) { return nil, heap.FreeInt(handle(a[0])) },
		"allocTile":   func(a []js.Value) (any, error) { return wrapHandle(heap.AllocTile(a[0].Int())) },
		"freeTile":    func(a []js.Value) (any, error) { return nil, heap.FreeTile(handle(a[0])) },
		"allocString": func(a []js.Value) (any, error) { return wrapHandle(heap.AllocString(a[0].Int())) },
		"freeString":  func(a []js.Value) (any, error) { return nil, heap.FreeString(handle(a[0])) },

		"writeString": func(a []js.Value) (any, error) { return nil, heap.WriteString(handle(a[0]), a[1].String()) },
		"readInt": func(a []js.Value) (any, error) {
			v, err := heap.Int(handle(a[0]))
			return int(v), err
		},
		"readOrbit": func(a []js.Value) (any, error) {
			buf, err := heap.Orbit(handle(a[0]))
			if err != nil {
				return nil, err
			}
			return float64Array(buf), nil
		},
		"readTile": func(a []js.Value) (any, error) {
			buf, err := heap.Tile(handle(a[0]))
			if err != nil {
				return nil, err
			}
			return float32Array(buf), nil
		},

		// iterate(cr, ci, maxIter, precision)
		"iterate": func(a []js.Value) (any, error) {
			return engine.Iterate(handle(a[0]), handle(a[1]), a[2].Int(), a[3].Int())
		},
		// referenceOrbit(cr, ci, maxIter, precision, re, im, escape)
		"referenceOrbit": func(a []js.Value) (any, error) {
			return engine.ReferenceOrbit(handle(a[0]), handle(a[1]), a[2].Int(), a[3].Int(),
				handle(a[4]), handle(a[5]), handle(a[6]))
		},
		// referenceOrbitExtended(cr, ci, maxIter, precision, re, im, z2re, z2im, escape)
		"referenceOrbitExtended": func(a []js.Value) (any, error) {
			return engine.ReferenceOrbitExtended(handle(a[0]), handle(a[1]), a[2].Int(), a[3].Int(),
				handle(a[4]), handle(a[5]), handle(a[6]), handle(a[7]), handle(a[8]))
		},
		// tile(centerRe, centerIm, scale, size, maxIter, precision, out)
		"tile": func(a []js.Value) (any, error) {
			return nil, engine.Tile(handle(a[0]), handle(a[1]), handle(a[2]), a[3].Int(), a[4].Int(), a[5].Int(), handle(a[6]))
		},
		"live": func([]js.Value) (any, error) { return heap.Live(), nil },
	}
	for name, fn := range exports {
		api.Set(name, export(fn))
	}
	js.Global().Set("deepzoom", api)

	select {}
}

// export adapts fn to a JS function that throws an Error on failure.
func export(fn func(args []js.Value) (any, error)) js.Func {
	return js.FuncOf(func(_ js.Value, args []js.Value) (result any) {
		defer func() {
			if r := recover(); r != nil {
				result = throw("deepzoom: bad arguments")
			}
		}()
		v, err := fn(args)
		if err != nil {
			return throw(err.Error())
		}
		return v
	})
}

// throw builds the JS Error returned in place of a result.
func throw(msg string) js.Value {
	return js.Global().Get("Error").New(msg)
}

func handle(v js.Value) boundary.Handle {
	return boundary.Handle(uint32(v.Int()))
}

func wrapHandle(h boundary.Handle, err error) (any, error) {
	return uint32(h), err
}

func float64Array(buf []float64) js.Value {
	raw := make([]byte, 8*len(buf))
	for i, v := range buf {
		binary.LittleEndian.PutUint64(raw[8*i:], math.Float64bits(v))
	}
	return typedArray("Float64Array", raw)
}

func float32Array(buf []float32) js.Value {
	raw := make([]byte, 4*len(buf))
	for i, v := range buf {
		binary.LittleEndian.PutUint32(raw[4*i:], math.Float32bits(v))
	}
	return typedArray("Float32Array", raw)
}

func typedArray(ctor string, raw []byte) js.Value {
	u8 := js.Global().Get("Uint8Array").New(len(raw))
	js.CopyBytesToJS(u8, raw)
	return js.Global().Get(ctor).New(u8.Get("buffer"))
}
