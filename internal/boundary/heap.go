// Package boundary exposes the engine to a foreign host (the wasm build) as
// flat primitive buffers addressed by integer handles. Every buffer is
// allocated and freed explicitly by the host; the heap never frees on its
// own.
package boundary

import (
	"errors"
	"fmt"
	"sync"

	"github.com/calebcase/oops"
	"github.com/zeebo/errs"
)

// Error is the class of all boundary failures. Every error the heap and
// the entry points return is wrapped in it, outermost.
var Error = errs.Class("boundary")

var (
	// ErrUnknownHandle reports a handle that was never allocated or was
	// already freed.
	ErrUnknownHandle = errors.New("unknown handle")
	// ErrWrongKind reports a handle used as a buffer of another kind.
	ErrWrongKind = errors.New("wrong buffer kind")
	// ErrBufferTooSmall reports a buffer shorter than the operation needs.
	ErrBufferTooSmall = errors.New("buffer too small")
	// ErrInvalidSize reports a negative or oversized allocation request.
	ErrInvalidSize = errors.New("invalid size")
)

// MaxAllocation caps a single buffer, in elements.
const MaxAllocation = 1 << 26

// Handle identifies a live buffer. The zero Handle is never issued.
type Handle uint32

// Kind is the element layout of a buffer.
type Kind uint8

const (
	// KindOrbit holds max_iter+1 doubles.
	KindOrbit Kind = iota + 1
	// KindInt holds a single 32-bit integer.
	KindInt
	// KindTile holds size² 32-bit floats.
	KindTile
	// KindString holds len+1 bytes, NUL terminated.
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindOrbit:
		return "orbit"
	case KindInt:
		return "int"
	case KindTile:
		return "tile"
	case KindString:
		return "string"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

type buffer struct {
	kind Kind
	f64  []float64
	f32  []float32
	i32  int32
	text []byte
}

// Heap owns every buffer handed to the host.
//
// Heap is safe for concurrent use. A slice obtained from a view stays valid
// after the handle is freed but is no longer reachable through the heap.
type Heap struct {
	mu   sync.Mutex
	next Handle
	bufs map[Handle]*buffer
}

// NewHeap returns an empty heap.
func NewHeap() *Heap {
	return &Heap{bufs: make(map[Handle]*buffer)}
}

// Live returns the number of allocated, not yet freed buffers.
func (h *Heap) Live() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.bufs)
}

func (h *Heap) alloc(b *buffer) Handle {
	h.mu.Lock()
	defer h.mu.Unlock()
	for {
		h.next++
		if h.next == 0 {
			continue
		}
		if _, taken := h.bufs[h.next]; !taken {
			break
		}
	}
	h.bufs[h.next] = b
	return h.next
}

func (h *Heap) lookup(handle Handle, kind Kind) (*buffer, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lookupLocked(handle, kind)
}

func (h *Heap) lookupLocked(handle Handle, kind Kind) (*buffer, error) {
	b, ok := h.bufs[handle]
	if !ok {
		return nil, Error.Wrap(oops.Trace(fmt.Errorf("%w: %d", ErrUnknownHandle, handle)))
	}
	if b.kind != kind {
		return nil, Error.Wrap(oops.Trace(fmt.Errorf("%w: handle %d is %s, not %s", ErrWrongKind, handle, b.kind, kind)))
	}
	return b, nil
}

// free reports ErrUnknownHandle on a double free.
func (h *Heap) free(handle Handle, kind Kind) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, err := h.lookupLocked(handle, kind); err != nil {
		return err
	}
	delete(h.bufs, handle)
	return nil
}

func checkSize(n int) error {
	if n < 0 || n > MaxAllocation {
		return Error.Wrap(oops.Trace(fmt.Errorf("%w: %d elements", ErrInvalidSize, n)))
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Alloc / free pairs
// ─────────────────────────────────────────────────────────────────────────────

// AllocOrbit allocates an orbit buffer of maxIter+1 doubles.
func (h *Heap) AllocOrbit(maxIter int) (Handle, error) {
	if maxIter < 0 {
		return 0, Error.Wrap(oops.Trace(fmt.Errorf("%w: max iterations %d", ErrInvalidSize, maxIter)))
	}
	if err := checkSize(maxIter + 1); err != nil {
		return 0, err
	}
	return h.alloc(&buffer{kind: KindOrbit, f64: make([]float64, maxIter+1)}), nil
}

// FreeOrbit releases an orbit buffer.
func (h *Heap) FreeOrbit(handle Handle) error { return h.free(handle, KindOrbit) }

// AllocInt allocates a single integer cell, initialised to zero.
func (h *Heap) AllocInt() Handle {
	return h.alloc(&buffer{kind: KindInt})
}

// FreeInt releases an integer cell.
func (h *Heap) FreeInt(handle Handle) error { return h.free(handle, KindInt) }

// AllocTile allocates a tile buffer of size² floats.
func (h *Heap) AllocTile(size int) (Handle, error) {
	if size <= 0 {
		return 0, Error.Wrap(oops.Trace(fmt.Errorf("%w: tile size %d", ErrInvalidSize, size)))
	}
	if size > MaxAllocation/size {
		return 0, Error.Wrap(oops.Trace(fmt.Errorf("%w: tile size %d", ErrInvalidSize, size)))
	}
	return h.alloc(&buffer{kind: KindTile, f32: make([]float32, size*size)}), nil
}

// FreeTile releases a tile buffer.
func (h *Heap) FreeTile(handle Handle) error { return h.free(handle, KindTile) }

// AllocString allocates room for a string of length n plus its terminator.
func (h *Heap) AllocString(n int) (Handle, error) {
	if err := checkSize(n + 1); err != nil {
		return 0, err
	}
	return h.alloc(&buffer{kind: KindString, text: make([]byte, n+1)}), nil
}

// FreeString releases a string buffer.
func (h *Heap) FreeString(handle Handle) error { return h.free(handle, KindString) }

// ─────────────────────────────────────────────────────────────────────────────
// Views
// ─────────────────────────────────────────────────────────────────────────────

// Orbit returns the backing slice of an orbit buffer.
func (h *Heap) Orbit(handle Handle) ([]float64, error) {
	b, err := h.lookup(handle, KindOrbit)
	if err != nil {
		return nil, err
	}
	return b.f64, nil
}

// Tile returns the backing slice of a tile buffer.
func (h *Heap) Tile(handle Handle) ([]float32, error) {
	b, err := h.lookup(handle, KindTile)
	if err != nil {
		return nil, err
	}
	return b.f32, nil
}

// Int reads an integer cell.
func (h *Heap) Int(handle Handle) (int32, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	b, err := h.lookupLocked(handle, KindInt)
	if err != nil {
		return 0, err
	}
	return b.i32, nil
}

// SetInt writes an integer cell.
func (h *Heap) SetInt(handle Handle, v int32) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	b, err := h.lookupLocked(handle, KindInt)
	if err != nil {
		return err
	}
	b.i32 = v
	return nil
}

// WriteString stores s followed by a NUL byte.
func (h *Heap) WriteString(handle Handle, s string) error {
	b, err := h.lookup(handle, KindString)
	if err != nil {
		return err
	}
	if len(s)+1 > len(b.text) {
		return Error.Wrap(oops.Trace(fmt.Errorf("%w: %d bytes into %d", ErrBufferTooSmall, len(s)+1, len(b.text))))
	}
	n := copy(b.text, s)
	b.text[n] = 0
	return nil
}

// String reads a string buffer up to its first NUL byte.
func (h *Heap) String(handle Handle) (string, error) {
	b, err := h.lookup(handle, KindString)
	if err != nil {
		return "", err
	}
	for i, c := range b.text {
		if c == 0 {
			return string(b.text[:i]), nil
		}
	}
	return string(b.text), nil
}
