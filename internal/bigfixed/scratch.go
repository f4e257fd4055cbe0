package bigfixed

import "sync"

// ─────────────────────────────────────────────────────────────────────────────
// Scratch Storage
// ─────────────────────────────────────────────────────────────────────────────

const (
	// productLimbs holds a full 2n-limb product plus two guard limbs.
	productLimbs = 2*MaxLimbs + 2
	// arenaLimbs bounds the Karatsuba temporaries at MaxLimbs precision.
	arenaLimbs = 8 * MaxLimbs
)

// Scratch is the temporary storage used by Mul and Sqr: a fixed product
// buffer plus a bump arena for Karatsuba partial products.
//
// Thread Safety: a Scratch is NOT thread-safe. Each goroutine should hold its
// own, either from NewScratch or through AcquireScratch/ReleaseScratch:
//
//	s := bigfixed.AcquireScratch()
//	defer bigfixed.ReleaseScratch(s)
type Scratch struct {
	prod   [productLimbs]Limb
	arena  []Limb
	offset int
}

var scratchPool = sync.Pool{
	New: func() any {
		return NewScratch()
	},
}

// NewScratch returns a Scratch sized for MaxLimbs operands.
func NewScratch() *Scratch {
	return &Scratch{arena: make([]Limb, arenaLimbs)}
}

// AcquireScratch takes a Scratch from the pool.
// The caller must return it with ReleaseScratch.
func AcquireScratch() *Scratch {
	s := scratchPool.Get().(*Scratch)
	s.offset = 0
	return s
}

// ReleaseScratch returns s to the pool. Safe to call with nil.
func ReleaseScratch(s *Scratch) {
	if s == nil {
		return
	}
	s.offset = 0
	scratchPool.Put(s)
}

// product returns the 2n-limb product buffer. Its contents are stale.
func (s *Scratch) product(n int) []Limb {
	return s.prod[:2*n]
}

// alloc bumps n zeroed limbs off the arena, falling back to make when the
// arena is exhausted.
func (s *Scratch) alloc(n int) []Limb {
	if s.offset+n > len(s.arena) {
		return make([]Limb, n)
	}
	slice := s.arena[s.offset : s.offset+n]
	s.offset += n
	clear(slice)
	return slice
}

// mark and release bracket a recursion level: everything allocated after
// mark is given back by release.
func (s *Scratch) mark() int { return s.offset }

func (s *Scratch) release(mark int) { s.offset = mark }
