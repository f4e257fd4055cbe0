// Package bigfixed implements the multi-limb fixed-point numbers used by the
// deep-zoom Mandelbrot engine.
//
// A Number is a sign tag plus up to MaxLimbs 32-bit limbs stored least
// significant first. The active limb count n (the precision) is chosen per
// value at run time. The most significant limb carries a 4-bit unsigned
// integer part in its top bits; the remaining 28 bits and every lower limb hold
// the fraction, which gives 32n-4 fractional bits:
//
//	value = sign · Σ limb[i] · 2^(32i − (32n − 4))
//
// The format is tuned for values with magnitude below 16. Results whose
// magnitude would need a fifth integer bit wrap silently; for Mandelbrot
// iterates this only happens after the orbit has already escaped.
//
// Multiplication dispatches between a schoolbook convolution and Karatsuba
// at a tunable limb-count threshold. Only correctness is guaranteed across the
// threshold; the speed of either path is a tuning concern.
//
// Numbers are plain values with no hidden state. Mul and Sqr need O(n)
// temporary storage which they take from a caller-provided *Scratch, or from
// an internal pool when the caller passes nil, so independent goroutines can
// multiply concurrently.
package bigfixed
