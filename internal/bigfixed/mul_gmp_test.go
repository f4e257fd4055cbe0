//go:build gmp

package bigfixed

import (
	"math/rand"
	"testing"
)

func TestMulGMPMatchesMul(t *testing.T) {
	t.Parallel()
	r := rand.New(rand.NewSource(11))
	for _, n := range []int{1, 3, 16, 17, 64, MaxLimbs} {
		for trial := 0; trial < 8; trial++ {
			x, y := randomNumber(r, n), randomNumber(r, n)
			var want, got Number
			if err := want.Mul(x, y, nil); err != nil {
				t.Fatal(err)
			}
			if err := got.MulGMP(x, y); err != nil {
				t.Fatal(err)
			}
			if c, _ := got.Cmp(&want); c != 0 {
				t.Fatalf("n=%d trial=%d: MulGMP differs from Mul", n, trial)
			}
		}
	}
}
