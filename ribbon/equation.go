package ribbon

import (
	"fmt"
	"math/bits"
	"slices"

	"github.com/hupe1980/clubcard/internal/bitset"
)

// Equation is a banded linear constraint over GF(2), one per solution
// column c:
//
//	sum_j A[j/64]>>(j%64)&1 * z_c[S+j] = B>>c & 1   for j in [0, 64*len(A))
//
// The columns share the coefficients and differ only in their target bit.
// A non-trivial equation always has bit 0 of A[0] set, so S is its pivot.
// An all-zero A makes the equation trivial: redundant when B == 0 and
// unsatisfiable otherwise.
type Equation struct {
	S int
	A []uint64
	B uint64
}

// NewEquation returns the equation (s, a, b) with its pivot normalized to
// the first set coefficient. The coefficient slice is copied.
func NewEquation(s int, a []uint64, b uint64) Equation {
	e := Equation{S: s, A: slices.Clone(a), B: b}
	e.normalize()
	return e
}

// Width returns the number of 64-bit words spanned by the band.
func (e Equation) Width() int {
	return len(e.A)
}

// IsZero returns true if every coefficient is zero.
func (e Equation) IsZero() bool {
	for _, w := range e.A {
		if w != 0 {
			return false
		}
	}
	return true
}

// Target returns the target bit of solution column c.
func (e Equation) Target(c int) uint8 {
	if c >= 64 {
		return 0
	}
	return uint8(e.B >> uint(c) & 1)
}

// Eval returns the parity of A AND the 64*W-bit window of z starting at bit S.
// Bits past the end of z are treated as zero.
func (e Equation) Eval(z []uint64) uint8 {
	var acc uint64
	for i, w := range e.A {
		acc ^= w & bitset.Window(z, e.S+64*i)
	}
	return bitset.Parity(acc)
}

// Add returns the sum of e and other. Both equations must share the same
// anchor and width. The result is anchored at its first set coefficient,
// which is strictly greater than the shared anchor unless the sum is trivial.
func (e Equation) Add(other Equation) Equation {
	out := Equation{S: e.S, A: slices.Clone(e.A), B: e.B}
	out.add(other)
	return out
}

// Shift returns a copy of e anchored offset bits later.
func (e Equation) Shift(offset int) Equation {
	return Equation{S: e.S + offset, A: e.A, B: e.B}
}

// String implements fmt.Stringer.
func (e Equation) String() string {
	return fmt.Sprintf("Equation{S: %d, A: %x, B: %b}", e.S, e.A, e.B)
}

// add accumulates other into e in place.
func (e *Equation) add(other Equation) {
	if e.S != other.S {
		panic(fmt.Sprintf("ribbon: adding equations anchored at %d and %d", e.S, other.S))
	}
	if len(e.A) != len(other.A) {
		panic(fmt.Sprintf("ribbon: adding equations of width %d and %d", len(e.A), len(other.A)))
	}
	for i, w := range other.A {
		e.A[i] ^= w
	}
	e.B ^= other.B
	e.normalize()
}

// normalize moves the anchor to the first set coefficient.
func (e *Equation) normalize() {
	k := 0
	for k < len(e.A) && e.A[k] == 0 {
		k++
	}
	if k == len(e.A) {
		return
	}
	shift := 64*k + bits.TrailingZeros64(e.A[k])
	if shift == 0 {
		return
	}
	shiftRight(e.A, shift)
	e.S += shift
}

// shiftRight shifts the multi-word value a right by n bits in place.
func shiftRight(a []uint64, n int) {
	words := n >> 6
	r := uint(n & 63)
	for i := range a {
		var lo, hi uint64
		if i+words < len(a) {
			lo = a[i+words]
		}
		if i+words+1 < len(a) {
			hi = a[i+words+1]
		}
		if r == 0 {
			a[i] = lo
		} else {
			a[i] = lo>>r | hi<<(64-r)
		}
	}
}
