package bitset

import (
	"math/bits"

	bbs "github.com/bits-and-blooms/bitset"
)

// Words returns the number of 64-bit words needed to hold n bits.
func Words(n int) int {
	return (n + 63) / 64
}

// Window returns the 64 bits of v starting at bit pos.
// Bits past the end of v read as zero. pos need not be word aligned.
func Window(v []uint64, pos int) uint64 {
	q := pos >> 6
	r := uint(pos & 63)

	var lo, hi uint64
	if q < len(v) {
		lo = v[q]
	}
	if r == 0 {
		return lo
	}
	if q+1 < len(v) {
		hi = v[q+1]
	}
	return lo>>r | hi<<(64-r)
}

// Set sets bit i of v. Out of range indices are ignored.
func Set(v []uint64, i int) {
	if i >= 0 && i < len(v)*64 {
		v[i>>6] |= 1 << uint(i&63)
	}
}

// Test reports whether bit i of v is set. Out of range bits read as unset.
func Test(v []uint64, i int) bool {
	if i < 0 || i >= len(v)*64 {
		return false
	}
	return v[i>>6]>>uint(i&63)&1 == 1
}

// OrShifted ORs src into dst with src bit 0 landing on dst bit offset.
// Bits that would land past the end of dst are dropped.
func OrShifted(dst, src []uint64, offset int) {
	q := offset >> 6
	r := uint(offset & 63)

	for j, w := range src {
		if w == 0 {
			continue
		}
		k := q + j
		if k >= len(dst) {
			return
		}
		dst[k] |= w << r
		if r != 0 && k+1 < len(dst) {
			dst[k+1] |= w >> (64 - r)
		}
	}
}

// Count returns the number of set bits in v.
func Count(v []uint64) int {
	return int(bbs.From(v).Count())
}

// Parity returns the XOR of all bits of w.
func Parity(w uint64) uint8 {
	return uint8(bits.OnesCount64(w) & 1)
}
