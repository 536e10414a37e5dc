// Package bitset provides word-slice bit vector helpers used by the ribbon
// solver and query path.
//
// A bit vector is a plain []uint64 where bit i lives in word i/64 at position
// i%64 (little-endian bit order). Reads past the end of a vector are zero,
// which lets a band anchored near the end of a solution column be evaluated
// without bounds juggling at the call site.
package bitset
