package keyset

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/dchest/siphash"
	"lukechampine.com/blake3"

	"github.com/hupe1980/clubcard/ribbon"
)

// Band widths in 64-bit words.
const (
	DefaultWidth = 2
	MaxWidth     = 8
)

// Hasher maps (block, key) pairs to banded equations.
// A Hasher is immutable and safe for concurrent use.
type Hasher struct {
	k0, k1 uint64
	key    [32]byte
	width  int
	seed   []byte
}

// NewHasher derives a Hasher from seed. width is the band width in words;
// zero selects DefaultWidth.
func NewHasher(seed []byte, width int) (*Hasher, error) {
	if width < 0 || width > MaxWidth {
		return nil, fmt.Errorf("keyset: band width %d out of range [1, %d]", width, MaxWidth)
	}
	if width == 0 {
		width = DefaultWidth
	}
	h := &Hasher{
		key:   blake3.Sum256(seed),
		width: width,
		seed:  append([]byte(nil), seed...),
	}
	h.k0 = binary.LittleEndian.Uint64(h.key[0:8])
	h.k1 = binary.LittleEndian.Uint64(h.key[8:16])
	return h, nil
}

// Width returns the band width in words.
func (h *Hasher) Width() int { return h.width }

// Seed returns the seed the Hasher was derived from.
func (h *Hasher) Seed() []byte { return append([]byte(nil), h.seed...) }

// Equation derives the band of (block, key) for a row table of size m, with
// 64 fingerprint bits as targets. For m == 0 it returns the trivial equation.
func (h *Hasher) Equation(block, key []byte, m int) ribbon.Equation {
	a := make([]uint64, h.width)
	if m <= 0 {
		return ribbon.Equation{A: a}
	}

	msg := message(block, key)
	s := siphash.Hash(h.k0, h.k1, msg) % uint64(m)

	buf := make([]byte, 8*h.width+8)
	hs := blake3.New(32, h.key[:])
	_, _ = hs.Write(msg)
	if _, err := io.ReadFull(hs.XOF(), buf); err != nil {
		panic(fmt.Sprintf("keyset: blake3 output: %v", err))
	}
	for i := range a {
		a[i] = binary.LittleEndian.Uint64(buf[8*i:])
	}
	a[0] |= 1

	return ribbon.Equation{S: int(s), A: a, B: binary.LittleEndian.Uint64(buf[8*h.width:])}
}

// Fingerprint returns a 32-bit digest of (block, key) used by Universe.
func (h *Hasher) Fingerprint(block, key []byte) uint32 {
	hi, lo := siphash.Hash128(h.k1, h.k0, message(block, key))
	return uint32(hi ^ lo)
}

// message encodes (block, key) unambiguously.
func message(block, key []byte) []byte {
	out := make([]byte, 0, 4+len(block)+len(key))
	out = binary.LittleEndian.AppendUint32(out, uint32(len(block)))
	out = append(out, block...)
	return append(out, key...)
}
