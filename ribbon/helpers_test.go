package ribbon

import (
	"encoding/binary"
	"hash/fnv"
	"math/rand/v2"
)

// testItem derives a pseudo-random band from its key.
type testItem struct {
	block    string
	key      uint64
	included bool
	width    int
}

func splitmix64(x uint64) uint64 {
	x += 0x9E3779B97F4A7C15
	x = (x ^ (x >> 30)) * 0xBF58476D1CE4E5B9
	x = (x ^ (x >> 27)) * 0x94D049BB133111EB
	return x ^ (x >> 31)
}

func (it testItem) AsQuery(m int) Equation {
	h := fnv.New64a()
	_, _ = h.Write([]byte(it.block))
	x := splitmix64(it.key ^ h.Sum64())

	width := it.width
	if width == 0 {
		width = 1
	}
	a := make([]uint64, width)
	for i := range a {
		x = splitmix64(x)
		a[i] = x
	}
	a[0] |= 1
	return Equation{S: int(splitmix64(x) % uint64(m)), A: a, B: splitmix64(x ^ 0xF1A9)}
}

func (it testItem) Included() bool { return it.included }
func (it testItem) Block() []byte  { return []byte(it.block) }

func (it testItem) Discriminant() []byte {
	out := append([]byte(it.block), 0)
	return binary.BigEndian.AppendUint64(out, it.key)
}

// eqItem wraps a fixed equation.
type eqItem struct {
	eq       Equation
	included bool
	id       uint64
}

func (it eqItem) AsQuery(int) Equation { return it.eq }
func (it eqItem) Included() bool       { return it.included }
func (it eqItem) Block() []byte        { return []byte("fixed") }
func (it eqItem) Discriminant() []byte { return binary.BigEndian.AppendUint64(nil, it.id) }

// makeBlock returns size items of block with the first members marked included.
func makeBlock(block string, size, members, width int) []testItem {
	items := make([]testItem, size)
	for i := range items {
		items[i] = testItem{block: block, key: uint64(i), included: i < members, width: width}
	}
	return items
}

func seeded() Option { return WithRand(rand.New(rand.NewPCG(1, 2))) }
