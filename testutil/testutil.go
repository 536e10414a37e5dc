package testutil

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/hupe1980/clubcard/keyset"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe and satisfies ribbon.RandSource.
type RNG struct {
	rand *rand.Rand
	seed uint64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed uint64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewPCG(seed, seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand = rand.New(rand.NewPCG(r.seed, r.seed))
}

// Seed returns the initial seed.
func (r *RNG) Seed() uint64 {
	return r.seed
}

// IntN returns a non-negative pseudo-random number in [0,n).
func (r *RNG) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.IntN(n)
}

// Uint64 returns a pseudo-random uint64.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// BlockSpec describes one synthetic block.
type BlockSpec struct {
	ID      string
	Items   int
	Members int
}

// Records generates the records of every block. Each block has spec.Items
// distinct keys, spec.Members of them chosen uniformly at random as members.
func (r *RNG) Records(specs ...BlockSpec) []keyset.Record {
	var out []keyset.Record
	for _, spec := range specs {
		r.mu.Lock()
		perm := r.rand.Perm(spec.Items)
		r.mu.Unlock()

		start := len(out)
		for i := 0; i < spec.Items; i++ {
			out = append(out, keyset.Record{
				Block: spec.ID,
				Key:   fmt.Sprintf("%s/%08d", spec.ID, i),
			})
		}
		for _, i := range perm[:min(spec.Members, spec.Items)] {
			out[start+i].Included = true
		}
	}
	return out
}

// Blocks returns n block specs named "block-000", "block-001", ... with
// items keys each and member counts cycling through memberCounts.
func Blocks(n, items int, memberCounts ...int) []BlockSpec {
	specs := make([]BlockSpec, n)
	for i := range specs {
		specs[i] = BlockSpec{ID: fmt.Sprintf("block-%03d", i), Items: items}
		if len(memberCounts) > 0 {
			specs[i].Members = memberCounts[i%len(memberCounts)]
		}
	}
	return specs
}

// TestSeed is the hasher seed used by MustSet.
var TestSeed = []byte("clubcard-test")

// MustSet turns records into a keyset.Set using a hasher derived from
// TestSeed. It panics on invalid input.
func MustSet(records []keyset.Record) *keyset.Set {
	h, err := keyset.NewHasher(TestSeed, 0)
	if err != nil {
		panic(err)
	}
	set, err := h.NewSet(records)
	if err != nil {
		panic(err)
	}
	return set
}

// Probes returns count keys of block that do not occur in Records output,
// for measuring false positive rates outside the universe.
func Probes(h *keyset.Hasher, block string, count int) []keyset.Item {
	out := make([]keyset.Item, count)
	for i := range out {
		out[i] = h.NewItem([]byte(block), []byte(fmt.Sprintf("probe/%s/%d", block, i)), false)
	}
	return out
}
