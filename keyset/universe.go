package keyset

import (
	"encoding/base64"
	"fmt"
	"maps"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
	gojson "github.com/goccy/go-json"
)

// Universe records the key fingerprints each block was built over.
//
// Fingerprints are 32 bits wide, so Covers may report a key that was never
// added with probability about n/2^32 for a block of n keys. It never misses
// an added key.
type Universe struct {
	blocks map[string]*roaring.Bitmap
}

// NewUniverse returns an empty Universe.
func NewUniverse() *Universe {
	return &Universe{blocks: make(map[string]*roaring.Bitmap)}
}

// Add records item as part of its block's universe.
func (u *Universe) Add(item Item) {
	rb, ok := u.blocks[string(item.block)]
	if !ok {
		rb = roaring.New()
		u.blocks[string(item.block)] = rb
	}
	rb.Add(item.hasher.Fingerprint(item.block, item.key))
}

// Covers reports whether item's block covers its key.
func (u *Universe) Covers(item Item) bool {
	rb, ok := u.blocks[string(item.block)]
	return ok && rb.Contains(item.hasher.Fingerprint(item.block, item.key))
}

// Len returns the number of distinct fingerprints recorded for block.
func (u *Universe) Len(block []byte) int {
	rb, ok := u.blocks[string(block)]
	if !ok {
		return 0
	}
	return int(rb.GetCardinality())
}

// Blocks returns the covered blocks in ascending order.
func (u *Universe) Blocks() []string {
	return slices.Sorted(maps.Keys(u.blocks))
}

// MarshalJSON encodes every block's bitmap in the portable roaring format.
func (u *Universe) MarshalJSON() ([]byte, error) {
	out := make(map[string]string, len(u.blocks))
	for block, rb := range u.blocks {
		rb.RunOptimize()
		b, err := rb.ToBytes()
		if err != nil {
			return nil, fmt.Errorf("keyset: encode block %q: %w", block, err)
		}
		out[block] = base64.StdEncoding.EncodeToString(b)
	}
	return gojson.Marshal(out)
}

// UnmarshalJSON decodes the output of MarshalJSON.
func (u *Universe) UnmarshalJSON(data []byte) error {
	var in map[string]string
	if err := gojson.Unmarshal(data, &in); err != nil {
		return err
	}
	u.blocks = make(map[string]*roaring.Bitmap, len(in))
	for block, s := range in {
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return fmt.Errorf("keyset: decode block %q: %w", block, err)
		}
		rb := roaring.New()
		if err := rb.UnmarshalBinary(b); err != nil {
			return fmt.Errorf("keyset: decode block %q: %w", block, err)
		}
		u.blocks[block] = rb
	}
	return nil
}
