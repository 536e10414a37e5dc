package keyset

import (
	"cmp"
	"fmt"
	"io"
	"slices"

	gojson "github.com/goccy/go-json"
)

// Record is one line of the JSON-lines item format.
type Record struct {
	Block    string `json:"block"`
	Key      string `json:"key"`
	Included bool   `json:"included"`
}

// BlockInfo summarizes one block of a Partition.
type BlockInfo struct {
	ID      string `json:"id"`
	Items   int    `json:"items"`
	Members int    `json:"members"`
}

// Partition describes how the universe is split into blocks.
type Partition struct {
	Seed   []byte      `json:"seed"`
	Width  int         `json:"width"`
	Blocks []BlockInfo `json:"blocks"`
}

// Block returns the summary of block id.
func (p Partition) Block(id string) (BlockInfo, bool) {
	i, ok := slices.BinarySearchFunc(p.Blocks, id, func(b BlockInfo, id string) int {
		return cmp.Compare(b.ID, id)
	})
	if !ok {
		return BlockInfo{}, false
	}
	return p.Blocks[i], true
}

// Set is a materialized item list with its universe and partition.
type Set struct {
	Items     []Item
	Universe  *Universe
	Partition Partition
}

// NewSet builds a Set from records. Duplicate (block, key) pairs are
// rejected since an item cannot be both a member and a non-member.
func (h *Hasher) NewSet(records []Record) (*Set, error) {
	s := &Set{
		Items:     make([]Item, 0, len(records)),
		Universe:  NewUniverse(),
		Partition: Partition{Seed: h.Seed(), Width: h.width},
	}

	seen := make(map[string]struct{}, len(records))
	info := make(map[string]*BlockInfo)
	for _, r := range records {
		item := h.NewItem([]byte(r.Block), []byte(r.Key), r.Included)
		d := string(item.Discriminant())
		if _, dup := seen[d]; dup {
			return nil, fmt.Errorf("keyset: duplicate key %q in block %q", r.Key, r.Block)
		}
		seen[d] = struct{}{}

		s.Items = append(s.Items, item)
		s.Universe.Add(item)

		bi, ok := info[r.Block]
		if !ok {
			bi = &BlockInfo{ID: r.Block}
			info[r.Block] = bi
		}
		bi.Items++
		if r.Included {
			bi.Members++
		}
	}

	for _, bi := range info {
		s.Partition.Blocks = append(s.Partition.Blocks, *bi)
	}
	slices.SortFunc(s.Partition.Blocks, func(a, b BlockInfo) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return s, nil
}

// ReadRecords reads JSON-lines records from r. Blank lines are skipped.
func ReadRecords(r io.Reader) ([]Record, error) {
	dec := gojson.NewDecoder(r)
	var out []Record
	for line := 1; ; line++ {
		var rec Record
		err := dec.Decode(&rec)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("keyset: record %d: %w", line, err)
		}
		out = append(out, rec)
	}
}
