package keyset

import "github.com/hupe1980/clubcard/ribbon"

// Item is a key of one block together with its membership.
type Item struct {
	hasher   *Hasher
	block    []byte
	key      []byte
	included bool
}

var _ ribbon.Filterable = Item{}

// NewItem returns the item (block, key). included is its ground truth; pass
// false for items that are only queried.
func (h *Hasher) NewItem(block, key []byte, included bool) Item {
	return Item{hasher: h, block: block, key: key, included: included}
}

// Key returns the item's key.
func (it Item) Key() []byte { return it.key }

// AsQuery implements ribbon.Queryable.
func (it Item) AsQuery(m int) ribbon.Equation {
	return it.hasher.Equation(it.block, it.key, m)
}

// Block implements ribbon.Queryable.
func (it Item) Block() []byte { return it.block }

// Discriminant implements ribbon.Queryable. It is the key prefixed with its
// block, so equal keys of different blocks stay distinct.
func (it Item) Discriminant() []byte {
	return message(it.block, it.key)
}

// Included implements ribbon.Filterable.
func (it Item) Included() bool { return it.included }
