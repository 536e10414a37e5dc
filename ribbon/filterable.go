package ribbon

// Queryable is the capability set an item needs to be looked up in a filter.
type Queryable interface {
	// AsQuery derives the item's banded equation for a row table of size m.
	// Whenever the returned equation is non-trivial, bit 0 of A[0] must be
	// set and S must be below m. B carries the item's fingerprint: bit c is
	// its target in approximate column c. Exact ribbons replace it with the
	// item's membership.
	AsQuery(m int) Equation

	// Block returns the identifier of the partition the item belongs to.
	Block() []byte

	// Discriminant returns a stable byte identity for the item, compared
	// against a block's exception list.
	Discriminant() []byte
}

// Filterable is a Queryable with known ground-truth membership.
type Filterable interface {
	Queryable

	// Included reports whether the item is a member of the encoded subset.
	Included() bool
}

// RandSource supplies the random bits used for free variables during
// back-substitution. *math/rand/v2.Rand satisfies it.
type RandSource interface {
	Uint64() uint64
}
