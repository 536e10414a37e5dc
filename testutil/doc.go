// Package testutil provides testing utilities for clubcard.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded random source and generators for synthetic
// block-partitioned item sets.
//
// # Random Source
//
//	rng := testutil.NewRNG(seed)
//	b := clubcard.NewBuilder[keyset.Item](clubcard.WithRand(rng))
//
// # Synthetic Items
//
//	records := rng.Records(testutil.BlockSpec{ID: "issuer-1", Items: 1000, Members: 50})
//	set := testutil.MustSet(records)
package testutil
