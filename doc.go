// Package clubcard builds and queries clubcards: compact, partitioned
// filters that answer exact membership queries for every item of a
// known universe.
//
// A clubcard is built in two stages over GF(2) ribbon filters (see package
// ribbon). The approximate stage encodes, per block, the items that are
// included in the set with a false positive rate close to the information
// theoretic optimum. The exact stage then encodes every item that passes the
// approximate stage, so that the false positives of the first stage are
// resolved. A block whose items are all included is stored inverted and
// costs no filter bits at all.
//
// # Quick Start
//
//	hasher, _ := keyset.NewHasher([]byte("2026-10-18"), 0)
//	set, _ := hasher.NewSet(records)
//
//	card, err := clubcard.BuildFromItems(ctx, set.Items, set.Universe, set.Partition,
//	    clubcard.WithSeed(42),
//	    clubcard.WithLogger(clubcard.NewJSONLogger(slog.LevelInfo)),
//	)
//
//	switch card.Lookup(hasher.NewItem(block, key, false)) {
//	case clubcard.Member:
//	case clubcard.Nonmember:
//	case clubcard.NoData: // block not covered
//	}
//
// # Staged Builds
//
// Builder exposes both stages separately for callers that build ribbons
// concurrently or on several machines:
//
//	b := clubcard.NewBuilder[keyset.Item]()
//	rb := b.NewApproxBuilder(block) // insert included items, SetUniverseSize
//	r, _ := rb.Approximate()
//	_ = b.CollectApproxRibbons(ctx, ribbons)
//
//	eb, _ := b.NewExactBuilder(block) // insert every item of the block
//	_ = b.CollectExactRibbons(ctx, []*ribbon.Ribbon[keyset.Item]{eb.Exact()})
//
//	card, err := clubcard.Build(ctx, b, universe, partition)
//
// # Serialization
//
// Encode writes a clubcard as a single checksummed frame. The universe and
// partition metadata are serialized with a codec.Codec; the payload can be
// compressed with LZ4 or Zstandard:
//
//	data, _ := clubcard.Marshal(card, clubcard.WithCompression(clubcard.CompressionZSTD))
//	card, _ := clubcard.Unmarshal[*keyset.Universe, keyset.Partition](data)
//
// # Publishing
//
// Publish and Fetch move encoded clubcards through a blobstore.Store (local
// disk, memory, S3 or MinIO). PublishCurrent additionally advances a
// blobstore.Pointer once the card is durable:
//
//	store := blobstore.NewLocalStore("/var/lib/clubcard")
//	pointer := blobstore.NewBlobPointer(store, "")
//	err := clubcard.PublishCurrent(ctx, store, pointer, "v1.club", card)
//
// # Observability
//
// WithLogger enables structured logging via log/slog. WithMetricsCollector
// receives per-stage statistics, build durations and query outcomes;
// BasicMetricsCollector aggregates them in memory.
package clubcard
