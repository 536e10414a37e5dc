// Package keyset provides ready-made clubcard items for string-keyed
// universes.
//
// An Item is a (block, key) pair with ground-truth membership. Its banded
// equation is derived from a Hasher: SipHash-2-4 picks the band's start
// position and a keyed BLAKE3 output stream fills its coefficient words.
// Builds and queries must use Hashers created from the same seed and width.
//
// Universe records which keys each block covers, so queries for keys the
// clubcard was never built over can be told apart from genuine answers.
package keyset
