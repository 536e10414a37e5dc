// Package ribbon implements banded linear-system membership filters over GF(2).
//
// Every item is mapped (by the caller, see Queryable) to an Equation: a band of
// W 64-bit coefficient words anchored at a start position S, plus one target
// bit per solution column. A Ribbon collects the equations of one block and
// keeps them in a row table indexed by pivot position; inserting an equation
// peels it against the rows it collides with until it either finds an empty
// row or becomes trivial. Solving column c back-substitutes from the last row
// to the first and yields a bit vector z with Eval(z) == Target(c) for every
// stored equation.
//
// Two kinds of ribbons exist:
//
//   - Approximate ribbons encode only members, each targeting the fingerprint
//     bits its query carries. A non-member matches a column's target with
//     probability 1/2 whether or not its band is implied by the stored rows,
//     so a block of rank r stores r columns and has a false-positive rate of
//     about 2^-r. A member whose equation contradicts the table is kept as
//     an exception and always passes.
//   - Exact ribbons encode members with B = 0 and non-members with B = 1, so
//     the single solution column answers exactly. Contradictory non-members
//     are kept as exceptions and rejected by direct comparison at query time.
//
// A PartitionedFilter merges the ribbons of many blocks into shared solution
// columns. It is immutable and safe for concurrent use.
package ribbon
