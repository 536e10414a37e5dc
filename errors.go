package clubcard

import (
	"errors"
	"fmt"

	"github.com/hupe1980/clubcard/ribbon"
)

var (
	// ErrApproxFilterMissing is returned when the exact stage or Build runs
	// before the approximate ribbons were collected.
	ErrApproxFilterMissing = errors.New("clubcard: approximate filter not collected")

	// ErrExactFilterMissing is returned when Build runs before the exact
	// ribbons were collected.
	ErrExactFilterMissing = errors.New("clubcard: exact filter not collected")

	// ErrExactRank is returned when an exact block or filter does not resolve
	// to exactly one solution column.
	ErrExactRank = errors.New("clubcard: exact filter rank must be 1")

	// ErrInvertedMismatch is returned when the approximate and exact entries
	// of one block disagree on inversion.
	ErrInvertedMismatch = errors.New("clubcard: inverted flag mismatch")

	// ErrMissingExactBlock is returned when an approximate block has no exact
	// counterpart.
	ErrMissingExactBlock = errors.New("clubcard: block missing from exact filter")

	// ErrStageKind is returned when ribbons of the wrong kind are collected
	// for a stage.
	ErrStageKind = errors.New("clubcard: ribbon kind does not match stage")

	// ErrEntryOutOfRange is returned by Decode when an index entry addresses
	// rows or columns the solution does not have.
	ErrEntryOutOfRange = errors.New("clubcard: index entry out of range")
)

// BuildError reports a contract violation tied to one block.
//
// The underlying sentinel can be matched with errors.Is.
type BuildError struct {
	Stage ribbon.Kind
	Block []byte
	Err   error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("%s stage, block %q: %v", e.Stage, e.Block, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

// VerifyError lists the items whose answer disagreed with their ground truth.
type VerifyError struct {
	// Mismatches holds the discriminants of the disagreeing items.
	Mismatches [][]byte
	// Checked is the number of items verified.
	Checked int
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf("clubcard: %d of %d items answered incorrectly", len(e.Mismatches), e.Checked)
}
