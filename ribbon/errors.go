package ribbon

import "errors"

var (
	// ErrUniverseSizeUnset is returned when an approximate ribbon is requested
	// from a builder whose universe size was never set.
	ErrUniverseSizeUnset = errors.New("ribbon: universe size not set")

	// ErrSubsetTooLarge is returned when a builder holds more members than its
	// universe size allows.
	ErrSubsetTooLarge = errors.New("ribbon: subset larger than universe")

	// ErrKindMismatch is returned when ribbons of different kinds are combined.
	ErrKindMismatch = errors.New("ribbon: mixed ribbon kinds")

	// ErrDuplicateBlock is returned when two ribbons share a block identifier.
	ErrDuplicateBlock = errors.New("ribbon: duplicate block")
)
