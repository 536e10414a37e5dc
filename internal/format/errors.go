package format

import "errors"

var (
	// ErrInvalidMagic is returned when a frame does not start with the clubcard magic.
	ErrInvalidMagic = errors.New("format: invalid magic")

	// ErrInvalidVersion is returned for frames written by an unknown format version.
	ErrInvalidVersion = errors.New("format: unsupported version")

	// ErrChecksumMismatch is returned when the payload checksum does not match.
	ErrChecksumMismatch = errors.New("format: checksum mismatch")

	// ErrTruncated is returned when a frame or payload ends early.
	ErrTruncated = errors.New("format: truncated data")

	// ErrUnknownCompression is returned for unrecognized compression identifiers.
	ErrUnknownCompression = errors.New("format: unknown compression")
)
