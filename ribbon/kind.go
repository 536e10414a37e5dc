package ribbon

import "fmt"

// Kind distinguishes exact from approximate ribbons.
type Kind uint8

const (
	// Exact ribbons answer membership without false positives.
	Exact Kind = iota
	// Approximate ribbons may report false positives at a rate of about 2^-rank.
	Approximate
)

// String returns the kind as a lower-case name.
func (k Kind) String() string {
	switch k {
	case Exact:
		return "exact"
	case Approximate:
		return "approximate"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}
