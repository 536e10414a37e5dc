// Package conv provides checked integer conversions for the artifact
// format, where lengths and counts cross between int and fixed-width
// fields.
package conv
