// Package codec encodes the caller metadata stored alongside a clubcard.
//
// Encoded clubcards record the codec name in their frame header, so a
// reader resolves the matching codec by name. Changing the codec of an
// existing artifact name therefore requires republishing it.
package codec

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// ErrUnknownCodec is returned when a codec name is not registered.
var ErrUnknownCodec = errors.New("codec: unknown codec")

// Codec serializes universe and partition metadata.
// Implementations must be safe for concurrent use.
type Codec interface {
	Name() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

var (
	mu       sync.RWMutex
	registry = map[string]Codec{}
)

// Register makes c resolvable by its name. It panics if the name is taken.
func Register(c Codec) {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := registry[c.Name()]; dup {
		panic(fmt.Sprintf("codec: %q registered twice", c.Name()))
	}
	registry[c.Name()] = c
}

// ByName returns the codec registered under name.
func ByName(name string) (Codec, bool) {
	mu.RLock()
	defer mu.RUnlock()
	c, ok := registry[name]
	return c, ok
}

// Names returns the registered codec names in ascending order.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Resolve returns the codec a frame written under name needs. An
// unregistered name is accepted only when it matches fallback.
func Resolve(name string, fallback Codec) (Codec, error) {
	if c, ok := ByName(name); ok {
		return c, nil
	}
	if fallback != nil && fallback.Name() == name {
		return fallback, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownCodec, name)
}

// MarshalMetadata encodes a clubcard's universe and partition with c.
func MarshalMetadata(c Codec, universe, partition any) (u, p []byte, err error) {
	if u, err = c.Marshal(universe); err != nil {
		return nil, nil, fmt.Errorf("encode universe: %w", err)
	}
	if p, err = c.Marshal(partition); err != nil {
		return nil, nil, fmt.Errorf("encode partition: %w", err)
	}
	return u, p, nil
}

// UnmarshalMetadata decodes the output of MarshalMetadata into the values
// universe and partition point to.
func UnmarshalMetadata(c Codec, u, p []byte, universe, partition any) error {
	if err := c.Unmarshal(u, universe); err != nil {
		return fmt.Errorf("decode universe: %w", err)
	}
	if err := c.Unmarshal(p, partition); err != nil {
		return fmt.Errorf("decode partition: %w", err)
	}
	return nil
}
