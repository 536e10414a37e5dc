package blobstore

import (
	"context"
	"strings"
)

// CurrentName is the blob BlobPointer uses by default.
const CurrentName = "CURRENT"

// BlobPointer keeps the published name in a blob of a Store. Advances are
// last-writer-wins; use s3.PointerStore when several publishers race.
type BlobPointer struct {
	store Store
	name  string
}

// NewBlobPointer returns a pointer stored in blob name of store. An empty
// name selects CurrentName.
func NewBlobPointer(store Store, name string) *BlobPointer {
	if name == "" {
		name = CurrentName
	}
	return &BlobPointer{store: store, name: name}
}

// Current implements Pointer.
func (p *BlobPointer) Current(ctx context.Context) (string, error) {
	data, err := p.store.Get(ctx, p.name)
	if err != nil {
		return "", err
	}
	current := strings.TrimSpace(string(data))
	if current == "" {
		return "", ErrNotFound
	}
	return current, nil
}

// Advance implements Pointer.
func (p *BlobPointer) Advance(ctx context.Context, name string) error {
	return p.store.Put(ctx, p.name, []byte(name+"\n"))
}
