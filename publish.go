package clubcard

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/clubcard/blobstore"
)

// Publish encodes c and writes it to blob name of store.
func Publish[U, P any](ctx context.Context, store blobstore.Store, name string, c *Clubcard[U, P], opts ...EncodingOption) (err error) {
	o := applyEncodingOptions(opts)

	var size int
	defer func() {
		o.logger.LogPublish(ctx, "publish", name, size, err)
	}()

	data, err := Marshal(c, opts...)
	if err != nil {
		return err
	}
	size = len(data)

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := store.Put(ctx, name, data); err != nil {
		return fmt.Errorf("clubcard: publish %q: %w", name, err)
	}
	return nil
}

// Fetch reads and decodes blob name of store.
func Fetch[U, P any](ctx context.Context, store blobstore.Store, name string, opts ...EncodingOption) (c *Clubcard[U, P], err error) {
	o := applyEncodingOptions(opts)

	var size int
	defer func() {
		o.logger.LogPublish(ctx, "fetch", name, size, err)
	}()

	data, err := store.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("clubcard: fetch %q: %w", name, err)
	}
	size = len(data)
	return Unmarshal[U, P](data, opts...)
}

// PublishCurrent publishes c under name and then advances pointer to it.
// Readers following the pointer never observe a partially written card.
func PublishCurrent[U, P any](ctx context.Context, store blobstore.Store, pointer blobstore.Pointer, name string, c *Clubcard[U, P], opts ...EncodingOption) error {
	if err := Publish(ctx, store, name, c, opts...); err != nil {
		return err
	}
	if err := pointer.Advance(ctx, name); err != nil {
		return fmt.Errorf("clubcard: advance pointer to %q: %w", name, err)
	}
	return nil
}

// FetchCurrent fetches the clubcard pointer currently names. It returns the
// name along with the card.
func FetchCurrent[U, P any](ctx context.Context, store blobstore.Store, pointer blobstore.Pointer, opts ...EncodingOption) (*Clubcard[U, P], string, error) {
	name, err := pointer.Current(ctx)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, "", fmt.Errorf("clubcard: nothing published: %w", err)
		}
		return nil, "", err
	}
	c, err := Fetch[U, P](ctx, store, name, opts...)
	if err != nil {
		return nil, "", err
	}
	return c, name, nil
}
