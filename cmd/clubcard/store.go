package main

import (
	"context"
	"fmt"
	"os"
	"path"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	"github.com/hupe1980/clubcard/blobstore"
	"github.com/hupe1980/clubcard/blobstore/minio"
	"github.com/hupe1980/clubcard/blobstore/s3"
	"github.com/hupe1980/clubcard/internal/config"
)

// openStore connects the configured blob store and its current pointer.
func openStore(ctx context.Context, cfg config.StoreConfig) (blobstore.Store, blobstore.Pointer, error) {
	switch cfg.Type {
	case config.StoreLocal:
		if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
			return nil, nil, err
		}
		store := blobstore.NewLocalStore(cfg.Path)
		return store, blobstore.NewBlobPointer(store, ""), nil

	case config.StoreMemory:
		store := blobstore.NewMemoryStore()
		return store, blobstore.NewBlobPointer(store, ""), nil

	case config.StoreS3:
		var awsOpts []func(*awsconfig.LoadOptions) error
		if cfg.Region != "" {
			awsOpts = append(awsOpts, awsconfig.WithRegion(cfg.Region))
		}
		store, err := s3.New(ctx, cfg.Bucket, s3.WithPrefix(cfg.Prefix), s3.WithConfigOptions(awsOpts...))
		if err != nil {
			return nil, nil, fmt.Errorf("open s3 store: %w", err)
		}
		if cfg.PointerTable == "" {
			return store, blobstore.NewBlobPointer(store, ""), nil
		}
		baseURI := "s3://" + path.Join(cfg.Bucket, cfg.Prefix)
		pointer, err := s3.NewPointerStoreFromConfig(ctx, cfg.PointerTable, baseURI, awsOpts...)
		if err != nil {
			return nil, nil, fmt.Errorf("open pointer table: %w", err)
		}
		return store, pointer, nil

	case config.StoreMinIO:
		store, err := minio.Open(minio.Config{
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			Region:    cfg.Region,
			Secure:    cfg.Secure,
			Bucket:    cfg.Bucket,
			Prefix:    cfg.Prefix,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("open minio store: %w", err)
		}
		return store, blobstore.NewBlobPointer(store, ""), nil

	default:
		return nil, nil, fmt.Errorf("unknown store type %q", cfg.Type)
	}
}
