// Package s3 provides an S3 implementation of blobstore.Store and a
// DynamoDB-backed blobstore.Pointer.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("clubcards/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	pointer, err := s3.NewPointerStoreFromConfig(ctx, "clubcard-commits", "s3://my-bucket/clubcards")
//
// # Features
//
//   - CRC32C-checked single-request uploads for small blobs
//   - Multipart uploads for large blobs
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
