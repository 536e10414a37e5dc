// Package blobstore stores encoded clubcards.
//
// Store is the interface for reading and writing named blobs. Implementations
// must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - MemoryStore: in-process map, for tests and short-lived tools
//   - LocalStore: local filesystem with atomic temp-file-and-rename writes
//   - s3.Store: Amazon S3, with a DynamoDB-backed s3.PointerStore
//   - minio.Store: MinIO and other S3-compatible services
//
// # Pointers
//
// A Pointer names the blob that is currently published. BlobPointer keeps
// it in a blob of any Store; s3.PointerStore keeps a versioned history in
// DynamoDB and rejects concurrent advances.
package blobstore
