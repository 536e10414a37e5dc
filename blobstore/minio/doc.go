// Package minio provides a blobstore.Store backed by the MinIO client.
//
// Works with MinIO and other S3-compatible storage systems (Ceph, SeaweedFS,
// Garage) without pulling in the AWS SDK.
//
// # Basic Usage
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minioblob.NewStore(client, "revocations", "clubcards/")
//	err = clubcard.Publish(ctx, store, "v1.club", card)
//
// Pair the store with blobstore.NewBlobPointer to track the current card.
package minio
