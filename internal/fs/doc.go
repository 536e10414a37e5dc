// Package fs abstracts the filesystem calls made by blobstore.LocalStore so
// tests can inject I/O failures.
//
// Production code uses fs.Default ([LocalFS]); tests wrap it in a [FaultyFS]:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule(".tmp", fs.Fault{FailAfterBytes: 0})
//	store := blobstore.NewLocalStore(dir, blobstore.WithFileSystem(ffs))
package fs
