// Package source opens archives for random access reads.
//
// A [Source] is an [io.ReaderAt] over one archive. The [S3] opener serves reads with
// ranged GetObject requests and reuses an open response body while reads stay sequential,
// so that traversing an entry costs one request instead of one request per buffer.
package source
