// Package extractor relays the entries of a zip archive to a destination store.
//
// [Pipeline.ProcessArchive] traverses the archive sequentially, skips directory markers
// and configured media types, and uploads every other entry concurrently while the
// traversal continues. Per-entry failures and a failing archive stream are reported in
// the returned [Result]; only an archive that cannot be opened is returned as error.
package extractor
