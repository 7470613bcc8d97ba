// Package archive reads zip archives one entry at a time.
//
// [Open] resolves an archive through a [source.Opener] and returns a [Session]. The
// session hands out entries in central directory order with [Session.Next] and signals
// a failure of the archive byte stream on [Session.Failed], independent of the entry
// that happened to observe it.
package archive
