package extract

import (
	"context"

	"github.com/finnishtransportagency/raita-sub002/config"
	"github.com/finnishtransportagency/raita-sub002/extractor"
	"github.com/finnishtransportagency/raita-sub002/source"
	"github.com/finnishtransportagency/raita-sub002/target"
)

// Result is the outcome of one archive run.
type Result = extractor.Result

// EntryRecord is the outcome of one relayed entry.
type EntryRecord = extractor.EntryRecord

// ProcessArchive relays all processable entries of the archive at sourcePath to targetBucket
// of dst. The archive is opened with opener. Every written object carries metadata and has
// the key "{keyPrefix}/{entry name}".
//
// The returned error is non-nil only if the archive cannot be opened, and is then
// an [*archive.OpenError]. Failed entries and a failed archive stream are part of
// the result.
//
// If cfg is nil, the default configuration is used.
func ProcessArchive(ctx context.Context, opener source.Opener, dst target.Target, sourcePath string, targetBucket string, keyPrefix string, metadata map[string]string, cfg *config.Config) (*Result, error) {
	return extractor.New(opener, dst, cfg).ProcessArchive(ctx, sourcePath, targetBucket, keyPrefix, metadata)
}
