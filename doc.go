// Package extract relays the entries of zip archives to an object store.
//
// An archive is opened through a [source.Opener] (local files or S3 objects, read with
// ranged requests) and every entry that is not a directory and not a skipped media
// file is streamed to a [target.Target] under "{keyPrefix}/{entry name}". A single
// failing entry is recorded and does not stop the run; only an archive that cannot
// be opened fails [ProcessArchive].
//
// Configuration is done using the [config.Config], which sets the logger, the telemetry
// hook, the bound of concurrent uploads and the skipped media extensions. Telemetry data is
// captured during the run. The collection of [telemetry.Data] is done using the telemetry package.
package extract
