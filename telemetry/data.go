package telemetry

import (
	"context"
	"encoding/json"
	"time"
)

// Data is a struct type that holds all telemetry data of one archive run
type Data struct {
	// Archive is the path of the processed archive
	Archive string

	// ArchiveSize is the size of the archive in bytes
	ArchiveSize int64

	// Duration is the time it took to process the archive
	Duration time.Duration

	// Entries is the number of traversed archive entries
	Entries int64

	// FailedEntries is the number of processable entries that failed
	FailedEntries int64

	// OpenFailed is true if the archive could not be opened
	OpenFailed bool

	// RunID identifies the run in log lines
	RunID string

	// SkippedDirs is the number of skipped directory markers
	SkippedDirs int64

	// SkippedMedia is the number of skipped media entries
	SkippedMedia int64

	// StreamError is the error of the archive byte stream, if any
	StreamError error

	// TargetBucket is the destination bucket
	TargetBucket string

	// UploadedBytes is the number of relayed uncompressed bytes
	UploadedBytes int64

	// UploadedEntries is the number of entries that were stored successfully
	UploadedEntries int64
}

// String returns a string representation of [Data].
func (d Data) String() string {
	b, _ := json.Marshal(d)
	return string(b)
}

// MarshalJSON implements the [encoding/json.Marshaler] interface.
func (d Data) MarshalJSON() ([]byte, error) {
	var streamError string
	if d.StreamError != nil {
		streamError = d.StreamError.Error()
	}

	type Alias Data
	return json.Marshal(&struct {
		Duration    int64  `json:"Duration"`
		StreamError string `json:"StreamError"`
		*Alias
	}{
		Duration:    d.Duration.Milliseconds(),
		StreamError: streamError,
		Alias:       (*Alias)(&d),
	})
}

// TelemetryHook is a function type that performs operations on [Data]
// after a run has finished which can be used to submit the [Data]
// to a telemetry service, for example.
type TelemetryHook func(context.Context, *Data)

// Chain returns a [TelemetryHook] that calls all non-nil hooks in order.
func Chain(hooks ...TelemetryHook) TelemetryHook {
	return func(ctx context.Context, d *Data) {
		for _, h := range hooks {
			if h != nil {
				h(ctx, d)
			}
		}
	}
}

// NoopTelemetryHook discards the data of a run. It is the hook of a config without one.
func NoopTelemetryHook(context.Context, *Data) {}
