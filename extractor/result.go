package extractor

import "encoding/json"

// EntryStatus is the outcome of one entry upload
type EntryStatus string

const (
	StatusSuccess EntryStatus = "success"
	StatusFailure EntryStatus = "failure"
)

// EntryRecord is the outcome of one processable entry.
type EntryRecord struct {
	FileName         string      `json:"fileName"`
	Status           EntryStatus `json:"status"`
	FailureCause     string      `json:"failureCause,omitempty"`
	CompressedSize   uint64      `json:"compressedSize"`
	UncompressedSize uint64      `json:"uncompressedSize"`
}

// Entries partitions the records of one run by status.
type Entries struct {
	Success []EntryRecord `json:"success"`
	Failure []EntryRecord `json:"failure"`
}

// Result is the outcome of one archive run. A set StreamError means the archive
// stream failed and the traversal stopped early; entries not reached are absent.
type Result struct {
	Entries     Entries
	StreamError error

	// RunID identifies the run in logs and telemetry
	RunID string
}

// MarshalJSON implements the [encoding/json.Marshaler] interface.
func (r Result) MarshalJSON() ([]byte, error) {
	var streamError string
	if r.StreamError != nil {
		streamError = r.StreamError.Error()
	}
	return json.Marshal(&struct {
		Entries     Entries `json:"entries"`
		StreamError string  `json:"streamError,omitempty"`
	}{
		Entries:     r.Entries,
		StreamError: streamError,
	})
}

// Aggregate partitions records by status and attaches streamErr.
func Aggregate(records []EntryRecord, streamErr error) *Result {
	res := &Result{
		Entries: Entries{
			Success: []EntryRecord{},
			Failure: []EntryRecord{},
		},
		StreamError: streamErr,
	}
	for _, rec := range records {
		if rec.Status == StatusSuccess {
			res.Entries.Success = append(res.Entries.Success, rec)
			continue
		}
		res.Entries.Failure = append(res.Entries.Failure, rec)
	}
	return res
}
