package extractor

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/finnishtransportagency/raita-sub002/archive"
	"github.com/finnishtransportagency/raita-sub002/target"
)

// Destination is where the entries of one archive are relayed to.
type Destination struct {
	Bucket    string
	KeyPrefix string

	// Metadata is attached to every object written for the archive
	Metadata map[string]string
}

// Key returns the object key of the entry called name.
func (d Destination) Key(name string) string {
	return d.KeyPrefix + "/" + name
}

// Uploader relays single entries to a target.
type Uploader struct {
	target target.Target
}

// NewUploader creates an uploader that writes to t.
func NewUploader(t target.Target) *Uploader {
	return &Uploader{target: t}
}

// Upload streams the content of e to d and returns the outcome as record.
// It never fails: every error is reported as failure record.
func (u *Uploader) Upload(ctx context.Context, e *archive.Entry, d Destination) EntryRecord {
	rec := EntryRecord{
		FileName:         e.Name,
		CompressedSize:   e.CompressedSize,
		UncompressedSize: e.UncompressedSize,
	}

	rc, err := e.Open()
	if err != nil {
		rec.Status = StatusFailure
		rec.FailureCause = fmt.Sprintf("Failed to open read stream: %s", err)
		return rec
	}
	defer rc.Close()

	body := &readErrorReader{r: rc}
	err = u.target.PutObject(ctx, &target.Object{
		Bucket:   d.Bucket,
		Key:      d.Key(e.Name),
		Metadata: d.Metadata,
		Body:     body,
	})

	// the read error is the cause of a failed upload, if there is one
	if readErr := body.Err(); readErr != nil {
		err = readErr
	}
	if err != nil {
		rec.Status = StatusFailure
		rec.FailureCause = fmt.Sprintf("Upload to S3 failed: %s", err)
		return rec
	}

	rec.Status = StatusSuccess
	return rec
}

// readErrorReader remembers the first error of the underlying reader other than io.EOF
type readErrorReader struct {
	r   io.Reader
	mu  sync.Mutex
	err error
}

func (r *readErrorReader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	if err != nil && err != io.EOF {
		r.mu.Lock()
		if r.err == nil {
			r.err = err
		}
		r.mu.Unlock()
	}
	return n, err
}

// Err returns the remembered read error
func (r *readErrorReader) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}
