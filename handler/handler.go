// Package handler runs the archive pipeline for S3 "object created" notifications
// delivered through an SQS queue.
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"github.com/finnishtransportagency/raita-sub002/adminlog"
	"github.com/finnishtransportagency/raita-sub002/extractor"
)

// Metadata keys attached to every relayed object
const (
	MetadataSourceBucket = "source-bucket"
	MetadataSourceKey    = "source-key"
	MetadataZipFileName  = "zip-file-name"
)

// Processor relays the entries of one archive.
type Processor interface {
	ProcessArchive(ctx context.Context, sourcePath string, targetBucket string, keyPrefix string, metadata map[string]string) (*extractor.Result, error)
}

// Recorder stores the result of a run.
type Recorder interface {
	Record(ctx context.Context, run adminlog.Run, res *extractor.Result) error
}

// Option is a function pointer to implement the option pattern
type Option func(*Handler)

// WithRecorder sets the recorder that receives every result
func WithRecorder(r Recorder) Option {
	return func(h *Handler) {
		h.recorder = r
	}
}

// WithLogger sets the logger of the handler
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// Handler processes the archives of S3 notifications.
type Handler struct {
	processor    Processor
	targetBucket string
	recorder     Recorder
	logger       *slog.Logger
}

// New creates a handler that relays archives with p to targetBucket.
func New(p Processor, targetBucket string, opts ...Option) *Handler {
	h := &Handler{
		processor:    p,
		targetBucket: targetBucket,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// HandleSQS processes every zip archive named in the S3 notifications of ev. A message
// whose archive could not be opened is reported as batch item failure, so that the
// queue delivers it again. Messages that are no S3 notification are dropped.
func (h *Handler) HandleSQS(ctx context.Context, ev events.SQSEvent) (events.SQSEventResponse, error) {
	var resp events.SQSEventResponse
	for _, msg := range ev.Records {
		if err := h.handleMessage(ctx, msg); err != nil {
			h.logger.Error("message failed", "messageId", msg.MessageId, "error", err)
			resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{ItemIdentifier: msg.MessageId})
		}
	}
	return resp, nil
}

// handleMessage processes all archives of one message and returns the first open error.
func (h *Handler) handleMessage(ctx context.Context, msg events.SQSMessage) error {
	var notification events.S3Event
	if err := json.Unmarshal([]byte(msg.Body), &notification); err != nil {
		h.logger.Warn("dropping message that is no S3 notification", "messageId", msg.MessageId, "error", err)
		return nil
	}

	var firstErr error
	for _, rec := range notification.Records {
		if err := h.handleRecord(ctx, rec); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (h *Handler) handleRecord(ctx context.Context, rec events.S3EventRecord) error {
	bucket := rec.S3.Bucket.Name
	key, err := url.QueryUnescape(rec.S3.Object.Key)
	if err != nil {
		h.logger.Warn("dropping record with invalid key", "key", rec.S3.Object.Key, "error", err)
		return nil
	}

	keyPrefix, ok := KeyPrefix(key)
	if !ok {
		h.logger.Debug("ignoring object that is no zip archive", "bucket", bucket, "key", key)
		return nil
	}

	metadata := map[string]string{
		MetadataSourceBucket: bucket,
		MetadataSourceKey:    key,
		MetadataZipFileName:  path.Base(key),
	}

	sourcePath := fmt.Sprintf("s3://%s/%s", bucket, key)
	res, err := h.processor.ProcessArchive(ctx, sourcePath, h.targetBucket, keyPrefix, metadata)
	if err != nil {
		return err
	}

	h.logger.Info("archive processed",
		"archive", sourcePath,
		"run", res.RunID,
		"success", len(res.Entries.Success),
		"failure", len(res.Entries.Failure),
		"streamError", res.StreamError,
	)

	if h.recorder != nil {
		run := adminlog.Run{Archive: sourcePath, TargetBucket: h.targetBucket, KeyPrefix: keyPrefix}
		if err := h.recorder.Record(ctx, run, res); err != nil {
			h.logger.Error("cannot record run", "archive", sourcePath, "error", err)
		}
	}
	return nil
}

// KeyPrefix returns the key of an archive without its ".zip" extension. It reports
// false for keys that do not name a zip archive.
func KeyPrefix(key string) (string, bool) {
	const ext = ".zip"
	if len(key) <= len(ext) || !strings.EqualFold(key[len(key)-len(ext):], ext) {
		return "", false
	}
	return key[:len(key)-len(ext)], true
}
