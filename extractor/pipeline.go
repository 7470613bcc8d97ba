package extractor

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/finnishtransportagency/raita-sub002/archive"
	"github.com/finnishtransportagency/raita-sub002/config"
	"github.com/finnishtransportagency/raita-sub002/source"
	"github.com/finnishtransportagency/raita-sub002/target"
	"github.com/finnishtransportagency/raita-sub002/telemetry"
)

// now is a function point that returns time.Now to the caller.
var now = time.Now

// captureDuration stores the time since start in m
func captureDuration(m *telemetry.Data, start time.Time) {
	stop := now()
	m.Duration = stop.Sub(start)
}

// state is the phase of one archive run
type state int

const (
	stateIdle state = iota
	stateOpening
	stateReading
	stateDraining
	stateResolved
	stateRejected
)

func (s state) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateOpening:
		return "opening"
	case stateReading:
		return "reading"
	case stateDraining:
		return "draining"
	case stateResolved:
		return "resolved"
	case stateRejected:
		return "rejected"
	}
	return "unknown"
}

// Pipeline relays the entries of archives opened by an opener to a target.
// It is safe for concurrent use; every call of ProcessArchive is an independent run.
type Pipeline struct {
	opener     source.Opener
	uploader   *Uploader
	classifier *Classifier
	config     *config.Config
}

// New creates a pipeline that reads archives with opener and writes entries to dst.
func New(opener source.Opener, dst target.Target, c *config.Config) *Pipeline {
	if c == nil {
		c = config.NewConfig()
	}
	return &Pipeline{
		opener:     opener,
		uploader:   NewUploader(dst),
		classifier: NewClassifier(c.SkipExtensions()),
		config:     c,
	}
}

// ProcessArchive relays every processable entry of the archive at sourcePath to
// targetBucket under "{keyPrefix}/{entry name}" with metadata attached. It returns
// an error only if the archive cannot be opened, as [*archive.OpenError]. In every
// other case it waits for all started uploads and returns the result.
func (p *Pipeline) ProcessArchive(ctx context.Context, sourcePath string, targetBucket string, keyPrefix string, metadata map[string]string) (*Result, error) {
	r := &run{
		pipeline: p,
		state:    stateIdle,
		td: &telemetry.Data{
			Archive:      sourcePath,
			RunID:        uuid.NewString(),
			TargetBucket: targetBucket,
		},
		dest: Destination{
			Bucket:    targetBucket,
			KeyPrefix: keyPrefix,
			Metadata:  metadata,
		},
	}
	r.logger = runLogger{l: p.config.Logger(), kv: []any{"run", r.td.RunID, "archive", sourcePath}}

	// emit telemetry data
	defer p.config.TelemetryHook()(ctx, r.td)
	defer captureDuration(r.td, now())

	return r.execute(ctx, sourcePath)
}

// run is the state of one ProcessArchive call
type run struct {
	pipeline *Pipeline
	state    state
	logger   runLogger
	td       *telemetry.Data
	dest     Destination

	mu      sync.Mutex
	records []EntryRecord
}

// transition moves the run to the next state
func (r *run) transition(to state) {
	r.logger.Debug("state transition", "from", r.state.String(), "to", to.String())
	r.state = to
}

// collect stores the record of a settled upload
func (r *run) collect(rec EntryRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
}

func (r *run) execute(ctx context.Context, sourcePath string) (*Result, error) {
	r.transition(stateOpening)
	sess, err := archive.Open(ctx, r.pipeline.opener, sourcePath, r.pipeline.config)
	if err != nil {
		r.transition(stateRejected)
		r.td.OpenFailed = true
		r.logger.Error("cannot open archive", "error", err)
		return nil, err
	}
	defer sess.Close()
	r.td.ArchiveSize = sess.Size()

	r.transition(stateReading)
	r.logger.Info("start processing", "size", sess.Size(), "bucket", r.dest.Bucket, "prefix", r.dest.KeyPrefix)

	var g errgroup.Group
	g.SetLimit(r.pipeline.config.MaxConcurrentUploads())
	streamErr := r.traverse(ctx, sess, &g)

	r.transition(stateDraining)
	_ = g.Wait() // uploads never fail

	// entry data is read by the uploads, so the stream may fail after the traversal ended
	if streamErr == nil {
		streamErr = sess.Err()
	}

	res := Aggregate(r.records, streamErr)
	res.RunID = r.td.RunID
	r.transition(stateResolved)

	// store telemetry
	r.td.StreamError = streamErr
	r.td.UploadedEntries = int64(len(res.Entries.Success))
	r.td.FailedEntries = int64(len(res.Entries.Failure))
	for _, rec := range res.Entries.Success {
		r.td.UploadedBytes += int64(rec.UncompressedSize)
	}

	if streamErr != nil {
		r.logger.Warn("archive stream failed", "error", streamErr)
	}
	r.logger.Info("finished processing", "success", len(res.Entries.Success), "failure", len(res.Entries.Failure))
	return res, nil
}

// traverse pulls entries until the end of the archive and starts an upload for every
// processable entry. It returns the error that stopped the traversal early, if any.
func (r *run) traverse(ctx context.Context, sess *archive.Session, g *errgroup.Group) error {
	var counter int64
	for {
		// stop on a failed archive stream or a cancelled context
		select {
		case <-sess.Failed():
			return sess.Err()
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		e, err := sess.Next()
		switch {
		case err == io.EOF:
			return nil
		case err != nil:
			return err
		}

		counter++
		if err := r.pipeline.config.CheckMaxEntries(counter); err != nil {
			return err
		}
		r.td.Entries++

		switch r.pipeline.classifier.Classify(e.Name) {
		case SkipDirectory:
			r.td.SkippedDirs++
			r.logger.Debug("skipping directory", "name", e.Name)
			continue
		case SkipMedia:
			r.td.SkippedMedia++
			r.logger.Debug("skipping media file", "name", e.Name)
			continue
		}

		r.logger.Debug("relay entry", "name", e.Name, "size", e.UncompressedSize)
		g.Go(func() error {
			rec := r.pipeline.uploader.Upload(ctx, e, r.dest)
			if rec.Status == StatusFailure {
				r.logger.Warn("entry failed", "name", rec.FileName, "cause", rec.FailureCause)
			}
			r.collect(rec)
			return nil
		})
	}
}

// runLogger adds the key values of a run to every log line
type runLogger struct {
	l  config.Logger
	kv []any
}

func (r runLogger) with(kv []any) []any {
	return append(r.kv[:len(r.kv):len(r.kv)], kv...)
}

func (r runLogger) Debug(msg string, kv ...any) { r.l.Debug(msg, r.with(kv)...) }
func (r runLogger) Info(msg string, kv ...any) { r.l.Info(msg, r.with(kv)...) }
func (r runLogger) Warn(msg string, kv ...any) { r.l.Warn(msg, r.with(kv)...) }
func (r runLogger) Error(msg string, kv ...any) { r.l.Error(msg, r.with(kv)...) }
