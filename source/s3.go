package source

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
)

// ObjectAPI is the subset of the S3 client used to read archives.
type ObjectAPI interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Option is a function pointer to implement the option pattern
type S3Option func(*S3)

// WithMaxIdleStreams sets how many open response bodies are kept for reuse.
func WithMaxIdleStreams(n int) S3Option {
	return func(s *S3) {
		if n > 0 {
			s.maxIdleStreams = n
		}
	}
}

// S3 opens archives stored in S3. Paths are either s3://bucket/key or bucket/key.
type S3 struct {
	client         ObjectAPI
	maxIdleStreams int
}

// NewS3 creates a new S3 opener.
func NewS3(client ObjectAPI, opts ...S3Option) *S3 {
	s := &S3{
		client:         client,
		maxIdleStreams: 8,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ParseLocation splits an s3://bucket/key or bucket/key path into bucket and key.
func ParseLocation(path string) (string, string, error) {
	p := strings.TrimPrefix(path, "s3://")
	bucket, key, ok := strings.Cut(p, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid s3 location %q", path)
	}
	return bucket, key, nil
}

// Open resolves size and ETag of the object. Reads that happen later are pinned to that
// ETag, so an archive replaced during traversal fails the reads instead of mixing versions.
// The reads use ctx, which must stay valid until the source is closed.
func (s *S3) Open(ctx context.Context, path string) (Source, error) {
	bucket, key, err := ParseLocation(path)
	if err != nil {
		return nil, err
	}

	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "head s3://%s/%s", bucket, key)
	}

	return &object{
		client:  s.client,
		ctx:     ctx,
		bucket:  bucket,
		key:     key,
		etag:    aws.ToString(head.ETag),
		size:    aws.ToInt64(head.ContentLength),
		maxIdle: s.maxIdleStreams,
	}, nil
}

// rangeStream is an open GetObject body positioned at off
type rangeStream struct {
	body io.ReadCloser
	off  int64
}

// object is a [Source] that serves ReadAt calls from ranged GetObject requests
type object struct {
	client ObjectAPI
	ctx    context.Context
	bucket string
	key    string
	etag   string
	size   int64

	mu      sync.Mutex
	idle    []*rangeStream // oldest first
	maxIdle int
	closed  bool
}

func (o *object) Name() string {
	return fmt.Sprintf("s3://%s/%s", o.bucket, o.key)
}

func (o *object) Size() int64 {
	return o.size
}

// ReadAt implements [io.ReaderAt]. A read that continues where an earlier read stopped
// reuses that request's body.
func (o *object) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("negative offset %d", off)
	}
	if off >= o.size {
		return 0, io.EOF
	}

	want := p
	if rem := o.size - off; int64(len(want)) > rem {
		want = want[:rem]
	}

	s := o.take(off)
	if s == nil {
		var err error
		if s, err = o.open(off); err != nil {
			return 0, err
		}
	}

	n, err := io.ReadFull(s.body, want)
	s.off += int64(n)
	if err != nil {
		s.body.Close()
		return n, errors.Wrapf(err, "read %s at offset %d", o.Name(), off)
	}
	o.put(s)

	if len(want) < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// open starts a GetObject request from off to the end of the object
func (o *object) open(off int64) (*rangeStream, error) {
	in := &s3.GetObjectInput{
		Bucket: aws.String(o.bucket),
		Key:    aws.String(o.key),
		Range:  aws.String(fmt.Sprintf("bytes=%d-", off)),
	}
	if o.etag != "" {
		in.IfMatch = aws.String(o.etag)
	}
	out, err := o.client.GetObject(o.ctx, in)
	if err != nil {
		return nil, errors.Wrapf(err, "get %s at offset %d", o.Name(), off)
	}
	return &rangeStream{body: out.Body, off: off}, nil
}

// take removes and returns the idle stream positioned at off
func (o *object) take(off int64) *rangeStream {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i, s := range o.idle {
		if s.off == off {
			o.idle = append(o.idle[:i], o.idle[i+1:]...)
			return s
		}
	}
	return nil
}

// put keeps s for reuse and closes the oldest stream above the limit
func (o *object) put(s *rangeStream) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed || s.off >= o.size {
		s.body.Close()
		return
	}
	o.idle = append(o.idle, s)
	if len(o.idle) > o.maxIdle {
		o.idle[0].body.Close()
		o.idle = o.idle[1:]
	}
}

// Close closes all idle streams. Reads in flight finish on their own stream.
func (o *object) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
	for _, s := range o.idle {
		s.body.Close()
	}
	o.idle = nil
	return nil
}
