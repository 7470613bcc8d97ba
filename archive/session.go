package archive

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"

	"github.com/finnishtransportagency/raita-sub002/config"
	"github.com/finnishtransportagency/raita-sub002/source"
)

// Entry is one record of the archive's central directory.
type Entry struct {
	Name             string
	CompressedSize   uint64
	UncompressedSize uint64
	Method           uint16
	Modified         time.Time

	zf *zip.File
}

// IsDir reports whether the entry is a directory marker. Only the trailing
// separator of the name is considered, not the directory flag of the header.
func (e *Entry) IsDir() bool {
	return strings.HasSuffix(e.Name, "/")
}

// Open returns a reader of the uncompressed entry content. Reading to the end
// verifies the entry's checksum.
func (e *Entry) Open() (io.ReadCloser, error) {
	return e.zf.Open()
}

// Session is one open archive. It is not safe for concurrent calls of Next,
// but readers of entries it returned may be consumed concurrently.
// The central directory is parsed when the session is opened, so its memory grows
// with the number of entries; entry data is only read when an entry is opened.
type Session struct {
	src   source.Source
	zr    *zip.Reader
	watch *failureWatch
	next  int
}

// Open opens the archive at path with opener. Every failure is returned as [*OpenError].
func Open(ctx context.Context, opener source.Opener, path string, c *config.Config) (*Session, error) {
	src, err := opener.Open(ctx, path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}

	s, err := newSession(src, c)
	if err != nil {
		src.Close()
		return nil, &OpenError{Path: path, Err: err}
	}
	return s, nil
}

// newSession reads the central directory of src
func newSession(src source.Source, c *config.Config) (*Session, error) {
	watch := newFailureWatch(src)

	header, err := readHeader(watch, src.Size())
	if err != nil {
		return nil, fmt.Errorf("cannot read header: %w", err)
	}
	if !IsZip(header) {
		return nil, fmt.Errorf("not a zip archive")
	}

	zr, err := zip.NewReader(watch, src.Size())
	if err != nil {
		return nil, fmt.Errorf("cannot create zip reader: %w", err)
	}
	registerDecompressors(zr, c)

	return &Session{src: src, zr: zr, watch: watch}, nil
}

// Name returns the path of the archive
func (s *Session) Name() string {
	return s.src.Name()
}

// Size returns the size of the archive in bytes
func (s *Session) Size() int64 {
	return s.src.Size()
}

// Next returns the next entry in the archive, or io.EOF after the last one.
func (s *Session) Next() (*Entry, error) {
	if s.next >= len(s.zr.File) {
		return nil, io.EOF
	}
	zf := s.zr.File[s.next]
	s.next++
	return &Entry{
		Name:             zf.Name,
		CompressedSize:   zf.CompressedSize64,
		UncompressedSize: zf.UncompressedSize64,
		Method:           zf.Method,
		Modified:         zf.Modified,
		zf:               zf,
	}, nil
}

// Failed returns a channel that is closed once the archive byte stream failed.
func (s *Session) Failed() <-chan struct{} {
	return s.watch.done
}

// Err returns the failure of the archive byte stream, or nil if it did not fail.
func (s *Session) Err() error {
	return s.watch.failed()
}

// Close releases the archive source.
func (s *Session) Close() error {
	return s.src.Close()
}
