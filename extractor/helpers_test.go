package extractor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"

	"github.com/finnishtransportagency/raita-sub002/archive"
	"github.com/finnishtransportagency/raita-sub002/config"
	"github.com/finnishtransportagency/raita-sub002/source"
)

// testEntry describes one entry of a generated zip archive
type testEntry struct {
	name    string
	content string
	method  uint16
}

// createTestZip creates a zip archive in memory
func createTestZip(t *testing.T, entries ...testEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	zw.RegisterCompressor(zstd.ZipMethodWinZip, zstd.ZipCompressor())
	for _, e := range entries {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: e.name, Method: e.method})
		require.NoError(t, err)
		_, err = io.WriteString(w, e.content)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// dataRegion returns the byte range that holds the data of all entries
func dataRegion(t *testing.T, data []byte) (int64, int64) {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	from, err := zr.File[0].DataOffset()
	require.NoError(t, err)
	last := zr.File[len(zr.File)-1]
	to, err := last.DataOffset()
	require.NoError(t, err)
	return from, to + int64(last.CompressedSize64)
}

var errConnReset = errors.New("connection reset")

// memSource is a source.Source over a byte slice. Reads that start in
// [failFrom, failTo) fail with errConnReset.
type memSource struct {
	r        *bytes.Reader
	name     string
	failFrom int64
	failTo   int64
}

func (m *memSource) ReadAt(p []byte, off int64) (int, error) {
	if off >= m.failFrom && off < m.failTo {
		return 0, errConnReset
	}
	return m.r.ReadAt(p, off)
}

func (m *memSource) Close() error { return nil }
func (m *memSource) Name() string { return m.name }
func (m *memSource) Size() int64 { return m.r.Size() }

// memOpener opens archives from memory
type memOpener struct {
	files    map[string][]byte
	failFrom int64
	failTo   int64
}

func newMemOpener(files map[string][]byte) *memOpener {
	return &memOpener{files: files}
}

func (o *memOpener) Open(ctx context.Context, path string) (source.Source, error) {
	data, ok := o.files[path]
	if !ok {
		return nil, fmt.Errorf("%s does not exist", path)
	}
	return &memSource{r: bytes.NewReader(data), name: path, failFrom: o.failFrom, failTo: o.failTo}, nil
}

// openEntries opens data and returns all of its entries
func openEntries(t *testing.T, o *memOpener, path string, c *config.Config) []*archive.Entry {
	t.Helper()
	s, err := archive.Open(context.Background(), o, path, c)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	var res []*archive.Entry
	for {
		e, err := s.Next()
		if err == io.EOF {
			return res
		}
		require.NoError(t, err)
		res = append(res, e)
	}
}
