package archive

import (
	"io"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"

	"github.com/finnishtransportagency/raita-sub002/config"
)

// methodXz is the zip compression method id of xz
const methodXz uint16 = 95

// registerDecompressors adds the decompressors beyond store and deflate to zr
func registerDecompressors(zr *zip.Reader, c *config.Config) {
	if !c.DenyZstd() {
		zr.RegisterDecompressor(zstd.ZipMethodWinZip, zstd.ZipDecompressor())
		zr.RegisterDecompressor(zstd.ZipMethodPKWare, zstd.ZipDecompressor())
	}
	if !c.DenyXz() {
		zr.RegisterDecompressor(methodXz, decompressXz)
	}
}

// decompressXz returns a reader that uncompresses src with the xz algorithm.
// An invalid stream header is reported by the first Read.
func decompressXz(src io.Reader) io.ReadCloser {
	r, err := xz.NewReader(src)
	if err != nil {
		return &errReadCloser{err: err}
	}
	return &noopReaderCloser{Reader: r}
}

// noopReaderCloser is a struct that implements the io.ReaderCloser interface with a no-op Close method.
type noopReaderCloser struct {
	io.Reader
}

// Close is a no-op method that satisfies the io.Closer interface.
func (n *noopReaderCloser) Close() error {
	return nil
}

// errReadCloser fails every Read with err
type errReadCloser struct {
	err error
}

func (e *errReadCloser) Read([]byte) (int, error) {
	return 0, e.err
}

func (e *errReadCloser) Close() error {
	return nil
}
