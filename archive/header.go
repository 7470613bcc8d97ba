package archive

import (
	"bytes"
	"io"
)

// magicBytesZIP contains the magic bytes for a zip archive, including the
// end of central directory record that starts an empty archive.
// reference: https://pkware.cachefly.net/webdocs/casestudies/APPNOTE.TXT
var magicBytesZIP = [][]byte{
	{0x50, 0x4B, 0x03, 0x04},
	{0x50, 0x4B, 0x05, 0x06},
}

// maxHeaderLength is the number of bytes needed to detect a zip archive
const maxHeaderLength = 4

// IsZip checks if data starts like a zip archive.
func IsZip(data []byte) bool {
	return matchesMagicBytes(data, 0, magicBytesZIP)
}

func matchesMagicBytes(data []byte, offset int, magicBytes [][]byte) bool {
	// check all possible magic bytes until match is found
	for _, mb := range magicBytes {
		// check if header is long enough
		if offset+len(mb) > len(data) {
			continue
		}

		// check for byte match
		if bytes.Equal(mb, data[offset:offset+len(mb)]) {
			return true
		}
	}

	// no match found
	return false
}

// readHeader reads the first bytes of r
func readHeader(r io.ReaderAt, size int64) ([]byte, error) {
	n := int64(maxHeaderLength)
	if size < n {
		n = size
	}
	header := make([]byte, n)
	if _, err := r.ReadAt(header, 0); err != nil && err != io.EOF {
		return nil, err
	}
	return header, nil
}
