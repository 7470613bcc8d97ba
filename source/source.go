package source

import (
	"context"
	"io"
)

// Source is a random access view of one archive.
type Source interface {
	io.ReaderAt
	io.Closer

	// Name returns the path the source was opened with
	Name() string

	// Size returns the size of the archive in bytes
	Size() int64
}

// Opener opens the archive found at path.
type Opener interface {
	Open(ctx context.Context, path string) (Source, error)
}
