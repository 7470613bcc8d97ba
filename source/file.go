package source

import (
	"context"
	"fmt"
	"os"
)

// File opens archives from the local filesystem.
type File struct{}

// NewFile creates a new local filesystem opener.
func NewFile() *File {
	return &File{}
}

// Open opens the file at path.
func (f *File) Open(ctx context.Context, path string) (Source, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	stat, err := fh.Stat()
	if err != nil {
		fh.Close()
		return nil, err
	}
	if stat.IsDir() {
		fh.Close()
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return &fileSource{File: fh, size: stat.Size()}, nil
}

// fileSource is a [Source] backed by an [os.File]
type fileSource struct {
	*os.File
	size int64
}

func (f *fileSource) Size() int64 {
	return f.size
}
