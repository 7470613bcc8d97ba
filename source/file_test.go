package source

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestFileOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.zip")
	if err := os.WriteFile(path, []byte("content"), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %s", err)
	}

	src, err := NewFile().Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open() failed: %s", err)
	}
	defer src.Close()

	if src.Size() != 7 {
		t.Errorf("Size() failed: expected 7, got %d", src.Size())
	}
	if src.Name() != path {
		t.Errorf("Name() failed: expected %s, got %s", path, src.Name())
	}

	p := make([]byte, 3)
	if _, err := src.ReadAt(p, 4); err != nil && err != io.EOF {
		t.Fatalf("ReadAt() failed: %s", err)
	}
	if string(p) != "ent" {
		t.Errorf("ReadAt() failed: expected ent, got %s", p)
	}

	// missing file
	if _, err := NewFile().Open(context.Background(), filepath.Join(dir, "missing.zip")); err == nil {
		t.Errorf("Open() of missing file must fail")
	}

	// directory
	if _, err := NewFile().Open(context.Background(), dir); err == nil {
		t.Errorf("Open() of directory must fail")
	}
}
