package extract_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	extract "github.com/finnishtransportagency/raita-sub002"
	"github.com/finnishtransportagency/raita-sub002/archive"
	"github.com/finnishtransportagency/raita-sub002/source"
	"github.com/finnishtransportagency/raita-sub002/target"
)

// createTestZip writes a zip archive with the given name to content pairs into dir
func createTestZip(t *testing.T, dir string, files ...string) string {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for i := 0; i+1 < len(files); i += 2 {
		w, err := zw.Create(files[i])
		require.NoError(t, err)
		_, err = io.WriteString(w, files[i+1])
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	path := filepath.Join(dir, "campaign.zip")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestProcessArchive(t *testing.T) {
	tmp := t.TempDir()
	archivePath := createTestZip(t, tmp,
		"report/", "",
		"report/video.MP4", "frames",
		"report/data.csv", "1;2;3\n",
		"report/sub/meta.json", `{"a":1}`,
	)
	out := filepath.Join(tmp, "out")

	res, err := extract.ProcessArchive(context.Background(), source.NewFile(), target.NewOS(out), archivePath, "bucket", "2024/campaign", map[string]string{"a": "b"}, nil)
	require.NoError(t, err)
	assert.NoError(t, res.StreamError)
	assert.Empty(t, res.Entries.Failure)
	assert.Len(t, res.Entries.Success, 2)

	got, err := os.ReadFile(filepath.Join(out, "bucket", "2024", "campaign", "report", "data.csv"))
	require.NoError(t, err)
	assert.Equal(t, "1;2;3\n", string(got))

	got, err = os.ReadFile(filepath.Join(out, "bucket", "2024", "campaign", "report", "sub", "meta.json"))
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(got))

	_, err = os.Stat(filepath.Join(out, "bucket", "2024", "campaign", "report", "video.MP4"))
	assert.True(t, os.IsNotExist(err))
}

func TestProcessArchiveMissing(t *testing.T) {
	res, err := extract.ProcessArchive(context.Background(), source.NewFile(), target.NewMemory(), filepath.Join(t.TempDir(), "missing.zip"), "bucket", "p", nil, nil)
	assert.Nil(t, res)

	var openErr *archive.OpenError
	assert.True(t, errors.As(err, &openErr))
}
