package extract

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestExtractText(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "jane.txt", "Python and SQL")

	doc := New(nil).Extract(context.Background(), path)
	require.NoError(t, doc.Err)
	assert.Equal(t, "jane.txt", doc.FileName)
	assert.Equal(t, "Python and SQL", doc.RawText)
}

func TestExtractFailures(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	tests := []struct {
		name   string
		path   string
		expect error
	}{
		{name: "missing file", path: filepath.Join(dir, "missing.pdf"), expect: ErrUnreadable},
		{name: "broken pdf", path: writeFile(t, dir, "broken.pdf", "not a pdf at all"), expect: ErrUnreadable},
		{name: "unsupported", path: writeFile(t, dir, "photo.png", "png"), expect: ErrUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := New(nil).Extract(context.Background(), tt.path)
			assert.ErrorIs(t, doc.Err, tt.expect)
			assert.Empty(t, doc.RawText)
			assert.Equal(t, filepath.Base(tt.path), doc.FileName)
		})
	}
}

func TestFromBytes(t *testing.T) {
	t.Parallel()

	doc := New(nil).FromBytes("notes.MD", []byte("# Go developer"))
	require.NoError(t, doc.Err)
	assert.Equal(t, "# Go developer", doc.RawText)

	doc = New(nil).FromBytes("cv.pdf", []byte("%PDF-1.4 truncated"))
	assert.ErrorIs(t, doc.Err, ErrUnreadable)
}

func TestExtractAllKeepsOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "a.txt", "alpha"),
		writeFile(t, dir, "b.pdf", "garbage"),
		writeFile(t, dir, "c.txt", "gamma"),
	}

	docs, err := New(nil).ExtractAll(context.Background(), paths, 2)
	require.NoError(t, err)
	require.Len(t, docs, 3)

	assert.Equal(t, "a.txt", docs[0].FileName)
	assert.Equal(t, "alpha", docs[0].RawText)
	assert.Error(t, docs[1].Err)
	assert.Equal(t, "gamma", docs[2].RawText)
}

func TestExtractAllCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	docs, err := New(nil).ExtractAll(ctx, []string{"a.txt"}, 1)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, docs)
}

func TestSupported(t *testing.T) {
	t.Parallel()

	assert.True(t, Supported("cv.PDF"))
	assert.True(t, Supported("cv.txt"))
	assert.False(t, Supported("cv.docx"))
	assert.False(t, Supported("README"))
}
