package filesystem

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewLocalStorage(filepath.Join(dir, "uploads"))
	require.NoError(t, err)

	path, err := storage.Save(context.Background(), "punch-abc.jpg", strings.NewReader("image bytes"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "uploads", "punch-abc.jpg"), path)

	var buf bytes.Buffer
	require.NoError(t, storage.Open(context.Background(), "punch-abc.jpg", &buf))
	assert.Equal(t, "image bytes", buf.String())
}

func TestLocalStorageOpenMissing(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	var buf bytes.Buffer
	assert.Error(t, storage.Open(context.Background(), "nope.jpg", &buf))
}
