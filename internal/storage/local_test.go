package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalPutDelete(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLocal(dir, "http://localhost:10000/uploads/")
	require.NoError(t, err)

	url, err := l.Put(context.Background(), "posts", "../../etc/Photo.JPG", "image/jpeg", strings.NewReader("jpeg-bytes"), 10)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "http://localhost:10000/uploads/posts/"), url)
	assert.True(t, strings.HasSuffix(url, ".jpg"), url)

	key := strings.TrimPrefix(url, "http://localhost:10000/uploads/")
	b, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(key)))
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(b))

	require.NoError(t, l.Delete(context.Background(), url))
	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(key)))
	assert.True(t, os.IsNotExist(err))

	// Deleting twice, or a foreign URL, is a no-op.
	assert.NoError(t, l.Delete(context.Background(), url))
	assert.NoError(t, l.Delete(context.Background(), "https://res.cloudinary.com/x/upload/v1/a.mp4"))
}

func TestKeyFromURL(t *testing.T) {
	tests := []struct {
		base, url, want string
	}{
		{"/uploads", "/uploads/posts/a.png", "posts/a.png"},
		{"/uploads/", "/uploads/a.png", "a.png"},
		{"/uploads", "/other/a.png", ""},
		{"/uploads", "/uploads/../secret", ""},
		{"/uploads", "/uploads/", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, keyFromURL(tt.base, tt.url), tt.url)
	}
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	_, err := New(context.Background(), Config{Driver: "ftp"})
	assert.Error(t, err)
}
