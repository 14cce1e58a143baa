// Package storage keeps uploaded media (images, videos) in a blob store and
// hands back the public URL under which it is served.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Blob stores and removes uploaded objects.
type Blob interface {
	// Put stores r under a fresh key inside folder and returns its public URL.
	Put(ctx context.Context, folder, filename, contentType string, r io.Reader, size int64) (string, error)
	// Delete removes the object behind a URL returned by Put. URLs the store
	// does not own are ignored.
	Delete(ctx context.Context, url string) error
}

type Config struct {
	Driver        string // "local" | "s3"
	UploadDir     string
	PublicBaseURL string

	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3PublicURL string
}

func New(ctx context.Context, cfg Config) (Blob, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", "local":
		return NewLocal(cfg.UploadDir, cfg.PublicBaseURL)
	case "s3":
		return NewS3(ctx, cfg)
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}

// objectKey builds "<folder>/<unix-ms>-<uuid><ext>" keeping only the
// extension of the client-supplied name.
func objectKey(folder, filename string) string {
	ext := strings.ToLower(path.Ext(path.Base(strings.ReplaceAll(filename, "\\", "/"))))
	if len(ext) > 10 {
		ext = ""
	}
	name := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), ext)
	folder = strings.Trim(folder, "/")
	if folder == "" {
		return name
	}
	return folder + "/" + name
}

// keyFromURL returns the object key of url under base, or "" when url is
// not served from base.
func keyFromURL(base, url string) string {
	base = strings.TrimRight(base, "/") + "/"
	if !strings.HasPrefix(url, base) {
		return ""
	}
	key := strings.TrimPrefix(url, base)
	if key == "" || strings.Contains(key, "..") {
		return ""
	}
	return key
}
