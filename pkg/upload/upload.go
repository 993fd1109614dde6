package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// mimeExt maps accepted image MIME types to the stored file extension.
var mimeExt = map[string]string{
	"image/png":  ".png",
	"image/jpg":  ".jpg",
	"image/jpeg": ".jpeg",
}

// Store persists uploaded images on the local filesystem. The directory is
// served statically under a fixed prefix; stored paths are relative so they
// double as URL paths.
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save writes the uploaded file under a fresh UUID name and returns its
// relative path. Files with a MIME type outside the allow-list are rejected.
func (s *Store) Save(fh *multipart.FileHeader) (string, error) {
	ext, ok := mimeExt[fh.Header.Get("Content-Type")]
	if !ok {
		return "", fmt.Errorf("unsupported image type %q", fh.Header.Get("Content-Type"))
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer func() { _ = src.Close() }()

	name := uuid.NewString() + ext
	path := filepath.Join(s.dir, name)
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write image file: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close image file: %w", err)
	}
	return path, nil
}

// Remove deletes a previously saved image. A missing file is not an error.
func (s *Store) Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove image file: %w", err)
	}
	return nil
}
