package services

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var ErrUnsupportedImageType = errors.New("unsupported image type")

// MediaStore persists uploaded post images under a local media
// directory, one file per post.
type MediaStore struct {
	dir string
}

func NewMediaStore(dir string) MediaStore {
	return MediaStore{dir: dir}
}

// SavePostImage writes the uploaded image for a post and returns the
// path relative to the media directory. A re-upload for the same post
// overwrites the previous file.
func (m MediaStore) SavePostImage(postID uuid.UUID, filename string, src io.Reader) (string, error) {
	ext := filepath.Ext(filename)
	if !allowedImageExtensions[ext] {
		return "", ErrUnsupportedImageType
	}

	postsDir := filepath.Join(m.dir, "posts")
	if err := os.MkdirAll(postsDir, 0o755); err != nil {
		return "", fmt.Errorf("creating media directory: %w", err)
	}

	relPath := filepath.Join("posts", postID.String()+ext)
	dst, err := os.Create(filepath.Join(m.dir, relPath))
	if err != nil {
		return "", fmt.Errorf("creating image file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("writing image file: %w", err)
	}
	return relPath, nil
}

// Remove deletes a previously saved image. A missing file is not an
// error, the post simply ends up without an image either way.
func (m MediaStore) Remove(relPath string) error {
	if relPath == "" {
		return nil
	}
	err := os.Remove(filepath.Join(m.dir, relPath))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
