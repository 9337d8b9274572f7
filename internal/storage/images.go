package storage

import (
	"encoding/base64"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ImageStore writes uploaded images to the local filesystem under
// type-keyed directories, e.g. <root>/rose/<name>.jpg. Writes go straight
// to the final path; a concurrent write to the same path is not guarded.
type ImageStore struct {
	root string
}

// NewImageStore constructs an ImageStore rooted at dir.
func NewImageStore(dir string) *ImageStore {
	return &ImageStore{root: dir}
}

// Save stores an uploaded file under the flower type's directory and
// returns the path relative to the media root.
func (s *ImageStore) Save(file *multipart.FileHeader, flowerType string) (string, error) {
	dir := filepath.Join(s.root, flowerType)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext == "" {
		ext = ".jpg"
	}
	name := uuid.New().String() + ext
	dstPath := filepath.Join(dir, name)

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return filepath.Join(flowerType, name), nil
}

// Delete removes a stored image. Missing files are ignored; other
// failures are logged, not surfaced, since the database record is already
// gone by the time this runs.
func (s *ImageStore) Delete(relPath string) {
	if relPath == "" {
		return
	}
	if err := os.Remove(filepath.Join(s.root, relPath)); err != nil && !os.IsNotExist(err) {
		log.Printf("[ImageStore] Failed to delete %s: %v", relPath, err)
	}
}

// ReadBase64 returns the stored image encoded as base64, or nil when the
// path is empty or the file is missing.
func (s *ImageStore) ReadBase64(relPath string) *string {
	if relPath == "" {
		return nil
	}

	data, err := os.ReadFile(filepath.Join(s.root, relPath))
	if err != nil {
		return nil
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	return &encoded
}
