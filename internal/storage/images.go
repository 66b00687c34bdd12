// Package storage keeps uploaded product images on the local filesystem.
package storage

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"kasir/internal/apperrors"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// PublicPrefix is the URL path under which stored images are served.
const PublicPrefix = "/uploads/"

// MaxImageSize bounds a single uploaded image.
const MaxImageSize = 5 << 20

// allowedTypes are the raster formats accepted as product images. SVG is
// left out since it can carry script.
var allowedTypes = []string{"image/png", "image/jpeg", "image/gif", "image/webp", "image/bmp"}

// ImageStore saves and removes product images.
type ImageStore interface {
	// Save stores the image and returns its public reference. The stored
	// extension follows the sniffed content, never the client's filename.
	Save(filename string, r io.Reader) (string, error)
	// Delete removes a previously stored image. Unknown references are ignored.
	Delete(ref string) error
}

// DiskImageStore writes images into a single directory.
type DiskImageStore struct {
	dir string
}

// NewDiskImageStore creates the directory if needed.
func NewDiskImageStore(dir string) (*DiskImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %w", dir, err)
	}
	return &DiskImageStore{dir: dir}, nil
}

// Dir returns the directory images are written to.
func (s *DiskImageStore) Dir() string {
	return s.dir
}

func (s *DiskImageStore) Save(_ string, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) > MaxImageSize {
		return "", apperrors.NewValidationError("gambar", "image is larger than 5MB")
	}

	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), allowedTypes...) {
		return "", apperrors.NewValidationError("gambar", fmt.Sprintf("unsupported file type %s", mtype.String()))
	}
	name := uuid.New().String() + mtype.Extension()

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("failed to write image file: %w", err)
	}
	return PublicPrefix + name, nil
}

func (s *DiskImageStore) Delete(ref string) error {
	if !strings.HasPrefix(ref, PublicPrefix) {
		return nil
	}
	name := path.Base(ref)
	if name == "." || name == "/" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete image %s: %w", ref, err)
	}
	return nil
}
