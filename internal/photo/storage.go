// Package photo stores uploaded record photos on local disk.
// Files are content-addressed: identical uploads map to the same name.
package photo

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"

	"github.com/pkordes/travel-log/internal/domain"
)

// allowed maps each accepted content type to the extension used on disk.
var allowed = []struct {
	mime string
	ext  string
}{
	{"image/jpeg", ".jpg"},
	{"image/png", ".png"},
	{"image/webp", ".webp"},
}

// nameLen is the number of hex characters of the content hash kept in the file name.
const nameLen = 20

// Storage writes photos below a root directory.
type Storage struct {
	root     string
	maxBytes int64
}

// NewStorage returns a Storage rooted at root that rejects files larger than
// maxBytes. The directory is created on first write.
func NewStorage(root string, maxBytes int64) *Storage {
	return &Storage{root: root, maxBytes: maxBytes}
}

// Root is the directory photos are written to.
func (s *Storage) Root() string { return s.root }

// Save reads the whole upload from r, checks its size and sniffed content
// type, and writes it to disk. The returned Photo.Path is relative to Root.
//
// A file that is too large or not a JPEG, PNG or WEBP image yields an error
// wrapping domain.ErrValidation; disk failures wrap domain.ErrUpstream.
func (s *Storage) Save(ctx context.Context, r io.Reader) (domain.Photo, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return domain.Photo{}, fmt.Errorf("photo.Storage.Save: read: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return domain.Photo{}, fmt.Errorf("%w: file_too_large", domain.ErrValidation)
	}

	contentType, ext, ok := classify(data)
	if !ok {
		return domain.Photo{}, fmt.Errorf("%w: unsupported_mime", domain.ErrValidation)
	}

	if err := ctx.Err(); err != nil {
		return domain.Photo{}, err
	}

	sum := sha256.Sum256(data)
	name := hex.EncodeToString(sum[:])[:nameLen] + ext
	if err := s.write(name, data); err != nil {
		return domain.Photo{}, fmt.Errorf("photo.Storage.Save: %w: %w", domain.ErrUpstream, err)
	}

	return domain.Photo{Path: name, ContentType: contentType, SizeBytes: int64(len(data))}, nil
}

// write stores data under name via a temp file and rename, so a reader never
// sees a partially written photo.
func (s *Storage) write(name string, data []byte) error {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.root, ".upload-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(s.root, name))
}

func classify(data []byte) (contentType, ext string, ok bool) {
	m := mimetype.Detect(data)
	for _, a := range allowed {
		if m.Is(a.mime) {
			return a.mime, a.ext, true
		}
	}
	return "", "", false
}
