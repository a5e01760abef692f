// Package media stores uploaded event images on local disk.
package media

import (
	"errors"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxImageBytes caps uploaded image size at 5 MB.
const MaxImageBytes = 5 << 20

var (
	ErrNotImage = errors.New("file is not an image")
	ErrTooLarge = errors.New("image exceeds size limit")
)

// Store writes images under Dir and reports them as URLs under BaseURL.
type Store struct {
	Dir     string
	BaseURL string
}

func NewStore(dir, baseURL string) *Store {
	return &Store{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}
}

// SaveImage persists an uploaded image under a random filename and returns
// its public URL.  Only image/* content types are accepted and the size is
// checked before any bytes touch disk.
func (s *Store) SaveImage(fh *multipart.FileHeader) (string, error) {
	if !strings.HasPrefix(fh.Header.Get("Content-Type"), "image/") {
		return "", ErrNotImage
	}
	if fh.Size > MaxImageBytes {
		return "", ErrTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	// LimitReader guards against a lying Content-Length.
	if _, err := io.Copy(dst, io.LimitReader(src, MaxImageBytes+1)); err != nil {
		return "", err
	}
	if info, err := dst.Stat(); err == nil && info.Size() > MaxImageBytes {
		_ = os.Remove(dst.Name())
		return "", ErrTooLarge
	}

	return s.BaseURL + "/" + name, nil
}

// Remove deletes a previously stored image given its public URL.  Unknown
// URLs are ignored.
func (s *Store) Remove(url string) {
	if url == "" || !strings.HasPrefix(url, s.BaseURL+"/") {
		return
	}
	name := filepath.Base(strings.TrimPrefix(url, s.BaseURL+"/"))
	_ = os.Remove(filepath.Join(s.Dir, name))
}
