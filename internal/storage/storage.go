package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// AferoStore keeps one bucket of objects below a directory of an afero
// filesystem. Tests hand it an afero.MemMapFs.
type AferoStore struct {
	fs      afero.Fs
	bucket  string
	baseURL string
}

var _ ObjectStore = (*AferoStore)(nil)

// NewAferoStore creates a store for bucket rooted at <root>/<bucket> on fs.
// Objects are served below /storage/<bucket>/.
func NewAferoStore(fsys afero.Fs, root, bucket string) *AferoStore {
	return &AferoStore{
		fs:      afero.NewBasePathFs(fsys, filepath.Join(root, bucket)),
		bucket:  bucket,
		baseURL: "/storage/" + bucket + "/",
	}
}

// Bucket returns the bucket name.
func (s *AferoStore) Bucket() string {
	return s.bucket
}

// Upload writes the content of r to a new object at p.
func (s *AferoStore) Upload(ctx context.Context, p string, r io.Reader) (int64, error) {
	clean, err := cleanPath(p)
	if err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := s.fs.MkdirAll(path.Dir(clean), 0o755); err != nil {
		return 0, err
	}

	f, err := s.fs.OpenFile(clean, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return 0, ErrObjectExists
		}
		return 0, err
	}

	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = s.fs.Remove(clean)
		return 0, err
	}
	return n, nil
}

// Open returns a reader for the object at p.
func (s *AferoStore) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	clean, err := cleanPath(p)
	if err != nil {
		return nil, err
	}
	f, err := s.fs.OpenFile(clean, os.O_RDONLY, 0)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrObjectNotFound
		}
		return nil, err
	}
	if info, err := f.Stat(); err == nil && info.IsDir() {
		f.Close()
		return nil, ErrObjectNotFound
	}
	return f, nil
}

// Remove deletes the object at p.
func (s *AferoStore) Remove(ctx context.Context, p string) error {
	clean, err := cleanPath(p)
	if err != nil {
		return err
	}
	if err := s.fs.Remove(clean); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrObjectNotFound
		}
		return err
	}
	return nil
}

// PublicURL returns the URL the object at p is served from.
func (s *AferoStore) PublicURL(p string) string {
	return s.baseURL + strings.TrimPrefix(p, "/")
}

// PathFromURL reverses PublicURL. ok is false for URLs outside this bucket.
func (s *AferoStore) PathFromURL(u string) (string, bool) {
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	idx := strings.Index(u, s.baseURL)
	if idx < 0 {
		return "", false
	}
	p := u[idx+len(s.baseURL):]
	if _, err := cleanPath(p); err != nil {
		return "", false
	}
	return p, true
}

func cleanPath(p string) (string, error) {
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return "", ErrInvalidPath
	}
	clean := path.Clean(p)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", ErrInvalidPath
	}
	return clean, nil
}
