// Package badges stores uploaded achievement badge images.
package badges

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	// PublicPrefix is the URL path the uploads directory is served under.
	PublicPrefix = "/uploads/"
	subdir       = "badges"
)

// Store writes badge files beneath an uploads directory.
type Store struct {
	dir string
}

// NewStore creates a Store rooted at dir. The directory is created on first save.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Save writes r to a new file named with a random UUID and the extension of
// filename, returning the public path the file is served at.
func (s *Store) Save(filename string, r io.Reader) (string, error) {
	target := filepath.Join(s.dir, subdir)
	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", fmt.Errorf("failed to create badge directory: %w", err)
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(filepath.Base(filename)))

	f, err := os.OpenFile(filepath.Join(target, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create badge file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write badge file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close badge file: %w", err)
	}

	return PublicPrefix + subdir + "/" + name, nil
}

// Remove deletes a badge previously returned by Save. Paths outside the
// badge directory are rejected.
func (s *Store) Remove(publicPath string) error {
	prefix := PublicPrefix + subdir + "/"
	name := strings.TrimPrefix(publicPath, prefix)
	if name == publicPath || name == "" || name != filepath.Base(name) {
		return fmt.Errorf("not a badge path: %q", publicPath)
	}
	if err := os.Remove(filepath.Join(s.dir, subdir, name)); err != nil {
		return fmt.Errorf("failed to remove badge file: %w", err)
	}
	return nil
}

// Handler serves the uploads directory under PublicPrefix.
func (s *Store) Handler() http.Handler {
	return http.StripPrefix(PublicPrefix, http.FileServer(http.Dir(s.dir)))
}
