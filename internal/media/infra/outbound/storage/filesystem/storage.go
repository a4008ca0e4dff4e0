package filesystem

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/davicafu/autostock/internal/media/domain"
)

// ObjectStorage guarda los objetos como ficheros bajo baseDir. Las URLs
// públicas apuntan a baseURL, que el router sirve como estático.
type ObjectStorage struct {
	baseDir string
	baseURL string
	mu      sync.Mutex // evita escrituras concurrentes sobre la misma clave
}

var _ domain.ObjectStorage = (*ObjectStorage)(nil)

func NewObjectStorage(baseDir, baseURL string) (*ObjectStorage, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create media dir: %w", err)
	}
	return &ObjectStorage{baseDir: baseDir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// path resuelve la clave dentro de baseDir; rechaza claves que escapen de él.
func (s *ObjectStorage) path(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if clean == "/" {
		return "", fmt.Errorf("%w: empty object key", domain.ErrInvalidUpload)
	}
	return filepath.Join(s.baseDir, filepath.FromSlash(clean)), nil
}

func (s *ObjectStorage) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	// Se escribe en un temporal y se renombra para no dejar ficheros a medias.
	tmp, err := os.CreateTemp(filepath.Dir(p), ".upload-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	written, err := io.Copy(tmp, io.LimitReader(body, size+1))
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}
	if written != size {
		return fmt.Errorf("%w: expected %d bytes, got %d", domain.ErrInvalidUpload, size, written)
	}
	return os.Rename(tmp.Name(), p)
}

func (s *ObjectStorage) PublicURL(key string) string {
	return s.baseURL + "/" + strings.TrimLeft(key, "/")
}

func (s *ObjectStorage) Delete(ctx context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
