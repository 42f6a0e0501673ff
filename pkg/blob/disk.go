package blob

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// DiskStore keeps blobs under a single base directory; the key is the
// path relative to it.
type DiskStore struct {
	baseDir   string
	publicURL string
}

func NewDiskStore(baseDir, publicURL string) (*DiskStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "blob.NewDiskStore: ")
	}
	return &DiskStore{baseDir: baseDir, publicURL: strings.TrimSuffix(publicURL, "/")}, nil
}

func (s *DiskStore) Save(ctx context.Context, key string, data []byte) (string, error) {
	path, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", errors.Wrap(err, "blob.DiskStore.Save: ")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.Wrap(err, "blob.DiskStore.Save: ")
	}
	return s.publicURL + "/" + key, nil
}

func (s *DiskStore) Delete(ctx context.Context, key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "blob.DiskStore.Delete: %s", key)
	}
	return nil
}

// resolve rejects keys that would escape the base directory.
func (s *DiskStore) resolve(key string) (string, error) {
	cleaned := filepath.Clean("/" + key)
	if cleaned == "/" {
		return "", errors.New("blob: empty key")
	}
	return filepath.Join(s.baseDir, cleaned), nil
}
