package blob

import (
	"context"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// Store abstracts attachment storage down to what this system needs: put
// bytes behind a key, drop a key. Upload plumbing (multipart handling,
// content-type sniffing) lives with the HTTP layer, outside this module.
type Store interface {
	Save(ctx context.Context, key string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
}

var ErrNoKey = errors.New("no storage key recognizable in url")

// KeyFromURL resolves an attachment URL back to its storage key. Primary
// path: parse the URL and strip the configured path prefix. Fallback: locate
// the prefix token anywhere in the raw string and take everything after it,
// covers malformed URLs that still carry a recognizable key.
func KeyFromURL(rawURL, pathPrefix string) (string, error) {
	if pathPrefix == "" {
		pathPrefix = "/uploads/"
	}

	if u, err := url.Parse(rawURL); err == nil {
		if key, ok := strings.CutPrefix(u.Path, pathPrefix); ok && key != "" {
			return key, nil
		}
	}

	if idx := strings.Index(rawURL, pathPrefix); idx >= 0 {
		key := rawURL[idx+len(pathPrefix):]
		if key != "" {
			return key, nil
		}
	}

	return "", errors.Wrapf(ErrNoKey, "blob.KeyFromURL: %q", rawURL)
}
