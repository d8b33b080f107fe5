// Package media abstracts the external image storage collaborator used for
// profile pictures.
package media

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// MaxImageSize is the largest accepted profile image upload.
const MaxImageSize = 5 << 20 // 5MB

// Store persists an uploaded image and returns its public URL.
type Store interface {
	Save(ctx context.Context, data []byte, contentType string) (string, error)
}

// DiscardStore drops image bytes and returns a deterministic URL. Stand-in
// for the real media service in development and tests.
type DiscardStore struct {
	logger *slog.Logger
}

// NewDiscardStore builds a discarding media store.
func NewDiscardStore(logger *slog.Logger) *DiscardStore {
	return &DiscardStore{logger: logger}
}

// Save logs the upload and fabricates a URL from a fresh UUID.
func (s *DiscardStore) Save(_ context.Context, data []byte, contentType string) (string, error) {
	url := fmt.Sprintf("https://media.invalid/profile/%s", uuid.NewString())
	if s != nil && s.logger != nil {
		s.logger.Info("image stored", "bytes", len(data), "content_type", contentType, "url", url)
	}
	return url, nil
}
