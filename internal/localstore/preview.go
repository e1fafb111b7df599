package localstore

import (
	"context"
	"encoding/json"
	"fmt"
)

// Preview is cached link-preview metadata for one URL.
type Preview struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

// SaveLinkPreview caches preview metadata for a URL.
func (s *Store) SaveLinkPreview(ctx context.Context, url string, preview Preview) error {
	data, err := json.Marshal(preview)
	if err != nil {
		return fmt.Errorf("encode preview: %w", err)
	}
	return s.set(ctx, namespacePreview, url, string(data))
}

// LinkPreview returns cached preview metadata for a URL, or ok=false when
// nothing fresh is cached. Entries expire after the preview TTL.
func (s *Store) LinkPreview(ctx context.Context, url string) (Preview, bool, error) {
	value, ok, err := s.get(ctx, namespacePreview, url, s.previewTTL)
	if err != nil || !ok {
		return Preview{}, false, err
	}
	var preview Preview
	if err := json.Unmarshal([]byte(value), &preview); err != nil {
		if delErr := s.delete(ctx, namespacePreview, url); delErr != nil {
			return Preview{}, false, delErr
		}
		return Preview{}, false, nil
	}
	return preview, true, nil
}
