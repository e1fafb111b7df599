package localstore

import (
	"context"
	"strconv"
	"strings"
)

// ScrollKey identifies one distinct list view. Tag, Search, and User are
// optional refinements; two views differing in any field remember separate
// offsets.
type ScrollKey struct {
	Path   string
	Tag    string
	Search string
	User   string
}

func (k ScrollKey) storageKey() string {
	// Fields are escaped so a literal "|" in a search term cannot collide
	// with another key.
	parts := []string{k.Path, k.Tag, k.Search, k.User}
	for i, part := range parts {
		parts[i] = strings.ReplaceAll(part, "|", "||")
	}
	return strings.Join(parts, "|")
}

// SaveScrollPosition remembers the scroll offset for a list view.
func (s *Store) SaveScrollPosition(ctx context.Context, key ScrollKey, offset int) error {
	return s.set(ctx, namespaceScroll, key.storageKey(), strconv.Itoa(offset))
}

// ScrollPosition returns the remembered offset for a list view, or 0 when
// none was saved or the saved one has aged past the scroll TTL. Stale
// entries are removed on read.
func (s *Store) ScrollPosition(ctx context.Context, key ScrollKey) (int, error) {
	value, ok, err := s.get(ctx, namespaceScroll, key.storageKey(), s.scrollTTL)
	if err != nil || !ok {
		return 0, err
	}
	offset, parseErr := strconv.Atoi(value)
	if parseErr != nil {
		// Unreadable entries are treated like stale ones.
		if delErr := s.delete(ctx, namespaceScroll, key.storageKey()); delErr != nil {
			return 0, delErr
		}
		return 0, nil
	}
	return offset, nil
}

// ClearScrollPosition drops the remembered offset for a list view.
func (s *Store) ClearScrollPosition(ctx context.Context, key ScrollKey) error {
	return s.delete(ctx, namespaceScroll, key.storageKey())
}
