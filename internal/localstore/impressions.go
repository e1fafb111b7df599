package localstore

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Impression counters are scoped to a browsing session so the ad-ranking
// penalty resets when a new session begins. Counters carry no TTL; stale
// sessions are removed explicitly via ResetSession.

func impressionKey(sessionID, adID string) string {
	return sessionID + "/" + adID
}

// BumpImpression increments the session's counter for an ad and returns the
// new count.
func (s *Store) BumpImpression(ctx context.Context, sessionID, adID string) (int, error) {
	count, err := s.ImpressionCount(ctx, sessionID, adID)
	if err != nil {
		return 0, err
	}
	count++
	if err := s.set(ctx, namespaceImpressions, impressionKey(sessionID, adID), strconv.Itoa(count)); err != nil {
		return 0, err
	}
	return count, nil
}

// ImpressionCount returns how many times the session has shown an ad.
func (s *Store) ImpressionCount(ctx context.Context, sessionID, adID string) (int, error) {
	value, ok, err := s.get(ctx, namespaceImpressions, impressionKey(sessionID, adID), 0)
	if err != nil || !ok {
		return 0, err
	}
	count, parseErr := strconv.Atoi(value)
	if parseErr != nil {
		return 0, nil
	}
	return count, nil
}

// SessionImpressions returns every counter for the session, keyed by ad ID.
func (s *Store) SessionImpressions(ctx context.Context, sessionID string) (map[string]int, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value FROM entries WHERE namespace = ? AND key LIKE ?`,
		namespaceImpressions, sessionID+"/%")
	if err != nil {
		return nil, fmt.Errorf("list impressions: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan impression row: %w", err)
		}
		adID := strings.TrimPrefix(key, sessionID+"/")
		if count, parseErr := strconv.Atoi(value); parseErr == nil {
			counts[adID] = count
		}
	}
	return counts, rows.Err()
}

// ResetSession drops every impression counter belonging to the session.
func (s *Store) ResetSession(ctx context.Context, sessionID string) error {
	if _, err := s.execWithRetry(ctx,
		`DELETE FROM entries WHERE namespace = ? AND key LIKE ?`,
		namespaceImpressions, sessionID+"/%"); err != nil {
		return fmt.Errorf("reset session %s: %w", sessionID, err)
	}
	return nil
}
