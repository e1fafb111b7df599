package localstore

import (
	"context"
	"time"
)

const marketDateKey = "selected_date"

// SaveSelectedMarketDate caches the market dashboard's selected date. The
// cache lasts until the end of the day it was written.
func (s *Store) SaveSelectedMarketDate(ctx context.Context, date string) error {
	return s.set(ctx, namespaceMarket, marketDateKey, date)
}

// SelectedMarketDate returns the cached selected date, or ok=false when none
// is cached or the cached one was written on a previous day.
func (s *Store) SelectedMarketDate(ctx context.Context) (string, bool, error) {
	ctx = ensureContext(ctx)
	value, updatedAt, ok, err := s.getWithStamp(ctx, namespaceMarket, marketDateKey)
	if err != nil || !ok {
		return "", false, err
	}
	if !sameDay(updatedAt, s.now()) {
		if delErr := s.delete(ctx, namespaceMarket, marketDateKey); delErr != nil {
			return "", false, delErr
		}
		return "", false, nil
	}
	return value, true, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
