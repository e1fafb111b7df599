package localstore

import "time"

// SetNowFunc overrides the store clock for TTL tests.
func (s *Store) SetNowFunc(now func() time.Time) {
	s.now = now
}
