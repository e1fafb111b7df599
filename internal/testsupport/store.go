package testsupport

import (
	"testing"

	"plaza/internal/config"
	"plaza/internal/localstore"
)

// MustOpenStore opens a localstore against the test config and closes it
// when the test finishes.
func MustOpenStore(t testing.TB, cfg *config.Config) *localstore.Store {
	t.Helper()
	store, err := localstore.Open(cfg)
	if err != nil {
		t.Fatalf("open localstore: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close localstore: %v", err)
		}
	})
	return store
}
