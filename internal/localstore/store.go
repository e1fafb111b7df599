// Package localstore persists the small amount of durable client-only state
// the app keeps between runs: scroll offsets per list view, per-session ad
// impression counters, the market dashboard's selected date, and fetched
// link-preview metadata. Entries are namespaced and carry a timestamp;
// staleness is checked on read against the namespace TTL, and stale entries
// are deleted rather than returned.
package localstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"plaza/internal/config"
	"plaza/internal/services"
)

// Store manages local state persistence backed by SQLite. A file lock keeps
// a single writer across processes.
type Store struct {
	db         *sql.DB
	path       string
	lock       *flock.Flock
	scrollTTL  time.Duration
	previewTTL time.Duration

	now func() time.Time
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

const (
	namespaceScroll      = "scroll"
	namespaceImpressions = "impressions"
	namespaceMarket      = "market"
	namespacePreview     = "preview"
)

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx = ensureContext(ctx)
	var (
		res     sql.Result
		execErr error
	)
	if err := retryOnBusy(ctx, func() error {
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return nil, err
	}
	return res, nil
}

// Open initializes or connects to the local state database and takes the
// writer lock. A second process opening the same store gets ErrConfiguration.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	lock := flock.New(filepath.Join(cfg.Paths.StateDir, "plaza.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire store lock: %w", err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrConfiguration, "localstore", "open",
			"state store is locked by another process", nil)
	}

	dbPath := filepath.Join(cfg.Paths.StateDir, "plaza.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{
		db:         db,
		path:       dbPath,
		lock:       lock,
		scrollTTL:  cfg.ScrollTTL(),
		previewTTL: cfg.PreviewTTL(),
		now:        time.Now,
	}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, err
	}
	return store, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS entries (
	namespace  TEXT NOT NULL,
	key        TEXT NOT NULL,
	value      TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	PRIMARY KEY (namespace, key)
);`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// Close releases the writer lock and closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	if s.lock != nil {
		if unlockErr := s.lock.Unlock(); err == nil {
			err = unlockErr
		}
	}
	return err
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Timestamps are stored as fixed-width RFC3339 UTC so comparing them as
// strings orders them chronologically.
func (s *Store) set(ctx context.Context, namespace, key, value string) error {
	_, err := s.execWithRetry(ctx, `
INSERT INTO entries (namespace, key, value, updated_at) VALUES (?, ?, ?, ?)
ON CONFLICT (namespace, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		namespace, key, value, s.now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", namespace, key, err)
	}
	return nil
}

// get returns the stored value unless the entry is older than ttl, in which
// case the entry is removed and ok is false. A zero ttl disables expiry.
func (s *Store) get(ctx context.Context, namespace, key string, ttl time.Duration) (string, bool, error) {
	ctx = ensureContext(ctx)
	var (
		value     string
		updatedAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT value, updated_at FROM entries WHERE namespace = ? AND key = ?`,
		namespace, key).Scan(&value, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s/%s: %w", namespace, key, err)
	}

	if ttl > 0 {
		stamp, parseErr := time.Parse(time.RFC3339, updatedAt)
		if parseErr != nil || s.now().Sub(stamp) > ttl {
			if delErr := s.delete(ctx, namespace, key); delErr != nil {
				return "", false, delErr
			}
			return "", false, nil
		}
	}
	return value, true, nil
}

// getWithStamp returns the value and its write time without applying any
// TTL; callers with calendar-based expiry evaluate staleness themselves.
func (s *Store) getWithStamp(ctx context.Context, namespace, key string) (string, time.Time, bool, error) {
	ctx = ensureContext(ctx)
	var (
		value     string
		updatedAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT value, updated_at FROM entries WHERE namespace = ? AND key = ?`,
		namespace, key).Scan(&value, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", time.Time{}, false, nil
	}
	if err != nil {
		return "", time.Time{}, false, fmt.Errorf("get %s/%s: %w", namespace, key, err)
	}
	stamp, parseErr := time.Parse(time.RFC3339, updatedAt)
	if parseErr != nil {
		if delErr := s.delete(ctx, namespace, key); delErr != nil {
			return "", time.Time{}, false, delErr
		}
		return "", time.Time{}, false, nil
	}
	return value, stamp, true, nil
}

func (s *Store) delete(ctx context.Context, namespace, key string) error {
	if _, err := s.execWithRetry(ctx, `DELETE FROM entries WHERE namespace = ? AND key = ?`, namespace, key); err != nil {
		return fmt.Errorf("delete %s/%s: %w", namespace, key, err)
	}
	return nil
}

// PruneExpired removes every entry past its namespace TTL and returns the
// number of rows removed. Impression counters have no TTL and are left alone.
func (s *Store) PruneExpired(ctx context.Context) (int64, error) {
	ctx = ensureContext(ctx)
	now := s.now()
	var total int64

	cutoffs := []struct {
		namespace string
		cutoff    time.Time
	}{
		{namespaceScroll, now.Add(-s.scrollTTL)},
		{namespacePreview, now.Add(-s.previewTTL)},
		{namespaceMarket, startOfDay(now)},
	}
	for _, c := range cutoffs {
		res, err := s.execWithRetry(ctx,
			`DELETE FROM entries WHERE namespace = ? AND updated_at < ?`,
			c.namespace, c.cutoff.UTC().Format(time.RFC3339))
		if err != nil {
			return total, fmt.Errorf("prune %s: %w", c.namespace, err)
		}
		if n, raErr := res.RowsAffected(); raErr == nil {
			total += n
		}
	}
	return total, nil
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
