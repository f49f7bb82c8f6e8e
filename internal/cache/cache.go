package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"combine-videos/internal/logging"
)

// Default timeout for database operations
const defaultTimeout = 5 * time.Second

// FileName is the database file created inside the cache directory.
const FileName = "probes.db"

// Key identifies one version of a file.
type Key struct {
	Path    string
	Size    int64
	ModTime int64 // UnixNano
}

// Stats summarizes the cache contents.
type Stats struct {
	Entries   int
	Oldest    time.Time
	Newest    time.Time
	SizeBytes int64
}

// DB is the probe cache.
type DB struct {
	db     *sql.DB
	dbPath string
	mu     sync.RWMutex
}

// Open opens (creating if needed) the cache database inside dir.
func Open(ctx context.Context, dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return New(ctx, filepath.Join(dir, FileName))
}

// New opens the cache database at dbPath. The parent directory must exist.
func New(ctx context.Context, dbPath string) (*DB, error) {
	logging.Debug("Probe cache path: %s", dbPath)

	// busy_timeout helps prevent "database is locked" errors when two runs overlap
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close cache database after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to connect to cache database: %w", err)
	}

	// A single sequential run never needs more.
	db.SetMaxOpenConns(1)

	d := &DB{db: db, dbPath: dbPath}

	if err := d.initialize(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close cache database after initialization failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to initialize cache schema: %w", err)
	}

	return d, nil
}

func (d *DB) initialize(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS probes (
		path TEXT PRIMARY KEY,
		size INTEGER NOT NULL,
		mod_time INTEGER NOT NULL,
		data BLOB NOT NULL,
		created_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
	);

	CREATE INDEX IF NOT EXISTS idx_probes_created ON probes(created_at);

	CREATE TABLE IF NOT EXISTS metadata (
		key TEXT PRIMARY KEY,
		value TEXT
	);
	`

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := d.db.ExecContext(ctx, schema)
	return err
}

// Path returns the database file path.
func (d *DB) Path() string {
	return d.dbPath
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Get returns the stored document for key. ok is false when there is no
// entry or the entry belongs to a different version of the file.
func (d *DB) Get(ctx context.Context, key Key) (data []byte, ok bool, err error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	err = d.db.QueryRowContext(ctx,
		"SELECT data FROM probes WHERE path = ? AND size = ? AND mod_time = ?",
		key.Path, key.Size, key.ModTime,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Put stores data for key, replacing any entry for the same path.
func (d *DB) Put(ctx context.Context, key Key, data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := d.db.ExecContext(ctx, `
		INSERT INTO probes (path, size, mod_time, data, created_at)
		VALUES (?, ?, ?, ?, strftime('%s', 'now'))
		ON CONFLICT(path) DO UPDATE SET
			size = excluded.size,
			mod_time = excluded.mod_time,
			data = excluded.data,
			created_at = excluded.created_at
	`, key.Path, key.Size, key.ModTime, data)
	return err
}

// Stats returns entry counts and age range.
func (d *DB) Stats(ctx context.Context) (Stats, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var (
		s              Stats
		oldest, newest sql.NullInt64
	)
	err := d.db.QueryRowContext(ctx,
		"SELECT COUNT(*), MIN(created_at), MAX(created_at) FROM probes",
	).Scan(&s.Entries, &oldest, &newest)
	if err != nil {
		return Stats{}, err
	}
	if oldest.Valid {
		s.Oldest = time.Unix(oldest.Int64, 0)
	}
	if newest.Valid {
		s.Newest = time.Unix(newest.Int64, 0)
	}
	if info, err := os.Stat(d.dbPath); err == nil {
		s.SizeBytes = info.Size()
	}
	return s, nil
}

// Clear removes every entry and returns how many were removed.
func (d *DB) Clear(ctx context.Context) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := d.db.ExecContext(ctx, "DELETE FROM probes")
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	logging.Info("Cleared probe cache: %d entries", n)
	return n, nil
}

// Prune removes entries created before cutoff.
func (d *DB) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := d.db.ExecContext(ctx, "DELETE FROM probes WHERE created_at < ?", cutoff.Unix())
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// GetMetadata retrieves a metadata value by key. Returns sql.ErrNoRows if
// the key doesn't exist.
func (d *DB) GetMetadata(ctx context.Context, key string) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var value string
	err := d.db.QueryRowContext(ctx, "SELECT value FROM metadata WHERE key = ?", key).Scan(&value)
	if err != nil {
		return "", err
	}
	return value, nil
}

// SetMetadata sets a metadata key-value pair.
func (d *DB) SetMetadata(ctx context.Context, key, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := d.db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

// LastRun returns when a combine run last used the cache. Zero if never.
func (d *DB) LastRun(ctx context.Context) (time.Time, error) {
	value, err := d.GetMetadata(ctx, "last_run")
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, value)
}

// SetLastRun records the time of a combine run.
func (d *DB) SetLastRun(ctx context.Context, t time.Time) error {
	return d.SetMetadata(ctx, "last_run", t.UTC().Format(time.RFC3339))
}
