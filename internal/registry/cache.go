package registry

import (
	"database/sql"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// DocumentCache persists fetched registry documents so restarts do not
// hammer GitHub. Entries older than the TTL are treated as misses.
type DocumentCache struct {
	db *sql.DB
	mu sync.Mutex
}

func NewDocumentCache(dbPath string) (*DocumentCache, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		return nil, err
	}

	cache := &DocumentCache{db: db}
	if err := cache.initSchema(); err != nil {
		return nil, err
	}

	return cache, nil
}

func (c *DocumentCache) initSchema() error {
	_, err := c.db.Exec(`
	CREATE TABLE IF NOT EXISTS documents (
		path TEXT PRIMARY KEY,
		body BLOB NOT NULL,
		fetched_at INTEGER NOT NULL
	)`)
	return err
}

func (c *DocumentCache) Get(path string, ttl time.Duration) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var body []byte
	var fetchedAt int64

	row := c.db.QueryRow("SELECT body, fetched_at FROM documents WHERE path = ?", path)
	if err := row.Scan(&body, &fetchedAt); err != nil {
		return nil, false
	}

	if time.Since(time.Unix(fetchedAt, 0)) >= ttl {
		return nil, false
	}

	return body, true
}

func (c *DocumentCache) Put(path string, body []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.db.Exec(
		`INSERT INTO documents (path, body, fetched_at) VALUES (?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET body = excluded.body, fetched_at = excluded.fetched_at`,
		path, body, time.Now().Unix(),
	)
	return err
}

func (c *DocumentCache) Invalidate() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.db.Exec("DELETE FROM documents")
	return err
}

func (c *DocumentCache) Close() error {
	// Checkpoint failure is harmless; the DB still closes cleanly.
	c.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
	return c.db.Close()
}
