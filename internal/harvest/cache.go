package harvest

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const (
	cacheKindDOI   = "doi"
	cacheKindTitle = "title"
)

const cacheSchema = `
CREATE TABLE IF NOT EXISTS openalex_works (
	kind       TEXT NOT NULL,
	key        TEXT NOT NULL,
	work       TEXT NOT NULL,
	fetched_at TEXT NOT NULL,
	PRIMARY KEY (kind, key)
);
`

// Cache is a write-through SQLite cache of slimmed OpenAlex works, keyed
// by DOI or by title+year search key. Re-running the builder resolves
// previously seen papers without touching the network.
type Cache struct {
	db *sqlx.DB
	mu sync.Mutex
}

func OpenCache(path string) (*Cache, error) {
	db, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	if _, err := db.Exec(cacheSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init cache schema: %w", err)
	}
	return &Cache{db: db}, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) Get(kind, key string) (Work, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var raw string
	err := c.db.Get(&raw, `SELECT work FROM openalex_works WHERE kind = ? AND key = ?`, kind, key)
	if err != nil {
		return Work{}, false
	}
	var w Work
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return Work{}, false
	}
	return w, true
}

func (c *Cache) Put(kind, key string, w Work) {
	raw, err := json.Marshal(w)
	if err != nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = c.db.Exec(
		`INSERT OR REPLACE INTO openalex_works (kind, key, work, fetched_at) VALUES (?, ?, ?, ?)`,
		kind, key, string(raw), time.Now().UTC().Format(time.RFC3339),
	)
}

// Len reports the number of cached works, for the builder's summary log.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int
	if err := c.db.Get(&n, `SELECT COUNT(*) FROM openalex_works`); err != nil {
		return 0
	}
	return n
}
