package cache

import (
	"fmt"
	"log/slog"
	"time"
)

// Mappings stores the identifier→cover URL and ISBN→identifier lookups
// in the cover and ISBN cache tables.
type Mappings struct {
	db  *CacheDB
	ttl time.Duration
}

// NewMappings returns mappings backed by db using the configured cache TTL.
func NewMappings(db *CacheDB) *Mappings {
	return &Mappings{db: db, ttl: ConfiguredTTL()}
}

// CacheIdentifierToCoverURL records the cover URL of a catalog identifier.
func (m *Mappings) CacheIdentifierToCoverURL(id, coverURL string) error {
	if id == "" || coverURL == "" {
		return nil
	}
	if err := m.db.Set(CoverURLTable, id, coverURL); err != nil {
		return fmt.Errorf("failed to cache cover url for %s: %w", id, err)
	}
	return nil
}

// CacheISBNToIdentifier records which catalog identifier an ISBN belongs to.
func (m *Mappings) CacheISBNToIdentifier(isbn, id string) error {
	if isbn == "" || id == "" {
		return nil
	}
	if err := m.db.Set(ISBNTable, isbn, id); err != nil {
		return fmt.Errorf("failed to cache identifier for isbn %s: %w", isbn, err)
	}
	return nil
}

// CachedCoverURL returns the cover URL cached for id.
func (m *Mappings) CachedCoverURL(id string) (string, bool) {
	return m.lookup(CoverURLTable, id)
}

// CachedIdentifierForISBN returns the catalog identifier cached for isbn.
func (m *Mappings) CachedIdentifierForISBN(isbn string) (string, bool) {
	return m.lookup(ISBNTable, isbn)
}

func (m *Mappings) lookup(table, key string) (string, bool) {
	if key == "" {
		return "", false
	}
	value, ok, err := m.db.Get(table, key, m.ttl)
	if err != nil {
		slog.Warn("Cache lookup failed", "table", table, "key", key, "error", err)
		return "", false
	}
	return value, ok
}
