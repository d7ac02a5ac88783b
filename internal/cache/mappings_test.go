package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMappings_RoundTrip(t *testing.T) {
	m := NewMappings(setupTestCache(t))

	require.NoError(t, m.CacheIdentifierToCoverURL("dune-1", "http://www.databazeknih.cz/img/books/big_1.jpg"))
	require.NoError(t, m.CacheISBNToIdentifier("9788020415985", "dune-1"))

	url, ok := m.CachedCoverURL("dune-1")
	require.True(t, ok)
	assert.Equal(t, "http://www.databazeknih.cz/img/books/big_1.jpg", url)

	id, ok := m.CachedIdentifierForISBN("9788020415985")
	require.True(t, ok)
	assert.Equal(t, "dune-1", id)
}

func TestMappings_Misses(t *testing.T) {
	m := NewMappings(setupTestCache(t))

	_, ok := m.CachedCoverURL("unknown")
	assert.False(t, ok)

	_, ok = m.CachedIdentifierForISBN("")
	assert.False(t, ok)
}

func TestMappings_IgnoresEmptyValues(t *testing.T) {
	cache := setupTestCache(t)
	m := NewMappings(cache)

	require.NoError(t, m.CacheIdentifierToCoverURL("dune-1", ""))
	require.NoError(t, m.CacheISBNToIdentifier("", "dune-1"))

	_, ok, err := cache.Get(CoverURLTable, "dune-1", time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMappings_Overwrite(t *testing.T) {
	m := NewMappings(setupTestCache(t))

	require.NoError(t, m.CacheIdentifierToCoverURL("dune-1", "http://a/old.jpg"))
	require.NoError(t, m.CacheIdentifierToCoverURL("dune-1", "http://a/new.jpg"))

	url, ok := m.CachedCoverURL("dune-1")
	require.True(t, ok)
	assert.Equal(t, "http://a/new.jpg", url)
}
