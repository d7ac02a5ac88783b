package cache

// SQL schemas for cache tables
// All cache tables use "cache_key" as the primary key column for consistency

// CoverURLCacheSchema maps a databazeknih source id to its cover image URL
const CoverURLCacheSchema = `
CREATE TABLE IF NOT EXISTS databazeknih_cover_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_databazeknih_cover_cached_at ON databazeknih_cover_cache(cached_at);
`

// ISBNCacheSchema maps an ISBN to the databazeknih source id it was found on
const ISBNCacheSchema = `
CREATE TABLE IF NOT EXISTS databazeknih_isbn_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_databazeknih_isbn_cached_at ON databazeknih_isbn_cache(cached_at);
`

// PageCacheSchema stores raw HTML bodies keyed by request URL
const PageCacheSchema = `
CREATE TABLE IF NOT EXISTS databazeknih_page_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_databazeknih_page_cached_at ON databazeknih_page_cache(cached_at);
`

const (
	CoverURLTable = "databazeknih_cover_cache"
	ISBNTable     = "databazeknih_isbn_cache"
	PageTable     = "databazeknih_page_cache"
)

// AllCacheSchemas contains all cache table schemas for easy initialization
var AllCacheSchemas = []string{
	CoverURLCacheSchema,
	ISBNCacheSchema,
	PageCacheSchema,
}

// ValidCacheTableNames is the whitelist of allowed cache table names
// Used to prevent SQL injection when interpolating table names
var ValidCacheTableNames = map[string]bool{
	CoverURLTable: true,
	ISBNTable:     true,
	PageTable:     true,
}

// SourceTables maps the names accepted by "cache invalidate" to table names
var SourceTables = map[string]string{
	"covers": CoverURLTable,
	"isbn":   ISBNTable,
	"pages":  PageTable,
}
