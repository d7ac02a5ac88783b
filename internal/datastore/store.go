// Package datastore writes harvested records to a local SQLite database or
// a remote Datasette instance.
package datastore

// DatabaseName is the Datasette database records are inserted into.
const DatabaseName = "dbknih"

// Store defines the interface for record storage
type Store interface {
	// Connect establishes a connection to the data store
	Connect() error

	// CreateTable creates a new table with the given schema if it doesn't exist
	CreateTable(schema string) error

	// BatchInsert upserts multiple records into the specified table
	BatchInsert(database string, table string, records []map[string]any) error

	// Close closes the connection to the data store
	Close() error
}
