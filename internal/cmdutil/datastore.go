package cmdutil

import (
	"fmt"
	"log/slog"

	"github.com/lepinkainen/dbknih/internal/datastore"
	"github.com/spf13/viper"
)

// WriteToDatastore writes items to the configured datastore when datasette.enabled is set.
// Mode "local" (the default) writes to datasette.dbfile, "remote" posts to datasette.remote_url.
func WriteToDatastore[T any](items []T, schema, table, description string, toMap func(T) map[string]any) error {
	if !viper.GetBool("datasette.enabled") {
		return nil
	}

	var store datastore.Store
	mode := viper.GetString("datasette.mode")
	switch mode {
	case "", "local":
		store = datastore.NewSQLiteStore(viper.GetString("datasette.dbfile"))
	case "remote":
		store = datastore.NewDatasetteClient(
			viper.GetString("datasette.remote_url"),
			viper.GetString("datasette.api_token"),
		)
	default:
		return fmt.Errorf("invalid Datasette mode: %s", mode)
	}

	slog.Info("Writing to Datasette", "what", description, "mode", mode)

	if err := store.Connect(); err != nil {
		return fmt.Errorf("failed to connect to datastore: %w", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.CreateTable(schema); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table, err)
	}

	records := make([]map[string]any, len(items))
	for i, item := range items {
		records[i] = toMap(item)
	}

	if err := store.BatchInsert(datastore.DatabaseName, table, records); err != nil {
		return fmt.Errorf("failed to insert %s: %w", description, err)
	}

	slog.Info("Wrote records to datastore", "what", description, "count", len(records))
	return nil
}
