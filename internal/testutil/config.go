package testutil

import (
	"testing"

	"github.com/lepinkainen/dbknih/internal/config"
	"github.com/spf13/viper"
)

// ConfigState holds the state of the config package variables.
type ConfigState struct {
	MaxResults     int
	BaseURL        string
	RateLimit      int
	OverwriteFiles bool
}

// SaveConfigState captures the current state of config package variables.
func SaveConfigState() ConfigState {
	return ConfigState{
		MaxResults:     config.MaxResults,
		BaseURL:        config.BaseURL,
		RateLimit:      config.RateLimit,
		OverwriteFiles: config.OverwriteFiles,
	}
}

// RestoreConfigState restores the config package variables to a saved state.
func RestoreConfigState(state ConfigState) {
	config.MaxResults = state.MaxResults
	config.BaseURL = state.BaseURL
	config.RateLimit = state.RateLimit
	config.OverwriteFiles = state.OverwriteFiles
}

// ResetConfig saves the current config state, resets viper, and restores
// both when the test completes.
func ResetConfig(t *testing.T) {
	t.Helper()

	state := SaveConfigState()
	viper.Reset()

	t.Cleanup(func() {
		RestoreConfigState(state)
		viper.Reset()
	})
}

// SetupTestCache points the cache configuration at a database inside env.
func SetupTestCache(t *testing.T, env *TestEnv) string {
	t.Helper()

	env.MkdirAll("cache")
	dbPath := env.Path("cache", "test-cache.db")
	viper.Set("cache.dbfile", dbPath)
	viper.Set("cache.ttl", "24h")

	return dbPath
}
