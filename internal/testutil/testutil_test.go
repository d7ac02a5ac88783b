package testutil

import (
	"io"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/lepinkainen/dbknih/internal/config"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestTestEnv_Path(t *testing.T) {
	env := NewTestEnv(t)

	require.Equal(t, filepath.Join(env.RootDir(), "a", "b.txt"), env.Path("a", "b.txt"))
	require.Equal(t, env.RootDir(), env.Path("."))
}

func TestTestEnv_WriteReadFile(t *testing.T) {
	env := NewTestEnv(t)

	env.WriteFile("nested/dir/file.txt", []byte("hello"))
	require.True(t, env.FileExists("nested/dir/file.txt"))
	require.Equal(t, "hello", env.ReadFileString("nested/dir/file.txt"))
	require.False(t, env.FileExists("missing.txt"))
}

func TestResetConfig(t *testing.T) {
	original := config.MaxResults

	t.Run("inner", func(t *testing.T) {
		ResetConfig(t)
		config.MaxResults = 42
		viper.Set("databazeknih.maxresults", 42)
	})

	require.Equal(t, original, config.MaxResults)
	require.False(t, viper.IsSet("databazeknih.maxresults"))
}

func TestSetupTestCache(t *testing.T) {
	ResetConfig(t)
	env := NewTestEnv(t)

	dbPath := SetupTestCache(t, env)

	require.Equal(t, dbPath, viper.GetString("cache.dbfile"))
	require.Equal(t, "24h", viper.GetString("cache.ttl"))
	require.True(t, env.FileExists("cache"))
}

func TestNewIPv4TestServer(t *testing.T) {
	server := NewIPv4TestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ok")
	}))

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "ok", string(body))
}
