package datastore

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/lepinkainen/dbknih/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatasetteClient_BatchInsert_Success(t *testing.T) {
	var gotPath, gotAuth string
	var payload map[string]any
	ts := testutil.NewIPv4TestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&payload)
		w.WriteHeader(http.StatusOK)
	}))

	client := NewDatasetteClient(ts.URL, "testtoken")
	require.NoError(t, client.Connect())

	records := []map[string]any{{"source_id": "dune-1", "title": "Duna"}}
	require.NoError(t, client.BatchInsert(DatabaseName, "databazeknih_books", records))

	assert.Equal(t, "/-/insert/dbknih/databazeknih_books", gotPath)
	assert.Equal(t, "Bearer testtoken", gotAuth)
	assert.Equal(t, true, payload["replace"])
	assert.Len(t, payload["rows"], 1)
}

func TestDatasetteClient_BatchInsert_APIError(t *testing.T) {
	ts := testutil.NewIPv4TestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": "forbidden"})
	}))

	client := NewDatasetteClient(ts.URL, "testtoken")
	require.NoError(t, client.Connect())

	err := client.BatchInsert(DatabaseName, "databazeknih_books", []map[string]any{{"title": "x"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "forbidden")
}

func TestDatasetteClient_Connect_InvalidURL(t *testing.T) {
	assert.Error(t, NewDatasetteClient("not a url", "").Connect())
}

func TestDatasetteClient_BatchInsert_Empty(t *testing.T) {
	client := NewDatasetteClient("http://127.0.0.1:1", "")
	assert.NoError(t, client.BatchInsert(DatabaseName, "t", nil))
}
