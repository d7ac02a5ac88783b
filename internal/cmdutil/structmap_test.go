package cmdutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type structMapSample struct {
	SourceID    string
	Authors     []string
	SeriesIndex *float64
	PubDate     *time.Time
	ISBN        string
	internal    string
}

func TestStructToMap(t *testing.T) {
	index := 2.0
	sample := structMapSample{
		SourceID:    "dune-1",
		Authors:     []string{"Frank Herbert", "Brian Herbert"},
		SeriesIndex: &index,
		ISBN:        "9788020415985",
		internal:    "hidden",
	}

	got := StructToMap(sample, StructToMapOptions{
		JoinStringSlices: true,
		OmitFields:       map[string]bool{"ISBN": true},
	})

	assert.Equal(t, map[string]any{
		"source_id":    "dune-1",
		"authors":      "Frank Herbert,Brian Herbert",
		"series_index": 2.0,
		"pub_date":     nil,
	}, got)
}

func TestStructToMap_KeyOverrides(t *testing.T) {
	got := StructToMap(&structMapSample{ISBN: "123"}, StructToMapOptions{
		KeyOverrides: map[string]string{"ISBN": "isbn13"},
	})

	assert.Equal(t, "123", got["isbn13"])
	_, ok := got["i_s_b_n"]
	assert.False(t, ok)
}

func TestStructToMap_NilPointer(t *testing.T) {
	var sample *structMapSample
	assert.Empty(t, StructToMap(sample, StructToMapOptions{}))
}

func TestToSnakeCase(t *testing.T) {
	cases := map[string]string{
		"SourceID":    "source_id",
		"CoverURL":    "cover_url",
		"SeriesIndex": "series_index",
		"ISBN":        "isbn",
		"Title":       "title",
	}
	for input, want := range cases {
		assert.Equal(t, want, toSnakeCase(input), input)
	}
}
