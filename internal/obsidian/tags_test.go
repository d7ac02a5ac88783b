package obsidian

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTag(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"sci-fi", "sci-fi"},
		{"#fantasy", "fantasy"},
		{"  Romány pro dospělé  ", "Romány-pro-dospělé"},
		{"Detektivky, krimi", "Detektivky-krimi"},
		{"Rock & Roll", "Rock-and-Roll"},
		{"genre/Horor", "genre/Horor"},
		{"--a---b--", "a-b"},
		{"!!!", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTag(tt.input))
		})
	}
}

func TestTagSet(t *testing.T) {
	ts := NewTagSet()
	ts.Add("Fantasy")
	ts.Add("Fantasy")
	ts.Add("")
	ts.AddWithPrefix("genre/", "Sci-fi")
	ts.AddWithPrefix("genre", "  ")

	assert.Equal(t, 2, ts.Len())
	assert.Equal(t, []string{"Fantasy", "genre/Sci-fi"}, ts.GetSorted())
}

func TestTagsFromAny(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, TagsFromAny([]string{"a", "", "b"}))
	assert.Equal(t, []string{"a"}, TagsFromAny([]any{"a", 1, ""}))
	assert.Equal(t, []string{}, TagsFromAny(nil))
	assert.Equal(t, []string{}, TagsFromAny("single"))
}
