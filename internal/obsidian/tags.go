package obsidian

import (
	"regexp"
	"sort"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	hyphenRe     = regexp.MustCompile(`-+`)
	tagCharsRe   = regexp.MustCompile(`[^\p{L}\p{N}/_-]`)
)

// NormalizeTag turns a free-form label into an Obsidian tag: whitespace
// becomes hyphens, characters other than letters, digits, "/", "_" and "-"
// are dropped, and case is preserved. Returns "" if nothing is left.
func NormalizeTag(tag string) string {
	tag = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
	if tag == "" {
		return ""
	}

	tag = strings.ReplaceAll(tag, "&", "and")
	tag = whitespaceRe.ReplaceAllString(tag, "-")
	tag = strings.ReplaceAll(tag, ",", "")
	tag = tagCharsRe.ReplaceAllString(tag, "")
	tag = hyphenRe.ReplaceAllString(tag, "-")

	return strings.Trim(tag, "-")
}

// TagSet collects normalized, deduplicated tags.
type TagSet struct {
	tags map[string]bool
}

// NewTagSet creates a new TagSet for collecting tags.
func NewTagSet() *TagSet {
	return &TagSet{tags: make(map[string]bool)}
}

// Add adds a tag to the set after normalization.
func (ts *TagSet) Add(tag string) {
	if normalized := NormalizeTag(tag); normalized != "" {
		ts.tags[normalized] = true
	}
}

// AddWithPrefix adds prefix/tag, e.g. "genre/Sci-fi".
func (ts *TagSet) AddWithPrefix(prefix, tag string) {
	if normalized := NormalizeTag(tag); normalized != "" {
		ts.tags[strings.TrimSuffix(prefix, "/")+"/"+normalized] = true
	}
}

// Len returns the number of tags in the set.
func (ts *TagSet) Len() int {
	return len(ts.tags)
}

// GetSorted returns all tags as a sorted slice.
func (ts *TagSet) GetSorted() []string {
	result := make([]string, 0, len(ts.tags))
	for tag := range ts.tags {
		result = append(result, tag)
	}
	sort.Strings(result)
	return result
}

// TagsFromAny extracts a string slice from a YAML value that may be
// []string or []any. Empty strings are dropped.
func TagsFromAny(val any) []string {
	result := []string{}
	switch v := val.(type) {
	case []string:
		for _, s := range v {
			if s != "" {
				result = append(result, s)
			}
		}
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				result = append(result, s)
			}
		}
	}
	return result
}
