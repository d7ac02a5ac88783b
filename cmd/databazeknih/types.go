// Package databazeknih harvests book metadata and covers from databazeknih.cz.
package databazeknih

import (
	"errors"
	"strings"
	"time"
)

const (
	// IdentifierKey is the Identifiers key holding a databazeknih source id.
	IdentifierKey = "databazeknih"
	// ISBNKey is the Identifiers key holding an ISBN.
	ISBNKey = "isbn"
)

var (
	// ErrInsufficientQuery is returned when neither title nor author is given.
	ErrInsufficientQuery = errors.New("insufficient metadata to construct query")
	// ErrNoMatches is returned when a search produced no candidates.
	ErrNoMatches = errors.New("no matches found")
	// ErrAborted is returned when the abort signal fired or the context ended.
	ErrAborted = errors.New("identify aborted")
)

// Query is the caller's title and authors.
type Query struct {
	Title   string
	Authors []string
}

// FirstAuthor returns the first non-blank author, trimmed.
func (q Query) FirstAuthor() string {
	for _, a := range q.Authors {
		if a = strings.TrimSpace(a); a != "" {
			return a
		}
	}
	return ""
}

func (q Query) hasAuthors() bool {
	return q.FirstAuthor() != ""
}

// Identifiers maps identifier type to value, e.g. "isbn" → "9788020415985".
type Identifiers map[string]string

// SourceID returns the databazeknih identifier, if any.
func (ids Identifiers) SourceID() string {
	return strings.TrimSpace(ids[IdentifierKey])
}

// ISBN returns the raw ISBN identifier, if any.
func (ids Identifiers) ISBN() string {
	return strings.TrimSpace(ids[ISBNKey])
}

func (ids Identifiers) hasAny() bool {
	for _, v := range ids {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}

// SearchCandidate is one search result that passed the author filter.
type SearchCandidate struct {
	URL          string
	DisplayTitle string
	AuthorHint   string
	Relevance    int
}

// BookRecord is the metadata scraped from one detail page.
type BookRecord struct {
	Title       string     `json:"title"`
	Authors     []string   `json:"authors"`
	SourceID    string     `json:"source_id"`
	Series      string     `json:"series,omitempty"`
	SeriesIndex *float64   `json:"series_index,omitempty"`
	Comments    string     `json:"comments,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Publisher   string     `json:"publisher,omitempty"`
	PubDate     *time.Time `json:"pub_date,omitempty"`
	Rating      *float64   `json:"rating,omitempty"`
	ISBN        string     `json:"isbn,omitempty"`
	CoverURL    string     `json:"cover_url,omitempty"`
	Relevance   int        `json:"relevance"`
}

// Year returns the publication year or 0.
func (r BookRecord) Year() int {
	if r.PubDate == nil {
		return 0
	}
	return r.PubDate.Year()
}

// Identifiers returns the identifiers known for the record.
func (r BookRecord) Identifiers() Identifiers {
	ids := Identifiers{IdentifierKey: r.SourceID}
	if r.ISBN != "" {
		ids[ISBNKey] = r.ISBN
	}
	return ids
}
