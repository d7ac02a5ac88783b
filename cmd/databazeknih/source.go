package databazeknih

import (
	"log/slog"
	"time"

	"github.com/lepinkainen/dbknih/internal/config"
)

// defaultPollInterval is how often Identify checks the abort signal while
// workers run.
const defaultPollInterval = 200 * time.Millisecond

// Source is the databazeknih metadata source.
type Source struct {
	BaseURL       string
	MaxResults    int
	SearchTimeout time.Duration
	DetailTimeout time.Duration
	CoverTimeout  time.Duration
	PollInterval  time.Duration

	// Session fetches search and detail pages; workers clone it.
	Session Session
	// CoverSession fetches cover images. Session is used when nil.
	CoverSession Session
	// Cache receives identifier mappings. Nil disables them.
	Cache MappingCache
	// Log defaults to slog.Default().
	Log *slog.Logger
}

// NewSource returns a Source configured from the global config.
func NewSource(session Session, mappings MappingCache) *Source {
	return &Source{
		BaseURL:       config.BaseURL,
		MaxResults:    config.MaxResults,
		SearchTimeout: config.SearchTimeout,
		DetailTimeout: config.DetailTimeout,
		CoverTimeout:  config.CoverTimeout,
		PollInterval:  defaultPollInterval,
		Session:       session,
		Cache:         mappings,
	}
}

func (s *Source) log() *slog.Logger {
	if s.Log != nil {
		return s.Log
	}
	return slog.Default()
}

func (s *Source) maxResults() int {
	if s.MaxResults > 0 {
		return s.MaxResults
	}
	return config.MaxResults
}

func (s *Source) pollInterval() time.Duration {
	if s.PollInterval > 0 {
		return s.PollInterval
	}
	return defaultPollInterval
}

func (s *Source) coverSession() Session {
	if s.CoverSession != nil {
		return s.CoverSession
	}
	return s.Session
}

// bookURL returns the detail page URL for a databazeknih id.
func (s *Source) bookURL(id string) string {
	return s.BaseURL + "knihy/" + id
}
