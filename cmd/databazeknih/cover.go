package databazeknih

import (
	"context"
	"errors"
)

// cachedCoverURL resolves a cover URL from the mapping cache using the
// databazeknih id, or the ISBN mapped to one.
func (s *Source) cachedCoverURL(ids Identifiers) (string, bool) {
	if s.Cache == nil {
		return "", false
	}
	id := ids.SourceID()
	if id == "" {
		if isbn := checkISBN(ids.ISBN()); isbn != "" {
			id, _ = s.Cache.CachedIdentifierForISBN(isbn)
		}
	}
	if id == "" {
		return "", false
	}
	return s.Cache.CachedCoverURL(id)
}

// DownloadCover returns the cover image bytes for the best matching book.
// When no cover URL is cached it runs Identify first. Any failure is logged
// and reported as false.
func (s *Source) DownloadCover(ctx context.Context, q Query, ids Identifiers, abort AbortSignal) ([]byte, bool) {
	coverURL, ok := s.cachedCoverURL(ids)
	if !ok {
		s.log().Info("No cached cover found, running identify")

		sink := NewQueueSink()
		err := s.Identify(ctx, q, ids, sink, abort)
		if errors.Is(err, ErrAborted) || aborted(ctx, abort) {
			return nil, false
		}
		if err != nil {
			s.log().Info("Identify found no records for cover", "error", err)
		}

		records := sink.Drain()
		RankRecords(records, q, ids)
		for _, r := range records {
			if u, ok := s.cachedCoverURL(r.Identifiers()); ok {
				coverURL = u
				break
			}
			if s.Cache == nil && r.CoverURL != "" {
				coverURL = r.CoverURL
				break
			}
		}
	}

	if coverURL == "" {
		s.log().Info("No cover found")
		return nil, false
	}
	if aborted(ctx, abort) {
		return nil, false
	}

	s.log().Info("Downloading cover", "url", coverURL)
	data, err := s.coverSession().Get(ctx, coverURL, s.CoverTimeout)
	if err != nil {
		s.log().Error("Failed to download cover", "url", coverURL, "error", err)
		return nil, false
	}
	if len(data) == 0 {
		s.log().Error("Cover download returned no data", "url", coverURL)
		return nil, false
	}
	return data, true
}
