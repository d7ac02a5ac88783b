package databazeknih

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// Identify finds candidate books for q and ids and puts one record per
// successfully parsed detail page on sink. It returns once every worker has
// finished, or at once when abort is set or ctx ends.
func (s *Source) Identify(ctx context.Context, q Query, ids Identifiers, sink ResultSink, abort AbortSignal) error {
	return s.identify(ctx, q, ids, sink, abort, true)
}

func (s *Source) identify(ctx context.Context, q Query, ids Identifiers, sink ResultSink, abort AbortSignal, allowRetry bool) error {
	if aborted(ctx, abort) {
		return ErrAborted
	}

	var candidates []SearchCandidate
	if id := ids.SourceID(); id != "" {
		candidates = []SearchCandidate{{URL: s.bookURL(id)}}
	} else {
		found, err := s.Search(ctx, q)
		if err != nil {
			if ctx.Err() != nil {
				return ErrAborted
			}
			s.log().Error("Search failed", "title", q.Title, "error", err)
			return err
		}
		candidates = found
	}

	if aborted(ctx, abort) {
		return ErrAborted
	}

	if len(candidates) == 0 {
		if allowRetry && ids.hasAny() && strings.TrimSpace(q.Title) != "" && q.hasAuthors() {
			s.log().Info("No matches found with identifiers, retrying using only title and author")
			return s.identify(ctx, q, nil, sink, abort, false)
		}
		s.log().Error("No matches found with query", "title", q.Title, "authors", q.Authors)
		return ErrNoMatches
	}

	return s.dispatch(ctx, candidates, sink, abort)
}

// dispatch runs one worker per candidate and waits for them, polling abort.
func (s *Source) dispatch(ctx context.Context, candidates []SearchCandidate, sink ResultSink, abort AbortSignal) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(len(candidates))

	for _, c := range candidates {
		if aborted(ctx, abort) {
			return ErrAborted
		}
		w := newWorker(s, c, sink)
		g.Go(func() error {
			w.run(gctx)
			return nil
		})
	}

	done := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(done)
	}()

	ticker := time.NewTicker(s.pollInterval())
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return ErrAborted
		case <-ticker.C:
			if abort != nil && abort.IsSet() {
				s.log().Info("Identify aborted, abandoning running workers")
				return ErrAborted
			}
		}
	}
}

func aborted(ctx context.Context, abort AbortSignal) bool {
	if ctx.Err() != nil {
		return true
	}
	return abort != nil && abort.IsSet()
}
