package databazeknih

import (
	"context"
	"io"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/PuerkitoBio/goquery"
	errs "github.com/lepinkainen/dbknih/internal/errors"
)

// worker fetches and parses one candidate detail page.
type worker struct {
	source    *Source
	candidate SearchCandidate
	sink      ResultSink
	log       *slog.Logger
}

func newWorker(source *Source, candidate SearchCandidate, sink ResultSink) *worker {
	return &worker{
		source:    source,
		candidate: candidate,
		sink:      sink,
		log:       source.log().With("url", candidate.URL),
	}
}

func (w *worker) run(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("Worker panicked", "panic", r, "stack", string(debug.Stack()))
		}
	}()

	session := w.source.Session.Clone()
	if c, ok := session.(io.Closer); ok {
		defer func() {
			if err := c.Close(); err != nil {
				w.log.Warn("Failed to close session", "error", err)
			}
		}()
	}

	record, ok := w.fetch(ctx, session)
	if !ok {
		return
	}
	w.reportMappings(record)
	w.sink.Put(record)
}

func (w *worker) fetch(ctx context.Context, session Session) (BookRecord, bool) {
	sourceID, ok := extractField(w.log, "databazeknih_id", func() (string, error) {
		return sourceIDFromURL(w.candidate.URL)
	})
	if !ok {
		w.log.Error("Could not find databazeknih id")
		return BookRecord{}, false
	}

	body, err := session.Get(ctx, w.candidate.URL, w.source.DetailTimeout)
	if err != nil {
		switch {
		case errs.IsNotFound(err):
			w.log.Error("URL malformed", "error", err)
		case errs.IsTimeout(err):
			w.log.Error("Databazeknih timed out. Try again later.", "error", err)
		case ctx.Err() != nil:
			w.log.Debug("Details query cancelled", "error", err)
		default:
			w.log.Error("Failed to make details query", "error", err)
		}
		return BookRecord{}, false
	}

	doc, err := parseHTML(body)
	if err != nil {
		w.log.Error("Failed to parse details page", "error", err)
		return BookRecord{}, false
	}

	return w.parse(ctx, session, doc, sourceID)
}

// parse runs every extractor independently. Title and authors are required.
func (w *worker) parse(ctx context.Context, session Session, doc *goquery.Document, sourceID string) (BookRecord, bool) {
	title, ok := extractField(w.log, "title", func() (string, error) { return extractTitle(doc) })
	if !ok {
		w.log.Error("Could not find title")
		return BookRecord{}, false
	}

	authors, ok := extractField(w.log, "authors", func() ([]string, error) { return extractAuthors(doc) })
	if !ok {
		w.log.Error("Could not find authors", "title", title)
		return BookRecord{}, false
	}

	record := BookRecord{
		Title:     title,
		Authors:   authors,
		SourceID:  sourceID,
		Relevance: w.candidate.Relevance,
	}

	if series, ok := extractField(w.log, "series", func() (string, error) { return extractSeries(doc) }); ok {
		record.Series = series
		if idx, ok := extractField(w.log, "series_index", func() (float64, error) { return extractSeriesIndex(doc) }); ok {
			record.SeriesIndex = &idx
		}
	}
	if tags, ok := extractField(w.log, "tags", func() ([]string, error) { return extractTags(doc) }); ok {
		record.Tags = tags
	}
	if publisher, ok := extractField(w.log, "publisher", func() (string, error) { return extractPublisher(doc) }); ok {
		record.Publisher = publisher
	}
	if pubDate, ok := extractField(w.log, "pubdate", func() (time.Time, error) { return extractPubDate(doc) }); ok {
		record.PubDate = &pubDate
	}
	if comments, ok := extractField(w.log, "comments", func() (string, error) { return extractComments(doc) }); ok {
		record.Comments = comments
	}
	if rating, ok := extractField(w.log, "rating", func() (float64, error) { return extractRating(doc) }); ok {
		record.Rating = &rating
	}
	if isbn, ok := extractField(w.log, "isbn", func() (string, error) {
		return extractISBN(ctx, doc, session, w.source.BaseURL, w.source.DetailTimeout)
	}); ok {
		record.ISBN = isbn
	}
	if coverURL, ok := extractField(w.log, "cover", func() (string, error) {
		return extractCoverURL(doc, w.source.BaseURL)
	}); ok {
		record.CoverURL = coverURL
	}

	return record, true
}

func (w *worker) reportMappings(record BookRecord) {
	cache := w.source.Cache
	if cache == nil {
		return
	}
	if record.CoverURL != "" {
		if err := cache.CacheIdentifierToCoverURL(record.SourceID, record.CoverURL); err != nil {
			w.log.Warn("Failed to cache cover url", "source_id", record.SourceID, "error", err)
		}
	}
	if isbn := normalizeISBN(record.ISBN); isbn != "" {
		if err := cache.CacheISBNToIdentifier(isbn, record.SourceID); err != nil {
			w.log.Warn("Failed to cache isbn mapping", "source_id", record.SourceID, "isbn", isbn, "error", err)
		}
	}
}
