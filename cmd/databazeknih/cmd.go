package databazeknih

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lepinkainen/dbknih/internal/cache"
	"github.com/lepinkainen/dbknih/internal/config"
	errs "github.com/lepinkainen/dbknih/internal/errors"
	"github.com/lepinkainen/dbknih/internal/fileutil"
	"github.com/lepinkainen/dbknih/internal/ratelimit"
	"github.com/lepinkainen/dbknih/internal/tui"
	"github.com/spf13/viper"
)

var (
	stdout          io.Writer = os.Stdout
	selectBook                = tui.Select
	newSourceFunc             = newConfiguredSource
	openBrowserFunc           = func(ctx context.Context, opts BrowserOptions) (Session, error) {
		return NewBrowserSession(ctx, opts)
	}
)

// SessionParams selects how pages are fetched.
type SessionParams struct {
	Browser  bool
	Headless bool
}

// IdentifyParams holds the identify command inputs.
type IdentifyParams struct {
	Title       string
	Authors     []string
	ID          string
	ISBN        string
	JSONOutput  string
	MarkdownDir string
	Parquet     string
	Interactive bool
	Session     SessionParams
}

// CoverParams holds the cover command inputs.
type CoverParams struct {
	Title   string
	Authors []string
	ID      string
	ISBN    string
	Output  string
	Width   int
	Session SessionParams
}

func buildQuery(title string, authors []string, id, isbn string) (Query, Identifiers) {
	q := Query{Title: strings.TrimSpace(title)}
	for _, a := range authors {
		if a = strings.TrimSpace(a); a != "" {
			q.Authors = append(q.Authors, a)
		}
	}
	ids := Identifiers{}
	if id = strings.TrimSpace(id); id != "" {
		ids[IdentifierKey] = id
	}
	if isbn = strings.TrimSpace(isbn); isbn != "" {
		ids[ISBNKey] = isbn
	}
	return q, ids
}

// newConfiguredSource builds a Source from the global config. The returned
// function releases the sessions.
func newConfiguredSource(ctx context.Context, params SessionParams) (*Source, func(), error) {
	limiter := ratelimit.New(IdentifierKey, config.RateLimit)
	httpSession := NewHTTPSession(config.UserAgent, limiter)

	var pages Session = httpSession
	cleanup := func() {}

	if params.Browser {
		browser, err := openBrowserFunc(ctx, BrowserOptions{
			Headless:  params.Headless,
			UserAgent: config.UserAgent,
			Limiter:   limiter,
		})
		if err != nil {
			return nil, nil, err
		}
		pages = browser
		cleanup = func() {
			if c, ok := browser.(io.Closer); ok {
				if err := c.Close(); err != nil {
					slog.Warn("Failed to close browser", "error", err)
				}
			}
		}
	}

	if viper.GetBool("cache.pages") {
		pages = NewCachingSession(pages)
	}

	var mappings MappingCache
	if db, err := cache.GetGlobalCache(); err != nil {
		slog.Warn("Cache unavailable, using in-memory mappings", "error", err)
		mappings = NewMemoryMappings()
	} else {
		mappings = cache.NewMappings(db)
	}

	source := NewSource(pages, mappings)
	source.CoverSession = httpSession
	return source, cleanup, nil
}

// IdentifyWithParams runs identify and writes the ranked records to the
// requested outputs.
func IdentifyWithParams(ctx context.Context, params IdentifyParams) error {
	q, ids := buildQuery(params.Title, params.Authors, params.ID, params.ISBN)
	if q.Title == "" && !q.hasAuthors() && ids.SourceID() == "" {
		return ErrInsufficientQuery
	}

	source, cleanup, err := newSourceFunc(ctx, params.Session)
	if err != nil {
		return err
	}
	defer cleanup()

	abort := NewAbort()
	stop := abort.SetOnDone(ctx)
	defer stop()

	sink := NewQueueSink()
	if err := source.Identify(ctx, q, ids, sink, abort); err != nil {
		return fmt.Errorf("identify failed: %w", err)
	}

	records := sink.Drain()
	if len(records) == 0 {
		return fmt.Errorf("identify failed: %w", ErrNoMatches)
	}
	RankRecords(records, q, ids)
	slog.Info("Identify finished", "records", len(records))
	printSummary(stdout, records)

	if params.Interactive {
		chosen, err := chooseRecord(q, records)
		if err != nil {
			return err
		}
		if chosen == nil {
			slog.Info("No record selected")
			return nil
		}
		records = []BookRecord{*chosen}
	}

	return writeOutputs(records, params)
}

func chooseRecord(q Query, records []BookRecord) (*BookRecord, error) {
	choices := make([]tui.BookChoice, len(records))
	for i, r := range records {
		choices[i] = tui.BookChoice{
			Index:     i,
			Title:     r.Title,
			Authors:   r.Authors,
			Series:    r.Series,
			Year:      r.Year(),
			Publisher: r.Publisher,
			Rating:    r.Rating,
			ISBN:      r.ISBN,
			Comments:  r.Comments,
		}
	}

	result, err := selectBook(fmt.Sprintf("Select a match for %q", q.Title), choices)
	if err != nil {
		return nil, fmt.Errorf("selection failed: %w", err)
	}
	if result.Action == tui.ActionStopped {
		return nil, errs.NewStopProcessingError("selection cancelled")
	}
	if result.Action != tui.ActionSelected || result.Selection == nil {
		return nil, nil
	}
	idx := result.Selection.Index
	if idx < 0 || idx >= len(records) {
		return nil, fmt.Errorf("selection index %d out of range", idx)
	}
	return &records[idx], nil
}

func writeOutputs(records []BookRecord, params IdentifyParams) error {
	var failures []error
	if params.JSONOutput != "" {
		failures = append(failures, writeRecordsToJSON(records, params.JSONOutput))
	}
	if params.MarkdownDir != "" {
		failures = append(failures, writeRecordsToMarkdown(records, params.MarkdownDir))
	}
	if params.Parquet != "" {
		failures = append(failures, writeRecordsToParquet(records, params.Parquet))
	}
	failures = append(failures, writeRecordsToDatastore(records))
	return errors.Join(failures...)
}

// CoverWithParams downloads the best cover and saves it to params.Output.
func CoverWithParams(ctx context.Context, params CoverParams) error {
	if params.Output == "" {
		return errors.New("output file is required")
	}
	q, ids := buildQuery(params.Title, params.Authors, params.ID, params.ISBN)

	source, cleanup, err := newSourceFunc(ctx, params.Session)
	if err != nil {
		return err
	}
	defer cleanup()

	abort := NewAbort()
	stop := abort.SetOnDone(ctx)
	defer stop()

	data, ok := source.DownloadCover(ctx, q, ids, abort)
	if !ok {
		return errors.New("no cover found")
	}

	written, err := fileutil.SaveCover(data, params.Output, params.Width, config.OverwriteFiles)
	if err != nil {
		return fmt.Errorf("failed to save cover: %w", err)
	}
	if !written {
		slog.Info("Cover file exists, skipping", "path", params.Output)
	}
	return nil
}
