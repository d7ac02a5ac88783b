package databazeknih

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lepinkainen/dbknih/internal/config"
	"github.com/lepinkainen/dbknih/internal/fileutil"
	"github.com/parquet-go/parquet-go"
)

// parquetRow is the flat export form of a BookRecord.
type parquetRow struct {
	SourceID    string   `parquet:"source_id"`
	Title       string   `parquet:"title"`
	Authors     []string `parquet:"authors,list"`
	Series      string   `parquet:"series,optional"`
	SeriesIndex *float64 `parquet:"series_index,optional"`
	Comments    string   `parquet:"comments,optional"`
	Tags        []string `parquet:"tags,list"`
	Publisher   string   `parquet:"publisher,optional"`
	PubYear     int32    `parquet:"pub_year,optional"`
	Rating      *float64 `parquet:"rating,optional"`
	ISBN        string   `parquet:"isbn,optional"`
	CoverURL    string   `parquet:"cover_url,optional"`
	Relevance   int32    `parquet:"relevance"`
}

func toParquetRow(r BookRecord) parquetRow {
	return parquetRow{
		SourceID:    r.SourceID,
		Title:       r.Title,
		Authors:     r.Authors,
		Series:      r.Series,
		SeriesIndex: r.SeriesIndex,
		Comments:    r.Comments,
		Tags:        r.Tags,
		Publisher:   r.Publisher,
		PubYear:     int32(r.Year()),
		Rating:      r.Rating,
		ISBN:        r.ISBN,
		CoverURL:    r.CoverURL,
		Relevance:   int32(r.Relevance),
	}
}

// writeRecordsToParquet writes records to a parquet file, respecting the
// overwrite setting.
func writeRecordsToParquet(records []BookRecord, path string) error {
	if fileutil.FileExists(path) && !config.OverwriteFiles {
		slog.Info("Parquet file already exists, skipping", "filename", path)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create parquet file: %w", err)
	}
	defer func() { _ = file.Close() }()

	rows := make([]parquetRow, len(records))
	for i, r := range records {
		rows[i] = toParquetRow(r)
	}

	writer := parquet.NewGenericWriter[parquetRow](file)
	if _, err := writer.Write(rows); err != nil {
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}

	slog.Info("Wrote parquet file", "filename", path, "rows", len(rows))
	return nil
}
