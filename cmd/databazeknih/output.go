package databazeknih

import (
	"fmt"
	"io"
	"strings"

	"github.com/lepinkainen/dbknih/internal/cmdutil"
	"github.com/lepinkainen/dbknih/internal/config"
	"github.com/lepinkainen/dbknih/internal/fileutil"
)

const booksTable = "databazeknih_books"

const booksSchema = `CREATE TABLE IF NOT EXISTS databazeknih_books (
		source_id TEXT PRIMARY KEY,
		title TEXT,
		authors TEXT,
		series TEXT,
		series_index REAL,
		comments TEXT,
		tags TEXT,
		publisher TEXT,
		pub_year INTEGER,
		rating REAL,
		isbn TEXT,
		cover_url TEXT,
		relevance INTEGER
	)`

func recordToMap(record BookRecord) map[string]any {
	row := cmdutil.StructToMap(record, cmdutil.StructToMapOptions{
		OmitFields:       map[string]bool{"PubDate": true},
		KeyOverrides:     map[string]string{"SourceID": "source_id", "ISBN": "isbn", "CoverURL": "cover_url"},
		JoinStringSlices: true,
	})
	if year := record.Year(); year > 0 {
		row["pub_year"] = year
	} else {
		row["pub_year"] = nil
	}
	return row
}

func writeRecordsToDatastore(records []BookRecord) error {
	return cmdutil.WriteToDatastore(records, booksSchema, booksTable, "databazeknih books", recordToMap)
}

func writeRecordsToJSON(records []BookRecord, path string) error {
	_, err := fileutil.WriteJSONFile(records, path, config.OverwriteFiles)
	return err
}

// printSummary writes one line per record.
func printSummary(w io.Writer, records []BookRecord) {
	for i, r := range records {
		line := fmt.Sprintf("%2d. %s - %s", i+1, r.Title, strings.Join(r.Authors, ", "))
		if r.Series != "" {
			if r.SeriesIndex != nil {
				line += fmt.Sprintf(" [%s #%g]", r.Series, *r.SeriesIndex)
			} else {
				line += fmt.Sprintf(" [%s]", r.Series)
			}
		}
		if year := r.Year(); year > 0 {
			line += fmt.Sprintf(" (%d)", year)
		}
		line += fmt.Sprintf(" databazeknih:%s", r.SourceID)
		if r.ISBN != "" {
			line += " isbn:" + r.ISBN
		}
		_, _ = fmt.Fprintln(w, line)
	}
}
