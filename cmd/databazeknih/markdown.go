package databazeknih

import (
	"fmt"
	"strings"

	"github.com/lepinkainen/dbknih/internal/config"
	"github.com/lepinkainen/dbknih/internal/fileutil"
	"github.com/lepinkainen/dbknih/internal/obsidian"
)

func buildBookMarkdown(record BookRecord) ([]byte, error) {
	fm := obsidian.NewFrontmatterWithTitle(record.Title)
	fm.Set("type", "book")
	fm.Set(IdentifierKey+"_id", record.SourceID)
	fm.SetIf("authors", record.Authors)
	fm.SetIf("series", record.Series)
	if record.SeriesIndex != nil {
		fm.Set("series_index", *record.SeriesIndex)
	}
	fm.SetIf("publisher", record.Publisher)
	if year := record.Year(); year > 0 {
		fm.Set("year", year)
	}
	if record.Rating != nil {
		fm.Set("rating", *record.Rating)
	}
	fm.SetIf("isbn", record.ISBN)
	fm.SetIf("cover_url", record.CoverURL)

	tags := obsidian.NewTagSet()
	tags.Add("databazeknih/book")
	for _, genre := range record.Tags {
		tags.AddWithPrefix("genre", genre)
	}
	if year := record.Year(); year > 0 {
		tags.Add(fmt.Sprintf("year/%ds", (year/10)*10))
	}
	obsidian.ApplyTagSet(fm, tags)

	var body strings.Builder
	if record.CoverURL != "" {
		fmt.Fprintf(&body, "![](%s)\n\n", record.CoverURL)
	}
	if record.Comments != "" {
		body.WriteString("## Description\n\n")
		body.WriteString(record.Comments)
		body.WriteString("\n")
	}

	return obsidian.BuildNoteMarkdown(fm, body.String())
}

// writeRecordsToMarkdown writes one note per record into directory.
func writeRecordsToMarkdown(records []BookRecord, directory string) error {
	for _, record := range records {
		content, err := buildBookMarkdown(record)
		if err != nil {
			return fmt.Errorf("failed to build note for %s: %w", record.Title, err)
		}

		path := fileutil.GetMarkdownFilePath(record.Title, directory)
		if _, err := fileutil.WriteMarkdownFile(path, content, config.OverwriteFiles); err != nil {
			return err
		}
	}
	return nil
}
