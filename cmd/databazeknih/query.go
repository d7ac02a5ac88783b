package databazeknih

import (
	"net/url"
	"strings"
)

const pseudonymMarker = "(pseudonym)"

// buildSearchQuery returns the escaped q parameter: title, or a single space,
// then the first author, or a single space, joined by a space.
func buildSearchQuery(q Query) (string, error) {
	title := strings.TrimSpace(q.Title)
	author := q.FirstAuthor()
	if title == "" && author == "" {
		return "", ErrInsufficientQuery
	}

	if title == "" {
		title = " "
	}
	if author == "" {
		author = " "
	}

	return url.QueryEscape(title + " " + author), nil
}

// surnameOf returns the last whitespace token of an author summary, or the
// one before it when the last token is "(pseudonym)".
func surnameOf(summary string) string {
	tokens := strings.Fields(summary)
	if len(tokens) == 0 {
		return ""
	}
	last := tokens[len(tokens)-1]
	if last == pseudonymMarker && len(tokens) > 1 {
		return tokens[len(tokens)-2]
	}
	return last
}

// authorMatches reports whether surname is a token of any of authors,
// ignoring case.
func authorMatches(surname string, authors []string) bool {
	surname = strings.ToLower(surname)
	if surname == "" {
		return false
	}
	for _, author := range authors {
		for _, token := range strings.Fields(strings.ToLower(author)) {
			if token == surname {
				return true
			}
		}
	}
	return false
}
