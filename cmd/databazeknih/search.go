package databazeknih

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	errEmptyResponse   = errors.New("empty response")
	errMalformedResult = errors.New("malformed search result")
)

// Search queries the site and returns author-filtered candidates in listing
// order, at most MaxResults of them, with Relevance 0..k-1.
func (s *Source) Search(ctx context.Context, q Query) ([]SearchCandidate, error) {
	query, err := buildSearchQuery(q)
	if err != nil {
		return nil, err
	}

	searchURL := s.BaseURL + "index.php?stranka=search&q=" + query
	s.log().Info("Querying databazeknih", "url", searchURL)

	body, err := s.Session.Get(ctx, searchURL, s.SearchTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to make identify query %s: %w", searchURL, err)
	}
	body = bytes.TrimSpace(decodeUTF8(body))
	if len(body) == 0 {
		return nil, fmt.Errorf("failed to get raw result for query %s: %w", searchURL, errEmptyResponse)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse search page: %w", err)
	}

	candidates, err := s.parseSearchResults(doc, q.Authors)
	if err != nil {
		return nil, fmt.Errorf("failed to parse search results for %s: %w", searchURL, err)
	}
	return candidates, nil
}

func (s *Source) parseSearchResults(doc *goquery.Document, authors []string) ([]SearchCandidate, error) {
	base, err := url.Parse(s.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	filter := false
	for _, a := range authors {
		if strings.TrimSpace(a) != "" {
			filter = true
			break
		}
	}

	limit := s.maxResults()
	var candidates []SearchCandidate
	var parseErr error

	doc.Find(".new_search").EachWithBreak(func(i int, block *goquery.Selection) bool {
		link := block.ChildrenFiltered("a").First()
		href, ok := link.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			parseErr = fmt.Errorf("%w: block %d has no link", errMalformedResult, i)
			return false
		}

		title := strings.TrimSpace(link.Text())
		summary := strings.TrimSpace(block.ChildrenFiltered("span.smallfind").First().Text())
		surname := surnameOf(summary)

		if filter && !authorMatches(surname, authors) {
			s.log().Debug("Skipping search result", "title", title, "surname", surname)
			return true
		}

		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			parseErr = fmt.Errorf("%w: %v", errMalformedResult, err)
			return false
		}

		candidates = append(candidates, SearchCandidate{
			URL:          base.ResolveReference(ref).String(),
			DisplayTitle: title,
			AuthorHint:   summary,
			Relevance:    len(candidates),
		})
		return len(candidates) < limit
	})

	if parseErr != nil {
		return nil, parseErr
	}
	return candidates, nil
}
