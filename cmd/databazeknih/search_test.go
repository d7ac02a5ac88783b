package databazeknih

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchFiltersByAuthorSurname(t *testing.T) {
	site := newFakeSite()
	var entries []searchEntry
	for i := 0; i < 12; i++ {
		summary := fmt.Sprintf("Jiný Autor%d", i)
		if i == 2 || i == 5 || i == 9 {
			summary = "Karel Čapek"
		}
		entries = append(entries, searchEntry{
			Href:    fmt.Sprintf("knihy/kniha-%d", i),
			Title:   fmt.Sprintf("Kniha %d", i),
			Summary: summary,
		})
	}
	site.search = searchPage(entries...)
	source := newTestSource(t, site)

	candidates, err := source.Search(context.Background(), Query{Title: "Kniha", Authors: []string{"Karel Čapek"}})
	require.NoError(t, err)
	require.Len(t, candidates, 3)

	for rank, idx := range []int{2, 5, 9} {
		assert.Equal(t, rank, candidates[rank].Relevance)
		assert.Equal(t, fmt.Sprintf("%sknihy/kniha-%d", source.BaseURL, idx), candidates[rank].URL)
		assert.Equal(t, fmt.Sprintf("Kniha %d", idx), candidates[rank].DisplayTitle)
		assert.Equal(t, "Karel Čapek", candidates[rank].AuthorHint)
	}
}

func TestSearchPseudonymSummary(t *testing.T) {
	site := newFakeSite()
	site.search = searchPage(
		searchEntry{Href: "/knihy/a", Title: "A", Summary: "Josef Čapek (pseudonym)"},
		searchEntry{Href: "/knihy/b", Title: "B", Summary: "Josef Lada"},
	)
	source := newTestSource(t, site)

	candidates, err := source.Search(context.Background(), Query{Title: "A", Authors: []string{"Josef Čapek"}})
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, source.BaseURL+"knihy/a", candidates[0].URL)
}

func TestSearchWithoutAuthorsKeepsAllUpToLimit(t *testing.T) {
	site := newFakeSite()
	var entries []searchEntry
	for i := 0; i < 8; i++ {
		entries = append(entries, searchEntry{Href: fmt.Sprintf("/knihy/k-%d", i), Title: "K", Summary: "Někdo Jiný"})
	}
	site.search = searchPage(entries...)
	source := newTestSource(t, site)
	source.MaxResults = 5

	candidates, err := source.Search(context.Background(), Query{Title: "K"})
	require.NoError(t, err)
	require.Len(t, candidates, 5)
	for i, c := range candidates {
		assert.Equal(t, i, c.Relevance)
	}
}

func TestSearchMissingSummaryMeansEmptySurname(t *testing.T) {
	site := newFakeSite()
	site.search = `<html><body><p class="new_search"><a href="/knihy/x">X</a></p></body></html>`
	source := newTestSource(t, site)

	candidates, err := source.Search(context.Background(), Query{Title: "X", Authors: []string{"Karel Čapek"}})
	require.NoError(t, err)
	assert.Empty(t, candidates)

	candidates, err = source.Search(context.Background(), Query{Title: "X"})
	require.NoError(t, err)
	assert.Len(t, candidates, 1)
}

func TestSearchMalformedBlockFailsCall(t *testing.T) {
	site := newFakeSite()
	site.search = searchPage(
		searchEntry{Href: "/knihy/ok", Title: "OK", Summary: "Karel Čapek"},
		searchEntry{Title: "Bez odkazu", Summary: "Karel Čapek"},
	)
	source := newTestSource(t, site)

	_, err := source.Search(context.Background(), Query{Title: "OK", Authors: []string{"Čapek"}})
	assert.ErrorIs(t, err, errMalformedResult)
}

func TestSearchEmptyBody(t *testing.T) {
	site := newFakeSite()
	site.search = "   \n"
	source := newTestSource(t, site)

	_, err := source.Search(context.Background(), Query{Title: "X"})
	assert.ErrorIs(t, err, errEmptyResponse)
}

func TestSearchInsufficientQuerySendsNoRequest(t *testing.T) {
	site := newFakeSite()
	source := newTestSource(t, site)

	_, err := source.Search(context.Background(), Query{})
	assert.ErrorIs(t, err, ErrInsufficientQuery)
	assert.Equal(t, 0, site.searchCount())
}
