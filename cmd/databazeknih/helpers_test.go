package databazeknih

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lepinkainen/dbknih/internal/testutil"
)

// bookFixture renders a detail page. Empty fields are left out of the page.
type bookFixture struct {
	Title      string
	Author     string
	Series     string
	SeriesInfo string
	Tags       []string
	Publisher  string
	Year       string
	Comments   string
	Rating     string
	BID        string
	Cover      string
}

func (b bookFixture) html() string {
	var sb strings.Builder
	sb.WriteString("<html><head><title>Databáze knih</title></head><body>\n")
	if b.Title != "" {
		fmt.Fprintf(&sb, "<h1 itemprop=\"name\">%s&nbsp;<span class=\"odright_pet\">kniha</span></h1>\n", b.Title)
	}
	if b.Author != "" {
		fmt.Fprintf(&sb, "<h2 class=\"jmenaautoru\"><a href=\"/autori/x\">%s</a></h2>\n", b.Author)
	}
	if b.Series != "" {
		fmt.Fprintf(&sb, "<h3><a href=\"/serie/x\">%s</a> <em class=\"info\">%s</em></h3>\n", b.Series, b.SeriesInfo)
	}
	if len(b.Tags) > 0 {
		sb.WriteString("<h5 itemprop=\"category\">")
		for i, tag := range b.Tags {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "<a href=\"/zanry/x\">%s</a>", tag)
		}
		sb.WriteString("</h5>\n")
	}
	if b.Publisher != "" {
		fmt.Fprintf(&sb, "<span itemprop=\"publisher\"><a href=\"/nakladatelstvi/x\">%s</a></span>\n", b.Publisher)
	}
	if b.Year != "" {
		fmt.Fprintf(&sb, "<span itemprop=\"datePublished\">%s</span>\n", b.Year)
	}
	if b.Comments != "" {
		fmt.Fprintf(&sb, "<p id=\"biall\">%s<a href=\"#\">méně textu</a></p>\n", b.Comments)
	}
	if b.Rating != "" {
		fmt.Fprintf(&sb, "<a class=\"bpoints\" href=\"/hodnoceni\">%s</a>\n", b.Rating)
	}
	if b.BID != "" {
		fmt.Fprintf(&sb, "<a id=\"bukinfo\" bid=\"%s\" href=\"#\">další info</a>\n", b.BID)
	}
	if b.Cover != "" {
		fmt.Fprintf(&sb, "<img class=\"kniha_img\" src=\"%s\" alt=\"\">\n", b.Cover)
	}
	sb.WriteString("</body></html>")
	return sb.String()
}

type searchEntry struct {
	Href    string
	Title   string
	Summary string
}

func searchPage(entries ...searchEntry) string {
	var sb strings.Builder
	sb.WriteString("<html><body><div id=\"search\">\n")
	for _, e := range entries {
		sb.WriteString("<p class=\"new_search\">")
		if e.Href != "" {
			fmt.Fprintf(&sb, "<a href=\"%s\" class=\"search_to_stats\">%s</a>", e.Href, e.Title)
		} else {
			fmt.Fprintf(&sb, "<a class=\"search_to_stats\">%s</a>", e.Title)
		}
		fmt.Fprintf(&sb, "<br><span class=\"smallfind\">%s</span></p>\n", e.Summary)
	}
	sb.WriteString("</div></body></html>")
	return sb.String()
}

// fakeSite serves search, detail, book info and cover endpoints.
type fakeSite struct {
	mu       sync.Mutex
	search   string
	books    map[string]string
	binfo    map[string]string
	covers   map[string][]byte
	block    map[string]bool
	searches int
	requests []string
}

func newFakeSite() *fakeSite {
	return &fakeSite{
		books:  make(map[string]string),
		binfo:  make(map[string]string),
		covers: make(map[string][]byte),
		block:  make(map[string]bool),
	}
}

func (f *fakeSite) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.URL.RequestURI())
	blocked := f.block[r.URL.Path]
	f.mu.Unlock()

	if blocked {
		<-r.Context().Done()
		return
	}

	switch {
	case r.URL.Path == "/index.php" && r.URL.Query().Get("stranka") == "search":
		f.mu.Lock()
		f.searches++
		body := f.search
		f.mu.Unlock()
		_, _ = io.WriteString(w, body)
	case strings.HasPrefix(r.URL.Path, "/knihy/"):
		f.mu.Lock()
		body, ok := f.books[strings.TrimPrefix(r.URL.Path, "/knihy/")]
		f.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, body)
	case r.URL.Path == "/helpful/ajax/more_binfo.php":
		f.mu.Lock()
		body, ok := f.binfo[r.URL.Query().Get("bid")]
		f.mu.Unlock()
		if !ok {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		_, _ = io.WriteString(w, body)
	default:
		f.mu.Lock()
		data, ok := f.covers[r.URL.Path]
		f.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(data)
	}
}

func (f *fakeSite) searchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.searches
}

func (f *fakeSite) requestCount(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.requests {
		if strings.HasPrefix(r, prefix) {
			n++
		}
	}
	return n
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestSource starts site and returns a Source pointed at it.
func newTestSource(t *testing.T, site *fakeSite) *Source {
	t.Helper()

	server := testutil.NewIPv4TestServer(t, site)
	return &Source{
		BaseURL:       server.URL + "/",
		MaxResults:    10,
		SearchTimeout: 5 * time.Second,
		DetailTimeout: 5 * time.Second,
		CoverTimeout:  5 * time.Second,
		PollInterval:  10 * time.Millisecond,
		Session:       NewHTTPSession("dbknih-test", nil),
		Cache:         NewMemoryMappings(),
		Log:           discardLogger(),
	}
}

func capekFixture() bookFixture {
	return bookFixture{
		Title:      "Válka s mloky",
		Author:     "Karel Čapek",
		Series:     "Spisy Karla Čapka",
		SeriesInfo: "(9.)",
		Tags:       []string{"Romány", "Sci-fi"},
		Publisher:  "Československý spisovatel",
		Year:       "1936",
		Comments:   "Satirický román o mlocích.",
		Rating:     "88%",
		BID:        "1001",
		Cover:      "/images_books/12_/12/mid_valka-s-mloky.jpg",
	}
}
