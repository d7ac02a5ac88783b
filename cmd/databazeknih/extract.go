package databazeknih

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// errFieldAbsent marks a field the page simply does not carry.
var errFieldAbsent = errors.New("field not present")

var seriesIndexRe = regexp.MustCompile(`\((\d*)\.\)`)

// parseHTML decodes body as UTF-8 and builds a goquery document.
func parseHTML(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(decodeUTF8(body)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	return doc, nil
}

// extractField runs fn, logging failures and recovering from panics. ok is
// false whenever the field should stay absent.
func extractField[T any](log *slog.Logger, field string, fn func() (T, error)) (value T, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("Field extractor panicked", "field", field, "panic", r)
			var zero T
			value, ok = zero, false
		}
	}()

	v, err := fn()
	if err != nil {
		if errors.Is(err, errFieldAbsent) {
			log.Debug("Field not found", "field", field)
		} else {
			log.Error("Error parsing field", "field", field, "error", err)
		}
		var zero T
		return zero, false
	}
	log.Debug("Parsed field", "field", field, "value", v)
	return v, true
}

// ownText concatenates the direct text children of the first node in sel.
func ownText(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	var b strings.Builder
	for c := sel.Nodes[0].FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

func firstText(doc *goquery.Document, selector string) (string, error) {
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return "", errFieldAbsent
	}
	text := strings.TrimSpace(sel.Text())
	if text == "" {
		return "", errFieldAbsent
	}
	return text, nil
}

func extractTitle(doc *goquery.Document) (string, error) {
	sel := doc.Find("h1[itemprop=name]").First()
	if sel.Length() == 0 {
		return "", errFieldAbsent
	}
	title := ownText(sel)
	title = strings.ReplaceAll(title, "&nbsp;", "")
	title = strings.ReplaceAll(title, "\u00a0", " ")
	title = strings.TrimSpace(title)
	if title == "" {
		return "", errFieldAbsent
	}
	return title, nil
}

func extractAuthors(doc *goquery.Document) ([]string, error) {
	name, err := firstText(doc, "h2.jmenaautoru a")
	if err != nil {
		return nil, err
	}
	return []string{name}, nil
}

func extractSeries(doc *goquery.Document) (string, error) {
	return firstText(doc, "h3 a")
}

func extractSeriesIndex(doc *goquery.Document) (float64, error) {
	sel := doc.Find("h3 em.info").First()
	if sel.Length() == 0 {
		return 0, errFieldAbsent
	}
	m := seriesIndexRe.FindStringSubmatch(sel.Text())
	if m == nil || m[1] == "" {
		return 0, errFieldAbsent
	}
	idx, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid series index %q: %w", m[1], err)
	}
	return idx, nil
}

func extractTags(doc *goquery.Document) ([]string, error) {
	var tags []string
	doc.Find("h5[itemprop=category] a").Each(func(_ int, s *goquery.Selection) {
		if tag := strings.TrimSpace(s.Text()); tag != "" {
			tags = append(tags, tag)
		}
	})
	if len(tags) == 0 {
		return nil, errFieldAbsent
	}
	return tags, nil
}

func extractPublisher(doc *goquery.Document) (string, error) {
	return firstText(doc, "span[itemprop=publisher] a")
}

func extractPubDate(doc *goquery.Document) (time.Time, error) {
	text, err := firstText(doc, "span[itemprop=datePublished]")
	if err != nil {
		return time.Time{}, err
	}
	year, err := strconv.Atoi(text)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid publication year %q: %w", text, err)
	}
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC), nil
}

func extractComments(doc *goquery.Document) (string, error) {
	for _, selector := range []string{"p#biall", "p[itemprop=description]"} {
		if text := strings.TrimSpace(ownText(doc.Find(selector).First())); text != "" {
			return text, nil
		}
	}
	return "", errFieldAbsent
}

// extractRating maps the percentage score to a 0-5 star bucket. A page
// without a score rates 0.
func extractRating(doc *goquery.Document) (float64, error) {
	sel := doc.Find("a.bpoints").First()
	if sel.Length() == 0 {
		return 0, nil
	}
	text := strings.TrimSpace(strings.ReplaceAll(sel.Text(), "%", ""))
	if text == "" {
		return 0, nil
	}
	percent, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("invalid rating %q: %w", text, err)
	}
	return ratingBucket(percent), nil
}

func ratingBucket(percent int) float64 {
	switch {
	case percent < 10:
		return 0
	case percent < 30:
		return 1
	case percent < 50:
		return 2
	case percent < 70:
		return 3
	case percent < 90:
		return 4
	default:
		return 5
	}
}

// extractISBN reads the book info id and asks the auxiliary endpoint for the
// ISBN. The id itself is used when the endpoint shows none.
func extractISBN(ctx context.Context, doc *goquery.Document, session Session, baseURL string, timeout time.Duration) (string, error) {
	bid, ok := doc.Find("a#bukinfo").First().Attr("bid")
	bid = strings.TrimSpace(bid)
	if !ok || bid == "" {
		return "", errFieldAbsent
	}

	infoURL := baseURL + "helpful/ajax/more_binfo.php?bid=" + url.QueryEscape(bid)
	body, err := session.Get(ctx, infoURL, timeout)
	if err != nil {
		return "", fmt.Errorf("failed to fetch book info %s: %w", infoURL, err)
	}

	info, err := parseHTML(body)
	if err != nil {
		return "", err
	}
	if isbn := strings.TrimSpace(info.Find("span[itemprop=isbn]").First().Text()); isbn != "" {
		return isbn, nil
	}
	return bid, nil
}

func extractCoverURL(doc *goquery.Document, baseURL string) (string, error) {
	src, ok := doc.Find("img.kniha_img").First().Attr("src")
	src = strings.TrimSpace(src)
	if !ok || src == "" {
		return "", errFieldAbsent
	}
	return resolveCoverURL(src, baseURL), nil
}

// resolveCoverURL switches a mid-size thumbnail to the large image and makes
// the URL absolute.
func resolveCoverURL(src, baseURL string) string {
	dir, file := path.Split(src)
	if rest, ok := strings.CutPrefix(file, "mid_"); ok {
		src = dir + "big_" + rest
	}

	switch {
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		return src
	case strings.HasPrefix(src, "//"):
		return "http:" + src
	default:
		return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(src, "/")
	}
}

// sourceIDFromURL returns the path segment after /knihy/.
func sourceIDFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid book url %q: %w", raw, err)
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, seg := range segments {
		if seg == "knihy" && i+1 < len(segments) && segments[i+1] != "" {
			return segments[i+1], nil
		}
	}
	return "", errFieldAbsent
}
