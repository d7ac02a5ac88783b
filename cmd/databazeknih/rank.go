package databazeknih

import (
	"sort"
	"strings"
)

// RankRecords orders records best first: matching ISBN, exact title match,
// available cover, then search relevance. The sort is stable.
func RankRecords(records []BookRecord, q Query, ids Identifiers) {
	wantISBN := checkISBN(ids.ISBN())
	wantTitle := strings.ToLower(strings.TrimSpace(q.Title))

	key := func(r BookRecord) [3]int {
		var k [3]int
		if wantISBN == "" || normalizeISBN(r.ISBN) != wantISBN {
			k[0] = 1
		}
		if wantTitle == "" || strings.ToLower(strings.TrimSpace(r.Title)) != wantTitle {
			k[1] = 1
		}
		if r.CoverURL == "" {
			k[2] = 1
		}
		return k
	}

	sort.SliceStable(records, func(i, j int) bool {
		ki, kj := key(records[i]), key(records[j])
		if ki != kj {
			for n := range ki {
				if ki[n] != kj[n] {
					return ki[n] < kj[n]
				}
			}
		}
		return records[i].Relevance < records[j].Relevance
	})
}
