package events

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/schollz/closestmatch"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"events-service/internal/domain"
)

const defaultSearchResults = 5

var (
	nonAlphanumericRegex = regexp.MustCompile(`[^A-Z0-9 ]+`)
	whitespaceRegex      = regexp.MustCompile(`\s+`)
)

// foldName removes accents and punctuation and upper-cases str, so
// "Verão RdJ (Ilha)" and "VERAO RDJ ILHA" compare equal.
func foldName(str string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}))
	result, _, _ := transform.String(t, str)
	result = strings.ToUpper(result)
	result = nonAlphanumericRegex.ReplaceAllString(result, " ")
	result = whitespaceRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

// searchRows returns up to n rows whose event name best matches query.
// Names containing the query come first, in report order; the remaining
// slots are filled by fuzzy matches.
func searchRows(rows []domain.ReportRow, query string, n int) []domain.ReportRow {
	if n <= 0 {
		n = defaultSearchResults
	}
	key := foldName(query)
	if key == "" {
		return []domain.ReportRow{}
	}

	byKey := make(map[string][]int)
	var keys []string
	for i, r := range rows {
		k := foldName(r.Evento)
		if _, ok := byKey[k]; !ok {
			keys = append(keys, k)
		}
		byKey[k] = append(byKey[k], i)
	}

	out := []domain.ReportRow{}
	taken := make(map[int]bool)
	take := func(idx []int) {
		for _, i := range idx {
			if len(out) >= n || taken[i] {
				continue
			}
			taken[i] = true
			out = append(out, rows[i])
		}
	}

	for _, k := range keys {
		if strings.Contains(k, key) {
			take(byKey[k])
		}
	}
	if len(out) < n && len(keys) > 0 {
		cm := closestmatch.New(keys, []int{2, 3})
		for _, match := range cm.ClosestN(key, n) {
			take(byKey[match])
		}
	}
	return out
}
