package merge

import (
	"regexp"
	"strings"

	"events-service/internal/domain"
)

// nameNoise is removed from names before comparing them: the venue word
// "parque", pipes, parentheses, hyphens and whitespace.
var nameNoise = regexp.MustCompile(`parque|\||\(|\)|-|\s`)

// NormalizeName lowercases name and strips nameNoise.
func NormalizeName(name string) string {
	return nameNoise.ReplaceAllString(strings.ToLower(name), "")
}

// SameEvent reports whether two records describe the same edition: equal
// dates and normalized names that are equal or contain one another. A
// name that normalizes to nothing only matches another such name.
//
// Two different events on the same day with overlapping short names are
// merged. This is an accepted approximation.
func SameEvent(a, b domain.Event) bool {
	if a.Date != b.Date {
		return false
	}
	n1 := NormalizeName(a.Name)
	n2 := NormalizeName(b.Name)
	if n1 == "" || n2 == "" {
		// an empty name is contained in every other one
		return n1 == n2
	}
	return n1 == n2 || strings.Contains(n1, n2) || strings.Contains(n2, n1)
}

func indexOf(events []domain.Event, candidate domain.Event) int {
	for i, e := range events {
		if SameEvent(e, candidate) {
			return i
		}
	}
	return -1
}
