package normalize

import "strings"

// SplitRespectingQuotes splits line on delim, ignoring delimiters inside
// double-quoted segments. Each field is trimmed and loses one pair of
// surrounding quotes. A line with an odd number of quotes cannot be
// paired up and is split naively.
func SplitRespectingQuotes(line string, delim rune) []string {
	var raw []string
	if strings.Count(line, `"`)%2 != 0 {
		raw = strings.Split(line, string(delim))
	} else {
		raw = splitOutsideQuotes(line, delim)
	}

	fields := make([]string, len(raw))
	for i, f := range raw {
		fields[i] = cleanField(f)
	}
	return fields
}

func splitOutsideQuotes(line string, delim rune) []string {
	var (
		fields []string
		b      strings.Builder
		quoted bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
			b.WriteRune(r)
		case r == delim && !quoted:
			fields = append(fields, b.String())
			b.Reset()
		default:
			b.WriteRune(r)
		}
	}
	return append(fields, b.String())
}

func cleanField(f string) string {
	f = strings.TrimSpace(f)
	f = strings.TrimPrefix(f, `"`)
	f = strings.TrimSuffix(f, `"`)
	return strings.TrimSpace(f)
}

// Field returns fields[i], or "" when the row is too short.
func Field(fields []string, i int) string {
	if i < 0 || i >= len(fields) {
		return ""
	}
	return fields[i]
}
