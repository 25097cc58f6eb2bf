// Package normalize converts the loosely formatted cells found in
// hand-maintained Brazilian spreadsheets into numbers and ISO dates.
// None of the functions fail: unparseable input yields 0, or the input
// itself for dates.
package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	leadingFloat = regexp.MustCompile(`^[-+]?(\d+\.?\d*|\.\d+)`)
	leadingInt   = regexp.MustCompile(`^[-+]?\d+`)
	currencySign = regexp.MustCompile(`R\$\s?`)
)

// Currency parses values such as "R$ 1.234,56", "-R$ 500,00" or "514".
// Dots are thousands separators and the comma is the decimal separator.
func Currency(val string) float64 {
	if val == "" {
		return 0
	}
	s := currencySign.ReplaceAllString(val, "")
	s = strings.ReplaceAll(s, `"`, "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, "\u00a0", "")
	s = strings.Replace(s, ",", ".", 1)
	return leadingNumber(s)
}

// Integer parses counts such as "1.098" or "601".
func Integer(val string) int {
	if val == "" {
		return 0
	}
	s := strings.ReplaceAll(val, ".", "")
	s = strings.ReplaceAll(s, `"`, "")
	s = strings.TrimSpace(s)
	m := leadingInt.FindString(s)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}

// DateDMY converts dd/mm/yyyy into yyyy-mm-dd. Anything that does not
// have exactly three slash separated parts is returned unchanged.
func DateDMY(val string) string {
	parts := strings.Split(val, "/")
	if len(parts) != 3 {
		return val
	}
	return parts[2] + "-" + parts[1] + "-" + parts[0]
}

// Percent parses "12,3%" into 12.3.
func Percent(val string) float64 {
	if val == "" {
		return 0
	}
	s := strings.ReplaceAll(val, "%", "")
	s = strings.Replace(s, ",", ".", 1)
	s = strings.TrimSpace(s)
	return leadingNumber(s)
}

// Round rounds val to the given number of decimal places.
func Round(val float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(val*pow) / pow
}

// leadingNumber reads the longest numeric prefix of s, so trailing noise
// such as "100%%" or "12 (aprox)" does not discard the value.
func leadingNumber(s string) float64 {
	m := leadingFloat.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
