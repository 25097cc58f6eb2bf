package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"events-service/internal/domain"
)

// Fuzzy classification rules shared by the parsers. They are deliberately
// loose: source spreadsheets are typed by hand.

const (
	// Birth years accepted by the report ticket-detail block, exclusive.
	minBirthYear = 1940
	maxBirthYear = 2015
	// Ages in the report ticket-detail block are taken relative to this
	// season, whatever the event date.
	referenceYear = 2025

	// Ages accepted from the granular export, exclusive.
	minAge = 10
	maxAge = 100
)

var (
	dmyDate      = regexp.MustCompile(`\d{2}/\d{2}/\d{4}`)
	sourceFileRe = regexp.MustCompile(`^(.*)_(\d{2})_(\d{2})_(\d{4})$`)
	digitRe      = regexp.MustCompile(`\d`)
)

// Channel is a sales channel bucket.
type Channel int

const (
	ChannelNone Channel = iota
	ChannelPOS
	ChannelSite
	ChannelApp
)

// DetailLineChannel classifies a raw ticket-detail line of the report
// format by substring: "pos" first, then "site", then "app" or "zip".
func DetailLineChannel(line string) Channel {
	lower := strings.ToLower(line)
	switch {
	case strings.Contains(lower, "pos"):
		return ChannelPOS
	case strings.Contains(lower, "site"):
		return ChannelSite
	case strings.Contains(lower, "app"), strings.Contains(lower, "zip"):
		return ChannelApp
	}
	return ChannelNone
}

// TicketChannel classifies the channel cell of the granular export.
// Door sales are "pos"/"portaria", app sales "app"/"zig", anything else
// is the web site.
func TicketChannel(cell string) Channel {
	lower := strings.ToLower(cell)
	switch {
	case strings.Contains(lower, "pos"), strings.Contains(lower, "portaria"):
		return ChannelPOS
	case strings.Contains(lower, "app"), strings.Contains(lower, "zig"):
		return ChannelApp
	}
	return ChannelSite
}

func (c Channel) count(ch *domain.SalesChannels) {
	switch c {
	case ChannelPOS:
		ch.POS++
	case ChannelSite:
		ch.Site++
	case ChannelApp:
		ch.App++
	}
}

// IsBirthYear reports whether year looks like a birth year rather than a
// sale date of the current season.
func IsBirthYear(year int) bool {
	return year > minBirthYear && year < maxBirthYear
}

// BirthYearAges scans line for dd/mm/yyyy dates whose year passes
// IsBirthYear and returns referenceYear minus each of those years.
func BirthYearAges(line string) []int {
	var ages []int
	for _, d := range dmyDate.FindAllString(line, -1) {
		year, err := strconv.Atoi(d[6:])
		if err != nil || !IsBirthYear(year) {
			continue
		}
		ages = append(ages, referenceYear-year)
	}
	return ages
}

// IsSettledStatus reports whether a purchase status counts as a real sale.
// Only finished or approved purchases count; cancelled, failed or pending
// ones do not.
func IsSettledStatus(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "finalizado", "aprovado":
		return true
	}
	return false
}

// IsComplimentary reports whether a ticket was free.
func IsComplimentary(price float64, ticketType string) bool {
	return price == 0 || strings.Contains(strings.ToLower(ticketType), "cortesia")
}

// IsPlausibleAge reports whether age is inside the accepted open range.
func IsPlausibleAge(age int) bool {
	return age > minAge && age < maxAge
}

// AgeAt returns the age in full years on ref of someone born on the date
// written in cell ("yyyy-mm-dd[ hh:mm:ss]" or "dd/mm/yyyy").
func AgeAt(cell string, ref time.Time) (int, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, false
	}
	day := strings.Fields(cell)[0]
	var birth time.Time
	var err error
	for _, layout := range []string{"2006-01-02", "02/01/2006"} {
		if birth, err = time.Parse(layout, day); err == nil {
			break
		}
	}
	if err != nil {
		return 0, false
	}
	age := ref.Year() - birth.Year()
	if ref.Month() < birth.Month() || (ref.Month() == birth.Month() && ref.Day() < birth.Day()) {
		age--
	}
	return age, true
}

// ParseSourceFile extracts the event name and ISO date from an export file
// name such as "Brassa_09_01_2026.xlsx". When the name does not end in
// _DD_MM_YYYY the whole base name is the event name and the date is empty.
// A base name that is empty, as in ".xlsx", leaves the cell itself as the
// name.
func ParseSourceFile(filename string) (name, date string) {
	raw := strings.TrimSpace(filename)
	clean := raw
	for _, ext := range []string{".xlsx", ".xls", ".csv"} {
		if strings.HasSuffix(strings.ToLower(clean), ext) {
			clean = strings.TrimSpace(clean[:len(clean)-len(ext)])
			break
		}
	}
	if clean == "" {
		clean = raw
	}
	m := sourceFileRe.FindStringSubmatch(clean)
	if m == nil {
		return clean, ""
	}
	name = strings.TrimSpace(strings.ReplaceAll(m[1], "_", " "))
	if name == "" {
		name = clean
	}
	return name, m[4] + "-" + m[3] + "-" + m[2]
}
