package parser

import (
	"fmt"
	"math"
	"strings"

	"events-service/internal/core/normalize"
	"events-service/internal/domain"
)

// reportState is the capture mode of the block-report scanner.
type reportState int

const (
	stateScanning reportState = iota
	stateCapturingDaily
	stateCapturingTicketDetail
)

func (s reportState) String() string {
	switch s {
	case stateCapturingDaily:
		return "CapturingDaily"
	case stateCapturingTicketDetail:
		return "CapturingTicketDetail"
	}
	return "Scanning"
}

// reportAccumulator collects one event block between two header lines.
type reportAccumulator struct {
	name          string
	date          string
	doorQty       int
	doorRevenue   float64
	cortesias     int
	totalAudience int
	totalRevenue  float64
	daily         []domain.DailySale
	ages          []int
	channels      domain.SalesChannels
}

// reportScanner walks a block report line by line.
type reportScanner struct {
	state  reportState
	acc    *reportAccumulator
	events []domain.Event
}

// ParseReport reads a "block report" document: blocks that start with an
// "<EVENT NAME> | dd/mm/yyyy" line, followed by a daily sales table, the
// Porta / Cortesias / Total de Vendas summary rows and optionally a
// ticket-detail list. One event is emitted per block, in document order.
func ParseReport(text string) []domain.Event {
	s := &reportScanner{}
	for _, line := range strings.Split(text, "\n") {
		s.step(strings.TrimSpace(line))
	}
	s.finalize()
	return s.events
}

func (s *reportScanner) step(line string) {
	cols := normalize.SplitRespectingQuotes(line, ',')
	first := cols[0]

	switch {
	case isEventHeader(first):
		s.finalize()
		s.acc = newReportAccumulator(first)
		s.state = stateScanning

	case isDailyHeader(cols):
		s.state = stateCapturingDaily

	case first == "Porta":
		if s.state == stateCapturingDaily {
			s.state = stateScanning
		}
		if s.acc != nil {
			s.acc.doorQty = normalize.Integer(normalize.Field(cols, 2))
			s.acc.doorRevenue = normalize.Currency(normalize.Field(cols, 3))
		}

	case first == "Cortesias":
		if s.acc != nil {
			s.acc.cortesias = normalize.Integer(normalize.Field(cols, 2))
		}

	case first == "Total de Vendas" || first == "Tudo":
		if s.acc != nil {
			s.acc.totalAudience = normalize.Integer(normalize.Field(cols, 2))
			s.acc.totalRevenue = normalize.Currency(normalize.Field(cols, 3))
		}

	case isTicketDetailHeader(line):
		s.state = stateCapturingTicketDetail

	case s.state == stateCapturingDaily:
		s.captureDaily(cols)

	case s.state == stateCapturingTicketDetail:
		s.captureTicketDetail(line, cols)
	}
}

func (s *reportScanner) captureDaily(cols []string) {
	if s.acc == nil || len(cols) <= 3 || !dmyDate.MatchString(cols[0]) {
		return
	}
	s.acc.daily = append(s.acc.daily, domain.DailySale{
		SalesDate:  normalize.DateDMY(cols[0]),
		Weekday:    cols[1],
		SalesCount: normalize.Integer(cols[2]),
		Revenue:    normalize.Currency(cols[3]),
	})
}

func (s *reportScanner) captureTicketDetail(line string, cols []string) {
	if s.acc == nil || len(cols) <= 5 {
		return
	}
	DetailLineChannel(line).count(&s.acc.channels)
	s.acc.ages = append(s.acc.ages, BirthYearAges(line)...)
}

// finalize emits the current block, if it has a name, and resets every
// per-event field of the scanner.
func (s *reportScanner) finalize() {
	acc := s.acc
	s.acc = nil
	s.state = stateScanning
	if acc == nil || acc.name == "" {
		return
	}

	evt := domain.Event{
		ID:            fmt.Sprintf("evt-%d", len(s.events)+1),
		Name:          acc.name,
		Date:          acc.date,
		TotalRevenue:  acc.totalRevenue,
		TotalAudience: acc.totalAudience,
		Cortesias:     acc.cortesias,
		DoorQty:       acc.doorQty,
		DoorRevenue:   acc.doorRevenue,
		DailySales:    append([]domain.DailySale{}, acc.daily...),
		AvgAge:        meanRounded(acc.ages),
		SalesChannels: &domain.SalesChannels{POS: acc.channels.POS, Site: acc.channels.Site, App: acc.channels.App},
	}
	for _, d := range acc.daily {
		evt.PreSaleRevenue += d.Revenue
		evt.PreSaleQty += d.SalesCount
	}
	evt.Derive()
	s.events = append(s.events, evt)
}

func newReportAccumulator(header string) *reportAccumulator {
	parts := strings.SplitN(header, "|", 2)
	return &reportAccumulator{
		name: strings.TrimSpace(parts[0]),
		date: normalize.DateDMY(strings.TrimSpace(parts[1])),
	}
}

// isEventHeader matches "<NAME> | dd/mm/yyyy": a pipe plus at least one
// digit. The date part may be malformed.
func isEventHeader(first string) bool {
	return strings.Contains(first, "|") && digitRe.MatchString(first)
}

func isDailyHeader(cols []string) bool {
	if cols[0] != "Data" {
		return false
	}
	third := normalize.Field(cols, 2)
	return third == "Número de Vendas" || third == "Qtd"
}

func isTicketDetailHeader(line string) bool {
	return strings.Contains(line, "Canal de Compra") || strings.Contains(line, "Data de Nascimento")
}

func meanRounded(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return math.Round(float64(sum) / float64(len(values)))
}
