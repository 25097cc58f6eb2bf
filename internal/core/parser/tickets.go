package parser

import (
	"fmt"
	"strings"
	"time"

	"events-service/internal/core/normalize"
	"events-service/internal/domain"
)

// Column positions of the granular ticket export (semicolon separated).
const (
	ticketStatus     = 2
	ticketChannel    = 3
	ticketType       = 8
	ticketPrice      = 12
	ticketCoupon     = 15
	ticketBirthDate  = 20
	ticketSourceFile = 28

	minTicketColumns = ticketSourceFile + 1
	minCouponLength  = 3
)

// now dates exports whose file name carries no date.
var now = time.Now

// ticketAccumulator aggregates the rows of one (name, date) pair.
type ticketAccumulator struct {
	evt      domain.Event
	ref      time.Time
	ageSum   int
	ageCount int
}

// ParseTickets aggregates a per-ticket export into one event per source
// file. Only settled purchases count. Event identity comes from the
// source file column, e.g. "Brassa_09_01_2026.xlsx"; a file name without
// a date is dated today.
func ParseTickets(text string) []domain.Event {
	lines := strings.Split(text, "\n")
	byKey := make(map[string]*ticketAccumulator)
	var order []string

	for i := 1; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		cols := normalize.SplitRespectingQuotes(line, ';')
		if len(cols) < minTicketColumns || !IsSettledStatus(cols[ticketStatus]) {
			continue
		}
		source := cols[ticketSourceFile]
		if source == "" {
			continue
		}

		name, date := ParseSourceFile(source)
		if date == "" {
			date = now().Format("2006-01-02")
		}
		key := name + "|" + date
		acc, ok := byKey[key]
		if !ok {
			acc = newTicketAccumulator(name, date)
			byKey[key] = acc
			order = append(order, key)
		}
		acc.add(cols)
	}

	events := make([]domain.Event, 0, len(order))
	for _, key := range order {
		events = append(events, byKey[key].finalize())
	}
	return events
}

func newTicketAccumulator(name, date string) *ticketAccumulator {
	ref, err := time.Parse("2006-01-02", date)
	if err != nil {
		ref = now()
	}
	return &ticketAccumulator{
		ref: ref,
		evt: domain.Event{
			ID:            fmt.Sprintf("evt-%s-%s", date, strings.Join(strings.Fields(name), "")),
			Name:          name,
			Date:          date,
			DailySales:    []domain.DailySale{},
			Coupons:       map[string]int{},
			SalesChannels: &domain.SalesChannels{},
		},
	}
}

func (a *ticketAccumulator) add(cols []string) {
	evt := &a.evt
	price := normalize.Currency(cols[ticketPrice])
	free := IsComplimentary(price, cols[ticketType])

	evt.TotalAudience++
	if free {
		evt.Cortesias++
	} else {
		evt.TotalPayingQty++
		evt.TotalRevenue += price
	}

	channel := TicketChannel(cols[ticketChannel])
	channel.count(evt.SalesChannels)
	if channel == ChannelPOS {
		evt.DoorRevenue += price
		if !free {
			evt.DoorQty++
		}
	} else {
		evt.OnlineRevenue += price
		evt.PreSaleRevenue += price
		evt.PreSaleQty++
	}

	if code := strings.ToUpper(strings.TrimSpace(cols[ticketCoupon])); len(code) >= minCouponLength {
		evt.Coupons[code]++
	}

	if age, ok := AgeAt(cols[ticketBirthDate], a.ref); ok && IsPlausibleAge(age) {
		a.ageSum += age
		a.ageCount++
	}
}

func (a *ticketAccumulator) finalize() domain.Event {
	evt := a.evt
	if a.ageCount > 0 {
		evt.AvgAge = float64(a.ageSum) / float64(a.ageCount)
	}
	evt.Derive()
	return evt
}
