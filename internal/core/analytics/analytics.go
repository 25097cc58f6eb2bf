// Package analytics computes the dashboard figures shown on top of a
// reconciled event list.
package analytics

import (
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"events-service/internal/domain"
)

const topCoupons = 10

// EventTotal is one event's contribution to the period totals.
type EventTotal struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Date          string  `json:"date"`
	TicketRevenue float64 `json:"ticketRevenue"`
	BarRevenue    float64 `json:"barRevenue"`
	GrossRevenue  float64 `json:"grossRevenue"`
}

// EventROI is the return of an event with a known cost.
type EventROI struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Cost       float64 `json:"cost"`
	ROIPercent float64 `json:"roiPercent"`
}

// Summary aggregates a reconciled event list.
type Summary struct {
	Events        int         `json:"events"`
	TicketRevenue float64     `json:"ticketRevenue"`
	BarRevenue    float64     `json:"barRevenue"`
	GrossRevenue  float64     `json:"grossRevenue"`
	Audience      int         `json:"audience"`
	Paying        int         `json:"paying"`
	Cortesias     int         `json:"cortesias"`
	AvgTicket     float64     `json:"avgTicket"`
	PercentPaying float64     `json:"percentPaying"`
	TopEvent      *EventTotal `json:"topEvent,omitempty"`
	ROI           []EventROI  `json:"roi,omitempty"`
}

// BarRevenue returns the bar figure of e, preferring a manually informed
// gross value over the imported one.
func BarRevenue(e domain.Event) float64 {
	if e.ManualData != nil && e.ManualData.BarGrossRevenue != nil {
		return *e.ManualData.BarGrossRevenue
	}
	return e.BarRevenue
}

// ROIPercent is (ticket + bar - cost) / cost * 100, or 0 without a cost.
func ROIPercent(ticket, bar, cost float64) float64 {
	if cost <= 0 {
		return 0
	}
	return (ticket + bar - cost) / cost * 100
}

// Summarize totals events.
func Summarize(events []domain.Event) Summary {
	s := Summary{Events: len(events)}
	for _, e := range events {
		bar := BarRevenue(e)
		gross := e.TotalRevenue + bar

		s.TicketRevenue += e.TotalRevenue
		s.BarRevenue += bar
		s.Audience += e.TotalAudience
		s.Paying += e.TotalPayingQty
		s.Cortesias += e.Cortesias

		if s.TopEvent == nil || gross > s.TopEvent.GrossRevenue {
			s.TopEvent = &EventTotal{
				ID:            e.ID,
				Name:          e.Name,
				Date:          e.Date,
				TicketRevenue: e.TotalRevenue,
				BarRevenue:    bar,
				GrossRevenue:  gross,
			}
		}

		if e.ManualData != nil && e.ManualData.EventCost != nil && *e.ManualData.EventCost > 0 {
			cost := *e.ManualData.EventCost
			s.ROI = append(s.ROI, EventROI{
				ID:         e.ID,
				Name:       e.Name,
				Cost:       cost,
				ROIPercent: ROIPercent(e.TotalRevenue, bar, cost),
			})
		}
	}
	s.GrossRevenue = s.TicketRevenue + s.BarRevenue
	s.AvgTicket = domain.Ratio(s.TicketRevenue, float64(s.Paying))
	s.PercentPaying = domain.Ratio(float64(s.Paying), float64(s.Audience)) * 100
	return s
}

// CouponCount is a coupon code and how often it was redeemed.
type CouponCount struct {
	Code  string `json:"code"`
	Count int    `json:"count"`
}

// EventCoupons are the redemptions of one event.
type EventCoupons struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Date        string  `json:"date"`
	Redemptions int     `json:"redemptions"`
	Penetration float64 `json:"penetration"`
}

// Coupons aggregates coupon usage across events.
type Coupons struct {
	Total    int            `json:"total"`
	Top      []CouponCount  `json:"top"`
	TopEvent *EventCoupons  `json:"topEvent,omitempty"`
	PerEvent []EventCoupons `json:"perEvent"`
}

// CouponStats aggregates coupon redemptions. Only events with at least one
// redemption are listed per event, newest first.
func CouponStats(events []domain.Event) Coupons {
	byCode := make(map[string]int)
	out := Coupons{Top: []CouponCount{}, PerEvent: []EventCoupons{}}

	for _, e := range events {
		n := e.CouponTotal()
		if n == 0 {
			continue
		}
		for code, count := range e.Coupons {
			byCode[code] += count
		}
		out.Total += n
		out.PerEvent = append(out.PerEvent, EventCoupons{
			ID:          e.ID,
			Name:        e.Name,
			Date:        e.Date,
			Redemptions: n,
			Penetration: domain.Ratio(float64(n), float64(e.TotalAudience)) * 100,
		})
	}

	for code, count := range byCode {
		out.Top = append(out.Top, CouponCount{Code: code, Count: count})
	}
	sort.Slice(out.Top, func(i, j int) bool {
		if out.Top[i].Count != out.Top[j].Count {
			return out.Top[i].Count > out.Top[j].Count
		}
		return out.Top[i].Code < out.Top[j].Code
	})
	if len(out.Top) > topCoupons {
		out.Top = out.Top[:topCoupons]
	}

	for i := range out.PerEvent {
		if out.TopEvent == nil || out.PerEvent[i].Redemptions > out.TopEvent.Redemptions {
			top := out.PerEvent[i]
			out.TopEvent = &top
		}
	}
	sort.SliceStable(out.PerEvent, func(i, j int) bool { return out.PerEvent[i].Date > out.PerEvent[j].Date })
	return out
}

// TrendPoint is one day of pre-sales.
type TrendPoint struct {
	Label   string  `json:"label"`
	Revenue float64 `json:"revenue"`
	Count   int     `json:"count"`
}

// DailyTrend turns the daily sales of e into chart points labelled dd/mm.
func DailyTrend(e domain.Event) []TrendPoint {
	points := make([]TrendPoint, 0, len(e.DailySales))
	for _, d := range e.DailySales {
		points = append(points, TrendPoint{Label: dayMonth(d.SalesDate), Revenue: d.Revenue, Count: d.SalesCount})
	}
	return points
}

func dayMonth(iso string) string {
	parts := strings.Split(iso, "-")
	if len(parts) != 3 {
		return iso
	}
	return parts[2] + "/" + parts[1]
}

var printer = message.NewPrinter(language.BrazilianPortuguese)

// Headline is the one-line highlight of a period.
func Headline(s Summary) string {
	if s.TopEvent == nil {
		return "Nenhum evento no período"
	}
	return printer.Sprintf("%s lidera o período com R$ %.2f de faturamento bruto em %d eventos",
		s.TopEvent.Name, s.TopEvent.GrossRevenue, s.Events)
}
