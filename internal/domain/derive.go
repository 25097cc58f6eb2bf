package domain

// Derive recomputes every field that is a function of the raw totals:
// paying quantity, percent paying, average ticket and door ticket mean.
// Denominators of zero yield zero.
func (e *Event) Derive() {
	e.TotalPayingQty = e.TotalAudience - e.Cortesias
	if e.TotalPayingQty < 0 {
		e.TotalPayingQty = 0
	}
	e.PercentPaying = Ratio(float64(e.TotalPayingQty), float64(e.TotalAudience)) * 100
	e.AvgTicket = Ratio(e.TotalRevenue, float64(e.TotalPayingQty))
	e.DoorTM = Ratio(e.DoorRevenue, float64(e.DoorQty))
}

// Ratio divides num by den, returning 0 when den is not positive.
func Ratio(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return num / den
}

// Clone returns a deep copy of e so callers can modify slices and maps
// without touching the original.
func (e Event) Clone() Event {
	out := e
	if e.DailySales != nil {
		out.DailySales = append([]DailySale(nil), e.DailySales...)
	}
	if e.Coupons != nil {
		out.Coupons = make(map[string]int, len(e.Coupons))
		for code, n := range e.Coupons {
			out.Coupons[code] = n
		}
	}
	if e.SalesChannels != nil {
		ch := *e.SalesChannels
		out.SalesChannels = &ch
	}
	if e.ManualData != nil {
		md := *e.ManualData
		out.ManualData = &md
	}
	return out
}

// CouponTotal sums every coupon redemption of the event.
func (e Event) CouponTotal() int {
	total := 0
	for _, n := range e.Coupons {
		total += n
	}
	return total
}
