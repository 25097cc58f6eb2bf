package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDerive(t *testing.T) {
	e := Event{TotalAudience: 798, Cortesias: 378, TotalRevenue: 31821, DoorQty: 601, DoorRevenue: 19004}
	e.Derive()
	assert.Equal(t, 420, e.TotalPayingQty)
	assert.InDelta(t, 420.0/798*100, e.PercentPaying, 1e-9)
	assert.InDelta(t, 31821.0/420, e.AvgTicket, 1e-9)
	assert.InDelta(t, 19004.0/601, e.DoorTM, 1e-9)
}

func TestDeriveWithoutPayers(t *testing.T) {
	e := Event{TotalAudience: 10, Cortesias: 15, TotalRevenue: 100}
	e.Derive()
	assert.Equal(t, 0, e.TotalPayingQty)
	assert.Zero(t, e.AvgTicket)
	assert.Zero(t, e.DoorTM)
	assert.False(t, math.IsNaN(e.PercentPaying))
}

func TestClone(t *testing.T) {
	cost := 10.0
	e := Event{
		DailySales:    []DailySale{{SalesDate: "2025-09-19"}},
		Coupons:       map[string]int{"VIP": 1},
		SalesChannels: &SalesChannels{POS: 1},
		ManualData:    &ManualData{EventCost: &cost},
	}
	c := e.Clone()
	c.DailySales[0].SalesDate = "x"
	c.Coupons["VIP"] = 9
	c.SalesChannels.POS = 9

	assert.Equal(t, "2025-09-19", e.DailySales[0].SalesDate)
	assert.Equal(t, 1, e.Coupons["VIP"])
	assert.Equal(t, 1, e.SalesChannels.POS)
	assert.Equal(t, 1, e.CouponTotal())
}

func TestManualDataMerge(t *testing.T) {
	cost, bar := 100.0, 50.0
	loc := "Alba"
	stored := ManualData{EventCost: &cost, Location: &loc}
	merged := stored.Merge(ManualData{BarGrossRevenue: &bar})

	assert.Equal(t, 100.0, *merged.EventCost)
	assert.Equal(t, 50.0, *merged.BarGrossRevenue)
	assert.Equal(t, "Alba", *merged.Location)
	assert.True(t, ManualData{}.IsEmpty())
	assert.False(t, merged.IsEmpty())
}
