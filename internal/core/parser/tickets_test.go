package parser

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTicketsFixture(t *testing.T) {
	events := ParseTickets(readFixture(t, "tickets.csv"))
	require.Len(t, events, 2)

	pista := events[0]
	assert.Equal(t, "evt-2025-10-03-PistaParque", pista.ID)
	assert.Equal(t, "Pista Parque", pista.Name)
	assert.Equal(t, "2025-10-03", pista.Date)
	assert.Equal(t, 5, pista.TotalAudience)
	assert.Equal(t, 2, pista.Cortesias)
	assert.Equal(t, 3, pista.TotalPayingQty)
	assert.InDelta(t, 200.0, pista.TotalRevenue, 1e-9)
	assert.InDelta(t, 50.0, pista.DoorRevenue, 1e-9)
	assert.Equal(t, 1, pista.DoorQty)
	assert.InDelta(t, 150.0, pista.OnlineRevenue, 1e-9)
	assert.InDelta(t, 150.0, pista.PreSaleRevenue, 1e-9)
	assert.Equal(t, 3, pista.PreSaleQty)
	assert.InDelta(t, 200.0/3, pista.AvgTicket, 1e-9)
	assert.InDelta(t, 60.0, pista.PercentPaying, 1e-9)
	assert.InDelta(t, 50.0, pista.DoorTM, 1e-9)
	assert.Equal(t, map[string]int{"PROMO10": 2}, pista.Coupons)
	require.NotNil(t, pista.SalesChannels)
	assert.Equal(t, 2, pista.SalesChannels.POS)
	assert.Equal(t, 2, pista.SalesChannels.Site)
	assert.Equal(t, 1, pista.SalesChannels.App)
	// 30, 24 and 35 years old; the 2020 birth date is implausible.
	assert.InDelta(t, 89.0/3, pista.AvgAge, 1e-9)

	brassa := events[1]
	assert.Equal(t, "evt-2026-01-09-Brassa", brassa.ID)
	assert.Equal(t, "Brassa", brassa.Name)
	assert.Equal(t, 1, brassa.TotalAudience)
	assert.InDelta(t, 35.5, brassa.TotalRevenue, 1e-9)
	assert.Equal(t, 1, brassa.SalesChannels.App)
	assert.Equal(t, map[string]int{"VIP": 1}, brassa.Coupons)
	assert.Equal(t, 27.0, brassa.AvgAge)
}

func TestParseTicketsEmpty(t *testing.T) {
	assert.Empty(t, ParseTickets(""))
	assert.Empty(t, ParseTickets("only;a;header"))
}

// ticketLine builds one export row with the given source file.
func ticketLine(source string) string {
	cols := make([]string, minTicketColumns)
	cols[ticketStatus] = "finalizado"
	cols[ticketChannel] = "site"
	cols[ticketType] = "Inteira"
	cols[ticketPrice] = "70,00"
	cols[ticketSourceFile] = source
	return strings.Join(cols, ";")
}

func TestParseTicketsUndatedSourceFile(t *testing.T) {
	prev := now
	now = func() time.Time { return time.Date(2025, 11, 20, 15, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = prev })

	text := "header\n" + ticketLine(".xlsx") + "\n" + ticketLine("relatorio.csv")
	events := ParseTickets(text)
	require.Len(t, events, 2)

	assert.Equal(t, ".xlsx", events[0].Name)
	assert.Equal(t, "2025-11-20", events[0].Date)
	assert.Equal(t, "evt-2025-11-20-.xlsx", events[0].ID)
	assert.InDelta(t, 70.0, events[0].TotalRevenue, 1e-9)

	assert.Equal(t, "relatorio", events[1].Name)
	assert.Equal(t, "2025-11-20", events[1].Date)
	for _, e := range events {
		assert.NotEmpty(t, e.Name)
	}
}
