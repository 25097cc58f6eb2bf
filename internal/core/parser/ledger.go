package parser

import (
	"fmt"
	"strings"

	"events-service/internal/core/normalize"
	"events-service/internal/domain"
)

// Column positions of the monthly ledger.
const (
	ledgerData = iota
	ledgerEvento
	ledgerLocal
	ledgerRepassePrevisto
	ledgerRepasseReal
	ledgerReceitaIngresse
	ledgerReceitaPorta
	ledgerTotalIngressos
	ledgerCustosTotais
	ledgerVips
	ledgerTMPorta
	ledgerTMBar
	ledgerReceitaBar
	ledgerROI
)

const minLedgerColumns = 10

// ParseLedger reads the monthly ledger (one event per row, header first).
// SUBTOTAL rows, rows without a dd/mm/yyyy date and short rows are
// skipped. The ticket revenue total excludes the bar, which is kept in
// its own fields.
func ParseLedger(text string) []domain.Event {
	lines := strings.Split(text, "\n")
	var events []domain.Event

	for i := 1; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		cols := normalize.SplitRespectingQuotes(line, ',')
		if !isLedgerEventRow(cols) {
			continue
		}

		recIngresse := normalize.Currency(cols[ledgerReceitaIngresse])
		recPorta := normalize.Currency(cols[ledgerReceitaPorta])

		evt := domain.Event{
			ID:             fmt.Sprintf("evt-nova-%d", i),
			Name:           fmt.Sprintf("%s (%s)", cols[ledgerEvento], cols[ledgerLocal]),
			Date:           normalize.DateDMY(cols[ledgerData]),
			TotalRevenue:   recIngresse + recPorta,
			DoorRevenue:    recPorta,
			OnlineRevenue:  recIngresse,
			PreSaleRevenue: recIngresse,
			BarRevenue:     normalize.Currency(normalize.Field(cols, ledgerReceitaBar)),
			BarTM:          normalize.Currency(normalize.Field(cols, ledgerTMBar)),
			TotalAudience:  normalize.Integer(cols[ledgerTotalIngressos]),
			Cortesias:      normalize.Integer(cols[ledgerVips]),
			DailySales:     []domain.DailySale{},
		}
		evt.Derive()
		events = append(events, evt)
	}
	return events
}

func isLedgerEventRow(cols []string) bool {
	first := cols[0]
	if strings.Contains(first, "SUBTOTAL") {
		return false
	}
	if !strings.Contains(first, "/") {
		return false
	}
	return len(cols) >= minLedgerColumns
}
