// Package merge reconciles event records parsed from different source
// documents into one list with a single record per real-world edition.
package merge

import (
	"fmt"
	"sort"

	"events-service/internal/domain"
)

// Rule combines an incoming record into an existing matched one.
type Rule func(existing, incoming domain.Event) domain.Event

// Pass folds one source array into the accumulated list with its Rule.
type Pass struct {
	Events []domain.Event
	Rule   Rule
}

// PreferGranular is the rule for the per-ticket export. Coupons are
// replaced; revenue, audience, cortesias and name are taken from the
// incoming record whenever it has a non-zero or non-empty value.
func PreferGranular(existing, incoming domain.Event) domain.Event {
	out := existing.Clone()
	out.Coupons = cloneCoupons(incoming.Coupons)
	if incoming.TotalRevenue != 0 {
		out.TotalRevenue = incoming.TotalRevenue
	}
	if incoming.TotalAudience != 0 {
		out.TotalAudience = incoming.TotalAudience
	}
	if incoming.Cortesias != 0 {
		out.Cortesias = incoming.Cortesias
	}
	if incoming.Name != "" {
		out.Name = incoming.Name
	}
	out.Derive()
	return out
}

// FillBar is the rule for the monthly ledger: it only contributes bar
// figures, and only where the existing record has none.
func FillBar(existing, incoming domain.Event) domain.Event {
	out := existing.Clone()
	if out.BarRevenue == 0 {
		out.BarRevenue = incoming.BarRevenue
	}
	if out.BarTM == 0 {
		out.BarTM = incoming.BarTM
	}
	return out
}

// Fold returns a new list: acc with every record of p matched and
// combined, or appended when nothing matches. Records appended earlier in
// the same pass are candidates for later matches. acc is not modified.
func Fold(acc []domain.Event, p Pass) []domain.Event {
	out := make([]domain.Event, 0, len(acc)+len(p.Events))
	for _, e := range acc {
		out = append(out, e.Clone())
	}
	for _, incoming := range p.Events {
		if i := indexOf(out, incoming); i >= 0 {
			out[i] = p.Rule(out[i], incoming)
			continue
		}
		out = append(out, incoming.Clone())
	}
	return out
}

// Merge folds every pass into base, then drops records without financial
// activity, sorts by date and makes ids unique.
func Merge(base []domain.Event, passes ...Pass) []domain.Event {
	acc := make([]domain.Event, 0, len(base))
	for _, e := range base {
		acc = append(acc, e.Clone())
	}
	for _, p := range passes {
		acc = Fold(acc, p)
	}
	acc = WithActivity(acc)
	sort.SliceStable(acc, func(i, j int) bool { return acc[i].Date < acc[j].Date })
	return uniqueIDs(acc)
}

// Events merges additional sources into base. The first additional array
// is folded with PreferGranular, every later one with FillBar.
func Events(base []domain.Event, additional ...[]domain.Event) []domain.Event {
	passes := make([]Pass, 0, len(additional))
	for i, events := range additional {
		rule := FillBar
		if i == 0 {
			rule = PreferGranular
		}
		passes = append(passes, Pass{Events: events, Rule: rule})
	}
	return Merge(base, passes...)
}

// Reconcile runs the standard pipeline: the block report is the base, the
// ticket export refines it and the ledger adds bar data.
func Reconcile(report, tickets, ledger []domain.Event) []domain.Event {
	return Merge(report,
		Pass{Events: tickets, Rule: PreferGranular},
		Pass{Events: ledger, Rule: FillBar},
	)
}

// WithActivity drops records with neither ticket nor bar revenue.
func WithActivity(events []domain.Event) []domain.Event {
	out := events[:0:0]
	for _, e := range events {
		if e.TotalRevenue <= 0 && e.BarRevenue <= 0 {
			continue
		}
		out = append(out, e)
	}
	return out
}

// uniqueIDs keeps the first record of each id and renames later ones to
// "<id>-<n>", skipping suffixes already used by any record.
func uniqueIDs(events []domain.Event) []domain.Event {
	taken := make(map[string]bool, len(events))
	for _, e := range events {
		taken[e.ID] = true
	}
	kept := make(map[string]bool, len(events))
	for i := range events {
		id := events[i].ID
		if !kept[id] {
			kept[id] = true
			continue
		}
		n := 2
		for taken[fmt.Sprintf("%s-%d", id, n)] {
			n++
		}
		renamed := fmt.Sprintf("%s-%d", id, n)
		taken[renamed] = true
		kept[renamed] = true
		events[i].ID = renamed
	}
	return events
}

func cloneCoupons(in map[string]int) map[string]int {
	if in == nil {
		return nil
	}
	out := make(map[string]int, len(in))
	for code, n := range in {
		out[code] = n
	}
	return out
}
