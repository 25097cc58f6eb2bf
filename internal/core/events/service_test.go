package events

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"events-service/internal/domain"
	"events-service/internal/observability"
	"events-service/internal/storage"
)

func ptr[T any](v T) *T { return &v }

func fixture(t *testing.T, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("..", "parser", "testdata", name))
	require.NoError(t, err)
	return string(b)
}

func fixtureSources(t *testing.T) Sources {
	return Sources{
		Report:  fixture(t, "report.csv"),
		Ledger:  fixture(t, "ledger.csv"),
		Tickets: fixture(t, "tickets.csv"),
	}
}

func newStores(t *testing.T) (*storage.Sink, *storage.OverrideStore) {
	t.Helper()
	dir := t.TempDir()
	sink, err := storage.OpenSink(filepath.Join(dir, "events.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sink.Close() })
	overrides, err := storage.OpenOverrides(filepath.Join(dir, "overrides.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = overrides.Close() })
	return sink, overrides
}

func TestReconcileRecordsMetrics(t *testing.T) {
	metrics := observability.NewMetrics()
	svc := NewService(zaptest.NewLogger(t), WithMetrics(metrics))

	events, err := svc.Reconcile(context.Background(), fixtureSources(t))
	require.NoError(t, err)
	require.NotEmpty(t, events)

	assert.Equal(t, 12.0, testutil.ToFloat64(metrics.Parsed("report")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.Parsed("tickets")))
	assert.Equal(t, 46.0, testutil.ToFloat64(metrics.Parsed("ledger")))
	assert.Equal(t, float64(len(events)), testutil.ToFloat64(metrics.Reconciled()))
	assert.Equal(t, float64(60-len(events)), testutil.ToFloat64(metrics.Filtered()))
}

func TestReconcileEmptySources(t *testing.T) {
	svc := NewService(nil)
	events, err := svc.Reconcile(context.Background(), Sources{})
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.True(t, Sources{}.Empty())
	assert.False(t, Sources{Ledger: "x"}.Empty())
}

func TestWithoutStores(t *testing.T) {
	ctx := context.Background()
	svc := NewService(nil)

	assert.ErrorIs(t, svc.Persist(ctx, nil), ErrNoSink)
	_, err := svc.Report(ctx)
	assert.ErrorIs(t, err, ErrNoSink)
	_, err = svc.SearchReport(ctx, "pista", 1)
	assert.ErrorIs(t, err, ErrNoSink)
	_, err = svc.ManualData(ctx, "evt-1")
	assert.ErrorIs(t, err, ErrNoOverrides)
	_, err = svc.SetManualData(ctx, "evt-1", domain.ManualData{EventCost: ptr(1.0)})
	assert.ErrorIs(t, err, ErrNoOverrides)
	assert.ErrorIs(t, svc.ClearManualData(ctx, "evt-1"), ErrNoOverrides)
}

func TestPersistAndReport(t *testing.T) {
	ctx := context.Background()
	sink, overrides := newStores(t)
	svc := NewService(zaptest.NewLogger(t), WithSink(sink), WithOverrides(overrides))

	events, err := svc.Reconcile(ctx, fixtureSources(t))
	require.NoError(t, err)
	require.NoError(t, svc.Persist(ctx, events))

	rows, err := svc.Report(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, len(events))

	coupons, err := sink.Coupons(ctx, "evt-2")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"PROMO10": 2}, coupons)

	found, err := svc.SearchReport(ctx, "brassa", 3)
	require.NoError(t, err)
	require.NotEmpty(t, found)
	assert.Equal(t, "evt-2026-01-09-Brassa", found[0].ID)
}

func TestManualData(t *testing.T) {
	ctx := context.Background()
	sink, overrides := newStores(t)
	svc := NewService(zaptest.NewLogger(t), WithSink(sink), WithOverrides(overrides))

	_, err := svc.ManualData(ctx, "evt-1")
	require.ErrorIs(t, err, storage.ErrNotFound)

	_, err = svc.SetManualData(ctx, "evt-1", domain.ManualData{})
	require.ErrorIs(t, err, ErrEmptyManualData)

	_, err = svc.SetManualData(ctx, "evt-1", domain.ManualData{EventCost: ptr(20000.0)})
	require.NoError(t, err)
	merged, err := svc.SetManualData(ctx, "evt-1", domain.ManualData{Location: ptr("Parque")})
	require.NoError(t, err)
	require.NotNil(t, merged.EventCost)
	assert.Equal(t, 20000.0, *merged.EventCost)

	got, err := svc.ManualData(ctx, "evt-1")
	require.NoError(t, err)
	assert.Equal(t, merged, got)

	// Reconciled events carry their manual data.
	events, err := svc.Reconcile(ctx, fixtureSources(t))
	require.NoError(t, err)
	var first *domain.Event
	for i := range events {
		if events[i].ID == "evt-1" {
			first = &events[i]
		}
	}
	require.NotNil(t, first)
	require.NotNil(t, first.ManualData)
	assert.Equal(t, "Parque", *first.ManualData.Location)

	// The sink mirrors the merged value.
	require.NoError(t, svc.Persist(ctx, events))
	row, err := sink.ReportRow(ctx, "evt-1")
	require.NoError(t, err)
	assert.Equal(t, "Parque", row.Local)
	assert.InDelta(t, 20000.0, row.CustoTotal, 1e-6)
	assert.NotZero(t, row.RoiPercent)

	analysis := svc.Analyze(events)
	assert.Equal(t, len(events), analysis.Summary.Events)
	assert.NotEmpty(t, analysis.Headline)
	assert.Len(t, analysis.Summary.ROI, 1)
	require.Len(t, analysis.Trends["evt-1"], 7)
	assert.Equal(t, first.DailySales[0].Revenue, analysis.Trends["evt-1"][0].Revenue)

	require.NoError(t, svc.ClearManualData(ctx, "evt-1"))
	require.ErrorIs(t, svc.ClearManualData(ctx, "evt-1"), storage.ErrNotFound)
	row, err = sink.ReportRow(ctx, "evt-1")
	require.NoError(t, err)
	assert.Equal(t, "Não Definido", row.Local)
	assert.Zero(t, row.RoiPercent)
}
