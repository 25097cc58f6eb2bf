// Package events orchestrates parsing, reconciliation, persistence and
// analytics of event spreadsheets.
package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"events-service/internal/core/analytics"
	"events-service/internal/core/merge"
	"events-service/internal/core/parser"
	"events-service/internal/domain"
	"events-service/internal/observability"
	"events-service/internal/storage"
)

var (
	// ErrNoSink is returned by operations that need the report database
	// when the service was built without one.
	ErrNoSink = errors.New("persistência não configurada")
	// ErrNoOverrides is returned by manual data operations when the
	// service was built without an override store.
	ErrNoOverrides = errors.New("armazenamento de dados manuais não configurado")
	// ErrEmptyManualData is returned when no manual field is informed.
	ErrEmptyManualData = errors.New("nenhum dado manual informado")
)

// Sink persists reconciled events and serves the consolidated report.
type Sink interface {
	SaveEventMetrics(ctx context.Context, e domain.Event) error
	SaveManualData(ctx context.Context, eventID string, data domain.ManualData) error
	SaveCoupons(ctx context.Context, eventID string, coupons map[string]int) error
	GetReport(ctx context.Context) ([]domain.ReportRow, error)
}

// OverrideStore keeps hand-typed values per event.
type OverrideStore interface {
	Get(eventID string) (domain.ManualData, bool, error)
	Set(eventID string, data domain.ManualData) (domain.ManualData, error)
	Delete(eventID string) error
	All() (map[string]domain.ManualData, error)
}

// Sources are the texts of the three input documents. An empty text is an
// absent source.
type Sources struct {
	Report  string
	Ledger  string
	Tickets string
}

// Empty reports whether no source was given.
func (s Sources) Empty() bool {
	return strings.TrimSpace(s.Report) == "" && strings.TrimSpace(s.Ledger) == "" && strings.TrimSpace(s.Tickets) == ""
}

// Analysis is the dashboard view of a reconciled list.
type Analysis struct {
	Summary  analytics.Summary `json:"summary"`
	Coupons  analytics.Coupons `json:"coupons"`
	Headline string            `json:"headline"`
	// Trends maps the id of every event with daily sales to its chart.
	Trends map[string][]analytics.TrendPoint `json:"trends"`
}

// Service define as operações sobre eventos.
type Service interface {
	Reconcile(ctx context.Context, src Sources) ([]domain.Event, error)
	Persist(ctx context.Context, events []domain.Event) error
	Report(ctx context.Context) ([]domain.ReportRow, error)
	SearchReport(ctx context.Context, query string, n int) ([]domain.ReportRow, error)
	ManualData(ctx context.Context, eventID string) (domain.ManualData, error)
	SetManualData(ctx context.Context, eventID string, data domain.ManualData) (domain.ManualData, error)
	ClearManualData(ctx context.Context, eventID string) error
	Analyze(events []domain.Event) Analysis
}

// Option configures the service.
type Option func(*service)

// WithSink enables persistence and the report endpoints.
func WithSink(sink Sink) Option {
	return func(s *service) { s.sink = sink }
}

// WithOverrides enables manual data.
func WithOverrides(store OverrideStore) Option {
	return func(s *service) { s.overrides = store }
}

// WithMetrics records parse and merge counters.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *service) { s.metrics = m }
}

type service struct {
	logger    *zap.Logger
	sink      Sink
	overrides OverrideStore
	metrics   *observability.Metrics
}

// NewService cria uma nova instância do serviço de eventos.
func NewService(logger *zap.Logger, opts ...Option) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &service{logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Reconcile(ctx context.Context, src Sources) ([]domain.Event, error) {
	start := time.Now()

	report := parser.ParseReport(src.Report)
	tickets := parser.ParseTickets(src.Tickets)
	ledger := parser.ParseLedger(src.Ledger)
	s.logger.Info("fontes processadas",
		zap.Int("report", len(report)),
		zap.Int("tickets", len(tickets)),
		zap.Int("ledger", len(ledger)))

	merged := merge.Reconcile(report, tickets, ledger)

	if s.overrides != nil {
		all, err := s.overrides.All()
		if err != nil {
			return nil, fmt.Errorf("erro ao ler dados manuais: %w", err)
		}
		for i := range merged {
			if data, ok := all[merged[i].ID]; ok && !data.IsEmpty() {
				d := data
				merged[i].ManualData = &d
			}
		}
	}

	in := len(report) + len(tickets) + len(ledger)
	if s.metrics != nil {
		s.metrics.ObserveParsed("report", len(report))
		s.metrics.ObserveParsed("tickets", len(tickets))
		s.metrics.ObserveParsed("ledger", len(ledger))
		s.metrics.ObserveReconcile(in, len(merged), time.Since(start))
	}
	s.logger.Info("eventos reconciliados", zap.Int("entrada", in), zap.Int("saida", len(merged)))
	return merged, nil
}

func (s *service) Persist(ctx context.Context, events []domain.Event) error {
	if s.sink == nil {
		return ErrNoSink
	}
	for _, e := range events {
		if err := s.sink.SaveEventMetrics(ctx, e); err != nil {
			return err
		}
		if err := s.sink.SaveCoupons(ctx, e.ID, e.Coupons); err != nil {
			return err
		}
		s.logger.Debug("evento salvo", zap.String("id", e.ID))
	}
	s.logger.Info("eventos persistidos", zap.Int("total", len(events)))
	return nil
}

func (s *service) Report(ctx context.Context) ([]domain.ReportRow, error) {
	if s.sink == nil {
		return nil, ErrNoSink
	}
	return s.sink.GetReport(ctx)
}

func (s *service) SearchReport(ctx context.Context, query string, n int) ([]domain.ReportRow, error) {
	rows, err := s.Report(ctx)
	if err != nil {
		return nil, err
	}
	return searchRows(rows, query, n), nil
}

func (s *service) ManualData(ctx context.Context, eventID string) (domain.ManualData, error) {
	if s.overrides == nil {
		return domain.ManualData{}, ErrNoOverrides
	}
	data, found, err := s.overrides.Get(eventID)
	if err != nil {
		return domain.ManualData{}, err
	}
	if !found {
		return domain.ManualData{}, fmt.Errorf("evento %s: %w", eventID, storage.ErrNotFound)
	}
	return data, nil
}

func (s *service) SetManualData(ctx context.Context, eventID string, data domain.ManualData) (domain.ManualData, error) {
	if s.overrides == nil {
		return domain.ManualData{}, ErrNoOverrides
	}
	if data.IsEmpty() {
		return domain.ManualData{}, ErrEmptyManualData
	}
	merged, err := s.overrides.Set(eventID, data)
	if err != nil {
		return domain.ManualData{}, err
	}
	if s.sink != nil {
		if err := s.sink.SaveManualData(ctx, eventID, merged); err != nil {
			return domain.ManualData{}, err
		}
	}
	s.logger.Info("dados manuais salvos", zap.String("id", eventID))
	return merged, nil
}

func (s *service) ClearManualData(ctx context.Context, eventID string) error {
	if s.overrides == nil {
		return ErrNoOverrides
	}
	if err := s.overrides.Delete(eventID); err != nil {
		return err
	}
	if s.sink != nil {
		if err := s.sink.SaveManualData(ctx, eventID, domain.ManualData{}); err != nil {
			return err
		}
	}
	s.logger.Info("dados manuais removidos", zap.String("id", eventID))
	return nil
}

func (s *service) Analyze(events []domain.Event) Analysis {
	summary := analytics.Summarize(events)
	trends := make(map[string][]analytics.TrendPoint)
	for _, e := range events {
		if len(e.DailySales) > 0 {
			trends[e.ID] = analytics.DailyTrend(e)
		}
	}
	return Analysis{
		Summary:  summary,
		Coupons:  analytics.CouponStats(events),
		Headline: analytics.Headline(summary),
		Trends:   trends,
	}
}
