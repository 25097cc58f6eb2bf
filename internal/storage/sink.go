// Package storage persists reconciled events. Sink is the relational
// report store (SQLite through gorm); OverrideStore keeps hand-typed
// values in a bbolt file.
package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"events-service/internal/domain"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Sink stores event metrics, coupons and manual financials.
type Sink struct {
	db *gorm.DB
}

// OpenSink opens (and migrates) the SQLite database at path.
func OpenSink(path string) (*Sink, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir banco %s: %w", path, err)
	}
	return NewSink(db)
}

// NewSink wraps an existing gorm handle and migrates the schema.
func NewSink(db *gorm.DB) (*Sink, error) {
	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("erro ao migrar schema: %w", err)
	}
	return &Sink{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *Sink) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveEventMetrics inserts the event if it is new and upserts its metrics.
// Door, bar and online revenue are kept from the first import.
func (s *Sink) SaveEventMetrics(ctx context.Context, e domain.Event) error {
	metrics := metricsRow{
		EventID:          e.ID,
		TotalRevenue:     e.TotalRevenue,
		TotalAudience:    e.TotalAudience,
		PayingAudience:   e.TotalPayingQty,
		DoorRevenue:      e.DoorRevenue,
		BarRevenueSystem: e.BarRevenue,
		OnlineRevenue:    e.OnlineRevenue,
		AvgAge:           e.AvgAge,
	}
	if e.SalesChannels != nil {
		metrics.SalesPOS = e.SalesChannels.POS
		metrics.SalesSite = e.SalesChannels.Site
		metrics.SalesApp = e.SalesChannels.App
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		evt := eventRow{ID: e.ID, Name: e.Name, Date: e.Date}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&evt).Error; err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "event_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"total_revenue", "total_audience", "paying_audience", "avg_age",
				"sales_pos", "sales_site", "sales_app", "updated_at",
			}),
		}).Create(&metrics).Error
	})
	if err != nil {
		return fmt.Errorf("erro ao salvar métricas do evento %s: %w", e.ID, err)
	}
	return nil
}

// SaveManualData upserts the hand-typed values of an event.
func (s *Sink) SaveManualData(ctx context.Context, eventID string, data domain.ManualData) error {
	row := manualRow{
		EventID:          eventID,
		Location:         data.Location,
		EventCost:        data.EventCost,
		BarRevenueManual: data.BarGrossRevenue,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"location", "event_cost", "bar_revenue_manual", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("erro ao salvar dados manuais do evento %s: %w", eventID, err)
	}
	return nil
}

// SaveCoupons replaces every coupon of the event. An empty map is a no-op.
func (s *Sink) SaveCoupons(ctx context.Context, eventID string, coupons map[string]int) error {
	if len(coupons) == 0 {
		return nil
	}
	codes := make([]string, 0, len(coupons))
	for code := range coupons {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	rows := make([]couponRow, 0, len(codes))
	for _, code := range codes {
		rows = append(rows, couponRow{EventID: eventID, Code: code, UsageCount: coupons[code]})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", eventID).Delete(&couponRow{}).Error; err != nil {
			return err
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return fmt.Errorf("erro ao salvar cupons do evento %s: %w", eventID, err)
	}
	return nil
}

// Coupons returns the stored coupon counts of an event.
func (s *Sink) Coupons(ctx context.Context, eventID string) (map[string]int, error) {
	var rows []couponRow
	if err := s.db.WithContext(ctx).Where("event_id = ?", eventID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("erro ao ler cupons do evento %s: %w", eventID, err)
	}
	out := make(map[string]int, len(rows))
	for _, r := range rows {
		out[r.Code] = r.UsageCount
	}
	return out, nil
}

const reportQuery = `
SELECT
	e.id,
	e.name AS evento,
	e.date AS data,
	COALESCE(mf.location, 'Não Definido') AS local,
	COALESCE(em.total_audience, 0) AS publico_total,
	COALESCE(em.paying_audience, 0) AS pagantes,
	COALESCE(em.total_revenue, 0) AS rec_bilheteria_total,
	COALESCE(em.door_revenue, 0) AS rec_porta,
	COALESCE(em.online_revenue, 0) AS rec_ticketeria,
	COALESCE(mf.bar_revenue_manual, em.bar_revenue_system, 0) AS rec_bar_final,
	COALESCE(em.avg_age, 0) AS idade_media,
	COALESCE(mf.event_cost, 0) AS custo_total,
	CASE
		WHEN COALESCE(mf.event_cost, 0) > 0 THEN
			((COALESCE(em.total_revenue, 0) + COALESCE(mf.bar_revenue_manual, em.bar_revenue_system, 0) - mf.event_cost) / mf.event_cost) * 100.0
		ELSE 0
	END AS roi_percent
FROM events e
LEFT JOIN event_metrics em ON e.id = em.event_id
LEFT JOIN manual_financials mf ON e.id = mf.event_id
ORDER BY e.date DESC, e.id ASC`

// GetReport returns one consolidated row per stored event, newest first.
func (s *Sink) GetReport(ctx context.Context) ([]domain.ReportRow, error) {
	rows := []domain.ReportRow{}
	if err := s.db.WithContext(ctx).Raw(reportQuery).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("erro ao gerar relatório: %w", err)
	}
	return rows, nil
}

// ReportRow returns the consolidated row of one event.
func (s *Sink) ReportRow(ctx context.Context, eventID string) (domain.ReportRow, error) {
	rows, err := s.GetReport(ctx)
	if err != nil {
		return domain.ReportRow{}, err
	}
	for _, r := range rows {
		if r.ID == eventID {
			return r, nil
		}
	}
	return domain.ReportRow{}, fmt.Errorf("evento %s: %w", eventID, ErrNotFound)
}
