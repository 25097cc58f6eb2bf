package storage

import (
	"time"

	"gorm.io/gorm"
)

// eventRow is the identity of an event; it is written once and never
// updated by later imports.
type eventRow struct {
	ID        string `gorm:"primaryKey"`
	Name      string
	Date      string `gorm:"index"`
	CreatedAt time.Time
}

func (eventRow) TableName() string { return "events" }

// metricsRow holds the imported figures of an event.
type metricsRow struct {
	EventID          string  `gorm:"primaryKey"`
	TotalRevenue     float64 `gorm:"not null"`
	TotalAudience    int     `gorm:"not null"`
	PayingAudience   int     `gorm:"not null"`
	DoorRevenue      float64 `gorm:"not null"`
	BarRevenueSystem float64 `gorm:"not null"`
	OnlineRevenue    float64 `gorm:"not null"`
	AvgAge           float64 `gorm:"not null"`
	SalesPOS         int     `gorm:"column:sales_pos;not null"`
	SalesSite        int     `gorm:"column:sales_site;not null"`
	SalesApp         int     `gorm:"column:sales_app;not null"`
	UpdatedAt        time.Time
}

func (metricsRow) TableName() string { return "event_metrics" }

// manualRow holds values typed in by hand. NULL means not informed.
type manualRow struct {
	EventID          string `gorm:"primaryKey"`
	Location         *string
	EventCost        *float64
	BarRevenueManual *float64
	UpdatedAt        time.Time
}

func (manualRow) TableName() string { return "manual_financials" }

type couponRow struct {
	ID         uint   `gorm:"primaryKey"`
	EventID    string `gorm:"index;not null"`
	Code       string `gorm:"not null"`
	UsageCount int    `gorm:"not null"`
}

func (couponRow) TableName() string { return "coupons" }

// AutoMigrate creates or updates every table of the sink.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&eventRow{}, &metricsRow{}, &manualRow{}, &couponRow{})
}
