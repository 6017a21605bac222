package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, record *EmissionRecord) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*EmissionRecord, error)
	SetOverride(ctx context.Context, db *gorm.DB, id snowflake.ID, value float64, updatedAt time.Time) error

	// Aggregations read COALESCE(overridden_co2e, calculated_co2e).
	ScopeTotals(ctx context.Context, db *gorm.DB, start, end time.Time) ([]ScopeTotal, error)
	PeriodTotal(ctx context.Context, db *gorm.DB, start, end time.Time) (total float64, count int64, err error)
	SourceAggregates(ctx context.Context, db *gorm.DB, filter AggregateFilter) ([]SourceAggregate, error)
	DailyTotals(ctx context.Context, db *gorm.DB, start, end time.Time) ([]DailyTotal, error)
}

// AggregateFilter narrows hotspot grouping; each field is independently
// optional.
type AggregateFilter struct {
	Start *time.Time
	End   *time.Time
	Scope int
}

type ScopeTotal struct {
	Scope int     `gorm:"column:scope"`
	Total float64 `gorm:"column:total"`
}

type SourceAggregate struct {
	ActivityName string  `gorm:"column:activity_name"`
	Scope        int     `gorm:"column:scope"`
	Total        float64 `gorm:"column:total"`
	Count        int64   `gorm:"column:record_count"`
}

type DailyTotal struct {
	ActivityDate time.Time `gorm:"column:activity_date"`
	Total        float64   `gorm:"column:total"`
}
