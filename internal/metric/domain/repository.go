package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, metric *BusinessMetric) error
	// PeriodTotal sums metric values for the name over the inclusive
	// date range and carries the unit from the matching rows. found is
	// false when no row matched.
	PeriodTotal(ctx context.Context, db *gorm.DB, metricName string, start, end time.Time) (total float64, unit string, found bool, err error)
	DistinctNames(ctx context.Context, db *gorm.DB) ([]MetricName, error)
}
