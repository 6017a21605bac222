package repository

import (
	"context"
	"time"

	metricdomain "github.com/verdantio/carbonledger/internal/metric/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() metricdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, m *metricdomain.BusinessMetric) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO business_metrics (id, metric_name, metric_category, value, unit, metric_date, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID,
		m.MetricName,
		m.MetricCategory,
		m.Value,
		m.Unit,
		m.MetricDate,
		m.Notes,
		m.CreatedAt,
		m.UpdatedAt,
	).Error
}

func (r *repo) PeriodTotal(ctx context.Context, db *gorm.DB, metricName string, start, end time.Time) (float64, string, bool, error) {
	var row struct {
		Total float64 `gorm:"column:total"`
		Unit  string  `gorm:"column:unit"`
		Rows  int64   `gorm:"column:row_count"`
	}
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(value), 0) AS total, MAX(unit) AS unit, COUNT(*) AS row_count
		 FROM business_metrics
		 WHERE metric_name = ? AND metric_date >= ? AND metric_date <= ?`,
		metricName,
		start,
		end,
	).Scan(&row).Error
	if err != nil {
		return 0, "", false, err
	}
	return row.Total, row.Unit, row.Rows > 0, nil
}

func (r *repo) DistinctNames(ctx context.Context, db *gorm.DB) ([]metricdomain.MetricName, error) {
	var names []metricdomain.MetricName
	err := db.WithContext(ctx).Raw(
		`SELECT DISTINCT metric_name, metric_category, unit
		 FROM business_metrics
		 ORDER BY metric_name ASC`,
	).Scan(&names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}
