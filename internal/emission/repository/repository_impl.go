package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	emissiondomain "github.com/verdantio/carbonledger/internal/emission/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() emissiondomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, rec *emissiondomain.EmissionRecord) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO emission_records (id, factor_id, activity_name, activity_value, activity_unit, scope, activity_date, calculated_co2e, overridden_co2e, location, department, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.FactorID,
		rec.ActivityName,
		rec.ActivityValue,
		rec.ActivityUnit,
		rec.Scope,
		rec.ActivityDate,
		rec.CalculatedCO2e,
		rec.OverriddenCO2e,
		rec.Location,
		rec.Department,
		rec.Notes,
		rec.CreatedAt,
		rec.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*emissiondomain.EmissionRecord, error) {
	var rec emissiondomain.EmissionRecord
	err := db.WithContext(ctx).Raw(
		`SELECT id, factor_id, activity_name, activity_value, activity_unit, scope, activity_date, calculated_co2e, overridden_co2e, location, department, notes, created_at, updated_at
		 FROM emission_records WHERE id = ?`,
		id,
	).Scan(&rec).Error
	if err != nil {
		return nil, err
	}
	if rec.ID == 0 {
		return nil, nil
	}
	return &rec, nil
}

func (r *repo) SetOverride(ctx context.Context, db *gorm.DB, id snowflake.ID, value float64, updatedAt time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE emission_records SET overridden_co2e = ?, updated_at = ? WHERE id = ?`,
		value,
		updatedAt,
		id,
	).Error
}

func (r *repo) ScopeTotals(ctx context.Context, db *gorm.DB, start, end time.Time) ([]emissiondomain.ScopeTotal, error) {
	var totals []emissiondomain.ScopeTotal
	err := db.WithContext(ctx).Raw(
		`SELECT scope, SUM(COALESCE(overridden_co2e, calculated_co2e)) AS total
		 FROM emission_records
		 WHERE activity_date >= ? AND activity_date <= ?
		 GROUP BY scope`,
		start,
		end,
	).Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return totals, nil
}

func (r *repo) PeriodTotal(ctx context.Context, db *gorm.DB, start, end time.Time) (float64, int64, error) {
	var row struct {
		Total float64 `gorm:"column:total"`
		Count int64   `gorm:"column:record_count"`
	}
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(COALESCE(overridden_co2e, calculated_co2e)), 0) AS total, COUNT(*) AS record_count
		 FROM emission_records
		 WHERE activity_date >= ? AND activity_date <= ?`,
		start,
		end,
	).Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	return row.Total, row.Count, nil
}

func (r *repo) SourceAggregates(ctx context.Context, db *gorm.DB, filter emissiondomain.AggregateFilter) ([]emissiondomain.SourceAggregate, error) {
	query := db.WithContext(ctx).Table("emission_records").
		Select("activity_name, scope, SUM(COALESCE(overridden_co2e, calculated_co2e)) AS total, COUNT(*) AS record_count")

	if filter.Start != nil {
		query = query.Where("activity_date >= ?", *filter.Start)
	}
	if filter.End != nil {
		query = query.Where("activity_date <= ?", *filter.End)
	}
	if filter.Scope != 0 {
		query = query.Where("scope = ?", filter.Scope)
	}

	var aggregates []emissiondomain.SourceAggregate
	err := query.Group("activity_name, scope").Order("total DESC").Scan(&aggregates).Error
	if err != nil {
		return nil, err
	}
	return aggregates, nil
}

func (r *repo) DailyTotals(ctx context.Context, db *gorm.DB, start, end time.Time) ([]emissiondomain.DailyTotal, error) {
	var totals []emissiondomain.DailyTotal
	err := db.WithContext(ctx).Raw(
		`SELECT activity_date, SUM(COALESCE(overridden_co2e, calculated_co2e)) AS total
		 FROM emission_records
		 WHERE activity_date >= ? AND activity_date <= ?
		 GROUP BY activity_date
		 ORDER BY activity_date ASC`,
		start,
		end,
	).Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return totals, nil
}
