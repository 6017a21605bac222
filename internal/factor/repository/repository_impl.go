package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	factordomain "github.com/verdantio/carbonledger/internal/factor/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() factordomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, f *factordomain.EmissionFactor) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO emission_factors (id, activity_name, scope, co2e_per_unit, activity_unit, source, valid_from, valid_to, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID,
		f.ActivityName,
		f.Scope,
		f.CO2ePerUnit,
		f.ActivityUnit,
		f.Source,
		f.ValidFrom,
		f.ValidTo,
		f.CreatedAt,
		f.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*factordomain.EmissionFactor, error) {
	var factor factordomain.EmissionFactor
	err := db.WithContext(ctx).Raw(
		`SELECT id, activity_name, scope, co2e_per_unit, activity_unit, source, valid_from, valid_to, created_at, updated_at
		 FROM emission_factors WHERE id = ?`,
		id,
	).Scan(&factor).Error
	if err != nil {
		return nil, err
	}
	if factor.ID == 0 {
		return nil, nil
	}
	return &factor, nil
}

func (r *repo) FindValid(ctx context.Context, db *gorm.DB, activityName string, scope int, date time.Time) (*factordomain.EmissionFactor, error) {
	var factor factordomain.EmissionFactor
	err := db.WithContext(ctx).Raw(
		`SELECT id, activity_name, scope, co2e_per_unit, activity_unit, source, valid_from, valid_to, created_at, updated_at
		 FROM emission_factors
		 WHERE activity_name = ? AND scope = ?
		   AND valid_from <= ?
		   AND (valid_to IS NULL OR valid_to >= ?)
		 ORDER BY valid_from DESC, created_at DESC, id DESC
		 LIMIT 1`,
		activityName,
		scope,
		date,
		date,
	).Scan(&factor).Error
	if err != nil {
		return nil, err
	}
	if factor.ID == 0 {
		return nil, nil
	}
	return &factor, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter factordomain.ListFilter) ([]factordomain.EmissionFactor, error) {
	query := db.WithContext(ctx).Table("emission_factors")
	if filter.ActivityName != "" {
		query = query.Where("activity_name = ?", filter.ActivityName)
	}
	if filter.Scope != 0 {
		query = query.Where("scope = ?", filter.Scope)
	}

	var factors []factordomain.EmissionFactor
	err := query.Order("activity_name ASC, scope ASC, valid_from DESC, created_at DESC").Find(&factors).Error
	if err != nil {
		return nil, err
	}
	return factors, nil
}
