package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, factor *EmissionFactor) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*EmissionFactor, error)
	// FindValid returns the single factor covering the date for the
	// activity/scope pair, preferring the latest valid_from and breaking
	// remaining ties by latest creation time. Returns nil when no
	// version covers the date.
	FindValid(ctx context.Context, db *gorm.DB, activityName string, scope int, date time.Time) (*EmissionFactor, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]EmissionFactor, error)
}

// ListFilter narrows factor listings; zero values mean "any".
type ListFilter struct {
	ActivityName string
	Scope        int
}
