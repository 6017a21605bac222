package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// EmissionFactor is one version of a conversion rate for an activity.
// Versions are append-only: overlapping validity windows are allowed and
// disambiguated at resolution time, never rewritten.
type EmissionFactor struct {
	ID           snowflake.ID `json:"id" gorm:"primaryKey"`
	ActivityName string       `json:"activity_name" gorm:"type:text;not null;index:ix_factors_lookup,priority:1"`
	Scope        int          `json:"scope" gorm:"not null;index:ix_factors_lookup,priority:2"`
	CO2ePerUnit  float64      `json:"co2e_per_unit" gorm:"column:co2e_per_unit;not null"`
	ActivityUnit string       `json:"activity_unit" gorm:"type:text;not null"`
	Source       string       `json:"source" gorm:"type:text"`
	ValidFrom    time.Time    `json:"valid_from" gorm:"type:date;not null;index:ix_factors_lookup,priority:3"`
	ValidTo      *time.Time   `json:"valid_to" gorm:"type:date"`
	CreatedAt    time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (EmissionFactor) TableName() string { return "emission_factors" }

// ValidOn reports whether the factor covers the given date. Both bounds
// are inclusive; a nil ValidTo means the window is open-ended.
func (f EmissionFactor) ValidOn(date time.Time) bool {
	if date.Before(f.ValidFrom) {
		return false
	}
	if f.ValidTo == nil {
		return true
	}
	return !date.After(*f.ValidTo)
}
