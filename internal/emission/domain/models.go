package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// EmissionRecord is one activity occurrence with its computed CO2e.
// The referenced factor and calculated_co2e are frozen at creation;
// later factor versions never change historical records. The only
// post-creation mutation is setting overridden_co2e.
type EmissionRecord struct {
	ID             snowflake.ID `json:"id" gorm:"primaryKey"`
	FactorID       snowflake.ID `json:"factor_id" gorm:"not null;index"`
	ActivityName   string       `json:"activity_name" gorm:"type:text;not null;index:ix_records_source,priority:1"`
	ActivityValue  float64      `json:"activity_value" gorm:"not null"`
	ActivityUnit   string       `json:"activity_unit" gorm:"type:text;not null"`
	Scope          int          `json:"scope" gorm:"not null;index:ix_records_source,priority:2"`
	ActivityDate   time.Time    `json:"activity_date" gorm:"type:date;not null;index"`
	CalculatedCO2e float64      `json:"calculated_co2e" gorm:"column:calculated_co2e;not null"`
	OverriddenCO2e *float64     `json:"overridden_co2e" gorm:"column:overridden_co2e"`
	Location       string       `json:"location" gorm:"type:text"`
	Department     string       `json:"department" gorm:"type:text"`
	Notes          string       `json:"notes" gorm:"type:text"`
	CreatedAt      time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt      time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (EmissionRecord) TableName() string { return "emission_records" }

// EffectiveCO2e returns the override when present, else the calculated
// amount. Aggregations always read this value.
func (r EmissionRecord) EffectiveCO2e() float64 {
	if r.OverriddenCO2e != nil {
		return *r.OverriddenCO2e
	}
	return r.CalculatedCO2e
}
