package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// BusinessMetric is one production/output measurement used as the
// denominator for intensity calculations. Append-only, one row per
// metric per reporting date.
type BusinessMetric struct {
	ID             snowflake.ID `json:"id" gorm:"primaryKey"`
	MetricName     string       `json:"metric_name" gorm:"type:text;not null;uniqueIndex:ux_metrics_name_date,priority:1"`
	MetricCategory string       `json:"metric_category" gorm:"type:text"`
	Value          float64      `json:"value" gorm:"not null"`
	Unit           string       `json:"unit" gorm:"type:text;not null"`
	MetricDate     time.Time    `json:"metric_date" gorm:"type:date;not null;uniqueIndex:ux_metrics_name_date,priority:2"`
	Notes          string       `json:"notes" gorm:"type:text"`
	CreatedAt      time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt      time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (BusinessMetric) TableName() string { return "business_metrics" }
