package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	ListNames(ctx context.Context) ([]MetricName, error)
}

// MetricName is one distinct metric identity, used to populate
// selection dropdowns.
type MetricName struct {
	MetricName     string `json:"metric_name" gorm:"column:metric_name"`
	MetricCategory string `json:"metric_category" gorm:"column:metric_category"`
	Unit           string `json:"unit" gorm:"column:unit"`
}

type CreateRequest struct {
	MetricName     string  `json:"metric_name"`
	MetricCategory string  `json:"metric_category,omitempty"`
	Value          float64 `json:"value"`
	Unit           string  `json:"unit"`
	MetricDate     string  `json:"metric_date"`
	Notes          string  `json:"notes,omitempty"`
}

type Response struct {
	ID             string    `json:"id"`
	MetricName     string    `json:"metric_name"`
	MetricCategory string    `json:"metric_category"`
	Value          float64   `json:"value"`
	Unit           string    `json:"unit"`
	MetricDate     string    `json:"metric_date"`
	Notes          string    `json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
}

var (
	ErrInvalidMetricName = errors.New("invalid_metric_name")
	ErrInvalidValue      = errors.New("invalid_metric_value")
	ErrInvalidUnit       = errors.New("invalid_metric_unit")
	ErrInvalidDate       = errors.New("invalid_metric_date")
	ErrFutureDate        = errors.New("future_metric_date")
	ErrDuplicate         = errors.New("duplicate_metric")
)

const dateLayout = "2006-01-02"

// ParseDate parses a wire date and normalizes it to UTC midnight.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t.UTC(), nil
}

// FormatDate renders a date in the wire format.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}
