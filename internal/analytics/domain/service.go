package domain

import (
	"context"
	"errors"
)

type Service interface {
	YearOverYear(ctx context.Context, req YoYRequest) (*YoYResponse, error)
	Intensity(ctx context.Context, req IntensityRequest) (*IntensityResponse, error)
	Hotspots(ctx context.Context, req HotspotsRequest) (*HotspotsResponse, error)
	Monthly(ctx context.Context, req MonthlyRequest) (*MonthlyResponse, error)
}

type YoYRequest struct {
	CurrentYear  int `form:"current_year"`
	PreviousYear int `form:"previous_year"`
}

type YoYResponse struct {
	CurrentYear  YearSummary `json:"current_year"`
	PreviousYear YearSummary `json:"previous_year"`
	Comparison   Comparison  `json:"comparison"`
}

type YearSummary struct {
	Year   int              `json:"year"`
	Scopes []ScopeEmissions `json:"scopes"`
	Total  float64          `json:"total"`
}

type ScopeEmissions struct {
	Scope          int     `json:"scope"`
	TotalEmissions float64 `json:"total_emissions"`
}

type Comparison struct {
	Change           float64 `json:"change"`
	ChangePercentage float64 `json:"change_percentage"`
}

type IntensityRequest struct {
	StartDate  string `form:"start_date"`
	EndDate    string `form:"end_date"`
	MetricName string `form:"metric_name"`
}

type IntensityResponse struct {
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	MetricName      string  `json:"metric_name"`
	TotalEmissions  float64 `json:"total_emissions"`
	RecordCount     int64   `json:"record_count"`
	TotalProduction float64 `json:"total_production"`
	Unit            string  `json:"unit"`
	Intensity       float64 `json:"intensity"`
	IntensityUnit   string  `json:"intensity_unit"`
}

// HotspotsRequest fields are independently optional; zero values mean
// "no filter" (and the default limit).
type HotspotsRequest struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Scope     int    `form:"scope"`
	Limit     int    `form:"limit"`
}

type HotspotsResponse struct {
	TotalEmissions float64   `json:"total_emissions"`
	Hotspots       []Hotspot `json:"hotspots"`
}

type Hotspot struct {
	ActivityName     string  `json:"activity_name"`
	Scope            int     `json:"scope"`
	TotalEmissions   float64 `json:"total_emissions"`
	Percentage       float64 `json:"percentage"`
	RecordCount      int64   `json:"record_count"`
	AveragePerRecord float64 `json:"average_per_record"`
}

type MonthlyRequest struct {
	Year int `form:"year"`
}

type MonthlyResponse struct {
	Year   int          `json:"year"`
	Months []MonthTotal `json:"months"`
	Total  float64      `json:"total"`
}

type MonthTotal struct {
	Month          string  `json:"month"`
	TotalEmissions float64 `json:"total_emissions"`
}

var (
	ErrInvalidYear       = errors.New("invalid_year")
	ErrInvalidYearOrder  = errors.New("invalid_year_order")
	ErrInvalidDate       = errors.New("invalid_date")
	ErrInvalidDateRange  = errors.New("invalid_date_range")
	ErrDateRangeTooWide  = errors.New("date_range_too_wide")
	ErrInvalidMetricName = errors.New("invalid_metric_name")
	ErrInvalidScope      = errors.New("invalid_scope")
	ErrInvalidLimit      = errors.New("invalid_limit")
	ErrNoProductionData  = errors.New("no_production_data")
	ErrZeroProduction    = errors.New("zero_production")
)
