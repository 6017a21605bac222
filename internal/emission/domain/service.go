package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	GetByID(ctx context.Context, id string) (*Response, error)
	Override(ctx context.Context, req OverrideRequest) (*Response, error)
}

type CreateRequest struct {
	ActivityName  string  `json:"activity_name"`
	ActivityValue float64 `json:"activity_value"`
	ActivityUnit  string  `json:"activity_unit"`
	Scope         int     `json:"scope"`
	ActivityDate  string  `json:"activity_date"`
	Location      string  `json:"location,omitempty"`
	Department    string  `json:"department,omitempty"`
	Notes         string  `json:"notes,omitempty"`
}

type OverrideRequest struct {
	ID             string  `json:"-"`
	OverriddenCO2e float64 `json:"overridden_co2e"`
	Notes          string  `json:"notes,omitempty"`
}

type Response struct {
	ID             string    `json:"id"`
	FactorID       string    `json:"factor_id"`
	ActivityName   string    `json:"activity_name"`
	ActivityValue  float64   `json:"activity_value"`
	ActivityUnit   string    `json:"activity_unit"`
	Scope          int       `json:"scope"`
	ActivityDate   string    `json:"activity_date"`
	CalculatedCO2e float64   `json:"calculated_co2e"`
	OverriddenCO2e *float64  `json:"overridden_co2e"`
	EffectiveCO2e  float64   `json:"effective_co2e"`
	Location       string    `json:"location"`
	Department     string    `json:"department"`
	Notes          string    `json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
}

var (
	ErrNotFound        = errors.New("record_not_found")
	ErrFutureDate      = errors.New("future_activity_date")
	ErrUnitMismatch    = errors.New("activity_unit_mismatch")
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidOverride = errors.New("invalid_override_value")
)

func ParseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(value)
}
